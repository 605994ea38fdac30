package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/8thgencore/respkv/internal/compute"
	"github.com/8thgencore/respkv/internal/config"
	"github.com/8thgencore/respkv/internal/resp"
	"github.com/8thgencore/respkv/pkg/logger/sl"
)

// Backoff bounds between failed Accept calls, as in net/http.
const (
	minAcceptDelay = 5 * time.Millisecond
	maxAcceptDelay = time.Second
)

// Server is the server struct
type Server struct {
	log           *slog.Logger
	config        *config.NetworkConfig
	limits        resp.Limits
	handler       *compute.Handler
	connections   sync.WaitGroup
	connCount     int32
	connCountLock sync.Mutex

	mu       sync.Mutex // guards listener, conns and closed
	listener net.Listener
	conns    map[net.Conn]struct{}
	closed   bool
}

// NewServer creates a new server
func NewServer(
	log *slog.Logger,
	config *config.NetworkConfig,
	limits resp.Limits,
	handler *compute.Handler,
) *Server {
	return &Server{
		log:     log,
		config:  config,
		limits:  limits,
		handler: handler,
		conns:   make(map[net.Conn]struct{}),
	}
}

// Start listens on the configured address and serves until ctx is cancelled
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return s.Serve(ctx, listener)
}

// Serve accepts connections on listener, one goroutine per connection. When ctx
// is cancelled it closes the listener and every open connection, waits for the
// connection goroutines and returns nil.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	stop := context.AfterFunc(ctx, s.shutdown)
	defer stop()

	s.log.Info("Server started", "address", listener.Addr().String())

	var tempDelay time.Duration // how long to sleep on accept failure
	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				s.connections.Wait()
				s.log.Info("Server stopped")
				return nil
			}

			if tempDelay == 0 {
				tempDelay = minAcceptDelay
			} else {
				tempDelay = min(2*tempDelay, maxAcceptDelay)
			}
			s.log.Error("Failed to accept connection", sl.Err(err), "retry_in", tempDelay)

			select {
			case <-time.After(tempDelay):
			case <-ctx.Done():
			}
			continue
		}
		tempDelay = 0

		if !s.canAcceptConnection() {
			s.log.Warn("Max connections reached, rejecting connection", sl.Conn(conn))
			if err := conn.Close(); err != nil {
				s.log.Error("Failed to close connection", sl.Err(err))
			}

			continue
		}

		if !s.track(conn) {
			_ = conn.Close()
			s.decrementConnCount()
			continue
		}

		s.connections.Add(1)
		go s.handleConnection(conn)
	}
}

// handleConnection runs the request loop of one connection: decode a request,
// dispatch it, write and flush the reply, repeat. Any decode or transport error
// ends the loop and closes the connection.
func (s *Server) handleConnection(conn net.Conn) {
	defer func() {
		s.untrack(conn)
		if err := conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			s.log.Error("Failed to close connection", sl.Err(err))
		}
		s.connections.Done()
		s.decrementConnCount()
	}()

	s.log.Info("New connection established", sl.Conn(conn))

	reader := resp.NewReader(conn, s.limits)
	writer := bufio.NewWriter(conn)
	for {
		if s.config.IdleTimeout > 0 {
			if err := conn.SetReadDeadline(time.Now().Add(s.config.IdleTimeout)); err != nil {
				s.log.Error("Failed to set read deadline", sl.Err(err))
				return
			}
		}

		req, err := reader.Decode()
		if err != nil {
			s.logReadError(conn, err)
			return
		}

		reply := s.handler.Handle(req)
		if reply == nil {
			continue
		}

		if _, err := writer.Write(reply); err != nil {
			s.log.Error("Failed to write response", sl.Conn(conn), sl.Err(err))
			return
		}
		if err := writer.Flush(); err != nil {
			s.log.Error("Failed to flush response", sl.Conn(conn), sl.Err(err))
			return
		}
	}
}

func (s *Server) logReadError(conn net.Conn, err error) {
	var netErr net.Error

	switch {
	case errors.Is(err, io.EOF):
		s.log.Info("Client disconnected", sl.Conn(conn))
	case errors.Is(err, net.ErrClosed):
		s.log.Info("Connection closed by server", sl.Conn(conn))
	case errors.As(err, &netErr) && netErr.Timeout():
		s.log.Info("Closing idle connection", sl.Conn(conn))
	case errors.Is(err, resp.ErrProtocol):
		s.log.Error("Failed to decode request", sl.Conn(conn), sl.Err(err))
	default:
		s.log.Error("Failed to read from connection", sl.Conn(conn), sl.Err(err))
	}
}

// canAcceptConnection checks if the server can accept a new connection
func (s *Server) canAcceptConnection() bool {
	s.connCountLock.Lock()
	defer s.connCountLock.Unlock()

	if s.config.MaxConnections > 0 && int(s.connCount) >= s.config.MaxConnections {
		return false
	}

	s.connCount++

	return true
}

// decrementConnCount decrements the connection count
func (s *Server) decrementConnCount() {
	s.connCountLock.Lock()
	s.connCount--
	s.connCountLock.Unlock()
}

func (s *Server) track(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	s.conns[conn] = struct{}{}

	return true
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
}

func (s *Server) shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	if s.listener != nil {
		if err := s.listener.Close(); err != nil {
			s.log.Error("Failed to close listener", sl.Err(err))
		}
	}
	for conn := range s.conns {
		_ = conn.Close()
	}
}
