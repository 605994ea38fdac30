package client

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/8thgencore/respkv/internal/resp"
)

// ErrNoReply is returned when the server writes nothing before the read
// deadline. The server stays silent on commands it does not support.
// The connection is dropped when it happens, since a late reply would otherwise
// be read as the answer to the next command.
var ErrNoReply = errors.New("no reply from server")

// ErrNotConnected is returned by Do before Connect, or after a dropped connection
var ErrNotConnected = errors.New("client is not connected")

// Client represents a client for connecting to the server
type Client struct {
	address string
	timeout time.Duration
	conn    net.Conn
	reader  *resp.Reader
}

// New creates a new instance of the client. A zero timeout waits for replies forever.
func New(address string, timeout time.Duration) *Client {
	return &Client{
		address: address,
		timeout: timeout,
	}
}

// Connect establishes a connection to the server
func (c *Client) Connect() error {
	conn, err := net.Dial("tcp", c.address)
	if err != nil {
		return fmt.Errorf("failed to connect to server: %w", err)
	}
	c.conn = conn
	c.reader = resp.NewReader(conn, resp.Limits{})

	return nil
}

// Close closes the connection
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}

	err := c.conn.Close()
	c.conn = nil
	c.reader = nil

	return err
}

// Do sends args as a request and waits for a single reply
func (c *Client) Do(args ...string) (resp.Value, error) {
	if c.conn == nil {
		return nil, ErrNotConnected
	}

	// Send command to server
	if err := resp.WriteValue(c.conn, resp.BulkArray(args...)); err != nil {
		return nil, fmt.Errorf("failed to send command: %w", err)
	}

	if c.timeout > 0 {
		if err := c.conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
			return nil, fmt.Errorf("failed to set read deadline: %w", err)
		}
	}

	reply, err := c.reader.Decode()
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			_ = c.Close()
			return nil, ErrNoReply
		}
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return reply, nil
}

// Run starts the interactive client mode
func (c *Client) Run(in io.Reader, out io.Writer) error {
	defer func() {
		_ = c.Close()
	}()

	reader := bufio.NewReader(in)
	fmt.Fprintln(out, "Connected to respkv server. Type 'exit' to quit.")

	for {
		fmt.Fprint(out, "> ")
		input, err := reader.ReadString('\n')
		input = strings.TrimSpace(input)

		if input == "exit" || (err != nil && input == "") {
			fmt.Fprintln(out, "Goodbye!")
			return nil
		}
		if input == "" {
			continue
		}

		reply, err := c.Do(strings.Fields(input)...)
		if errors.Is(err, ErrNoReply) {
			fmt.Fprintln(out, "(no reply)")
			if err := c.Connect(); err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return fmt.Errorf("command error: %w", err)
		}

		fmt.Fprintln(out, Format(reply))
	}
}

// Format renders a reply the way redis-cli does
func Format(v resp.Value) string {
	return format(v, "")
}

func format(v resp.Value, indent string) string {
	switch t := v.(type) {
	case resp.SimpleString:
		return string(t)
	case resp.BulkString:
		return strconv.Quote(string(t))
	case resp.Array:
		if len(t) == 0 {
			return "(empty array)"
		}
		var sb strings.Builder
		for i, item := range t {
			if i > 0 {
				sb.WriteString("\n" + indent)
			}
			prefix := fmt.Sprintf("%d) ", i+1)
			sb.WriteString(prefix)
			sb.WriteString(format(item, indent+strings.Repeat(" ", len(prefix))))
		}
		return sb.String()
	}

	return "(nil)"
}
