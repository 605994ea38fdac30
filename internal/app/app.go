package app

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/8thgencore/respkv/internal/compute"
	"github.com/8thgencore/respkv/internal/config"
	"github.com/8thgencore/respkv/internal/resp"
	"github.com/8thgencore/respkv/internal/server"
	"github.com/8thgencore/respkv/internal/storage"
	"github.com/8thgencore/respkv/pkg/logger"
)

// App represents the main application
type App struct {
	cfg    *config.Config
	log    *slog.Logger
	server *server.Server
}

// New creates a new instance of the application from a loaded configuration
func New(cfg *config.Config) *App {
	// Initialize logger
	log := logger.New(cfg.Env, cfg.Logging)

	// Initialize storage engine, shared by every connection
	engine := storage.NewEngine()

	// Initialize command handler
	handler := compute.NewHandler(log, engine)

	// Initialize server
	srv := server.NewServer(log, &cfg.Network, Limits(cfg.Protocol), handler)

	return &App{
		cfg:    cfg,
		log:    log,
		server: srv,
	}
}

// Run starts the application and blocks until ctx is cancelled
func (a *App) Run(ctx context.Context) error {
	a.log.Info("Starting application", "env", a.cfg.Env)

	if err := a.server.Start(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	a.log.Info("Application stopped")

	return nil
}

// Limits converts the protocol configuration into decoder limits
func Limits(cfg config.ProtocolConfig) resp.Limits {
	maxLine := int(min(cfg.MaxLineSizeBytes, uint64(math.MaxInt)))

	return resp.Limits{
		MaxLineSize: maxLine,
		MaxArrayLen: cfg.MaxArrayLen,
		MaxDepth:    cfg.MaxDepth,
	}
}
