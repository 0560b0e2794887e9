package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/rzaytsev/flowbind/internal/contextstore"
	"github.com/rzaytsev/flowbind/internal/contextstore/memory"
	"github.com/rzaytsev/flowbind/internal/contextstore/sqlite"
	"github.com/rzaytsev/flowbind/internal/ctxlog"
	"github.com/rzaytsev/flowbind/internal/devhost"
	"github.com/rzaytsev/flowbind/node"
	"github.com/rzaytsev/flowbind/registry"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle: one logger, one context store, one development host with the
// node set registered.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	cfg    *Config
	store  contextstore.Store
	host   *devhost.Host

	adminServer *http.Server
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and host, and the
// given node definitions registered. With no definitions, the built-in set
// is registered instead.
//
// Startup failures here are fatal programmer or configuration errors, so
// NewApp panics; the CLI entrypoint recovers and turns the panic into a
// clean exit.
func NewApp(outW io.Writer, cfg *Config, defs ...node.Definition) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	store, err := openStore(cfg)
	if err != nil {
		panic(fmt.Errorf("failed to open context store: %w", err))
	}
	logger.Debug("Context store opened.", "backend", cfg.ContextStore)

	h := devhost.New(devhost.Options{
		Name:    "flowbind",
		Logger:  logger,
		Context: store,
	})

	if len(defs) == 0 {
		defs = builtinNodes()
	}
	if err := registry.Register(ctx, h, defs...); err != nil {
		panic(fmt.Errorf("failed to register node types: %w", err))
	}
	logger.Debug("Node types registered.", "count", len(defs))

	return &App{
		outW:   outW,
		logger: logger,
		cfg:    cfg,
		store:  store,
		host:   h,
	}
}

// openStore builds the configured context store backend.
func openStore(cfg *Config) (contextstore.Store, error) {
	switch cfg.ContextStore {
	case StoreSQLite:
		return sqlite.Open(cfg.ContextDB)
	default:
		return memory.New(), nil
	}
}

// Host returns the application's host. This is primarily for testing.
func (a *App) Host() *devhost.Host {
	return a.host
}
