package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/specialistvlad/foilsweep/internal/config"
	"github.com/specialistvlad/foilsweep/internal/ctxlog"
	"github.com/specialistvlad/foilsweep/internal/sweep"
)

// Solver is what the app needs from a solver backend.
type Solver interface {
	sweep.Solver
	// Check fails with solver.ErrUnavailable when the backend cannot run.
	Check() error
}

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW       io.Writer
	ctx        context.Context
	logger     *slog.Logger
	config     *Config
	httpServer *http.Server

	// newSolver builds the backend once the sweep file is loaded.
	newSolver func(config.Solver) Solver
	progress  atomic.Pointer[sweep.Progress]
}

// Option customizes an App.
type Option func(*App)

// WithSolver replaces the subprocess backend, mostly for tests.
func WithSolver(newSolver func(config.Solver) Solver) Option {
	return func(a *App) {
		a.newSolver = newSolver
	}
}

// NewApp is the constructor for the main application. It returns an App
// with its own isolated logger; nothing is loaded until Run.
func NewApp(outW io.Writer, cfg *Config, opts ...Option) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	a := &App{
		outW:      outW,
		ctx:       ctxlog.WithLogger(context.Background(), logger),
		logger:    logger,
		config:    cfg,
		newSolver: newAdapter,
	}
	for _, opt := range opts {
		opt(a)
	}
	logger.Debug("Logger configured successfully.")
	return a
}

// Progress returns the counters of the running sweep, or a zero snapshot
// before the sweep has started.
func (a *App) Progress() sweep.Snapshot {
	if p := a.progress.Load(); p != nil {
		return p.Snapshot()
	}
	return sweep.Snapshot{}
}
