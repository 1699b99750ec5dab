// Package svcctx carries the per-run services through context so commands
// and the pipeline share one logger, workspace and configuration.
package svcctx

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jackzampolin/wahlzettel/internal/config"
	"github.com/jackzampolin/wahlzettel/internal/home"
)

// Services holds the core services that flow through context.
type Services struct {
	RunID  string
	Logger *slog.Logger
	Home   *home.Dir
	Config *config.Manager
}

// New builds Services for one run. The logger gets a fresh run_id
// attribute so interleaved runs can be told apart in the log.
func New(logger *slog.Logger, h *home.Dir, cfg *config.Manager) *Services {
	if logger == nil {
		logger = slog.Default()
	}
	runID := uuid.NewString()
	return &Services{
		RunID:  runID,
		Logger: logger.With("run_id", runID),
		Home:   h,
		Config: cfg,
	}
}

type servicesKey struct{}

// WithServices returns a new context with services attached.
func WithServices(ctx context.Context, s *Services) context.Context {
	return context.WithValue(ctx, servicesKey{}, s)
}

// ServicesFrom extracts the full Services struct from context.
// Returns nil if not present.
func ServicesFrom(ctx context.Context) *Services {
	s, _ := ctx.Value(servicesKey{}).(*Services)
	return s
}

// LoggerFrom extracts the logger from context, falling back to the
// default logger.
func LoggerFrom(ctx context.Context) *slog.Logger {
	if s := ServicesFrom(ctx); s != nil && s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// HomeFrom extracts the workspace from context.
func HomeFrom(ctx context.Context) *home.Dir {
	if s := ServicesFrom(ctx); s != nil {
		return s.Home
	}
	return nil
}

// ConfigFrom extracts the config manager from context.
func ConfigFrom(ctx context.Context) *config.Manager {
	if s := ServicesFrom(ctx); s != nil {
		return s.Config
	}
	return nil
}
