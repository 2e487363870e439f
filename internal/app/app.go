package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/RayMarquina/dbt-project-sub004/internal/builder"
	"github.com/RayMarquina/dbt-project-sub004/internal/config"
	"github.com/RayMarquina/dbt-project-sub004/internal/ctxlog"
	"github.com/RayMarquina/dbt-project-sub004/internal/diagnostics"
	"github.com/RayMarquina/dbt-project-sub004/internal/metrics"
	"github.com/RayMarquina/dbt-project-sub004/internal/progress"
	"github.com/RayMarquina/dbt-project-sub004/internal/topology"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW       io.Writer
	logger     *slog.Logger
	config     *Config
	model      *config.Model
	store      *topology.Store
	diags      *diagnostics.Context
	tracker    *progress.Tracker
	metrics    *metrics.Metrics
	httpServer *http.Server
}

// NewApp is the constructor for the main application. It loads the project
// and builds its node registry with an isolated logger.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader) (*App, error) {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	// Load all configuration into the format-agnostic model first.
	model, err := loader.Load(ctx, appConfig.ProjectDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Debug("Configuration loaded and translated into unified model.", "resources", len(model.Resources))

	store, err := builder.Build(ctx, model)
	if err != nil {
		return nil, fmt.Errorf("failed to build dependency graph: %w", err)
	}

	return &App{
		outW:    outW,
		logger:  logger,
		config:  appConfig,
		model:   model,
		store:   store,
		diags:   diagnostics.New(logger),
		tracker: progress.NewTracker(),
		metrics: metrics.New(),
	}, nil
}

// Store returns the project's node registry. This is primarily for testing.
func (a *App) Store() *topology.Store {
	return a.store
}

// Diagnostics returns the warnings raised so far. This is primarily for testing.
func (a *App) Diagnostics() *diagnostics.Context {
	return a.diags
}
