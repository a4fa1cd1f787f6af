package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"resty.dev/v3"

	"github.com/vk/stepflow/internal/ctxlog"
	"github.com/vk/stepflow/internal/pipeline"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle. outW receives log output; uiW receives the live progress
// display.
type App struct {
	outW   io.Writer
	uiW    io.Writer
	logger *slog.Logger
	config *Config
	model  *pipeline.Config
	client *resty.Client
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and HTTP client.
// A failure to load the pipeline configuration is a fatal startup error
// and panics; the CLI entry point recovers and reports it.
func NewApp(outW, uiW io.Writer, appConfig *Config, loader *pipeline.Loader) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model, err := loader.Load(ctx, appConfig.PipelinePath)
	if err != nil {
		panic(fmt.Errorf("failed to load pipeline configuration: %w", err))
	}
	logger.Debug("Pipeline configuration loaded.",
		"steps", len(model.Steps), "groups", len(model.Groups))

	return &App{
		outW:   outW,
		uiW:    uiW,
		logger: logger,
		config: appConfig,
		model:  model,
		client: resty.New(),
	}
}

// Model returns the loaded pipeline configuration. Primarily for testing.
func (a *App) Model() *pipeline.Config {
	return a.model
}
