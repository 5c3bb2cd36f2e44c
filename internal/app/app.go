package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/coursegrid/internal/ctxlog"
	"github.com/vk/coursegrid/internal/render"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
}

// NewApp is the constructor for the main application. Command output goes to
// outW and logs to logW, through an isolated logger.
func NewApp(outW, logW io.Writer, cfg *Config) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.", "command", cfg.Command)

	if cfg.NoColor {
		render.Disable()
	}

	return &App{
		outW:   outW,
		logger: logger,
		config: cfg,
	}
}

// Run executes the configured command.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")
	defer a.logger.Debug("App.Run method finished.")

	switch a.config.Command {
	case CommandShow:
		return a.show(ctx)
	case CommandCascade:
		return a.cascade(ctx)
	case CommandServe:
		return a.serve(ctx)
	case CommandScrape:
		return a.scrape(ctx)
	case CommandList:
		return a.list(ctx)
	case CommandRemote:
		return a.remote(ctx)
	default:
		return fmt.Errorf("unknown command %q", a.config.Command)
	}
}
