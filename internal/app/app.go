package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/vk/taskmill/internal/config"
	"github.com/vk/taskmill/internal/ctxlog"
	"github.com/vk/taskmill/internal/hcl"
	"github.com/vk/taskmill/internal/invoke"
	"github.com/vk/taskmill/internal/yaml"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle.
type App struct {
	outW    io.Writer
	logger  *slog.Logger
	model   *config.Model
	runners *invoke.Registry
	spawner invoke.Spawner
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with the descriptor loaded and the default
// script runners registered. Descriptor load failures are fatal startup
// errors and panic; the entrypoint recovers them into a clean exit.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model, err := loader.Load(ctx, appConfig.DescriptorPath)
	if err != nil {
		panic(fmt.Errorf("failed to load descriptor: %w", err))
	}
	logger.Debug("Descriptor loaded and translated into unified model.")

	spawner := &invoke.ExecSpawner{}
	runners := invoke.NewRegistry()
	runners.Register("shell", &invoke.ShellRunner{Spawner: spawner})
	logger.Debug("Default script runners registered.")

	return &App{
		outW:    outW,
		logger:  logger,
		model:   model,
		runners: runners,
		spawner: spawner,
	}
}

// Model returns the loaded descriptor model. This is primarily for testing.
func (a *App) Model() *config.Model {
	return a.model
}

// Runners returns the script runner registry so callers can install
// additional runner capabilities before Run.
func (a *App) Runners() *invoke.Registry {
	return a.runners
}

// LoaderFor picks a descriptor loader from the path's extension. Directories
// load as HCL descriptor trees.
func LoaderFor(path string) (config.Loader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hcl", "":
		return hcl.NewLoader(), nil
	case ".yml", ".yaml":
		return yaml.NewLoader(), nil
	default:
		return nil, fmt.Errorf("unsupported descriptor format %q", filepath.Ext(path))
	}
}
