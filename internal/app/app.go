// Package app wires the toolkit together: settings, logging, the action
// registry with its client modules, the build-time command tree compiler,
// and the run-time parser and dispatcher.
package app

import (
	"io"
	"log/slog"

	"github.com/gactlab/gaction/internal/registry"
	"github.com/gactlab/gaction/internal/settings"
)

// App encapsulates the toolkit's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	settings *settings.Settings
}

// New is the constructor for the toolkit application. It returns a fully
// initialized App with its own isolated logger and registry.
func New(outW io.Writer, set *settings.Settings, modules ...registry.Module) *App {
	logger := newLogger(set.LogLevel, set.LogFormat)
	logger.Debug("Logger configured successfully.")

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All client modules registered.", "count", len(modules), "actions", len(reg.Names()))

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		settings: set,
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}
