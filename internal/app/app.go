package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/libforge/libforge/internal/config"
	"github.com/libforge/libforge/internal/ctxlog"
	"github.com/libforge/libforge/internal/registry"
	"github.com/libforge/libforge/internal/toolchain"
)

// defaultOutputDir is used when neither configuration nor flags choose one.
const defaultOutputDir = "out"

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW      io.Writer
	logger    *slog.Logger
	registry  *registry.Registry
	model     *config.Model
	tools     *toolchain.Toolchain
	outputDir string
	cfg       *Config
}

// New is the constructor for the main application. It loads the forge
// configuration through the given loader and returns a fully initialized App
// with its own isolated logger and registry.
func New(outW io.Writer, cfg *Config, loader config.Loader, modules ...registry.Module) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model, err := loader.Load(ctx, cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("Target kind handlers registered.", "kinds", reg.Kinds())

	if err := reg.Validate(model); err != nil {
		return nil, err
	}

	outputDir := model.OutputDir
	if cfg.OutputDir != "" {
		outputDir = cfg.OutputDir
	}
	if outputDir == "" {
		outputDir = defaultOutputDir
	}

	return &App{
		outW:      outW,
		logger:    logger,
		registry:  reg,
		model:     model,
		tools:     toolchain.New(model.Toolchain),
		outputDir: outputDir,
		cfg:       cfg,
	}, nil
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Targets returns the declared targets sorted by address.
func (a *App) Targets() []*config.Target {
	targets := make([]*config.Target, 0, len(a.model.Targets))
	for _, t := range a.model.Targets {
		targets = append(targets, t)
	}
	sort.Slice(targets, func(i, j int) bool { return targets[i].Address() < targets[j].Address() })
	return targets
}
