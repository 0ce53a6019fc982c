package app

import (
	"context"
	"fmt"

	"github.com/libforge/libforge/internal/ctxlog"
	"github.com/libforge/libforge/internal/dag"
	"github.com/libforge/libforge/internal/executor"
)

// Run executes the build: graph construction, then concurrent execution.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	a.logger.Debug("Building dependency graph from config model...")
	graph, err := dag.Build(ctx, a.model, a.registry)
	if err != nil {
		return fmt.Errorf("failed to build dependency graph: %w", err)
	}
	a.logger.Debug("Dependency graph built.", "node_count", graph.Len())

	if graph.Len() == 0 {
		a.logger.Warn("No targets found in configuration, nothing to build.")
		return nil
	}

	a.logger.Info("🚀 Starting build...", "targets", graph.Len(), "workers", a.cfg.Workers, "output_dir", a.outputDir)
	exec := executor.New(graph, a.cfg.Workers, a.registry, a.tools, a.outputDir)
	if err := exec.Run(ctx); err != nil {
		return fmt.Errorf("build failed: %w", err)
	}
	a.logger.Info("🏁 Build finished.")

	a.logger.Debug("App.Run method finished.")
	return nil
}
