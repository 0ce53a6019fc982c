package executor

import (
	"context"
	"fmt"

	"github.com/libforge/libforge/internal/ctxlog"
	"github.com/libforge/libforge/internal/dag"
	"github.com/libforge/libforge/internal/registry"
)

// worker is the core processing loop for a single concurrent worker.
func (e *Executor) worker(ctx context.Context, readyChan chan *dag.Node, cancel context.CancelFunc, workerID int) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Worker started.", "workerID", workerID)

	for n := range readyChan {
		workerLogger := logger.With("workerID", workerID, "nodeID", n.ID)

		if ctx.Err() != nil {
			n.Skip(ctx.Err(), &e.wg)
			continue
		}

		workerLogger.Debug("Worker picked up node.")
		n.SetState(dag.Running)

		if err := e.buildNode(ctx, n); err != nil {
			workerLogger.Error("Target build failed.", "error", err)
			n.SetState(dag.Failed)
			n.Err = err
			cancel()
			e.skipDependents(ctx, n)
			e.wg.Done()
			continue
		}

		workerLogger.Debug("Target build succeeded.", "artifact", n.ArtifactPath)
		n.SetState(dag.Done)

		dependents, err := e.graph.Dependents(n.ID)
		if err != nil {
			workerLogger.Error("Failed to get dependents for completed node.", "error", err)
		} else {
			for _, dependent := range dependents {
				if dependent.DecrementDepCount() == 0 {
					workerLogger.Debug("Unlocking dependent node.", "dependentID", dependent.ID)
					readyChan <- dependent
				}
			}
		}

		e.wg.Done()
	}
	logger.Debug("Worker finished.", "workerID", workerID)
}

// buildNode resolves the target's handler and runs it, recording the artifact
// on success.
func (e *Executor) buildNode(ctx context.Context, n *dag.Node) error {
	logger := ctxlog.FromContext(ctx).With("target", n.ID)
	logger.Info("▶️ Building target")

	handler, ok := e.registry.Lookup(n.Target.Kind)
	if !ok {
		return fmt.Errorf("unknown target kind '%s'", n.Target.Kind)
	}

	env, err := e.buildEnv(n)
	if err != nil {
		return err
	}

	artifact, err := handler.Build(ctx, env, n.Target)
	if err != nil {
		return err
	}
	n.ArtifactPath = artifact

	logger.Info("✅ Built target", "artifact", artifact)
	return nil
}

// buildEnv assembles the handler environment for a node, snapshotting the
// artifact paths of its completed dependencies.
func (e *Executor) buildEnv(n *dag.Node) (*registry.BuildEnv, error) {
	deps, err := e.graph.Dependencies(n.ID)
	if err != nil {
		return nil, err
	}

	artifacts := make(map[string]string, len(deps))
	for _, dep := range deps {
		if dep.GetState() != dag.Done {
			return nil, fmt.Errorf("dependency %s is not built", dep.ID)
		}
		artifacts[dep.ID] = dep.ArtifactPath
	}

	return &registry.BuildEnv{
		Tools:     e.tools,
		OutputDir: e.outputDir,
		Artifacts: artifacts,
	}, nil
}
