package dag

import (
	"context"
	"fmt"

	"github.com/libforge/libforge/internal/config"
	"github.com/libforge/libforge/internal/ctxlog"
	"github.com/libforge/libforge/internal/registry"
)

// Build constructs a complete, validated build graph from a config model.
func Build(ctx context.Context, model *config.Model, reg *registry.Registry) (*Graph, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: Starting graph construction.")

	if err := reg.Validate(model); err != nil {
		return nil, err
	}

	graph := New()

	// First pass: create a node per target.
	for _, target := range model.Targets {
		if err := graph.Add(NewNode(target)); err != nil {
			return nil, err
		}
	}
	logger.Debug("Build: Node creation complete.", "node_count", graph.Len())

	// Second pass: link dependency edges from source references and explicit
	// depends_on lists. The loader already validated that referenced targets
	// exist, so a missing edge endpoint here is a bug.
	for _, target := range model.Targets {
		id := target.Address()
		if target.Source != "" {
			if err := graph.AddEdge(target.Source, id); err != nil {
				return nil, fmt.Errorf("failed to link %s to its source: %w", id, err)
			}
		}
		for _, dep := range target.DependsOn {
			if err := graph.AddEdge(dep, id); err != nil {
				return nil, fmt.Errorf("failed to link %s to %s: %w", id, dep, err)
			}
		}
	}
	logger.Debug("Build: Node linking complete.")

	// Third pass: initialize counters.
	for _, node := range graph.Nodes() {
		node.InitCounters()
	}

	if err := graph.DetectCycles(); err != nil {
		return nil, fmt.Errorf("error validating build graph: %w", err)
	}
	logger.Debug("Build: Cycle detection passed.")

	return graph, nil
}
