package app

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/libforge/libforge/internal/ctxlog"
	"github.com/libforge/libforge/internal/dag"
)

// WriteDOT renders the build graph in Graphviz DOT format without running
// anything, for inspection of the target ordering.
func (a *App) WriteDOT(ctx context.Context, w io.Writer) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	graph, err := dag.Build(ctx, a.model, a.registry)
	if err != nil {
		return fmt.Errorf("failed to build dependency graph: %w", err)
	}

	nodes := graph.Nodes()
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })

	fmt.Fprintln(w, "digraph targets {")
	for _, n := range nodes {
		fmt.Fprintf(w, "  %q;\n", n.ID)
		deps, err := graph.Dependencies(n.ID)
		if err != nil {
			return err
		}
		sort.Slice(deps, func(i, j int) bool { return deps[i].ID < deps[j].ID })
		for _, dep := range deps {
			fmt.Fprintf(w, "  %q -> %q;\n", dep.ID, n.ID)
		}
	}
	fmt.Fprintln(w, "}")
	return nil
}
