// Package executor runs the build graph with a fixed pool of workers.
// Independent targets build concurrently; a failure cancels the run and
// skips everything downstream of the failed node.
package executor

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/libforge/libforge/internal/ctxlog"
	"github.com/libforge/libforge/internal/dag"
	"github.com/libforge/libforge/internal/registry"
	"github.com/libforge/libforge/internal/toolchain"
)

// Executor orchestrates the end-to-end execution of a build graph.
type Executor struct {
	graph     *dag.Graph
	workers   int
	registry  *registry.Registry
	tools     *toolchain.Toolchain
	outputDir string

	wg sync.WaitGroup
}

// New creates an executor for the given graph. workers must be at least 1.
func New(graph *dag.Graph, workers int, reg *registry.Registry, tools *toolchain.Toolchain, outputDir string) *Executor {
	if workers < 1 {
		workers = 1
	}
	return &Executor{
		graph:     graph,
		workers:   workers,
		registry:  reg,
		tools:     tools,
		outputDir: outputDir,
	}
}

// Run builds every node in the graph in dependency order and blocks until
// all nodes have completed, failed, or been skipped.
func (e *Executor) Run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	total := e.graph.Len()
	readyChan := make(chan *dag.Node, total)
	e.wg.Add(total)

	for i := 0; i < e.workers; i++ {
		go e.worker(ctx, readyChan, cancel, i)
	}
	logger.Debug("Workers started.", "count", e.workers)

	for _, root := range e.graph.Roots() {
		readyChan <- root
	}

	e.wg.Wait()
	close(readyChan)

	return e.collectErrors()
}

// collectErrors joins the errors of all failed nodes, sorted by node ID so a
// run reports deterministically.
func (e *Executor) collectErrors() error {
	var failed []*dag.Node
	for _, n := range e.graph.Nodes() {
		if n.GetState() == dag.Failed && n.Err != nil {
			failed = append(failed, n)
		}
	}
	if len(failed) == 0 {
		return nil
	}

	sort.Slice(failed, func(i, j int) bool { return failed[i].ID < failed[j].ID })
	errs := make([]error, 0, len(failed))
	for _, n := range failed {
		errs = append(errs, fmt.Errorf("%s: %w", n.ID, n.Err))
	}
	return errors.Join(errs...)
}

// skipDependents transitively marks everything downstream of a failed node
// as skipped.
func (e *Executor) skipDependents(ctx context.Context, n *dag.Node) {
	logger := ctxlog.FromContext(ctx)

	dependents, err := e.graph.Dependents(n.ID)
	if err != nil {
		logger.Error("Failed to get dependents for failed node.", "nodeID", n.ID, "error", err)
		return
	}

	for _, dependent := range dependents {
		skipErr := fmt.Errorf("skipped: dependency %s failed", n.ID)
		if dependent.Skip(skipErr, &e.wg) {
			logger.Debug("Skipping dependent node.", "nodeID", dependent.ID)
			e.skipDependents(ctx, dependent)
		}
	}
}
