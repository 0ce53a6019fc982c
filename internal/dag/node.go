package dag

import (
	"sync"
	"sync/atomic"

	"github.com/libforge/libforge/internal/config"
)

// State represents the execution state of a node in the graph.
type State int32

const (
	// Pending indicates the node is waiting for its dependencies to complete.
	Pending State = iota
	// Running indicates the node is currently being built by a worker.
	Running
	// Done indicates the node completed successfully.
	Done
	// Failed indicates the node failed or was skipped.
	Failed
)

// Node is a single vertex in the build graph: one target to produce.
type Node struct {
	// ID is the target address, e.g. "shared_library.rswebrtc".
	ID string
	// Target is the configuration this node builds.
	Target *config.Target

	// Err stores any error that occurred while building the node.
	Err error
	// ArtifactPath is the primary artifact produced by a successful build,
	// consumed by downstream nodes.
	ArtifactPath string

	deps       map[string]*Node
	dependents map[string]*Node

	// depCount is an atomic counter of unmet dependencies; a node becomes
	// ready when it reaches zero.
	depCount atomic.Int32
	// state is the node's current execution state, managed atomically.
	state atomic.Int32
	// skipOnce ensures a node is marked as skipped exactly once.
	skipOnce sync.Once
}

// NewNode creates a pending node for the given target.
func NewNode(target *config.Target) *Node {
	return &Node{
		ID:         target.Address(),
		Target:     target,
		deps:       make(map[string]*Node),
		dependents: make(map[string]*Node),
	}
}

// InitCounters seeds the dependency counter from the linked edges. Call once,
// after all edges are in place and before execution starts.
func (n *Node) InitCounters() {
	n.depCount.Store(int32(len(n.deps)))
}

// DecrementDepCount atomically decrements the dependency counter and returns
// the new value.
func (n *Node) DecrementDepCount() int32 {
	return n.depCount.Add(-1)
}

// SetState atomically sets the node's execution state.
func (n *Node) SetState(s State) {
	n.state.Store(int32(s))
}

// GetState atomically retrieves the node's execution state.
func (n *Node) GetState() State {
	return State(n.state.Load())
}

// Skip marks the node as failed with the given error and decrements the
// run's WaitGroup, exactly once. It reports whether this call did the skip.
func (n *Node) Skip(err error, wg *sync.WaitGroup) bool {
	var wasSkipped bool
	n.skipOnce.Do(func() {
		n.SetState(Failed)
		n.Err = err
		wg.Done()
		wasSkipped = true
	})
	return wasSkipped
}
