// Package registry maps target kinds to the Go handlers that build them.
package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/libforge/libforge/internal/config"
	"github.com/libforge/libforge/internal/toolchain"
)

// BuildEnv is everything a handler needs beyond the target itself: the
// resolved toolchain, the artifact output directory, and the artifact paths
// of the target's already-built dependencies, keyed by target address.
type BuildEnv struct {
	Tools     *toolchain.Toolchain
	OutputDir string
	Artifacts map[string]string
}

// Handler builds one target and returns the path of its primary artifact.
type Handler interface {
	Build(ctx context.Context, env *BuildEnv, target *config.Target) (string, error)
}

// Module is the interface a group of handlers implements to be registered.
type Module interface {
	Register(r *Registry)
}

// Registry holds the registered target-kind handlers for a single application
// instance.
type Registry struct {
	handlers map[string]Handler
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register registers a handler for a target kind. Registering the same kind
// twice is a programmer error.
func (r *Registry) Register(kind string, h Handler) {
	if _, exists := r.handlers[kind]; exists {
		panic(fmt.Sprintf("handler for target kind '%s' already registered", kind))
	}
	slog.Debug("Registering target kind handler.", "kind", kind)
	r.handlers[kind] = h
}

// Lookup returns the handler for a target kind.
func (r *Registry) Lookup(kind string) (Handler, bool) {
	h, ok := r.handlers[kind]
	return h, ok
}

// Kinds returns the sorted list of registered target kinds.
func (r *Registry) Kinds() []string {
	kinds := make([]string, 0, len(r.handlers))
	for kind := range r.handlers {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

// Validate checks that every target in the model names a registered kind.
func (r *Registry) Validate(model *config.Model) error {
	for _, target := range model.Targets {
		if _, ok := r.handlers[target.Kind]; !ok {
			return fmt.Errorf("target %s uses unknown kind '%s' (registered: %v)", target.Address(), target.Kind, r.Kinds())
		}
	}
	return nil
}
