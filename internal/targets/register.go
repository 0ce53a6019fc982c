// Package targets implements the built-in target kind handlers: compiling
// and linking shared libraries, archiving static libraries, and the
// symbol-preserving re-archive pipeline.
package targets

import (
	"github.com/libforge/libforge/internal/config"
	"github.com/libforge/libforge/internal/registry"
)

// Builtins registers every built-in target kind.
type Builtins struct{}

// Register implements registry.Module.
func (Builtins) Register(r *registry.Registry) {
	r.Register(config.KindSharedLibrary, SharedLibrary{})
	r.Register(config.KindStaticLibrary, StaticLibrary{})
	r.Register(config.KindPrelinkedArchive, PrelinkedArchive{})
}
