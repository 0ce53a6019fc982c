package app

import (
	"github.com/libforge/libforge/internal/registry"
	"github.com/libforge/libforge/internal/targets"
)

// coreModules is the default set of handler modules wired into every App.
var coreModules = []registry.Module{
	targets.Builtins{},
}
