// Package toolchain locates the external build tools (compiler, linker,
// archiver, symbol lister) and runs them with captured output.
package toolchain

import (
	"fmt"
	"os/exec"
	"sync"

	"github.com/libforge/libforge/internal/config"
)

// Tool names as used in configuration and lookups.
const (
	ToolCC      = "cc"
	ToolAR      = "ar"
	ToolNM      = "nm"
	ToolLD      = "ld"
	ToolLibtool = "libtool"
)

// Toolchain resolves tool names to executable paths, honoring configured
// overrides and caching PATH lookups. It is safe for concurrent use.
type Toolchain struct {
	overrides map[string]string

	mu       sync.Mutex
	resolved map[string]string
}

// New creates a Toolchain from the configured overrides. A nil config means
// every tool is found via PATH lookup.
func New(cfg *config.Toolchain) *Toolchain {
	overrides := make(map[string]string)
	if cfg != nil {
		for name, path := range map[string]string{
			ToolCC:      cfg.CC,
			ToolAR:      cfg.AR,
			ToolNM:      cfg.NM,
			ToolLD:      cfg.LD,
			ToolLibtool: cfg.Libtool,
		} {
			if path != "" {
				overrides[name] = path
			}
		}
	}
	return &Toolchain{
		overrides: overrides,
		resolved:  make(map[string]string),
	}
}

// Find returns the executable path for the named tool. Overrides win over
// PATH lookup; a tool that cannot be found is an error naming the tool.
func (t *Toolchain) Find(name string) (string, error) {
	if path, ok := t.overrides[name]; ok {
		return path, nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if path, ok := t.resolved[name]; ok {
		return path, nil
	}

	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("a valid %s executable is needed: %w", name, err)
	}
	t.resolved[name] = path
	return path, nil
}

// FindOptional is Find for tools the build can work around when absent.
func (t *Toolchain) FindOptional(name string) (string, bool) {
	path, err := t.Find(name)
	return path, err == nil
}
