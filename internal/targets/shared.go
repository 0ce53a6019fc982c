package targets

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/libforge/libforge/internal/config"
	"github.com/libforge/libforge/internal/registry"
	"github.com/libforge/libforge/internal/toolchain"
)

// SharedLibrary builds a `shared_library` target: compile every source, then
// link the objects into a single artifact named lib<name><suffix>. The
// configured ldflags are passed through untouched, so a relocatable-output
// link (-Wl,-r) works the same way it would in a hand-written build file.
type SharedLibrary struct{}

// Build implements registry.Handler.
func (SharedLibrary) Build(ctx context.Context, env *registry.BuildEnv, t *config.Target) (string, error) {
	if err := os.MkdirAll(env.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", env.OutputDir, err)
	}

	objs, err := compileObjects(ctx, env, t)
	if err != nil {
		return "", err
	}

	out := filepath.Join(env.OutputDir, "lib"+t.Name+t.Suffix)
	args := make([]string, 0, len(t.LDFlags)+len(objs)+3)
	args = append(args, "-shared")
	args = append(args, t.LDFlags...)
	args = append(args, objs...)
	args = append(args, "-o", out)

	if _, err := env.Tools.Run(ctx, "", toolchain.ToolCC, args...); err != nil {
		return "", fmt.Errorf("failed to link %s: %w", t.Address(), err)
	}

	if err := installArtifact(ctx, t, out); err != nil {
		return "", err
	}
	return out, nil
}
