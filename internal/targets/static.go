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

// StaticLibrary builds a `static_library` target: compile every source and
// archive the objects into lib<name>.a.
type StaticLibrary struct{}

// Build implements registry.Handler.
func (StaticLibrary) Build(ctx context.Context, env *registry.BuildEnv, t *config.Target) (string, error) {
	if err := os.MkdirAll(env.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", env.OutputDir, err)
	}

	objs, err := compileObjects(ctx, env, t)
	if err != nil {
		return "", err
	}

	out := filepath.Join(env.OutputDir, "lib"+t.Name+".a")
	if err := archiveObjects(ctx, env, out, objs); err != nil {
		return "", fmt.Errorf("failed to archive %s: %w", t.Address(), err)
	}

	if err := installArtifact(ctx, t, out); err != nil {
		return "", err
	}
	return out, nil
}

// archiveObjects packs objects into a fresh archive. The stale archive is
// removed first so `ar r` cannot carry members over from a previous build,
// and the D modifier zeroes timestamps and uids for byte-identical rebuilds.
func archiveObjects(ctx context.Context, env *registry.BuildEnv, out string, objs []string) error {
	if err := os.Remove(out); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove stale archive %s: %w", out, err)
	}

	args := make([]string, 0, len(objs)+2)
	args = append(args, "rcsD", out)
	args = append(args, objs...)

	_, err := env.Tools.Run(ctx, "", toolchain.ToolAR, args...)
	return err
}
