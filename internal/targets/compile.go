package targets

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/libforge/libforge/internal/config"
	"github.com/libforge/libforge/internal/registry"
	"github.com/libforge/libforge/internal/toolchain"
)

// compileObjects compiles every source of a library target into a per-target
// scratch directory and returns the object paths in source order. Object
// names derive only from the source paths, so repeated builds produce the
// same layout.
func compileObjects(ctx context.Context, env *registry.BuildEnv, t *config.Target) ([]string, error) {
	objDir := filepath.Join(env.OutputDir, "obj", strings.ReplaceAll(t.Address(), ".", "-"))
	if err := os.MkdirAll(objDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create object directory %s: %w", objDir, err)
	}

	objs := make([]string, 0, len(t.Srcs))
	for _, src := range t.Srcs {
		srcPath := src
		if !filepath.IsAbs(srcPath) {
			srcPath = filepath.Join(t.BaseDir, src)
		}

		obj := filepath.Join(objDir, objectName(src))
		args := make([]string, 0, len(t.CFlags)+4)
		args = append(args, t.CFlags...)
		args = append(args, "-c", srcPath, "-o", obj)

		if _, err := env.Tools.Run(ctx, "", toolchain.ToolCC, args...); err != nil {
			return nil, fmt.Errorf("failed to compile %s: %w", src, err)
		}
		objs = append(objs, obj)
	}
	return objs, nil
}

// objectName flattens a source path into a stable object file name, keeping
// subdirectory sources from colliding in the flat scratch directory.
func objectName(src string) string {
	base := strings.TrimSuffix(src, filepath.Ext(src))
	base = strings.ReplaceAll(base, string(filepath.Separator), "_")
	return base + ".o"
}
