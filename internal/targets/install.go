package targets

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/libforge/libforge/internal/config"
	"github.com/libforge/libforge/internal/ctxlog"
)

// installArtifact copies a built artifact into the target's install
// directory, creating it as needed. Targets without an install_dir are left
// in the output directory only.
func installArtifact(ctx context.Context, t *config.Target, artifact string) error {
	if t.InstallDir == "" {
		return nil
	}

	dir := t.InstallDir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(t.BaseDir, dir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create install directory %s: %w", dir, err)
	}

	dest := filepath.Join(dir, filepath.Base(artifact))
	if err := copyFile(artifact, dest); err != nil {
		return fmt.Errorf("failed to install %s: %w", artifact, err)
	}

	ctxlog.FromContext(ctx).Info("Installed artifact.", "target", t.Address(), "dest", dest)
	return nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
