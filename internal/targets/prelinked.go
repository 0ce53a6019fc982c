package targets

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/libforge/libforge/internal/config"
	"github.com/libforge/libforge/internal/ctxlog"
	"github.com/libforge/libforge/internal/fsutil"
	"github.com/libforge/libforge/internal/registry"
	"github.com/libforge/libforge/internal/symbols"
	"github.com/libforge/libforge/internal/toolchain"
)

// PrelinkedArchive builds a `prelinked_archive` target: it re-processes the
// artifact of its source target into a second static archive, preserving
// only the global symbols matched by keep_symbols.
//
// The pipeline mirrors how Mach-O archives have to be stripped by hand:
// strip cannot suppress undefined symbols in a .o once two-level namespaces
// are in play, so the members are prelinked into a single object with an
// exported-symbols list and then re-archived.
type PrelinkedArchive struct{}

// Build implements registry.Handler.
func (PrelinkedArchive) Build(ctx context.Context, env *registry.BuildEnv, t *config.Target) (string, error) {
	logger := ctxlog.FromContext(ctx).With("target", t.Address())

	input, ok := env.Artifacts[t.Source]
	if !ok {
		return "", fmt.Errorf("source target %s produced no artifact", t.Source)
	}
	absInput, err := filepath.Abs(input)
	if err != nil {
		return "", fmt.Errorf("failed to resolve input path %s: %w", input, err)
	}

	exportList, kept, err := writeKeepList(ctx, env, t, absInput)
	if err != nil {
		return "", err
	}
	logger.Info("Symbols to preserve.", "count", len(kept))
	for _, name := range kept {
		logger.Debug("Preserving symbol.", "symbol", name)
	}

	prelinked, cleanup, err := prelink(ctx, env, absInput, exportList)
	if err != nil {
		return "", err
	}
	defer cleanup()

	if err := os.MkdirAll(env.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", env.OutputDir, err)
	}
	dest, err := filepath.Abs(filepath.Join(env.OutputDir, t.OutputName()))
	if err != nil {
		return "", err
	}

	logger.Debug("Repacking library.", "dest", dest)
	if err := repack(ctx, env, dest, prelinked); err != nil {
		return "", fmt.Errorf("failed to repack %s: %w", t.Address(), err)
	}

	if err := installArtifact(ctx, t, dest); err != nil {
		return "", err
	}
	return dest, nil
}

// writeKeepList lists the input's global symbols with nm, filters them by the
// target's keep pattern, and writes the exported-symbols file next to the
// input. It returns the file path and the preserved names.
func writeKeepList(ctx context.Context, env *registry.BuildEnv, t *config.Target, absInput string) (string, []string, error) {
	// Only global defined symbols, names only, portable output format, with
	// the pathname of the defining object file.
	listing, err := env.Tools.Run(ctx, "", toolchain.ToolNM, "-gjPUA", absInput)
	if err != nil {
		return "", nil, fmt.Errorf("failed to list symbols of %s: %w", absInput, err)
	}

	syms, err := symbols.ParseTable(strings.NewReader(listing))
	if err != nil {
		return "", nil, err
	}

	keepExpr := t.KeepSymbols
	if keepExpr == "" {
		keepExpr = ".*"
	}
	pattern, err := regexp.Compile(keepExpr)
	if err != nil {
		return "", nil, fmt.Errorf("invalid keep_symbols pattern: %w", err)
	}
	kept := symbols.Keep(syms, pattern)

	exportList := strings.TrimSuffix(absInput, filepath.Ext(absInput)) + ".symbols"
	if err := symbols.WriteExportList(exportList, kept); err != nil {
		return "", nil, err
	}
	return exportList, kept, nil
}

// prelink unpacks the input archive into a scratch directory and merges its
// members into a single relocatable object, keeping only the exported
// symbols. The returned cleanup removes the scratch directory; the prelinked
// object must be consumed before calling it.
func prelink(ctx context.Context, env *registry.BuildEnv, absInput, exportList string) (string, func(), error) {
	tmp, err := os.MkdirTemp("", "libforge")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create scratch directory: %w", err)
	}
	cleanup := func() { os.RemoveAll(tmp) }

	if _, err := env.Tools.Run(ctx, tmp, toolchain.ToolAR, "x", absInput); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to unpack %s: %w", absInput, err)
	}

	objs, err := fsutil.FindFilesByExtension(tmp, ".o")
	if err != nil {
		cleanup()
		return "", nil, err
	}
	if len(objs) == 0 {
		cleanup()
		return "", nil, fmt.Errorf("archive %s contains no object files", absInput)
	}

	base := strings.TrimSuffix(filepath.Base(absInput), filepath.Ext(absInput))
	prelinked := filepath.Join(tmp, base+".prelinked.o")

	args := make([]string, 0, len(objs)+5)
	args = append(args, "-r", "-exported_symbols_list", exportList, "-o", prelinked)
	args = append(args, objs...)
	if _, err := env.Tools.Run(ctx, tmp, toolchain.ToolLD, args...); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to prelink %s: %w", absInput, err)
	}

	return prelinked, cleanup, nil
}

// repack packages the prelinked object into the destination archive. libtool
// is preferred when available; plain deterministic ar is the fallback.
func repack(ctx context.Context, env *registry.BuildEnv, dest, prelinked string) error {
	if _, ok := env.Tools.FindOptional(toolchain.ToolLibtool); ok {
		_, err := env.Tools.Run(ctx, "", toolchain.ToolLibtool, "-static", "-o", dest, prelinked)
		return err
	}
	return archiveObjects(ctx, env, dest, []string{prelinked})
}
