package toolchain

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/libforge/libforge/internal/ctxlog"
)

// Run executes the named tool with the given arguments, waiting for it to
// finish. dir sets the working directory when non-empty. Stdout is returned;
// a non-zero exit wraps the tool's stderr into the error so toolchain
// failures surface verbatim.
func (t *Toolchain) Run(ctx context.Context, dir string, name string, args ...string) (string, error) {
	path, err := t.Find(name)
	if err != nil {
		return "", err
	}

	logger := ctxlog.FromContext(ctx)
	logger.Debug("Running external tool.", "tool", name, "path", path, "args", args, "dir", dir)

	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return stdout.String(), fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
		}
		return stdout.String(), fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, msg)
	}

	return stdout.String(), nil
}
