// Package testutil provides helpers for faking the external toolchain in
// tests. Handlers only ever see argv and exit codes, so a shell stub that
// creates its -o argument is indistinguishable from the real tool.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TouchOutputScript is a stub body that creates an empty file at the path
// following a -o argument, mimicking a compiler or linker.
const TouchOutputScript = `prev=""
for a in "$@"; do
  if [ "$prev" = "-o" ]; then : > "$a"; fi
  prev="$a"
done`

// WriteTool writes an executable shell stub named name into dir and returns
// its path. The body runs after an argv log line is appended to the file
// named by the ARGLOG environment variable, when set.
func WriteTool(t *testing.T, dir, name, body string) string {
	t.Helper()

	script := "#!/bin/sh\n" +
		`if [ -n "$ARGLOG" ]; then echo "` + name + ` $*" >> "$ARGLOG"; fi` + "\n" +
		body + "\n"

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}
