package app_test

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libforge/libforge/internal/app"
	"github.com/libforge/libforge/internal/hcl"
	"github.com/libforge/libforge/internal/testutil"
)

// writeFixture lays out a complete forge project backed by stub tools and
// returns the forge file path plus the output and install directories.
func writeFixture(t *testing.T) (string, string, string) {
	t.Helper()

	toolDir := t.TempDir()
	cc := testutil.WriteTool(t, toolDir, "cc", testutil.TouchOutputScript)
	ar := testutil.WriteTool(t, toolDir, "ar", `if [ "$1" = "x" ]; then : > demo.o; fi
if [ "$1" = "rcsD" ]; then : > "$2"; fi`)
	nm := testutil.WriteTool(t, toolDir, "nm", `printf '%s\n' \
  './libdemo.raw.so[demo.o]: _demo_init T 500 0' \
  './libdemo.raw.so[demo.o]: _helper T 600 0'`)
	ld := testutil.WriteTool(t, toolDir, "ld", testutil.TouchOutputScript)
	libtool := testutil.WriteTool(t, toolDir, "libtool", `if [ "$1" = "-static" ] && [ "$2" = "-o" ]; then : > "$3"; fi`)

	projectDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(projectDir, "demo.c"), []byte("int x;\n"), 0o644))

	outDir := filepath.Join(projectDir, "out")
	installDir := filepath.Join(t.TempDir(), "lib")

	forge := fmt.Sprintf(`
output_dir = %q

toolchain {
  cc      = %q
  ar      = %q
  nm      = %q
  ld      = %q
  libtool = %q
}

target "shared_library" "demo" {
  srcs    = ["demo.c"]
  cflags  = ["-fvisibility-inlines-hidden"]
  ldflags = ["-Wl,-r"]
  suffix  = ".raw.so"
}

target "static_library" "demo" {
  srcs   = ["demo.c"]
  cflags = ["-fvisibility-inlines-hidden"]
}

target "prelinked_archive" "demo" {
  source       = "shared_library.demo"
  keep_symbols = "^_demo_"
  install_dir  = %q
}
`, outDir, cc, ar, nm, ld, libtool, installDir)

	forgePath := filepath.Join(projectDir, "build.hcl")
	require.NoError(t, os.WriteFile(forgePath, []byte(forge), 0o644))
	return forgePath, outDir, installDir
}

func newTestConfig(t *testing.T, path string) *app.Config {
	t.Helper()
	cfg, err := app.NewConfig(app.Config{
		ConfigPath: path,
		LogFormat:  "text",
		LogLevel:   "debug",
		Workers:    2,
	})
	require.NoError(t, err)
	return cfg
}

func TestAppRun(t *testing.T) {
	forgePath, outDir, installDir := writeFixture(t)

	var logs bytes.Buffer
	a, err := app.New(&logs, newTestConfig(t, forgePath), hcl.NewLoader())
	require.NoError(t, err)

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("run failed: %v\nlogs:\n%s", err, logs.String())
	}

	// Every target produced exactly the artifact its configuration names.
	assert.FileExists(t, filepath.Join(outDir, "libdemo.raw.so"))
	assert.FileExists(t, filepath.Join(outDir, "libdemo.a"))
	assert.FileExists(t, filepath.Join(outDir, "libdemo.prelinked.a"))

	// The re-archive step installed its output into the library directory.
	assert.FileExists(t, filepath.Join(installDir, "libdemo.prelinked.a"))

	// The export list preserved only the matching global.
	data, err := os.ReadFile(filepath.Join(outDir, "libdemo.raw.symbols"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "_demo_init")
	assert.NotContains(t, string(data), "_helper")
}

func TestAppTargets(t *testing.T) {
	forgePath, _, _ := writeFixture(t)

	a, err := app.New(&bytes.Buffer{}, newTestConfig(t, forgePath), hcl.NewLoader())
	require.NoError(t, err)

	addrs := make([]string, 0, 3)
	for _, target := range a.Targets() {
		addrs = append(addrs, target.Address())
	}
	assert.Equal(t, []string{
		"prelinked_archive.demo",
		"shared_library.demo",
		"static_library.demo",
	}, addrs)
}

func TestAppWriteDOT(t *testing.T) {
	forgePath, _, _ := writeFixture(t)

	a, err := app.New(&bytes.Buffer{}, newTestConfig(t, forgePath), hcl.NewLoader())
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, a.WriteDOT(context.Background(), &out))

	dot := out.String()
	assert.Contains(t, dot, "digraph targets {")
	assert.Contains(t, dot, `"shared_library.demo" -> "prelinked_archive.demo";`)
	assert.NotContains(t, dot, `-> "shared_library.demo"`)
}

func TestAppNewRejectsUnknownKind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "build.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
target "mystery" "x" {
}
`), 0o644))

	_, err := app.New(&bytes.Buffer{}, newTestConfig(t, path), hcl.NewLoader())
	assert.ErrorContains(t, err, "unknown kind 'mystery'")
}
