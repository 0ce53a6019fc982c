package hcl

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libforge/libforge/internal/config"
)

func writeForgeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("single file", func(t *testing.T) {
		dir := t.TempDir()
		path := writeForgeFile(t, dir, "build.hcl", `
output_dir = "out"

toolchain {
  cc = "/opt/llvm/bin/clang"
}

target "shared_library" "rswebrtc" {
  srcs    = ["webrtc.c", "signaller.c"]
  cflags  = ["-fvisibility-inlines-hidden"]
  ldflags = ["-Wl,-r"]
  suffix  = ".raw.so"
}

target "static_library" "rswebrtc" {
  srcs   = ["webrtc.c", "signaller.c"]
  cflags = ["-fvisibility-inlines-hidden"]
}

target "prelinked_archive" "rswebrtc" {
  source       = "shared_library.rswebrtc"
  keep_symbols = "^_gst_"
  install_dir  = "lib"
}
`)

		model, err := NewLoader().Load(ctx, path)
		require.NoError(t, err)

		assert.Equal(t, "out", model.OutputDir)
		require.NotNil(t, model.Toolchain)
		assert.Equal(t, "/opt/llvm/bin/clang", model.Toolchain.CC)
		require.Len(t, model.Targets, 3)

		shared := model.Targets["shared_library.rswebrtc"]
		require.NotNil(t, shared)
		assert.Equal(t, []string{"webrtc.c", "signaller.c"}, shared.Srcs)
		assert.Equal(t, ".raw.so", shared.Suffix)
		assert.Equal(t, dir, shared.BaseDir)

		pre := model.Targets["prelinked_archive.rswebrtc"]
		require.NotNil(t, pre)
		assert.Equal(t, "shared_library.rswebrtc", pre.Source)
		assert.Equal(t, "^_gst_", pre.KeepSymbols)
		assert.Equal(t, "lib", pre.InstallDir)
	})

	t.Run("directory of files", func(t *testing.T) {
		dir := t.TempDir()
		writeForgeFile(t, dir, "libs.hcl", `
target "static_library" "a" {
  srcs = ["a.c"]
}
`)
		sub := filepath.Join(dir, "sub")
		require.NoError(t, os.MkdirAll(sub, 0o755))
		writeForgeFile(t, sub, "more.hcl", `
target "static_library" "b" {
  srcs = ["b.c"]
}
`)

		model, err := NewLoader().Load(ctx, dir)
		require.NoError(t, err)
		assert.Len(t, model.Targets, 2)
		assert.Equal(t, sub, model.Targets["static_library.b"].BaseDir)
	})

	t.Run("environment interpolation", func(t *testing.T) {
		t.Setenv("LIBFORGE_TEST_PREFIX", "/usr/local")
		dir := t.TempDir()
		path := writeForgeFile(t, dir, "build.hcl", `
target "static_library" "a" {
  srcs        = ["a.c"]
  install_dir = "${env.LIBFORGE_TEST_PREFIX}/lib"
}
`)

		model, err := NewLoader().Load(ctx, path)
		require.NoError(t, err)
		assert.Equal(t, "/usr/local/lib", model.Targets["static_library.a"].InstallDir)
	})
}

func TestLoadErrors(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name: "duplicate target",
			content: `
target "static_library" "a" {
  srcs = ["a.c"]
}
target "static_library" "a" {
  srcs = ["a.c"]
}
`,
			wantErr: "duplicate target static_library.a",
		},
		{
			name: "dangling source reference",
			content: `
target "prelinked_archive" "a" {
  source = "shared_library.missing"
}
`,
			wantErr: `unknown source target "shared_library.missing"`,
		},
		{
			name: "dangling depends_on",
			content: `
target "static_library" "a" {
  srcs       = ["a.c"]
  depends_on = ["static_library.missing"]
}
`,
			wantErr: `depends on unknown target "static_library.missing"`,
		},
		{
			name: "invalid keep pattern",
			content: `
target "static_library" "helper" {
  srcs = ["helper.c"]
}
target "prelinked_archive" "a" {
  source       = "static_library.helper"
  keep_symbols = "["
}
`,
			wantErr: "invalid keep_symbols pattern",
		},
		{
			name: "shared library without suffix",
			content: `
target "shared_library" "a" {
  srcs = ["a.c"]
}
`,
			wantErr: "requires an explicit suffix",
		},
		{
			name: "library without sources",
			content: `
target "static_library" "a" {
}
`,
			wantErr: "srcs must not be empty",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeForgeFile(t, t.TempDir(), "build.hcl", tc.content)
			_, err := NewLoader().Load(ctx, path)
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}

	t.Run("empty directory", func(t *testing.T) {
		_, err := NewLoader().Load(ctx, t.TempDir())
		assert.ErrorContains(t, err, "no .hcl forge files found")
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := NewLoader().Load(ctx, filepath.Join(t.TempDir(), "nope"))
		assert.ErrorContains(t, err, "failed to read configuration path")
	})
}

// Loader must satisfy the engine's loader contract.
var _ config.Loader = (*Loader)(nil)
