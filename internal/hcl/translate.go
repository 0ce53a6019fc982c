package hcl

import (
	"path/filepath"

	"github.com/libforge/libforge/internal/config"
	"github.com/libforge/libforge/internal/schema"
)

// translateTarget converts the HCL-specific target schema into the agnostic model.
func translateTarget(t *schema.Target, filePath string) *config.Target {
	return &config.Target{
		Kind:        t.Kind,
		Name:        t.Name,
		Srcs:        t.Srcs,
		CFlags:      t.CFlags,
		LDFlags:     t.LDFlags,
		Suffix:      t.Suffix,
		Source:      t.Source,
		KeepSymbols: t.KeepSymbols,
		Output:      t.Output,
		InstallDir:  t.InstallDir,
		DependsOn:   t.DependsOn,
		BaseDir:     filepath.Dir(filePath),
	}
}

// translateToolchain converts the HCL-specific toolchain schema into the agnostic model.
func translateToolchain(t *schema.Toolchain) *config.Toolchain {
	return &config.Toolchain{
		CC:      t.CC,
		AR:      t.AR,
		NM:      t.NM,
		LD:      t.LD,
		Libtool: t.Libtool,
	}
}
