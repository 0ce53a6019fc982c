// Package schema holds the HCL decoding structs for forge files. These mirror
// the on-disk syntax; translation into the engine's model happens in the hcl
// package.
package schema

import "github.com/hashicorp/hcl/v2"

// Target represents a `target "kind" "name" { ... }` block.
type Target struct {
	Kind string `hcl:"kind,label"`
	Name string `hcl:"name,label"`

	Srcs    []string `hcl:"srcs,optional"`
	CFlags  []string `hcl:"cflags,optional"`
	LDFlags []string `hcl:"ldflags,optional"`
	Suffix  string   `hcl:"suffix,optional"`

	Source      string `hcl:"source,optional"`
	KeepSymbols string `hcl:"keep_symbols,optional"`
	Output      string `hcl:"output,optional"`

	InstallDir string   `hcl:"install_dir,optional"`
	DependsOn  []string `hcl:"depends_on,optional"`
}

// Toolchain represents the optional top-level `toolchain` block overriding
// the PATH lookup of individual external tools.
type Toolchain struct {
	CC      string `hcl:"cc,optional"`
	AR      string `hcl:"ar,optional"`
	NM      string `hcl:"nm,optional"`
	LD      string `hcl:"ld,optional"`
	Libtool string `hcl:"libtool,optional"`
}

// ForgeFile represents the top-level structure of a single forge file.
type ForgeFile struct {
	OutputDir string     `hcl:"output_dir,optional"`
	Toolchain *Toolchain `hcl:"toolchain,block"`
	Targets   []*Target  `hcl:"target,block"`
	Body      hcl.Body   `hcl:",remain"`
}
