package config

import "fmt"

// Target kinds understood by the built-in handlers.
const (
	KindSharedLibrary    = "shared_library"
	KindStaticLibrary    = "static_library"
	KindPrelinkedArchive = "prelinked_archive"
)

// Model is the unified, format-agnostic representation of a forge
// configuration: the toolchain overrides plus every declared target.
type Model struct {
	// OutputDir is where artifacts and scratch objects are placed.
	OutputDir string
	// Toolchain holds per-tool path overrides. Nil means PATH lookup for
	// everything.
	Toolchain *Toolchain
	// Targets is keyed by target address ("kind.name").
	Targets map[string]*Target
}

// NewModel creates an initialized, empty Model.
func NewModel() *Model {
	return &Model{Targets: make(map[string]*Target)}
}

// Toolchain is the set of external tool path overrides a configuration may
// carry. Empty fields fall back to PATH lookup.
type Toolchain struct {
	CC      string
	AR      string
	NM      string
	LD      string
	Libtool string
}

// Target is the format-agnostic representation of a single `target` block.
type Target struct {
	Kind string
	Name string

	// Library targets.
	Srcs    []string
	CFlags  []string
	LDFlags []string
	Suffix  string

	// Post-processing targets.
	Source      string
	KeepSymbols string
	Output      string

	// Common.
	InstallDir string
	DependsOn  []string

	// BaseDir is the directory of the file that declared this target.
	// Relative source paths resolve against it.
	BaseDir string
}

// Address returns the unique "kind.name" identifier of the target.
func (t *Target) Address() string {
	return t.Kind + "." + t.Name
}

// OutputName returns the artifact file name of a post-processing target.
// The default keeps the re-archived artifact from colliding with a static
// library of the same name in the same output directory.
func (t *Target) OutputName() string {
	if t.Output != "" {
		return t.Output
	}
	return "lib" + t.Name + ".prelinked.a"
}

// Validate checks the per-kind attribute contract of a single target.
func (t *Target) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("target of kind %q has an empty name", t.Kind)
	}

	switch t.Kind {
	case KindSharedLibrary:
		if len(t.Srcs) == 0 {
			return fmt.Errorf("target %s: srcs must not be empty", t.Address())
		}
		if t.Suffix == "" {
			return fmt.Errorf("target %s: shared_library requires an explicit suffix", t.Address())
		}
	case KindStaticLibrary:
		if len(t.Srcs) == 0 {
			return fmt.Errorf("target %s: srcs must not be empty", t.Address())
		}
	case KindPrelinkedArchive:
		if t.Source == "" {
			return fmt.Errorf("target %s: prelinked_archive requires a source target", t.Address())
		}
	}
	return nil
}
