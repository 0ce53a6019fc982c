package hcl

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/libforge/libforge/internal/config"
	"github.com/libforge/libforge/internal/ctxlog"
	"github.com/libforge/libforge/internal/fsutil"
	"github.com/libforge/libforge/internal/schema"
)

// Loader is the HCL implementation of config.Loader.
type Loader struct{}

// NewLoader creates a new HCL loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads a single .hcl file or a directory tree of .hcl files and
// translates everything found into a single config.Model.
func (l *Loader) Load(ctx context.Context, path string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading forge configuration.", "path", path)

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration path %s: %w", path, err)
	}

	var files []string
	if info.IsDir() {
		files, err = fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, fmt.Errorf("failed to find forge files in %s: %w", path, err)
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("no .hcl forge files found in %s", path)
		}
	} else {
		files = []string{path}
	}
	logger.Debug("Found forge files to load.", "files", files)

	model := config.NewModel()
	parser := hclparse.NewParser()
	evalCtx := newEvalContext()
	for _, file := range files {
		if err := l.loadFile(file, parser, evalCtx, model); err != nil {
			return nil, err
		}
	}

	if err := validateModel(model); err != nil {
		return nil, err
	}

	logger.Info("Configuration loaded.", "files", len(files), "targets", len(model.Targets))
	return model, nil
}

// newEvalContext builds the evaluation context available to expressions in
// forge files. Process environment variables are exposed under `env` so a
// file can write e.g. `install_dir = "${env.PREFIX}/lib"`.
func newEvalContext() *hcl.EvalContext {
	env := make(map[string]cty.Value)
	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			continue
		}
		env[name] = cty.StringVal(value)
	}

	vars := map[string]cty.Value{
		"env": cty.ObjectVal(env),
	}
	return &hcl.EvalContext{Variables: vars}
}

// loadFile parses one forge file and merges its contents into the model.
func (l *Loader) loadFile(path string, parser *hclparse.Parser, evalCtx *hcl.EvalContext, model *config.Model) error {
	hclFile, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse forge file %s: %w", path, diags)
	}

	var parsed schema.ForgeFile
	if diags := gohcl.DecodeBody(hclFile.Body, evalCtx, &parsed); diags.HasErrors() {
		return fmt.Errorf("failed to decode forge file %s: %w", path, diags)
	}

	if parsed.OutputDir != "" {
		if model.OutputDir != "" && model.OutputDir != parsed.OutputDir {
			return fmt.Errorf("conflicting output_dir settings: %q and %q", model.OutputDir, parsed.OutputDir)
		}
		model.OutputDir = parsed.OutputDir
	}

	if parsed.Toolchain != nil {
		if model.Toolchain != nil {
			return fmt.Errorf("duplicate toolchain block in %s", path)
		}
		model.Toolchain = translateToolchain(parsed.Toolchain)
	}

	for _, t := range parsed.Targets {
		target := translateTarget(t, path)
		if _, exists := model.Targets[target.Address()]; exists {
			return fmt.Errorf("duplicate target %s declared in %s", target.Address(), path)
		}
		model.Targets[target.Address()] = target
	}

	return nil
}

// validateModel runs the model-level checks that need the whole configuration:
// per-target attribute contracts, source references, and keep patterns.
func validateModel(model *config.Model) error {
	for _, target := range model.Targets {
		if err := target.Validate(); err != nil {
			return err
		}

		if target.Source != "" {
			if _, ok := model.Targets[target.Source]; !ok {
				return fmt.Errorf("target %s references unknown source target %q", target.Address(), target.Source)
			}
		}
		for _, dep := range target.DependsOn {
			if _, ok := model.Targets[dep]; !ok {
				return fmt.Errorf("target %s depends on unknown target %q", target.Address(), dep)
			}
		}

		if target.KeepSymbols != "" {
			if _, err := regexp.Compile(target.KeepSymbols); err != nil {
				return fmt.Errorf("target %s has an invalid keep_symbols pattern: %w", target.Address(), err)
			}
		}
	}
	return nil
}
