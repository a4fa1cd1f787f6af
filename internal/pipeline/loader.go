package pipeline

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/stepflow/internal/ctxlog"
)

// Loader parses pipeline HCL files into the merged Config model.
type Loader struct{}

// NewLoader creates a pipeline loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses path, which may be a single .hcl file or a directory
// searched recursively, and merges every file into one Config.
func (l *Loader) Load(ctx context.Context, path string) (*Config, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := findPipelineFiles(path)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no pipeline files found under %s", path)
	}
	logger.Debug("Discovered pipeline files.", "count", len(files))

	parser := hclparse.NewParser()
	evalCtx := newEvalContext()
	cfg := &Config{}

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse pipeline file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode pipeline file %s: %w", file, diags)
		}

		if root.Pipeline != nil {
			if cfg.Pipeline != nil {
				return nil, fmt.Errorf("duplicate pipeline block in %s", file)
			}
			cfg.Pipeline = root.Pipeline
		}
		cfg.Steps = append(cfg.Steps, root.Steps...)
		cfg.Groups = append(cfg.Groups, root.Groups...)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newEvalContext exposes the process environment as the `env` object so
// pipeline files can interpolate paths and URLs.
func newEvalContext() *hcl.EvalContext {
	env := map[string]cty.Value{}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = cty.StringVal(v)
		}
	}
	vars := map[string]cty.Value{}
	if len(env) > 0 {
		vars["env"] = cty.ObjectVal(env)
	}
	return &hcl.EvalContext{Variables: vars}
}

// findPipelineFiles resolves path to the set of .hcl files it names.
func findPipelineFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".hcl") {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// validate applies the structural rules gohcl tags cannot express.
func validate(cfg *Config) error {
	var walkGroups func(groups []*GroupBlock) error
	var checkSteps func(steps []*StepBlock) error

	checkSteps = func(steps []*StepBlock) error {
		for _, s := range steps {
			if s.Run == nil {
				return fmt.Errorf("step %q has no run block", s.Name)
			}
			for _, r := range append(append([]*ResourceBlock{}, s.Inputs...), s.Outputs...) {
				switch r.Kind {
				case "file", "dir":
					if r.Path == "" {
						return fmt.Errorf("step %q: %s resource %q needs a path", s.Name, r.Kind, r.Name)
					}
				case "http":
					if r.URL == "" {
						return fmt.Errorf("step %q: http resource %q needs a url", s.Name, r.Name)
					}
				case "value":
					// named only
				default:
					return fmt.Errorf("step %q: unknown resource kind %q", s.Name, r.Kind)
				}
			}
		}
		return nil
	}

	walkGroups = func(groups []*GroupBlock) error {
		for _, g := range groups {
			switch g.Mode {
			case "", "sequential", "parallel":
			default:
				return fmt.Errorf("group %q: unknown mode %q", g.Name, g.Mode)
			}
			if err := checkSteps(g.Steps); err != nil {
				return err
			}
			if err := walkGroups(g.Groups); err != nil {
				return err
			}
		}
		return nil
	}

	if err := checkSteps(cfg.Steps); err != nil {
		return err
	}
	return walkGroups(cfg.Groups)
}
