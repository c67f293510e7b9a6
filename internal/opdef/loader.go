// Package opdef loads op descriptors declared in HCL files.
//
//	op "fused_adam" {
//	  build_var     = "DS_BUILD_FUSED_ADAM"
//	  absolute_name = "deepspeed.ops.adam.fused_adam_op"
//	  sources       = ["csrc/adam/fused_adam_frontend.cpp", "csrc/adam/multi_tensor_adam.cu"]
//	  include_paths = ["csrc/includes"]
//	  libraries     = ["curand"]
//	  lib_dir       = "${env.CUTLASS_HOME}/lib"
//	}
//
// Expressions can read environment variables through the env object.
package opdef

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"opbuilder/internal/logging"
	"opbuilder/internal/op"
)

const (
	fileExtension        = ".hcl"
	defaultAmpereMinCUDA = 11
)

type fileRoot struct {
	Ops []*opBlock `hcl:"op,block"`
}

type opBlock struct {
	Name               string   `hcl:"name,label"`
	BuildVar           string   `hcl:"build_var,optional"`
	AbsoluteName       string   `hcl:"absolute_name,optional"`
	Sources            []string `hcl:"sources"`
	IncludePaths       []string `hcl:"include_paths,optional"`
	LibDir             string   `hcl:"lib_dir,optional"`
	Libraries          []string `hcl:"libraries,optional"`
	AmpereMinCUDAMajor *int     `hcl:"ampere_min_cuda_major,optional"`
}

// Loader parses op definition files
type Loader struct {
	logger  *logging.Logger
	environ []string
}

// NewLoader creates a loader exposing the process environment to expressions
func NewLoader(logger *logging.Logger) *Loader {
	return NewLoaderWithEnviron(logger, os.Environ())
}

// NewLoaderWithEnviron creates a loader with an explicit KEY=VALUE environment (for testing)
func NewLoaderWithEnviron(logger *logging.Logger, environ []string) *Loader {
	return &Loader{logger: logger, environ: environ}
}

// LoadDir parses every *.hcl file in dir in lexical order. A missing dir yields no ops.
func (l *Loader) LoadDir(dir string) ([]op.Descriptor, error) {
	if dir == "" {
		return nil, nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		l.logger.Debug("opdef.dir.missing", "Op definition directory does not exist", map[string]interface{}{
			"dir": dir,
		})
		return nil, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*"+fileExtension))
	if err != nil {
		return nil, fmt.Errorf("failed to list op definitions in %s: %w", dir, err)
	}
	sort.Strings(files)

	parser := hclparse.NewParser()
	evalCtx := l.evalContext()

	var descriptors []op.Descriptor
	for _, file := range files {
		ds, err := l.parseFile(parser, evalCtx, file)
		if err != nil {
			return nil, err
		}
		descriptors = append(descriptors, ds...)
	}

	l.logger.Debug("opdef.loaded", "Loaded op definitions", map[string]interface{}{
		"dir":   dir,
		"files": len(files),
		"ops":   len(descriptors),
	})
	return descriptors, nil
}

// LoadFile parses a single definition file
func (l *Loader) LoadFile(path string) ([]op.Descriptor, error) {
	return l.parseFile(hclparse.NewParser(), l.evalContext(), path)
}

// RegisterDir loads dir and registers every op into reg
func (l *Loader) RegisterDir(reg *op.Registry, dir string) error {
	descriptors, err := l.LoadDir(dir)
	if err != nil {
		return err
	}
	for _, d := range descriptors {
		if err := reg.Register(d); err != nil {
			return fmt.Errorf("failed to register op from %s: %w", dir, err)
		}
	}
	return nil
}

func (l *Loader) parseFile(parser *hclparse.Parser, evalCtx *hcl.EvalContext, path string) ([]op.Descriptor, error) {
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse op definitions %s: %w", path, diags)
	}

	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, evalCtx, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode op definitions %s: %w", path, diags)
	}

	descriptors := make([]op.Descriptor, 0, len(root.Ops))
	for _, block := range root.Ops {
		d := block.descriptor()
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		descriptors = append(descriptors, d)
	}
	return descriptors, nil
}

func (b *opBlock) descriptor() op.Descriptor {
	minCUDA := defaultAmpereMinCUDA
	if b.AmpereMinCUDAMajor != nil {
		minCUDA = *b.AmpereMinCUDAMajor
	}
	buildVar := b.BuildVar
	if buildVar == "" {
		buildVar = "DS_BUILD_" + strings.ToUpper(b.Name)
	}
	return op.Descriptor{
		Name:               b.Name,
		AbsoluteName:       b.AbsoluteName,
		BuildVar:           buildVar,
		Sources:            b.Sources,
		IncludePaths:       b.IncludePaths,
		LibDir:             b.LibDir,
		Libraries:          b.Libraries,
		AmpereMinCUDAMajor: minCUDA,
	}
}

func (l *Loader) evalContext() *hcl.EvalContext {
	env := make(map[string]cty.Value, len(l.environ))
	for _, kv := range l.environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" || !hclIdentifier(key) {
			continue
		}
		env[key] = cty.StringVal(value)
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(env),
		},
	}
}

// hclIdentifier reports whether key can be used as an attribute name in env.KEY
func hclIdentifier(key string) bool {
	for i, r := range key {
		switch {
		case r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
		case i > 0 && (r >= '0' && r <= '9'):
		default:
			return false
		}
	}
	return true
}
