package op

import (
	"fmt"
	"path/filepath"
	"regexp"
)

var opNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Descriptor is the static build description of an op. Lists are order preserving
// and do not depend on the host.
type Descriptor struct {
	Name         string   `json:"name" yaml:"name"`
	AbsoluteName string   `json:"absolute_name" yaml:"absolute_name"`
	BuildVar     string   `json:"build_var" yaml:"build_var"`
	Sources      []string `json:"sources" yaml:"sources"`
	IncludePaths []string `json:"include_paths" yaml:"include_paths"`

	// LibDir is joined to the framework package root unless absolute.
	LibDir    string   `json:"lib_dir,omitempty" yaml:"lib_dir,omitempty"`
	Libraries []string `json:"libraries,omitempty" yaml:"libraries,omitempty"`

	// AmpereMinCUDAMajor is the toolkit major required on compute capability 8+.
	AmpereMinCUDAMajor int `json:"ampere_min_cuda_major" yaml:"ampere_min_cuda_major"`
}

// Validate reports the first structural problem with d
func (d Descriptor) Validate() error {
	if !opNamePattern.MatchString(d.Name) {
		return fmt.Errorf("op name %q must match %s", d.Name, opNamePattern)
	}
	if len(d.Sources) == 0 {
		return fmt.Errorf("op %s: no sources", d.Name)
	}
	for i, src := range d.Sources {
		if src == "" {
			return fmt.Errorf("op %s: source %d is empty", d.Name, i)
		}
	}
	if d.AmpereMinCUDAMajor < 0 {
		return fmt.Errorf("op %s: ampere_min_cuda_major must be non-negative", d.Name)
	}
	return nil
}

// Clone returns a deep copy so callers cannot mutate registry state
func (d Descriptor) Clone() Descriptor {
	c := d
	c.Sources = append([]string(nil), d.Sources...)
	c.IncludePaths = append([]string(nil), d.IncludePaths...)
	c.Libraries = append([]string(nil), d.Libraries...)
	return c
}

// LibraryPath resolves LibDir against packageRoot. Empty when the op links no private libraries.
func (d Descriptor) LibraryPath(packageRoot string) string {
	if d.LibDir == "" {
		return ""
	}
	if filepath.IsAbs(d.LibDir) {
		return filepath.Clean(d.LibDir)
	}
	return filepath.Join(packageRoot, d.LibDir)
}

// ExtraLDFlags returns the linker flags: the search path, one -l per library,
// then an rpath entry mirroring the search path.
func (d Descriptor) ExtraLDFlags(packageRoot string) []string {
	libPath := d.LibraryPath(packageRoot)

	flags := make([]string, 0, len(d.Libraries)+2)
	if libPath != "" {
		flags = append(flags, "-L"+libPath)
	}
	for _, lib := range d.Libraries {
		flags = append(flags, "-l"+lib)
	}
	if libPath != "" {
		flags = append(flags, "-Wl,-rpath,"+libPath)
	}
	return flags
}
