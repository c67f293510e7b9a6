package op

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownOp is returned for names missing from the registry
var ErrUnknownOp = errors.New("unknown op")

// Registry holds op descriptors by name
type Registry struct {
	ops     map[string]Descriptor
	builtin map[string]bool
}

// NewRegistry returns a registry preloaded with the built-in ops
func NewRegistry() *Registry {
	r := &Registry{
		ops:     make(map[string]Descriptor),
		builtin: make(map[string]bool),
	}
	inference := TransformerInference("")
	r.ops[inference.Name] = inference
	r.builtin[inference.Name] = true
	return r
}

// Register adds d. Names must be unique; built-ins cannot be replaced.
func (r *Registry) Register(d Descriptor) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if r.builtin[d.Name] {
		return fmt.Errorf("op %s is built in and cannot be redefined", d.Name)
	}
	if _, exists := r.ops[d.Name]; exists {
		return fmt.Errorf("op %s is defined more than once", d.Name)
	}
	r.ops[d.Name] = d.Clone()
	return nil
}

// Get returns the descriptor registered under name
func (r *Registry) Get(name string) (Descriptor, error) {
	d, ok := r.ops[name]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %s", ErrUnknownOp, name)
	}
	return d.Clone(), nil
}

// IsBuiltin reports whether name is a built-in op
func (r *Registry) IsBuiltin(name string) bool {
	return r.builtin[name]
}

// Names returns registered op names in sorted order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.ops))
	for name := range r.ops {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
