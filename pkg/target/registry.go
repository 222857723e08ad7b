package target

import (
	"fmt"
	"sort"
)

// Registry is a read-only mapping from target name to Target, supplied
// by the configuration layer. The engine never mutates it.
type Registry struct {
	targets map[string]Target
}

// NewRegistry validates all targets and builds a registry.
func NewRegistry(targets []Target) (*Registry, error) {
	m := make(map[string]Target, len(targets))
	for _, t := range targets {
		if err := t.Validate(); err != nil {
			return nil, err
		}
		if _, dup := m[t.Name]; dup {
			return nil, fmt.Errorf("duplicate target %q", t.Name)
		}
		m[t.Name] = t
	}
	return &Registry{targets: m}, nil
}

// Lookup returns the target registered under name.
func (r *Registry) Lookup(name string) (Target, bool) {
	t, ok := r.targets[name]
	return t, ok
}

// Names returns all registered target names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.targets))
	for name := range r.targets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered targets.
func (r *Registry) Len() int {
	return len(r.targets)
}
