// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package dialect

import (
	"slices"
	"sync"

	"github.com/samber/lo"

	"github.com/gogpu/kernelc/lir"
)

// Registry maps dialect names to dialects. It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	dialects map[string]*Dialect
}

// NewRegistry returns a registry holding the built-in dialects.
func NewRegistry() *Registry {
	r := &Registry{dialects: make(map[string]*Dialect)}
	r.dialects[NameOpenCL] = OpenCL()
	r.dialects[NameCUDA] = CUDA()
	return r
}

// Default is the registry used by Lookup and by Load for "extends".
var Default = NewRegistry()

// Register adds d under its name after validating it. Registering a name
// twice replaces the earlier dialect.
func (r *Registry) Register(d *Dialect) error {
	if err := d.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dialects[d.Name] = d.Clone()
	return nil
}

// Lookup returns a copy of the named dialect.
func (r *Registry) Lookup(name string) (*Dialect, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.dialects[name]
	if !ok {
		return nil, false
	}
	return d.Clone(), true
}

// Get is like Lookup but reports a configuration error for unknown names.
func (r *Registry) Get(name string) (*Dialect, error) {
	d, ok := r.Lookup(name)
	if !ok {
		return nil, lir.NewError(lir.ErrConfiguration, "unknown dialect %q (known: %v)", name, r.Names())
	}
	return d, nil
}

// Names returns the registered dialect names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := lo.Keys(r.dialects)
	slices.Sort(names)
	return names
}

// Lookup returns a copy of the named dialect from the Default registry.
func Lookup(name string) (*Dialect, bool) {
	return Default.Lookup(name)
}
