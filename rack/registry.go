package rack

import (
	"errors"
	"sort"
	"sync"

	"github.com/cwbudde/algo-ambient/module"
)

// Registry maps module ids to live modules. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	modules map[string]module.Module
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{modules: make(map[string]module.Module)}
}

// Register stores m under its id. A different module already registered
// under that id is disposed.
func (r *Registry) Register(m module.Module) error {
	if m == nil {
		return errors.New("rack: nil module")
	}

	r.mu.Lock()
	old := r.modules[m.ID()]
	r.modules[m.ID()] = m
	r.mu.Unlock()

	if old != nil && old != m {
		old.Dispose()
	}

	return nil
}

// Unregister disposes and removes the module under id. It reports whether a
// module was present.
func (r *Registry) Unregister(id string) bool {
	r.mu.Lock()
	m, ok := r.modules[id]
	delete(r.modules, id)
	r.mu.Unlock()

	if ok {
		m.Dispose()
	}

	return ok
}

// Lookup returns the module under id.
func (r *Registry) Lookup(id string) (module.Module, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.modules[id]

	return m, ok
}

// IDs returns the registered ids in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.modules))
	for id := range r.modules {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return ids
}

// Len returns the number of registered modules.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.modules)
}

// Clear disposes and removes every module.
func (r *Registry) Clear() {
	r.mu.Lock()
	all := r.modules
	r.modules = make(map[string]module.Module)
	r.mu.Unlock()

	for _, m := range all {
		m.Dispose()
	}
}
