package dataview

import (
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/matst80/slask-grid/pkg/types"
)

// Registry holds the named grids a service instance serves.
type Registry struct {
	mu    sync.RWMutex
	views map[string]*View
	order []string
}

func NewRegistry() *Registry {
	return &Registry{views: make(map[string]*View)}
}

// Register adds a view under its name; an empty name gets a generated one.
// Re-registering a name replaces the previous view. Returns the final name.
func (r *Registry) Register(view *View) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := view.name
	if name == "" {
		name = uuid.NewString()
		view.name = name
	}
	if _, exists := r.views[name]; !exists {
		r.order = append(r.order, name)
	}
	r.views[name] = view
	return name
}

// Get resolves a grid by name.
func (r *Registry) Get(name string) (*View, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	view, ok := r.views[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", types.ErrUnknownGrid, name)
	}
	return view, nil
}

// Names lists registered grids in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}

// Views returns all registered views in registration order.
func (r *Registry) Views() []*View {
	r.mu.RLock()
	defer r.mu.RUnlock()
	views := make([]*View, 0, len(r.order))
	for _, name := range r.order {
		views = append(views, r.views[name])
	}
	return views
}

// Remove unregisters a grid.
func (r *Registry) Remove(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.views[name]; !exists {
		return false
	}
	delete(r.views, name)
	r.order = slices.DeleteFunc(r.order, func(n string) bool { return n == name })
	return true
}
