package dendrite

import (
	"fmt"
	"sort"
	"sync"
)

// HandlerID identifies one handler method: the owning type's name plus
// the method name. It is the key under which a method's bindings live.
type HandlerID struct {
	// Owner is the name of the type that declares the handler method
	Owner string

	// Method is the handler method name
	Method string
}

// String returns the "Owner.Method" form used in diagnostics
func (id HandlerID) String() string {
	return fmt.Sprintf("%s.%s", id.Owner, id.Method)
}

// Registry stores the accumulated parameter bindings for every registered
// handler method. Registration code (generated or hand-written) populates
// it during startup through a Builder or Apply; binders read it during
// route registration. Stored tables are copied on the way in and on the
// way out, so callers can never alias registry state.
type Registry struct {
	mu       sync.RWMutex
	handlers map[HandlerID]MethodBindings
}

// NewRegistry creates an empty binding registry
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[HandlerID]MethodBindings),
	}
}

// Apply merges one binding at the given parameter index into the bindings
// for id. The first application for an id starts from an empty table.
// Applying a binding for a (source, index) pair that already exists
// overwrites that entry and preserves all others.
func (r *Registry) Apply(id HandlerID, index int, b Binding) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.handlers[id] = r.handlers[id].With(index, b)
}

// Lookup returns a copy of the bindings registered for id
func (r *Registry) Lookup(id HandlerID) (MethodBindings, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, exists := r.handlers[id]
	if !exists {
		return nil, false
	}
	return m.clone(), true
}

// Handlers returns the identity of every handler with at least one
// binding, sorted by owner then method
func (r *Registry) Handlers() []HandlerID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]HandlerID, 0, len(r.handlers))
	for id := range r.handlers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if ids[i].Owner != ids[j].Owner {
			return ids[i].Owner < ids[j].Owner
		}
		return ids[i].Method < ids[j].Method
	})
	return ids
}

// Size returns the number of handlers with registered bindings
func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.handlers)
}
