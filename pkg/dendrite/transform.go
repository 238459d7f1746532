package dendrite

import (
	"fmt"
	"sort"
	"sync"
)

// Transform converts or validates one extracted value before it is handed
// to the handler. Transforms run in pipeline order; the first error stops
// the pipeline.
type Transform interface {
	// Name is the stable name the transform is registered and reported under
	Name() string

	// Apply converts the extracted value, with access to the live request
	Apply(c RequestContext, value any) (any, error)
}

// transformFunc adapts a plain function to the Transform interface
type transformFunc struct {
	name string
	fn   func(c RequestContext, value any) (any, error)
}

func (t transformFunc) Name() string { return t.name }

func (t transformFunc) Apply(c RequestContext, value any) (any, error) {
	return t.fn(c, value)
}

// TransformFunc wraps a function as a ready-to-use Transform instance
func TransformFunc(name string, fn func(c RequestContext, value any) (any, error)) Transform {
	return transformFunc{name: name, fn: fn}
}

// deferredTransform builds its backing transform on first use
type deferredTransform struct {
	name  string
	build func() Transform
	once  *sync.Once
	inner *Transform
}

func (t deferredTransform) Name() string { return t.name }

func (t deferredTransform) Apply(c RequestContext, value any) (any, error) {
	t.once.Do(func() {
		built := t.build()
		*t.inner = built
	})
	return (*t.inner).Apply(c, value)
}

// Deferred wraps a transform constructor so it can sit in a pipeline
// before being instantiated. The constructor runs at most once, on the
// first Apply; Name never triggers construction.
func Deferred(name string, build func() Transform) Transform {
	var inner Transform
	return deferredTransform{
		name:  name,
		build: build,
		once:  &sync.Once{},
		inner: &inner,
	}
}

// TransformRegistry resolves transform names to transforms. A new
// registry starts with the builtin transforms and their aliases;
// applications register custom transforms on top.
type TransformRegistry struct {
	mu         sync.RWMutex
	transforms map[string]Transform
	aliases    map[string]string
}

// NewTransformRegistry creates a registry preloaded with the builtin
// transforms and aliases
func NewTransformRegistry() *TransformRegistry {
	r := &TransformRegistry{
		transforms: make(map[string]Transform),
		aliases:    make(map[string]string),
	}

	for _, t := range BuiltinTransforms() {
		r.transforms[t.Name()] = t
	}
	for alias, target := range TransformAliases {
		r.aliases[alias] = target
	}

	return r
}

// Register adds a custom transform. Registering a name that already
// exists (as a transform or an alias) is a conflict and returns an error.
func (r *TransformRegistry) Register(t Transform) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := t.Name()
	if _, exists := r.transforms[name]; exists {
		return fmt.Errorf("transform %q is already registered", name)
	}
	if target, exists := r.aliases[name]; exists {
		return fmt.Errorf("transform name %q is already an alias for %q", name, target)
	}

	r.transforms[name] = t
	return nil
}

// Alias maps an additional name to an already registered transform
func (r *TransformRegistry) Alias(alias, target string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.transforms[alias]; exists {
		return fmt.Errorf("alias %q collides with a registered transform", alias)
	}
	if _, exists := r.transforms[target]; !exists {
		return fmt.Errorf("alias target %q is not a registered transform", target)
	}

	r.aliases[alias] = target
	return nil
}

// Resolve returns the transform registered under name, resolving aliases
// first
func (r *TransformRegistry) Resolve(name string) (Transform, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if target, isAlias := r.aliases[name]; isAlias {
		name = target
	}

	t, exists := r.transforms[name]
	return t, exists
}

// MustResolve is Resolve for generated registration code, where a missing
// transform means the generator and the registry disagree. It panics on
// unknown names.
func (r *TransformRegistry) MustResolve(name string) Transform {
	t, exists := r.Resolve(name)
	if !exists {
		panic(fmt.Sprintf("dendrite: unknown transform %q", name))
	}
	return t
}

// Has reports whether name resolves to a transform, alias or not
func (r *TransformRegistry) Has(name string) bool {
	_, exists := r.Resolve(name)
	return exists
}

// Names returns every registered transform name and alias, sorted
func (r *TransformRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.transforms)+len(r.aliases))
	for name := range r.transforms {
		names = append(names, name)
	}
	for alias := range r.aliases {
		names = append(names, alias)
	}
	sort.Strings(names)
	return names
}
