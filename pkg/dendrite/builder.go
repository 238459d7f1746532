package dendrite

// Builder is the fluent registration surface over a Registry. Route
// registration code declares bindings through it instead of touching the
// registry directly:
//
//	b := dendrite.NewBuilder(reg)
//	b.Handler("TodoController", "Update").
//		Bind(0, dendrite.RouteParam(dendrite.Named("id"), dendrite.Pipeline(dendrite.ToInt()))).
//		Bind(1, dendrite.Body())
type Builder struct {
	reg *Registry
}

// NewBuilder creates a builder writing to the given registry
func NewBuilder(reg *Registry) *Builder {
	return &Builder{reg: reg}
}

// Registry returns the registry this builder writes to
func (b *Builder) Registry() *Registry {
	return b.reg
}

// Handler starts (or resumes) declaring bindings for one handler method.
// Calling it again with the same owner and method continues the same
// binding table; nothing is reset.
func (b *Builder) Handler(owner, method string) *HandlerBuilder {
	return &HandlerBuilder{
		reg: b.reg,
		id:  HandlerID{Owner: owner, Method: method},
	}
}

// HandlerBuilder declares bindings for a single handler method
type HandlerBuilder struct {
	reg *Registry
	id  HandlerID
}

// Bind applies one binding at the given parameter index and returns the
// receiver for chaining. Each call is one annotation application: the
// binding is merged into the method's table immediately, and a later Bind
// for the same source and index overwrites the earlier one.
func (h *HandlerBuilder) Bind(index int, binding Binding) *HandlerBuilder {
	h.reg.Apply(h.id, index, binding)
	return h
}

// ID returns the handler identity this builder writes to
func (h *HandlerBuilder) ID() HandlerID {
	return h.id
}

// Bindings returns a copy of the bindings accumulated so far for this
// handler
func (h *HandlerBuilder) Bindings() MethodBindings {
	m, _ := h.reg.Lookup(h.id)
	return m
}
