package dendrite

import (
	"fmt"
	"sort"
)

// HandlerFunc is the framework-agnostic handler signature produced by a
// compiled plan and accepted by the adapters
type HandlerFunc func(RequestContext) error

// Binder compiles registered bindings into executable extraction plans.
// It reads each handler's finished binding table exactly once, at route
// registration time; the resulting Plan is immutable and safe to share
// across requests.
type Binder struct {
	reg     *Registry
	catalog *Catalog
}

// NewBinder creates a binder over a registry and a catalog
func NewBinder(reg *Registry, catalog *Catalog) *Binder {
	return &Binder{reg: reg, catalog: catalog}
}

// Compile fixes the extraction order for one handler. It fails when the
// handler has no bindings, when a parameter index is bound from two
// different sources (the registry stores both; a callable handler cannot
// have both), or when the bound indexes leave a gap.
func (b *Binder) Compile(id HandlerID) (*Plan, error) {
	bindings, exists := b.reg.Lookup(id)
	if !exists {
		return nil, &CompileError{Handler: id, Reason: "no bindings registered"}
	}

	steps := make([]planStep, 0, len(bindings))
	for key, desc := range bindings {
		src, _, err := ParseKey(key)
		if err != nil {
			return nil, &CompileError{Handler: id, Reason: err.Error()}
		}
		if _, known := b.catalog.Entry(src); !known {
			return nil, &CompileError{Handler: id, Reason: fmt.Sprintf("source %s has no catalog entry", src)}
		}
		steps = append(steps, planStep{source: src, desc: desc})
	}

	sort.Slice(steps, func(i, j int) bool {
		if steps[i].desc.Index != steps[j].desc.Index {
			return steps[i].desc.Index < steps[j].desc.Index
		}
		return steps[i].source < steps[j].source
	})

	for i, step := range steps {
		if step.desc.Index == i {
			continue
		}
		if i > 0 && steps[i-1].desc.Index == step.desc.Index {
			return nil, &CompileError{
				Handler: id,
				Reason:  fmt.Sprintf("parameter %d is bound from both %s and %s", step.desc.Index, steps[i-1].source, step.source),
			}
		}
		return nil, &CompileError{Handler: id, Reason: fmt.Sprintf("parameter %d has no binding", i)}
	}

	return &Plan{id: id, steps: steps}, nil
}

// Plan is the compiled extraction order for one handler method
type Plan struct {
	id    HandlerID
	steps []planStep
}

type planStep struct {
	source Source
	desc   Descriptor
}

// ID returns the handler identity the plan was compiled for
func (p *Plan) ID() HandlerID {
	return p.id
}

// Arity returns the number of parameters the plan resolves
func (p *Plan) Arity() int {
	return len(p.steps)
}

// Descriptors returns the plan's descriptors in parameter order
func (p *Plan) Descriptors() []Descriptor {
	result := make([]Descriptor, len(p.steps))
	for i, step := range p.steps {
		result[i] = step.desc.clone()
	}
	return result
}

// Resolve extracts and transforms every parameter value for one request,
// in parameter order. The first failing extraction or transform stops
// resolution and is reported as a BindError.
func (p *Plan) Resolve(c RequestContext) ([]any, error) {
	args := make([]any, len(p.steps))
	for i, step := range p.steps {
		value, err := extract(c, step.source, step.desc)
		if err != nil {
			return nil, &BindError{Handler: p.id, Key: Key(step.source, step.desc.Index), Err: err}
		}

		for _, t := range step.desc.Pipes {
			value, err = t.Apply(c, value)
			if err != nil {
				return nil, &BindError{
					Handler: p.id,
					Key:     Key(step.source, step.desc.Index),
					Err:     fmt.Errorf("transform %s: %w", t.Name(), err),
				}
			}
		}

		args[i] = value
	}
	return args, nil
}

// Handler adapts the plan to a HandlerFunc. invoke receives the resolved
// arguments in parameter order and calls the real handler.
func (p *Plan) Handler(invoke func(args []any) error) HandlerFunc {
	return func(c RequestContext) error {
		args, err := p.Resolve(c)
		if err != nil {
			return err
		}
		return invoke(args)
	}
}

// extract pulls the raw value for one descriptor from the request. A
// present property key selects one element of the source; an absent one
// yields the whole source value.
func extract(c RequestContext, src Source, desc Descriptor) (any, error) {
	property, hasProperty := desc.Property()

	switch src {
	case SourceRequest:
		return c.Request(), nil
	case SourceResponse:
		return c.Response(), nil
	case SourceNext:
		return c.Next(), nil
	case SourceSession:
		return c.Session(), nil
	case SourceFile:
		if hasProperty {
			return c.File(property)
		}
		return singleFile(c)
	case SourceFiles:
		return c.Files()
	case SourceHeaders:
		if hasProperty {
			return c.Header(property), nil
		}
		return c.Headers(), nil
	case SourceQuery:
		if hasProperty {
			return c.Query(property), nil
		}
		return c.QueryValues(), nil
	case SourceBody:
		body, err := c.Body()
		if err != nil {
			return nil, err
		}
		if !hasProperty {
			return body, nil
		}
		return pluckBody(body, property)
	case SourceParam:
		if hasProperty {
			return c.Param(property), nil
		}
		return c.Params(), nil
	default:
		return nil, fmt.Errorf("unknown parameter source: %s", src)
	}
}

// singleFile returns the request's only uploaded file, for FILE bindings
// declared without a field name
func singleFile(c RequestContext) (FileHeader, error) {
	files, err := c.Files()
	if err != nil {
		return nil, err
	}

	var found FileHeader
	for _, headers := range files {
		for _, fh := range headers {
			if found != nil {
				return nil, fmt.Errorf("request carries more than one uploaded file, bind with a field name")
			}
			found = fh
		}
	}
	if found == nil {
		return nil, fmt.Errorf("request carries no uploaded file")
	}
	return found, nil
}

// pluckBody selects one property of the decoded body. A missing property
// resolves to nil, matching how an absent object field reads; a body that
// is not an object cannot be plucked.
func pluckBody(body any, property string) (any, error) {
	obj, ok := body.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("body is %T, cannot select property %q", body, property)
	}
	return obj[property], nil
}
