package dendrite

// Binding describes one parameter annotation before it is attached to a
// parameter index: the source it extracts from, an optional property key,
// and the transform pipeline in application order. Bindings are values;
// applying one never mutates it, so a Binding can be reused across
// parameters and handlers.
type Binding struct {
	source Source
	data   *string
	pipes  []Transform
}

// Source returns the source kind this binding extracts from
func (b Binding) Source() Source {
	return b.source
}

// Property returns the property key and whether one was set
func (b Binding) Property() (string, bool) {
	if b.data == nil {
		return "", false
	}
	return *b.data, true
}

// Pipes returns a copy of the transform pipeline
func (b Binding) Pipes() []Transform {
	return append([]Transform(nil), b.pipes...)
}

// Arg configures a pipeline-capable binding. The two implementations,
// Named and Pipeline, state the caller's intent explicitly so a property
// key can never be mistaken for a transform or vice versa.
type Arg interface {
	configure(b *Binding)
}

type namedArg string

func (a namedArg) configure(b *Binding) {
	key := string(a)
	b.data = &key
}

// Named selects a single property of the source value instead of the
// whole value. Named("") is legal and selects the empty property key.
// When several Named args are given, the last one wins.
func Named(property string) Arg {
	return namedArg(property)
}

type pipelineArg []Transform

func (a pipelineArg) configure(b *Binding) {
	b.pipes = append(b.pipes, a...)
}

// Pipeline appends transforms to the binding's pipeline in the order
// given. Repeated Pipeline args concatenate, so
// Pipeline(t1), Pipeline(t2) is the same pipeline as Pipeline(t1, t2).
func Pipeline(transforms ...Transform) Arg {
	return pipelineArg(transforms)
}

// simpleBinding returns the annotation constructor for a source kind that
// never carries transforms: an optional property key and an empty
// pipeline.
func simpleBinding(src Source) func(property ...string) Binding {
	return func(property ...string) Binding {
		b := Binding{source: src}
		if len(property) > 0 {
			key := property[0]
			b.data = &key
		}
		return b
	}
}

// pipelineBinding returns the annotation constructor for a source kind
// that accepts a property key and a transform pipeline through tagged
// arguments.
func pipelineBinding(src Source) func(args ...Arg) Binding {
	return func(args ...Arg) Binding {
		b := Binding{source: src}
		for _, arg := range args {
			arg.configure(&b)
		}
		return b
	}
}

// The binding catalog: one exported constructor per source kind. The
// table in NewCatalog mirrors this set for tooling that needs it as data.

// RequestObject binds the framework's native request object
func RequestObject() Binding {
	return simpleBinding(SourceRequest)()
}

// ResponseObject binds the framework's native response object
func ResponseObject() Binding {
	return simpleBinding(SourceResponse)()
}

// NextCallback binds the continuation that advances the middleware chain
func NextCallback() Binding {
	return simpleBinding(SourceNext)()
}

// SessionObject binds the session attached to the request
func SessionObject() Binding {
	return simpleBinding(SourceSession)()
}

// UploadedFile binds a single uploaded file. The optional key names the
// multipart field; without it the request must carry exactly one file.
func UploadedFile(key ...string) Binding {
	return simpleBinding(SourceFile)(key...)
}

// UploadedFiles binds every uploaded file, keyed by multipart field name
func UploadedFiles() Binding {
	return simpleBinding(SourceFiles)()
}

// Headers binds a single named header, or the full header map when no
// property is given. Headers never take a transform pipeline.
func Headers(property ...string) Binding {
	return simpleBinding(SourceHeaders)(property...)
}

// Query binds a named query field, or the full query value map, with an
// optional transform pipeline:
//
//	Query()                                  // whole query map
//	Query(Named("page"))                     // one field, as-is
//	Query(Named("page"), Pipeline(ToInt()))  // one field, converted
//	Query(Pipeline(t1, t2))                  // whole map through transforms
func Query(args ...Arg) Binding {
	return pipelineBinding(SourceQuery)(args...)
}

// Body binds the decoded request body, or a single named property of it,
// with an optional transform pipeline. See Query for the argument shapes.
func Body(args ...Arg) Binding {
	return pipelineBinding(SourceBody)(args...)
}

// RouteParam binds a named route path parameter, or the full parameter
// map, with an optional transform pipeline. See Query for the argument
// shapes.
func RouteParam(args ...Arg) Binding {
	return pipelineBinding(SourceParam)(args...)
}

// Req is a shorthand alias for RequestObject
var Req = RequestObject

// Res is a shorthand alias for ResponseObject
var Res = ResponseObject
