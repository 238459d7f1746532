package dendrite

import "io"

// RequestContext is the framework-agnostic surface a compiled Plan
// extracts parameter values from. Adapters in pkg/dendrite/adapters
// implement it for Echo, Gin and Fiber.
type RequestContext interface {
	// Request data
	Method() string
	Path() string

	// Native objects for REQUEST and RESPONSE bindings. The concrete
	// type is the adapter's framework type.
	Request() any
	Response() any

	// Next returns the continuation for NEXT bindings. Adapters whose
	// framework has no in-handler chain return a func that errors.
	Next() func() error

	// Session returns the session for SESSION bindings, or nil when the
	// adapter has none attached
	Session() any

	// Route parameters
	Param(name string) string
	Params() map[string]string

	// Query parameters
	Query(name string) string
	QueryValues() map[string][]string

	// Headers
	Header(name string) string
	Headers() map[string][]string

	// Body returns the request body decoded into its generic form
	// (JSON objects decode to map[string]any)
	Body() (any, error)

	// BindBody decodes the request body into v using the framework's
	// binder
	BindBody(v any) error

	// Uploaded files
	File(name string) (FileHeader, error)
	Files() (map[string][]FileHeader, error)
}

// FileHeader describes one uploaded file
type FileHeader interface {
	Filename() string
	Size() int64
	Header() map[string][]string
	Open() (io.ReadCloser, error)
}
