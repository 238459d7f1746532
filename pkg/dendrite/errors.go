package dendrite

import "fmt"

// CompileError reports an invalid binding table discovered while
// compiling a plan. The registry itself accepts any combination of
// bindings; combinations that cannot produce a callable handler are
// rejected here.
type CompileError struct {
	Handler HandlerID
	Reason  string
}

// Error implements the error interface
func (e *CompileError) Error() string {
	return fmt.Sprintf("compile bindings for %s: %s", e.Handler, e.Reason)
}

// BindError reports a failed extraction or transform for one parameter
// while resolving a plan against a live request.
type BindError struct {
	// Handler is the handler the plan was compiled for
	Handler HandlerID

	// Key is the binding key of the failing parameter, e.g. "BODY:0"
	Key string

	// Err is the underlying extraction or transform error
	Err error
}

// Error implements the error interface
func (e *BindError) Error() string {
	return fmt.Sprintf("bind %s for %s: %v", e.Key, e.Handler, e.Err)
}

// Unwrap returns the underlying error
func (e *BindError) Unwrap() error {
	return e.Err
}
