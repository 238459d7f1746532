package adapters

import (
	"github.com/gofiber/fiber/v2"

	"github.com/toyz/dendrite/pkg/dendrite"
)

// WrapFiber converts a dendrite handler to a fiber.Handler. Bind
// failures become fiber errors with status 400; other handler errors
// pass through to fiber's error handler untouched.
func WrapFiber(handler dendrite.HandlerFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := handler(NewFiberContext(c)); err != nil {
			if isBindError(err) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return err
		}
		return nil
	}
}

// FiberContext implements dendrite.RequestContext over *fiber.Ctx
type FiberContext struct {
	ctx *fiber.Ctx
}

// NewFiberContext wraps a *fiber.Ctx
func NewFiberContext(c *fiber.Ctx) *FiberContext {
	return &FiberContext{ctx: c}
}

// Method returns the HTTP method
func (fc *FiberContext) Method() string {
	return fc.ctx.Method()
}

// Path returns the request path
func (fc *FiberContext) Path() string {
	return fc.ctx.Path()
}

// Request returns the underlying *fasthttp.Request
func (fc *FiberContext) Request() any {
	return fc.ctx.Request()
}

// Response returns the underlying *fasthttp.Response
func (fc *FiberContext) Response() any {
	return fc.ctx.Response()
}

// Next returns a continuation that runs the rest of fiber's handler
// chain
func (fc *FiberContext) Next() func() error {
	return func() error {
		return fc.ctx.Next()
	}
}

// Session returns the session stored under SessionKey, or nil
func (fc *FiberContext) Session() any {
	return fc.ctx.Locals(SessionKey)
}

// Param returns a route parameter value
func (fc *FiberContext) Param(name string) string {
	return fc.ctx.Params(name)
}

// Params returns all route parameters
func (fc *FiberContext) Params() map[string]string {
	route := fc.ctx.Route()
	params := make(map[string]string, len(route.Params))
	for _, name := range route.Params {
		params[name] = fc.ctx.Params(name)
	}
	return params
}

// Query returns a single query parameter value
func (fc *FiberContext) Query(name string) string {
	return fc.ctx.Query(name)
}

// QueryValues returns all query parameters
func (fc *FiberContext) QueryValues() map[string][]string {
	values := make(map[string][]string)
	fc.ctx.Request().URI().QueryArgs().VisitAll(func(key, value []byte) {
		values[string(key)] = append(values[string(key)], string(value))
	})
	return values
}

// Header returns a single request header value
func (fc *FiberContext) Header(name string) string {
	return fc.ctx.Get(name)
}

// Headers returns all request headers
func (fc *FiberContext) Headers() map[string][]string {
	return fc.ctx.GetReqHeaders()
}

// Body returns the request body decoded from JSON. Fiber keeps the body
// in memory, so no caching is needed here.
func (fc *FiberContext) Body() (any, error) {
	return decodeBody(fc.ctx.Body())
}

// BindBody decodes the request body into v using fiber's body parser
func (fc *FiberContext) BindBody(v any) error {
	return fc.ctx.BodyParser(v)
}

// File returns the uploaded file for one form field
func (fc *FiberContext) File(name string) (dendrite.FileHeader, error) {
	fh, err := fc.ctx.FormFile(name)
	if err != nil {
		return nil, err
	}
	return &formFile{header: fh}, nil
}

// Files returns all uploaded files keyed by form field name
func (fc *FiberContext) Files() (map[string][]dendrite.FileHeader, error) {
	form, err := fc.ctx.MultipartForm()
	if err != nil {
		return nil, err
	}
	return wrapFormFiles(form.File), nil
}
