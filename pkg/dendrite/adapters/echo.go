package adapters

import (
	"bytes"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/toyz/dendrite/pkg/dendrite"
)

// WrapEcho converts a dendrite handler to an echo.HandlerFunc. Bind
// failures surface as echo HTTP errors with status 400; other handler
// errors pass through to echo's error handler untouched.
func WrapEcho(handler dendrite.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := handler(NewEchoContext(c)); err != nil {
			if isBindError(err) {
				return echo.NewHTTPError(http.StatusBadRequest, err.Error())
			}
			return err
		}
		return nil
	}
}

// EchoContext implements dendrite.RequestContext over echo.Context
type EchoContext struct {
	ctx  echo.Context
	body []byte
	read bool
}

// NewEchoContext wraps an echo.Context
func NewEchoContext(c echo.Context) *EchoContext {
	return &EchoContext{ctx: c}
}

// Method returns the HTTP method
func (ec *EchoContext) Method() string {
	return ec.ctx.Request().Method
}

// Path returns the request path
func (ec *EchoContext) Path() string {
	return ec.ctx.Request().URL.Path
}

// Request returns the underlying *http.Request
func (ec *EchoContext) Request() any {
	return ec.ctx.Request()
}

// Response returns the underlying *echo.Response
func (ec *EchoContext) Response() any {
	return ec.ctx.Response()
}

// Next returns a continuation that always errors. Echo runs middleware
// outside the handler, so there is nothing left to hand off to.
func (ec *EchoContext) Next() func() error {
	return func() error {
		return ErrNoContinuation
	}
}

// Session returns the session stored under SessionKey, or nil
func (ec *EchoContext) Session() any {
	return ec.ctx.Get(SessionKey)
}

// Param returns a route parameter value
func (ec *EchoContext) Param(name string) string {
	return ec.ctx.Param(name)
}

// Params returns all route parameters
func (ec *EchoContext) Params() map[string]string {
	names := ec.ctx.ParamNames()
	values := ec.ctx.ParamValues()
	params := make(map[string]string, len(names))
	for i, name := range names {
		if i < len(values) {
			params[name] = values[i]
		}
	}
	return params
}

// Query returns a single query parameter value
func (ec *EchoContext) Query(name string) string {
	return ec.ctx.QueryParam(name)
}

// QueryValues returns all query parameters
func (ec *EchoContext) QueryValues() map[string][]string {
	return ec.ctx.QueryParams()
}

// Header returns a single request header value
func (ec *EchoContext) Header(name string) string {
	return ec.ctx.Request().Header.Get(name)
}

// Headers returns all request headers
func (ec *EchoContext) Headers() map[string][]string {
	return ec.ctx.Request().Header
}

// Body returns the request body decoded from JSON. The raw bytes are
// cached so the body stays readable for BindBody afterwards.
func (ec *EchoContext) Body() (any, error) {
	raw, err := ec.rawBody()
	if err != nil {
		return nil, err
	}
	return decodeBody(raw)
}

// BindBody decodes the request body into v using echo's binder
func (ec *EchoContext) BindBody(v any) error {
	return ec.ctx.Bind(v)
}

// File returns the uploaded file for one form field
func (ec *EchoContext) File(name string) (dendrite.FileHeader, error) {
	fh, err := ec.ctx.FormFile(name)
	if err != nil {
		return nil, err
	}
	return &formFile{header: fh}, nil
}

// Files returns all uploaded files keyed by form field name
func (ec *EchoContext) Files() (map[string][]dendrite.FileHeader, error) {
	form, err := ec.ctx.MultipartForm()
	if err != nil {
		return nil, err
	}
	return wrapFormFiles(form.File), nil
}

// rawBody reads the request body once and restores it so downstream
// readers still see it
func (ec *EchoContext) rawBody() ([]byte, error) {
	if ec.read {
		return ec.body, nil
	}
	req := ec.ctx.Request()
	raw, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, err
	}
	req.Body = io.NopCloser(bytes.NewReader(raw))
	ec.body = raw
	ec.read = true
	return raw, nil
}
