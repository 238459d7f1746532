package adapters

import (
	"bytes"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/toyz/dendrite/pkg/dendrite"
)

// WrapGin converts a dendrite handler to a gin.HandlerFunc. Bind
// failures abort the request with status 400, other handler errors
// with status 500.
func WrapGin(handler dendrite.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := handler(NewGinContext(c)); err != nil {
			c.AbortWithStatusJSON(errorStatus(err), gin.H{"error": err.Error()})
		}
	}
}

// GinContext implements dendrite.RequestContext over *gin.Context
type GinContext struct {
	ctx  *gin.Context
	body []byte
	read bool
}

// NewGinContext wraps a *gin.Context
func NewGinContext(c *gin.Context) *GinContext {
	return &GinContext{ctx: c}
}

// Method returns the HTTP method
func (gc *GinContext) Method() string {
	return gc.ctx.Request.Method
}

// Path returns the request path
func (gc *GinContext) Path() string {
	return gc.ctx.Request.URL.Path
}

// Request returns the underlying *http.Request
func (gc *GinContext) Request() any {
	return gc.ctx.Request
}

// Response returns the underlying gin.ResponseWriter
func (gc *GinContext) Response() any {
	return gc.ctx.Writer
}

// Next returns a continuation that runs the rest of gin's handler chain
func (gc *GinContext) Next() func() error {
	return func() error {
		gc.ctx.Next()
		return nil
	}
}

// Session returns the session stored under SessionKey, or nil
func (gc *GinContext) Session() any {
	value, _ := gc.ctx.Get(SessionKey)
	return value
}

// Param returns a route parameter value
func (gc *GinContext) Param(name string) string {
	return gc.ctx.Param(name)
}

// Params returns all route parameters
func (gc *GinContext) Params() map[string]string {
	params := make(map[string]string, len(gc.ctx.Params))
	for _, p := range gc.ctx.Params {
		params[p.Key] = p.Value
	}
	return params
}

// Query returns a single query parameter value
func (gc *GinContext) Query(name string) string {
	return gc.ctx.Query(name)
}

// QueryValues returns all query parameters
func (gc *GinContext) QueryValues() map[string][]string {
	return gc.ctx.Request.URL.Query()
}

// Header returns a single request header value
func (gc *GinContext) Header(name string) string {
	return gc.ctx.GetHeader(name)
}

// Headers returns all request headers
func (gc *GinContext) Headers() map[string][]string {
	return gc.ctx.Request.Header
}

// Body returns the request body decoded from JSON. The raw bytes are
// cached so the body stays readable for BindBody afterwards.
func (gc *GinContext) Body() (any, error) {
	raw, err := gc.rawBody()
	if err != nil {
		return nil, err
	}
	return decodeBody(raw)
}

// BindBody decodes the request body into v as JSON
func (gc *GinContext) BindBody(v any) error {
	return gc.ctx.ShouldBindJSON(v)
}

// File returns the uploaded file for one form field
func (gc *GinContext) File(name string) (dendrite.FileHeader, error) {
	fh, err := gc.ctx.FormFile(name)
	if err != nil {
		return nil, err
	}
	return &formFile{header: fh}, nil
}

// Files returns all uploaded files keyed by form field name
func (gc *GinContext) Files() (map[string][]dendrite.FileHeader, error) {
	form, err := gc.ctx.MultipartForm()
	if err != nil {
		return nil, err
	}
	return wrapFormFiles(form.File), nil
}

// rawBody reads the request body once and restores it so downstream
// readers still see it
func (gc *GinContext) rawBody() ([]byte, error) {
	if gc.read {
		return gc.body, nil
	}
	raw, err := io.ReadAll(gc.ctx.Request.Body)
	if err != nil {
		return nil, err
	}
	gc.ctx.Request.Body = io.NopCloser(bytes.NewReader(raw))
	gc.body = raw
	gc.read = true
	return raw, nil
}
