// Package adapters bridges dendrite's RequestContext to concrete web
// frameworks. Each adapter wraps the framework's context type, and a
// Wrap function converts a dendrite.HandlerFunc into the framework's
// native handler so compiled plans can run inside any of them.
package adapters

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/toyz/dendrite/pkg/dendrite"
)

// SessionKey is the context-store key the adapters read sessions from.
// Session middleware that wants its session visible to SESSION bindings
// stores it under this key.
const SessionKey = "dendrite.session"

// ErrNoContinuation is returned by the NEXT continuation on frameworks
// that run middleware outside the handler
var ErrNoContinuation = errors.New("adapter has no in-handler continuation")

// formFile adapts the *multipart.FileHeader every supported framework
// surfaces for uploads
type formFile struct {
	header *multipart.FileHeader
}

func (f *formFile) Filename() string {
	return f.header.Filename
}

func (f *formFile) Size() int64 {
	return f.header.Size
}

func (f *formFile) Header() map[string][]string {
	return f.header.Header
}

func (f *formFile) Open() (io.ReadCloser, error) {
	return f.header.Open()
}

// wrapFormFiles converts a parsed multipart file map into dendrite file
// headers, keyed by form field name
func wrapFormFiles(files map[string][]*multipart.FileHeader) map[string][]dendrite.FileHeader {
	wrapped := make(map[string][]dendrite.FileHeader, len(files))
	for field, headers := range files {
		for _, fh := range headers {
			wrapped[field] = append(wrapped[field], &formFile{header: fh})
		}
	}
	return wrapped
}

// decodeBody unmarshals a JSON request body into its generic form. An
// empty body decodes to nil.
func decodeBody(raw []byte) (any, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, fmt.Errorf("decode request body: %w", err)
	}
	return value, nil
}

// isBindError reports whether err came from parameter resolution
func isBindError(err error) bool {
	var bindErr *dendrite.BindError
	return errors.As(err, &bindErr)
}

// errorStatus maps a handler error to an HTTP status code. Resolution
// failures are the client's fault, everything else is the server's.
func errorStatus(err error) int {
	if isBindError(err) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
