// Package dendrite provides the public APIs for the Dendrite parameter
// binding framework: source kinds, binding descriptors, the binding
// registry and builder, and the reference binder that turns registered
// bindings into handler argument lists.
package dendrite

import (
	"fmt"
	"strconv"
	"strings"
)

// Source identifies where a handler parameter's value is extracted from.
// The set is fixed at compile time and never extended at runtime.
type Source int

const (
	SourceRequest Source = iota
	SourceResponse
	SourceNext
	SourceSession
	SourceFile
	SourceFiles
	SourceHeaders
	SourceQuery
	SourceBody
	SourceParam
)

// String returns the canonical upper-case source name used in binding keys
func (s Source) String() string {
	switch s {
	case SourceRequest:
		return "REQUEST"
	case SourceResponse:
		return "RESPONSE"
	case SourceNext:
		return "NEXT"
	case SourceSession:
		return "SESSION"
	case SourceFile:
		return "FILE"
	case SourceFiles:
		return "FILES"
	case SourceHeaders:
		return "HEADERS"
	case SourceQuery:
		return "QUERY"
	case SourceBody:
		return "BODY"
	case SourceParam:
		return "PARAM"
	default:
		return "UNKNOWN"
	}
}

// ParseSource converts a source name to a Source. Names are matched
// case-insensitively so both the key form ("BODY") and the annotation
// form ("body") resolve.
func ParseSource(s string) (Source, error) {
	switch strings.ToUpper(s) {
	case "REQUEST":
		return SourceRequest, nil
	case "RESPONSE":
		return SourceResponse, nil
	case "NEXT":
		return SourceNext, nil
	case "SESSION":
		return SourceSession, nil
	case "FILE":
		return SourceFile, nil
	case "FILES":
		return SourceFiles, nil
	case "HEADERS":
		return SourceHeaders, nil
	case "QUERY":
		return SourceQuery, nil
	case "BODY":
		return SourceBody, nil
	case "PARAM":
		return SourceParam, nil
	default:
		return 0, fmt.Errorf("unknown parameter source: %s", s)
	}
}

// Key returns the binding key for a source at a parameter index, e.g.
// "BODY:0" or "QUERY:1". The format is stable: binders parse it back
// with ParseKey.
func Key(src Source, index int) string {
	return fmt.Sprintf("%s:%d", src, index)
}

// ParseKey splits a binding key produced by Key back into its source and
// parameter index.
func ParseKey(key string) (Source, int, error) {
	sep := strings.IndexByte(key, ':')
	if sep == -1 {
		return 0, 0, fmt.Errorf("malformed binding key: %s", key)
	}

	src, err := ParseSource(key[:sep])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed binding key %s: %w", key, err)
	}

	index, err := strconv.Atoi(key[sep+1:])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed binding key %s: invalid index", key)
	}

	return src, index, nil
}
