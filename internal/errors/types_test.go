package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestBaseErrorMessage(t *testing.T) {
	err := New(ValidationErrorCode, "index must be a non-negative integer")

	if err.Error() != "index must be a non-negative integer" {
		t.Errorf("expected bare message, got %q", err.Error())
	}
	if err.ErrorCode() != ValidationErrorCode {
		t.Errorf("expected ValidationErrorCode, got %v", err.ErrorCode())
	}
}

func TestBaseErrorWithLocation(t *testing.T) {
	loc := SourceLocation{File: "handlers/todo.go", Line: 42}
	err := New(SyntaxErrorCode, "empty annotation").WithLocation(loc)

	expected := "handlers/todo.go:42: empty annotation"
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
	if err.Location() != loc {
		t.Errorf("expected location %v, got %v", loc, err.Location())
	}
}

func TestSourceLocationString(t *testing.T) {
	tests := []struct {
		name     string
		loc      SourceLocation
		expected string
	}{
		{"empty", SourceLocation{}, "unknown location"},
		{"file only", SourceLocation{File: "a.go"}, "a.go"},
		{"file and line", SourceLocation{File: "a.go", Line: 7}, "a.go:7"},
		{"full", SourceLocation{File: "a.go", Line: 7, Column: 3}, "a.go:7:3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.loc.String(); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestBaseErrorUnwrap(t *testing.T) {
	cause := errors.New("no such file")
	err := Wrap(FileSystemErrorCode, "failed to read go.mod", cause)

	if !errors.Is(err, cause) {
		t.Error("wrapped error should match its cause with errors.Is")
	}
}

func TestBaseErrorFluentContext(t *testing.T) {
	err := New(UnknownTransformErrorCode, "no transform named 'csv'").
		WithContext("transform", "csv").
		WithSuggestion("Declare it with a transform annotation").
		WithSuggestion("Check the spelling against registered transform names")

	if err.Context()["transform"] != "csv" {
		t.Errorf("expected transform context, got %v", err.Context())
	}
	if len(err.Suggestions()) != 2 {
		t.Errorf("expected 2 suggestions, got %d", len(err.Suggestions()))
	}
}

func TestWrapFileSystemError(t *testing.T) {
	cause := errors.New("permission denied")
	err := WrapFileSystemError("write", "autogen_bindings.go", cause)

	if !strings.Contains(err.Error(), "autogen_bindings.go") {
		t.Errorf("expected path in message, got %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("wrapped error should be unwrappable to original error")
	}
	if err.ErrorCode() != FileSystemErrorCode {
		t.Errorf("expected FileSystemErrorCode, got %v", err.ErrorCode())
	}
}

func TestMultipleErrors(t *testing.T) {
	collected := NewMultipleErrors()
	if !collected.IsEmpty() {
		t.Error("new collection should be empty")
	}

	collected.Add(New(SyntaxErrorCode, "first"))
	collected.Add(New(ValidationErrorCode, "second"))

	if collected.Count() != 2 {
		t.Errorf("expected 2 errors, got %d", collected.Count())
	}
	if collected.ErrorCode() != SyntaxErrorCode {
		t.Errorf("expected first error's code, got %v", collected.ErrorCode())
	}
	if !strings.Contains(collected.Error(), "multiple errors (2 total)") {
		t.Errorf("expected combined message, got %q", collected.Error())
	}
}

func TestMultipleErrorsSingle(t *testing.T) {
	collected := NewMultipleErrors()
	collected.Add(New(SyntaxErrorCode, "only one"))

	if collected.Error() != "only one" {
		t.Errorf("single error should render bare, got %q", collected.Error())
	}
}

func TestErrorCodeString(t *testing.T) {
	tests := []struct {
		code     ErrorCode
		expected string
	}{
		{SyntaxErrorCode, "SyntaxError"},
		{ValidationErrorCode, "ValidationError"},
		{SignatureErrorCode, "SignatureError"},
		{TransformConflictErrorCode, "TransformConflictError"},
		{UnknownTransformErrorCode, "UnknownTransformError"},
		{GenerationErrorCode, "GenerationError"},
		{FileSystemErrorCode, "FileSystemError"},
		{ModuleErrorCode, "ModuleError"},
		{UnknownErrorCode, "UnknownError"},
	}

	for _, tt := range tests {
		if got := tt.code.String(); got != tt.expected {
			t.Errorf("code %d: expected %q, got %q", int(tt.code), tt.expected, got)
		}
	}
}
