package cli

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/toyz/dendrite/internal/models"
)

func captureStderr(t *testing.T, fn func()) string {
	t.Helper()

	oldStderr := os.Stderr
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stderr = w

	fn()

	w.Close()
	os.Stderr = oldStderr

	var buf bytes.Buffer
	buf.ReadFrom(r)
	return buf.String()
}

func TestDiagnosticReporter_ReportWarning(t *testing.T) {
	reporter := NewDiagnosticReporter(false)

	output := captureStderr(t, func() {
		reporter.ReportWarning("This is a test warning")
		reporter.ReportWarning("This is another warning",
			"First suggestion",
			"Second suggestion",
		)
	})

	if !strings.Contains(output, "! This is a test warning") {
		t.Errorf("Expected warning message not found in output")
	}

	if !strings.Contains(output, "! This is another warning") {
		t.Errorf("Expected second warning message not found in output")
	}

	// Suggestions only show in verbose mode
	if strings.Contains(output, "First suggestion") {
		t.Errorf("Suggestions should not be displayed in quiet mode")
	}
}

func TestDiagnosticReporter_ReportWarning_Verbose(t *testing.T) {
	reporter := NewDiagnosticReporter(true)

	output := captureStderr(t, func() {
		reporter.ReportWarning("Transform 'slug' is defined but not used",
			"Remove the unused transform or reference it in a binding",
		)
	})

	if !strings.Contains(output, "! Transform 'slug' is defined but not used") {
		t.Errorf("Expected warning message not found in output")
	}

	if !strings.Contains(output, "Remove the unused transform") {
		t.Errorf("Expected suggestion in verbose output, got:\n%s", output)
	}
}

func TestDiagnosticReporter_ReportGeneratorError(t *testing.T) {
	reporter := NewDiagnosticReporter(false)

	genErr := &models.GeneratorError{
		Type:    models.ErrorTypeTransformValidation,
		File:    "test.go",
		Line:    42,
		Message: "Transform function 'ParseUUID' has invalid signature",
		Suggestions: []string{
			"Expected signature: func(c dendrite.RequestContext, value any) (any, error)",
			"Ensure the first parameter is dendrite.RequestContext",
			"Ensure the second parameter is any",
		},
		Context: map[string]interface{}{
			"transform_name":     "uuid.UUID",
			"expected_signature": "func(c dendrite.RequestContext, value any) (any, error)",
			"actual_signature":   "func ParseUUID(s string) (uuid.UUID, error)",
		},
	}

	output := captureStderr(t, func() {
		reporter.ReportError(genErr)
	})

	expectedElements := []string{
		"ERROR: Binding Generation Failed",
		"Transform Validation Error",
		"Message: Transform function 'ParseUUID' has invalid signature",
		"Location: test.go:42",
		"Context:",
		"Transform: uuid.UUID",
		"Suggestions:",
		"Expected signature: func(c dendrite.RequestContext, value any) (any, error)",
		"Transform Function Requirements:",
		"Must have exactly 2 parameters",
	}

	for _, expected := range expectedElements {
		if !strings.Contains(output, expected) {
			t.Errorf("Output should contain '%s', got:\n%s", expected, output)
		}
	}
}

func TestDiagnosticReporter_ReportWrappedGeneratorError(t *testing.T) {
	reporter := NewDiagnosticReporter(false)

	genErr := &models.GeneratorError{
		Type:    models.ErrorTypeGeneration,
		Message: "Failed to generate bindings for package controllers",
	}
	wrapped := fmt.Errorf("run failed: %w", genErr)

	output := captureStderr(t, func() {
		reporter.ReportError(wrapped)
	})

	if !strings.Contains(output, "Code Generation Error") {
		t.Errorf("Expected wrapped GeneratorError to be unwrapped, got:\n%s", output)
	}
	if !strings.Contains(output, "Failed to generate bindings for package controllers") {
		t.Errorf("Expected unwrapped message, got:\n%s", output)
	}
}

func TestDiagnosticReporter_ReportBasicError(t *testing.T) {
	reporter := NewDiagnosticReporter(false)

	err := fmt.Errorf("transform validation failed: invalid function signature")

	output := captureStderr(t, func() {
		reporter.ReportError(err)
	})

	expectedElements := []string{
		"ERROR: Binding Generation Failed",
		"Message: transform validation failed: invalid function signature",
		"This appears to be a transform-related issue",
		"Check your //dendrite::transform annotations",
	}

	for _, expected := range expectedElements {
		if !strings.Contains(output, expected) {
			t.Errorf("Output should contain '%s', got:\n%s", expected, output)
		}
	}
}

func TestDiagnosticReporter_ReportSuccess(t *testing.T) {
	// Capture stdout output
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	reporter := NewDiagnosticReporter(false)

	summary := GenerationSummary{
		PackagesProcessed:    3,
		ControllersFound:     4,
		HandlersFound:        7,
		BindingsFound:        12,
		TransformsDiscovered: 5,
		GeneratedFiles: []string{
			"internal/controllers/autogen_bindings.go",
			"internal/api/autogen_bindings.go",
		},
	}

	reporter.ReportSuccess(summary)

	w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	buf.ReadFrom(r)
	output := buf.String()

	expectedElements := []string{
		"Binding Generation Completed Successfully!",
		"Processed 3 packages",
		"Found 4 controllers",
		"Found 7 handlers",
		"Found 12 parameter bindings",
		"Discovered 5 custom transforms",
		"Generated files:",
		"internal/controllers/autogen_bindings.go",
		"internal/api/autogen_bindings.go",
		"Your binding registrations are ready to use!",
	}

	for _, expected := range expectedElements {
		if !strings.Contains(output, expected) {
			t.Errorf("Output should contain '%s', got:\n%s", expected, output)
		}
	}
}

func TestDiagnosticReporter_FormatContextKey(t *testing.T) {
	reporter := NewDiagnosticReporter(false)

	tests := []struct {
		input    string
		expected string
	}{
		{"handler", "Handler"},
		{"parameter_index", "Parameter Index"},
		{"source", "Source"},
		{"property", "Property"},
		{"transform_name", "Transform"},
		{"custom_key", "Custom Key"},
		{"another_test_key", "Another Test Key"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := reporter.formatContextKey(tt.input)
			if result != tt.expected {
				t.Errorf("formatContextKey(%s) = %s, expected %s", tt.input, result, tt.expected)
			}
		})
	}
}
