package models

import (
	"fmt"
	"strings"
)

// GeneratorError represents an error that occurred during binding generation
type GeneratorError struct {
	Type        ErrorType              // type of error
	File        string                 // file where error occurred
	Line        int                    // line number where error occurred
	Message     string                 // error message
	Suggestions []string               // hints for fixing the error
	Context     map[string]interface{} // structured details for diagnostic reporting
	Cause       error                  // underlying error cause
}

// Error implements the error interface
func (e *GeneratorError) Error() string {
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Message)
	}
	if e.File != "" {
		return fmt.Sprintf("%s: %s", e.File, e.Message)
	}
	return e.Message
}

// Unwrap returns the underlying error cause
func (e *GeneratorError) Unwrap() error {
	return e.Cause
}

// TransformConflict identifies one registration site of a conflicting transform name
type TransformConflict struct {
	FileName     string
	Line         int
	FunctionName string
	PackagePath  string
}

// NewTransformConflictError reports a transform name registered more than once
func NewTransformConflictError(name string, conflicts []TransformConflict) *GeneratorError {
	var conflictDetails []string
	for _, conflict := range conflicts {
		conflictDetails = append(conflictDetails,
			fmt.Sprintf("%s:%d (%s)", conflict.FileName, conflict.Line, conflict.FunctionName))
	}

	return &GeneratorError{
		Type:    ErrorTypeTransformConflict,
		Message: fmt.Sprintf("multiple transforms registered for name '%s'", name),
		Suggestions: []string{
			"Keep only one transform registration for each name",
			"Remove the duplicate transform annotation",
			fmt.Sprintf("Conflicting registrations found at: %s", strings.Join(conflictDetails, ", ")),
		},
		Context: map[string]interface{}{
			"transform_name": name,
			"conflicts":      conflicts,
		},
	}
}
