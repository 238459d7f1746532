package parser

import (
	"fmt"
	"strings"

	"github.com/toyz/dendrite/internal/models"
)

// TransformErrorReporter provides comprehensive error reporting for transform-related issues
type TransformErrorReporter struct {
	parser *Parser
}

// NewTransformErrorReporter creates a new transform error reporter
func NewTransformErrorReporter(parser *Parser) *TransformErrorReporter {
	return &TransformErrorReporter{
		parser: parser,
	}
}

// ReportTransformValidationError creates a detailed transform validation error with context and suggestions
func (r *TransformErrorReporter) ReportTransformValidationError(functionName, fileName string, line int, issue string, actualSignature string) error {
	expectedSignature := "func(c dendrite.RequestContext, value any) (any, error)"

	suggestions := []string{
		"Expected signature: " + expectedSignature,
	}

	// Add specific suggestions based on the issue
	switch {
	case strings.Contains(issue, "parameters"):
		suggestions = append(suggestions,
			"Ensure the function has exactly 2 parameters",
			"First parameter should be dendrite.RequestContext",
			"Second parameter should be any",
		)
	case strings.Contains(issue, "first parameter"):
		suggestions = append(suggestions,
			"Import the runtime package: github.com/toyz/dendrite/pkg/dendrite",
			"Use 'c dendrite.RequestContext' as the first parameter",
		)
	case strings.Contains(issue, "second parameter"):
		suggestions = append(suggestions,
			"Use 'value any' as the second parameter",
		)
	case strings.Contains(issue, "return"):
		suggestions = append(suggestions,
			"Function must return exactly 2 values",
			"First return value should be the transformed value (any)",
			"Second return value should be error",
		)
	case strings.Contains(issue, "function not found"):
		suggestions = append(suggestions,
			"Ensure the function is defined in the same file as the annotation",
			"Check that the function name matches the annotated declaration",
			"Ensure the function is not a method (no receiver)",
		)
	}

	// Add example based on common transform patterns
	example := r.generateTransformExample(functionName)
	if example != "" {
		suggestions = append(suggestions, "Example implementation:", example)
	}

	return &models.GeneratorError{
		Type:        models.ErrorTypeTransformValidation,
		File:        fileName,
		Line:        line,
		Message:     fmt.Sprintf("Transform function '%s' has invalid signature: %s", functionName, issue),
		Suggestions: suggestions,
		Context: map[string]interface{}{
			"function_name":      functionName,
			"expected_signature": expectedSignature,
			"actual_signature":   actualSignature,
			"issue":              issue,
		},
	}
}

// ReportTransformNotFoundError creates a detailed error when a -Through name has no registered transform
func (r *TransformErrorReporter) ReportTransformNotFoundError(transformName, handlerName string, paramIndex int, fileName string, line int, availableTransforms []string) error {
	suggestions := []string{
		fmt.Sprintf("Register a transform named '%s' using //dendrite::transform %s", transformName, transformName),
		"Check if the transform name is spelled correctly",
	}

	// Add suggestions based on the name
	if strings.Contains(transformName, "UUID") || strings.Contains(transformName, "uuid") {
		suggestions = append(suggestions,
			"For UUID values, the builtin 'uuid.UUID' transform is available",
			"Example: -Through=uuid.UUID",
		)
	}

	if strings.Contains(transformName, "Time") || strings.Contains(transformName, "time") {
		suggestions = append(suggestions,
			"For time values, register a custom transform wrapping time.Parse",
			"Example: //dendrite::transform time.Time",
		)
	}

	// Add available transforms information
	if len(availableTransforms) > 0 {
		suggestions = append(suggestions, fmt.Sprintf("Available transforms: %s", strings.Join(availableTransforms, ", ")))
	} else {
		suggestions = append(suggestions, "No transforms are currently registered")
	}

	// Add example transform implementation
	example := r.generateTransformExample("Parse" + r.capitalizeFirst(transformName))
	if example != "" {
		suggestions = append(suggestions, "Example transform implementation:", example)
	}

	return &models.GeneratorError{
		Type:        models.ErrorTypeTransformValidation,
		File:        fileName,
		Line:        line,
		Message:     fmt.Sprintf("No transform registered for name '%s' used by handler %s (parameter index %d)", transformName, handlerName, paramIndex),
		Suggestions: suggestions,
		Context: map[string]interface{}{
			"transform_name":       transformName,
			"handler":              handlerName,
			"parameter_index":      paramIndex,
			"available_transforms": availableTransforms,
		},
	}
}

// generateTransformExample generates an example transform implementation based on the function name
func (r *TransformErrorReporter) generateTransformExample(functionName string) string {
	// Generate example based on common patterns
	if strings.Contains(strings.ToLower(functionName), "csv") {
		return `//dendrite::transform csv
func ParseCSV(c dendrite.RequestContext, value any) (any, error) {
    s, ok := value.(string)
    if !ok {
        return nil, fmt.Errorf("csv transform expects a string, got %T", value)
    }
    return strings.Split(s, ","), nil
}`
	}

	if strings.Contains(strings.ToLower(functionName), "time") {
		return `//dendrite::transform time.Time
func ParseTime(c dendrite.RequestContext, value any) (any, error) {
    s, ok := value.(string)
    if !ok {
        return nil, fmt.Errorf("time transform expects a string, got %T", value)
    }
    return time.Parse(time.RFC3339, s)
}`
	}

	// Generic example
	return fmt.Sprintf(`//dendrite::transform yourname
func %s(c dendrite.RequestContext, value any) (any, error) {
    // Transform value and return the result
    // Return error if the value cannot be transformed
    return value, nil
}`, functionName)
}

// capitalizeFirst capitalizes the first letter of a string
func (r *TransformErrorReporter) capitalizeFirst(s string) string {
	if len(s) == 0 {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// GenerateTransformDiagnostics generates non-fatal diagnostics for transform usage in a package
func (r *TransformErrorReporter) GenerateTransformDiagnostics(decl *models.PackageDecl) []string {
	var diagnostics []string

	// Collect transform names referenced by bindings
	usedTransforms := make(map[string]bool)
	for _, controller := range decl.Controllers {
		for _, handler := range controller.Handlers {
			if len(handler.Params) == 0 {
				diagnostics = append(diagnostics, fmt.Sprintf("Handler %s.%s has no parameter bindings", controller.StructName, handler.Name))
			}
			for _, param := range handler.Params {
				for _, name := range param.Through {
					usedTransforms[name] = true
				}
			}
		}
	}

	// Check for unused transforms
	for _, transform := range decl.Transforms {
		if !usedTransforms[transform.Name] {
			diagnostics = append(diagnostics, fmt.Sprintf("Transform '%s' is defined but not used in any binding in this package", transform.Name))
		}
	}

	return diagnostics
}
