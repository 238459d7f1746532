package annotations

import "fmt"

// AnnotationType represents the type of annotation
type AnnotationType int

const (
	ControllerAnnotation AnnotationType = iota
	HandlerAnnotation
	ParamAnnotation
	TransformAnnotation
)

// String returns the string representation of the annotation type
func (a AnnotationType) String() string {
	switch a {
	case ControllerAnnotation:
		return "controller"
	case HandlerAnnotation:
		return "handler"
	case ParamAnnotation:
		return "param"
	case TransformAnnotation:
		return "transform"
	default:
		return "unknown"
	}
}

// ParseAnnotationType converts string to AnnotationType
func ParseAnnotationType(s string) (AnnotationType, error) {
	switch s {
	case "controller":
		return ControllerAnnotation, nil
	case "handler":
		return HandlerAnnotation, nil
	case "param":
		return ParamAnnotation, nil
	case "transform":
		return TransformAnnotation, nil
	default:
		return 0, fmt.Errorf("unknown annotation type: %s", s)
	}
}

// SourceLocation represents the location of an annotation in source code
type SourceLocation struct {
	File   string // File path
	Line   int    // Line number (1-based)
	Column int    // Column number (1-based)
}

// ParsedAnnotation represents a fully parsed annotation with type-safe parameters
type ParsedAnnotation struct {
	Type       AnnotationType         // Annotation type enum
	Target     string                 // Target struct/function name
	Parameters map[string]interface{} // Typed parameters
	Location   SourceLocation         // Source location
	Raw        string                 // Original annotation text
}

// GetString returns a string parameter value with optional default
func (p *ParsedAnnotation) GetString(paramName string, defaultValue ...string) string {
	if value, exists := p.Parameters[paramName]; exists {
		if strValue, ok := value.(string); ok {
			return strValue
		}
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

// GetInt returns an integer parameter value with optional default
func (p *ParsedAnnotation) GetInt(paramName string, defaultValue ...int) int {
	if value, exists := p.Parameters[paramName]; exists {
		if intValue, ok := value.(int); ok {
			return intValue
		}
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return 0
}

// GetStringSlice returns a string slice parameter value with optional default
func (p *ParsedAnnotation) GetStringSlice(paramName string, defaultValue ...[]string) []string {
	if value, exists := p.Parameters[paramName]; exists {
		if sliceValue, ok := value.([]string); ok {
			return sliceValue
		}
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return nil
}

// HasParameter checks if a parameter exists
func (p *ParsedAnnotation) HasParameter(paramName string) bool {
	_, exists := p.Parameters[paramName]
	return exists
}

// ParameterType represents the type of a parameter
type ParameterType int

const (
	StringType ParameterType = iota
	IntType
	StringSliceType
)

// String returns the string representation of the parameter type
func (p ParameterType) String() string {
	switch p {
	case StringType:
		return "string"
	case IntType:
		return "int"
	case StringSliceType:
		return "[]string"
	default:
		return "unknown"
	}
}

// ParameterSpec defines the specification for an annotation parameter
type ParameterSpec struct {
	Type        ParameterType           // Parameter type
	Required    bool                    // Whether parameter is required
	Description string                  // Parameter description
	Validator   func(interface{}) error // Custom validator function
}

// CustomValidator represents a custom validation function for annotations
type CustomValidator func(*ParsedAnnotation) error

// AnnotationSchema defines the schema for an annotation type
type AnnotationSchema struct {
	Type        AnnotationType           // Annotation type enum
	Description string                   // Human-readable description
	Parameters  map[string]ParameterSpec // Parameter specifications
	Validators  []CustomValidator        // Custom validation functions
	Examples    []string                 // Usage examples
}

// ConvertToStringSlice converts various types to string slice
func ConvertToStringSlice(value interface{}) ([]string, error) {
	switch v := value.(type) {
	case []string:
		return v, nil
	case string:
		if v == "" {
			return []string{}, nil
		}
		if containsComma(v) {
			return parseCommaSeparated(v), nil
		}
		return []string{v}, nil
	default:
		return nil, fmt.Errorf("cannot convert %T to []string", value)
	}
}

func containsComma(s string) bool {
	for _, char := range s {
		if char == ',' {
			return true
		}
	}
	return false
}

func parseCommaSeparated(s string) []string {
	parts := make([]string, 0)
	current := ""
	inQuotes := false

	for i, char := range s {
		switch char {
		case '"', '\'':
			inQuotes = !inQuotes
			current += string(char)
		case ',':
			if !inQuotes {
				parts = append(parts, trimAndUnquote(current))
				current = ""
			} else {
				current += string(char)
			}
		default:
			current += string(char)
		}

		// Handle last part
		if i == len(s)-1 && current != "" {
			parts = append(parts, trimAndUnquote(current))
		}
	}

	return parts
}

func trimAndUnquote(s string) string {
	for len(s) > 0 && (s[0] == ' ' || s[0] == '\t') {
		s = s[1:]
	}
	for len(s) > 0 && (s[len(s)-1] == ' ' || s[len(s)-1] == '\t') {
		s = s[:len(s)-1]
	}

	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
