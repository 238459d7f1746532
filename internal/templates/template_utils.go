package templates

import (
	"strconv"
	"strings"
)

// TemplateUtils provides common utilities for template generation
type TemplateUtils struct{}

// NewTemplateUtils creates a new template utilities instance
func NewTemplateUtils() *TemplateUtils {
	return &TemplateUtils{}
}

// ToCamelCase converts a string to camelCase
func (tu *TemplateUtils) ToCamelCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// QuoteString renders a string as a Go string literal, escaping as needed
func (tu *TemplateUtils) QuoteString(s string) string {
	return strconv.Quote(s)
}

// JoinQuoted joins strings as quoted, comma-separated literals
func (tu *TemplateUtils) JoinQuoted(items []string) string {
	if len(items) == 0 {
		return ""
	}

	var quoted []string
	for _, item := range items {
		quoted = append(quoted, tu.QuoteString(item))
	}

	return strings.Join(quoted, ", ")
}

// BuildHandlerKey formats the Owner.Method form a handler is reported under
func (tu *TemplateUtils) BuildHandlerKey(owner, method string) string {
	return owner + "." + method
}

// ExtractTypeName extracts the type name from a potentially qualified type
func (tu *TemplateUtils) ExtractTypeName(qualifiedType string) string {
	if strings.Contains(qualifiedType, ".") {
		parts := strings.Split(qualifiedType, ".")
		return parts[len(parts)-1]
	}
	return qualifiedType
}

// DefaultTemplateUtils provides a global instance for convenience
var DefaultTemplateUtils = NewTemplateUtils()
