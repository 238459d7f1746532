package errors

import "fmt"

// Common error wrapping patterns used throughout the tool.

// WrapWithOperation wraps an error with an operation context
func WrapWithOperation(operation, item string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s %s", operation, item)
	return Wrap(UnknownErrorCode, message, cause)
}

// WrapParseError wraps an error with a "failed to parse" message
func WrapParseError(item string, cause error) *BaseError {
	message := fmt.Sprintf("failed to parse %s", item)
	return Wrap(SyntaxErrorCode, message, cause)
}

// WrapFileSystemError wraps file system related errors
func WrapFileSystemError(operation, path string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s file '%s'", operation, path)
	return Wrap(FileSystemErrorCode, message, cause).
		WithContext("operation", operation).
		WithContext("path", path)
}

// WrapTemplateError wraps template processing errors
func WrapTemplateError(templateName, operation string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s template '%s'", operation, templateName)
	return Wrap(TemplateErrorCode, message, cause).
		WithContext("template", templateName)
}

// WrapModuleError wraps module resolution errors
func WrapModuleError(path string, cause error) *BaseError {
	message := fmt.Sprintf("failed to resolve module from '%s'", path)
	return Wrap(ModuleErrorCode, message, cause).
		WithContext("path", path).
		WithSuggestion("Check that go.mod exists and has a valid module declaration").
		WithSuggestion("Pass --module to set the module path explicitly")
}
