package utils

import "fmt"

// WrapRegisterError wraps an error with a "failed to register" message
func WrapRegisterError(name string, err error) error {
	return fmt.Errorf("failed to register %s: %w", name, err)
}

// WrapGenerateError wraps an error with a "failed to generate" message
func WrapGenerateError(item string, err error) error {
	return fmt.Errorf("failed to generate %s: %w", item, err)
}

// WrapProcessError wraps an error with a "failed to process" message
func WrapProcessError(item string, err error) error {
	return fmt.Errorf("failed to process %s: %w", item, err)
}
