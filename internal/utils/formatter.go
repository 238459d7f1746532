package utils

import (
	"fmt"
	"go/parser"
	"go/token"

	"golang.org/x/tools/imports"
)

// FormatGoCodeString formats generated Go source the way goimports would,
// pruning any import the code does not reference. The original source is
// returned alongside the error when formatting fails, so callers can still
// write something inspectable to disk.
func FormatGoCodeString(source string) (string, error) {
	formatted, err := imports.Process("", []byte(source), nil)
	if err != nil {
		// Distinguish broken syntax from a formatting failure
		fset := token.NewFileSet()
		if _, parseErr := parser.ParseFile(fset, "", source, parser.ParseComments); parseErr != nil {
			return source, fmt.Errorf("invalid Go syntax: %w (format error: %v)", parseErr, err)
		}
		return source, err
	}
	return string(formatted), nil
}

// ValidateGoCode checks whether the provided code parses as Go source
func ValidateGoCode(code string) error {
	fset := token.NewFileSet()
	_, err := parser.ParseFile(fset, "", code, parser.ParseComments)
	return err
}
