package templates

import "fmt"

// RuntimeImportPath is the import path of the runtime package every
// generated bindings file depends on.
const RuntimeImportPath = "github.com/toyz/dendrite/pkg/dendrite"

// GenerateMinimalImports creates the import block for a bindings file with
// no cross-package transform references
func GenerateMinimalImports() string {
	return fmt.Sprintf("import (\n\t%q\n)\n\n", RuntimeImportPath)
}

// GenerateMinimalImportsWithPackages creates the import block for a bindings
// file, including the packages that declare referenced transforms
func GenerateMinimalImportsWithPackages(transformPackages []string) string {
	im := NewImportManager()
	im.AddTransformPackages(transformPackages...)
	return im.GenerateImports()
}
