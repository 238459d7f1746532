package templates

import (
	"fmt"
	"sort"
	"strings"
)

// ImportManager assembles the import block of a generated bindings file:
// the runtime import, any cross-package transform imports, and extra
// imports callers add explicitly.
type ImportManager struct {
	runtimeImport     string
	standardImports   map[string]bool
	packageImports    map[string]string // alias -> path
	transformPackages []string
}

// NewImportManager creates an import manager seeded with the runtime import
func NewImportManager() *ImportManager {
	return &ImportManager{
		runtimeImport:     RuntimeImportPath,
		standardImports:   make(map[string]bool),
		packageImports:    make(map[string]string),
		transformPackages: make([]string, 0),
	}
}

// SetRuntimeImport overrides the runtime import path
func (im *ImportManager) SetRuntimeImport(path string) {
	im.runtimeImport = path
}

// AddImport adds a plain import path
func (im *ImportManager) AddImport(importPath string) {
	if importPath != "" {
		im.standardImports[importPath] = true
	}
}

// AddPackageImport adds an aliased import
func (im *ImportManager) AddPackageImport(alias, path string) {
	if alias != "" && path != "" {
		im.packageImports[alias] = path
	}
}

// AddTransformPackages adds the packages that declare referenced transforms,
// skipping duplicates
func (im *ImportManager) AddTransformPackages(packages ...string) {
	for _, pkg := range packages {
		if pkg != "" && !im.containsTransformPackage(pkg) {
			im.transformPackages = append(im.transformPackages, pkg)
		}
	}
}

// containsTransformPackage checks if a transform package is already added
func (im *ImportManager) containsTransformPackage(pkg string) bool {
	for _, existing := range im.transformPackages {
		if existing == pkg {
			return true
		}
	}
	return false
}

// GenerateImports generates the import block, runtime import first, then
// the transform packages sorted, then any extra imports
func (im *ImportManager) GenerateImports() string {
	var builder strings.Builder

	builder.WriteString("import (\n")
	builder.WriteString(fmt.Sprintf("\t%q\n", im.runtimeImport))

	var extra []string
	for _, pkg := range im.transformPackages {
		extra = append(extra, fmt.Sprintf("%q", pkg))
	}
	for imp := range im.standardImports {
		extra = append(extra, fmt.Sprintf("%q", imp))
	}
	for alias, path := range im.packageImports {
		extra = append(extra, fmt.Sprintf("%s %q", alias, path))
	}
	sort.Strings(extra)

	if len(extra) > 0 {
		builder.WriteString("\n")
		for _, imp := range extra {
			builder.WriteString(fmt.Sprintf("\t%s\n", imp))
		}
	}

	builder.WriteString(")\n\n")

	return builder.String()
}

// Clone creates a copy of the import manager
func (im *ImportManager) Clone() *ImportManager {
	clone := NewImportManager()
	clone.runtimeImport = im.runtimeImport

	for imp := range im.standardImports {
		clone.standardImports[imp] = true
	}
	for alias, path := range im.packageImports {
		clone.packageImports[alias] = path
	}
	clone.transformPackages = make([]string, len(im.transformPackages))
	copy(clone.transformPackages, im.transformPackages)

	return clone
}

// Merge merges another import manager into this one
func (im *ImportManager) Merge(other *ImportManager) {
	if other.runtimeImport != "" {
		im.runtimeImport = other.runtimeImport
	}

	for imp := range other.standardImports {
		im.standardImports[imp] = true
	}
	for alias, path := range other.packageImports {
		im.packageImports[alias] = path
	}
	im.AddTransformPackages(other.transformPackages...)
}
