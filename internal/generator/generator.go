package generator

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/toyz/dendrite/internal/models"
	"github.com/toyz/dendrite/internal/registry"
	"github.com/toyz/dendrite/internal/templates"
	"github.com/toyz/dendrite/internal/utils"
)

// TransformRegistryInterface defines the interface for transform registry operations
type TransformRegistryInterface interface {
	RegisterTransform(transform models.TransformMetadata) error
	GetTransform(name string) (models.TransformMetadata, bool)
	ListTransforms() []string
	HasTransform(name string) bool
}

// Generator implements the CodeGenerator interface
type Generator struct {
	moduleResolver    ModuleResolver
	transformRegistry TransformRegistryInterface
}

// ModuleResolver interface for resolving module paths
type ModuleResolver interface {
	ResolveModuleName(customName string) (string, error)
	BuildPackagePath(moduleName, packageDir string) (string, error)
}

// NewGenerator creates a new code generator instance
func NewGenerator() *Generator {
	return &Generator{
		transformRegistry: registry.NewTransformRegistry(),
	}
}

// NewGeneratorWithResolver creates a new code generator instance with a module resolver
func NewGeneratorWithResolver(resolver ModuleResolver) *Generator {
	return &Generator{
		moduleResolver:    resolver,
		transformRegistry: registry.NewTransformRegistry(),
	}
}

// GenerateBindings generates the binding registration file for a package
func (g *Generator) GenerateBindings(decl *models.PackageDecl) (*models.GeneratedFile, error) {
	return g.GenerateBindingsWithModule(decl, "")
}

// GenerateBindingsWithModule generates the binding registration file for a
// package, resolving cross-package imports against the given module name
func (g *Generator) GenerateBindingsWithModule(decl *models.PackageDecl, moduleName string) (*models.GeneratedFile, error) {
	return g.GenerateBindingsWithImports(decl, moduleName, nil)
}

// GenerateBindingsWithImports generates the binding registration file with an
// explicit set of transform package imports. A nil slice means the generator
// resolves them itself; an empty non-nil slice suppresses them.
func (g *Generator) GenerateBindingsWithImports(decl *models.PackageDecl, moduleName string, transformImports []string) (*models.GeneratedFile, error) {
	if decl == nil {
		return nil, fmt.Errorf("package declarations cannot be nil")
	}

	// Determine the output file path
	filePath := filepath.Join(decl.PackagePath, "autogen_bindings.go")

	imports := transformImports
	if imports == nil {
		imports = g.collectTransformImports(decl, moduleName)
	}

	content, data, err := g.generateBindingsContent(decl, imports)
	if err != nil {
		return nil, fmt.Errorf("failed to generate bindings content: %w", err)
	}

	return &models.GeneratedFile{
		PackageName: decl.PackageName,
		FilePath:    filePath,
		Content:     content,
		Handlers:    data.HandlerCount(),
		Bindings:    data.BindingCount(),
	}, nil
}

// generateBindingsContent assembles the full content of one bindings file
func (g *Generator) generateBindingsContent(decl *models.PackageDecl, transformImports []string) (string, templates.RegistrationData, error) {
	var fileBuilder strings.Builder

	// Generate package declaration with DO NOT EDIT header
	fileBuilder.WriteString("// Code generated by dendrite. DO NOT EDIT.\n")
	fileBuilder.WriteString("// This file was automatically generated and should not be modified manually.\n\n")
	fileBuilder.WriteString(fmt.Sprintf("package %s\n\n", decl.PackageName))

	fileBuilder.WriteString(templates.GenerateMinimalImportsWithPackages(transformImports))

	data, err := templates.BuildRegistrationData(decl, g.transformRegistry)
	if err != nil {
		return "", templates.RegistrationData{}, err
	}

	registrationCode, err := templates.GenerateRegistrationFunction(data)
	if err != nil {
		return "", templates.RegistrationData{}, err
	}
	fileBuilder.WriteString(registrationCode)

	// Return raw generated code - formatting happens in post-processing phase
	return fileBuilder.String(), data, nil
}

// GenerateCheckReport renders the dry-run report for a package without
// writing anything. It runs the same expression generation as
// GenerateBindings, so a clean report means generation will succeed.
func (g *Generator) GenerateCheckReport(decl *models.PackageDecl) (string, error) {
	if decl == nil {
		return "", fmt.Errorf("package declarations cannot be nil")
	}

	rows, err := templates.BuildCheckRows(decl, g.transformRegistry)
	if err != nil {
		return "", err
	}

	return templates.GenerateCheckReport(templates.CheckReportData{
		PackageName: decl.PackageName,
		FilePath:    filepath.Join(decl.PackagePath, "autogen_bindings.go"),
		Rows:        rows,
	})
}

// collectTransformImports resolves the packages the generated file must
// import for cross-package transform references
func (g *Generator) collectTransformImports(decl *models.PackageDecl, moduleName string) []string {
	paths := templates.CollectTransformImports(decl, g.transformRegistry)

	seen := make(map[string]bool, len(paths))
	for _, path := range paths {
		seen[path] = true
	}

	// Transforms recorded without an import path (standalone runs that skip
	// module resolution) fall back to resolution against the module layout
	for _, controller := range decl.Controllers {
		for _, handler := range controller.Handlers {
			for _, param := range handler.Params {
				for _, name := range param.Through {
					transform, exists := g.transformRegistry.GetTransform(name)
					if !exists || transform.IsBuiltin() || transform.ImportPath != "" {
						continue
					}
					if transform.PackagePath == decl.PackagePath {
						continue
					}

					path := g.resolvePackageImportPath(moduleName, transform.PackagePath)
					if path != "" && !seen[path] {
						seen[path] = true
						paths = append(paths, path)
					}
				}
			}
		}
	}

	return paths
}

// resolvePackageImportPath resolves the import path for a transform package
// directory relative to the module root
func (g *Generator) resolvePackageImportPath(moduleName, targetPackageDir string) string {
	if g.moduleResolver != nil {
		resolved := moduleName
		if resolved == "" {
			if name, err := g.moduleResolver.ResolveModuleName(""); err == nil {
				resolved = name
			}
		}
		if resolved != "" {
			if importPath, err := g.moduleResolver.BuildPackagePath(resolved, targetPackageDir); err == nil {
				return importPath
			}
		}
	}

	cleaned := filepath.ToSlash(filepath.Clean(targetPackageDir))
	if moduleName != "" {
		return fmt.Sprintf("%s/%s", moduleName, cleaned)
	}

	// Fall back to the module name recorded in go.mod next to the scan root
	if cwd, err := os.Getwd(); err == nil {
		goModPath := filepath.Join(cwd, "go.mod")
		if fileExists(goModPath) {
			if detected := extractModuleNameFromGoMod(goModPath); detected != "" {
				return fmt.Sprintf("%s/%s", detected, cleaned)
			}
		}
	}

	return ""
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// extractModuleNameFromGoMod extracts the module name from a go.mod file using the shared utility
func extractModuleNameFromGoMod(goModPath string) string {
	fileReader := utils.NewFileReader()
	goModParser := utils.NewGoModParser(fileReader)

	moduleName, err := goModParser.ParseModuleName(goModPath)
	if err != nil {
		return ""
	}
	return moduleName
}

// GetTransformRegistry returns the transform registry for cross-package transform discovery
func (g *Generator) GetTransformRegistry() TransformRegistryInterface {
	return g.transformRegistry
}
