package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/toyz/dendrite/internal/generator"
	"github.com/toyz/dendrite/internal/models"
	"github.com/toyz/dendrite/internal/parser"
	"github.com/toyz/dendrite/internal/utils"
)

// Generator coordinates the CLI generation process
type Generator struct {
	scanner          *DirectoryScanner
	moduleResolver   *ModuleResolver
	parser           parser.AnnotationParser
	codeGenerator    generator.CodeGenerator
	globalTransforms map[string]models.TransformMetadata // global transform registry for cross-package discovery
	reporter         *DiagnosticReporter
	diagnostics      *utils.DiagnosticSystem
	customModule     string
	summary          GenerationSummary
}

// NewGenerator creates a new CLI generator
func NewGenerator(verbose bool) *Generator {
	moduleResolver := NewModuleResolver()
	reporter := NewDiagnosticReporter(verbose)
	return &Generator{
		scanner:          NewDirectoryScanner(),
		moduleResolver:   moduleResolver,
		parser:           parser.NewParserWithReporter(reporter),
		codeGenerator:    generator.NewGeneratorWithResolver(moduleResolver),
		globalTransforms: make(map[string]models.TransformMetadata),
		reporter:         reporter,
		summary:          GenerationSummary{GeneratedFiles: make([]string, 0)},
	}
}

// NewGeneratorWithDiagnostics creates a new CLI generator with the diagnostic system
func NewGeneratorWithDiagnostics(verbose bool, diagnostics *utils.DiagnosticSystem) *Generator {
	g := NewGenerator(verbose)
	g.diagnostics = diagnostics
	return g
}

// Generate executes the generation process for the given directories
func (g *Generator) Generate(directories []string) error {
	config := Config{
		Directories: directories,
		Verbose:     g.reporter != nil && g.reporter.verbose,
		ModuleName:  g.customModule,
	}

	return g.Run(config)
}

// SetCustomModule sets a custom module name for import resolution
func (g *Generator) SetCustomModule(moduleName string) {
	g.customModule = moduleName
}

// GetSummary returns the generation summary
func (g *Generator) GetSummary() GenerationSummary {
	return g.summary
}

// ReportSuccess reports successful generation using the diagnostic reporter
func (g *Generator) ReportSuccess() {
	g.reporter.ReportSuccess(g.summary)
}

// Run executes the complete generation process
func (g *Generator) Run(config Config) error {
	startTime := time.Now()

	// Initialize summary
	g.summary = GenerationSummary{GeneratedFiles: make([]string, 0)}

	if err := config.Validate(); err != nil {
		return &models.GeneratorError{
			Type:    models.ErrorTypeValidation,
			Message: fmt.Sprintf("Invalid configuration: %v", err),
			Suggestions: []string{
				"Pass at least one directory to scan",
				"Use './...' to scan the whole module",
			},
			Cause: err,
		}
	}

	if g.diagnostics != nil {
		g.diagnostics.Verbose("Starting binding generation at %s", startTime.Format("15:04:05"))
		g.diagnostics.Debug("Scanning directories: %v", config.Directories)
		if config.ModuleName != "" {
			g.diagnostics.Debug("Using custom module name: %s", config.ModuleName)
		}
	} else if config.Verbose {
		fmt.Printf("Starting binding generation at %s\n", startTime.Format("15:04:05"))
		fmt.Printf("Verbose mode enabled\n")
		fmt.Printf("Scanning directories: %v\n", config.Directories)
		if config.ModuleName != "" {
			fmt.Printf("Using custom module name: %s\n", config.ModuleName)
		}
		fmt.Printf("\n")
	}

	// Resolve module name
	if g.diagnostics != nil {
		g.diagnostics.StartProgress("Resolving module name")
	} else if config.Verbose {
		fmt.Printf("Resolving module name...\n")
	}
	moduleName, err := g.moduleResolver.ResolveModuleName(config.ModuleName)
	if err != nil {
		if g.diagnostics != nil {
			g.diagnostics.EndProgress(false, "")
			g.diagnostics.Error("Failed to resolve module name: %v", err)
		}
		return &models.GeneratorError{
			Type:    models.ErrorTypeModuleResolution,
			Message: fmt.Sprintf("Failed to resolve module name: %v", err),
			Suggestions: []string{
				"Check your go.mod file exists and is valid",
				"Ensure you're running from the correct directory",
				"Try specifying --module flag explicitly",
			},
			Context: map[string]interface{}{
				"provided_module": config.ModuleName,
				"directories":     config.Directories,
			},
			Cause: err,
		}
	}

	if g.diagnostics != nil {
		g.diagnostics.EndProgress(true, "")
		g.diagnostics.Debug("Resolved module name: %s", moduleName)
		g.diagnostics.StartProgress("Scanning directories for Go packages")
	} else if config.Verbose {
		fmt.Printf("Resolved module name: %s\n", moduleName)
		fmt.Printf("Scanning directories for Go packages...\n")
	}
	packageDirs, err := g.scanner.ScanDirectories(config.Directories)
	if err != nil {
		if g.diagnostics != nil {
			g.diagnostics.EndProgress(false, "")
			g.diagnostics.Error("Failed to scan directories: %v", err)
		}
		return &models.GeneratorError{
			Type:    models.ErrorTypeFileSystem,
			Message: fmt.Sprintf("Failed to scan directories: %v", err),
			Suggestions: []string{
				"Check that the specified directories exist",
				"Ensure you have read permissions for the directories",
				"Verify the directory paths are correct",
			},
			Context: map[string]interface{}{
				"directories": config.Directories,
			},
			Cause: err,
		}
	}

	if len(packageDirs) == 0 {
		if g.diagnostics != nil {
			g.diagnostics.EndProgress(false, "")
			g.diagnostics.Warn("No Go packages found in specified directories")
		}
		return &models.GeneratorError{
			Type:    models.ErrorTypeValidation,
			Message: "No Go packages found in specified directories",
			Suggestions: []string{
				"Ensure the directories contain Go files",
				"Check that Go files have valid package declarations",
				"Try scanning parent directories or use './...' pattern",
			},
			Context: map[string]interface{}{
				"directories": config.Directories,
			},
		}
	}

	if g.diagnostics != nil {
		g.diagnostics.EndProgress(true, "")
		g.diagnostics.Info("Found %d packages to process", len(packageDirs))
		g.diagnostics.Indent()
		for _, dir := range packageDirs {
			g.diagnostics.List("%s", dir)
		}
		g.diagnostics.Unindent()
	} else {
		fmt.Printf("Found %d packages to process\n", len(packageDirs))
		if config.Verbose {
			fmt.Printf("Package directories:\n")
			for i, dir := range packageDirs {
				fmt.Printf("  %d. %s\n", i+1, dir)
			}
			fmt.Printf("\n")
		}
	}

	g.summary.PackagesProcessed = len(packageDirs)

	// First pass: discover all transforms across packages
	if g.diagnostics != nil {
		g.diagnostics.Subsection("Transform Discovery Phase")
		g.diagnostics.StartProgress("Discovering transforms across all packages")
	} else {
		fmt.Printf("Discovering transforms across all packages...\n")
		if config.Verbose {
			fmt.Printf("Phase 1: transform discovery (validation disabled)\n")
		}
	}

	// Cross-package transform references cannot be checked until every
	// package has been seen, so validation waits for the second pass
	g.parser.SetSkipTransformValidation(true)

	var allPackageDecls []*models.PackageDecl
	for i, packageDir := range packageDirs {
		if config.Verbose && g.diagnostics == nil {
			fmt.Printf("  Parsing package %d/%d: %s\n", i+1, len(packageDirs), packageDir)
		}

		decl, err := g.parser.ParseDirectory(packageDir)
		if err != nil {
			if genErr, ok := err.(*models.GeneratorError); ok {
				if genErr.Context == nil {
					genErr.Context = make(map[string]interface{})
				}
				genErr.Context["package_directory"] = packageDir
				genErr.Context["module_name"] = moduleName
				return genErr
			}
			return &models.GeneratorError{
				Type:    models.ErrorTypeValidation,
				Message: fmt.Sprintf("Failed to parse package %s: %v", packageDir, err),
				Suggestions: []string{
					"Check for syntax errors in Go files",
					"Ensure all files have valid package declarations",
					"Verify annotation syntax is correct",
				},
				Context: map[string]interface{}{
					"package_directory": packageDir,
					"module_name":       moduleName,
				},
				Cause: err,
			}
		}

		allPackageDecls = append(allPackageDecls, decl)
		g.collectSummaryInfo(decl)

		if config.Verbose && g.diagnostics == nil {
			fmt.Printf("    Found: %d controllers, %d transforms\n",
				len(decl.Controllers), len(decl.Transforms))
		}

		if err := g.collectTransformsFromPackage(decl, moduleName, packageDir); err != nil {
			return err
		}
	}

	// Re-enable transform validation for the second pass
	g.parser.SetSkipTransformValidation(false)

	// Build the global transform registry and hand it to the code generator
	if err := g.registerGlobalTransforms(); err != nil {
		return fmt.Errorf("failed to build global transform registry: %w", err)
	}

	if g.diagnostics != nil {
		g.diagnostics.EndProgress(true, fmt.Sprintf("%d transforms", len(g.globalTransforms)))
	} else {
		fmt.Printf("Discovered %d transforms across all packages\n", len(g.globalTransforms))
	}
	g.summary.TransformsDiscovered = len(g.globalTransforms)

	// Validate transform references across all packages using the global registry
	if g.diagnostics != nil {
		g.diagnostics.StartProgress("Validating transform references")
	} else {
		fmt.Printf("Validating transform references across all packages...\n")
		if config.Verbose {
			fmt.Printf("Phase 2: transform validation\n")
		}
	}
	for _, decl := range allPackageDecls {
		err := g.parser.ValidateTransformsWithRegistry(decl, g.globalTransforms)
		if err != nil {
			if g.diagnostics != nil {
				g.diagnostics.EndProgress(false, decl.PackageName)
			}
			if genErr, ok := err.(*models.GeneratorError); ok {
				if genErr.Context == nil {
					genErr.Context = make(map[string]interface{})
				}
				genErr.Context["package_name"] = decl.PackageName
				genErr.Context["package_path"] = decl.PackagePath
				return genErr
			}
			return &models.GeneratorError{
				Type:    models.ErrorTypeTransformValidation,
				Message: fmt.Sprintf("Transform validation failed for package %s: %v", decl.PackageName, err),
				Context: map[string]interface{}{
					"package_name": decl.PackageName,
					"package_path": decl.PackagePath,
				},
				Cause: err,
			}
		}
	}
	if g.diagnostics != nil {
		g.diagnostics.EndProgress(true, "")
	}

	// Second pass: generate binding registrations with the global registry
	if config.Verbose && g.diagnostics == nil {
		fmt.Printf("Phase 3: code generation\n")
	}

	for _, decl := range allPackageDecls {
		packageDir := decl.PackagePath

		if g.diagnostics != nil {
			g.diagnostics.Verbose("Processing package: %s", packageDir)
		} else {
			fmt.Printf("Processing package: %s\n", packageDir)
		}

		// Skip packages with no annotations
		if len(decl.Controllers) == 0 && len(decl.Transforms) == 0 {
			if g.diagnostics == nil {
				fmt.Printf("  Skipping package %s (no annotations found)\n", decl.PackageName)
			}
			continue
		}

		// Transforms are plain functions referenced from other packages'
		// bindings; a package holding only transforms needs no file of its own
		if len(decl.Controllers) == 0 {
			if g.diagnostics == nil {
				fmt.Printf("  Skipping package %s (only contains transforms)\n", decl.PackageName)
			}
			continue
		}

		if config.Check {
			report, err := g.codeGenerator.GenerateCheckReport(decl)
			if err != nil {
				return &models.GeneratorError{
					Type:    models.ErrorTypeGeneration,
					Message: fmt.Sprintf("Failed to build check report for package %s: %v", decl.PackageName, err),
					Context: map[string]interface{}{
						"package_name": decl.PackageName,
						"package_path": packageDir,
					},
					Cause: err,
				}
			}
			fmt.Print(report)
			continue
		}

		generated, err := g.codeGenerator.GenerateBindingsWithModule(decl, moduleName)
		if err != nil {
			return &models.GeneratorError{
				Type:    models.ErrorTypeGeneration,
				Message: fmt.Sprintf("Failed to generate bindings for package %s: %v", decl.PackageName, err),
				Suggestions: []string{
					"Check that all annotations are valid",
					"Ensure all transform references resolve",
					"Verify handler signatures match their bindings",
				},
				Context: map[string]interface{}{
					"package_name": decl.PackageName,
					"package_path": packageDir,
					"module_name":  moduleName,
				},
				Cause: err,
			}
		}

		if err := g.writeBindingsFile(generated); err != nil {
			return &models.GeneratorError{
				Type:    models.ErrorTypeFileSystem,
				Message: fmt.Sprintf("Failed to write bindings file for package %s: %v", decl.PackageName, err),
				Suggestions: []string{
					"Check write permissions for the target directory",
					"Ensure the target directory exists",
					"Verify there's enough disk space",
				},
				Context: map[string]interface{}{
					"package_name": decl.PackageName,
					"file_path":    generated.FilePath,
				},
				Cause: err,
			}
		}

		if g.diagnostics != nil {
			g.diagnostics.Success("Generated bindings: %s", generated.FilePath)
		} else {
			fmt.Printf("  Generated bindings: %s\n", generated.FilePath)
		}
		g.summary.GeneratedFiles = append(g.summary.GeneratedFiles, generated.FilePath)
	}

	if config.Verbose && g.diagnostics == nil {
		duration := time.Since(startTime)
		fmt.Printf("\nGeneration completed in %v\n", duration)
		fmt.Printf("Total packages processed: %d\n", len(packageDirs))
		fmt.Printf("Total files generated: %d\n", len(g.summary.GeneratedFiles))
	}

	return nil
}

// writeBindingsFile formats and writes a generated bindings file to disk
func (g *Generator) writeBindingsFile(file *models.GeneratedFile) error {
	content := file.Content

	// Formatting failures are not fatal; the raw output is still valid input
	// for a later goimports run
	formatted, err := utils.FormatGoCodeString(content)
	if err != nil {
		g.reporter.ReportWarning(fmt.Sprintf("failed to format generated code for package %s: %v", file.PackageName, err))
	} else {
		content = formatted
	}

	dir := filepath.Dir(file.FilePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	return os.WriteFile(file.FilePath, []byte(content), 0644)
}

// collectTransformsFromPackage collects all transforms from a package and adds
// them to the global registry
func (g *Generator) collectTransformsFromPackage(decl *models.PackageDecl, moduleName, packageDir string) error {
	for _, transform := range decl.Transforms {
		// Resolve the import path generated files will reference this
		// transform's package by
		importPath, err := g.resolveTransformImportPath(moduleName, packageDir, decl.PackageName)
		if err != nil {
			return fmt.Errorf("failed to resolve import path for transform %s: %w", transform.FunctionName, err)
		}

		enhanced := transform
		enhanced.PackagePath = packageDir
		enhanced.ImportPath = importPath

		// Check for conflicts
		if existing, exists := g.globalTransforms[transform.Name]; exists {
			conflicts := []models.TransformConflict{
				{
					FileName:     existing.FileName,
					Line:         existing.Line,
					FunctionName: existing.FunctionName,
					PackagePath:  existing.PackagePath,
				},
				{
					FileName:     transform.FileName,
					Line:         transform.Line,
					FunctionName: transform.FunctionName,
					PackagePath:  packageDir,
				},
			}
			return models.NewTransformConflictError(transform.Name, conflicts)
		}

		g.globalTransforms[transform.Name] = enhanced

		if g.diagnostics != nil {
			g.diagnostics.List("Discovered transform: %s -> %s (%s)", transform.Name, transform.FunctionName, importPath)
		} else {
			fmt.Printf("  Discovered transform: %s -> %s (%s)\n", transform.Name, transform.FunctionName, importPath)
		}
	}

	return nil
}

// registerGlobalTransforms registers the discovered transforms with the code
// generator's registry
func (g *Generator) registerGlobalTransforms() error {
	transformRegistry := g.codeGenerator.GetTransformRegistry()
	if transformRegistry == nil {
		return fmt.Errorf("code generator does not have a transform registry")
	}

	// Clear existing custom transforms (keeps built-ins)
	if clearable, ok := transformRegistry.(interface{ ClearCustomTransforms() }); ok {
		clearable.ClearCustomTransforms()
	} else if resettable, ok := transformRegistry.(interface{ Clear() }); ok {
		resettable.Clear()
	}

	for _, transform := range g.globalTransforms {
		if err := transformRegistry.RegisterTransform(transform); err != nil {
			return utils.WrapRegisterError(fmt.Sprintf("transform %s", transform.FunctionName), err)
		}
	}

	return nil
}

// resolveTransformImportPath resolves the import path for a transform package
func (g *Generator) resolveTransformImportPath(moduleName, packageDir, packageName string) (string, error) {
	if g.moduleResolver != nil && moduleName != "" {
		importPath, err := g.moduleResolver.BuildPackagePath(moduleName, packageDir)
		if err != nil {
			return "", fmt.Errorf("failed to build package path: %w", err)
		}
		return importPath, nil
	}

	// Fallback to standard internal structure
	if moduleName != "" {
		return fmt.Sprintf("%s/internal/%s", moduleName, packageName), nil
	}

	return fmt.Sprintf("./%s", packageName), nil
}

// collectSummaryInfo collects summary information from package declarations
func (g *Generator) collectSummaryInfo(decl *models.PackageDecl) {
	g.summary.ControllersFound += len(decl.Controllers)
	for _, controller := range decl.Controllers {
		g.summary.HandlersFound += len(controller.Handlers)
		for _, handler := range controller.Handlers {
			g.summary.BindingsFound += len(handler.Params)
		}
	}
}
