package parser

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"sort"
	"strings"

	"github.com/toyz/dendrite/internal/annotations"
	"github.com/toyz/dendrite/internal/models"
	"github.com/toyz/dendrite/pkg/dendrite"
)

// Parser implements the AnnotationParser interface
type Parser struct {
	fileSet                 *token.FileSet
	annotationParser        *annotations.Parser
	reporter                WarningReporter
	skipTransformValidation bool
}

// NewParser creates a new annotation parser
func NewParser() *Parser {
	return &Parser{
		fileSet:          token.NewFileSet(),
		annotationParser: annotations.NewParser(annotations.DefaultRegistry()),
	}
}

// NewParserWithReporter creates a parser that surfaces non-fatal findings
// through the given reporter
func NewParserWithReporter(reporter WarningReporter) *Parser {
	p := NewParser()
	p.reporter = reporter
	return p
}

// SetSkipTransformValidation controls whether -Through names are checked
// against the transforms visible to this package during parsing. The CLI
// disables the check during its discovery pass and re-validates every
// package against the global registry once discovery is complete.
func (p *Parser) SetSkipTransformValidation(skip bool) {
	p.skipTransformValidation = skip
}

// ParseSource parses source code from a string for testing purposes
func (p *Parser) ParseSource(filename, source string) (*models.PackageDecl, error) {
	// Parse the source code
	file, err := parser.ParseFile(p.fileSet, filename, source, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("failed to parse source: %w", err)
	}

	// Create package declaration
	decl := &models.PackageDecl{
		PackageName: file.Name.Name,
		PackagePath: "./",
	}

	// Extract annotations
	annotationList, err := p.ExtractAnnotations(file, filename)
	if err != nil {
		return nil, err
	}

	// Create file map
	fileMap := map[string]*ast.File{
		filename: file,
	}

	// Process annotations
	err = p.processAnnotations(annotationList, decl, fileMap)
	if err != nil {
		return nil, err
	}

	return decl, nil
}

// ParseDirectory scans the specified directory for .go files and extracts
// binding declarations
func (p *Parser) ParseDirectory(path string) (*models.PackageDecl, error) {
	// Parse all Go files in the directory
	pkgs, err := parser.ParseDir(p.fileSet, path, nil, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("failed to parse directory %s: %w", path, err)
	}

	// We expect only one package per directory
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no Go packages found in directory %s", path)
	}
	if len(pkgs) > 1 {
		return nil, fmt.Errorf("multiple packages found in directory %s", path)
	}

	// Get the single package
	var pkg *ast.Package
	var packageName string
	for name, astPkg := range pkgs {
		pkg = astPkg
		packageName = name
		break
	}

	// Create package declaration
	decl := &models.PackageDecl{
		PackageName: packageName,
		PackagePath: path,
	}

	// First pass: extract all annotations from all files. Files are visited
	// in name order so declarations (and generated output) are stable across
	// runs.
	fileNames := make([]string, 0, len(pkg.Files))
	for fileName := range pkg.Files {
		fileNames = append(fileNames, fileName)
	}
	sort.Strings(fileNames)

	allAnnotations := []models.Annotation{}
	fileMap := make(map[string]*ast.File)

	for _, fileName := range fileNames {
		file := pkg.Files[fileName]
		fileMap[fileName] = file
		annotationList, err := p.ExtractAnnotations(file, fileName)
		if err != nil {
			return nil, err
		}
		allAnnotations = append(allAnnotations, annotationList...)
	}

	// Second pass: process all annotations to build the declaration tree
	err = p.processAnnotations(allAnnotations, decl, fileMap)
	if err != nil {
		return nil, err
	}

	if p.reporter != nil {
		for _, finding := range NewTransformErrorReporter(p).GenerateTransformDiagnostics(decl) {
			p.reporter.ReportWarning(finding)
		}
	}

	return decl, nil
}

// ExtractAnnotations traverses the AST and extracts dendrite:: annotations
// from doc comments. Ordinary comments are skipped; malformed dendrite::
// comments are reported with their source position.
func (p *Parser) ExtractAnnotations(file *ast.File, fileName string) ([]models.Annotation, error) {
	var annotationList []models.Annotation
	var extractErr error

	// Walk the AST to find annotated declarations
	ast.Inspect(file, func(n ast.Node) bool {
		if extractErr != nil {
			return false
		}

		switch node := n.(type) {
		case *ast.GenDecl:
			// Handle struct declarations with annotations
			if node.Tok == token.TYPE && node.Doc != nil {
				for _, spec := range node.Specs {
					typeSpec, ok := spec.(*ast.TypeSpec)
					if !ok {
						continue
					}
					if _, ok := typeSpec.Type.(*ast.StructType); !ok {
						continue
					}

					for _, comment := range node.Doc.List {
						annotation, ok, err := p.parseAnnotationComment(comment, typeSpec.Name.Name, fileName)
						if err != nil {
							extractErr = err
							return false
						}
						if ok {
							annotationList = append(annotationList, annotation)
						}
					}
				}
			}

		case *ast.FuncDecl:
			// Handle function and method declarations with annotations
			if node.Doc != nil {
				targetName := node.Name.Name
				// If it's a method, include the receiver type
				if node.Recv != nil && len(node.Recv.List) > 0 {
					if receiverType := receiverTypeName(node.Recv.List[0].Type); receiverType != "" {
						targetName = receiverType + "." + node.Name.Name
					}
				}

				for _, comment := range node.Doc.List {
					annotation, ok, err := p.parseAnnotationComment(comment, targetName, fileName)
					if err != nil {
						extractErr = err
						return false
					}
					if ok {
						annotationList = append(annotationList, annotation)
					}
				}
			}
		}
		return true
	})

	if extractErr != nil {
		return nil, extractErr
	}

	return annotationList, nil
}

// parseAnnotationComment parses a single doc comment line. The second
// return value is false when the comment is not a dendrite annotation at
// all, which is not an error.
func (p *Parser) parseAnnotationComment(comment *ast.Comment, target, fileName string) (models.Annotation, bool, error) {
	if !annotations.IsAnnotation(comment.Text) {
		return models.Annotation{}, false, nil
	}

	position := p.fileSet.Position(comment.Pos())
	location := annotations.SourceLocation{
		File:   fileName,
		Line:   position.Line,
		Column: position.Column,
	}

	parsed, err := p.annotationParser.ParseAnnotation(comment.Text, location)
	if err != nil {
		return models.Annotation{}, false, &models.GeneratorError{
			Type:    models.ErrorTypeAnnotationSyntax,
			File:    fileName,
			Line:    position.Line,
			Message: fmt.Sprintf("invalid annotation on %s: %v", target, err),
			Context: map[string]interface{}{
				"target":     target,
				"annotation": strings.TrimSpace(comment.Text),
			},
			Cause: err,
		}
	}

	parsed.Target = target

	return models.Annotation{
		ParsedAnnotation: parsed,
		FileName:         fileName,
		Line:             position.Line,
	}, true, nil
}

// processAnnotations builds the package declaration tree from parsed annotations
func (p *Parser) processAnnotations(annotationList []models.Annotation, decl *models.PackageDecl, fileMap map[string]*ast.File) error {
	// First pass: collect controller names, handler targets, and group
	// param annotations under the method they bind
	controllerNames := make(map[string]bool)
	handlerTargets := make(map[string]bool)
	paramsByHandler := make(map[string][]models.Annotation)

	for _, annotation := range annotationList {
		switch annotation.Type {
		case annotations.ControllerAnnotation:
			controllerNames[annotation.Target] = true
		case annotations.HandlerAnnotation:
			handlerTargets[annotation.Target] = true
		case annotations.ParamAnnotation:
			paramsByHandler[annotation.Target] = append(paramsByHandler[annotation.Target], annotation)
		}
	}

	// Param annotations only mean something on handler-annotated methods
	for target, params := range paramsByHandler {
		if !handlerTargets[target] {
			first := params[0]
			return &models.GeneratorError{
				Type:    models.ErrorTypeValidation,
				File:    first.FileName,
				Line:    first.Line,
				Message: fmt.Sprintf("param annotation on %s requires a //dendrite::handler annotation on the same method", target),
				Suggestions: []string{
					fmt.Sprintf("Add //dendrite::handler above the %s method", target),
					"Remove the param annotation if the method is not a handler",
				},
			}
		}
	}

	// Second pass: controllers first, so handlers find their controller
	// no matter which file was extracted first
	for _, annotation := range annotationList {
		if annotation.Type != annotations.ControllerAnnotation {
			continue
		}
		controller := models.ControllerDecl{
			BaseDeclTrait: models.BaseDeclTrait{
				Name:       annotation.Target,
				StructName: annotation.Target,
			},
			SourceLocationTrait: models.SourceLocationTrait{
				FileName: annotation.FileName,
				Line:     annotation.Line,
			},
		}
		decl.Controllers = append(decl.Controllers, controller)
	}

	// Third pass: handlers and transforms
	for _, annotation := range annotationList {
		switch annotation.Type {
		case annotations.HandlerAnnotation:
			// Validate that the handler is a method on a controller-annotated struct
			parts := strings.Split(annotation.Target, ".")
			if len(parts) != 2 {
				return fmt.Errorf("invalid handler target format: %s (expected ControllerName.MethodName)", annotation.Target)
			}

			controllerName := parts[0]
			methodName := parts[1]
			if !controllerNames[controllerName] {
				return fmt.Errorf("handler %s is defined on struct %s which is not annotated with //dendrite::controller", annotation.Target, controllerName)
			}

			handler := models.HandlerDecl{
				BaseDeclTrait: models.BaseDeclTrait{
					Name:       methodName,
					StructName: controllerName,
				},
				SourceLocationTrait: models.SourceLocationTrait{
					FileName: annotation.FileName,
					Line:     annotation.Line,
				},
			}

			// Analyze the method signature so binding indexes can be
			// checked against the real parameter list
			var signature *models.SignatureInfo
			if file := fileMap[annotation.FileName]; file != nil {
				info, err := p.analyzeHandlerSignature(file, controllerName, methodName)
				if err != nil {
					return fmt.Errorf("failed to analyze handler signature for %s: %w", annotation.Target, err)
				}
				signature = &info
				handler.Signature = info
			}

			params, err := p.buildParamDecls(annotation.Target, paramsByHandler[annotation.Target], signature)
			if err != nil {
				return err
			}
			handler.Params = params

			p.addHandlerToController(handler, controllerName, decl)

		case annotations.TransformAnnotation:
			transform := models.TransformMetadata{
				Name:         annotation.GetString(ParamName),
				FunctionName: annotation.Target,
				PackageName:  decl.PackageName,
				PackagePath:  decl.PackagePath,
				ImportPath:   decl.ImportPath,
				FileName:     annotation.FileName,
				Line:         annotation.Line,
			}

			if file := fileMap[annotation.FileName]; file != nil {
				if err := p.validateTransformFunction(file, &transform); err != nil {
					return err
				}
			}

			decl.Transforms = append(decl.Transforms, transform)
		}
	}

	if !p.skipTransformValidation {
		if err := p.validateLocalTransforms(decl); err != nil {
			return err
		}
	}

	return nil
}

// buildParamDecls converts the param annotations of one handler into ordered
// ParamDecl entries. Duplicate indexes and indexes past the end of the
// method signature are rejected here, while a bound index is not required
// for every parameter.
func (p *Parser) buildParamDecls(target string, paramAnnotations []models.Annotation, signature *models.SignatureInfo) ([]models.ParamDecl, error) {
	seen := make(map[int]models.Annotation)
	var params []models.ParamDecl

	for _, annotation := range paramAnnotations {
		index := annotation.GetInt(ParamIndex)

		if previous, exists := seen[index]; exists {
			return nil, &models.GeneratorError{
				Type:    models.ErrorTypeValidation,
				File:    annotation.FileName,
				Line:    annotation.Line,
				Message: fmt.Sprintf("handler %s binds parameter index %d twice (previous binding at %s:%d)", target, index, previous.FileName, previous.Line),
				Suggestions: []string{
					"Each parameter index may only be bound once per handler",
					"Remove or renumber one of the param annotations",
				},
			}
		}
		seen[index] = annotation

		if signature != nil && index >= signature.ParamCount() {
			return nil, &models.GeneratorError{
				Type:    models.ErrorTypeSignatureMismatch,
				File:    annotation.FileName,
				Line:    annotation.Line,
				Message: fmt.Sprintf("handler %s binds parameter index %d but the method only takes %d parameter(s)", target, index, signature.ParamCount()),
				Suggestions: []string{
					"Binding indexes are zero-based positions in the method signature",
					"Add the missing parameter to the method or fix the index",
				},
				Context: map[string]interface{}{
					"handler":     target,
					"index":       index,
					"param_types": signature.ParamTypes,
				},
			}
		}

		params = append(params, models.ParamDecl{
			Index:       index,
			Source:      annotation.GetString(ParamSource),
			Property:    annotation.GetString(ParamProperty),
			HasProperty: annotation.HasParameter(ParamProperty),
			Through:     annotation.GetStringSlice(FlagThrough),
			FileName:    annotation.FileName,
			Line:        annotation.Line,
		})
	}

	sort.Slice(params, func(i, j int) bool {
		return params[i].Index < params[j].Index
	})

	return params, nil
}

// addHandlerToController attaches a handler to its controller declaration
func (p *Parser) addHandlerToController(handler models.HandlerDecl, controllerName string, decl *models.PackageDecl) {
	for i := range decl.Controllers {
		if decl.Controllers[i].StructName == controllerName {
			decl.Controllers[i].Handlers = append(decl.Controllers[i].Handlers, handler)
			return
		}
	}
}

// analyzeHandlerSignature records the parameter and return types of a
// handler method so binding declarations can be checked against them
func (p *Parser) analyzeHandlerSignature(file *ast.File, controllerName, methodName string) (models.SignatureInfo, error) {
	var info models.SignatureInfo
	found := false

	// Find the handler method
	ast.Inspect(file, func(n ast.Node) bool {
		if found {
			return false
		}

		funcDecl, ok := n.(*ast.FuncDecl)
		if !ok {
			return true
		}
		if funcDecl.Recv == nil || len(funcDecl.Recv.List) == 0 || funcDecl.Name.Name != methodName {
			return true
		}

		// Check if this method belongs to our controller
		if receiverTypeName(funcDecl.Recv.List[0].Type) != controllerName {
			return true
		}
		found = true

		if funcDecl.Type.Params != nil {
			for i, param := range funcDecl.Type.Params.List {
				paramType := p.getTypeString(param.Type)

				// Handle multiple names for the same type (e.g., a, b int)
				names := param.Names
				if len(names) == 0 {
					// Anonymous parameter, create a default name
					names = []*ast.Ident{{Name: fmt.Sprintf("param%d", i)}}
				}

				for _, name := range names {
					info.ParamNames = append(info.ParamNames, name.Name)
					info.ParamTypes = append(info.ParamTypes, paramType)
				}
			}
		}

		if funcDecl.Type.Results != nil {
			for _, result := range funcDecl.Type.Results.List {
				resultType := p.getTypeString(result.Type)
				count := len(result.Names)
				if count == 0 {
					count = 1
				}
				for j := 0; j < count; j++ {
					info.ReturnTypes = append(info.ReturnTypes, resultType)
				}
			}
		}

		return false
	})

	if !found {
		return info, fmt.Errorf("method %s not found on struct %s", methodName, controllerName)
	}

	return info, nil
}

// validateTransformFunction checks that an annotated function matches the
// transform signature and records its parameter and return types
func (p *Parser) validateTransformFunction(file *ast.File, transform *models.TransformMetadata) error {
	reporter := NewTransformErrorReporter(p)

	var funcDecl *ast.FuncDecl
	ast.Inspect(file, func(n ast.Node) bool {
		if fn, ok := n.(*ast.FuncDecl); ok {
			if fn.Name.Name == transform.FunctionName && fn.Recv == nil {
				funcDecl = fn
				return false
			}
		}
		return true
	})

	if funcDecl == nil {
		return reporter.ReportTransformValidationError(transform.FunctionName, transform.FileName, transform.Line,
			"function not found", "")
	}

	actualSignature := p.getTypeString(funcDecl.Type)

	var paramTypes []string
	if funcDecl.Type.Params != nil {
		for _, param := range funcDecl.Type.Params.List {
			paramType := p.getTypeString(param.Type)
			count := len(param.Names)
			if count == 0 {
				count = 1
			}
			for i := 0; i < count; i++ {
				paramTypes = append(paramTypes, paramType)
			}
		}
	}

	var returnTypes []string
	if funcDecl.Type.Results != nil {
		for _, result := range funcDecl.Type.Results.List {
			resultType := p.getTypeString(result.Type)
			count := len(result.Names)
			if count == 0 {
				count = 1
			}
			for i := 0; i < count; i++ {
				returnTypes = append(returnTypes, resultType)
			}
		}
	}

	if len(paramTypes) != 2 {
		return reporter.ReportTransformValidationError(transform.FunctionName, transform.FileName, transform.Line,
			fmt.Sprintf("expected 2 parameters, got %d", len(paramTypes)), actualSignature)
	}
	if !isRequestContextType(paramTypes[0]) {
		return reporter.ReportTransformValidationError(transform.FunctionName, transform.FileName, transform.Line,
			fmt.Sprintf("first parameter must be dendrite.RequestContext, got %s", paramTypes[0]), actualSignature)
	}
	if !isAnyType(paramTypes[1]) {
		return reporter.ReportTransformValidationError(transform.FunctionName, transform.FileName, transform.Line,
			fmt.Sprintf("second parameter must be any, got %s", paramTypes[1]), actualSignature)
	}
	if len(returnTypes) != 2 {
		return reporter.ReportTransformValidationError(transform.FunctionName, transform.FileName, transform.Line,
			fmt.Sprintf("expected 2 return values, got %d", len(returnTypes)), actualSignature)
	}
	if !isAnyType(returnTypes[0]) {
		return reporter.ReportTransformValidationError(transform.FunctionName, transform.FileName, transform.Line,
			fmt.Sprintf("first return value must be any, got %s", returnTypes[0]), actualSignature)
	}
	if returnTypes[1] != "error" {
		return reporter.ReportTransformValidationError(transform.FunctionName, transform.FileName, transform.Line,
			fmt.Sprintf("second return value must be error, got %s", returnTypes[1]), actualSignature)
	}

	transform.ParameterTypes = paramTypes
	transform.ReturnTypes = returnTypes

	return nil
}

// validateLocalTransforms checks every -Through name against the builtin
// transforms plus the transforms declared in this package. The CLI skips
// this during discovery and runs the cross-package variant instead.
func (p *Parser) validateLocalTransforms(decl *models.PackageDecl) error {
	known := make(map[string]models.TransformMetadata)
	for _, builtin := range dendrite.BuiltinTransforms() {
		known[builtin.Name()] = models.TransformMetadata{
			Name:        builtin.Name(),
			PackagePath: models.BuiltinPackagePath,
		}
	}
	for _, transform := range decl.Transforms {
		known[transform.Name] = transform
	}

	return p.ValidateTransformsWithRegistry(decl, known)
}

// ValidateTransformsWithRegistry checks every -Through name in the package
// against the given transform registry, resolving aliases first
func (p *Parser) ValidateTransformsWithRegistry(decl *models.PackageDecl, transforms map[string]models.TransformMetadata) error {
	reporter := NewTransformErrorReporter(p)

	available := make([]string, 0, len(transforms))
	for name := range transforms {
		available = append(available, name)
	}
	sort.Strings(available)

	for _, controller := range decl.Controllers {
		for _, handler := range controller.Handlers {
			target := controller.StructName + "." + handler.Name
			for _, param := range handler.Params {
				for _, name := range param.Through {
					if _, exists := transforms[name]; exists {
						continue
					}
					resolved := dendrite.ResolveTransformAlias(name)
					if _, exists := transforms[resolved]; exists {
						continue
					}
					return reporter.ReportTransformNotFoundError(name, target, param.Index, param.FileName, param.Line, available)
				}
			}
		}
	}

	return nil
}

// receiverTypeName extracts the struct name from a method receiver type
func receiverTypeName(expr ast.Expr) string {
	switch recv := expr.(type) {
	case *ast.StarExpr:
		if ident, ok := recv.X.(*ast.Ident); ok {
			return ident.Name
		}
	case *ast.Ident:
		return recv.Name
	}
	return ""
}

// isRequestContextType reports whether a stringified type is the transform
// context parameter type
func isRequestContextType(typeStr string) bool {
	return typeStr == "dendrite.RequestContext" || typeStr == "RequestContext"
}

// isAnyType reports whether a stringified type is the empty interface
func isAnyType(typeStr string) bool {
	return typeStr == "any" || typeStr == "interface{}"
}

// getTypeString converts an AST type expression to a string representation
func (p *Parser) getTypeString(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return "*" + p.getTypeString(t.X)
	case *ast.SelectorExpr:
		if ident, ok := t.X.(*ast.Ident); ok {
			return ident.Name + "." + t.Sel.Name
		}
		return t.Sel.Name
	case *ast.ArrayType:
		return "[]" + p.getTypeString(t.Elt)
	case *ast.MapType:
		return "map[" + p.getTypeString(t.Key) + "]" + p.getTypeString(t.Value)
	case *ast.InterfaceType:
		if t.Methods == nil || len(t.Methods.List) == 0 {
			return "interface{}"
		}
		return "interface{...}" // Simplified for complex interfaces
	case *ast.FuncType:
		// Handle function types
		params := "("
		if t.Params != nil {
			for i, param := range t.Params.List {
				if i > 0 {
					params += ", "
				}
				params += p.getTypeString(param.Type)
			}
		}
		params += ")"

		results := ""
		if t.Results != nil {
			if len(t.Results.List) == 1 {
				results = " " + p.getTypeString(t.Results.List[0].Type)
			} else if len(t.Results.List) > 1 {
				results = " ("
				for i, result := range t.Results.List {
					if i > 0 {
						results += ", "
					}
					results += p.getTypeString(result.Type)
				}
				results += ")"
			}
		}

		return "func" + params + results
	case *ast.ChanType:
		dir := ""
		if t.Dir == ast.SEND {
			dir = "chan<- "
		} else if t.Dir == ast.RECV {
			dir = "<-chan "
		} else {
			dir = "chan "
		}
		return dir + p.getTypeString(t.Value)
	case *ast.Ellipsis:
		return "..." + p.getTypeString(t.Elt)
	default:
		return "unknown"
	}
}
