package templates

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/toyz/dendrite/internal/models"
	"github.com/toyz/dendrite/pkg/dendrite"
)

// TransformRegistryInterface defines the transform registry operations
// template generation needs
type TransformRegistryInterface interface {
	GetTransform(name string) (models.TransformMetadata, bool)
	HasTransform(name string) bool
}

// bindingCatalog maps annotation source names to their catalog entries
var bindingCatalog = dendrite.NewCatalog()

// bindingConstructors maps each source kind to the runtime constructor
// generated code calls for it
var bindingConstructors = map[dendrite.Source]string{
	dendrite.SourceRequest:  "RequestObject",
	dendrite.SourceResponse: "ResponseObject",
	dendrite.SourceNext:     "NextCallback",
	dendrite.SourceSession:  "SessionObject",
	dendrite.SourceFile:     "UploadedFile",
	dendrite.SourceFiles:    "UploadedFiles",
	dendrite.SourceHeaders:  "Headers",
	dendrite.SourceQuery:    "Query",
	dendrite.SourceBody:     "Body",
	dendrite.SourceParam:    "RouteParam",
}

// BindingLine is one Bind call in a handler's generated builder chain
type BindingLine struct {
	Index      int
	Expression string
}

// HandlerTemplateData describes the generated builder chain for one handler
type HandlerTemplateData struct {
	Owner    string
	Method   string
	Bindings []BindingLine
}

// RegistrationData feeds the registration function template
type RegistrationData struct {
	Handlers []HandlerTemplateData
}

// HandlerCount returns the number of handlers with at least one binding
func (d RegistrationData) HandlerCount() int {
	return len(d.Handlers)
}

// BindingCount returns the total number of Bind calls across all handlers
func (d RegistrationData) BindingCount() int {
	count := 0
	for _, handler := range d.Handlers {
		count += len(handler.Bindings)
	}
	return count
}

// BuildRegistrationData converts parsed declarations into template data for
// the registration function. Handlers without bindings are skipped: the
// builder registers nothing for them, so emitting a chain would be dead code.
func BuildRegistrationData(decl *models.PackageDecl, transforms TransformRegistryInterface) (RegistrationData, error) {
	var data RegistrationData

	for _, controller := range decl.Controllers {
		for _, handler := range controller.Handlers {
			if len(handler.Params) == 0 {
				continue
			}

			handlerData := HandlerTemplateData{
				Owner:  controller.StructName,
				Method: handler.Name,
			}

			for _, param := range handler.Params {
				expression, err := GenerateBindingExpression(param, decl, transforms)
				if err != nil {
					return RegistrationData{}, fmt.Errorf("failed to generate binding for %s.%s parameter %d: %w",
						controller.StructName, handler.Name, param.Index, err)
				}

				handlerData.Bindings = append(handlerData.Bindings, BindingLine{
					Index:      param.Index,
					Expression: expression,
				})
			}

			data.Handlers = append(data.Handlers, handlerData)
		}
	}

	return data, nil
}

// GenerateRegistrationFunction renders the RegisterBindings function for one
// package
func GenerateRegistrationFunction(data RegistrationData) (string, error) {
	return executeTemplate("registration-function", RegistrationFunctionTemplate, data)
}

// GenerateBindingExpression builds the binding constructor expression for one
// parameter declaration, for example:
//
//	dendrite.RouteParam(dendrite.Named("id"), dendrite.Pipeline(dendrite.ToUUID()))
func GenerateBindingExpression(param models.ParamDecl, decl *models.PackageDecl, transforms TransformRegistryInterface) (string, error) {
	entry, exists := bindingCatalog.EntryByName(param.Source)
	if !exists {
		return "", fmt.Errorf("unsupported parameter source: %s", param.Source)
	}

	constructor, exists := bindingConstructors[entry.Source]
	if !exists {
		return "", fmt.Errorf("no binding constructor for source: %s", entry.Source)
	}

	if param.HasProperty && !entry.TakesProperty {
		return "", fmt.Errorf("parameter source %s does not take a property", entry.Name)
	}

	if entry.Kind == dendrite.SimpleBinding {
		if param.HasProperty {
			return fmt.Sprintf("dendrite.%s(%s)", constructor, DefaultTemplateUtils.QuoteString(param.Property)), nil
		}
		return fmt.Sprintf("dendrite.%s()", constructor), nil
	}

	var args []string
	if param.HasProperty {
		args = append(args, fmt.Sprintf("dendrite.Named(%s)", DefaultTemplateUtils.QuoteString(param.Property)))
	}

	if len(param.Through) > 0 {
		pipeline := make([]string, 0, len(param.Through))
		for _, transformName := range param.Through {
			expression, err := generateTransformExpression(transformName, decl, transforms)
			if err != nil {
				return "", err
			}
			pipeline = append(pipeline, expression)
		}
		args = append(args, fmt.Sprintf("dendrite.Pipeline(%s)", strings.Join(pipeline, ", ")))
	}

	return fmt.Sprintf("dendrite.%s(%s)", constructor, strings.Join(args, ", ")), nil
}

// generateTransformExpression builds the transform expression referenced from
// a Pipeline argument. Builtins resolve to their runtime constructors,
// package-local transforms are wrapped in place, and transforms from other
// packages are referenced through their package qualifier.
func generateTransformExpression(name string, decl *models.PackageDecl, transforms TransformRegistryInterface) (string, error) {
	transform, exists := transforms.GetTransform(name)
	if !exists {
		return "", fmt.Errorf("no transform registered for name %q", name)
	}

	quotedName := DefaultTemplateUtils.QuoteString(transform.Name)

	switch {
	case transform.IsBuiltin():
		return fmt.Sprintf("dendrite.%s()", transform.FunctionName), nil
	case decl != nil && transform.PackagePath == decl.PackagePath:
		return fmt.Sprintf("dendrite.TransformFunc(%s, %s)", quotedName, transform.FunctionName), nil
	default:
		qualifier := transform.PackageName
		if qualifier == "" {
			qualifier = filepath.Base(transform.PackagePath)
		}
		return fmt.Sprintf("dendrite.TransformFunc(%s, %s.%s)", quotedName, qualifier, transform.FunctionName), nil
	}
}

// CollectTransformImports returns the import paths generated code needs for
// transforms declared outside the package being generated. Builtins and
// package-local transforms need no import beyond the runtime itself.
func CollectTransformImports(decl *models.PackageDecl, transforms TransformRegistryInterface) []string {
	seen := make(map[string]bool)
	var paths []string

	for _, controller := range decl.Controllers {
		for _, handler := range controller.Handlers {
			for _, param := range handler.Params {
				for _, transformName := range param.Through {
					transform, exists := transforms.GetTransform(transformName)
					if !exists || transform.IsBuiltin() {
						continue
					}
					if transform.PackagePath == decl.PackagePath || transform.ImportPath == "" {
						continue
					}
					if !seen[transform.ImportPath] {
						seen[transform.ImportPath] = true
						paths = append(paths, transform.ImportPath)
					}
				}
			}
		}
	}

	return paths
}

// executeTemplate executes a Go template with the given data
func executeTemplate(name, templateStr string, data interface{}) (string, error) {
	funcMap := template.FuncMap{
		"quote": DefaultTemplateUtils.QuoteString,
	}

	tmpl, err := template.New(name).Funcs(funcMap).Parse(templateStr)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	err = tmpl.Execute(&buf, data)
	if err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}

	return buf.String(), nil
}

// ExecuteTemplate executes a Go template with the given data (exported version)
func ExecuteTemplate(name, templateStr string, data interface{}) (string, error) {
	return executeTemplate(name, templateStr, data)
}
