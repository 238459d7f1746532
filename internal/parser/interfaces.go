package parser

import (
	"go/ast"

	"github.com/toyz/dendrite/internal/models"
)

// AnnotationParser defines the interface for parsing Go source files and extracting binding declarations
type AnnotationParser interface {
	ParseDirectory(path string) (*models.PackageDecl, error)
	ExtractAnnotations(file *ast.File, fileName string) ([]models.Annotation, error)
	SetSkipTransformValidation(skip bool)
	ValidateTransformsWithRegistry(decl *models.PackageDecl, transforms map[string]models.TransformMetadata) error
}

// WarningReporter receives non-fatal findings discovered while parsing, such
// as unused transforms or handlers without bindings.
type WarningReporter interface {
	ReportWarning(message string, suggestions ...string)
}
