package generator

import "github.com/toyz/dendrite/internal/models"

// CodeGenerator defines the interface for generating binding registration
// files from parsed declarations
type CodeGenerator interface {
	GenerateBindings(decl *models.PackageDecl) (*models.GeneratedFile, error)
	GenerateBindingsWithModule(decl *models.PackageDecl, moduleName string) (*models.GeneratedFile, error)
	GenerateCheckReport(decl *models.PackageDecl) (string, error)
	GetTransformRegistry() TransformRegistryInterface
}
