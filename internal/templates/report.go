package templates

import (
	"fmt"

	"github.com/toyz/dendrite/internal/models"
	"github.com/toyz/dendrite/pkg/dendrite"
)

// CheckRow is one would-be binding in the dry-run report
type CheckRow struct {
	Handler    string // Owner.Method form of the handler
	Key        string // canonical binding key, e.g. "PARAM:0"
	Expression string // binding expression the generator would emit
}

// CheckReportData feeds the check-report template for one package
type CheckReportData struct {
	PackageName string
	FilePath    string
	Rows        []CheckRow
}

// BuildCheckRows produces the dry-run rows for every binding in a package,
// in declaration order. It runs the same expression generation as the real
// generator, so a clean check means a clean generate.
func BuildCheckRows(decl *models.PackageDecl, transforms TransformRegistryInterface) ([]CheckRow, error) {
	var rows []CheckRow

	for _, controller := range decl.Controllers {
		for _, handler := range controller.Handlers {
			handlerKey := DefaultTemplateUtils.BuildHandlerKey(controller.StructName, handler.Name)

			for _, param := range handler.Params {
				entry, exists := bindingCatalog.EntryByName(param.Source)
				if !exists {
					return nil, fmt.Errorf("handler %s parameter %d: unsupported parameter source: %s", handlerKey, param.Index, param.Source)
				}

				expression, err := GenerateBindingExpression(param, decl, transforms)
				if err != nil {
					return nil, fmt.Errorf("handler %s parameter %d: %w", handlerKey, param.Index, err)
				}

				rows = append(rows, CheckRow{
					Handler:    handlerKey,
					Key:        dendrite.Key(entry.Source, param.Index),
					Expression: expression,
				})
			}
		}
	}

	return rows, nil
}

// GenerateCheckReport renders the dry-run report for one package
func GenerateCheckReport(data CheckReportData) (string, error) {
	return executeTemplate("check-report", CheckReportTemplate, data)
}
