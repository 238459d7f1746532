package parser

import (
	"strings"
	"testing"

	"github.com/toyz/dendrite/internal/models"
)

func TestTransformErrorReporter_ReportTransformValidationError(t *testing.T) {
	reporter := NewTransformErrorReporter(NewParser())

	tests := []struct {
		name                  string
		functionName          string
		fileName              string
		line                  int
		issue                 string
		actualSignature       string
		expectedInMessage     []string
		expectedInSuggestions []string
	}{
		{
			name:            "function not found",
			functionName:    "ParseCSV",
			fileName:        "test.go",
			line:            10,
			issue:           "function not found",
			actualSignature: "",
			expectedInMessage: []string{
				"ParseCSV",
				"function not found",
			},
			expectedInSuggestions: []string{
				"Expected signature",
				"func(c dendrite.RequestContext, value any) (any, error)",
				"not a method",
			},
		},
		{
			name:            "wrong parameter count",
			functionName:    "ParseCSV",
			fileName:        "test.go",
			line:            10,
			issue:           "expected 2 parameters, got 1",
			actualSignature: "func(string) (any, error)",
			expectedInMessage: []string{
				"ParseCSV",
				"parameters",
			},
			expectedInSuggestions: []string{
				"exactly 2 parameters",
			},
		},
		{
			name:            "wrong first parameter",
			functionName:    "ParseCSV",
			fileName:        "test.go",
			line:            10,
			issue:           "first parameter must be dendrite.RequestContext, got string",
			actualSignature: "func(string, any) (any, error)",
			expectedInMessage: []string{
				"ParseCSV",
				"first parameter",
			},
			expectedInSuggestions: []string{
				"dendrite.RequestContext",
				"github.com/toyz/dendrite/pkg/dendrite",
			},
		},
		{
			name:            "wrong return count",
			functionName:    "ParseCSV",
			fileName:        "test.go",
			line:            10,
			issue:           "expected 2 return values, got 1",
			actualSignature: "func(dendrite.RequestContext, any) error",
			expectedInMessage: []string{
				"ParseCSV",
				"return",
			},
			expectedInSuggestions: []string{
				"exactly 2 values",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := reporter.ReportTransformValidationError(
				tt.functionName,
				tt.fileName,
				tt.line,
				tt.issue,
				tt.actualSignature,
			)

			if err == nil {
				t.Fatal("Expected error, got nil")
			}

			genErr, ok := err.(*models.GeneratorError)
			if !ok {
				t.Fatalf("Expected GeneratorError, got %T", err)
			}

			if genErr.Type != models.ErrorTypeTransformValidation {
				t.Errorf("Expected ErrorTypeTransformValidation, got %v", genErr.Type)
			}

			if genErr.File != tt.fileName {
				t.Errorf("Expected file %s, got %s", tt.fileName, genErr.File)
			}

			if genErr.Line != tt.line {
				t.Errorf("Expected line %d, got %d", tt.line, genErr.Line)
			}

			for _, expected := range tt.expectedInMessage {
				if !strings.Contains(genErr.Message, expected) {
					t.Errorf("Expected message to contain %q, got: %s", expected, genErr.Message)
				}
			}

			allSuggestions := strings.Join(genErr.Suggestions, "\n")
			for _, expected := range tt.expectedInSuggestions {
				if !strings.Contains(allSuggestions, expected) {
					t.Errorf("Expected suggestions to contain %q, got:\n%s", expected, allSuggestions)
				}
			}

			if genErr.Context["actual_signature"] != tt.actualSignature {
				t.Errorf("Expected actual_signature %q in context, got %v", tt.actualSignature, genErr.Context["actual_signature"])
			}
		})
	}
}

func TestTransformErrorReporter_ReportTransformNotFoundError(t *testing.T) {
	reporter := NewTransformErrorReporter(NewParser())

	t.Run("with available transforms", func(t *testing.T) {
		err := reporter.ReportTransformNotFoundError(
			"csv",
			"UserController.Search",
			0,
			"controllers.go",
			42,
			[]string{"int", "trim", "uuid.UUID"},
		)

		genErr, ok := err.(*models.GeneratorError)
		if !ok {
			t.Fatalf("Expected GeneratorError, got %T", err)
		}

		if genErr.Type != models.ErrorTypeTransformValidation {
			t.Errorf("Expected ErrorTypeTransformValidation, got %v", genErr.Type)
		}
		if genErr.Line != 42 {
			t.Errorf("Expected line 42, got %d", genErr.Line)
		}

		for _, expected := range []string{"csv", "UserController.Search", "index 0"} {
			if !strings.Contains(genErr.Message, expected) {
				t.Errorf("Expected message to contain %q, got: %s", expected, genErr.Message)
			}
		}

		allSuggestions := strings.Join(genErr.Suggestions, "\n")
		if !strings.Contains(allSuggestions, "//dendrite::transform csv") {
			t.Errorf("Expected registration suggestion, got:\n%s", allSuggestions)
		}
		if !strings.Contains(allSuggestions, "int, trim, uuid.UUID") {
			t.Errorf("Expected available transform list, got:\n%s", allSuggestions)
		}
	})

	t.Run("uuid name suggests the builtin", func(t *testing.T) {
		err := reporter.ReportTransformNotFoundError(
			"UUIDv7",
			"UserController.GetUser",
			1,
			"controllers.go",
			10,
			nil,
		)

		genErr := err.(*models.GeneratorError)
		allSuggestions := strings.Join(genErr.Suggestions, "\n")
		if !strings.Contains(allSuggestions, "-Through=uuid.UUID") {
			t.Errorf("Expected builtin uuid suggestion, got:\n%s", allSuggestions)
		}
		if !strings.Contains(allSuggestions, "No transforms are currently registered") {
			t.Errorf("Expected empty-registry note, got:\n%s", allSuggestions)
		}
	})
}

func TestTransformErrorReporter_generateTransformExample(t *testing.T) {
	reporter := NewTransformErrorReporter(NewParser())

	tests := []struct {
		name         string
		functionName string
		expected     []string
	}{
		{
			name:         "csv example",
			functionName: "ParseCSV",
			expected:     []string{"//dendrite::transform csv", "strings.Split"},
		},
		{
			name:         "time example",
			functionName: "ParseTime",
			expected:     []string{"//dendrite::transform time.Time", "time.Parse"},
		},
		{
			name:         "generic example",
			functionName: "ParseWidget",
			expected:     []string{"func ParseWidget", "dendrite.RequestContext"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			example := reporter.generateTransformExample(tt.functionName)
			for _, expected := range tt.expected {
				if !strings.Contains(example, expected) {
					t.Errorf("Expected example to contain %q, got:\n%s", expected, example)
				}
			}
		})
	}
}

func TestTransformErrorReporter_GenerateTransformDiagnostics(t *testing.T) {
	reporter := NewTransformErrorReporter(NewParser())

	t.Run("unused transform", func(t *testing.T) {
		decl := &models.PackageDecl{
			PackageName: "app",
			Controllers: []models.ControllerDecl{
				{
					BaseDeclTrait: models.BaseDeclTrait{Name: "UserController", StructName: "UserController"},
					Handlers: []models.HandlerDecl{
						{
							BaseDeclTrait: models.BaseDeclTrait{Name: "Search", StructName: "UserController"},
							Params: []models.ParamDecl{
								{Index: 0, Source: "query", Through: []string{"trim"}},
							},
						},
					},
				},
			},
			Transforms: []models.TransformMetadata{
				{Name: "csv", FunctionName: "ParseCSV"},
			},
		}

		diagnostics := reporter.GenerateTransformDiagnostics(decl)

		found := false
		for _, diagnostic := range diagnostics {
			if strings.Contains(diagnostic, "'csv'") && strings.Contains(diagnostic, "not used") {
				found = true
			}
		}
		if !found {
			t.Errorf("Expected unused transform diagnostic, got: %v", diagnostics)
		}
	})

	t.Run("handler without bindings", func(t *testing.T) {
		decl := &models.PackageDecl{
			PackageName: "app",
			Controllers: []models.ControllerDecl{
				{
					BaseDeclTrait: models.BaseDeclTrait{Name: "HealthController", StructName: "HealthController"},
					Handlers: []models.HandlerDecl{
						{BaseDeclTrait: models.BaseDeclTrait{Name: "Check", StructName: "HealthController"}},
					},
				},
			},
		}

		diagnostics := reporter.GenerateTransformDiagnostics(decl)

		found := false
		for _, diagnostic := range diagnostics {
			if strings.Contains(diagnostic, "HealthController.Check") {
				found = true
			}
		}
		if !found {
			t.Errorf("Expected no-bindings diagnostic, got: %v", diagnostics)
		}
	})

	t.Run("clean package", func(t *testing.T) {
		decl := &models.PackageDecl{
			PackageName: "app",
			Controllers: []models.ControllerDecl{
				{
					BaseDeclTrait: models.BaseDeclTrait{Name: "UserController", StructName: "UserController"},
					Handlers: []models.HandlerDecl{
						{
							BaseDeclTrait: models.BaseDeclTrait{Name: "Search", StructName: "UserController"},
							Params: []models.ParamDecl{
								{Index: 0, Source: "query", Through: []string{"csv"}},
							},
						},
					},
				},
			},
			Transforms: []models.TransformMetadata{
				{Name: "csv", FunctionName: "ParseCSV"},
			},
		}

		diagnostics := reporter.GenerateTransformDiagnostics(decl)
		if len(diagnostics) != 0 {
			t.Errorf("Expected no diagnostics, got: %v", diagnostics)
		}
	})
}
