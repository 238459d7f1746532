package annotations

import (
	"fmt"
	"strings"

	"github.com/toyz/dendrite/pkg/dendrite"
)

// bindingCatalog is the fixed annotation table the schemas validate
// source names and capabilities against.
var bindingCatalog = dendrite.NewCatalog()

// Built-in annotation schemas

// ControllerAnnotationSchema defines the schema for //dendrite::controller annotations
var ControllerAnnotationSchema = AnnotationSchema{
	Type:        ControllerAnnotation,
	Description: "Marks a struct whose handler methods carry parameter binding annotations",
	Parameters:  map[string]ParameterSpec{},
	Examples: []string{
		"//dendrite::controller",
	},
}

// HandlerAnnotationSchema defines the schema for //dendrite::handler annotations
var HandlerAnnotationSchema = AnnotationSchema{
	Type:        HandlerAnnotation,
	Description: "Marks a controller method whose parameters are bound from request sources",
	Parameters:  map[string]ParameterSpec{},
	Examples: []string{
		"//dendrite::handler",
	},
}

// ParamAnnotationSchema defines the schema for //dendrite::param annotations
var ParamAnnotationSchema = AnnotationSchema{
	Type:        ParamAnnotation,
	Description: "Binds one handler parameter position to a request source",
	Parameters: map[string]ParameterSpec{
		"index": {
			Type:        IntType,
			Required:    true,
			Description: "Zero-based parameter position in the handler signature",
			Validator: func(v interface{}) error {
				index, ok := v.(int)
				if !ok {
					return fmt.Errorf("must be a non-negative integer, got '%v'", v)
				}
				if index < 0 {
					return fmt.Errorf("must be non-negative, got %d", index)
				}
				return nil
			},
		},
		"source": {
			Type:        StringType,
			Required:    true,
			Description: "Source kind name from the binding catalog (request, query, body, param, ...)",
			Validator: func(v interface{}) error {
				name, ok := v.(string)
				if !ok {
					return fmt.Errorf("must be a source name, got '%v'", v)
				}
				if _, exists := bindingCatalog.EntryByName(name); !exists {
					return fmt.Errorf("must be one of: %s, got '%s'",
						strings.Join(bindingCatalog.Names(), ", "), name)
				}
				return nil
			},
		},
		"property": {
			Type:        StringType,
			Required:    false,
			Description: "Named property key within the source (query name, route param name, body field, header)",
		},
		"Through": {
			Type:        StringSliceType,
			Required:    false,
			Description: "Comma-separated transform pipeline applied left to right",
			Validator: func(v interface{}) error {
				names, ok := v.([]string)
				if !ok {
					return fmt.Errorf("expects a comma-separated list of transform names")
				}
				if len(names) == 0 {
					return fmt.Errorf("expects at least one transform name")
				}
				for _, name := range names {
					if strings.TrimSpace(name) == "" {
						return fmt.Errorf("transform names cannot be empty")
					}
				}
				return nil
			},
		},
	},
	Validators: []CustomValidator{
		validateSourceCapabilities,
	},
	Examples: []string{
		"//dendrite::param 0 param id -Through=int",
		"//dendrite::param 1 query filter",
		"//dendrite::param 0 body",
		"//dendrite::param 0 body role -Through=trim,lower",
		"//dendrite::param 2 headers X-Request-Id",
		"//dendrite::param 0 file avatar",
	},
}

// TransformAnnotationSchema defines the schema for //dendrite::transform annotations
var TransformAnnotationSchema = AnnotationSchema{
	Type:        TransformAnnotation,
	Description: "Registers a function as a named transform usable in -Through pipelines",
	Parameters: map[string]ParameterSpec{
		"name": {
			Type:        StringType,
			Required:    true,
			Description: "Name the transform is referenced by in -Through lists",
			Validator: func(v interface{}) error {
				name, ok := v.(string)
				if !ok {
					return fmt.Errorf("must be a transform name, got '%v'", v)
				}
				if name == "" {
					return fmt.Errorf("cannot be empty")
				}
				if strings.ContainsAny(name, " \t,") {
					return fmt.Errorf("cannot contain whitespace or commas, got '%s'", name)
				}
				return nil
			},
		},
	},
	Examples: []string{
		"//dendrite::transform csv",
		"//dendrite::transform time.Time",
	},
}

// validateSourceCapabilities enforces per-source rules the catalog encodes:
// simple bindings never take a transform pipeline, and only sources marked
// TakesProperty accept a positional property key.
func validateSourceCapabilities(annotation *ParsedAnnotation) error {
	source := annotation.GetString("source")
	entry, exists := bindingCatalog.EntryByName(source)
	if !exists {
		// The source parameter validator reports unknown names
		return nil
	}

	if annotation.HasParameter("Through") && entry.Kind == dendrite.SimpleBinding {
		return fmt.Errorf("'%s' bindings do not take a transform pipeline", entry.Name)
	}

	if annotation.HasParameter("property") && !entry.TakesProperty {
		return fmt.Errorf("'%s' bindings do not take a property key", entry.Name)
	}

	return nil
}

// RegisterBuiltinSchemas registers all built-in annotation schemas with a registry
func RegisterBuiltinSchemas(registry AnnotationRegistry) error {
	schemas := []AnnotationSchema{
		ControllerAnnotationSchema,
		HandlerAnnotationSchema,
		ParamAnnotationSchema,
		TransformAnnotationSchema,
	}

	for _, schema := range schemas {
		if err := registry.Register(schema.Type, schema); err != nil {
			return fmt.Errorf("failed to register %s schema: %w", schema.Type.String(), err)
		}
	}

	return nil
}
