package annotations

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// AnnotationPrefix is the marker every dendrite annotation comment carries
const AnnotationPrefix = "dendrite::"

// Parser parses //dendrite:: annotation comments. The annotation head
// (comment marker, prefix, type word) is split off manually; the body is
// handed to a participle grammar for positional arguments and flags.
type Parser struct {
	body     *participle.Parser[AnnotationBody]
	registry AnnotationRegistry
}

// AnnotationBody is the grammar for everything after the annotation type word
type AnnotationBody struct {
	Positional []string         `parser:"( @Ident | @Number | @String )*"`
	Flags      []AnnotationFlag `parser:"@@*"`
}

// AnnotationFlag is a single -Name or -Name=v1,v2 item
type AnnotationFlag struct {
	Name   string   `parser:"Dash @Ident"`
	Values []string `parser:"( Equals @( Ident | Number | String ) ( Comma @( Ident | Number | String ) )* )?"`
}

// NewParser creates an annotation parser validating against the given
// schema registry
func NewParser(registry AnnotationRegistry) *Parser {
	// Idents allow interior dots and dashes so transform names like
	// time.Time and header keys like X-Request-Id stay single tokens
	lex := lexer.MustSimple([]lexer.SimpleRule{
		{Name: "String", Pattern: `"(\\"|[^"])*"`},
		{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_.-]*`},
		{Name: "Number", Pattern: `[0-9]+`},
		{Name: "Dash", Pattern: `-`},
		{Name: "Equals", Pattern: `=`},
		{Name: "Comma", Pattern: `,`},
		{Name: "Whitespace", Pattern: `\s+`},
	})

	body := participle.MustBuild[AnnotationBody](
		participle.Lexer(lex),
		participle.Elide("Whitespace"),
		participle.UseLookahead(2),
	)

	return &Parser{
		body:     body,
		registry: registry,
	}
}

// IsAnnotation reports whether a comment line is a dendrite annotation.
// Callers use this to skip ordinary comments without treating them as
// syntax errors.
func IsAnnotation(comment string) bool {
	text := strings.TrimSpace(comment)
	text = strings.TrimPrefix(text, "//")
	return strings.HasPrefix(strings.TrimSpace(text), AnnotationPrefix)
}

// ParseAnnotation parses an annotation comment line
func (p *Parser) ParseAnnotation(comment string, location SourceLocation) (*ParsedAnnotation, error) {
	annotationType, remaining, err := p.parseBasicStructure(comment)
	if err != nil {
		return nil, err
	}

	parsedType, err := p.parseAnnotationType(annotationType)
	if err != nil {
		return nil, err
	}

	parsed := &ParsedAnnotation{
		Type:       parsedType,
		Parameters: make(map[string]interface{}),
		Location:   location,
		Raw:        strings.TrimSpace(comment),
	}

	if remaining != "" {
		body, err := p.body.ParseString("", remaining)
		if err != nil {
			return nil, fmt.Errorf("failed to parse annotation body '%s': %w", remaining, err)
		}

		if err := p.assignPositional(parsed, body.Positional); err != nil {
			return nil, err
		}

		for _, flag := range body.Flags {
			parsed.Parameters[flag.Name] = p.convertFlagValue(flag, parsed.Type)
		}
	}

	if p.registry != nil {
		if err := p.validateAgainstSchema(parsed); err != nil {
			return nil, err
		}
	}

	return parsed, nil
}

// parseBasicStructure splits the annotation head off the comment line
func (p *Parser) parseBasicStructure(comment string) (annotationType, remaining string, err error) {
	text := strings.TrimSpace(comment)

	if !strings.HasPrefix(text, "//") {
		return "", "", fmt.Errorf("annotation must start with '//'")
	}
	content := strings.TrimSpace(strings.TrimPrefix(text, "//"))

	if !strings.HasPrefix(content, AnnotationPrefix) {
		return "", "", fmt.Errorf("annotation must carry the '%s' prefix", AnnotationPrefix)
	}
	content = strings.TrimPrefix(content, AnnotationPrefix)

	parts := strings.Fields(content)
	if len(parts) == 0 {
		return "", "", fmt.Errorf("empty annotation")
	}

	annotationType = parts[0]
	remaining = strings.TrimSpace(strings.TrimPrefix(content, annotationType))
	return annotationType, remaining, nil
}

// parseAnnotationType converts the type word and checks it is registered
func (p *Parser) parseAnnotationType(typeStr string) (AnnotationType, error) {
	annotationType, err := ParseAnnotationType(typeStr)
	if err != nil {
		return 0, err
	}

	if p.registry != nil && !p.registry.IsRegistered(annotationType) {
		return 0, fmt.Errorf("annotation type '%s' is not registered in schema registry", typeStr)
	}

	return annotationType, nil
}

// assignPositional maps positional arguments to named parameters based on
// the annotation type
func (p *Parser) assignPositional(annotation *ParsedAnnotation, positional []string) error {
	switch annotation.Type {
	case ParamAnnotation:
		if len(positional) > 3 {
			return fmt.Errorf("param annotation takes at most 3 arguments (index, source, property), got %d", len(positional))
		}
		if len(positional) >= 1 {
			annotation.Parameters["index"] = p.convertPositional("index", positional[0], annotation.Type)
		}
		if len(positional) >= 2 {
			annotation.Parameters["source"] = trimAndUnquote(positional[1])
		}
		if len(positional) >= 3 {
			annotation.Parameters["property"] = trimAndUnquote(positional[2])
		}

	case TransformAnnotation:
		if len(positional) > 1 {
			return fmt.Errorf("transform annotation takes exactly 1 argument (name), got %d", len(positional))
		}
		if len(positional) == 1 {
			name := trimAndUnquote(positional[0])
			annotation.Target = name
			annotation.Parameters["name"] = name
		}

	default:
		if len(positional) > 0 {
			return fmt.Errorf("%s annotation takes no arguments, got %d", annotation.Type.String(), len(positional))
		}
	}

	return nil
}

// convertPositional converts a positional argument to the schema's
// declared parameter type. Values that fail conversion are kept as
// strings so the schema validator reports them with context.
func (p *Parser) convertPositional(key, raw string, annotationType AnnotationType) interface{} {
	raw = trimAndUnquote(raw)
	if p.registry == nil {
		return raw
	}

	schema, err := p.registry.GetSchema(annotationType)
	if err != nil {
		return raw
	}

	spec, exists := schema.Parameters[key]
	if !exists {
		return raw
	}

	switch spec.Type {
	case IntType:
		if intVal, err := strconv.Atoi(raw); err == nil {
			return intVal
		}
		return raw
	case StringSliceType:
		if converted, err := ConvertToStringSlice(raw); err == nil {
			return converted
		}
		return raw
	default:
		return raw
	}
}

// convertFlagValue converts a flag's values to the schema's declared type.
// A flag without values converts to true so schema validation can reject
// value-less use of value-taking flags.
func (p *Parser) convertFlagValue(flag AnnotationFlag, annotationType AnnotationType) interface{} {
	if len(flag.Values) == 0 {
		return true
	}

	values := make([]string, len(flag.Values))
	for i, v := range flag.Values {
		values[i] = trimAndUnquote(v)
	}

	var spec ParameterSpec
	if p.registry != nil {
		if schema, err := p.registry.GetSchema(annotationType); err == nil {
			spec = schema.Parameters[flag.Name]
		}
	}

	switch spec.Type {
	case StringSliceType:
		// A single quoted value may still carry embedded commas
		if len(values) == 1 {
			if converted, err := ConvertToStringSlice(values[0]); err == nil {
				return converted
			}
		}
		return values
	case IntType:
		if intVal, err := strconv.Atoi(values[0]); err == nil {
			return intVal
		}
		return values[0]
	default:
		if len(values) == 1 {
			return values[0]
		}
		return values
	}
}

// validateAgainstSchema validates the parsed annotation against its schema
func (p *Parser) validateAgainstSchema(annotation *ParsedAnnotation) error {
	schema, err := p.registry.GetSchema(annotation.Type)
	if err != nil {
		return fmt.Errorf("no schema found for annotation type: %s", annotation.Type)
	}

	// Validate provided parameters
	for paramName, paramValue := range annotation.Parameters {
		paramSpec, exists := schema.Parameters[paramName]
		if !exists {
			return fmt.Errorf("unknown parameter '%s' for annotation type %s", paramName, annotation.Type)
		}

		if paramSpec.Validator != nil {
			if err := paramSpec.Validator(paramValue); err != nil {
				return fmt.Errorf("parameter '%s' validation failed: %w", paramName, err)
			}
		}
	}

	// Check for missing required parameters
	for paramName, paramSpec := range schema.Parameters {
		if paramSpec.Required {
			if _, exists := annotation.Parameters[paramName]; !exists {
				if annotation.Type == ParamAnnotation {
					if paramName == "index" {
						return fmt.Errorf("param annotation requires an index argument (e.g., //dendrite::param 0 query name)")
					}
					if paramName == "source" {
						return fmt.Errorf("param annotation requires a source argument (e.g., query, body, param)")
					}
				}
				return fmt.Errorf("missing required parameter '%s' for annotation type %s", paramName, annotation.Type)
			}
		}
	}

	// Run annotation-level validators
	for _, validate := range schema.Validators {
		if err := validate(annotation); err != nil {
			return err
		}
	}

	return nil
}
