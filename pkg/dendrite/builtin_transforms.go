package dendrite

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// TransformAliases maps convenient aliases to their canonical transform names
var TransformAliases = map[string]string{
	"UUID":    "uuid.UUID",
	"float":   "float64", // Default float to float64
	"double":  "float64", // Common alias for float64
	"integer": "int",
}

// ResolveTransformAlias resolves a transform name alias to its canonical
// name. Names that are not aliases come back unchanged.
func ResolveTransformAlias(name string) string {
	if canonical, isAlias := TransformAliases[name]; isAlias {
		return canonical
	}
	return name
}

// BuiltinTransforms returns the transforms every TransformRegistry starts
// with. Each call builds fresh instances so registries never share state.
func BuiltinTransforms() []Transform {
	return []Transform{
		ToInt(),
		ToFloat64(),
		ToFloat32(),
		ToBool(),
		ToUUID(),
		TrimSpace(),
		ToLower(),
		ToUpper(),
	}
}

// ToInt converts a string value to int
func ToInt() Transform {
	return TransformFunc("int", func(c RequestContext, value any) (any, error) {
		s, err := stringInput("int", value)
		if err != nil {
			return nil, err
		}
		return strconv.Atoi(s)
	})
}

// ToFloat64 converts a string value to float64
func ToFloat64() Transform {
	return TransformFunc("float64", func(c RequestContext, value any) (any, error) {
		s, err := stringInput("float64", value)
		if err != nil {
			return nil, err
		}
		return strconv.ParseFloat(s, 64)
	})
}

// ToFloat32 converts a string value to float32
func ToFloat32() Transform {
	return TransformFunc("float32", func(c RequestContext, value any) (any, error) {
		s, err := stringInput("float32", value)
		if err != nil {
			return nil, err
		}
		val, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return nil, err
		}
		return float32(val), nil
	})
}

// ToBool converts a string value to bool
// Accepts: "true", "1", "yes", "on" as true and "false", "0", "no", "off" as false (case insensitive)
func ToBool() Transform {
	return TransformFunc("bool", func(c RequestContext, value any) (any, error) {
		s, err := stringInput("bool", value)
		if err != nil {
			return nil, err
		}
		switch strings.ToLower(s) {
		case "true", "1", "yes", "on":
			return true, nil
		case "false", "0", "no", "off":
			return false, nil
		default:
			return nil, fmt.Errorf("invalid boolean value: %s", s)
		}
	})
}

// ToUUID converts a string value to uuid.UUID
func ToUUID() Transform {
	return TransformFunc("uuid.UUID", func(c RequestContext, value any) (any, error) {
		s, err := stringInput("uuid.UUID", value)
		if err != nil {
			return nil, err
		}
		return uuid.Parse(s)
	})
}

// TrimSpace trims leading and trailing whitespace from a string value
func TrimSpace() Transform {
	return TransformFunc("trim", func(c RequestContext, value any) (any, error) {
		s, err := stringInput("trim", value)
		if err != nil {
			return nil, err
		}
		return strings.TrimSpace(s), nil
	})
}

// ToLower lower-cases a string value
func ToLower() Transform {
	return TransformFunc("lower", func(c RequestContext, value any) (any, error) {
		s, err := stringInput("lower", value)
		if err != nil {
			return nil, err
		}
		return strings.ToLower(s), nil
	})
}

// ToUpper upper-cases a string value
func ToUpper() Transform {
	return TransformFunc("upper", func(c RequestContext, value any) (any, error) {
		s, err := stringInput("upper", value)
		if err != nil {
			return nil, err
		}
		return strings.ToUpper(s), nil
	})
}

// stringInput enforces that a builtin transform received a string. The
// builtins convert extracted text; anything else in the pipeline at that
// point is a wiring mistake worth a clear error.
func stringInput(transform string, value any) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("%s transform expects a string value, got %T", transform, value)
	}
	return s, nil
}
