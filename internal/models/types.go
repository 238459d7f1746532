package models

// ErrorType represents different types of generator errors
type ErrorType int

const (
	ErrorTypeAnnotationSyntax ErrorType = iota
	ErrorTypeValidation
	ErrorTypeSignatureMismatch
	ErrorTypeTransformValidation
	ErrorTypeTransformConflict
	ErrorTypeGeneration
	ErrorTypeFileSystem
	ErrorTypeModuleResolution
)

// String returns a human-readable label for the error type
func (e ErrorType) String() string {
	switch e {
	case ErrorTypeAnnotationSyntax:
		return "annotation syntax"
	case ErrorTypeValidation:
		return "validation"
	case ErrorTypeSignatureMismatch:
		return "signature mismatch"
	case ErrorTypeTransformValidation:
		return "transform validation"
	case ErrorTypeTransformConflict:
		return "transform conflict"
	case ErrorTypeGeneration:
		return "generation"
	case ErrorTypeFileSystem:
		return "file system"
	case ErrorTypeModuleResolution:
		return "module resolution"
	default:
		return "unknown"
	}
}

// BuiltinPackagePath marks transforms that ship with the runtime library
// rather than being discovered in scanned source.
const BuiltinPackagePath = "builtin"

// TransformMetadata represents metadata for a transform function
type TransformMetadata struct {
	Name         string `json:"name"`
	FunctionName string `json:"function_name"`
	PackageName  string `json:"package_name"`
	PackagePath  string `json:"package_path"`
	ImportPath   string `json:"import_path"`

	// Function signature validation
	ParameterTypes []string `json:"parameter_types"`
	ReturnTypes    []string `json:"return_types"`

	// Source location for error reporting
	FileName string `json:"file_name"`
	Line     int    `json:"line"`
}

// IsBuiltin reports whether the transform ships with the runtime library
func (t TransformMetadata) IsBuiltin() bool {
	return t.PackagePath == BuiltinPackagePath
}
