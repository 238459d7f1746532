package models

// PackageDecl represents all binding declarations found in a package
type PackageDecl struct {
	PackageName string              // name of the Go package
	PackagePath string              // file system path to the package
	ImportPath  string              // module import path, resolved by the CLI
	Controllers []ControllerDecl    // all annotated controllers found in the package
	Transforms  []TransformMetadata // all transform functions found in the package
}

// ControllerDecl represents an annotated controller struct and its handlers
type ControllerDecl struct {
	BaseDeclTrait
	SourceLocationTrait
	Handlers []HandlerDecl // all annotated handler methods on this struct
}

// HandlerDecl represents an annotated handler method
type HandlerDecl struct {
	BaseDeclTrait
	SourceLocationTrait
	Params    []ParamDecl   // parameter bindings declared on this handler
	Signature SignatureInfo // Go signature the bindings are checked against
}

// ParamDecl represents one parameter binding declaration
type ParamDecl struct {
	Index       int      // zero-based handler parameter position
	Source      string   // source name as written in the annotation
	Property    string   // property key within the source (route name, header key, ...)
	HasProperty bool     // distinguishes an absent property from an empty one
	Through     []string // transform pipeline names, applied left to right
	FileName    string   // file carrying the annotation
	Line        int      // line of the annotation
}

// SignatureInfo describes the handler method signature bindings are validated against
type SignatureInfo struct {
	ParamNames  []string // declared parameter names, positional
	ParamTypes  []string // declared parameter types, positional
	ReturnTypes []string // declared return types
}

// ParamCount returns the number of declared parameters
func (s SignatureInfo) ParamCount() int {
	return len(s.ParamTypes)
}
