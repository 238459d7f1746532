package models

// DeclBuilder provides a fluent interface for assembling declaration structures
type DeclBuilder struct {
	base     *BaseDeclTrait
	location *SourceLocationTrait
}

// NewDeclBuilder creates a new declaration builder
func NewDeclBuilder(name, structName string) *DeclBuilder {
	return &DeclBuilder{
		base: &BaseDeclTrait{
			Name:       name,
			StructName: structName,
		},
	}
}

// WithLocation records where the declaration was found
func (b *DeclBuilder) WithLocation(fileName string, line int) *DeclBuilder {
	b.location = &SourceLocationTrait{
		FileName: fileName,
		Line:     line,
	}
	return b
}

// BuildController creates a ControllerDecl
func (b *DeclBuilder) BuildController(handlers []HandlerDecl) *ControllerDecl {
	controller := &ControllerDecl{
		BaseDeclTrait: *b.base,
		Handlers:      handlers,
	}

	if b.location != nil {
		controller.SourceLocationTrait = *b.location
	}

	return controller
}

// BuildHandler creates a HandlerDecl
func (b *DeclBuilder) BuildHandler(params []ParamDecl, signature SignatureInfo) *HandlerDecl {
	handler := &HandlerDecl{
		BaseDeclTrait: *b.base,
		Params:        params,
		Signature:     signature,
	}

	if b.location != nil {
		handler.SourceLocationTrait = *b.location
	}

	return handler
}
