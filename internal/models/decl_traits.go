package models

// Composable trait structs embedded by the declaration types to avoid
// duplication while keeping field access direct

// BaseDeclTrait provides the identity every declaration carries
type BaseDeclTrait struct {
	Name       string // name of the declaration (struct or method)
	StructName string // name of the struct the declaration belongs to
}

// GetName returns the declaration name
func (b *BaseDeclTrait) GetName() string {
	return b.Name
}

// GetStructName returns the owning struct name
func (b *BaseDeclTrait) GetStructName() string {
	return b.StructName
}

// SourceLocationTrait provides source position functionality for diagnostics
type SourceLocationTrait struct {
	FileName string // file the declaration was found in
	Line     int    // line number of the declaration
}

// GetFileName returns the file the declaration was found in
func (s *SourceLocationTrait) GetFileName() string {
	return s.FileName
}

// GetLine returns the line number of the declaration
func (s *SourceLocationTrait) GetLine() int {
	return s.Line
}

// Declaration is the base interface for all declaration types
type Declaration interface {
	GetName() string
	GetStructName() string
}

// Locatable represents declarations that carry a source position
type Locatable interface {
	GetFileName() string
	GetLine() int
}
