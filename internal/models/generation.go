package models

// GeneratedFile represents a generated bindings file for one package
type GeneratedFile struct {
	PackageName string // name of the package
	FilePath    string // path where the bindings file should be written
	Content     string // generated Go code content
	Handlers    int    // handlers registered by this file
	Bindings    int    // parameter bindings registered by this file
}
