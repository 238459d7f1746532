package models

import "github.com/toyz/dendrite/internal/annotations"

// Annotation represents a parsed annotation attached to a source declaration.
// The embedded ParsedAnnotation carries the type and parameters; Target is
// set during extraction to the name of the declaration the comment sits on.
type Annotation struct {
	*annotations.ParsedAnnotation        // parsed type and parameters
	FileName                      string // name of the file containing this annotation
	Line                          int    // line number of the annotation
}
