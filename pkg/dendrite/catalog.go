package dendrite

import (
	"sort"
	"strings"
)

// BindingKind tells whether a catalog entry accepts a transform pipeline
type BindingKind int

const (
	// SimpleBinding entries take at most a property key and no pipeline
	SimpleBinding BindingKind = iota

	// PipelineBinding entries take a property key and/or a pipeline
	PipelineBinding
)

// String returns the string representation of the binding kind
func (k BindingKind) String() string {
	switch k {
	case SimpleBinding:
		return "simple"
	case PipelineBinding:
		return "pipeline"
	default:
		return "unknown"
	}
}

// CatalogEntry describes one annotation in the binding catalog: the
// source kind it extracts from, which factory family it belongs to, the
// name it goes by in source annotations, and whether it accepts a
// property key.
type CatalogEntry struct {
	Source        Source
	Kind          BindingKind
	Name          string
	Aliases       []string
	TakesProperty bool
}

// NewBinding constructs a binding for this entry from already parsed
// parts. Tooling that works from the catalog as data (the generator, the
// check command) uses this instead of the typed constructors. Simple
// entries have no pipeline, so pipes are ignored for them.
func (e CatalogEntry) NewBinding(property *string, pipes ...Transform) Binding {
	b := Binding{source: e.Source, data: copyKey(property)}
	if e.Kind == PipelineBinding {
		b.pipes = append([]Transform(nil), pipes...)
	}
	return b
}

// Catalog is the fixed table of binding annotations, one entry per source
// kind. Build it once with NewCatalog and pass it to whatever needs the
// annotation set as data; the table never changes after construction.
type Catalog struct {
	entries  []CatalogEntry
	bySource map[Source]CatalogEntry
	byName   map[string]CatalogEntry
}

// NewCatalog builds the catalog table
func NewCatalog() *Catalog {
	entries := []CatalogEntry{
		{Source: SourceRequest, Kind: SimpleBinding, Name: "request", Aliases: []string{"req"}},
		{Source: SourceResponse, Kind: SimpleBinding, Name: "response", Aliases: []string{"res"}},
		{Source: SourceNext, Kind: SimpleBinding, Name: "next"},
		{Source: SourceSession, Kind: SimpleBinding, Name: "session"},
		{Source: SourceFile, Kind: SimpleBinding, Name: "file", TakesProperty: true},
		{Source: SourceFiles, Kind: SimpleBinding, Name: "files"},
		// headers takes a property name but stays a simple binding: a
		// header value is already a string, never piped through transforms
		{Source: SourceHeaders, Kind: SimpleBinding, Name: "headers", TakesProperty: true},
		{Source: SourceQuery, Kind: PipelineBinding, Name: "query", TakesProperty: true},
		{Source: SourceBody, Kind: PipelineBinding, Name: "body", TakesProperty: true},
		{Source: SourceParam, Kind: PipelineBinding, Name: "param", TakesProperty: true},
	}

	c := &Catalog{
		entries:  entries,
		bySource: make(map[Source]CatalogEntry, len(entries)),
		byName:   make(map[string]CatalogEntry, len(entries)),
	}
	for _, e := range entries {
		c.bySource[e.Source] = e
		c.byName[e.Name] = e
		for _, alias := range e.Aliases {
			c.byName[alias] = e
		}
	}
	return c
}

// Entry returns the catalog entry for a source kind
func (c *Catalog) Entry(src Source) (CatalogEntry, bool) {
	e, exists := c.bySource[src]
	return e, exists
}

// EntryByName returns the catalog entry registered under an annotation
// name or one of its aliases. Names are matched case-insensitively.
func (c *Catalog) EntryByName(name string) (CatalogEntry, bool) {
	e, exists := c.byName[strings.ToLower(name)]
	return e, exists
}

// Entries returns all catalog entries in source order
func (c *Catalog) Entries() []CatalogEntry {
	return append([]CatalogEntry(nil), c.entries...)
}

// Names returns every annotation name and alias in the catalog, sorted
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.byName))
	for name := range c.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
