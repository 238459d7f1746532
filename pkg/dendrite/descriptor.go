package dendrite

// Descriptor records how one handler parameter is bound: the parameter
// position it fills, an optional property key narrowing the extracted
// value, and the transforms applied to it in order.
//
// A nil Data means "the whole source value". An empty string is a legal
// property key and is distinct from nil.
type Descriptor struct {
	// Index is the zero-based parameter position in the handler signature
	Index int

	// Data is the optional property key plucked from the source value
	Data *string

	// Pipes is the transform pipeline, applied left to right
	Pipes []Transform
}

// Property returns the property key and whether one was set
func (d Descriptor) Property() (string, bool) {
	if d.Data == nil {
		return "", false
	}
	return *d.Data, true
}

// clone returns a copy that shares no mutable state with d
func (d Descriptor) clone() Descriptor {
	return Descriptor{
		Index: d.Index,
		Data:  copyKey(d.Data),
		Pipes: append([]Transform(nil), d.Pipes...),
	}
}

// MethodBindings maps binding keys (see Key) to parameter descriptors for
// one handler method. At most one descriptor exists per (source, index)
// pair; two different sources may target the same index, under distinct
// keys. A nil MethodBindings is a valid empty table.
type MethodBindings map[string]Descriptor

// With returns a new table containing every entry of m plus b applied at
// the given parameter index. m is never modified, so callers holding the
// old table keep an unchanged view. When a descriptor already exists for
// the same source and index it is replaced; every other key is preserved.
func (m MethodBindings) With(index int, b Binding) MethodBindings {
	return m.merge(b.source, index, b.data, b.pipes)
}

// Get returns the descriptor for a (source, index) pair
func (m MethodBindings) Get(src Source, index int) (Descriptor, bool) {
	d, exists := m[Key(src, index)]
	return d, exists
}

// merge produces the extended table. It copies m, then writes the new
// descriptor under its binding key. Descriptor internals are copied too,
// so the stored entry never aliases caller-owned slices.
func (m MethodBindings) merge(src Source, index int, data *string, pipes []Transform) MethodBindings {
	result := make(MethodBindings, len(m)+1)
	for key, desc := range m {
		result[key] = desc
	}

	result[Key(src, index)] = Descriptor{
		Index: index,
		Data:  copyKey(data),
		Pipes: append([]Transform(nil), pipes...),
	}
	return result
}

// clone returns a copy of the table with cloned descriptors
func (m MethodBindings) clone() MethodBindings {
	if m == nil {
		return nil
	}
	result := make(MethodBindings, len(m))
	for key, desc := range m {
		result[key] = desc.clone()
	}
	return result
}

func copyKey(s *string) *string {
	if s == nil {
		return nil
	}
	copied := *s
	return &copied
}
