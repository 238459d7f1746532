package registry

import (
	"sync"

	"github.com/toyz/dendrite/internal/models"
	"github.com/toyz/dendrite/pkg/dendrite"
)

// TransformRegistryInterface defines the interface for transform registry operations
type TransformRegistryInterface interface {
	RegisterTransform(transform models.TransformMetadata) error
	GetTransform(name string) (models.TransformMetadata, bool)
	ListTransforms() []string
	HasTransform(name string) bool
	Clear()
	ClearCustomTransforms()
	GetAllTransforms() map[string]models.TransformMetadata
}

// builtinConstructors maps each builtin transform name to the runtime
// constructor generated code references for it.
var builtinConstructors = map[string]string{
	"int":       "ToInt",
	"float64":   "ToFloat64",
	"float32":   "ToFloat32",
	"bool":      "ToBool",
	"uuid.UUID": "ToUUID",
	"trim":      "TrimSpace",
	"lower":     "ToLower",
	"upper":     "ToUpper",
}

// TransformRegistry tracks every transform name the generator may reference,
// seeded with the runtime's builtin transforms
type TransformRegistry struct {
	transforms map[string]models.TransformMetadata
	mu         sync.RWMutex
}

// NewTransformRegistry creates a new transform registry with built-in transforms
func NewTransformRegistry() *TransformRegistry {
	registry := &TransformRegistry{
		transforms: make(map[string]models.TransformMetadata),
	}

	registry.seedBuiltins()

	return registry
}

func (r *TransformRegistry) seedBuiltins() {
	for _, transform := range dendrite.BuiltinTransforms() {
		name := transform.Name()
		r.transforms[name] = models.TransformMetadata{
			Name:           name,
			FunctionName:   builtinConstructors[name],
			PackagePath:    models.BuiltinPackagePath,
			ParameterTypes: []string{"dendrite.RequestContext", "any"},
			ReturnTypes:    []string{"any", "error"},
			FileName:       models.BuiltinPackagePath,
		}
	}
}

// RegisterTransform registers a new transform under its annotation name
func (r *TransformRegistry) RegisterTransform(transform models.TransformMetadata) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, exists := r.transforms[transform.Name]; exists {
		conflicts := []models.TransformConflict{
			{
				FileName:     existing.FileName,
				Line:         existing.Line,
				FunctionName: existing.FunctionName,
				PackagePath:  existing.PackagePath,
			},
			{
				FileName:     transform.FileName,
				Line:         transform.Line,
				FunctionName: transform.FunctionName,
				PackagePath:  transform.PackagePath,
			},
		}
		return models.NewTransformConflictError(transform.Name, conflicts)
	}

	r.transforms[transform.Name] = transform
	return nil
}

// GetTransform retrieves a transform by name, resolving aliases
func (r *TransformRegistry) GetTransform(name string) (models.TransformMetadata, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// First try direct lookup
	if transform, exists := r.transforms[name]; exists {
		return transform, true
	}

	// Try resolving alias and lookup again
	resolved := dendrite.ResolveTransformAlias(name)
	if resolved != name {
		if transform, exists := r.transforms[resolved]; exists {
			return transform, true
		}
	}

	return models.TransformMetadata{}, false
}

// ListTransforms returns all registered transform names
func (r *TransformRegistry) ListTransforms() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.transforms))
	for name := range r.transforms {
		names = append(names, name)
	}
	return names
}

// HasTransform checks if a transform is registered under exactly this name
func (r *TransformRegistry) HasTransform(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.transforms[name]
	return exists
}

// Clear removes all registered transforms and re-seeds the builtins
func (r *TransformRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.transforms = make(map[string]models.TransformMetadata)
	r.seedBuiltins()
}

// ClearCustomTransforms removes only discovered transforms, keeping builtins
func (r *TransformRegistry) ClearCustomTransforms() {
	r.mu.Lock()
	defer r.mu.Unlock()

	builtins := make(map[string]models.TransformMetadata)
	for name, transform := range r.transforms {
		if transform.IsBuiltin() {
			builtins[name] = transform
		}
	}

	r.transforms = builtins
}

// GetAllTransforms returns a copy of all registered transforms
func (r *TransformRegistry) GetAllTransforms() map[string]models.TransformMetadata {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]models.TransformMetadata, len(r.transforms))
	for name, transform := range r.transforms {
		result[name] = transform
	}
	return result
}
