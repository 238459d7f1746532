package templates

// TemplateRegistry provides a centralized way to access all templates
type TemplateRegistry struct {
	templates map[string]string
}

// NewTemplateRegistry creates a new template registry with all templates
func NewTemplateRegistry() *TemplateRegistry {
	registry := &TemplateRegistry{
		templates: make(map[string]string),
	}

	registry.registerBindingTemplates()
	registry.registerReportTemplates()

	return registry
}

// Get retrieves a template by name
func (tr *TemplateRegistry) Get(name string) (string, bool) {
	template, exists := tr.templates[name]
	return template, exists
}

// MustGet retrieves a template by name, panics if not found
func (tr *TemplateRegistry) MustGet(name string) string {
	template, exists := tr.templates[name]
	if !exists {
		panic("template not found: " + name)
	}
	return template
}

// registerBindingTemplates registers the binding registration templates
func (tr *TemplateRegistry) registerBindingTemplates() {
	tr.templates["registration-function"] = RegistrationFunctionTemplate
}

// registerReportTemplates registers the report templates used by dry runs
func (tr *TemplateRegistry) registerReportTemplates() {
	tr.templates["check-report"] = CheckReportTemplate
}

// Global template registry instance
var DefaultTemplateRegistry = NewTemplateRegistry()
