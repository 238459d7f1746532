package templates

// Template constants used by the generation functions. The registry in
// template_registry.go exposes the same templates by name.

// RegistrationFunctionTemplate renders the RegisterBindings function. Each
// handler with bindings becomes one builder chain; a package without any
// bound handler still gets the function so callers can register it
// unconditionally.
const RegistrationFunctionTemplate = `// RegisterBindings declares the parameter bindings for every annotated
// handler in this package. Call it once during startup, before routes are
// compiled against the registry.
func RegisterBindings(reg *dendrite.Registry) {
{{- if .Handlers}}
	b := dendrite.NewBuilder(reg)
{{- range .Handlers}}

	b.Handler({{quote .Owner}}, {{quote .Method}})
{{- range .Bindings}}.
		Bind({{.Index}}, {{.Expression}})
{{- end}}
{{- end}}
{{- end}}
}
`

// CheckReportTemplate renders the dry-run report for one package: every
// binding expression the generator would emit, without writing the file.
const CheckReportTemplate = `package {{.PackageName}} -> {{.FilePath}}
{{- if .Rows}}
{{- range .Rows}}
  {{.Handler}} {{.Key}} -> {{.Expression}}
{{- end}}
{{- else}}
  no parameter bindings
{{- end}}
`
