package template

// TemplateRenderer renders a layout with variables. The layout is either a
// template name the renderer knows how to load or inline template content.
type TemplateRenderer interface {
	Render(layout string, vars map[string]any) (string, error)
}

// Compiler is implemented by renderers that can check a layout ahead of the
// first render.
type Compiler interface {
	Compile(layout string) error
}
