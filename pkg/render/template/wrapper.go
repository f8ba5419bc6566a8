package template

import (
	"errors"
	"strings"
)

// WrapperData is the context handed to a custom wrapper layout. Label,
// Control, Hint and Errors are already-escaped fragments; Attrs is the
// rendered attribute string of the wrapper element.
type WrapperData struct {
	Tag      string
	ID       string
	Classes  []string
	Attrs    string
	Label    string
	Control  string
	Hint     string
	Errors   string
	Required bool
}

// Context flattens the data into template variables.
func (d WrapperData) Context() map[string]any {
	return map[string]any{
		"tag":      d.Tag,
		"id":       d.ID,
		"classes":  strings.Join(d.Classes, " "),
		"attrs":    d.Attrs,
		"label":    d.Label,
		"control":  d.Control,
		"hint":     d.Hint,
		"errors":   d.Errors,
		"required": d.Required,
	}
}

// RenderWrapper renders layout with the flattened data.
func RenderWrapper(renderer TemplateRenderer, layout string, data WrapperData) (string, error) {
	if renderer == nil {
		return "", errors.New("template: renderer is nil")
	}
	if strings.TrimSpace(layout) == "" {
		return "", errors.New("template: wrapper layout is required")
	}
	return renderer.Render(layout, data.Context())
}
