package actions

import "github.com/goliatone/go-formbuilder/pkg/render"

// Defaults returns a namespace holding the built-in action renderers.
func Defaults() *render.MapNamespace[Renderer] {
	ns := render.NewMapNamespace[Renderer]("defaults")
	ns.MustRegister(TagInput, Input{})
	ns.MustRegister(TagButton, Button{})
	ns.MustRegister(TagLink, Link{})
	return ns
}
