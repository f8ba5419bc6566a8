// Package template defines the renderer-agnostic template contract used for
// custom wrapper layouts. The gotemplate subpackage provides a pongo2 engine.
package template
