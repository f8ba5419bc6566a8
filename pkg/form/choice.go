package form

import "github.com/goliatone/go-formbuilder/pkg/markup"

// Choice is one option of a select, radio group or checkbox group.
type Choice struct {
	Label    string
	Value    string
	Disabled bool
	Attrs    markup.Attrs
}

// Pair builds a choice from a label and a value.
func Pair(label string, value any) Choice {
	return Choice{Label: label, Value: markup.Stringify(value)}
}

// Group is a labelled set of choices rendered as an optgroup or fieldset.
type Group struct {
	Label   string
	Choices []Choice
}
