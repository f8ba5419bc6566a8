package inputs

import (
	"strconv"
	"time"

	"github.com/goliatone/go-formbuilder/pkg/markup"
	"github.com/goliatone/go-formbuilder/pkg/model"
)

// TextField renders single-line inputs. The variants differ only in the
// HTML type and whether size and maxlength apply.
type TextField struct {
	Type string
	// Sized inputs get size and maxlength/minlength from the column and
	// validation rules.
	Sized bool
	// HideValue never echoes the current value (passwords).
	HideValue bool
}

// Render implements Renderer.
func (t TextField) Render(field Field) (Parts, error) {
	attrs := field.Attrs().Default("type", t.Type)
	if !t.HideValue {
		if value := markup.Stringify(field.Value); value != "" {
			attrs = attrs.Default("value", value)
		}
	}
	if t.Sized {
		var err error
		if attrs, err = lengthAttrs(field, attrs, true); err != nil {
			return Parts{}, err
		}
	}
	return DefaultParts(field, field.ID(), markup.Void("input", attrs)), nil
}

func lengthAttrs(field Field, attrs markup.Attrs, sized bool) (markup.Attrs, error) {
	reflector := field.Services.reflector()
	maxLength, err := reflector.MaxLength(field.Object(), field.Descriptor.Attribute, field.Column().Limit)
	if err != nil {
		return nil, err
	}
	minLength, err := reflector.MinLength(field.Object(), field.Descriptor.Attribute)
	if err != nil {
		return nil, err
	}
	if maxLength > 0 {
		attrs = attrs.Default("maxlength", maxLength)
	}
	if minLength > 0 {
		attrs = attrs.Default("minlength", minLength)
	}
	if sized {
		if size := field.Services.config().DefaultTextFieldSize(); size > 0 {
			if maxLength > 0 && maxLength < size {
				size = maxLength
			}
			attrs = attrs.Default("size", size)
		}
	}
	return attrs, nil
}

// Number renders <input type="number"> with min, max and step from the
// numericality rules unless overridden by options.
type Number struct{}

// Render implements Renderer.
func (Number) Render(field Field) (Parts, error) {
	integer := field.Column().Type == model.ColumnInteger
	bounds, err := field.Services.reflector().NumericRange(field.Object(), field.Descriptor.Attribute, integer)
	if err != nil {
		return Parts{}, err
	}
	if field.Options.Min != nil {
		bounds.Min = field.Options.Min
	}
	if field.Options.Max != nil {
		bounds.Max = field.Options.Max
	}
	if field.Options.Step != "" {
		bounds.Step = field.Options.Step
	}

	attrs := field.Attrs().Default("type", "number")
	if bounds.Min != nil {
		attrs = attrs.Default("min", *bounds.Min)
	}
	if bounds.Max != nil {
		attrs = attrs.Default("max", *bounds.Max)
	}
	if bounds.Step != "" {
		attrs = attrs.Default("step", bounds.Step)
	}
	if value := markup.Stringify(field.Value); value != "" {
		attrs = attrs.Default("value", value)
	}
	return DefaultParts(field, field.ID(), markup.Void("input", attrs)), nil
}

// TextArea renders a <textarea>.
type TextArea struct{}

// Render implements Renderer.
func (TextArea) Render(field Field) (Parts, error) {
	cfg := field.Services.config()
	attrs := field.Attrs()
	if rows := cfg.DefaultTextAreaRows(); rows > 0 {
		attrs = attrs.Default("rows", rows)
	}
	if cols := cfg.DefaultTextAreaCols(); cols > 0 {
		attrs = attrs.Default("cols", cols)
	}
	attrs, err := lengthAttrs(field, attrs, false)
	if err != nil {
		return Parts{}, err
	}
	// A leading newline keeps browsers from swallowing the first line break
	// of the value.
	content := markup.Join("\n", markup.Escape(markup.Stringify(field.Value)))
	return DefaultParts(field, field.ID(), markup.Tag("textarea", attrs, content)), nil
}

// Hidden renders a hidden input without label, hint or errors.
type Hidden struct{}

// Render implements Renderer.
func (Hidden) Render(field Field) (Parts, error) {
	attrs := field.Attrs().Set("type", "hidden")
	delete(attrs, "placeholder")
	delete(attrs, "required")
	delete(attrs, "aria-required")
	attrs = attrs.Default("value", markup.Stringify(field.Value))
	return Parts{Control: markup.Void("input", attrs), Bare: true}, nil
}

// File renders <input type="file">. The current value is never echoed.
type File struct{}

// Render implements Renderer.
func (File) Render(field Field) (Parts, error) {
	attrs := field.Attrs().Default("type", "file")
	if field.Multiple() {
		attrs = attrs.Default("multiple", true)
	}
	return DefaultParts(field, field.ID(), markup.Void("input", attrs)), nil
}

// Picker renders the native HTML5 date, time and datetime-local inputs.
type Picker struct {
	Type   string
	Layout string
}

// Render implements Renderer.
func (p Picker) Render(field Field) (Parts, error) {
	attrs := field.Attrs().Default("type", p.Type)
	if value, ok := TimeValue(field.Value); ok {
		attrs = attrs.Default("value", value.Format(p.Layout))
	} else if s := markup.Stringify(field.Value); s != "" {
		attrs = attrs.Default("value", s)
	}
	return DefaultParts(field, field.ID(), markup.Void("input", attrs)), nil
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"15:04:05",
	"15:04",
}

// TimeValue converts the supported value shapes (time.Time, *time.Time,
// formatted strings, unix seconds) into a time.
func TimeValue(value any) (time.Time, bool) {
	switch typed := value.(type) {
	case time.Time:
		return typed, !typed.IsZero()
	case *time.Time:
		if typed == nil {
			return time.Time{}, false
		}
		return *typed, !typed.IsZero()
	case string:
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, typed); err == nil {
				return parsed, true
			}
		}
	case int64:
		return time.Unix(typed, 0).UTC(), true
	}
	return time.Time{}, false
}

func itoa(v int) string { return strconv.Itoa(v) }
