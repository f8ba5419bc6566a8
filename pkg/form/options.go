package form

import (
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/markup"
)

// Options are the per-call settings of a single input or action. Build them
// with the Option helpers; unset fields defer to the configuration cascade.
type Options struct {
	As          string
	Label       Text
	Hint        Text
	Placeholder Text
	Required    *bool

	Collection   any
	IncludeBlank *bool
	Prompt       Text
	Multiple     *bool
	GroupBy      string
	GroupLabel   string
	ValueMethod  string
	LabelMethod  string
	ValueFunc    func(item any) string
	LabelFunc    func(item any) string
	Disabled     []string
	Selected     []string

	InputHTML   markup.Attrs
	WrapperHTML markup.Attrs

	// Date and time fragments.
	Order      []string
	Discard    map[string]bool
	PartLabels map[string]Text

	// Numeric inputs.
	Min  *float64
	Max  *float64
	Step string

	// Boolean inputs.
	CheckedValue   string
	UncheckedValue string
	IncludeHidden  *bool

	// Value overrides the attribute's current value.
	Value    any
	HasValue bool

	Priority []string

	// Actions.
	URL string
}

// Option mutates Options.
type Option func(*Options)

// Collect applies opts to a zero Options.
func Collect(opts ...Option) Options {
	var out Options
	for _, opt := range opts {
		if opt != nil {
			opt(&out)
		}
	}
	return out
}

// Apply returns a copy of o with opts applied.
func (o Options) Apply(opts ...Option) Options {
	out := o
	for _, opt := range opts {
		if opt != nil {
			opt(&out)
		}
	}
	return out
}

// As forces the input type.
func As(tag string) Option {
	return func(o *Options) { o.As = strings.TrimSpace(tag) }
}

// Label sets a literal label.
func Label(text string) Option { return LabelText(Literal(text)) }

// LabelKey labels the input from a translation key.
func LabelKey(key string) Option { return LabelText(Key(key)) }

// NoLabel suppresses the label.
func NoLabel() Option { return LabelText(Suppress()) }

// LabelText sets the label setting.
func LabelText(text Text) Option {
	return func(o *Options) { o.Label = text }
}

// Hint sets a literal hint.
func Hint(text string) Option { return HintText(Literal(text)) }

// HintText sets the hint setting.
func HintText(text Text) Option {
	return func(o *Options) { o.Hint = text }
}

// Placeholder sets a literal placeholder.
func Placeholder(text string) Option { return PlaceholderText(Literal(text)) }

// PlaceholderText sets the placeholder setting.
func PlaceholderText(text Text) Option {
	return func(o *Options) { o.Placeholder = text }
}

// Required overrides required inference.
func Required(required bool) Option {
	return func(o *Options) { o.Required = &required }
}

// Collection supplies the choices of a collection input: a slice of
// scalars, of two-element pairs, of Choice, a map, a model.CollectionSource
// or any slice of records read through ValueMethod and LabelMethod.
func Collection(collection any) Option {
	return func(o *Options) { o.Collection = collection }
}

// IncludeBlank toggles the leading blank option of selects.
func IncludeBlank(include bool) Option {
	return func(o *Options) { o.IncludeBlank = &include }
}

// Prompt adds a leading prompt option with text.
func Prompt(text string) Option {
	return func(o *Options) { o.Prompt = Literal(text) }
}

// Multiple overrides multi-select detection.
func Multiple(multiple bool) Option {
	return func(o *Options) { o.Multiple = &multiple }
}

// GroupBy groups collection items by the named member; groupLabel names the
// member of the group value used as its label.
func GroupBy(member, groupLabel string) Option {
	return func(o *Options) {
		o.GroupBy = strings.TrimSpace(member)
		o.GroupLabel = strings.TrimSpace(groupLabel)
	}
}

// ValueMethod names the member read for each item's value.
func ValueMethod(member string) Option {
	return func(o *Options) { o.ValueMethod = strings.TrimSpace(member) }
}

// LabelMethod names the member read for each item's label.
func LabelMethod(member string) Option {
	return func(o *Options) { o.LabelMethod = strings.TrimSpace(member) }
}

// ValueFunc computes each item's value.
func ValueFunc(fn func(item any) string) Option {
	return func(o *Options) { o.ValueFunc = fn }
}

// LabelFunc computes each item's label.
func LabelFunc(fn func(item any) string) Option {
	return func(o *Options) { o.LabelFunc = fn }
}

// Disabled marks the choices with these values as disabled.
func Disabled(values ...any) Option {
	return func(o *Options) {
		disabled := append([]string(nil), o.Disabled...)
		for _, value := range values {
			disabled = append(disabled, markup.Stringify(value))
		}
		o.Disabled = disabled
	}
}

// Selected overrides which choices are selected.
func Selected(values ...any) Option {
	return func(o *Options) {
		selected := make([]string, 0, len(values))
		for _, value := range values {
			selected = append(selected, markup.Stringify(value))
		}
		o.Selected = selected
	}
}

// InputHTML merges attributes onto the control.
func InputHTML(attrs markup.Attrs) Option {
	return func(o *Options) { o.InputHTML = o.InputHTML.Merge(attrs) }
}

// WrapperHTML merges attributes onto the wrapper; classes are appended to the
// computed wrapper classes.
func WrapperHTML(attrs markup.Attrs) Option {
	return func(o *Options) { o.WrapperHTML = o.WrapperHTML.Merge(attrs) }
}

// WrapperClass appends wrapper classes.
func WrapperClass(classes ...string) Option {
	return WrapperHTML(markup.Attrs{"class": classes})
}

// Order sets the fragment order of date and time selects.
func Order(parts ...string) Option {
	return func(o *Options) { o.Order = append([]string(nil), parts...) }
}

// Discard renders the named fragments as hidden inputs.
func Discard(parts ...string) Option {
	return func(o *Options) {
		discard := make(map[string]bool, len(o.Discard)+len(parts))
		for part, hidden := range o.Discard {
			discard[part] = hidden
		}
		o.Discard = discard
		for _, part := range parts {
			o.Discard[strings.TrimSpace(part)] = true
		}
	}
}

// PartLabel sets the label of one date or time fragment.
func PartLabel(part string, text Text) Option {
	return func(o *Options) {
		labels := make(map[string]Text, len(o.PartLabels)+1)
		for key, value := range o.PartLabels {
			labels[key] = value
		}
		labels[strings.TrimSpace(part)] = text
		o.PartLabels = labels
	}
}

// NoPartLabels suppresses every fragment label.
func NoPartLabels() Option {
	return func(o *Options) {
		o.PartLabels = make(map[string]Text)
		for _, part := range []string{"year", "month", "day", "hour", "minute", "second"} {
			o.PartLabels[part] = Suppress()
		}
	}
}

// Range overrides numeric bounds.
func Range(lo, hi float64) Option {
	return func(o *Options) {
		o.Min = &lo
		o.Max = &hi
	}
}

// Step overrides the numeric step.
func Step(step string) Option {
	return func(o *Options) { o.Step = strings.TrimSpace(step) }
}

// CheckedValues sets the submitted values of a checkbox.
func CheckedValues(checked, unchecked string) Option {
	return func(o *Options) {
		o.CheckedValue = checked
		o.UncheckedValue = unchecked
	}
}

// IncludeHidden toggles the hidden sentinel of checkboxes.
func IncludeHidden(include bool) Option {
	return func(o *Options) { o.IncludeHidden = &include }
}

// Value overrides the attribute's current value.
func Value(value any) Option {
	return func(o *Options) {
		o.Value = value
		o.HasValue = true
	}
}

// Priority lists the entries shown first by country, currency and time zone
// inputs.
func Priority(entries ...string) Option {
	return func(o *Options) { o.Priority = append([]string(nil), entries...) }
}

// URL sets the target of link actions.
func URL(url string) Option {
	return func(o *Options) { o.URL = strings.TrimSpace(url) }
}
