// Package cascade merges per-call options, configuration, validation metadata
// and translations into the strings and attributes a renderer emits.
//
// Precedence per setting:
//
//	label:       explicit → translation → object's human name → humanized attribute
//	hint:        explicit → translation → none
//	placeholder: explicit → translation → none
//	required:    explicit → validation rules → AllFieldsRequiredByDefault
//
// Translations are consulted when lookups are enabled in the configuration
// or forced by the option (form.Lookup()).
package cascade

import (
	"strings"

	"github.com/goliatone/go-formbuilder/internal/naming"
	"github.com/goliatone/go-formbuilder/pkg/config"
	"github.com/goliatone/go-formbuilder/pkg/form"
	"github.com/goliatone/go-formbuilder/pkg/localize"
	"github.com/goliatone/go-formbuilder/pkg/markup"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

// Input is everything the merger needs for one input.
type Input struct {
	Context    *form.Context
	Descriptor form.Descriptor
	Options    form.Options
}

// Resolved is the merged result. Label and Hint are ready to emit; an empty
// value means the element is not rendered.
type Resolved struct {
	Label          markup.HTML
	Marker         markup.HTML
	Hint           markup.HTML
	Placeholder    string
	Required       bool
	Errors         []string
	WrapperClasses []string
	WrapperAttrs   markup.Attrs
	InputAttrs     markup.Attrs
}

// Merger applies the cascade. It holds no per-call state.
type Merger struct {
	cfg       *config.Config
	localizer *localize.Localizer
	reflector *validation.Reflector
}

// New builds a Merger. Nil collaborators fall back to defaults.
func New(cfg *config.Config, localizer *localize.Localizer, reflector *validation.Reflector) *Merger {
	if cfg == nil {
		cfg = config.New()
	}
	if localizer == nil {
		localizer = localize.New(nil, localize.WithRoot(cfg.I18nRoot()), localize.WithCache(cfg.I18nCacheLookups()))
	}
	if reflector == nil {
		reflector = validation.NewReflector()
	}
	return &Merger{cfg: cfg, localizer: localizer, reflector: reflector}
}

// Config returns the configuration the merger reads.
func (m *Merger) Config() *config.Config { return m.cfg }

// Localizer returns the localizer the merger reads.
func (m *Merger) Localizer() *localize.Localizer { return m.localizer }

// Reflector returns the validation reflector.
func (m *Merger) Reflector() *validation.Reflector { return m.reflector }

// Merge resolves in. Errors come from conditional validation rules and from
// hint markdown conversion.
func (m *Merger) Merge(in Input) (Resolved, error) {
	var object any
	if in.Context != nil {
		object = in.Context.Object
	}

	required, err := m.Required(object, in.Descriptor.Attribute, in.Options)
	if err != nil {
		return Resolved{}, err
	}
	hint, err := m.Hint(in)
	if err != nil {
		return Resolved{}, err
	}

	out := Resolved{
		Label:       m.Label(in),
		Hint:        hint,
		Placeholder: m.Placeholder(in),
		Required:    required,
		Errors:      Errors(object, in.Descriptor),
	}
	if out.Label != "" {
		out.Marker = m.marker(required)
	}
	out.WrapperClasses = m.WrapperClasses(in.Descriptor.Tag, required, len(out.Errors) > 0, in.Options.WrapperHTML)
	out.WrapperAttrs = wrapperAttrs(in.Options.WrapperHTML, out.WrapperClasses)
	out.InputAttrs = m.InputAttrs(in.Descriptor.Tag, required, out.Placeholder, in.Options.InputHTML)
	return out, nil
}

// Required resolves the required flag.
func (m *Merger) Required(object any, attribute string, opts form.Options) (bool, error) {
	if opts.Required != nil {
		return *opts.Required, nil
	}
	required, known, err := m.reflector.Required(object, attribute)
	if err != nil {
		return false, err
	}
	if known {
		return required, nil
	}
	return m.cfg.AllFieldsRequiredByDefault(), nil
}

// Label resolves the label text; "" when suppressed.
func (m *Merger) Label(in Input) markup.HTML {
	text := in.Options.Label
	switch {
	case text.Suppressed():
		return ""
	case text.IsLiteral():
		return markup.Text(text.Value(), m.cfg.EscapeLabelsAndHints())
	case text.IsKey():
		if value, ok := m.localizer.TranslateKey(m.cfg.Locale(), text.Value(), text.Args()); ok {
			return markup.Text(value, m.cfg.EscapeLabelsAndHints())
		}
	}
	if m.lookups(text) {
		if value, ok := m.localizer.Lookup(m.cfg.Locale(), m.scope(localize.Labels, in)); ok {
			return markup.Text(value, m.cfg.EscapeLabelsAndHints())
		}
	}
	return markup.Escape(m.humanName(in))
}

// Hint resolves the hint; "" when absent or suppressed. Markdown hints are
// converted and sanitized.
func (m *Merger) Hint(in Input) (markup.HTML, error) {
	raw, ok := m.optional(in.Options.Hint, localize.Hints, in)
	if !ok {
		return "", nil
	}
	if m.cfg.HintFormat() == config.HintMarkdown {
		return markup.Markdown(raw)
	}
	return markup.Text(raw, m.cfg.EscapeLabelsAndHints()), nil
}

// Placeholder resolves the placeholder text. Attribute rendering escapes it.
func (m *Merger) Placeholder(in Input) string {
	raw, _ := m.optional(in.Options.Placeholder, localize.Placeholders, in)
	return raw
}

func (m *Merger) optional(text form.Text, kind string, in Input) (string, bool) {
	switch {
	case text.Suppressed():
		return "", false
	case text.IsLiteral():
		return text.Value(), text.Value() != ""
	case text.IsKey():
		return m.localizer.TranslateKey(m.cfg.Locale(), text.Value(), text.Args())
	}
	if !m.lookups(text) {
		return "", false
	}
	return m.localizer.Lookup(m.cfg.Locale(), m.scope(kind, in))
}

func (m *Merger) lookups(text form.Text) bool {
	return text.ForcesLookup() || m.cfg.I18nLookupsByDefault()
}

func (m *Merger) scope(kind string, in Input) localize.Scope {
	scope := localize.Scope{Type: kind, Attribute: in.Descriptor.Attribute}
	if in.Context != nil {
		scope.Model = in.Context.Model()
		scope.Nested = in.Context.Nested()
		scope.Action = in.Context.Action
	}
	return scope
}

func (m *Merger) humanName(in Input) string {
	if in.Context != nil {
		if humanizer, ok := in.Context.Object.(model.Humanizer); ok {
			if name := strings.TrimSpace(humanizer.HumanAttributeName(in.Descriptor.Attribute)); name != "" {
				return name
			}
		}
	}
	return naming.Humanize(in.Descriptor.Attribute)
}

func (m *Merger) marker(required bool) markup.HTML {
	if required {
		return markup.HTML(m.cfg.RequiredString())
	}
	return markup.HTML(m.cfg.OptionalString())
}

// WrapperClasses returns [tag, "input", required|optional, "error"?, extras...]
// flattened and deduplicated.
func (m *Merger) WrapperClasses(tag string, required, hasErrors bool, wrapperHTML markup.Attrs) []string {
	state := "optional"
	if required {
		state = "required"
	}
	values := []any{tag, "input", state}
	if hasErrors {
		values = append(values, "error")
	}
	if extra, ok := wrapperHTML["class"]; ok {
		values = append(values, extra)
	}
	return markup.Classes(values...)
}

func wrapperAttrs(wrapperHTML markup.Attrs, classes []string) markup.Attrs {
	out := wrapperHTML.Clone()
	out["class"] = classes
	return out
}

// InputAttrs merges caller attributes over the defaults: the tag and
// required state as classes, the placeholder and, when enabled, the HTML
// required attribute.
func (m *Merger) InputAttrs(tag string, required bool, placeholder string, inputHTML markup.Attrs) markup.Attrs {
	state := "optional"
	if required {
		state = "required"
	}
	attrs := markup.Attrs{"class": []string{tag, state}}
	if placeholder != "" {
		attrs["placeholder"] = placeholder
	}
	if required && m.cfg.UseRequiredAttribute() {
		attrs["required"] = true
		attrs["aria-required"] = "true"
	}
	return attrs.Merge(inputHTML)
}

// Errors collects the object's messages for the attribute and, for
// associations, for the association name.
func Errors(object any, desc form.Descriptor) []string {
	provider, ok := object.(model.ErrorProvider)
	if !ok {
		return nil
	}
	names := []string{desc.Attribute}
	if desc.Association != nil && desc.Association.Name != "" && desc.Association.Name != desc.Attribute {
		names = append(names, desc.Association.Name)
	}
	var out []string
	seen := make(map[string]struct{})
	for _, name := range names {
		for _, message := range provider.ErrorsFor(name) {
			if _, dup := seen[message]; dup {
				continue
			}
			seen[message] = struct{}{}
			out = append(out, message)
		}
	}
	return out
}
