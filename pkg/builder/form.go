package builder

import (
	"strings"

	"github.com/goliatone/go-formbuilder/internal/naming"
	"github.com/goliatone/go-formbuilder/pkg/actions"
	"github.com/goliatone/go-formbuilder/pkg/form"
	"github.com/goliatone/go-formbuilder/pkg/markup"
	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Action renders a single action. The tag comes from form.As, defaulting to
// actions.DefaultTag(name).
func (b *Builder) Action(name string, opts ...form.Option) (markup.HTML, error) {
	name = strings.TrimSpace(name)
	options := form.Collect(opts...)
	tag := options.As
	if tag == "" {
		tag = actions.DefaultTag(name)
	}
	renderer, err := b.env.actions.Find(tag)
	if err != nil {
		return "", err
	}
	return renderer.Render(actions.Action{
		Context:   b.ctx,
		Name:      name,
		Tag:       tag,
		Options:   options,
		Config:    b.env.cfg,
		Localizer: b.env.localizer,
	})
}

// Actions renders a fieldset of actions with default options, submit only
// when names is empty.
func (b *Builder) Actions(names ...string) (markup.HTML, error) {
	if len(names) == 0 {
		names = []string{actions.Submit}
	}
	rendered := make([]markup.HTML, 0, len(names))
	for _, name := range names {
		html, err := b.Action(name)
		if err != nil {
			return "", err
		}
		rendered = append(rendered, html)
	}
	return markup.Tag("fieldset", markup.Attrs{"class": "actions"}, markup.Join(rendered...)), nil
}

// SemanticErrors lists the object's base errors, and the full messages of
// the given attributes, under a heading. It renders nothing when there are
// no messages.
func (b *Builder) SemanticErrors(attributes ...string) markup.HTML {
	provider, ok := b.ctx.Object.(model.ErrorProvider)
	if !ok {
		return ""
	}
	var messages []string
	messages = append(messages, provider.ErrorsFor(model.BaseErrorKey)...)
	for _, attribute := range attributes {
		name := b.humanAttribute(attribute)
		for _, message := range provider.ErrorsFor(attribute) {
			messages = append(messages, name+" "+message)
		}
	}
	if len(messages) == 0 {
		return ""
	}

	items := make([]markup.HTML, 0, len(messages))
	for _, message := range messages {
		items = append(items, markup.Tag("li", nil, markup.Escape(message)))
	}
	heading, ok := b.env.localizer.Translate(b.env.cfg.Locale(), "errors.base_heading", nil)
	var head markup.HTML
	if ok {
		head = markup.Tag("p", markup.Attrs{"class": "error_heading"}, markup.Escape(heading))
	}
	return markup.Tag("div", markup.Attrs{"class": "semantic_errors"},
		markup.Join(head, markup.Tag("ul", markup.Attrs{"class": "errors"}, markup.Join(items...))))
}

func (b *Builder) humanAttribute(attribute string) string {
	if humanizer, ok := b.ctx.Object.(model.Humanizer); ok {
		if name := strings.TrimSpace(humanizer.HumanAttributeName(attribute)); name != "" {
			return name
		}
	}
	return naming.Humanize(attribute)
}

// FormOption configures Form.
type FormOption func(*formSettings)

type formSettings struct {
	url       string
	method    string
	hidden    []form.HiddenField
	attrs     markup.Attrs
	multipart *bool
}

// URL sets the form action.
func URL(url string) FormOption {
	return func(s *formSettings) { s.url = strings.TrimSpace(url) }
}

// Method sets the HTTP verb. Verbs other than GET and POST are submitted as
// POST with a _method override field. Defaults to post for new records and
// patch otherwise.
func Method(method string) FormOption {
	return func(s *formSettings) { s.method = strings.TrimSpace(method) }
}

// HiddenFields adds hidden inputs such as a CSRF token.
func HiddenFields(fields ...form.HiddenField) FormOption {
	return func(s *formSettings) { s.hidden = append(s.hidden, fields...) }
}

// HTML merges attrs onto the form element.
func HTML(attrs markup.Attrs) FormOption {
	return func(s *formSettings) { s.attrs = s.attrs.Merge(attrs) }
}

// Multipart forces the multipart encoding on or off. By default it is set
// when a file input was rendered.
func Multipart(enabled bool) FormOption {
	return func(s *formSettings) { s.multipart = &enabled }
}

// Form renders the form element around content: id and classes from the
// context, hidden fields first (method override leading), novalidate when
// browser validations are disabled.
func (b *Builder) Form(content Content, opts ...FormOption) (markup.HTML, error) {
	var settings formSettings
	for _, opt := range opts {
		if opt != nil {
			opt(&settings)
		}
	}

	var body markup.HTML
	if content != nil {
		var err error
		if body, err = content.render(b); err != nil {
			return "", err
		}
	}

	method := settings.method
	if method == "" {
		method = "post"
		if b.ctx.Action == "edit" {
			method = "patch"
		}
	}
	formMethod, override := form.SplitMethod(method)
	fields := settings.hidden
	if override != nil {
		fields = append([]form.HiddenField{*override}, fields...)
	}
	hidden := form.RenderHidden(form.SortedHiddenFields(form.MergeHiddenFields(nil, fields...)))

	attrs := markup.Attrs{
		"id":             b.ctx.FormID(),
		"method":         formMethod,
		"accept-charset": "UTF-8",
	}
	if settings.url != "" {
		attrs["action"] = settings.url
	}
	if !b.env.cfg.PerformBrowserValidations() {
		attrs["novalidate"] = true
	}
	multipart := b.state.multipart
	if settings.multipart != nil {
		multipart = *settings.multipart
	}
	if multipart {
		attrs["enctype"] = "multipart/form-data"
	}
	attrs = attrs.Merge(settings.attrs)
	attrs["class"] = markup.Classes("formbuilder", b.ctx.Model(), settings.attrs["class"])

	return markup.Tag("form", attrs, markup.Join(hidden, body)), nil
}
