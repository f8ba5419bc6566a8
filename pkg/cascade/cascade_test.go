package cascade_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/cascade"
	"github.com/goliatone/go-formbuilder/pkg/config"
	"github.com/goliatone/go-formbuilder/pkg/form"
	"github.com/goliatone/go-formbuilder/pkg/localize"
	"github.com/goliatone/go-formbuilder/pkg/markup"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/testsupport"
)

func newMerger(cfg *config.Config, entries map[string]map[string]string) *cascade.Merger {
	localizer := localize.New(testsupport.Translations(entries))
	return cascade.New(cfg, localizer, nil)
}

func input(object any, attribute, tag string, opts ...form.Option) cascade.Input {
	return cascade.Input{
		Context:    form.NewContext(object, "", nil),
		Descriptor: form.Descriptor{Attribute: attribute, Tag: tag},
		Options:    form.Collect(opts...),
	}
}

func TestLabelCascade(t *testing.T) {
	translations := map[string]map[string]string{
		"en": {
			"formbuilder.labels.post.title":     "I18n title",
			"formbuilder.labels.body":           "Generic body",
			"custom.label":                      "Custom %{n}",
			"formbuilder.labels.post.new.views": "New views",
		},
	}
	post := testsupport.Post()
	post.HumanNames = map[string]string{"publish_at": "Go live"}

	cases := []struct {
		name string
		cfg  *config.Config
		in   cascade.Input
		want markup.HTML
	}{
		{name: "literal", in: input(post, "title", "string", form.Label("Headline")), want: "Headline"},
		{name: "literal escaped", in: input(post, "title", "string", form.Label("<b>T</b>")), want: "&lt;b&gt;T&lt;/b&gt;"},
		{name: "literal sanitized", cfg: config.New(config.WithEscapeLabelsAndHints(false)), in: input(post, "title", "string", form.Label("<b>T</b><script>x</script>")), want: "<b>T</b>"},
		{name: "key", in: input(post, "title", "string", form.LabelText(form.Key("custom.label", map[string]any{"n": 2}))), want: "Custom 2"},
		{name: "missing key falls back", in: input(post, "title", "string", form.LabelKey("missing.key")), want: "I18n title"},
		{name: "model scope", in: input(post, "title", "string"), want: "I18n title"},
		{name: "action scope", in: input(post, "views", "number"), want: "New views"},
		{name: "attribute scope", in: input(post, "body", "text"), want: "Generic body"},
		{name: "human name", in: input(post, "publish_at", "datetime_select"), want: "Go live"},
		{name: "humanized", in: input(post, "category_id", "select"), want: "Category"},
		{name: "lookups disabled", cfg: config.New(config.WithI18nLookupsByDefault(false)), in: input(post, "title", "string"), want: "Title"},
		{name: "lookup forced", cfg: config.New(config.WithI18nLookupsByDefault(false)), in: input(post, "title", "string", form.LabelText(form.Lookup())), want: "I18n title"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := newMerger(tc.cfg, translations).Label(tc.in); got != tc.want {
				t.Fatalf("Label = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestSuppressedLabelIgnoresTranslations(t *testing.T) {
	merger := newMerger(nil, map[string]map[string]string{"en": {"formbuilder.labels.post.title": "I18n title"}})
	resolved, err := merger.Merge(input(testsupport.Post(), "title", "string", form.NoLabel()))
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if resolved.Label != "" || resolved.Marker != "" {
		t.Fatalf("expected no label, got %q %q", resolved.Label, resolved.Marker)
	}
}

func TestHintAndPlaceholder(t *testing.T) {
	translations := map[string]map[string]string{"en": {
		"formbuilder.hints.post.title":        "Keep it short",
		"formbuilder.placeholders.post.title": "Title here",
	}}
	merger := newMerger(nil, translations)

	resolved, err := merger.Merge(input(testsupport.Post(), "title", "string"))
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if resolved.Hint != "Keep it short" || resolved.Placeholder != "Title here" {
		t.Fatalf("unexpected hint/placeholder %q %q", resolved.Hint, resolved.Placeholder)
	}
	if resolved.InputAttrs["placeholder"] != "Title here" {
		t.Fatalf("placeholder attribute missing: %v", resolved.InputAttrs)
	}

	resolved, _ = merger.Merge(input(testsupport.Post(), "body", "text"))
	if resolved.Hint != "" || resolved.Placeholder != "" {
		t.Fatalf("hints never fall back to the attribute name, got %q %q", resolved.Hint, resolved.Placeholder)
	}

	resolved, _ = merger.Merge(input(testsupport.Post(), "title", "string", form.HintText(form.Suppress())))
	if resolved.Hint != "" {
		t.Fatalf("suppressed hint rendered %q", resolved.Hint)
	}

	md := newMerger(config.New(config.WithHintFormat(config.HintMarkdown)), nil)
	resolved, err = md.Merge(input(testsupport.Post(), "title", "string", form.Hint("Use **bold**")))
	if err != nil {
		t.Fatalf("Merge markdown: %v", err)
	}
	if resolved.Hint != "Use <strong>bold</strong>" {
		t.Fatalf("markdown hint = %q", resolved.Hint)
	}
}

func TestRequiredCascade(t *testing.T) {
	post := testsupport.Post()
	plain := &struct{ Name string }{}

	cases := []struct {
		name   string
		cfg    *config.Config
		object any
		attr   string
		opts   []form.Option
		want   bool
	}{
		{name: "explicit", object: post, attr: "title", opts: []form.Option{form.Required(false)}, want: false},
		{name: "presence rule", object: post, attr: "title", want: true},
		{name: "validated object without rule", object: post, attr: "body", want: false},
		{name: "default", object: plain, attr: "Name", want: true},
		{name: "default disabled", cfg: config.New(config.WithAllFieldsRequiredByDefault(false)), object: plain, attr: "Name", want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			merger := newMerger(tc.cfg, nil)
			got, err := merger.Required(tc.object, tc.attr, form.Collect(tc.opts...))
			if err != nil {
				t.Fatalf("Required: %v", err)
			}
			if got != tc.want {
				t.Fatalf("Required = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestWrapperClassesAndAttrs(t *testing.T) {
	post := testsupport.Post()
	post.Errors.Add("title", "can't be blank")
	post.Errors.Add("category", "must exist")

	merger := newMerger(config.New(config.WithUseRequiredAttribute(true)), nil)
	in := input(post, "title", "string",
		form.WrapperHTML(markup.Attrs{"class": []string{"wide", "input"}, "id": "w"}),
		form.InputHTML(markup.Attrs{"class": "big", "maxlength": 10}),
	)
	resolved, err := merger.Merge(in)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if diff := cmp.Diff([]string{"string", "input", "required", "error", "wide"}, resolved.WrapperClasses); diff != "" {
		t.Fatalf("wrapper classes mismatch (-want +got):\n%s", diff)
	}
	if resolved.WrapperAttrs["id"] != "w" {
		t.Fatalf("wrapper attrs lost: %v", resolved.WrapperAttrs)
	}
	wantAttrs := ` aria-required="true" class="string required big" maxlength="10" required`
	if got := resolved.InputAttrs.String(); got != wantAttrs {
		t.Fatalf("input attrs = %q, want %q", got, wantAttrs)
	}
	if resolved.Marker != `<abbr title="required">*</abbr>` {
		t.Fatalf("marker = %q", resolved.Marker)
	}

	desc := form.Descriptor{Attribute: "category_id", Association: &model.Association{Name: "category", Kind: model.BelongsTo}}
	if diff := cmp.Diff([]string{"must exist"}, cascade.Errors(post, desc)); diff != "" {
		t.Fatalf("association errors mismatch (-want +got):\n%s", diff)
	}
}

func TestCallableMarker(t *testing.T) {
	calls := 0
	cfg := config.New(config.WithRequiredString(func() string {
		calls++
		return "(req)"
	}))
	merger := newMerger(cfg, nil)
	for i := 0; i < 2; i++ {
		resolved, err := merger.Merge(input(testsupport.Post(), "title", "string"))
		if err != nil {
			t.Fatalf("Merge: %v", err)
		}
		if resolved.Marker != "(req)" {
			t.Fatalf("marker = %q", resolved.Marker)
		}
	}
	if calls != 2 {
		t.Fatalf("marker must be evaluated per render, got %d calls", calls)
	}
}
