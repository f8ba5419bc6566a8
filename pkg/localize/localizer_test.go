package localize_test

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/localize"
)

func TestLocalizerCacheIsStaleUntilCleared(t *testing.T) {
	catalog := localize.NewCatalog()
	catalog.Set("en", "formbuilder.labels.post.title", "I18n title")

	localizer := localize.New(catalog)
	scope := localize.Scope{Type: localize.Labels, Model: "post", Attribute: "title"}

	got, ok := localizer.Lookup("en", scope)
	if !ok || got != "I18n title" {
		t.Fatalf("first lookup = %q, %v", got, ok)
	}

	catalog.Set("en", "formbuilder.labels.post.title", "Changed title")
	got, ok = localizer.Lookup("en", scope)
	if !ok || got != "I18n title" {
		t.Fatalf("expected cached value before Clear, got %q, %v", got, ok)
	}

	localizer.Clear()
	got, ok = localizer.Lookup("en", scope)
	if !ok || got != "Changed title" {
		t.Fatalf("expected fresh value after Clear, got %q, %v", got, ok)
	}
}

func TestLocalizerWithoutCacheSeesChanges(t *testing.T) {
	catalog := localize.NewCatalog()
	catalog.Set("en", "formbuilder.labels.post.title", "One")

	localizer := localize.New(catalog, localize.WithCache(false))
	scope := localize.Scope{Type: localize.Labels, Model: "post", Attribute: "title"}
	if got, _ := localizer.Lookup("en", scope); got != "One" {
		t.Fatalf("lookup = %q", got)
	}
	catalog.Set("en", "formbuilder.labels.post.title", "Two")
	if got, _ := localizer.Lookup("en", scope); got != "Two" {
		t.Fatalf("expected uncached lookup to observe change, got %q", got)
	}
	if localizer.Len() != 0 {
		t.Fatalf("expected no cached entries")
	}
}

func TestScopeKeysOrder(t *testing.T) {
	scope := localize.Scope{Type: localize.Hints, Model: "post", Nested: "author", Action: "edit", Attribute: "name"}
	want := []string{
		"hints.post.author.edit.name",
		"hints.post.author.name",
		"hints.post.edit.name",
		"hints.post.name",
		"hints.name",
	}
	if diff := cmp.Diff(want, scope.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}

	short := localize.Scope{Type: localize.Labels, Attribute: "title"}
	if diff := cmp.Diff([]string{"labels.title"}, short.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
}

func TestLocalizerPrefersSpecificScope(t *testing.T) {
	catalog := localize.NewCatalog()
	catalog.Set("en", "formbuilder.labels.title", "Generic")
	catalog.Set("en", "formbuilder.labels.post.edit.title", "Edit headline")

	localizer := localize.New(catalog)
	got, _ := localizer.Lookup("en", localize.Scope{Type: localize.Labels, Model: "post", Action: "edit", Attribute: "title"})
	if got != "Edit headline" {
		t.Fatalf("lookup = %q", got)
	}
	got, _ = localizer.Lookup("en", localize.Scope{Type: localize.Labels, Model: "post", Action: "new", Attribute: "title"})
	if got != "Generic" {
		t.Fatalf("lookup = %q", got)
	}
}

func TestLocalizerDefaultsAndInterpolation(t *testing.T) {
	localizer := localize.New(nil)

	got, ok := localizer.Translate("de", "create", map[string]any{"model": "Post"})
	if !ok || got != "Create Post" {
		t.Fatalf("expected bundled default, got %q, %v", got, ok)
	}
	if got, _ := localizer.Translate("en", "datetime.prompts.minute", nil); got != "Minute" {
		t.Fatalf("prompt = %q", got)
	}
	if got, _ := localizer.Translate("en", "months.3", nil); got != "March" {
		t.Fatalf("month = %q", got)
	}

	// Interpolation happens after the cache so arguments can vary per call.
	if got, _ := localizer.Translate("de", "create", map[string]any{"model": "Page"}); got != "Create Page" {
		t.Fatalf("second interpolation = %q", got)
	}

	disabled := localize.New(nil, localize.WithFallback(nil))
	if _, ok := disabled.Translate("en", "yes", nil); ok {
		t.Fatalf("expected defaults to be disabled")
	}
}

func TestLocalizerCustomRoot(t *testing.T) {
	catalog := localize.NewCatalog()
	catalog.Set("en", "forms.labels.title", "Title!")
	localizer := localize.New(catalog, localize.WithRoot("forms."))
	if got, _ := localizer.Lookup("en", localize.Scope{Type: localize.Labels, Attribute: "title"}); got != "Title!" {
		t.Fatalf("lookup = %q", got)
	}
	if got, _ := localizer.Translate("en", "yes", nil); got != "Yes" {
		t.Fatalf("defaults should still resolve under the bundled root, got %q", got)
	}
}

func TestLocalizerTranslateKey(t *testing.T) {
	catalog := localize.NewCatalog()
	catalog.Set("en", "custom.title_label", "Hello %{name}")
	localizer := localize.New(catalog)
	got, ok := localizer.TranslateKey("en", "custom.title_label", map[string]any{"name": "Ada"})
	if !ok || got != "Hello Ada" {
		t.Fatalf("TranslateKey = %q, %v", got, ok)
	}
	if _, ok := localizer.TranslateKey("en", "yes", nil); ok {
		t.Fatalf("explicit keys must not use defaults")
	}
}

func TestCatalogLoadYAML(t *testing.T) {
	catalog := localize.NewCatalog()
	err := catalog.LoadFS(fstest.MapFS{
		"en.yml":    {Data: []byte("en:\n  formbuilder:\n    labels:\n      post:\n        title: Headline\n        count: 3\n")},
		"fr.yaml":   {Data: []byte("fr:\n  formbuilder:\n    \"yes\": Oui\n")},
		"notes.txt": {Data: []byte("ignored")},
	})
	if err != nil {
		t.Fatalf("LoadFS: %v", err)
	}
	if got, _ := catalog.Translate("en", "formbuilder.labels.post.title"); got != "Headline" {
		t.Fatalf("title = %q", got)
	}
	if got, _ := catalog.Translate("en", "formbuilder.labels.post.count"); got != "3" {
		t.Fatalf("count = %q", got)
	}
	if got, _ := catalog.Translate("fr", "formbuilder.yes"); got != "Oui" {
		t.Fatalf("yes = %q", got)
	}
	if diff := cmp.Diff([]string{"en", "fr"}, catalog.Locales()); diff != "" {
		t.Fatalf("locales mismatch (-want +got):\n%s", diff)
	}
	if _, err := catalog.Translate("en", "missing"); !errors.Is(err, localize.ErrMissingTranslation) {
		t.Fatalf("expected ErrMissingTranslation, got %v", err)
	}

	if err := catalog.LoadYAML([]byte("en: [1, 2]")); err == nil {
		t.Fatalf("expected non-mapping locale to fail")
	}
}

func TestInterpolateLeavesUnknownPlaceholders(t *testing.T) {
	got := localize.Interpolate("%{a} and %{b}", map[string]any{"a": 1})
	if got != "1 and %{b}" {
		t.Fatalf("Interpolate = %q", got)
	}
}
