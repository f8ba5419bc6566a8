package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/pflag"

	"github.com/goliatone/go-formbuilder/pkg/config"
	"github.com/goliatone/go-formbuilder/pkg/render"
)

func TestDefaults(t *testing.T) {
	cfg := config.New()

	if !cfg.AllFieldsRequiredByDefault() || !cfg.IncludeBlankByDefault() {
		t.Fatalf("unexpected boolean defaults")
	}
	if cfg.InlineErrors() != config.InlineSentence {
		t.Fatalf("inline errors = %q", cfg.InlineErrors())
	}
	if diff := cmp.Diff([]string{"input", "hint", "errors"}, cfg.InlineOrder()); diff != "" {
		t.Fatalf("inline order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"year", "month", "day"}, cfg.DateOrder()); diff != "" {
		t.Fatalf("date order mismatch (-want +got):\n%s", diff)
	}
	if cfg.CachePolicy() != render.CacheForever {
		t.Fatalf("cache policy = %v", cfg.CachePolicy())
	}
	if cfg.RequiredString() != `<abbr title="required">*</abbr>` {
		t.Fatalf("required string = %q", cfg.RequiredString())
	}
}

func TestWithOverridesPerKey(t *testing.T) {
	base := config.New(
		config.WithDefaultTextAreaRows(8),
		config.WithInlineErrors(config.InlineList),
		config.WithPriorityCountries("US", "CA"),
	)
	derived := base.With(config.WithInlineErrors(config.InlineFirst))

	if derived.InlineErrors() != config.InlineFirst {
		t.Fatalf("derived inline errors = %q", derived.InlineErrors())
	}
	if derived.DefaultTextAreaRows() != 8 {
		t.Fatalf("expected untouched key to be inherited, got %d", derived.DefaultTextAreaRows())
	}
	if base.InlineErrors() != config.InlineList {
		t.Fatalf("base must not change, got %q", base.InlineErrors())
	}

	countries := derived.PriorityCountries()
	countries[0] = "XX"
	if diff := cmp.Diff([]string{"US", "CA"}, base.PriorityCountries()); diff != "" {
		t.Fatalf("accessors must return copies (-want +got):\n%s", diff)
	}
}

func TestOptionsIgnoreInvalidValues(t *testing.T) {
	cfg := config.New(
		config.WithInlineErrors("loud"),
		config.WithInlineOrder("errors", "bogus", "input", "errors"),
		config.WithDefaultTextFieldSize(-3),
		config.WithFileMarkers(" ", ""),
	)
	if cfg.InlineErrors() != config.InlineSentence {
		t.Fatalf("unknown mode should be ignored, got %q", cfg.InlineErrors())
	}
	if diff := cmp.Diff([]string{"errors", "input"}, cfg.InlineOrder()); diff != "" {
		t.Fatalf("inline order mismatch (-want +got):\n%s", diff)
	}
	if cfg.DefaultTextFieldSize() != 0 {
		t.Fatalf("negative size should clamp to zero")
	}
	if len(cfg.FileMarkers()) != 3 {
		t.Fatalf("blank markers should keep defaults, got %v", cfg.FileMarkers())
	}
}

func TestCallableMarker(t *testing.T) {
	calls := 0
	cfg := config.New(config.WithRequiredString(func() string {
		calls++
		return "(req)"
	}))
	if cfg.RequiredString() != "(req)" || cfg.RequiredString() != "(req)" {
		t.Fatalf("unexpected marker")
	}
	if calls != 2 {
		t.Fatalf("marker should be evaluated per call, got %d", calls)
	}
}

func TestLoaderFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "formbuilder.yaml")
	content := []byte(`inline_errors: list
default_text_area_rows: 5
date_order: [day, month, year]
priority_countries: [GB]
cache_policy: until-reset
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("FBTEST__DEFAULT_TEXT_AREA_ROWS", "12")
	t.Setenv("FBTEST__USE_REQUIRED_ATTRIBUTE", "true")

	marker := func() string { return "!" }
	base := config.New(config.WithRequiredString(marker), config.WithDefaultTextFieldSize(30))

	cfg, err := config.NewLoader("FBTEST").Load(base, path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.InlineErrors() != config.InlineList {
		t.Fatalf("inline errors = %q", cfg.InlineErrors())
	}
	if cfg.DefaultTextAreaRows() != 12 {
		t.Fatalf("env should win over file, got %d", cfg.DefaultTextAreaRows())
	}
	if !cfg.UseRequiredAttribute() {
		t.Fatalf("expected env bool to apply")
	}
	if cfg.DefaultTextFieldSize() != 30 {
		t.Fatalf("expected base value to survive, got %d", cfg.DefaultTextFieldSize())
	}
	if cfg.RequiredString() != "!" {
		t.Fatalf("expected callable marker to survive, got %q", cfg.RequiredString())
	}
	if diff := cmp.Diff([]string{"day", "month", "year"}, cfg.DateOrder()); diff != "" {
		t.Fatalf("date order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"GB"}, cfg.PriorityCountries()); diff != "" {
		t.Fatalf("countries mismatch (-want +got):\n%s", diff)
	}
	if cfg.CachePolicy() != render.CacheUntilReset {
		t.Fatalf("cache policy = %v", cfg.CachePolicy())
	}
}

func TestLoaderRejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("inline_errors: shouty\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := config.NewLoader("FBBAD").Load(nil, path); err == nil {
		t.Fatalf("expected invalid inline_errors to fail")
	}
	if _, err := config.NewLoader("FBBAD").Load(nil, filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatalf("expected missing file to fail")
	}
}

func TestLoaderFlags(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("inline-errors", "", "")
	flags.String("locale", "", "")
	if err := flags.Parse([]string{"--inline-errors=none"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	loader := config.NewLoader("FBFLAGS")
	if _, err := loader.Load(nil, ""); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := loader.LoadFlags(flags, map[string]string{
		"inline-errors": "inline_errors",
		"locale":        "locale",
	}); err != nil {
		t.Fatalf("LoadFlags: %v", err)
	}
	cfg, err := loader.Build(nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if cfg.InlineErrors() != config.InlineNone {
		t.Fatalf("inline errors = %q", cfg.InlineErrors())
	}
	if cfg.Locale() != "en" {
		t.Fatalf("unset flag must not override locale, got %q", cfg.Locale())
	}
}
