package form_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/form"
	"github.com/goliatone/go-formbuilder/pkg/markup"
)

func TestTextModes(t *testing.T) {
	if !(form.Text{}).IsDefault() {
		t.Fatalf("zero Text must defer to the cascade")
	}
	if text := form.Literal("Title"); !text.IsLiteral() || text.Value() != "Title" {
		t.Fatalf("unexpected literal %+v", text)
	}
	key := form.Key(" labels.custom ", map[string]any{"n": 1})
	if !key.IsKey() || key.Value() != "labels.custom" || key.Args()["n"] != 1 {
		t.Fatalf("unexpected key %+v", key)
	}
	if !form.Suppress().Suppressed() || !form.Lookup().ForcesLookup() {
		t.Fatalf("unexpected mode predicates")
	}
}

func TestOptionsDoNotAlias(t *testing.T) {
	base := form.Collect(form.Discard("day"), form.PartLabel("year", form.Literal("Y")), form.Disabled(1))
	derived := base.Apply(form.Discard("second"), form.PartLabel("month", form.Suppress()), form.Disabled(2))

	if diff := cmp.Diff(map[string]bool{"day": true}, base.Discard); diff != "" {
		t.Fatalf("base discard mutated (-want +got):\n%s", diff)
	}
	if len(base.PartLabels) != 1 || len(derived.PartLabels) != 2 {
		t.Fatalf("part labels aliased: base=%d derived=%d", len(base.PartLabels), len(derived.PartLabels))
	}
	if diff := cmp.Diff([]string{"1"}, base.Disabled); diff != "" {
		t.Fatalf("base disabled mutated (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"1", "2"}, derived.Disabled); diff != "" {
		t.Fatalf("derived disabled mismatch (-want +got):\n%s", diff)
	}
}

func TestOptionHelpers(t *testing.T) {
	opts := form.Collect(
		form.As(" select "),
		form.Required(true),
		form.IncludeBlank(false),
		form.GroupBy("Group", "Name"),
		form.Range(1, 5),
		form.Step("0.5"),
		form.Value(nil),
		form.WrapperClass("wide"),
		form.InputHTML(markup.Attrs{"class": "control", "data": map[string]any{"x": 1}}),
		form.InputHTML(markup.Attrs{"class": "extra"}),
	)
	if opts.As != "select" || opts.Required == nil || !*opts.Required {
		t.Fatalf("unexpected options %+v", opts)
	}
	if opts.IncludeBlank == nil || *opts.IncludeBlank {
		t.Fatalf("include blank not recorded")
	}
	if opts.GroupBy != "Group" || opts.GroupLabel != "Name" {
		t.Fatalf("group options = %q/%q", opts.GroupBy, opts.GroupLabel)
	}
	if *opts.Min != 1 || *opts.Max != 5 || opts.Step != "0.5" {
		t.Fatalf("numeric options not recorded")
	}
	if !opts.HasValue {
		t.Fatalf("explicit nil value must be recorded")
	}
	if diff := cmp.Diff([]string{"control", "extra"}, markup.Classes(opts.InputHTML["class"])); diff != "" {
		t.Fatalf("input classes mismatch (-want +got):\n%s", diff)
	}
}
