package validation_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/validation"
)

type post struct {
	Title     string
	Published bool
	Status    string
	newRecord bool
	rules     map[string][]validation.Rule
}

func (p *post) ValidationRulesFor(attribute string) []validation.Rule {
	return p.rules[attribute]
}

func (p *post) NewRecord() bool { return p.newRecord }

func TestRequiredConditionalActivation(t *testing.T) {
	reflector := validation.NewReflector()

	cases := []struct {
		name   string
		rule   validation.Rule
		object func(*post)
		want   bool
	}{
		{
			name: "presence without conditions",
			rule: validation.Rule{Kind: validation.Presence},
			want: true,
		},
		{
			name: "if predicate true",
			rule: validation.Rule{Kind: validation.Presence, If: validation.Predicate(func(any) bool { return true })},
			want: true,
		},
		{
			name: "if predicate false",
			rule: validation.Rule{Kind: validation.Presence, If: validation.Predicate(func(any) bool { return false })},
			want: false,
		},
		{
			name: "unless predicate false",
			rule: validation.Rule{Kind: validation.Presence, Unless: validation.Predicate(func(any) bool { return false })},
			want: true,
		},
		{
			name: "unless predicate true",
			rule: validation.Rule{Kind: validation.Presence, Unless: validation.Predicate(func(any) bool { return true })},
			want: false,
		},
		{
			name: "if always unless never",
			rule: validation.Rule{Kind: validation.Presence, If: validation.Always(), Unless: validation.Never()},
			want: true,
		},
		{
			name: "if true unless true applies both",
			rule: validation.Rule{Kind: validation.Presence, If: validation.Always(), Unless: validation.Always()},
			want: false,
		},
		{
			name:   "if expression naming a method",
			rule:   validation.Rule{Kind: validation.Presence, If: validation.Expr("published")},
			object: func(p *post) { p.Published = true },
			want:   true,
		},
		{
			name:   "if expression false",
			rule:   validation.Rule{Kind: validation.Presence, If: validation.Expr(`status == "published"`)},
			object: func(p *post) { p.Status = "draft" },
			want:   false,
		},
		{
			name:   "unless expression true",
			rule:   validation.Rule{Kind: validation.Presence, Unless: validation.Expr(`status == "draft"`)},
			object: func(p *post) { p.Status = "draft" },
			want:   false,
		},
		{
			name: "predicate receives the bound object",
			rule: validation.Rule{Kind: validation.Presence, If: validation.Predicate(func(obj any) bool {
				return obj.(*post).Title == "hello"
			})},
			object: func(p *post) { p.Title = "hello" },
			want:   true,
		},
		{
			name: "inclusion requires",
			rule: validation.Rule{Kind: validation.Inclusion, In: []string{"a", "b"}},
			want: true,
		},
		{
			name: "inclusion allowing blank does not require",
			rule: validation.Rule{Kind: validation.Inclusion, In: []string{"a"}, AllowBlank: true},
			want: false,
		},
		{
			name: "length does not require",
			rule: validation.Rule{Kind: validation.Length, Maximum: validation.Int(10)},
			want: false,
		},
		{
			name:   "create scope on persisted record",
			rule:   validation.Rule{Kind: validation.Presence, On: validation.OnCreate},
			object: func(p *post) { p.newRecord = false },
			want:   false,
		},
		{
			name:   "update scope on persisted record",
			rule:   validation.Rule{Kind: validation.Presence, On: validation.OnUpdate},
			object: func(p *post) { p.newRecord = false },
			want:   true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			obj := &post{newRecord: true, rules: map[string][]validation.Rule{"title": {tc.rule}}}
			if tc.object != nil {
				tc.object(obj)
			}
			got, known, err := reflector.Required(obj, "title")
			if err != nil {
				t.Fatalf("Required returned error: %v", err)
			}
			if !known {
				t.Fatalf("expected rules to be known")
			}
			if got != tc.want {
				t.Fatalf("Required = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRequiredForeignKeySuffix(t *testing.T) {
	obj := &post{rules: map[string][]validation.Rule{
		"author":     {{Kind: validation.Presence}},
		"categories": {{Kind: validation.Presence}},
		"statuses":   {{Kind: validation.Presence}},
	}}
	for _, attribute := range []string{"author_id", "category_ids", "status_ids"} {
		t.Run(attribute, func(t *testing.T) {
			required, known, err := validation.NewReflector().Required(obj, attribute)
			if err != nil {
				t.Fatalf("Required returned error: %v", err)
			}
			if !known || !required {
				t.Fatalf("expected %s to be required through its association rule, got required=%v known=%v", attribute, required, known)
			}
		})
	}
}

func TestRequiredUnknownWithoutProvider(t *testing.T) {
	reflector := validation.NewReflector()

	_, known, err := reflector.Required(struct{ Title string }{}, "title")
	if err != nil || known {
		t.Fatalf("expected unknown without provider, got known=%v err=%v", known, err)
	}
	if got := reflector.RulesFor(struct{}{}, "title"); len(got) != 0 {
		t.Fatalf("expected no rules, got %d", len(got))
	}

	required, known, _ := reflector.Required(&post{}, "title")
	if !known || required {
		t.Fatalf("validated objects make unruled attributes optional, got required=%v known=%v", required, known)
	}
}

func TestRequiredPropagatesExpressionErrors(t *testing.T) {
	obj := &post{rules: map[string][]validation.Rule{
		"title": {{Kind: validation.Presence, If: validation.Expr("status = draft")}},
	}}
	if _, _, err := validation.NewReflector().Required(obj, "title"); err == nil {
		t.Fatalf("expected malformed expression to fail")
	}
}

func TestMaxLength(t *testing.T) {
	reflector := validation.NewReflector()

	cases := []struct {
		name  string
		rules []validation.Rule
		want  int
	}{
		{name: "no rule falls back", want: 255},
		{name: "maximum", rules: []validation.Rule{{Kind: validation.Length, Maximum: validation.Int(40)}}, want: 40},
		{name: "within", rules: []validation.Rule{{Kind: validation.Length, Within: &validation.Bounds{Min: 2, Max: 12}}}, want: 12},
		{
			name: "inactive rule skipped",
			rules: []validation.Rule{
				{Kind: validation.Length, Maximum: validation.Int(5), If: validation.Never()},
				{Kind: validation.Length, Maximum: validation.Int(9)},
			},
			want: 9,
		},
		{name: "minimum only falls back", rules: []validation.Rule{{Kind: validation.Length, Minimum: validation.Int(3)}}, want: 255},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			obj := &post{rules: map[string][]validation.Rule{"title": tc.rules}}
			got, err := reflector.MaxLength(obj, "title", 255)
			if err != nil {
				t.Fatalf("MaxLength returned error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("MaxLength = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestNumericRange(t *testing.T) {
	reflector := validation.NewReflector()

	cases := []struct {
		name    string
		rules   []validation.Rule
		integer bool
		want    validation.Range
	}{
		{name: "no rule integer", integer: true, want: validation.Range{Step: "1"}},
		{name: "no rule decimal", want: validation.Range{Step: "any"}},
		{
			name:    "inclusive bounds",
			integer: true,
			rules: []validation.Rule{{
				Kind:                 validation.Numericality,
				GreaterThanOrEqualTo: validation.Float(1),
				LessThanOrEqualTo:    validation.Float(10),
			}},
			want: validation.Range{Min: validation.Float(1), Max: validation.Float(10), Step: "1"},
		},
		{
			name:    "exclusive integer bounds adjusted",
			integer: true,
			rules: []validation.Rule{{
				Kind:        validation.Numericality,
				GreaterThan: validation.Float(0),
				LessThan:    validation.Float(100),
			}},
			want: validation.Range{Min: validation.Float(1), Max: validation.Float(99), Step: "1"},
		},
		{
			name: "only integer on decimal column",
			rules: []validation.Rule{{
				Kind:        validation.Numericality,
				GreaterThan: validation.Float(0),
				OnlyInteger: true,
			}},
			want: validation.Range{Min: validation.Float(1), Step: "1"},
		},
		{
			name: "exclusive decimal bounds kept",
			rules: []validation.Rule{{
				Kind:        validation.Numericality,
				GreaterThan: validation.Float(0.5),
			}},
			want: validation.Range{Min: validation.Float(0.5), Step: "any"},
		},
		{
			name: "explicit step",
			rules: []validation.Rule{{
				Kind:     validation.Numericality,
				LessThan: validation.Float(5),
				Step:     "0.25",
			}},
			want: validation.Range{Max: validation.Float(5), Step: "0.25"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			obj := &post{rules: map[string][]validation.Rule{"score": tc.rules}}
			got, err := reflector.NumericRange(obj, "score", tc.integer)
			if err != nil {
				t.Fatalf("NumericRange returned error: %v", err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("range mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
