package xtext_test

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/text/currency"

	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/form"
	"github.com/goliatone/go-formbuilder/pkg/inputs"
	"github.com/goliatone/go-formbuilder/pkg/plugins/xtext"
	"github.com/goliatone/go-formbuilder/pkg/testsupport"
)

func find(choices []form.Choice, value string) (form.Choice, bool) {
	for _, choice := range choices {
		if choice.Value == value {
			return choice, true
		}
	}
	return form.Choice{}, false
}

func TestCountriesAreLocalized(t *testing.T) {
	tests := []struct {
		locale string
		want   string
	}{
		{"en", "Germany"},
		{"de", "Deutschland"},
		{"fr_FR", "Allemagne"},
		{"not a locale!", "Germany"},
	}
	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			choices, err := xtext.Countries{}.Choices(tt.locale)
			if err != nil {
				t.Fatalf("choices: %v", err)
			}
			if len(choices) < 200 {
				t.Fatalf("expected the full country list, got %d", len(choices))
			}
			germany, ok := find(choices, "DE")
			if !ok || germany.Label != tt.want {
				t.Fatalf("expected DE labelled %q, got %#v", tt.want, germany)
			}
			if _, ok := find(choices, "EU"); ok {
				t.Fatalf("expected groupings to be excluded")
			}
		})
	}
}

func TestCountriesSortedByLabel(t *testing.T) {
	choices, err := xtext.Countries{}.Choices("en")
	if err != nil {
		t.Fatalf("choices: %v", err)
	}
	if choices[0].Label != "Afghanistan" {
		t.Fatalf("expected Afghanistan first, got %q", choices[0].Label)
	}
}

func TestCurrencies(t *testing.T) {
	choices, err := xtext.Currencies{}.Choices("en")
	if err != nil {
		t.Fatalf("choices: %v", err)
	}
	for value, label := range map[string]string{"EUR": "EUR (€)", "USD": "USD ($)"} {
		choice, ok := find(choices, value)
		if !ok || choice.Label != label {
			t.Fatalf("expected %s labelled %q, got %#v", value, label, choice)
		}
	}
	for i := 1; i < len(choices); i++ {
		if choices[i-1].Value >= choices[i].Value {
			t.Fatalf("expected unique codes in order, got %q then %q", choices[i-1].Value, choices[i].Value)
		}
	}
	if got := xtext.CurrencyLabel(currency.CHF); !strings.HasPrefix(got, "CHF") {
		t.Fatalf("unexpected CHF label %q", got)
	}
}

func TestBuilderCountryInput(t *testing.T) {
	post := testsupport.Post()

	bare, err := builder.NewEnvironment()
	if err != nil {
		t.Fatalf("environment: %v", err)
	}
	if _, err := builder.New(bare, post).Input("title", form.As("country")); !errors.Is(err, inputs.ErrMissingCollaborator) {
		t.Fatalf("expected a missing collaborator error, got %v", err)
	}

	env, err := builder.NewEnvironment(builder.WithPlugins(xtext.Plugins()))
	if err != nil {
		t.Fatalf("environment: %v", err)
	}
	html, err := builder.New(env, post).Input("title", form.As("country"))
	if err != nil {
		t.Fatalf("input: %v", err)
	}
	if !strings.Contains(string(html), `value="DE">Germany</option>`) {
		t.Fatalf("expected Germany option in:\n%s", html)
	}
}
