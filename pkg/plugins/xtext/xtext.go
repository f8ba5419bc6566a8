// Package xtext provides the country and currency helpers behind the
// country and currency inputs, using the CLDR data shipped with
// golang.org/x/text. Country names are localized and collated for the
// requested locale; currencies are labelled with their code and symbol.
package xtext

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/goliatone/go-formbuilder/pkg/form"
	"github.com/goliatone/go-formbuilder/pkg/inputs"
)

// Plugins returns the country and currency providers, leaving time zones to
// the caller.
func Plugins() inputs.Plugins {
	return inputs.Plugins{Countries: Countries{}, Currencies: Currencies{}}
}

var (
	regionsOnce sync.Once
	regions     []language.Region
)

// countryRegions lists every ISO 3166-1 country known to x/text.
func countryRegions() []language.Region {
	regionsOnce.Do(func() {
		for a := 'A'; a <= 'Z'; a++ {
			for b := 'A'; b <= 'Z'; b++ {
				region, err := language.ParseRegion(string([]rune{a, b}))
				if err != nil || !region.IsCountry() || region.Canonicalize() != region {
					continue
				}
				regions = append(regions, region)
			}
		}
	})
	return regions
}

// Countries lists ISO 3166-1 alpha-2 codes labelled in the requested locale.
type Countries struct{}

// Choices implements inputs.ChoiceProvider. Unknown locales fall back to
// English names.
func (Countries) Choices(locale string) ([]form.Choice, error) {
	tag := parseLocale(locale)
	namer := display.Regions(tag)
	fallback := display.Regions(language.English)

	choices := make([]form.Choice, 0, len(countryRegions()))
	for _, region := range countryRegions() {
		name := namer.Name(region)
		if name == "" {
			name = fallback.Name(region)
		}
		if name == "" {
			continue
		}
		choices = append(choices, form.Choice{Label: name, Value: region.String()})
	}

	collator := collate.New(tag, collate.Loose)
	sort.SliceStable(choices, func(i, j int) bool {
		return collator.CompareString(choices[i].Label, choices[j].Label) < 0
	})
	return choices, nil
}

// Currencies lists the ISO 4217 currencies currently tendered somewhere,
// labelled "EUR (€)".
type Currencies struct{}

// Choices implements inputs.ChoiceProvider. The locale does not affect the
// labels.
func (Currencies) Choices(string) ([]form.Choice, error) {
	seen := map[string]struct{}{}
	var choices []form.Choice
	iter := currency.Query()
	for iter.Next() {
		unit := iter.Unit()
		code := unit.String()
		if _, ok := seen[code]; ok || code == "XXX" {
			continue
		}
		seen[code] = struct{}{}
		choices = append(choices, form.Choice{Label: CurrencyLabel(unit), Value: code})
	}
	sort.Slice(choices, func(i, j int) bool { return choices[i].Value < choices[j].Value })
	return choices, nil
}

// CurrencyLabel formats a unit as its code followed by its narrow symbol
// when the symbol differs from the code.
func CurrencyLabel(unit currency.Unit) string {
	code := unit.String()
	symbol := strings.TrimSpace(fmt.Sprint(currency.NarrowSymbol(unit)))
	if symbol == "" || symbol == code {
		return code
	}
	return fmt.Sprintf("%s (%s)", code, symbol)
}

func parseLocale(locale string) language.Tag {
	tag, err := language.Parse(strings.ReplaceAll(strings.TrimSpace(locale), "_", "-"))
	if err != nil {
		return language.English
	}
	return tag
}
