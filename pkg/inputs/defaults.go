package inputs

import (
	"github.com/goliatone/go-formbuilder/pkg/inference"
	"github.com/goliatone/go-formbuilder/pkg/render"
)

// Defaults returns a namespace holding every built-in input renderer. Each
// call builds a fresh namespace.
func Defaults() *render.MapNamespace[Renderer] {
	ns := render.NewMapNamespace[Renderer]("defaults")
	for tag, renderer := range builtins() {
		ns.MustRegister(tag, renderer)
	}
	return ns
}

func builtins() map[string]Renderer {
	return map[string]Renderer{
		inference.TagString:   TextField{Type: "text", Sized: true},
		inference.TagPassword: TextField{Type: "password", Sized: true, HideValue: true},
		inference.TagEmail:    TextField{Type: "email", Sized: true},
		inference.TagURL:      TextField{Type: "url", Sized: true},
		inference.TagPhone:    TextField{Type: "tel", Sized: true},
		inference.TagSearch:   TextField{Type: "search", Sized: true},
		inference.TagColor:    TextField{Type: "color"},

		inference.TagNumber:  Number{},
		inference.TagText:    TextArea{},
		inference.TagBoolean: Boolean{},
		inference.TagHidden:  Hidden{},
		inference.TagFile:    File{},

		inference.TagSelect:     Select{},
		inference.TagRadio:      Radio{},
		inference.TagCheckBoxes: CheckBoxes{},

		inference.TagDateSelect:     Fragments{Date: true},
		inference.TagTimeSelect:     Fragments{Time: true},
		inference.TagDatetimeSelect: Fragments{Date: true, Time: true},

		inference.TagDatePicker:     Picker{Type: "date", Layout: "2006-01-02"},
		inference.TagTimePicker:     Picker{Type: "time", Layout: "15:04"},
		inference.TagDatetimePicker: Picker{Type: "datetime-local", Layout: "2006-01-02T15:04"},

		inference.TagCountry: Helper{
			Tag:        inference.TagCountry,
			Capability: CapabilityCountries,
			Provider:   func(p Plugins) ChoiceProvider { return p.Countries },
			Priority:   func(field Field) []string { return field.Services.config().PriorityCountries() },
		},
		inference.TagCurrency: Helper{
			Tag:        inference.TagCurrency,
			Capability: CapabilityCurrencies,
			Provider:   func(p Plugins) ChoiceProvider { return p.Currencies },
		},
		inference.TagTimeZone: Helper{
			Tag:        inference.TagTimeZone,
			Capability: CapabilityTimeZones,
			Provider:   func(p Plugins) ChoiceProvider { return p.TimeZones },
			Priority:   func(field Field) []string { return field.Services.config().PriorityTimeZones() },
		},
	}
}
