package inputs

import (
	"fmt"
	"time"

	"github.com/goliatone/go-formbuilder/pkg/form"
	"github.com/goliatone/go-formbuilder/pkg/markup"
)

// Date and time parts. Each submits as attribute(Ni).
const (
	PartYear   = "year"
	PartMonth  = "month"
	PartDay    = "day"
	PartHour   = "hour"
	PartMinute = "minute"
	PartSecond = "second"
)

var partIndex = map[string]int{
	PartYear:   1,
	PartMonth:  2,
	PartDay:    3,
	PartHour:   4,
	PartMinute: 5,
	PartSecond: 6,
}

// PartSuffix returns the param suffix of part, e.g. "1i" for year.
func PartSuffix(part string) string {
	return fmt.Sprintf("%di", partIndex[part])
}

// Fragments renders multi-select date, time and datetime inputs. Date and
// Time select which default orders apply.
type Fragments struct {
	Date bool
	Time bool
	// YearsAround is how many years before and after the current value (or
	// today) the year select spans.
	YearsAround int
}

// Render implements Renderer.
func (f Fragments) Render(field Field) (Parts, error) {
	order := f.order(field)
	value, hasValue := TimeValue(field.Value)
	reference := value
	if !hasValue {
		reference = field.Services.now()
	}

	seen := make(map[string]bool, len(order))
	var fragments []markup.HTML
	first := ""
	for _, part := range order {
		if _, known := partIndex[part]; !known {
			return Parts{}, fmt.Errorf("inputs: unknown date part %q for %q", part, field.Descriptor.Attribute)
		}
		if seen[part] {
			continue
		}
		seen[part] = true
		if field.Options.Discard[part] {
			continue
		}
		id := field.ID(PartSuffix(part))
		if first == "" {
			first = id
		}
		fragments = append(fragments, f.fragment(field, part, id, value, hasValue, reference))
	}

	// Discarded parts and the date of a time-only select still submit, so
	// the attribute can be reassembled.
	var hidden []markup.HTML
	for _, part := range []string{PartYear, PartMonth, PartDay, PartHour, PartMinute, PartSecond} {
		discarded := field.Options.Discard[part] && seen[part]
		implied := !f.Date && isDatePart(part) && hasValue
		if !discarded && !implied {
			continue
		}
		hidden = append(hidden, markup.Void("input", markup.Attrs{
			"type":  "hidden",
			"id":    field.ID(PartSuffix(part)),
			"name":  field.context().InputName(field.Descriptor.InputAttribute()+"("+PartSuffix(part)+")", false),
			"value": partValue(part, reference),
		}))
	}

	control := markup.Join(markup.Join(hidden...), markup.Join(fragments...))
	return DefaultParts(field, first, control), nil
}

func (f Fragments) order(field Field) []string {
	if len(field.Options.Order) > 0 {
		return field.Options.Order
	}
	cfg := field.Services.config()
	var order []string
	if f.Date {
		order = append(order, cfg.DateOrder()...)
	}
	if f.Time {
		order = append(order, cfg.TimeOrder()...)
	}
	return order
}

func isDatePart(part string) bool {
	return part == PartYear || part == PartMonth || part == PartDay
}

func (f Fragments) fragment(field Field, part, id string, value time.Time, hasValue bool, reference time.Time) markup.HTML {
	attrs := field.Resolved.InputAttrs.Clone()
	delete(attrs, "placeholder")
	attrs["id"] = id
	attrs["name"] = field.context().InputName(field.Descriptor.InputAttribute()+"("+PartSuffix(part)+")", false)
	attrs["class"] = markup.Classes(attrs["class"], part)

	var options []markup.HTML
	if !hasValue {
		options = append(options, markup.Tag("option", markup.Attrs{"value": ""}, ""))
	}
	current := ""
	if hasValue {
		current = partValue(part, value)
	}
	for _, opt := range f.partOptions(field, part, reference) {
		optAttrs := markup.Attrs{"value": opt.Value}
		if opt.Value == current {
			optAttrs["selected"] = true
		}
		options = append(options, markup.Tag("option", optAttrs, markup.Escape(opt.Label)))
	}

	return markup.Join(
		partLabel(field, part, id),
		markup.Tag("select", attrs, markup.Join(options...)),
	)
}

func partLabel(field Field, part, id string) markup.HTML {
	text, explicit := field.Options.PartLabels[part]
	var label string
	switch {
	case explicit && text.Suppressed():
		return ""
	case explicit && text.IsLiteral():
		label = text.Value()
	case explicit && text.IsKey():
		label, _ = field.Services.translate(text.Value(), text.Args())
	}
	if label == "" {
		var ok bool
		if label, ok = field.Services.translate("datetime.prompts."+part, nil); !ok {
			label = part
		}
	}
	return markup.Tag("label", markup.Attrs{"for": id, "class": "fragment"}, markup.Escape(label))
}

func (f Fragments) partOptions(field Field, part string, reference time.Time) []form.Choice {
	span := f.YearsAround
	if span <= 0 {
		span = 5
	}
	var out []form.Choice
	switch part {
	case PartYear:
		for year := reference.Year() - span; year <= reference.Year()+span; year++ {
			out = append(out, form.Choice{Label: itoa(year), Value: itoa(year)})
		}
	case PartMonth:
		for month := 1; month <= 12; month++ {
			label, ok := field.Services.translate("months."+itoa(month), nil)
			if !ok {
				label = time.Month(month).String()
			}
			out = append(out, form.Choice{Label: label, Value: itoa(month)})
		}
	case PartDay:
		out = numbered(1, 31, false)
	case PartHour:
		out = numbered(0, 23, true)
	case PartMinute, PartSecond:
		out = numbered(0, 59, true)
	}
	return out
}

func numbered(from, to int, padded bool) []form.Choice {
	out := make([]form.Choice, 0, to-from+1)
	for n := from; n <= to; n++ {
		label := itoa(n)
		if padded {
			label = fmt.Sprintf("%02d", n)
		}
		out = append(out, form.Choice{Label: label, Value: itoa(n)})
	}
	return out
}

func partValue(part string, value time.Time) string {
	switch part {
	case PartYear:
		return itoa(value.Year())
	case PartMonth:
		return itoa(int(value.Month()))
	case PartDay:
		return itoa(value.Day())
	case PartHour:
		return itoa(value.Hour())
	case PartMinute:
		return itoa(value.Minute())
	default:
		return itoa(value.Second())
	}
}
