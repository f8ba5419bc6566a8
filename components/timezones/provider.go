package timezones

import (
	"fmt"
	"sort"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/goliatone/go-formbuilder/pkg/form"
)

// Provider lists time zones for the time_zone input. It implements
// inputs.ChoiceProvider.
type Provider struct {
	zones []string
	now   func() time.Time
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithProviderZones replaces the embedded zone list.
func WithProviderZones(zones []string) ProviderOption {
	return func(p *Provider) { p.zones = append([]string(nil), zones...) }
}

// WithClock sets the instant offsets are computed at.
func WithClock(now func() time.Time) ProviderOption {
	return func(p *Provider) {
		if now != nil {
			p.now = now
		}
	}
}

// NewProvider builds a provider over the embedded list.
func NewProvider(opts ...ProviderOption) *Provider {
	p := &Provider{now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

type labelled struct {
	zone   string
	offset int
}

// Choices returns every zone labelled "(UTC+01:00) Europe/Paris", ordered
// by offset then name. Zone names are not localized.
func (p *Provider) Choices(string) ([]form.Choice, error) {
	zones := p.zones
	if zones == nil {
		var err error
		if zones, err = DefaultZones(); err != nil {
			return nil, err
		}
	}
	at := p.now()
	items := make([]labelled, 0, len(zones))
	for _, zone := range zones {
		loc, err := time.LoadLocation(zone)
		if err != nil {
			return nil, fmt.Errorf("timezones: %w", err)
		}
		_, offset := at.In(loc).Zone()
		items = append(items, labelled{zone: zone, offset: offset})
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].offset != items[j].offset {
			return items[i].offset < items[j].offset
		}
		return items[i].zone < items[j].zone
	})

	choices := make([]form.Choice, len(items))
	for i, item := range items {
		choices[i] = form.Choice{Label: Label(item.zone, item.offset), Value: item.zone}
	}
	return choices, nil
}

// Label formats a zone and its offset in seconds.
func Label(zone string, offset int) string {
	sign := "+"
	if offset < 0 {
		sign = "-"
		offset = -offset
	}
	name := strings.ReplaceAll(zone, "_", " ")
	return fmt.Sprintf("(UTC%s%02d:%02d) %s", sign, offset/3600, offset%3600/60, name)
}
