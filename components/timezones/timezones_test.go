package timezones

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/form"
)

func TestLoadZonesDedupesSortsAndIgnoresComments(t *testing.T) {
	zones, err := LoadZones(strings.NewReader(`
# Comment
America/New_York
Europe/Paris
America/New_York

UTC
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff([]string{"America/New_York", "Europe/Paris", "UTC"}, zones); diff != "" {
		t.Fatalf("zones mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultZonesContainsCommonEntries(t *testing.T) {
	zones, err := DefaultZones()
	if err != nil {
		t.Fatalf("default zones: %v", err)
	}
	if len(zones) < 200 {
		t.Fatalf("expected a reasonably sized list, got %d", len(zones))
	}
	for _, want := range []string{"America/New_York", "Europe/Paris", "UTC"} {
		found := false
		for _, zone := range zones {
			found = found || zone == want
		}
		if !found {
			t.Fatalf("expected %q in the list", want)
		}
	}
}

func TestSearch(t *testing.T) {
	tests := []struct {
		name       string
		zones      []string
		query      string
		limit      int
		topOnEmpty bool
		want       []string
	}{
		{"case insensitive", []string{"Europe/Paris", "America/New_York", "UTC"}, "eUrOpE/p", 10, false, []string{"Europe/Paris"}},
		{"prefix first", []string{"x/a/b", "a/b", "a/b/c", "c/d"}, "a/b", 10, false, []string{"a/b", "a/b/c", "x/a/b"}},
		{"limit", []string{"a/b", "a/c", "a/d"}, "a/", 2, false, []string{"a/b", "a/c"}},
		{"empty query", []string{"a", "b"}, "", 10, false, nil},
		{"empty query top", []string{"a", "b", "c"}, " ", 2, true, []string{"a", "b"}},
		{"zero limit", []string{"a"}, "a", 0, true, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Search(tt.zones, tt.query, tt.limit, tt.topOnEmpty)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("search mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestProviderChoicesOrderedByOffset(t *testing.T) {
	winter := time.Date(2024, time.January, 15, 12, 0, 0, 0, time.UTC)
	provider := NewProvider(
		WithProviderZones([]string{"Europe/Paris", "UTC", "America/New_York", "Asia/Kolkata"}),
		WithClock(func() time.Time { return winter }),
	)

	got, err := provider.Choices("en")
	if err != nil {
		t.Fatalf("choices: %v", err)
	}
	want := []form.Choice{
		{Label: "(UTC-05:00) America/New York", Value: "America/New_York"},
		{Label: "(UTC+00:00) UTC", Value: "UTC"},
		{Label: "(UTC+01:00) Europe/Paris", Value: "Europe/Paris"},
		{Label: "(UTC+05:30) Asia/Kolkata", Value: "Asia/Kolkata"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("choices mismatch (-want +got):\n%s", diff)
	}
}

func TestProviderRejectsUnknownZone(t *testing.T) {
	provider := NewProvider(WithProviderZones([]string{"Mars/Olympus_Mons"}))
	if _, err := provider.Choices("en"); err == nil {
		t.Fatalf("expected an error for an unknown zone")
	}
}
