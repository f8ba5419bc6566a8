package form_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/form"
)

func TestMergeAndSortHiddenFields(t *testing.T) {
	base := map[string]string{
		" existing ": "keep",
		"":           "ignored",
	}

	_, override := form.SplitMethod("PATCH")
	merged := form.MergeHiddenFields(base,
		form.CSRFToken("authenticity_token", "token123"),
		form.VersionField("lock_version", 4),
		form.Hidden("  ", "skip"),
		*override,
	)

	wantMerged := map[string]string{
		"existing":           "keep",
		"authenticity_token": "token123",
		"lock_version":       "4",
		"_method":            "patch",
	}
	if diff := cmp.Diff(wantMerged, merged); diff != "" {
		t.Fatalf("merged hidden fields mismatch (-want +got):\n%s", diff)
	}

	sorted := form.SortedHiddenFields(merged)
	wantSorted := []form.HiddenField{
		{Name: "_method", Value: "patch"},
		{Name: "authenticity_token", Value: "token123"},
		{Name: "existing", Value: "keep"},
		{Name: "lock_version", Value: "4"},
	}
	if diff := cmp.Diff(wantSorted, sorted); diff != "" {
		t.Fatalf("sorted hidden fields mismatch (-want +got):\n%s", diff)
	}

	got := form.RenderHidden(sorted[:1])
	if want := `<input name="_method" type="hidden" value="patch">`; string(got) != want {
		t.Fatalf("RenderHidden = %s", got)
	}
}

func TestSplitMethod(t *testing.T) {
	cases := []struct {
		in       string
		method   string
		override string
	}{
		{in: "", method: "post"},
		{in: "GET", method: "get"},
		{in: "post", method: "post"},
		{in: "put", method: "post", override: "put"},
		{in: "DELETE", method: "post", override: "delete"},
	}
	for _, tc := range cases {
		method, override := form.SplitMethod(tc.in)
		if method != tc.method {
			t.Fatalf("SplitMethod(%q) method = %q, want %q", tc.in, method, tc.method)
		}
		got := ""
		if override != nil {
			got = override.Value
		}
		if got != tc.override {
			t.Fatalf("SplitMethod(%q) override = %q, want %q", tc.in, got, tc.override)
		}
	}
}
