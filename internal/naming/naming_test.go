package naming

import "testing"

func TestHumanize(t *testing.T) {
	cases := map[string]string{
		"title":       "Title",
		"publish_at":  "Publish at",
		"author_id":   "Author",
		"tag_ids":     "Tag",
		"firstName":   "First name",
		"HTMLContent": "Html content",
		"":            "",
	}
	for input, want := range cases {
		if got := Humanize(input); got != want {
			t.Errorf("Humanize(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestUnderscoreAndCamelize(t *testing.T) {
	if got := Underscore("BlogPost"); got != "blog_post" {
		t.Fatalf("Underscore: got %q", got)
	}
	if got := Underscore("AuthorID"); got != "author_id" {
		t.Fatalf("Underscore initialism: got %q", got)
	}
	if got := Camelize("author_id"); got != "AuthorId" {
		t.Fatalf("Camelize: got %q", got)
	}
	if got := Initialism("author_id"); got != "AuthorID" {
		t.Fatalf("Initialism: got %q", got)
	}
}

func TestSingularize(t *testing.T) {
	cases := map[string]string{
		"tags":       "tag",
		"categories": "category",
		"statuses":   "status",
		"addresses":  "address",
		"boxes":      "box",
		"class":      "class",
		"author":     "author",
	}
	for input, want := range cases {
		if got := Singularize(input); got != want {
			t.Errorf("Singularize(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestPluralize(t *testing.T) {
	cases := map[string]string{
		"tag":      "tags",
		"category": "categories",
		"status":   "statuses",
		"person":   "people",
	}
	for input, want := range cases {
		if got := Pluralize(input); got != want {
			t.Errorf("Pluralize(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestAssociationForKey(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"author_id", "author", true},
		{"tag_ids", "tags", true},
		{"category_ids", "categories", true},
		{"status_ids", "statuses", true},
		{"title", "title", false},
		{"_id", "_id", false},
	}
	for _, tt := range tests {
		got, ok := AssociationForKey(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("AssociationForKey(%q) = %q, %v, want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}
