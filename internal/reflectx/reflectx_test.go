package reflectx

import (
	"errors"
	"testing"
)

type upload struct {
	Filename string
}

type record struct {
	Title    string
	AuthorID int    `form:"author_id"`
	Body     string `json:"content"`
	Secret   string `form:"-"`
	hidden   string
}

func (r record) Slug() string { return "slug-" + r.Title }

func (r *record) Broken() (string, error) { return "", errors.New("boom") }

func TestMember(t *testing.T) {
	rec := &record{Title: "Hello", AuthorID: 7, Body: "text", hidden: "x"}

	cases := map[string]any{
		"title":     "Hello",
		"Title":     "Hello",
		"author_id": 7,
		"content":   "text",
		"slug":      "slug-Hello",
	}
	for name, want := range cases {
		got, err := Member(rec, name)
		if err != nil {
			t.Fatalf("Member(%q): %v", name, err)
		}
		if got != want {
			t.Fatalf("Member(%q) = %v, want %v", name, got, want)
		}
	}

	if _, err := Member(rec, "missing"); !errors.Is(err, ErrNoMember) {
		t.Fatalf("expected ErrNoMember, got %v", err)
	}
	if _, err := Member(rec, "secret"); !errors.Is(err, ErrNoMember) {
		t.Fatalf("expected hidden field to be skipped, got %v", err)
	}
	if _, err := Member(rec, "broken"); err == nil || err.Error() != "boom" {
		t.Fatalf("expected accessor error, got %v", err)
	}
}

func TestMemberMap(t *testing.T) {
	values := map[string]any{"title": "Hi"}
	got, err := Member(values, "title")
	if err != nil || got != "Hi" {
		t.Fatalf("map member: %v, %v", got, err)
	}
}

func TestHasMember(t *testing.T) {
	if !HasMember(&upload{Filename: "a.png"}, "Filename") {
		t.Fatalf("expected Filename field to be detected")
	}
	if HasMember("a.png", "Filename") {
		t.Fatalf("strings never expose members")
	}
	if HasMember(nil, "Filename") {
		t.Fatalf("nil never exposes members")
	}
}
