package form_test

import (
	"testing"

	"github.com/goliatone/go-formbuilder/pkg/form"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/testsupport"
)

type BlogPost struct{ Title string }

func TestContextNames(t *testing.T) {
	root := form.NewContext(testsupport.Post(), "", nil)
	index := 0
	child := root.Child("author", nil, &index, nil)

	cases := []struct {
		name     string
		ctx      *form.Context
		attr     string
		multiple bool
		wantName string
		wantID   string
	}{
		{name: "root", ctx: root, attr: "title", wantName: "post[title]", wantID: "post_title"},
		{name: "multiple", ctx: root, attr: "tag_ids", multiple: true, wantName: "post[tag_ids][]", wantID: "post_tag_ids"},
		{name: "nested", ctx: child, attr: "name", wantName: "post[author_attributes][0][name]", wantID: "post_author_attributes_0_name"},
		{name: "unnamed", ctx: form.NewContext(nil, "", nil), attr: "q", wantName: "q", wantID: "q"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.ctx.InputName(tc.attr, tc.multiple); got != tc.wantName {
				t.Fatalf("InputName = %q, want %q", got, tc.wantName)
			}
			if got := tc.ctx.InputID(tc.attr); got != tc.wantID {
				t.Fatalf("InputID = %q, want %q", got, tc.wantID)
			}
		})
	}

	if child.Model() != "post" || child.Nested() != "author" {
		t.Fatalf("unexpected i18n segments %q/%q", child.Model(), child.Nested())
	}
	if child.Parent != root {
		t.Fatalf("child must reference its parent")
	}

	if got := root.Child("statuses", nil, nil, nil).Nested(); got != "status" {
		t.Fatalf("expected the singular nested segment, got %q", got)
	}
	if got := root.Child("categories", nil, nil, nil).Nested(); got != "category" {
		t.Fatalf("expected the singular nested segment, got %q", got)
	}
}

func TestContextNamespaceAndSuffix(t *testing.T) {
	ctx := form.NewContext(nil, "post", nil)
	ctx.Namespace = "admin"
	if got := ctx.InputID("publish_at", "1i"); got != "admin_post_publish_at_1i" {
		t.Fatalf("InputID = %q", got)
	}
	if got := ctx.FormID(); got != "admin_new_post" {
		t.Fatalf("FormID = %q", got)
	}
}

func TestObjectNameAndAction(t *testing.T) {
	if got := form.ObjectName(&BlogPost{}); got != "blog_post" {
		t.Fatalf("ObjectName = %q", got)
	}
	post := testsupport.Post()
	if got := form.ObjectName(post); got != "post" {
		t.Fatalf("ObjectName = %q", got)
	}
	if got := form.DefaultAction(post); got != "new" {
		t.Fatalf("DefaultAction(new) = %q", got)
	}
	post.Persisted = true
	if got := form.DefaultAction(post); got != "edit" {
		t.Fatalf("DefaultAction(persisted) = %q", got)
	}
	if got := form.DefaultAction(&BlogPost{}); got != "new" {
		t.Fatalf("objects without persistence state count as new, got %q", got)
	}
}

func TestDescriptorInputAttribute(t *testing.T) {
	cases := []struct {
		name string
		desc form.Descriptor
		want string
		many bool
	}{
		{name: "plain", desc: form.Descriptor{Attribute: "title"}, want: "title"},
		{name: "belongs to", desc: form.Descriptor{Attribute: "category", Association: &model.Association{Kind: model.BelongsTo, ForeignKey: "category_id"}}, want: "category_id"},
		{name: "foreign key", desc: form.Descriptor{Attribute: "category_id", Association: &model.Association{Kind: model.BelongsTo}}, want: "category_id"},
		{name: "has many", desc: form.Descriptor{Attribute: "tags", Association: &model.Association{Kind: model.HasMany}}, want: "tag_ids", many: true},
		{name: "has many ies plural", desc: form.Descriptor{Attribute: "categories", Association: &model.Association{Kind: model.HasMany}}, want: "category_ids", many: true},
		{name: "has many es plural", desc: form.Descriptor{Attribute: "statuses", Association: &model.Association{Kind: model.HasMany}}, want: "status_ids", many: true},
		{name: "habtm ids", desc: form.Descriptor{Attribute: "tag_ids", Association: &model.Association{Kind: model.HasAndBelongsToMany}}, want: "tag_ids", many: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.desc.InputAttribute(); got != tc.want {
				t.Fatalf("InputAttribute = %q, want %q", got, tc.want)
			}
			if got := tc.desc.Multiple(form.Options{}); got != tc.many {
				t.Fatalf("Multiple = %v, want %v", got, tc.many)
			}
		})
	}

	desc := form.Descriptor{Attribute: "tags", Association: &model.Association{Kind: model.HasMany}}
	if desc.Multiple(form.Collect(form.Multiple(false))) {
		t.Fatalf("explicit multiple must win")
	}
}
