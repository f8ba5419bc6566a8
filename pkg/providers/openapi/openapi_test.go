package openapi_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/model"
	pkgopenapi "github.com/goliatone/go-formbuilder/pkg/openapi"
	"github.com/goliatone/go-formbuilder/pkg/providers/openapi"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

const blogDocument = `
openapi: 3.0.3
info:
  title: Blog
  version: "1.0"
paths:
  /articles:
    post:
      operationId: createArticle
      summary: Create an article
      requestBody:
        content:
          application/json:
            schema:
              $ref: '#/components/schemas/Article'
      responses:
        "201":
          description: created
components:
  schemas:
    Author:
      type: object
      required: [name]
      properties:
        id:
          type: integer
          readOnly: true
        name:
          type: string
          maxLength: 60
    Tag:
      type: object
      properties:
        id:
          type: integer
          readOnly: true
        label:
          type: string
    Article:
      type: object
      required: [title, status, author_id]
      properties:
        id:
          type: integer
          readOnly: true
        slug:
          type: string
          readOnly: true
        title:
          type: string
          title: Headline
          minLength: 3
          maxLength: 80
        body:
          type: string
          format: markdown
        status:
          type: string
          enum: [draft, published]
        contact_email:
          type: string
          format: email
        rating:
          type: integer
          minimum: 1
          maximum: 5
        price:
          type: number
          minimum: 0
          exclusiveMinimum: true
          multipleOf: 0.01
        featured:
          type: boolean
        published_at:
          type: string
          format: date-time
        cover:
          type: string
          format: binary
        author_id:
          type: integer
          x-relationships:
            type: belongsTo
            target: '#/components/schemas/Author'
            label-field: name
        reviewer:
          $ref: '#/components/schemas/Author'
        tags:
          type: array
          items:
            $ref: '#/components/schemas/Tag'
`

func loadCatalog(t *testing.T, opts ...openapi.ParseOption) *openapi.Catalog {
	t.Helper()
	files := fstest.MapFS{"specs/blog.yaml": {Data: []byte(blogDocument)}}
	loader := openapi.NewLoader(pkgopenapi.WithFileSystem(files))
	doc, err := loader.Load(context.Background(), pkgopenapi.SourceFromFS("specs/blog.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	catalog, err := openapi.Parse(context.Background(), doc, append([]openapi.ParseOption{openapi.WithValidation(true)}, opts...)...)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return catalog
}

func article(t *testing.T, catalog *openapi.Catalog) *openapi.Model {
	t.Helper()
	m, err := catalog.Model("Article")
	if err != nil {
		t.Fatalf("model: %v", err)
	}
	return m
}

func TestParseCatalog(t *testing.T) {
	catalog := loadCatalog(t)

	if diff := cmp.Diff([]string{"Article", "Author", "Tag"}, catalog.Models()); diff != "" {
		t.Fatalf("models mismatch (-want +got):\n%s", diff)
	}
	op, ok := catalog.Operation("createArticle")
	if !ok {
		t.Fatalf("expected createArticle operation")
	}
	want := openapi.Operation{ID: "createArticle", Method: "POST", Path: "/articles", Summary: "Create an article", Model: "Article"}
	if diff := cmp.Diff(want, op); diff != "" {
		t.Fatalf("operation mismatch (-want +got):\n%s", diff)
	}
	if _, err := catalog.Model("Comment"); !errors.Is(err, openapi.ErrUnknownModel) {
		t.Fatalf("expected ErrUnknownModel, got %v", err)
	}
}

func TestModelColumns(t *testing.T) {
	m := article(t, loadCatalog(t))
	if m.Name() != "article" {
		t.Fatalf("expected param key article, got %q", m.Name())
	}

	want := []model.Column{
		{Name: "author_id", Type: model.ColumnInteger},
		{Name: "body", Type: model.ColumnText},
		{Name: "contact_email", Type: model.ColumnType("email")},
		{Name: "cover", Type: model.ColumnType("file")},
		{Name: "featured", Type: model.ColumnBoolean},
		{Name: "id", Type: model.ColumnInteger},
		{Name: "price", Type: model.ColumnDecimal},
		{Name: "published_at", Type: model.ColumnDatetime},
		{Name: "rating", Type: model.ColumnInteger},
		{Name: "status", Type: model.ColumnString},
		{Name: "title", Type: model.ColumnString, Limit: 80},
	}
	if diff := cmp.Diff(want, m.Columns()); diff != "" {
		t.Fatalf("columns mismatch (-want +got):\n%s", diff)
	}
}

func TestModelAssociations(t *testing.T) {
	m := article(t, loadCatalog(t))
	want := []model.Association{
		{Name: "author", Kind: model.BelongsTo, Target: "Author", ForeignKey: "author_id"},
		{Name: "reviewer", Kind: model.HasOne, Target: "Author"},
		{Name: "status", Kind: model.Enum, Values: []string{"draft", "published"}},
		{Name: "tags", Kind: model.HasMany, Target: "Tag"},
	}
	if diff := cmp.Diff(want, m.Associations(), cmpopts.IgnoreFields(model.Association{}, "Records")); diff != "" {
		t.Fatalf("associations mismatch (-want +got):\n%s", diff)
	}
}

func TestModelRules(t *testing.T) {
	obj := article(t, loadCatalog(t)).New(nil)

	tests := []struct {
		attribute string
		want      []validation.Rule
	}{
		{
			attribute: "title",
			want: []validation.Rule{
				{Kind: validation.Presence, Attribute: "title"},
				{Kind: validation.Length, Attribute: "title", Minimum: validation.Int(3), Maximum: validation.Int(80)},
			},
		},
		{
			attribute: "status",
			want: []validation.Rule{
				{Kind: validation.Presence, Attribute: "status"},
				{Kind: validation.Inclusion, Attribute: "status", In: []string{"draft", "published"}},
			},
		},
		{
			attribute: "rating",
			want: []validation.Rule{
				{Kind: validation.Numericality, Attribute: "rating", OnlyInteger: true,
					GreaterThanOrEqualTo: validation.Float(1), LessThanOrEqualTo: validation.Float(5)},
			},
		},
		{
			attribute: "price",
			want: []validation.Rule{
				{Kind: validation.Numericality, Attribute: "price", GreaterThan: validation.Float(0), Step: "0.01"},
			},
		},
		{attribute: "featured"},
	}

	ignore := cmpopts.IgnoreUnexported(validation.Condition{})
	for _, tt := range tests {
		t.Run(tt.attribute, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, obj.ValidationRulesFor(tt.attribute), ignore); diff != "" {
				t.Fatalf("rules mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestObjectAttribute(t *testing.T) {
	m := article(t, loadCatalog(t))
	obj := m.Bind(map[string]any{
		"id":       7,
		"title":    "Hello",
		"reviewer": map[string]any{"id": 3, "name": "Grace"},
		"tags":     []any{map[string]any{"label": "go"}},
	})

	if obj.NewRecord() {
		t.Fatalf("expected a record with an id to be persisted")
	}
	if got, _ := obj.Attribute("title"); got != "Hello" {
		t.Fatalf("expected Hello, got %v", got)
	}
	if got, err := obj.Attribute("body"); err != nil || got != nil {
		t.Fatalf("expected declared attribute to read nil, got %v, %v", got, err)
	}
	if _, err := obj.Attribute("slug"); !errors.Is(err, openapi.ErrUnknownAttribute) {
		t.Fatalf("expected read-only property to be unknown, got %v", err)
	}

	reviewer, err := obj.Attribute("reviewer")
	if err != nil {
		t.Fatalf("reviewer: %v", err)
	}
	nested, ok := reviewer.(*openapi.Object)
	if !ok {
		t.Fatalf("expected bound reviewer, got %T", reviewer)
	}
	if nested.ModelName() != "author" || nested.NewRecord() {
		t.Fatalf("unexpected nested reviewer %s new=%v", nested.ModelName(), nested.NewRecord())
	}

	tags, _ := obj.Attribute("tags")
	items, ok := tags.([]any)
	if !ok || len(items) != 1 {
		t.Fatalf("expected one tag, got %#v", tags)
	}
	if tag := items[0].(*openapi.Object); !tag.NewRecord() {
		t.Fatalf("expected tag without id to be new")
	}
}

func TestObjectWithErrors(t *testing.T) {
	obj := article(t, loadCatalog(t)).New(nil).WithErrors(map[string][]string{
		"/body/title": {"is too short"},
		"":            {"Something went wrong"},
	})
	if diff := cmp.Diff([]string{"is too short"}, obj.ErrorsFor("title")); diff != "" {
		t.Fatalf("title errors mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Something went wrong"}, obj.ErrorsFor(model.BaseErrorKey)); diff != "" {
		t.Fatalf("base errors mismatch (-want +got):\n%s", diff)
	}
}

func TestBuilderRendersSchemaInputs(t *testing.T) {
	authors := model.CollectionFunc(func() ([]any, error) {
		return []any{map[string]any{"id": 1, "name": "Ada"}}, nil
	})
	catalog := loadCatalog(t, openapi.WithRecords("Author", authors))
	obj := article(t, catalog).New(map[string]any{"title": "Hello"})

	env, err := builder.NewEnvironment()
	if err != nil {
		t.Fatalf("environment: %v", err)
	}
	b := builder.New(env, obj)

	tests := []struct {
		attribute string
		fragments []string
	}{
		{"title", []string{`for="article_title">Headline <abbr title="required">*</abbr>`, `maxlength="80"`, `name="article[title]"`, `value="Hello"`}},
		{"contact_email", []string{`type="email"`, `name="article[contact_email]"`}},
		{"status", []string{`<select`, `value="draft">Draft</option>`}},
		{"author", []string{`name="article[author_id]"`, `value="1">Ada</option>`}},
		{"cover", []string{`type="file"`}},
	}
	for _, tt := range tests {
		t.Run(tt.attribute, func(t *testing.T) {
			html, err := b.Input(tt.attribute)
			if err != nil {
				t.Fatalf("input: %v", err)
			}
			for _, fragment := range tt.fragments {
				if !strings.Contains(string(html), fragment) {
					t.Fatalf("expected %s in:\n%s", fragment, html)
				}
			}
		})
	}
}

func TestParseRejectsInvalidDocument(t *testing.T) {
	doc := pkgopenapi.MustNewDocument(pkgopenapi.SourceFromFile("broken.yaml"), []byte("openapi: [not, valid"))
	if _, err := openapi.Parse(context.Background(), doc); err == nil {
		t.Fatalf("expected parse error")
	}
}
