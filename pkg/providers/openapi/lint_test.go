package openapi_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	pkgopenapi "github.com/goliatone/go-formbuilder/pkg/openapi"
	"github.com/goliatone/go-formbuilder/pkg/providers/openapi"
)

const lintDocument = `
openapi: 3.0.3
info:
  title: Lint
  version: "1.0"
paths: {}
components:
  schemas:
    Author:
      type: object
      properties:
        id:
          type: integer
    Book:
      type: object
      properties:
        author_id:
          type: integer
          x-relationships:
            type: belongsTo
            target: '#/components/schemas/Author'
            foreign_key: author_id
        editor_id:
          type: integer
          x-relationships:
            kind: belongsTo
            target: Editor
            sort: asc
        publisher_id:
          type: integer
          x-relationships:
            type: ownedBy
            target: Author
        tags:
          type: array
          items:
            type: string
          x-relationships: many
        title:
          type: string
          x-label-field: 3
`

func TestLint(t *testing.T) {
	doc := pkgopenapi.MustNewDocument(pkgopenapi.SourceFromFile("lint.yaml"), []byte(lintDocument))
	got, err := openapi.Lint(context.Background(), doc)
	if err != nil {
		t.Fatalf("lint: %v", err)
	}

	const book = "components.schemas.Book.properties."
	want := []openapi.Violation{
		{Location: book + "editor_id", Message: `relationship target "Editor" is not a component schema`},
		{Location: book + "editor_id", Message: `unknown relationship key "sort"`},
		{Location: book + "publisher_id", Message: "relationship type is missing or unsupported"},
		{Location: book + "tags", Message: "x-relationships must be an object, found string"},
		{Location: book + "title", Message: "x-label-field must be a non-empty string"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("violations mismatch (-want +got):\n%s", diff)
	}
}
