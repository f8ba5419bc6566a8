package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-formbuilder/pkg/builder"
)

const contactDocument = `
openapi: 3.0.3
info:
  title: Contacts
  version: "1.0"
paths:
  /contacts/{id}:
    put:
      operationId: updateContact
      parameters:
        - name: id
          in: path
          required: true
          schema:
            type: integer
      requestBody:
        content:
          application/json:
            schema:
              $ref: '#/components/schemas/Contact'
      responses:
        "200":
          description: updated
components:
  schemas:
    Contact:
      type: object
      required: [name]
      properties:
        id:
          type: integer
          readOnly: true
        name:
          type: string
          maxLength: 60
        email:
          type: string
          format: email
        newsletter:
          type: boolean
`

type fakeDriver struct {
	selected int
	answers  map[string]string
	asked    []string
}

func (d *fakeDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	d.asked = append(d.asked, cfg.Message)
	return d.answers[cfg.Message], nil
}

func (d *fakeDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	d.asked = append(d.asked, cfg.Message)
	return d.selected, nil
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func run(t *testing.T, driver PromptDriver, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCommand(newApp(&stdout, &stderr, driver))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func TestPreview(t *testing.T) {
	source := writeFile(t, "contacts.yaml", contactDocument)
	values := writeFile(t, "values.json", `{"id": 7, "name": "Ada", "email": "ada@example.com"}`)
	errs := writeFile(t, "errors.yaml", "name: [\"is taken\"]\n")

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "model",
			args: []string{"preview", "--source", source, "--model", "Contact"},
			want: []string{`name="contact[name]"`, `type="email"`, `type="submit"`, `method="post"`},
		},
		{
			name: "operation",
			args: []string{"preview", "--source", source, "--operation", "updateContact", "--values", values},
			want: []string{`action="/contacts/{id}"`, `name="_method"`, `value="put"`, `value="Ada"`},
		},
		{
			name: "operation fragment on the source",
			args: []string{"preview", "--source", source + "#op=updateContact"},
			want: []string{`action="/contacts/{id}"`, `value="put"`},
		},
		{
			name: "model fragment on the source",
			args: []string{"preview", "--source", source + "#Contact"},
			want: []string{`name="contact[name]"`, `method="post"`},
		},
		{
			name: "flags override the fragment",
			args: []string{"preview", "--source", source + "#op=updateContact", "--model", "Contact"},
			want: []string{`name="contact[name]"`},
		},
		{
			name: "errors and actions",
			args: []string{"preview", "-s", source, "-m", "Contact", "--errors", errs, "--actions", "submit,cancel"},
			want: []string{"is taken", `href="javascript:history.back()"`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, &fakeDriver{}, tt.args...)
			if err != nil {
				t.Fatalf("preview: %v", err)
			}
			for _, fragment := range tt.want {
				if !strings.Contains(out, fragment) {
					t.Fatalf("expected %s in:\n%s", fragment, out)
				}
			}
		})
	}
}

func TestPreviewWritesOutputFile(t *testing.T) {
	source := writeFile(t, "contacts.yaml", contactDocument)
	output := filepath.Join(t.TempDir(), "form.html")

	if _, err := run(t, &fakeDriver{}, "preview", "--source", source, "--model", "Contact", "--output", output); err != nil {
		t.Fatalf("preview: %v", err)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.HasPrefix(string(data), "<form") {
		t.Fatalf("expected a form, got:\n%s", data)
	}
}

func TestPreviewInteractive(t *testing.T) {
	source := writeFile(t, "contacts.yaml", contactDocument)
	driver := &fakeDriver{answers: map[string]string{"name": "Grace"}}

	out, err := run(t, driver, "preview", "--source", source, "--interactive")
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if !strings.Contains(out, `value="Grace"`) {
		t.Fatalf("expected the prompted value in:\n%s", out)
	}
	if driver.asked[0] != "Model" || len(driver.asked) != 5 {
		t.Fatalf("unexpected prompts %v", driver.asked)
	}
}

func TestPreviewErrors(t *testing.T) {
	source := writeFile(t, "contacts.yaml", contactDocument)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no model", []string{"preview", "--source", source}, "--model"},
		{"unknown model", []string{"preview", "--source", source, "--model", "Nope"}, "unknown model"},
		{"unknown operation", []string{"preview", "--source", source, "--operation", "nope"}, "unknown operation"},
		{"unknown fragment key", []string{"preview", "--source", source + "#tag=contacts"}, "invalid selection"},
		{"missing config", []string{"preview", "--source", source, "--model", "Contact", "--config", "missing.yaml"}, "file not found"},
		{"invalid flag value", []string{"preview", "--source", source, "--model", "Contact", "--inline-errors", "loud"}, "invalid configuration"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, &fakeDriver{}, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestPromptAbort(t *testing.T) {
	source := writeFile(t, "contacts.yaml", contactDocument)
	_, err := run(t, &fakeDriver{selected: -1}, "preview", "--source", source, "-i")
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestConfigCommand(t *testing.T) {
	cfgPath := writeFile(t, "formbuilder.yaml", "hint_format: markdown\n")

	out, err := run(t, &fakeDriver{}, "config", "--config", cfgPath, "--locale", "de")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	for _, fragment := range []string{"locale: de", "hint_format: markdown"} {
		if !strings.Contains(out, fragment) {
			t.Fatalf("expected %q in:\n%s", fragment, out)
		}
	}
}

func TestRouter(t *testing.T) {
	source := writeFile(t, "contacts.yaml", contactDocument)
	a := newApp(&bytes.Buffer{}, &bytes.Buffer{}, &fakeDriver{})
	env, err := builder.NewEnvironment()
	if err != nil {
		t.Fatalf("environment: %v", err)
	}
	catalog, _, err := loadCatalog(context.Background(), &previewOptions{source: source, validate: true})
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	router := newRouter(env, catalog, a.zones)

	tests := []struct {
		target string
		status int
		want   string
	}{
		{"/forms", http.StatusOK, `href="/forms/Contact"`},
		{"/forms/Contact?name=Ada", http.StatusOK, `value="Ada"`},
		{"/forms/Nope", http.StatusNotFound, "unknown model"},
		{"/api/timezones?q=paris", http.StatusOK, "Europe/Paris"},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.want) {
				t.Fatalf("expected %q in:\n%s", tt.want, rec.Body.String())
			}
		})
	}
}

func TestLintCommand(t *testing.T) {
	clean := writeFile(t, "contacts.yaml", contactDocument)
	if _, err := run(t, &fakeDriver{}, "lint", clean); err != nil {
		t.Fatalf("expected a clean document, got %v", err)
	}

	broken := writeFile(t, "broken.yaml", strings.Replace(contactDocument,
		"        newsletter:\n", "        owner_id:\n          type: integer\n          x-relationships:\n            type: belongsTo\n            target: User\n        newsletter:\n", 1))
	out, err := run(t, &fakeDriver{}, "lint", broken)
	if !errors.Is(err, errLintViolations) {
		t.Fatalf("expected violations, got %v", err)
	}
	if !strings.Contains(out, `owner_id -> relationship target "User" is not a component schema`) {
		t.Fatalf("unexpected output:\n%s", out)
	}
}
