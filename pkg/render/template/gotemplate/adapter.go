// Package gotemplate renders wrapper layouts with pongo2. Layouts receive
// pre-rendered, already escaped fragments and must print them with the safe
// filter:
//
//	<li class="{{ classes }}">{{ label|safe }}{{ control|safe }}{{ errors|safe }}</li>
package gotemplate

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-formbuilder/pkg/render/template"
)

// Filter transforms a value inside a layout: {{ value|name:param }}.
type Filter func(input any, param any) (any, error)

// Option configures an Engine.
type Option func(*settings)

type settings struct {
	files     fs.FS
	extension string
	globals   pongo2.Context
	filters   map[string]Filter
}

// WithFS loads named layouts from files.
func WithFS(files fs.FS) Option {
	return func(s *settings) { s.files = files }
}

// WithExtension is appended to layout names lacking it. Defaults to ".tpl".
func WithExtension(ext string) Option {
	return func(s *settings) {
		ext = strings.TrimSpace(ext)
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		s.extension = ext
	}
}

// WithGlobals makes vars visible to every layout. Render variables win.
func WithGlobals(vars map[string]any) Option {
	return func(s *settings) {
		for key, value := range vars {
			s.globals[key] = value
		}
	}
}

// WithFilter registers a filter. pongo2 filters are process wide, so a name
// may only be registered once.
func WithFilter(name string, fn Filter) Option {
	return func(s *settings) { s.filters[strings.TrimSpace(name)] = fn }
}

// Engine renders layouts, caching each compiled layout. It is safe for
// concurrent use.
type Engine struct {
	set       *pongo2.TemplateSet
	extension string
	compiled  sync.Map
}

var (
	_ template.TemplateRenderer = (*Engine)(nil)
	_ template.Compiler         = (*Engine)(nil)
)

var builtinsOnce sync.Once

// New builds an Engine. Without WithFS only inline layouts render.
func New(opts ...Option) (*Engine, error) {
	s := settings{extension: ".tpl", globals: pongo2.Context{}, filters: map[string]Filter{}}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}

	builtinsOnce.Do(func() {
		if !pongo2.FilterExists("trim") {
			_ = pongo2.RegisterFilter("trim", func(in, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
				return pongo2.AsValue(strings.TrimSpace(in.String())), nil
			})
		}
	})
	for name, fn := range s.filters {
		if err := registerFilter(name, fn); err != nil {
			return nil, err
		}
	}

	files := s.files
	if files == nil {
		files = noFiles{}
	}
	set := pongo2.NewSet("formbuilder", pongo2.NewFSLoader(files))
	set.Globals.Update(s.globals)
	return &Engine{set: set, extension: s.extension}, nil
}

func registerFilter(name string, fn Filter) error {
	if name == "" || fn == nil {
		return errors.New("gotemplate: filter name and function are required")
	}
	if pongo2.FilterExists(name) {
		return fmt.Errorf("gotemplate: filter %q already exists", name)
	}
	return pongo2.RegisterFilter(name, func(in, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		var arg any
		if param != nil {
			arg = param.Interface()
		}
		out, err := fn(in.Interface(), arg)
		if err != nil {
			return nil, &pongo2.Error{Sender: "filter:" + name, OrigError: err}
		}
		return pongo2.AsValue(out), nil
	})
}

// Render implements template.TemplateRenderer.
func (e *Engine) Render(layout string, vars map[string]any) (string, error) {
	tmpl, err := e.compile(layout)
	if err != nil {
		return "", err
	}
	out, err := tmpl.Execute(pongo2.Context(vars))
	if err != nil {
		return "", fmt.Errorf("gotemplate: execute %s: %w", describe(layout), err)
	}
	return out, nil
}

// Compile parses layout so syntax errors surface at boot.
func (e *Engine) Compile(layout string) error {
	_, err := e.compile(layout)
	return err
}

func (e *Engine) compile(layout string) (*pongo2.Template, error) {
	if e == nil || e.set == nil {
		return nil, errors.New("gotemplate: engine is nil")
	}
	if cached, ok := e.compiled.Load(layout); ok {
		return cached.(*pongo2.Template), nil
	}

	var (
		tmpl *pongo2.Template
		err  error
	)
	if inline(layout) {
		tmpl, err = e.set.FromString(layout)
	} else {
		name := strings.TrimSpace(layout)
		if !strings.HasSuffix(name, e.extension) {
			name += e.extension
		}
		tmpl, err = e.set.FromFile(name)
	}
	if err != nil {
		return nil, fmt.Errorf("gotemplate: compile %s: %w", describe(layout), err)
	}
	actual, _ := e.compiled.LoadOrStore(layout, tmpl)
	return actual.(*pongo2.Template), nil
}

func inline(layout string) bool {
	return strings.Contains(layout, "{{") || strings.Contains(layout, "{%")
}

func describe(layout string) string {
	if inline(layout) {
		return "inline layout"
	}
	return fmt.Sprintf("layout %q", layout)
}

type noFiles struct{}

func (noFiles) Open(name string) (fs.File, error) {
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}
