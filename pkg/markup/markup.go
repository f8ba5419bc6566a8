// Package markup builds HTML fragments: tags with deterministic attribute
// order, escaped or sanitized text and markdown snippets.
package markup

import (
	"bytes"
	"fmt"
	"html"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

// HTML is a fragment that is already safe to emit.
type HTML string

func (h HTML) String() string { return string(h) }

// Escape returns s with HTML special characters escaped.
func Escape(s string) HTML {
	return HTML(html.EscapeString(s))
}

// Join concatenates fragments.
func Join(parts ...HTML) HTML {
	var b strings.Builder
	for _, part := range parts {
		b.WriteString(string(part))
	}
	return HTML(b.String())
}

// Attrs holds tag attributes. Values render as follows: true renders a bare
// attribute, false and nil are omitted, []string joins with spaces and a
// map under "data" or "aria" expands into prefixed attributes.
type Attrs map[string]any

// Clone returns a shallow copy.
func (a Attrs) Clone() Attrs {
	out := make(Attrs, len(a))
	for key, value := range a {
		out[key] = value
	}
	return out
}

// Merge returns a copy of a with other applied on top. Classes are
// concatenated rather than replaced.
func (a Attrs) Merge(other Attrs) Attrs {
	out := a.Clone()
	for key, value := range other {
		if key == "class" {
			out[key] = Classes(out[key], value)
			continue
		}
		out[key] = value
	}
	return out
}

// Set returns a copy with key set.
func (a Attrs) Set(key string, value any) Attrs {
	out := a.Clone()
	out[key] = value
	return out
}

// Default returns a copy with key set only when absent.
func (a Attrs) Default(key string, value any) Attrs {
	if _, ok := a[key]; ok {
		return a.Clone()
	}
	return a.Set(key, value)
}

// String renders the attributes with a leading space, sorted by name.
func (a Attrs) String() string {
	if len(a) == 0 {
		return ""
	}
	names := make([]string, 0, len(a))
	for name := range a {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		writeAttr(&b, name, a[name])
	}
	return b.String()
}

func writeAttr(b *strings.Builder, name string, value any) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	switch typed := value.(type) {
	case nil:
		return
	case bool:
		if typed {
			b.WriteByte(' ')
			b.WriteString(html.EscapeString(name))
		}
		return
	case map[string]any:
		if name == "data" || name == "aria" {
			keys := make([]string, 0, len(typed))
			for key := range typed {
				keys = append(keys, key)
			}
			sort.Strings(keys)
			for _, key := range keys {
				writeAttr(b, name+"-"+strings.ReplaceAll(key, "_", "-"), typed[key])
			}
			return
		}
	case []string:
		if name == "class" {
			value = strings.Join(Classes(typed), " ")
		} else {
			value = strings.Join(typed, " ")
		}
	case []any:
		value = strings.Join(Classes(typed), " ")
	}

	text := Stringify(value)
	if name == "class" && strings.TrimSpace(text) == "" {
		return
	}
	b.WriteByte(' ')
	b.WriteString(html.EscapeString(name))
	b.WriteString(`="`)
	b.WriteString(html.EscapeString(text))
	b.WriteByte('"')
}

// Stringify formats attribute and option values.
func Stringify(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case HTML:
		return string(typed)
	case int:
		return strconv.Itoa(typed)
	case int64:
		return strconv.FormatInt(typed, 10)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(typed), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(typed)
	case fmt.Stringer:
		return typed.String()
	default:
		return fmt.Sprint(value)
	}
}

// Classes flattens class values (strings, space separated strings, string
// slices, nested []any) into a deduplicated list preserving first
// occurrence.
func Classes(values ...any) []string {
	seen := make(map[string]struct{})
	var out []string
	var add func(value any)
	add = func(value any) {
		switch typed := value.(type) {
		case nil:
		case string:
			for _, class := range strings.Fields(typed) {
				if _, ok := seen[class]; ok {
					continue
				}
				seen[class] = struct{}{}
				out = append(out, class)
			}
		case []string:
			for _, item := range typed {
				add(item)
			}
		case []any:
			for _, item := range typed {
				add(item)
			}
		default:
			add(Stringify(typed))
		}
	}
	for _, value := range values {
		add(value)
	}
	return out
}

// Tag renders <name attrs>content</name>.
func Tag(name string, attrs Attrs, content HTML) HTML {
	var b strings.Builder
	b.WriteByte('<')
	b.WriteString(name)
	b.WriteString(attrs.String())
	b.WriteByte('>')
	b.WriteString(string(content))
	b.WriteString("</")
	b.WriteString(name)
	b.WriteByte('>')
	return HTML(b.String())
}

// Void renders a self-contained element such as <input>.
func Void(name string, attrs Attrs) HTML {
	return HTML("<" + name + attrs.String() + ">")
}

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy

	markdownOnce sync.Once
	markdown     goldmark.Markdown
)

func sanitizer() *bluemonday.Policy {
	policyOnce.Do(func() {
		p := bluemonday.UGCPolicy()
		p.AllowElements("abbr", "span", "small", "kbd")
		p.AllowAttrs("title").OnElements("abbr")
		p.AllowAttrs("class").OnElements("abbr", "span", "small", "code")
		policy = p
	})
	return policy
}

// Sanitize strips unsafe markup from caller-provided HTML. Scripts, event
// handlers and unknown elements are removed; formatting survives.
func Sanitize(raw string) HTML {
	return HTML(strings.TrimSpace(sanitizer().Sanitize(raw)))
}

// Text renders caller text either escaped or, when escape is false,
// sanitized.
func Text(s string, escape bool) HTML {
	if escape {
		return Escape(s)
	}
	return Sanitize(s)
}

// Markdown converts source to sanitized HTML. A single paragraph is unwrapped
// so the result fits inline containers.
func Markdown(source string) (HTML, error) {
	markdownOnce.Do(func() {
		markdown = goldmark.New()
	})
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("markup: convert markdown: %w", err)
	}
	out := strings.TrimSpace(buf.String())
	if strings.HasPrefix(out, "<p>") && strings.HasSuffix(out, "</p>") && strings.Count(out, "<p>") == 1 {
		out = strings.TrimSuffix(strings.TrimPrefix(out, "<p>"), "</p>")
	}
	return Sanitize(out), nil
}
