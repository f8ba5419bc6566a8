package localize

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// ErrMissingTranslation is returned by translators that have no entry for a
// key.
var ErrMissingTranslation = errors.New("localize: missing translation")

// Translator resolves a fully qualified key for a locale. args are optional
// interpolation values; a map[string]any fills %{name} placeholders.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// TranslatorFunc adapts a function into a Translator.
type TranslatorFunc func(locale, key string, args ...any) (string, error)

// Translate calls the underlying function.
func (fn TranslatorFunc) Translate(locale, key string, args ...any) (string, error) {
	return fn(locale, key, args...)
}

// Catalog is an in-memory Translator keyed by locale and dotted key. It is
// safe for concurrent use; mutations are not visible through a Localizer's
// cache until the cache is cleared.
type Catalog struct {
	mu      sync.RWMutex
	entries map[string]map[string]string
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{entries: make(map[string]map[string]string)}
}

// Set stores value under locale and key, replacing any previous entry.
func (c *Catalog) Set(locale, key, value string) {
	locale = strings.TrimSpace(locale)
	key = strings.TrimSpace(key)
	if locale == "" || key == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries[locale] == nil {
		c.entries[locale] = make(map[string]string)
	}
	c.entries[locale][key] = value
}

// Delete removes an entry.
func (c *Catalog) Delete(locale, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries[locale], key)
}

// Locales returns the locales present in the catalog, sorted.
func (c *Catalog) Locales() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.entries))
	for locale := range c.entries {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

// Translate implements Translator.
func (c *Catalog) Translate(locale, key string, args ...any) (string, error) {
	c.mu.RLock()
	value, ok := c.entries[locale][key]
	c.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("%w: %s.%s", ErrMissingTranslation, locale, key)
	}
	return Interpolate(value, args...), nil
}

// LoadYAML merges a YAML document whose top-level keys are locales and whose
// nested mappings form dotted keys:
//
//	en:
//	  formbuilder:
//	    labels:
//	      post:
//	        title: Headline
func (c *Catalog) LoadYAML(data []byte) error {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("localize: parse yaml: %w", err)
	}
	for locale, tree := range doc {
		nested, ok := tree.(map[string]any)
		if !ok {
			return fmt.Errorf("localize: locale %q must be a mapping", locale)
		}
		if err := c.flatten(locale, "", nested); err != nil {
			return err
		}
	}
	return nil
}

// LoadFS loads every .yml/.yaml file in fsys.
func (c *Catalog) LoadFS(fsys fs.FS) error {
	if fsys == nil {
		return nil
	}
	return fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yml", ".yaml":
		default:
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("localize: read %s: %w", path, err)
		}
		if err := c.LoadYAML(data); err != nil {
			return fmt.Errorf("%w (file %s)", err, path)
		}
		return nil
	})
}

func (c *Catalog) flatten(locale, prefix string, tree map[string]any) error {
	for key, value := range tree {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		switch typed := value.(type) {
		case map[string]any:
			if err := c.flatten(locale, full, typed); err != nil {
				return err
			}
		case string:
			c.Set(locale, full, typed)
		case nil:
		case bool, int, float64:
			c.Set(locale, full, fmt.Sprint(typed))
		default:
			return fmt.Errorf("localize: unsupported value for %s.%s", locale, full)
		}
	}
	return nil
}

// Interpolate replaces %{name} placeholders using the first map argument.
func Interpolate(value string, args ...any) string {
	if !strings.Contains(value, "%{") {
		return value
	}
	var values map[string]any
	for _, arg := range args {
		if typed, ok := arg.(map[string]any); ok {
			values = typed
			break
		}
	}
	if len(values) == 0 {
		return value
	}

	var b strings.Builder
	rest := value
	for {
		start := strings.Index(rest, "%{")
		if start < 0 {
			b.WriteString(rest)
			break
		}
		end := strings.Index(rest[start:], "}")
		if end < 0 {
			b.WriteString(rest)
			break
		}
		name := rest[start+2 : start+end]
		b.WriteString(rest[:start])
		if replacement, ok := values[name]; ok {
			b.WriteString(fmt.Sprint(replacement))
		} else {
			b.WriteString(rest[start : start+end+1])
		}
		rest = rest[start+end+1:]
	}
	return b.String()
}
