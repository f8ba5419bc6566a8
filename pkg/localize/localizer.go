// Package localize looks up form strings (labels, hints, placeholders, action
// captions) through an ordered list of translation scopes, with an optional
// process-wide cache.
//
// The cache is never invalidated automatically: once a scope has been
// resolved, later changes to the underlying translations are not observed
// until Clear is called.
package localize

import (
	"embed"
	"strings"
	"sync"

	"github.com/go-logr/logr"
)

// DefaultRoot is the key prefix for every lookup.
const DefaultRoot = "formbuilder"

// DefaultLocale is used when callers pass an empty locale.
const DefaultLocale = "en"

// Lookup types.
const (
	Labels       = "labels"
	Hints        = "hints"
	Placeholders = "placeholders"
	Actions      = "actions"
)

//go:embed locales/*.yml
var bundled embed.FS

var (
	defaultsOnce sync.Once
	defaults     *Catalog
)

// Defaults returns the bundled English strings (yes/no, action captions,
// date part prompts, month names). Keys are relative to DefaultRoot.
func Defaults() *Catalog {
	defaultsOnce.Do(func() {
		defaults = NewCatalog()
		if err := defaults.LoadFS(bundled); err != nil {
			panic(err)
		}
	})
	return defaults
}

// Scope describes one localized lookup. Empty segments are skipped when the
// candidate keys are built.
type Scope struct {
	Type      string
	Model     string
	Nested    string
	Action    string
	Attribute string
	Args      map[string]any
}

// Keys returns the candidate keys, most specific first, relative to the root:
//
//	<type>.<model>.<nested>.<action>.<attribute>
//	<type>.<model>.<nested>.<attribute>
//	<type>.<model>.<action>.<attribute>
//	<type>.<model>.<attribute>
//	<type>.<attribute>
func (s Scope) Keys() []string {
	patterns := [][]string{
		{s.Model, s.Nested, s.Action, s.Attribute},
		{s.Model, s.Nested, s.Attribute},
		{s.Model, s.Action, s.Attribute},
		{s.Model, s.Attribute},
		{s.Attribute},
	}

	seen := make(map[string]struct{}, len(patterns))
	out := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if !complete(pattern) {
			continue
		}
		key := s.Type + "." + strings.Join(pattern, ".")
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}

func complete(segments []string) bool {
	for _, segment := range segments {
		if strings.TrimSpace(segment) == "" {
			return false
		}
	}
	return len(segments) > 0
}

// Localizer resolves scopes and keys through a Translator, falling back to
// the bundled defaults.
type Localizer struct {
	translator Translator
	fallback   Translator
	root       string
	caching    bool
	logger     logr.Logger

	mu    sync.RWMutex
	cache map[string]string
}

// Option configures a Localizer.
type Option func(*Localizer)

// WithCache toggles the lookup cache. Enabled by default.
func WithCache(enabled bool) Option {
	return func(l *Localizer) { l.caching = enabled }
}

// WithRoot changes the key prefix used against the translator.
func WithRoot(root string) Option {
	return func(l *Localizer) {
		if trimmed := strings.Trim(strings.TrimSpace(root), "."); trimmed != "" {
			l.root = trimmed
		}
	}
}

// WithFallback replaces the bundled defaults. Pass nil to disable them.
func WithFallback(fallback Translator) Option {
	return func(l *Localizer) { l.fallback = fallback }
}

// WithLogger sets the logger used to report misses.
func WithLogger(logger logr.Logger) Option {
	return func(l *Localizer) { l.logger = logger }
}

// New returns a Localizer backed by translator, which may be nil.
func New(translator Translator, opts ...Option) *Localizer {
	l := &Localizer{
		translator: translator,
		fallback:   Defaults(),
		root:       DefaultRoot,
		caching:    true,
		logger:     logr.Discard(),
		cache:      make(map[string]string),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Caching reports whether lookups are memoized.
func (l *Localizer) Caching() bool { return l.caching }

// Lookup resolves the first scope key with a translation.
func (l *Localizer) Lookup(locale string, scope Scope) (string, bool) {
	return l.resolve(locale, scope.Keys(), scope.Args, true)
}

// Translate resolves a single key relative to the root, e.g. "yes" or
// "datetime.prompts.year". Bundled defaults apply.
func (l *Localizer) Translate(locale, key string, args map[string]any) (string, bool) {
	key = strings.Trim(strings.TrimSpace(key), ".")
	if key == "" {
		return "", false
	}
	return l.resolve(locale, []string{key}, args, true)
}

// TranslateKey resolves a caller-supplied key without the root prefix and
// without defaults.
func (l *Localizer) TranslateKey(locale, key string, args map[string]any) (string, bool) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", false
	}
	locale = normalizeLocale(locale)
	cacheKey := locale + "|!" + key
	if value, ok := l.cached(cacheKey); ok {
		return Interpolate(value, args), true
	}
	raw, ok := l.raw(l.translator, locale, key)
	if !ok {
		l.logger.V(2).Info("translation missing", "locale", locale, "key", key)
		return "", false
	}
	l.store(cacheKey, raw)
	return Interpolate(raw, args), true
}

func (l *Localizer) resolve(locale string, keys []string, args map[string]any, defaults bool) (string, bool) {
	if len(keys) == 0 {
		return "", false
	}
	locale = normalizeLocale(locale)
	cacheKey := locale + "|" + strings.Join(keys, ",")
	if value, ok := l.cached(cacheKey); ok {
		return Interpolate(value, args), true
	}

	for _, key := range keys {
		if raw, ok := l.raw(l.translator, locale, l.root+"."+key); ok {
			l.store(cacheKey, raw)
			return Interpolate(raw, args), true
		}
	}
	if defaults && l.fallback != nil {
		for _, key := range keys {
			raw, ok := l.raw(l.fallback, locale, DefaultRoot+"."+key)
			if !ok && locale != DefaultLocale {
				raw, ok = l.raw(l.fallback, DefaultLocale, DefaultRoot+"."+key)
			}
			if ok {
				l.store(cacheKey, raw)
				return Interpolate(raw, args), true
			}
		}
	}

	l.logger.V(2).Info("translation missing", "locale", locale, "keys", keys)
	return "", false
}

// raw fetches the uninterpolated string so the cache stays independent of
// per-call arguments.
func (l *Localizer) raw(translator Translator, locale, key string) (string, bool) {
	if translator == nil {
		return "", false
	}
	value, err := translator.Translate(locale, key)
	if err != nil || strings.TrimSpace(value) == "" {
		return "", false
	}
	return value, true
}

func (l *Localizer) cached(key string) (string, bool) {
	if !l.caching {
		return "", false
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	value, ok := l.cache[key]
	return value, ok
}

func (l *Localizer) store(key, value string) {
	if !l.caching {
		return
	}
	l.mu.Lock()
	l.cache[key] = value
	l.mu.Unlock()
}

// Clear drops every cached lookup.
func (l *Localizer) Clear() {
	l.mu.Lock()
	l.cache = make(map[string]string)
	l.mu.Unlock()
}

// Len returns the number of cached lookups.
func (l *Localizer) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.cache)
}

func normalizeLocale(locale string) string {
	if trimmed := strings.TrimSpace(locale); trimmed != "" {
		return trimmed
	}
	return DefaultLocale
}
