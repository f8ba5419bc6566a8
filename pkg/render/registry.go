// Package render resolves type tags to renderer implementations by searching
// an ordered list of namespaces. Host applications put their overrides in an
// earlier namespace; the library defaults sit last.
package render

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/go-logr/logr"
)

// Kind separates input renderers from action renderers.
type Kind string

const (
	KindInput  Kind = "input"
	KindAction Kind = "action"
)

// Namespace is one tier of the search order. Lookup returns ErrNotFound when
// the tag is absent; any other error aborts resolution.
type Namespace[T any] interface {
	Lookup(tag string) (T, error)
}

// NamespaceFunc adapts a function into a Namespace.
type NamespaceFunc[T any] func(tag string) (T, error)

// Lookup calls the underlying function.
func (fn NamespaceFunc[T]) Lookup(tag string) (T, error) {
	return fn(tag)
}

// MapNamespace stores implementations by tag. Register during boot; the
// namespace is read-only once a Resolver uses it.
type MapNamespace[T any] struct {
	name    string
	mu      sync.RWMutex
	entries map[string]T
}

// NewMapNamespace creates an empty namespace.
func NewMapNamespace[T any](name string) *MapNamespace[T] {
	return &MapNamespace[T]{
		name:    strings.TrimSpace(name),
		entries: make(map[string]T),
	}
}

// Name returns the namespace label used in logs.
func (n *MapNamespace[T]) Name() string { return n.name }

// Register adds an implementation. Duplicate tags return an error.
func (n *MapNamespace[T]) Register(tag string, impl T) error {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return fmt.Errorf("render: namespace %q: tag is required", n.name)
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if _, exists := n.entries[tag]; exists {
		return fmt.Errorf("render: namespace %q: %q already registered", n.name, tag)
	}
	n.entries[tag] = impl
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (n *MapNamespace[T]) MustRegister(tag string, impl T) {
	if err := n.Register(tag, impl); err != nil {
		panic(err)
	}
}

// Lookup implements Namespace.
func (n *MapNamespace[T]) Lookup(tag string) (T, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	impl, ok := n.entries[tag]
	if !ok {
		var zero T
		return zero, ErrNotFound
	}
	return impl, nil
}

// Tags returns the registered tags sorted.
func (n *MapNamespace[T]) Tags() []string {
	n.mu.RLock()
	defer n.mu.RUnlock()

	tags := make([]string, 0, len(n.entries))
	for tag := range n.entries {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// CachePolicy controls whether resolutions are memoized.
type CachePolicy int

const (
	// CacheNever queries the namespaces on every call.
	CacheNever CachePolicy = iota
	// CacheForever memoizes for the resolver's lifetime; Reset is a no-op.
	CacheForever
	// CacheUntilReset memoizes until Reset is called.
	CacheUntilReset
)

func (p CachePolicy) String() string {
	switch p {
	case CacheNever:
		return "never"
	case CacheForever:
		return "forever"
	case CacheUntilReset:
		return "until-reset"
	default:
		return fmt.Sprintf("CachePolicy(%d)", int(p))
	}
}

// ParseCachePolicy maps configuration strings onto a policy.
func ParseCachePolicy(raw string) (CachePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "forever":
		return CacheForever, nil
	case "never", "none":
		return CacheNever, nil
	case "until-reset", "until_reset", "manual":
		return CacheUntilReset, nil
	default:
		return CacheNever, fmt.Errorf("render: unknown cache policy %q", raw)
	}
}

// Resolver maps tags to implementations for one Kind.
type Resolver[T any] struct {
	kind       Kind
	namespaces []Namespace[T]
	policy     CachePolicy
	logger     logr.Logger

	mu    sync.RWMutex
	cache map[string]T
}

// ResolverOption configures a Resolver.
type ResolverOption[T any] func(*Resolver[T])

// WithNamespaces sets the search order. Nil entries are skipped.
func WithNamespaces[T any](namespaces ...Namespace[T]) ResolverOption[T] {
	return func(r *Resolver[T]) {
		r.namespaces = r.namespaces[:0]
		for _, ns := range namespaces {
			if ns != nil {
				r.namespaces = append(r.namespaces, ns)
			}
		}
	}
}

// WithCachePolicy sets the memoization policy. The default is CacheForever.
func WithCachePolicy[T any](policy CachePolicy) ResolverOption[T] {
	return func(r *Resolver[T]) {
		r.policy = policy
	}
}

// WithLogger sets the logger used for cache misses.
func WithLogger[T any](logger logr.Logger) ResolverOption[T] {
	return func(r *Resolver[T]) {
		r.logger = logger
	}
}

// NewResolver constructs a Resolver for kind.
func NewResolver[T any](kind Kind, opts ...ResolverOption[T]) *Resolver[T] {
	r := &Resolver[T]{
		kind:   kind,
		policy: CacheForever,
		logger: logr.Discard(),
		cache:  make(map[string]T),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Kind returns the resolver's kind.
func (r *Resolver[T]) Kind() Kind { return r.kind }

// Policy returns the resolver's cache policy.
func (r *Resolver[T]) Policy() CachePolicy { return r.policy }

// Find returns the implementation for tag from the first namespace holding
// it. Exhausting every namespace yields *UnknownTypeError.
func (r *Resolver[T]) Find(tag string) (T, error) {
	var zero T
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return zero, &UnknownTypeError{Kind: r.kind, Tag: tag}
	}

	if r.policy != CacheNever {
		r.mu.RLock()
		impl, ok := r.cache[tag]
		r.mu.RUnlock()
		if ok {
			return impl, nil
		}
	}

	impl, index, err := r.lookup(tag)
	if err != nil {
		return zero, err
	}
	r.logger.V(1).Info("resolved renderer", "kind", string(r.kind), "tag", tag, "namespace", index, "policy", r.policy.String())

	if r.policy != CacheNever {
		r.mu.Lock()
		if cached, ok := r.cache[tag]; ok {
			impl = cached
		} else {
			r.cache[tag] = impl
		}
		r.mu.Unlock()
	}
	return impl, nil
}

func (r *Resolver[T]) lookup(tag string) (T, int, error) {
	var zero T
	for index, ns := range r.namespaces {
		impl, err := ns.Lookup(tag)
		if err == nil {
			return impl, index, nil
		}
		if errors.Is(err, ErrNotFound) {
			continue
		}
		return zero, index, fmt.Errorf("render: resolve %s %q: %w", r.kind, tag, err)
	}
	return zero, -1, &UnknownTypeError{Kind: r.kind, Tag: tag}
}

// Reset drops memoized resolutions under CacheUntilReset. Under the other
// policies it does nothing.
func (r *Resolver[T]) Reset() {
	if r.policy != CacheUntilReset {
		return
	}
	r.mu.Lock()
	r.cache = make(map[string]T)
	r.mu.Unlock()
}
