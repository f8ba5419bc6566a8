package testsupport

import (
	"sync"

	"github.com/goliatone/go-formbuilder/pkg/render"
)

// CountingNamespace is a render namespace that counts lookups per tag so tests
// can observe resolver caching.
type CountingNamespace[T any] struct {
	mu      sync.Mutex
	entries map[string]T
	counts  map[string]int
}

// NewCountingNamespace wraps entries. The map is copied.
func NewCountingNamespace[T any](entries map[string]T) *CountingNamespace[T] {
	copied := make(map[string]T, len(entries))
	for tag, impl := range entries {
		copied[tag] = impl
	}
	return &CountingNamespace[T]{entries: copied, counts: make(map[string]int)}
}

// Lookup implements render.Namespace.
func (p *CountingNamespace[T]) Lookup(tag string) (T, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.counts[tag]++
	impl, ok := p.entries[tag]
	if !ok {
		var zero T
		return zero, render.ErrNotFound
	}
	return impl, nil
}

// Lookups returns how many times tag was looked up.
func (p *CountingNamespace[T]) Lookups(tag string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.counts[tag]
}

// Total returns the number of lookups across all tags.
func (p *CountingNamespace[T]) Total() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	total := 0
	for _, count := range p.counts {
		total += count
	}
	return total
}
