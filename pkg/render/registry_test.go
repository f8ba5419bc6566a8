package render_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/testsupport"
)

type renderer struct{ name string }

func TestResolverSearchOrder(t *testing.T) {
	override := render.NewMapNamespace[*renderer]("override")
	override.MustRegister("string", &renderer{name: "override-string"})

	defaults := render.NewMapNamespace[*renderer]("defaults")
	defaults.MustRegister("string", &renderer{name: "default-string"})
	defaults.MustRegister("select", &renderer{name: "default-select"})

	resolver := render.NewResolver(render.KindInput, render.WithNamespaces[*renderer](override, nil, defaults))

	got, err := resolver.Find("string")
	if err != nil {
		t.Fatalf("Find(string): %v", err)
	}
	if got.name != "override-string" {
		t.Fatalf("expected override to win, got %q", got.name)
	}

	got, err = resolver.Find("select")
	if err != nil {
		t.Fatalf("Find(select): %v", err)
	}
	if got.name != "default-select" {
		t.Fatalf("expected fallback to defaults, got %q", got.name)
	}
}

func TestResolverUnknownType(t *testing.T) {
	resolver := render.NewResolver(render.KindAction,
		render.WithNamespaces[*renderer](render.NewMapNamespace[*renderer]("defaults")))

	_, err := resolver.Find("teleport")
	if err == nil {
		t.Fatalf("expected error for unknown tag")
	}
	if !errors.Is(err, render.ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
	if errors.Is(err, render.ErrNotFound) {
		t.Fatalf("namespace not-found error must not leak: %v", err)
	}
	var unknown *render.UnknownTypeError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected *UnknownTypeError, got %T", err)
	}
	if unknown.Kind != render.KindAction || unknown.Tag != "teleport" {
		t.Fatalf("unexpected error fields: %+v", unknown)
	}
	if want := `render: unknown action type "teleport"`; err.Error() != want {
		t.Fatalf("error message = %q, want %q", err.Error(), want)
	}
}

func TestResolverNamespaceErrorAborts(t *testing.T) {
	boom := errors.New("boom")
	failing := render.NamespaceFunc[*renderer](func(string) (*renderer, error) { return nil, boom })
	defaults := render.NewMapNamespace[*renderer]("defaults")
	defaults.MustRegister("string", &renderer{})

	resolver := render.NewResolver(render.KindInput, render.WithNamespaces[*renderer](failing, defaults))
	if _, err := resolver.Find("string"); !errors.Is(err, boom) {
		t.Fatalf("expected namespace error to propagate, got %v", err)
	}
}

func TestResolverCachePolicies(t *testing.T) {
	cases := []struct {
		name            string
		policy          render.CachePolicy
		wantLookups     int
		wantAfterReset  int
		resetDropsCache bool
	}{
		{name: "never", policy: render.CacheNever, wantLookups: 2, wantAfterReset: 3},
		{name: "forever", policy: render.CacheForever, wantLookups: 1, wantAfterReset: 1},
		{name: "until reset", policy: render.CacheUntilReset, wantLookups: 1, wantAfterReset: 2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			impl := &renderer{name: "string"}
			namespace := testsupport.NewCountingNamespace(map[string]*renderer{"string": impl})
			resolver := render.NewResolver(render.KindInput,
				render.WithNamespaces[*renderer](namespace),
				render.WithCachePolicy[*renderer](tc.policy))

			first, err := resolver.Find("string")
			if err != nil {
				t.Fatalf("first Find: %v", err)
			}
			second, err := resolver.Find("string")
			if err != nil {
				t.Fatalf("second Find: %v", err)
			}
			if first != second {
				t.Fatalf("expected identical implementation across calls")
			}
			if got := namespace.Lookups("string"); got != tc.wantLookups {
				t.Fatalf("lookups = %d, want %d", got, tc.wantLookups)
			}

			resolver.Reset()
			if _, err := resolver.Find("string"); err != nil {
				t.Fatalf("Find after reset: %v", err)
			}
			if got := namespace.Lookups("string"); got != tc.wantAfterReset {
				t.Fatalf("lookups after reset = %d, want %d", got, tc.wantAfterReset)
			}
		})
	}
}

func TestResolverDoesNotCacheMisses(t *testing.T) {
	namespace := testsupport.NewCountingNamespace(map[string]*renderer{})
	resolver := render.NewResolver(render.KindInput, render.WithNamespaces[*renderer](namespace))

	for i := 0; i < 2; i++ {
		if _, err := resolver.Find("missing"); !errors.Is(err, render.ErrUnknownType) {
			t.Fatalf("expected unknown type, got %v", err)
		}
	}
	if got := namespace.Lookups("missing"); got != 2 {
		t.Fatalf("expected misses to look up again, got %d lookups", got)
	}
}

func TestMapNamespaceRegister(t *testing.T) {
	ns := render.NewMapNamespace[int]("defaults")
	if err := ns.Register("string", 1); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := ns.Register("string", 2); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
	if err := ns.Register("  ", 3); err == nil {
		t.Fatalf("expected blank tag to fail")
	}
	ns.MustRegister("select", 4)
	if got := ns.Tags(); len(got) != 2 || got[0] != "select" || got[1] != "string" {
		t.Fatalf("unexpected tags: %v", got)
	}
}

func TestParseCachePolicy(t *testing.T) {
	cases := map[string]render.CachePolicy{
		"":            render.CacheForever,
		"forever":     render.CacheForever,
		"never":       render.CacheNever,
		"until-reset": render.CacheUntilReset,
		"manual":      render.CacheUntilReset,
	}
	for raw, want := range cases {
		got, err := render.ParseCachePolicy(raw)
		if err != nil {
			t.Fatalf("ParseCachePolicy(%q): %v", raw, err)
		}
		if got != want {
			t.Fatalf("ParseCachePolicy(%q) = %v, want %v", raw, got, want)
		}
	}
	if _, err := render.ParseCachePolicy("sometimes"); err == nil {
		t.Fatalf("expected unknown policy to fail")
	}
}
