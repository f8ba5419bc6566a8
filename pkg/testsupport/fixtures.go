package testsupport

import "github.com/goliatone/go-formbuilder/pkg/localize"

// Translations builds an in-memory catalog from locale → flat key → value
// maps. Keys are absolute (e.g. "formbuilder.labels.post.title").
func Translations(entries map[string]map[string]string) *localize.Catalog {
	catalog := localize.NewCatalog()
	for locale, values := range entries {
		for key, value := range values {
			catalog.Set(locale, key, value)
		}
	}
	return catalog
}
