package timezones

import (
	"bufio"
	"embed"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
)

//go:embed data/iana_timezones.txt
var dataFS embed.FS

const defaultListPath = "data/iana_timezones.txt"

var (
	defaultOnce  sync.Once
	defaultZones []string
	defaultErr   error
)

// DefaultZones returns a copy of the embedded zone list, sorted.
func DefaultZones() ([]string, error) {
	defaultOnce.Do(func() {
		f, err := dataFS.Open(defaultListPath)
		if err != nil {
			defaultErr = err
			return
		}
		defer func() { _ = f.Close() }()
		defaultZones, defaultErr = LoadZones(f)
	})
	if defaultErr != nil {
		return nil, defaultErr
	}
	return append([]string(nil), defaultZones...), nil
}

// LoadZones reads one zone per line, skipping blanks, comments and
// duplicates.
func LoadZones(r io.Reader) ([]string, error) {
	if r == nil {
		return nil, fmt.Errorf("timezones: missing reader")
	}
	scanner := bufio.NewScanner(r)
	zones := make([]string, 0, 512)
	seen := map[string]struct{}{}
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		zones = append(zones, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	sort.Strings(zones)
	return zones, nil
}

// Search returns up to limit zones containing query, case-insensitively.
// Prefix matches sort first. An empty query matches everything only when
// topOnEmpty is set.
func Search(zones []string, query string, limit int, topOnEmpty bool) []string {
	if limit <= 0 {
		return nil
	}
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		if !topOnEmpty {
			return nil
		}
		return append([]string(nil), zones[:min(limit, len(zones))]...)
	}

	type match struct {
		zone   string
		prefix bool
	}
	var matches []match
	for _, zone := range zones {
		lower := strings.ToLower(zone)
		if strings.Contains(lower, query) {
			matches = append(matches, match{zone: zone, prefix: strings.HasPrefix(lower, query)})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].prefix != matches[j].prefix {
			return matches[i].prefix
		}
		return matches[i].zone < matches[j].zone
	})

	out := make([]string, 0, min(limit, len(matches)))
	for _, m := range matches[:min(limit, len(matches))] {
		out = append(out, m.zone)
	}
	return out
}
