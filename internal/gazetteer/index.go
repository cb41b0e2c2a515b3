package gazetteer

import "strings"

// Index is an immutable name→country lookup built once per process and shared
// read-only across all vote evaluations.
type Index struct {
	byName map[string]string
}

// Build merges entry tables into one Index in argument order. A name that
// collides across tables keeps the assignment from the last table merged
// (last writer wins), so merge order matters for cross-border names.
func Build(tables ...[]Entry) *Index {
	byName := make(map[string]string)
	for _, table := range tables {
		for _, e := range table {
			byName[e.Name] = e.Country
		}
	}
	return &Index{byName: byName}
}

// Resolve looks up a place name, case-insensitively and exactly — no fuzzy or
// partial matching. The second return is false when the name is unknown.
func (idx *Index) Resolve(name string) (string, bool) {
	cc, ok := idx.byName[strings.ToLower(strings.TrimSpace(name))]
	return cc, ok
}

// Len reports the number of distinct names in the index.
func (idx *Index) Len() int { return len(idx.byName) }

// CountryCounts reports how many names resolve to each country code.
func (idx *Index) CountryCounts() map[string]int {
	counts := make(map[string]int)
	for _, cc := range idx.byName {
		counts[cc]++
	}
	return counts
}
