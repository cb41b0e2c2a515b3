package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laraDundar/pvo-limburg/internal/config"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadArticles(t *testing.T) {
	path := writeFile(t, "articles.json", `[
		{"id": "a1", "title": "MKB nieuws", "locations": ["Maastricht"]},
		{"id": "a2", "title": "Sport", "summary": "voetbal"}
	]`)

	articles, err := loadArticles(path)
	require.NoError(t, err)
	require.Len(t, articles, 2)
	assert.Equal(t, "a1", articles[0].ID)
	assert.Equal(t, []string{"Maastricht"}, articles[0].Locations)
	assert.Equal(t, "voetbal", articles[1].Summary)
}

func TestLoadArticles_Errors(t *testing.T) {
	_, err := loadArticles(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := writeFile(t, "bad.json", "{not json")
	_, err = loadArticles(path)
	assert.Error(t, err)
}

func TestBuildIndex(t *testing.T) {
	tsv := strings.Join([]string{
		strings.Join([]string{"1", "Maastricht", "Maastricht", "Mestreech", "50.8", "5.7", "P", "PPL", "NL"}, "\t"),
		strings.Join([]string{"2", "Aachen", "Aachen", "", "50.7", "6.1", "P", "PPL", "DE"}, "\t"),
	}, "\n")
	path := writeFile(t, "region.txt", tsv)

	gzCfg := config.GazetteerConfig{
		Countries:      []string{"NL", "BE", "DE"},
		FeatureClasses: []string{"P", "A"},
		KeepAlternates: true,
	}

	idx, err := buildIndex(gzCfg, []string{path})
	require.NoError(t, err)
	assert.Equal(t, 3, idx.Len())

	cc, ok := idx.Resolve("mestreech")
	require.True(t, ok)
	assert.Equal(t, "NL", cc)
}

func TestBuildIndex_NoFiles(t *testing.T) {
	_, err := buildIndex(config.GazetteerConfig{}, nil)
	assert.Error(t, err)
}

func TestBuildFuncs_WithLexicon(t *testing.T) {
	path := writeFile(t, "lexicon.yaml", `
- name: extra
  label: sme
  any: ['\bextra\b']
`)

	funcs, err := buildFuncs(path)
	require.NoError(t, err)
	assert.Len(t, funcs, 11)
	assert.Equal(t, "extra", funcs[10].Name())
}

func TestBuildFuncs_BuiltinOnly(t *testing.T) {
	funcs, err := buildFuncs("")
	require.NoError(t, err)
	assert.Len(t, funcs, 10)
}
