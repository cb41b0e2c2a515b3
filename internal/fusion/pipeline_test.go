package fusion

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laraDundar/pvo-limburg/internal/gazetteer"
	"github.com/laraDundar/pvo-limburg/internal/labeling"
	"github.com/laraDundar/pvo-limburg/internal/model"
)

func testPipeline() *Pipeline {
	return &Pipeline{
		Index: gazetteer.Build([]gazetteer.Entry{
			{Name: "maastricht", Country: "NL"},
			{Name: "aachen", Country: "DE"},
		}),
		Targets:      []string{"NL", "BE", "DE"},
		GeoThreshold: 0.6,
		SMEThreshold: 0.6,
		Funcs:        labeling.Builtin(),
	}
}

func TestPipeline_Run(t *testing.T) {
	articles := []model.Article{
		{
			ID:        "a1",
			Title:     "MKB in Limburg",
			Summary:   "Ondernemers in Maastricht investeren in horeca",
			Locations: []string{"Maastricht", "Maastricht", "Aachen"},
		},
		{
			ID:        "a2",
			Title:     "Voetbalwedstrijd",
			Summary:   "De wedstrijden van dit weekend",
			Locations: nil,
		},
		{
			ID:        "a3",
			FullText:  "<p>Een <b>bouwbedrijf</b> in Aachen groeit</p>",
			Locations: []string{"Aachen"},
		},
	}

	results, lm, err := testPipeline().Run(context.Background(), articles)
	require.NoError(t, err)
	require.NotNil(t, lm)
	require.Len(t, results, 3)

	a1 := results[0]
	assert.Equal(t, "a1", a1.ArticleID)
	assert.Equal(t, "NL", a1.Country)
	assert.InDelta(t, 2.0/3.0, a1.CountryScore, 1e-12)
	assert.Len(t, a1.CountryEvidence, 3)

	a2 := results[1]
	assert.Equal(t, model.CountryUncertain, a2.Country)
	assert.Zero(t, a2.CountryScore)
	assert.Empty(t, a2.CountryEvidence)

	a3 := results[2]
	assert.Equal(t, "DE", a3.Country)
	assert.Equal(t, 1.0, a3.CountryScore)

	for _, r := range results {
		assert.GreaterOrEqual(t, r.SMEProbability, 0.0)
		assert.LessOrEqual(t, r.SMEProbability, 1.0)
		assert.Equal(t, Gate(r.SMEProbability, 0.6), r.SMELabel)
	}
}

func TestPipeline_RunIsRepeatable(t *testing.T) {
	articles := []model.Article{
		{ID: "a1", Title: "MKB nieuws", Locations: []string{"Maastricht"}},
		{ID: "a2", Title: "ongeluk op de weg", Locations: []string{"Aachen"}},
	}

	p := testPipeline()
	first, _, err := p.Run(context.Background(), articles)
	require.NoError(t, err)
	second, _, err := p.Run(context.Background(), articles)
	require.NoError(t, err)

	// A re-run produces fresh but identical results.
	assert.Equal(t, first, second)
}

func TestPipeline_ValidateFailsFast(t *testing.T) {
	base := testPipeline()

	broken := *base
	broken.Index = nil
	_, _, err := broken.Run(context.Background(), nil)
	assert.Error(t, err)

	broken = *base
	broken.Targets = nil
	_, _, err = broken.Run(context.Background(), nil)
	assert.Error(t, err)

	broken = *base
	broken.Funcs = nil
	_, _, err = broken.Run(context.Background(), nil)
	assert.Error(t, err)

	broken = *base
	broken.GeoThreshold = 1.5
	_, _, err = broken.Run(context.Background(), nil)
	assert.Error(t, err)
}

func TestFilterByCountry(t *testing.T) {
	results := []model.FusionResult{
		{ArticleID: "keep", Country: "NL", CountryScore: 0.8},
		{ArticleID: "boundary", Country: "DE", CountryScore: 0.6},
		{ArticleID: "low", Country: "NL", CountryScore: 0.5},
		{ArticleID: "uncertain", Country: model.CountryUncertain, CountryScore: 0.9},
	}

	kept, err := FilterByCountry(results, []string{"NL", "BE", "DE"}, 0.6)
	require.NoError(t, err)
	require.Len(t, kept, 2)
	assert.Equal(t, "keep", kept[0].ArticleID)
	assert.Equal(t, "boundary", kept[1].ArticleID)
}

func TestFilterByCountry_NoTargetsIsError(t *testing.T) {
	_, err := FilterByCountry(nil, nil, 0.6)
	assert.Error(t, err)
}
