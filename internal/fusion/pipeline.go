package fusion

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/laraDundar/pvo-limburg/internal/gazetteer"
	"github.com/laraDundar/pvo-limburg/internal/geovote"
	"github.com/laraDundar/pvo-limburg/internal/labeling"
	"github.com/laraDundar/pvo-limburg/internal/labelmodel"
	"github.com/laraDundar/pvo-limburg/internal/model"
	"github.com/laraDundar/pvo-limburg/internal/textprep"
)

// Pipeline holds the configuration for one fusion pass. Index and Funcs are
// shared read-only across all item evaluations; the label model is fitted
// once per batch and must be re-fitted whenever the function set or the data
// changes.
type Pipeline struct {
	Index        *gazetteer.Index
	Targets      []string
	GeoThreshold float64
	SMEThreshold float64
	Funcs        []labeling.Func
	ModelOpts    labelmodel.Options
	Parallelism  int
}

// Validate fails fast on configuration that can only be a caller bug.
func (p *Pipeline) Validate() error {
	if p.Index == nil {
		return eris.New("fusion: pipeline has no gazetteer index")
	}
	if len(p.Targets) == 0 {
		return eris.New("fusion: pipeline has no target countries")
	}
	if len(p.Funcs) == 0 {
		return eris.New("fusion: pipeline has no labeling functions")
	}
	if p.GeoThreshold < 0 || p.GeoThreshold > 1 {
		return eris.Errorf("fusion: geo threshold %v outside [0,1]", p.GeoThreshold)
	}
	if p.SMEThreshold < 0 || p.SMEThreshold > 1 {
		return eris.Errorf("fusion: sme threshold %v outside [0,1]", p.SMEThreshold)
	}
	return nil
}

// Run executes both fusion paths over a batch: the country vote per article,
// and the labeling-function matrix plus label-model fit for the SME
// posterior. Results are fresh immutable values in article order; the fitted
// model is returned for diagnostics.
func (p *Pipeline) Run(ctx context.Context, articles []model.Article) ([]model.FusionResult, *labelmodel.Model, error) {
	if err := p.Validate(); err != nil {
		return nil, nil, err
	}
	log := zap.L().With(zap.String("component", "fusion"))

	texts := make([]string, len(articles))
	for i, a := range articles {
		texts[i] = textprep.Clean(textprep.RawText(a))
	}

	matrix, err := labeling.Apply(ctx, texts, p.Funcs, p.Parallelism)
	if err != nil {
		return nil, nil, eris.Wrap(err, "fusion: apply labeling functions")
	}

	lm, err := labelmodel.Fit(matrix, p.ModelOpts)
	if err != nil {
		return nil, nil, eris.Wrap(err, "fusion: fit label model")
	}
	probs := lm.FitPosteriors()

	results := make([]model.FusionResult, len(articles))
	for i, a := range articles {
		geo := geovote.Vote(a.Locations, p.Index, p.Targets, p.GeoThreshold)
		results[i] = model.FusionResult{
			ArticleID:       a.ID,
			Country:         geo.Country,
			CountryScore:    geo.Confidence,
			CountryEvidence: geo.Evidence,
			SMEProbability:  probs[i],
			SMELabel:        Gate(probs[i], p.SMEThreshold),
		}
	}

	log.Info("fusion pass complete",
		zap.Int("articles", len(articles)),
		zap.Float64("prior", lm.Prior()),
		zap.Bool("model_converged", lm.Converged()),
	)

	return results, lm, nil
}

// FilterByCountry keeps only results confidently resolved to one of the
// target countries with a score of at least minConf; uncertain and
// low-confidence results drop out. An empty target set is a caller bug.
func FilterByCountry(results []model.FusionResult, targets []string, minConf float64) ([]model.FusionResult, error) {
	if len(targets) == 0 {
		return nil, eris.New("fusion: filter requires at least one target country")
	}
	targetSet := make(map[string]bool, len(targets))
	for _, cc := range targets {
		targetSet[cc] = true
	}

	kept := make([]model.FusionResult, 0, len(results))
	for _, r := range results {
		if targetSet[r.Country] && r.CountryScore >= minConf {
			kept = append(kept, r)
		}
	}

	zap.L().Info("fusion: country filter",
		zap.Int("kept", len(kept)),
		zap.Int("total", len(results)),
		zap.Float64("min_conf", minConf),
	)

	return kept, nil
}
