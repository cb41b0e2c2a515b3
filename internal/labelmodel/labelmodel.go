// Package labelmodel estimates, without any ground-truth labels, how reliable
// each labeling function is and how likely the positive class is, purely from
// the agreement structure of the vote matrix. It then converts each item's
// votes into a posterior probability of the positive class.
//
// The generative model: the true label Y ∈ {0,1} is latent with prior p; each
// function abstains with probability 1−coverage (measured empirically) and
// otherwise votes correctly with probability α and incorrectly with 1−α,
// conditionally independently given Y. Estimation is an EM-style fixed point
// alternating posterior computation with posterior-weighted accuracy updates.
package labelmodel

import (
	"math"
	"math/rand"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/laraDundar/pvo-limburg/internal/labeling"
)

// Options controls the fit. Zero values take the defaults noted per field.
type Options struct {
	// Epochs bounds the fixed-point iteration (default 200). A fit that has
	// not converged within Epochs returns the best parameters reached; that
	// is not an error.
	Epochs int
	// Tol stops iteration early once the largest parameter change in an
	// epoch falls below it (default 1e-6).
	Tol float64
	// Seed drives the deterministic jitter that breaks the symmetry of the
	// uniform accuracy initialization (default 123). The same data and seed
	// always reproduce the same fit.
	Seed int64
	// InitAccuracy is the neutral above-chance starting accuracy for every
	// function (default 0.7).
	InitAccuracy float64
	// ClipEps keeps estimated probabilities away from degenerate values:
	// accuracies stay within [0.5+ClipEps, 1−ClipEps], the prior within
	// (ClipEps, 1−ClipEps) (default 1e-3).
	ClipEps float64
}

func (o Options) withDefaults() Options {
	if o.Epochs <= 0 {
		o.Epochs = 200
	}
	if o.Tol <= 0 {
		o.Tol = 1e-6
	}
	if o.Seed == 0 {
		o.Seed = 123
	}
	if o.InitAccuracy <= 0 {
		o.InitAccuracy = 0.7
	}
	if o.ClipEps <= 0 {
		o.ClipEps = 1e-3
	}
	return o
}

// Model holds the fitted parameters. It is read-only after Fit and safe to
// share across concurrent posterior evaluations.
type Model struct {
	alpha      []float64
	coverage   []float64
	prior      float64
	posteriors []float64
	converged  bool
	epochsRun  int
}

// Fit estimates function accuracies and the class prior from an n-items ×
// m-functions vote matrix. Matrix shape or vote-range violations are caller
// bugs and fail fast; an all-abstain matrix is valid and degrades to
// predict-the-prior behavior.
func Fit(m labeling.Matrix, opts Options) (*Model, error) {
	if err := m.Validate(); err != nil {
		return nil, eris.Wrap(err, "labelmodel: fit")
	}
	opts = opts.withDefaults()

	n := len(m)
	width := len(m[0])

	coverage, votesCast := columnCoverage(m)

	// Prior init: empirical positive fraction across all non-abstaining
	// votes, 0.5 when nothing voted at all.
	prior := 0.5
	if votesCast > 0 {
		positives := 0
		for _, row := range m {
			for _, v := range row {
				if v == labeling.SME {
					positives++
				}
			}
		}
		prior = float64(positives) / float64(votesCast)
	}
	prior = clip(prior, opts.ClipEps, 1-opts.ClipEps)

	// Accuracy init: neutral above-chance value with a tiny seeded jitter so
	// identically-voting functions can still separate.
	rng := rand.New(rand.NewSource(opts.Seed))
	alpha := make([]float64, width)
	for j := range alpha {
		alpha[j] = clip(opts.InitAccuracy+0.01*(rng.Float64()-0.5), 0.5+opts.ClipEps, 1-opts.ClipEps)
	}

	model := &Model{alpha: alpha, coverage: coverage, prior: prior}
	posteriors := make([]float64, n)

	for epoch := 0; epoch < opts.Epochs; epoch++ {
		// E-step: posterior per row under current parameters.
		for i, row := range m {
			posteriors[i] = model.Posterior(row)
		}

		// M-step: posterior-weighted agreement per function, mean posterior
		// as the new prior.
		maxDelta := 0.0
		for j := 0; j < width; j++ {
			if coverage[j] == 0 {
				continue // nothing to learn from a silent function
			}
			agree, count := 0.0, 0
			for i, row := range m {
				switch row[j] {
				case labeling.SME:
					agree += posteriors[i]
					count++
				case labeling.NotSME:
					agree += 1 - posteriors[i]
					count++
				}
			}
			next := clip(agree/float64(count), 0.5+opts.ClipEps, 1-opts.ClipEps)
			maxDelta = math.Max(maxDelta, math.Abs(next-model.alpha[j]))
			model.alpha[j] = next
		}

		sum := 0.0
		for _, q := range posteriors {
			sum += q
		}
		nextPrior := clip(sum/float64(n), opts.ClipEps, 1-opts.ClipEps)
		maxDelta = math.Max(maxDelta, math.Abs(nextPrior-model.prior))
		model.prior = nextPrior

		model.epochsRun = epoch + 1
		if maxDelta < opts.Tol {
			model.converged = true
			break
		}
	}

	// Final posteriors under the final parameters.
	for i, row := range m {
		posteriors[i] = model.Posterior(row)
	}
	model.posteriors = posteriors

	zap.L().Debug("labelmodel: fit complete",
		zap.Int("items", n),
		zap.Int("functions", width),
		zap.Int("epochs_run", model.epochsRun),
		zap.Bool("converged", model.converged),
		zap.Float64("prior", model.prior),
	)

	return model, nil
}

// Posterior computes P(Y=1 | row) under the fitted parameters. Each
// non-abstaining vote contributes its log-likelihood ratio to the prior
// log-odds; a row where every function abstained returns the prior exactly.
func (mo *Model) Posterior(row []labeling.Vote) float64 {
	logOdds := math.Log(mo.prior / (1 - mo.prior))
	voted := false
	for j, v := range row {
		if j >= len(mo.alpha) || v == labeling.Abstain {
			continue
		}
		voted = true
		llr := math.Log(mo.alpha[j] / (1 - mo.alpha[j]))
		if v == labeling.SME {
			logOdds += llr
		} else {
			logOdds -= llr
		}
	}
	if !voted {
		return mo.prior
	}
	return sigmoid(logOdds)
}

// Posteriors returns P(Y=1 | row) for every row of a matrix with the same
// function layout the model was fitted on.
func (mo *Model) Posteriors(m labeling.Matrix) []float64 {
	out := make([]float64, len(m))
	for i, row := range m {
		out[i] = mo.Posterior(row)
	}
	return out
}

// FitPosteriors returns the per-item posteriors of the training matrix, in
// row order.
func (mo *Model) FitPosteriors() []float64 {
	out := make([]float64, len(mo.posteriors))
	copy(out, mo.posteriors)
	return out
}

// Accuracies returns the fitted per-function class-conditional accuracies.
func (mo *Model) Accuracies() []float64 {
	out := make([]float64, len(mo.alpha))
	copy(out, mo.alpha)
	return out
}

// Coverage returns the empirical per-function non-abstain rates.
func (mo *Model) Coverage() []float64 {
	out := make([]float64, len(mo.coverage))
	copy(out, mo.coverage)
	return out
}

// Prior returns the fitted class prior P(Y=1).
func (mo *Model) Prior() float64 { return mo.prior }

// Converged reports whether the fit reached the tolerance before the epoch
// budget ran out.
func (mo *Model) Converged() bool { return mo.converged }

// EpochsRun reports how many epochs the fit performed.
func (mo *Model) EpochsRun() int { return mo.epochsRun }

func columnCoverage(m labeling.Matrix) ([]float64, int) {
	n := len(m)
	width := len(m[0])
	coverage := make([]float64, width)
	total := 0
	for j := 0; j < width; j++ {
		count := 0
		for _, row := range m {
			if row[j] != labeling.Abstain {
				count++
			}
		}
		coverage[j] = float64(count) / float64(n)
		total += count
	}
	return coverage, total
}

func clip(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

func sigmoid(x float64) float64 {
	if x >= 0 {
		return 1 / (1 + math.Exp(-x))
	}
	e := math.Exp(x)
	return e / (1 + e)
}
