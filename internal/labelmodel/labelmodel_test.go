package labelmodel

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laraDundar/pvo-limburg/internal/labeling"
)

// synthesize draws a matrix from the assumed generative model: prior p,
// per-function coverage and accuracy, conditionally independent given the
// latent label.
func synthesize(rng *rand.Rand, n int, prior float64, coverage, accuracy []float64) labeling.Matrix {
	m := make(labeling.Matrix, n)
	for i := range m {
		y := labeling.NotSME
		if rng.Float64() < prior {
			y = labeling.SME
		}
		row := make([]labeling.Vote, len(accuracy))
		for j := range row {
			switch {
			case rng.Float64() >= coverage[j]:
				row[j] = labeling.Abstain
			case rng.Float64() < accuracy[j]:
				row[j] = y
			default:
				row[j] = 1 - y
			}
		}
		m[i] = row
	}
	return m
}

func TestFit_RecoversGenerativeParameters(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	accuracy := []float64{0.9, 0.85, 0.8, 0.75, 0.7, 0.88}
	coverage := []float64{0.7, 0.7, 0.7, 0.7, 0.7, 0.7}
	prior := 0.35

	m := synthesize(rng, 6000, prior, coverage, accuracy)

	model, err := Fit(m, Options{})
	require.NoError(t, err)

	assert.InDelta(t, prior, model.Prior(), 0.05)
	for j, want := range accuracy {
		assert.InDelta(t, want, model.Accuracies()[j], 0.05, "accuracy of function %d", j)
	}
	for j, want := range coverage {
		assert.InDelta(t, want, model.Coverage()[j], 0.05, "coverage of function %d", j)
	}
}

func TestFit_Reproducible(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	m := synthesize(rng, 500, 0.4, []float64{0.8, 0.8, 0.6}, []float64{0.85, 0.7, 0.75})

	a, err := Fit(m, Options{Seed: 123})
	require.NoError(t, err)
	b, err := Fit(m, Options{Seed: 123})
	require.NoError(t, err)

	assert.Equal(t, a.Accuracies(), b.Accuracies())
	assert.Equal(t, a.Prior(), b.Prior())
	assert.Equal(t, a.FitPosteriors(), b.FitPosteriors())
}

func TestFit_AllAbstainRowYieldsPriorExactly(t *testing.T) {
	m := labeling.Matrix{
		{labeling.SME, labeling.SME, labeling.Abstain},
		{labeling.SME, labeling.Abstain, labeling.SME},
		{labeling.NotSME, labeling.NotSME, labeling.NotSME},
		{labeling.Abstain, labeling.Abstain, labeling.Abstain},
	}

	model, err := Fit(m, Options{})
	require.NoError(t, err)

	// The no-evidence row reports the fitted prior unmodified, whatever the
	// other rows voted.
	assert.Equal(t, model.Prior(), model.FitPosteriors()[3])
	assert.Equal(t, model.Prior(), model.Posterior([]labeling.Vote{labeling.Abstain, labeling.Abstain, labeling.Abstain}))
}

func TestFit_AllAbstainMatrixPredictsPrior(t *testing.T) {
	row := []labeling.Vote{labeling.Abstain, labeling.Abstain}
	m := labeling.Matrix{row, row, row}

	model, err := Fit(m, Options{})
	require.NoError(t, err)

	// No signal at all: prior stays at 0.5 and every posterior equals it.
	assert.InDelta(t, 0.5, model.Prior(), 1e-9)
	for _, q := range model.FitPosteriors() {
		assert.Equal(t, model.Prior(), q)
	}
	assert.Equal(t, []float64{0, 0}, model.Coverage())
}

func TestFit_ZeroCoverageFunctionIsStable(t *testing.T) {
	m := labeling.Matrix{
		{labeling.SME, labeling.Abstain},
		{labeling.SME, labeling.Abstain},
		{labeling.NotSME, labeling.Abstain},
	}

	model, err := Fit(m, Options{InitAccuracy: 0.7})
	require.NoError(t, err)

	// The silent function keeps its initial accuracy and contributes nothing.
	assert.InDelta(t, 0.7, model.Accuracies()[1], 0.01)
	assert.Zero(t, model.Coverage()[1])
}

func TestPosterior_MonotoneInCorrectPositiveVotes(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	m := synthesize(rng, 800, 0.5, []float64{0.8, 0.8, 0.8, 0.8}, []float64{0.85, 0.75, 0.7, 0.9})

	model, err := Fit(m, Options{})
	require.NoError(t, err)

	row := []labeling.Vote{labeling.SME, labeling.Abstain, labeling.NotSME, labeling.Abstain}
	base := model.Posterior(row)

	// Turning an abstention into a positive vote never lowers the posterior.
	row[1] = labeling.SME
	withVote := model.Posterior(row)
	assert.GreaterOrEqual(t, withVote, base)

	row[3] = labeling.SME
	assert.GreaterOrEqual(t, model.Posterior(row), withVote)
}

func TestFit_ClipKeepsParametersInRange(t *testing.T) {
	// Perfectly agreeing functions push accuracies toward 1; the clip must
	// hold them inside (0.5, 1).
	row := []labeling.Vote{labeling.SME, labeling.SME}
	m := labeling.Matrix{row, row, row, row, row, row}

	model, err := Fit(m, Options{})
	require.NoError(t, err)

	for _, a := range model.Accuracies() {
		assert.Greater(t, a, 0.5)
		assert.Less(t, a, 1.0)
	}
	assert.Greater(t, model.Prior(), 0.0)
	assert.Less(t, model.Prior(), 1.0)
}

func TestFit_ValidationErrors(t *testing.T) {
	_, err := Fit(nil, Options{})
	assert.Error(t, err)

	_, err = Fit(labeling.Matrix{{labeling.SME}, {labeling.SME, labeling.NotSME}}, Options{})
	assert.Error(t, err)

	_, err = Fit(labeling.Matrix{{labeling.Vote(3)}}, Options{})
	assert.Error(t, err)
}

func TestFit_ConvergesWithinEpochBudget(t *testing.T) {
	rng := rand.New(rand.NewSource(21))
	m := synthesize(rng, 1000, 0.4, []float64{0.8, 0.8, 0.8}, []float64{0.85, 0.8, 0.75})

	model, err := Fit(m, Options{Epochs: 200, Tol: 1e-6})
	require.NoError(t, err)

	assert.True(t, model.Converged())
	assert.LessOrEqual(t, model.EpochsRun(), 200)

	// A one-epoch budget is not an error; it just returns the best reached.
	model, err = Fit(m, Options{Epochs: 1})
	require.NoError(t, err)
	assert.False(t, model.Converged())
	assert.Equal(t, 1, model.EpochsRun())
}
