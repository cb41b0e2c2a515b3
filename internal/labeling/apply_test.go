package labeling

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// staticFunc votes by exact item match and abstains otherwise.
type staticFunc struct {
	name  string
	votes map[string]Vote
}

func (f *staticFunc) Name() string { return f.name }

func (f *staticFunc) Evaluate(text string) Vote {
	if v, ok := f.votes[text]; ok {
		return v
	}
	return Abstain
}

func TestApply_BuildsMatrixInItemAndFuncOrder(t *testing.T) {
	items := []string{"a", "b", "c"}
	funcs := []Func{
		&staticFunc{name: "pos", votes: map[string]Vote{"a": SME, "b": SME}},
		&staticFunc{name: "neg", votes: map[string]Vote{"a": NotSME, "c": NotSME}},
	}

	matrix, err := Apply(context.Background(), items, funcs, 4)
	require.NoError(t, err)

	assert.Equal(t, Matrix{
		{SME, NotSME},
		{SME, Abstain},
		{Abstain, NotSME},
	}, matrix)
}

func TestApply_DeterministicAcrossParallelism(t *testing.T) {
	items := make([]string, 100)
	for i := range items {
		items[i] = string(rune('a' + i%26))
	}
	funcs := Builtin()

	serial, err := Apply(context.Background(), items, funcs, 1)
	require.NoError(t, err)
	parallel, err := Apply(context.Background(), items, funcs, 8)
	require.NoError(t, err)

	assert.Equal(t, serial, parallel)
}

func TestApply_NoFunctionsIsError(t *testing.T) {
	_, err := Apply(context.Background(), []string{"a"}, nil, 1)
	assert.Error(t, err)
}

func TestApply_EmptyItemsYieldsEmptyMatrix(t *testing.T) {
	matrix, err := Apply(context.Background(), nil, Builtin(), 1)
	require.NoError(t, err)
	assert.Empty(t, matrix)
}

func TestMatrixValidate(t *testing.T) {
	assert.Error(t, Matrix{}.Validate())
	assert.Error(t, Matrix{{}}.Validate())
	assert.Error(t, Matrix{{SME, NotSME}, {SME}}.Validate())
	assert.Error(t, Matrix{{Vote(7)}}.Validate())
	assert.NoError(t, Matrix{{SME, NotSME, Abstain}}.Validate())
}

func TestCoverageReport(t *testing.T) {
	funcs := []Func{
		&staticFunc{name: "f0"},
		&staticFunc{name: "f1"},
		&staticFunc{name: "f2"},
	}
	matrix := Matrix{
		{SME, NotSME, Abstain},     // f0 and f1 overlap and conflict
		{SME, Abstain, Abstain},    // f0 alone
		{Abstain, Abstain, Abstain},
		{NotSME, NotSME, Abstain},  // f0 and f1 overlap, agree
	}

	stats := CoverageReport(matrix, funcs)
	require.Len(t, stats, 3)

	f0 := stats[0]
	assert.Equal(t, "f0", f0.Name)
	assert.InDelta(t, 0.75, f0.Coverage, 1e-12)
	assert.InDelta(t, 0.5, f0.PositiveRate, 1e-12)
	assert.InDelta(t, 0.25, f0.NegativeRate, 1e-12)
	assert.InDelta(t, 0.5, f0.Overlap, 1e-12)
	assert.InDelta(t, 0.25, f0.Conflict, 1e-12)

	f2 := stats[2]
	assert.Zero(t, f2.Coverage)
	assert.Zero(t, f2.Overlap)
	assert.Zero(t, f2.Conflict)
}

func TestCoverageReport_EmptyMatrix(t *testing.T) {
	stats := CoverageReport(nil, []Func{&staticFunc{name: "f0"}})
	require.Len(t, stats, 1)
	assert.Equal(t, "f0", stats[0].Name)
	assert.Zero(t, stats[0].Coverage)
}
