package labeling

import (
	"context"
	"runtime"

	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"
)

// Matrix is an n-items × m-functions table of votes. Row i holds item i's
// votes in function order; every cell is Abstain, NotSME, or SME.
type Matrix [][]Vote

// Validate checks the matrix invariants: rectangular shape and every cell in
// {-1, 0, 1}. Violations are caller bugs.
func (m Matrix) Validate() error {
	if len(m) == 0 {
		return eris.New("labeling: empty matrix")
	}
	width := len(m[0])
	if width == 0 {
		return eris.New("labeling: matrix has no functions")
	}
	for i, row := range m {
		if len(row) != width {
			return eris.Errorf("labeling: ragged matrix: row %d has %d votes, want %d", i, len(row), width)
		}
		for j, v := range row {
			if !v.Valid() {
				return eris.Errorf("labeling: invalid vote %d at row %d func %d", int8(v), i, j)
			}
		}
	}
	return nil
}

// Apply evaluates every function against every item and returns the vote
// matrix. Evaluation is read-only with respect to all shared state, so items
// are processed in parallel; the output ordering (row i = item i, column j =
// funcs[j]) is independent of scheduling. parallelism <= 0 uses GOMAXPROCS.
func Apply(ctx context.Context, items []string, funcs []Func, parallelism int) (Matrix, error) {
	if len(funcs) == 0 {
		return nil, eris.New("labeling: no labeling functions configured")
	}
	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}

	matrix := make(Matrix, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for i, item := range items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return eris.Wrap(err, "labeling: apply cancelled")
			}
			row := make([]Vote, len(funcs))
			for j, fn := range funcs {
				v := fn.Evaluate(item)
				if !v.Valid() {
					return eris.Errorf("labeling: function %q returned invalid vote %d", fn.Name(), int8(v))
				}
				row[j] = v
			}
			matrix[i] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return matrix, nil
}

// FuncStats summarizes one function's voting behavior over a batch. Rates are
// fractions of all items. Overlap counts items where the function voted and
// at least one other function also voted; Conflict counts items where another
// function voted the opposite class.
type FuncStats struct {
	Name         string  `json:"name"`
	Coverage     float64 `json:"coverage"`
	PositiveRate float64 `json:"positive_rate"`
	NegativeRate float64 `json:"negative_rate"`
	Overlap      float64 `json:"overlap"`
	Conflict     float64 `json:"conflict"`
}

// CoverageReport computes per-function diagnostics from a vote matrix. It is
// a debugging aid for function quality and feeds nothing downstream.
func CoverageReport(m Matrix, funcs []Func) []FuncStats {
	stats := make([]FuncStats, len(funcs))
	n := len(m)
	if n == 0 {
		for j, fn := range funcs {
			stats[j].Name = fn.Name()
		}
		return stats
	}

	for j, fn := range funcs {
		var covered, pos, neg, overlap, conflict int
		for _, row := range m {
			v := row[j]
			if v == Abstain {
				continue
			}
			covered++
			if v == SME {
				pos++
			} else {
				neg++
			}
			hasOverlap, hasConflict := false, false
			for k, other := range row {
				if k == j || other == Abstain {
					continue
				}
				hasOverlap = true
				if other != v {
					hasConflict = true
					break
				}
			}
			if hasOverlap {
				overlap++
			}
			if hasConflict {
				conflict++
			}
		}
		stats[j] = FuncStats{
			Name:         fn.Name(),
			Coverage:     float64(covered) / float64(n),
			PositiveRate: float64(pos) / float64(n),
			NegativeRate: float64(neg) / float64(n),
			Overlap:      float64(overlap) / float64(n),
			Conflict:     float64(conflict) / float64(n),
		}
	}
	return stats
}
