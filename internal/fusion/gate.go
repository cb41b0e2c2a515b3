// Package fusion wires the gazetteer, geographic voting, labeling, and label
// model stages into one batch pass that turns raw articles into fusion
// results, and applies the confidence gates that turn continuous scores into
// accept/uncertain decisions.
package fusion

// Gate converts a continuous score into a binary label: 1 when score meets or
// exceeds threshold, 0 otherwise. The boundary is inclusive. Callers keep the
// score alongside the label so consumers can re-threshold without
// recomputation.
func Gate(score, threshold float64) int {
	if score >= threshold {
		return 1
	}
	return 0
}
