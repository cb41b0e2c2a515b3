// Package labeling defines the rule-based labeling functions that cast noisy
// votes on whether an article concerns a small or medium enterprise, and the
// vote matrix machinery that applies a function set over a batch of items.
package labeling

import "fmt"

// Vote is one labeling function's opinion on one item.
type Vote int8

const (
	// Abstain means the function cannot decide for this item.
	Abstain Vote = -1
	// NotSME means the function believes the item is not about an SME.
	NotSME Vote = 0
	// SME means the function believes the item is about an SME.
	SME Vote = 1
)

// Valid reports whether v is one of the three defined votes.
func (v Vote) Valid() bool {
	return v == Abstain || v == NotSME || v == SME
}

func (v Vote) String() string {
	switch v {
	case Abstain:
		return "abstain"
	case NotSME:
		return "not_sme"
	case SME:
		return "sme"
	default:
		return fmt.Sprintf("vote(%d)", int8(v))
	}
}

// Func is the single capability a labeling function exposes. Implementations
// must be pure: side-effect-free, deterministic, and independent of other
// functions' outputs. The function set is plain configuration passed to the
// applier and estimator, never a global registry.
type Func interface {
	Name() string
	Evaluate(text string) Vote
}
