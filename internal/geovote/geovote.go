// Package geovote aggregates candidate place names into per-country vote
// counts and resolves which country an article is about, with an explicit
// confidence score and the matched names as evidence.
package geovote

import (
	"sort"

	"github.com/laraDundar/pvo-limburg/internal/gazetteer"
	"github.com/laraDundar/pvo-limburg/internal/model"
)

// Result is the outcome of one country vote. Votes holds the per-country
// counts; Total is their sum; Evidence lists each matched (name, country)
// pair. When no candidate matched a target country, Country is
// model.CountryUncertain with Confidence 0 and no evidence.
type Result struct {
	Country    string
	Confidence float64
	Votes      map[string]int
	Total      int
	Evidence   []model.Evidence
}

// Vote resolves each candidate name through the gazetteer, counts votes for
// the target countries, and picks the winner. Confidence is the winner's
// share of the total vote; a share below threshold yields
// model.CountryUncertain while keeping the score and evidence. A share
// exactly equal to threshold is accepted. Ties between countries with equal
// votes break alphabetically by country code, so the result is a pure
// deterministic function of its inputs.
func Vote(candidates []string, idx *gazetteer.Index, targets []string, threshold float64) Result {
	targetSet := make(map[string]bool, len(targets))
	votes := make(map[string]int, len(targets))
	for _, cc := range targets {
		targetSet[cc] = true
		votes[cc] = 0
	}

	var evidence []model.Evidence
	total := 0
	for _, name := range candidates {
		cc, ok := idx.Resolve(name)
		if !ok || !targetSet[cc] {
			continue
		}
		votes[cc]++
		total++
		evidence = append(evidence, model.Evidence{Name: name, Country: cc})
	}

	if total == 0 {
		return Result{Country: model.CountryUncertain, Votes: votes}
	}

	winner, winnerVotes := pickWinner(votes)
	confidence := float64(winnerVotes) / float64(total)

	res := Result{
		Country:    winner,
		Confidence: confidence,
		Votes:      votes,
		Total:      total,
		Evidence:   evidence,
	}
	if confidence < threshold {
		res.Country = model.CountryUncertain
	}
	return res
}

// pickWinner returns the country with the most votes, breaking ties by
// alphabetical country code.
func pickWinner(votes map[string]int) (string, int) {
	codes := make([]string, 0, len(votes))
	for cc := range votes {
		codes = append(codes, cc)
	}
	sort.Strings(codes)

	winner := ""
	winnerVotes := -1
	for _, cc := range codes {
		if votes[cc] > winnerVotes {
			winner = cc
			winnerVotes = votes[cc]
		}
	}
	return winner, winnerVotes
}
