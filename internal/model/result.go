package model

// CountryUncertain is the country value assigned when the geographic vote
// produced no matches or a winner below the confidence threshold.
const CountryUncertain = "uncertain"

// Evidence records one gazetteer match that contributed a country vote:
// the candidate name as it appeared in the article and the country code it
// resolved to.
type Evidence struct {
	Name    string `json:"name"`
	Country string `json:"country"`
}

// FusionResult is the exported artifact of one fusion pass over one article.
// It is immutable once created; a re-run produces a fresh result. The raw
// SMEProbability is always retained alongside the thresholded SMELabel so
// downstream consumers can re-threshold without recomputation.
type FusionResult struct {
	ArticleID       string     `json:"article_id"`
	Country         string     `json:"country"`
	CountryScore    float64    `json:"country_score"`
	CountryEvidence []Evidence `json:"country_evidence"`
	SMEProbability  float64    `json:"sme_probability"`
	SMELabel        int        `json:"sme_label"`
}
