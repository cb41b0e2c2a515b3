// Package model defines the shared domain types exchanged between the
// preprocessing pipeline, the fusion core, and the result store.
package model

import "time"

// Article is a single news item as produced by the scraping and NER
// preprocessing stages. Locations holds the candidate place-name strings an
// external NER model extracted from the article text; the fusion core never
// performs entity extraction itself.
type Article struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	FullText  string    `json:"full_text,omitempty"`
	Link      string    `json:"link,omitempty"`
	Published time.Time `json:"published,omitempty"`
	Locations []string  `json:"locations,omitempty"`
}
