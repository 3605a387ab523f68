// Package models holds the domain types shared by the loaders, the matcher,
// the writers and the persistence layer.
package models

import "time"

// DecisionYes is the decision emitted for every detection. The search has no
// rejection path; candidates that fail the window checks are simply dropped.
const DecisionYes = "YES"

// WordOccurrence is one time-aligned word token from the reference transcript.
// Records are immutable once loaded; the sequence keeps file read order.
type WordOccurrence struct {
	FileID     string  `json:"file_id"`
	Channel    string  `json:"channel"`
	StartTime  float64 `json:"start_time"` // seconds
	Duration   float64 `json:"duration"`   // seconds
	Word       string  `json:"word"`
	Confidence float64 `json:"confidence"` // conventionally in [0,1]
}

// EndTime is the occurrence's start time plus its duration.
func (w WordOccurrence) EndTime() float64 {
	return w.StartTime + w.Duration
}

// QueryPhrase is one keyword query. Words is the whitespace split of Phrase;
// a phrase with zero words is degenerate and matches nothing.
type QueryPhrase struct {
	Kwid   string   `json:"kwid"`
	Phrase string   `json:"phrase"`
	Words  []string `json:"words"`
}

// Hit is a detected occurrence of a query phrase. StartTime is the start of
// the first matched occurrence; StartTime+Duration is the end of the last.
type Hit struct {
	Kwid      string  `json:"kwid"`
	FileID    string  `json:"file_id"`
	Channel   string  `json:"channel"`
	StartTime float64 `json:"start_time"`
	Duration  float64 `json:"duration"`
	Score     float64 `json:"score"` // mean confidence over the matched window
	Decision  string  `json:"decision"`
}

// Run records one executed search for persistence.
type Run struct {
	ID            string    `json:"id"`
	ReferencePath string    `json:"reference_path"`
	QueryPath     string    `json:"query_path"`
	Language      string    `json:"language"`
	QueryCount    int       `json:"query_count"`
	HitCount      int       `json:"hit_count"`
	CreatedAt     time.Time `json:"created_at"`
}
