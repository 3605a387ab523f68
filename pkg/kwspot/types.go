package kwspot

import (
	"time"

	"github.com/kwslab/kwspot/pkg/models"
)

// SearchResult carries the detections of one search run together with load
// and matching statistics.
type SearchResult struct {
	ReferencePath string
	QueryPath     string
	Hits          []models.Hit

	OccurrenceCount int // reference records loaded
	SkippedLines    int // malformed reference lines dropped
	QueryCount      int
	Elapsed         time.Duration
}
