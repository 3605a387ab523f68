package search

import "github.com/kwslab/kwspot/pkg/models"

// DefaultMaxStartGap is the largest allowed start-to-start spacing, in
// seconds, between consecutive words of a matched phrase.
const DefaultMaxStartGap = 0.5

// Config holds matching parameters.
type Config struct {
	// MaxStartGap bounds the start_time difference between consecutive
	// window records. Zero means DefaultMaxStartGap.
	MaxStartGap float64

	// SegmentScan rejects windows that cross a file_id/channel change.
	// Off by default: the reference is scanned as one flat sequence, so a
	// window may span two adjacent files.
	SegmentScan bool
}

// Matcher finds qualifying windows for query phrases against an indexed
// reference sequence. It is read-only after construction and safe for
// concurrent use.
type Matcher struct {
	ix  *Index
	cfg Config
}

// NewMatcher creates a Matcher over ix.
func NewMatcher(ix *Index, cfg Config) *Matcher {
	if cfg.MaxStartGap == 0 {
		cfg.MaxStartGap = DefaultMaxStartGap
	}
	return &Matcher{ix: ix, cfg: cfg}
}

// Search returns every hit for q, ordered by ascending start position.
// A window qualifies when its tokens equal the phrase tokens in order
// (exact, case-sensitive) and every consecutive start_time difference is
// within MaxStartGap; the gap check compares word starts, not the gap from
// the previous word's end. Overlapping qualifying windows each produce a
// separate hit. A zero-word phrase matches nothing.
func (m *Matcher) Search(q models.QueryPhrase) []models.Hit {
	n := len(q.Words)
	if n == 0 {
		return nil
	}

	var hits []models.Hit
	for _, start := range m.ix.Positions(q.Words[0]) {
		if start+n > m.ix.Len() {
			break
		}
		if !m.windowQualifies(start, q.Words) {
			continue
		}

		first := m.ix.At(start)
		last := m.ix.At(start + n - 1)
		hits = append(hits, models.Hit{
			Kwid:      q.Kwid,
			FileID:    first.FileID,
			Channel:   first.Channel,
			StartTime: first.StartTime,
			Duration:  last.EndTime() - first.StartTime,
			Score:     m.windowScore(start, n),
			Decision:  models.DecisionYes,
		})
	}
	return hits
}

func (m *Matcher) windowQualifies(start int, words []string) bool {
	prev := m.ix.At(start)
	for j := 1; j < len(words); j++ {
		cur := m.ix.At(start + j)
		if cur.Word != words[j] {
			return false
		}
		if cur.StartTime-prev.StartTime > m.cfg.MaxStartGap {
			return false
		}
		if m.cfg.SegmentScan && (cur.FileID != prev.FileID || cur.Channel != prev.Channel) {
			return false
		}
		prev = cur
	}
	return true
}

// windowScore is the unweighted mean confidence over the window.
func (m *Matcher) windowScore(start, n int) float64 {
	var sum float64
	for j := 0; j < n; j++ {
		sum += m.ix.At(start + j).Confidence
	}
	return sum / float64(n)
}
