package search

import "github.com/kwslab/kwspot/pkg/models"

// Index is an inverted index over the reference sequence: each distinct word
// token maps to the ascending list of sequence positions where it occurs.
// A query only ever scans the positions of its first token; the rest of a
// candidate window is verified by direct lookup.
type Index struct {
	occs      []models.WordOccurrence
	positions map[string][]int
}

// NewIndex builds an index over occs. The slice is retained, not copied;
// callers must not mutate it afterwards.
func NewIndex(occs []models.WordOccurrence) *Index {
	positions := make(map[string][]int)
	for i, occ := range occs {
		positions[occ.Word] = append(positions[occ.Word], i)
	}
	return &Index{occs: occs, positions: positions}
}

// Len returns the length of the reference sequence.
func (ix *Index) Len() int { return len(ix.occs) }

// At returns the occurrence at sequence position i.
func (ix *Index) At(i int) models.WordOccurrence { return ix.occs[i] }

// Positions returns the ascending sequence positions of word, or nil if the
// token never occurs.
func (ix *Index) Positions(word string) []int { return ix.positions[word] }
