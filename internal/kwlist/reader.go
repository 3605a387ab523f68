package kwlist

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kwslab/kwspot/pkg/models"
)

// document matches any root element holding repeated kw children.
type document struct {
	XMLName xml.Name
	Kws     []entry `xml:"kw"`
}

type entry struct {
	Kwid   string `xml:"kwid,attr"`
	Kwtext string `xml:"kwtext"`
}

// ReadFile loads a keyword list XML document from path. Malformed XML is a
// fatal load error.
func ReadFile(path string) ([]models.QueryPhrase, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening query file: %w", err)
	}
	defer f.Close()

	queries, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return queries, nil
}

// Read parses kw elements from r. A kw with empty or whitespace-only kwtext
// yields a QueryPhrase with zero words; it is kept so the caller sees every
// kwid, but it can never match.
func Read(r io.Reader) ([]models.QueryPhrase, error) {
	var doc document
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding query XML: %w", err)
	}

	queries := make([]models.QueryPhrase, 0, len(doc.Kws))
	for _, kw := range doc.Kws {
		phrase := strings.TrimSpace(kw.Kwtext)
		queries = append(queries, models.QueryPhrase{
			Kwid:   kw.Kwid,
			Phrase: phrase,
			Words:  strings.Fields(phrase),
		})
	}
	return queries, nil
}
