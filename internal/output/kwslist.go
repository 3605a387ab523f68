package output

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/kwslab/kwspot/pkg/models"
)

// xmlHeader matches the declaration emitted by the evaluation tooling this
// format interoperates with.
const xmlHeader = `<?xml version="1.0" encoding="utf-8"?>` + "\n"

// Meta carries the caller-supplied kwslist root attributes. They describe the
// query list, not the detections, and are never derived from hit data.
type Meta struct {
	KwlistFilename string
	Language       string
}

type kwslistDoc struct {
	XMLName        xml.Name         `xml:"kwslist"`
	KwlistFilename string           `xml:"kwlist_filename,attr"`
	Language       string           `xml:"language,attr"`
	SystemID       string           `xml:"system_id,attr"`
	Detected       []detectedKwlist `xml:"detected_kwlist"`
}

type detectedKwlist struct {
	Kwid       string  `xml:"kwid,attr"`
	OovCount   string  `xml:"oov_count,attr"`
	SearchTime string  `xml:"search_time,attr"`
	Kws        []kwHit `xml:"kw"`
}

type kwHit struct {
	File     string `xml:"file,attr"`
	Channel  string `xml:"channel,attr"`
	Tbeg     string `xml:"tbeg"`
	Dur      string `xml:"dur"`
	Score    string `xml:"score"`
	Decision string `xml:"decision"`
}

// WriteKwslist writes the kwslist XML document for hits. Hits are grouped
// into one detected_kwlist per kwid, groups ordered by ascending kwid and
// hits kept in collection order within a group. Queries with no hits get no
// group. Float children are rendered in minimal form, unlike the
// fixed-precision CTM path.
func WriteKwslist(w io.Writer, hits []models.Hit, meta Meta) error {
	grouped := make(map[string][]models.Hit)
	for _, h := range hits {
		grouped[h.Kwid] = append(grouped[h.Kwid], h)
	}

	kwids := make([]string, 0, len(grouped))
	for kwid := range grouped {
		kwids = append(kwids, kwid)
	}
	sort.Strings(kwids)

	doc := kwslistDoc{
		KwlistFilename: meta.KwlistFilename,
		Language:       meta.Language,
		SystemID:       "",
	}
	for _, kwid := range kwids {
		// oov_count and search_time are fixed placeholders in this format.
		det := detectedKwlist{Kwid: kwid, OovCount: "0", SearchTime: "0.0"}
		for _, h := range grouped[kwid] {
			det.Kws = append(det.Kws, kwHit{
				File:     h.FileID,
				Channel:  h.Channel,
				Tbeg:     formatFloat(h.StartTime),
				Dur:      formatFloat(h.Duration),
				Score:    formatFloat(h.Score),
				Decision: h.Decision,
			})
		}
		doc.Detected = append(doc.Detected, det)
	}

	if _, err := io.WriteString(w, xmlHeader); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding kwslist XML: %w", err)
	}
	return enc.Close()
}

// WriteKwslistFile writes the kwslist document to path.
func WriteKwslistFile(path string, hits []models.Hit, meta Meta) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating XML output: %w", err)
	}
	defer f.Close()

	if err := WriteKwslist(f, hits, meta); err != nil {
		return fmt.Errorf("writing XML output: %w", err)
	}
	return f.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
