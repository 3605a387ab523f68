package ctm

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/kwslab/kwspot/pkg/models"
)

// minFields is the number of leading fields a reference line must carry:
// file_id channel start_time duration word confidence. Extra fields are
// ignored.
const minFields = 6

// Result holds the loaded reference sequence plus loader diagnostics.
type Result struct {
	Occurrences []models.WordOccurrence
	Skipped     int // lines dropped for having fewer than minFields fields
}

// ReadFile loads a reference transcript from path. Short lines are skipped
// silently; a numeric field that fails to parse aborts the load.
func ReadFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening reference file: %w", err)
	}
	defer f.Close()

	res, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return res, nil
}

// Read parses reference transcript lines from r. The returned sequence keeps
// input order; matching relies on that adjacency, not on a global time sort.
func Read(r io.Reader) (*Result, error) {
	res := &Result{}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		fields := strings.Fields(sc.Text())
		if len(fields) < minFields {
			res.Skipped++
			continue
		}

		start, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad start_time %q: %w", lineNo, fields[2], err)
		}
		dur, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad duration %q: %w", lineNo, fields[3], err)
		}
		conf, err := strconv.ParseFloat(fields[5], 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad confidence %q: %w", lineNo, fields[5], err)
		}

		res.Occurrences = append(res.Occurrences, models.WordOccurrence{
			FileID:     fields[0],
			Channel:    fields[1],
			StartTime:  start,
			Duration:   dur,
			Word:       fields[4],
			Confidence: conf,
		})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading reference lines: %w", err)
	}

	return res, nil
}
