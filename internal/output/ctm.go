// Package output serializes detections into the two interchange formats used
// by KWS evaluation pipelines: a CTM-style hit list and a kwslist XML
// document.
package output

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/kwslab/kwspot/pkg/models"
)

// WriteCTM writes one line per hit in collection order:
// file_id channel start_time duration kwid score
// with times to two decimals and the score to six.
func WriteCTM(w io.Writer, hits []models.Hit) error {
	for _, h := range hits {
		_, err := fmt.Fprintf(w, "%s %s %.2f %.2f %s %.6f\n",
			h.FileID, h.Channel, h.StartTime, h.Duration, h.Kwid, h.Score)
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteCTMFile writes the CTM hit list to path.
func WriteCTMFile(path string, hits []models.Hit) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating CTM output: %w", err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	if err := WriteCTM(bw, hits); err != nil {
		return fmt.Errorf("writing CTM output: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flushing CTM output: %w", err)
	}
	return f.Close()
}
