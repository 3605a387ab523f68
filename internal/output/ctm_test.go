package output

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kwslab/kwspot/pkg/models"
)

func sampleHits() []models.Hit {
	return []models.Hit{
		{Kwid: "K1", FileID: "f1", Channel: "1", StartTime: 0.0, Duration: 0.5, Score: 0.85, Decision: models.DecisionYes},
		{Kwid: "K2", FileID: "f2", Channel: "2", StartTime: 12.345, Duration: 1.2, Score: 0.5, Decision: models.DecisionYes},
	}
}

func TestWriteCTM(t *testing.T) {
	var sb strings.Builder
	if err := WriteCTM(&sb, sampleHits()); err != nil {
		t.Fatalf("WriteCTM failed: %v", err)
	}

	want := "f1 1 0.00 0.50 K1 0.850000\n" +
		"f2 2 12.35 1.20 K2 0.500000\n"
	if sb.String() != want {
		t.Errorf("Unexpected CTM output:\ngot:\n%swant:\n%s", sb.String(), want)
	}
}

func TestWriteCTMRoundsScore(t *testing.T) {
	// The mean of 0.9 and 0.8 is not representable exactly; fixed six-decimal
	// formatting still yields the expected text.
	hits := []models.Hit{
		{Kwid: "K1", FileID: "f1", Channel: "1", StartTime: 0.0, Duration: 0.5, Score: (0.9 + 0.8) / 2, Decision: models.DecisionYes},
	}

	var sb strings.Builder
	if err := WriteCTM(&sb, hits); err != nil {
		t.Fatalf("WriteCTM failed: %v", err)
	}
	if got := sb.String(); got != "f1 1 0.00 0.50 K1 0.850000\n" {
		t.Errorf("Unexpected CTM line: %q", got)
	}
}

func TestWriteCTMEmpty(t *testing.T) {
	var sb strings.Builder
	if err := WriteCTM(&sb, nil); err != nil {
		t.Fatalf("WriteCTM failed: %v", err)
	}
	if sb.Len() != 0 {
		t.Errorf("Expected empty output, got %q", sb.String())
	}
}

func TestWriteCTMFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hits.ctm")
	if err := WriteCTMFile(path, sampleHits()); err != nil {
		t.Fatalf("WriteCTMFile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Errorf("Expected 2 lines, got %d", len(lines))
	}
}
