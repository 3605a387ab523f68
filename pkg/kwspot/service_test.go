package kwspot

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/kwslab/kwspot/pkg/models"
)

const testReference = `f1 1 0.00 0.20 go 0.9
f1 1 0.30 0.20 home 0.8
f1 1 1.00 0.20 stop 0.7
f2 1 0.00 0.20 go 0.6
f2 1 0.20 0.20 home 0.5
`

const testQueries = `<?xml version="1.0" encoding="utf-8"?>
<kwlist>
  <kw kwid="K1"><kwtext>go home</kwtext></kw>
  <kw kwid="K2"><kwtext>stop</kwtext></kw>
  <kw kwid="K3"><kwtext>never present</kwtext></kw>
</kwlist>
`

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func newTestService(t *testing.T, opts ...Option) Service {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test_kwspot.sqlite3")
	svc, err := NewService(append([]Option{WithDBPath(dbPath), WithLanguage("english")}, opts...)...)
	if err != nil {
		t.Fatalf("Failed to create service: %v", err)
	}
	t.Cleanup(func() {
		svc.Close()
	})
	return svc
}

func TestServiceSearch(t *testing.T) {
	dir := t.TempDir()
	refPath := writeTestFile(t, dir, "ref.ctm", testReference)
	queryPath := writeTestFile(t, dir, "queries.xml", testQueries)

	svc := newTestService(t)

	result, err := svc.Search(context.Background(), refPath, queryPath)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if result.OccurrenceCount != 5 {
		t.Errorf("Expected 5 occurrences, got %d", result.OccurrenceCount)
	}
	if result.SkippedLines != 0 {
		t.Errorf("Expected 0 skipped lines, got %d", result.SkippedLines)
	}
	if result.QueryCount != 3 {
		t.Errorf("Expected 3 queries, got %d", result.QueryCount)
	}

	// K1 matches in both files, K2 once, K3 never.
	wantKwids := []string{"K1", "K1", "K2"}
	if len(result.Hits) != len(wantKwids) {
		t.Fatalf("Expected %d hits, got %d", len(wantKwids), len(result.Hits))
	}
	for i, h := range result.Hits {
		if h.Kwid != wantKwids[i] {
			t.Errorf("Hit %d: expected kwid %q, got %q", i, wantKwids[i], h.Kwid)
		}
		if h.Decision != models.DecisionYes {
			t.Errorf("Hit %d: expected decision YES, got %q", i, h.Decision)
		}
	}

	first := result.Hits[0]
	if math.Abs(first.StartTime-0.0) > 1e-9 {
		t.Errorf("Expected first hit at 0.0, got %f", first.StartTime)
	}
	if math.Abs(first.Duration-0.5) > 1e-9 {
		t.Errorf("Expected duration 0.5, got %f", first.Duration)
	}
	if math.Abs(first.Score-0.85) > 1e-9 {
		t.Errorf("Expected score 0.85, got %f", first.Score)
	}
}

func TestServiceSearchSkipsShortLines(t *testing.T) {
	dir := t.TempDir()
	refPath := writeTestFile(t, dir, "ref.ctm", "f1 1 0.00 0.20 go 0.9\nbad line\nf1 1 0.30 0.20 home 0.8\n")
	queryPath := writeTestFile(t, dir, "queries.xml", testQueries)

	svc := newTestService(t)

	result, err := svc.Search(context.Background(), refPath, queryPath)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if result.OccurrenceCount != 2 {
		t.Errorf("Expected 2 occurrences, got %d", result.OccurrenceCount)
	}
	if result.SkippedLines != 1 {
		t.Errorf("Expected 1 skipped line, got %d", result.SkippedLines)
	}
}

func TestServiceSearchMissingReference(t *testing.T) {
	dir := t.TempDir()
	queryPath := writeTestFile(t, dir, "queries.xml", testQueries)

	svc := newTestService(t)

	if _, err := svc.Search(context.Background(), filepath.Join(dir, "absent.ctm"), queryPath); err == nil {
		t.Error("Expected error for missing reference file")
	}
}

func TestServiceSearchMalformedQueries(t *testing.T) {
	dir := t.TempDir()
	refPath := writeTestFile(t, dir, "ref.ctm", testReference)
	queryPath := writeTestFile(t, dir, "queries.xml", "<kwlist><kw kwid=K1></kwlist>")

	svc := newTestService(t)

	if _, err := svc.Search(context.Background(), refPath, queryPath); err == nil {
		t.Error("Expected error for malformed query XML")
	}
}

func TestServiceSearchSegmentScan(t *testing.T) {
	dir := t.TempDir()
	// Adjacent records from different files within the gap limit.
	refPath := writeTestFile(t, dir, "ref.ctm", "f1 1 10.00 0.20 go 0.9\nf2 1 10.10 0.20 home 0.8\n")
	queryPath := writeTestFile(t, dir, "queries.xml", `<kwlist><kw kwid="K1"><kwtext>go home</kwtext></kw></kwlist>`)

	svc := newTestService(t)
	result, err := svc.Search(context.Background(), refPath, queryPath)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(result.Hits) != 1 {
		t.Errorf("Flat scan should match across files, got %d hits", len(result.Hits))
	}

	svc = newTestService(t, WithSegmentScan(true))
	result, err = svc.Search(context.Background(), refPath, queryPath)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(result.Hits) != 0 {
		t.Errorf("SegmentScan should reject cross-file windows, got %d hits", len(result.Hits))
	}
}

func TestServiceSaveAndRetrieveRun(t *testing.T) {
	dir := t.TempDir()
	refPath := writeTestFile(t, dir, "ref.ctm", testReference)
	queryPath := writeTestFile(t, dir, "queries.xml", testQueries)

	svc := newTestService(t)

	result, err := svc.Search(context.Background(), refPath, queryPath)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	runID, err := svc.SaveRun(result)
	if err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}
	if runID == "" {
		t.Fatal("Expected non-empty run ID")
	}

	run, err := svc.GetRunByID(runID)
	if err != nil {
		t.Fatalf("GetRunByID failed: %v", err)
	}
	if run.Language != "english" {
		t.Errorf("Expected language 'english', got %q", run.Language)
	}
	if run.HitCount != len(result.Hits) {
		t.Errorf("Expected hit count %d, got %d", len(result.Hits), run.HitCount)
	}

	hits, err := svc.GetRunHits(runID)
	if err != nil {
		t.Fatalf("GetRunHits failed: %v", err)
	}
	if len(hits) != len(result.Hits) {
		t.Fatalf("Expected %d stored hits, got %d", len(result.Hits), len(hits))
	}
	for i := range hits {
		if hits[i].Kwid != result.Hits[i].Kwid {
			t.Errorf("Hit %d: expected kwid %q, got %q", i, result.Hits[i].Kwid, hits[i].Kwid)
		}
	}
}

func TestServiceListAndDeleteRuns(t *testing.T) {
	dir := t.TempDir()
	refPath := writeTestFile(t, dir, "ref.ctm", testReference)
	queryPath := writeTestFile(t, dir, "queries.xml", testQueries)

	svc := newTestService(t)

	result, err := svc.Search(context.Background(), refPath, queryPath)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	id1, err := svc.SaveRun(result)
	if err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}
	id2, err := svc.SaveRun(result)
	if err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}
	if id1 == id2 {
		t.Error("Expected distinct run IDs")
	}

	runs, err := svc.ListRuns()
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("Expected 2 runs, got %d", len(runs))
	}

	if err := svc.DeleteRun(id1); err != nil {
		t.Fatalf("DeleteRun failed: %v", err)
	}
	runs, err = svc.ListRuns()
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != id2 {
		t.Errorf("Expected only run %s to remain, got %+v", id2, runs)
	}
}
