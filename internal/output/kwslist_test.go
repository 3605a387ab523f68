package output

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kwslab/kwspot/pkg/models"
)

func TestWriteKwslist(t *testing.T) {
	hits := []models.Hit{
		{Kwid: "K2", FileID: "f2", Channel: "1", StartTime: 3.5, Duration: 1.0, Score: 0.5, Decision: models.DecisionYes},
		{Kwid: "K1", FileID: "f1", Channel: "1", StartTime: 0.1, Duration: 0.5, Score: 0.85, Decision: models.DecisionYes},
		{Kwid: "K1", FileID: "f1", Channel: "2", StartTime: 7.25, Duration: 0.75, Score: 1, Decision: models.DecisionYes},
	}
	meta := Meta{KwlistFilename: "queries.xml", Language: "english"}

	var sb strings.Builder
	if err := WriteKwslist(&sb, hits, meta); err != nil {
		t.Fatalf("WriteKwslist failed: %v", err)
	}

	want := `<?xml version="1.0" encoding="utf-8"?>` + "\n" +
		`<kwslist kwlist_filename="queries.xml" language="english" system_id="">` +
		`<detected_kwlist kwid="K1" oov_count="0" search_time="0.0">` +
		`<kw file="f1" channel="1"><tbeg>0.1</tbeg><dur>0.5</dur><score>0.85</score><decision>YES</decision></kw>` +
		`<kw file="f1" channel="2"><tbeg>7.25</tbeg><dur>0.75</dur><score>1</score><decision>YES</decision></kw>` +
		`</detected_kwlist>` +
		`<detected_kwlist kwid="K2" oov_count="0" search_time="0.0">` +
		`<kw file="f2" channel="1"><tbeg>3.5</tbeg><dur>1</dur><score>0.5</score><decision>YES</decision></kw>` +
		`</detected_kwlist>` +
		`</kwslist>`
	if sb.String() != want {
		t.Errorf("Unexpected kwslist XML:\ngot:\n%s\nwant:\n%s", sb.String(), want)
	}
}

func TestWriteKwslistGroupsSortedByKwid(t *testing.T) {
	hits := []models.Hit{
		{Kwid: "K10", FileID: "f1", Channel: "1", Decision: models.DecisionYes},
		{Kwid: "K2", FileID: "f1", Channel: "1", Decision: models.DecisionYes},
		{Kwid: "K1", FileID: "f1", Channel: "1", Decision: models.DecisionYes},
	}

	var sb strings.Builder
	if err := WriteKwslist(&sb, hits, Meta{}); err != nil {
		t.Fatalf("WriteKwslist failed: %v", err)
	}

	out := sb.String()
	// Lexicographic order: K1 before K10 before K2.
	i1 := strings.Index(out, `kwid="K1"`)
	i10 := strings.Index(out, `kwid="K10"`)
	i2 := strings.Index(out, `kwid="K2"`)
	if i1 == -1 || i10 == -1 || i2 == -1 {
		t.Fatalf("Missing kwid group in output:\n%s", out)
	}
	if !(i1 < i10 && i10 < i2) {
		t.Errorf("Groups not in ascending kwid order:\n%s", out)
	}
}

func TestWriteKwslistNoHits(t *testing.T) {
	var sb strings.Builder
	meta := Meta{KwlistFilename: "queries.xml", Language: "english"}
	if err := WriteKwslist(&sb, nil, meta); err != nil {
		t.Fatalf("WriteKwslist failed: %v", err)
	}

	want := `<?xml version="1.0" encoding="utf-8"?>` + "\n" +
		`<kwslist kwlist_filename="queries.xml" language="english" system_id=""></kwslist>`
	if sb.String() != want {
		t.Errorf("Unexpected empty kwslist:\ngot:\n%s\nwant:\n%s", sb.String(), want)
	}
}

func TestWriteKwslistFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hits.xml")
	hits := []models.Hit{
		{Kwid: "K1", FileID: "f1", Channel: "1", StartTime: 0.1, Duration: 0.5, Score: 0.85, Decision: models.DecisionYes},
	}
	if err := WriteKwslistFile(path, hits, Meta{KwlistFilename: "q.xml", Language: "english"}); err != nil {
		t.Fatalf("WriteKwslistFile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	if !strings.HasPrefix(string(data), `<?xml version="1.0" encoding="utf-8"?>`) {
		t.Errorf("Missing XML declaration:\n%s", string(data))
	}
	if !strings.Contains(string(data), `<detected_kwlist kwid="K1"`) {
		t.Errorf("Missing detected_kwlist element:\n%s", string(data))
	}
}
