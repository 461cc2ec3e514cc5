package history

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/diogo/cryptointel-go/pkg/models"
)

func TestNewWriter(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "subdir", "history.jsonl")

	w, err := NewWriter(path)
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}

	if w.Path() != path {
		t.Errorf("Path() = %q, want %q", w.Path(), path)
	}

	if _, err := os.Stat(filepath.Dir(path)); os.IsNotExist(err) {
		t.Error("Directory was not created")
	}
}

func TestWriterAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")

	w, err := NewWriter(path)
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}

	written, err := w.Append(models.HistoryEntry{
		Query:      "bitcoin outlook",
		ReportType: "free",
		State:      "succeeded",
		Message:    "Free report request submitted! Check your email.",
	})
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if written.ID == "" {
		t.Error("ID should be generated")
	}
	if written.Timestamp.IsZero() {
		t.Error("Timestamp should be set automatically")
	}

	entries, err := NewReader(path).ReadAll()
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(entries))
	}
	if entries[0].ID != written.ID {
		t.Errorf("ID = %q, want %q", entries[0].ID, written.ID)
	}
	if entries[0].Query != "bitcoin outlook" {
		t.Errorf("Query = %q, want %q", entries[0].Query, "bitcoin outlook")
	}
}

func TestWriterAppendKeepsID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	w, _ := NewWriter(path)

	written, err := w.Append(models.HistoryEntry{ID: "fixed", Query: "q"})
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if written.ID != "fixed" {
		t.Errorf("ID = %q, want fixed", written.ID)
	}
}

func TestWriterFilePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	w, _ := NewWriter(path)
	if _, err := w.Append(models.HistoryEntry{Query: "q"}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("permissions = %o, want 600", perm)
	}
}

func TestReaderReadAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")

	content := `{"id":"a1","timestamp":"2025-03-01T10:00:00Z","query":"query1","report_type":"free","state":"succeeded"}
{"id":"b2","timestamp":"2025-03-01T11:00:00Z","query":"query2","report_type":"deep","state":"failed"}
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	entries, err := NewReader(path).ReadAll()
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	if entries[0].Query != "query1" {
		t.Errorf("entries[0].Query = %q, want %q", entries[0].Query, "query1")
	}
	if entries[1].ReportType != "deep" {
		t.Errorf("entries[1].ReportType = %q, want deep", entries[1].ReportType)
	}
}

func TestReaderReadAllMissingFile(t *testing.T) {
	entries, err := NewReader("/nonexistent/path/history.jsonl").ReadAll()
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("len(entries) = %d, want 0", len(entries))
	}
}

func TestReaderReadAllSkipsInvalidLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")

	content := `{"query": "valid"}
invalid json line

{"query": "also valid"}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	entries, err := NewReader(path).ReadAll()
	if err != nil {
		t.Errorf("ReadAll() should skip invalid lines, got error: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("len(entries) = %d, want 2", len(entries))
	}
}

func TestReaderReadLast(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")

	w, _ := NewWriter(path)
	for i := 0; i < 10; i++ {
		w.Append(models.HistoryEntry{
			Query:     "query " + string(rune('0'+i)),
			Timestamp: time.Now().Add(time.Duration(i) * time.Hour),
		})
	}

	reader := NewReader(path)

	entries, err := reader.ReadLast(3)
	if err != nil {
		t.Fatalf("ReadLast() error = %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("len(entries) = %d, want 3", len(entries))
	}
	if entries[2].Query != "query 9" {
		t.Errorf("last entry = %q, want query 9", entries[2].Query)
	}

	entries, _ = reader.ReadLast(20)
	if len(entries) != 10 {
		t.Errorf("len(entries) = %d, want 10", len(entries))
	}

	entries, _ = reader.ReadLast(0)
	if len(entries) != 0 {
		t.Errorf("len(entries) = %d, want 0", len(entries))
	}
}

func TestReaderSearch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")

	w, _ := NewWriter(path)
	w.Append(models.HistoryEntry{Query: "Bitcoin ETF flows"})
	w.Append(models.HistoryEntry{Query: "solana validator economics"})
	w.Append(models.HistoryEntry{Query: "bitcoin mining difficulty"})

	reader := NewReader(path)

	entries, err := reader.Search("BITCOIN")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("len(entries) = %d, want 2 (case insensitive)", len(entries))
	}

	entries, _ = reader.Search("cardano")
	if len(entries) != 0 {
		t.Errorf("len(entries) = %d, want 0", len(entries))
	}
}

func TestReaderClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")

	w, _ := NewWriter(path)
	w.Append(models.HistoryEntry{Query: "test"})
	w.Append(models.HistoryEntry{Query: "test2"})

	reader := NewReader(path)
	if err := reader.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	entries, _ := reader.ReadAll()
	if len(entries) != 0 {
		t.Errorf("len(entries) = %d, want 0 after clear", len(entries))
	}
}

func TestReaderClearMissingFile(t *testing.T) {
	reader := NewReader(filepath.Join(t.TempDir(), "none.jsonl"))
	if err := reader.Clear(); err != nil {
		t.Errorf("Clear() on missing file error = %v", err)
	}
}

func TestReaderFindByID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")

	w, _ := NewWriter(path)
	w.Append(models.HistoryEntry{ID: "abc123", Query: "one"})
	w.Append(models.HistoryEntry{ID: "abd456", Query: "two"})

	reader := NewReader(path)

	entry, err := reader.FindByID("abc")
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if entry.Query != "one" {
		t.Errorf("Query = %q, want one", entry.Query)
	}

	if _, err := reader.FindByID("ab"); err == nil || !strings.Contains(err.Error(), "matches 2") {
		t.Errorf("FindByID(ab) error = %v, want ambiguity error", err)
	}
	if _, err := reader.FindByID("zzz"); err == nil {
		t.Error("FindByID(zzz) should fail")
	}
	if _, err := reader.FindByID(""); err == nil {
		t.Error("FindByID(\"\") should fail")
	}
}
