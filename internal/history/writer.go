// Package history keeps a local log of submitted research queries.
package history

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/diogo/cryptointel-go/pkg/models"
	"github.com/google/uuid"
)

// Writer appends submissions to a JSONL file.
type Writer struct {
	path string
}

// NewWriter creates a new history writer.
func NewWriter(path string) (*Writer, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	return &Writer{path: path}, nil
}

// Path returns the history file location.
func (w *Writer) Path() string {
	return w.path
}

// Append adds a new entry to the history file and returns it as written.
// A missing ID or timestamp is filled in.
func (w *Writer) Append(entry models.HistoryEntry) (models.HistoryEntry, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return entry, fmt.Errorf("failed to marshal history entry: %w", err)
	}

	file, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return entry, fmt.Errorf("failed to open history file: %w", err)
	}
	defer file.Close()

	if _, err := file.Write(append(data, '\n')); err != nil {
		return entry, fmt.Errorf("failed to write history entry: %w", err)
	}

	return entry, nil
}

// Reader reads history entries.
type Reader struct {
	path string
}

// NewReader creates a new history reader.
func NewReader(path string) *Reader {
	return &Reader{path: path}
}

// ReadAll reads all history entries, oldest first.
// Malformed lines are skipped.
func (r *Reader) ReadAll() ([]models.HistoryEntry, error) {
	file, err := os.Open(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.HistoryEntry{}, nil
		}
		return nil, fmt.Errorf("failed to open history file: %w", err)
	}
	defer file.Close()

	var entries []models.HistoryEntry
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var entry models.HistoryEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading history: %w", err)
	}

	return entries, nil
}

// ReadLast reads the last n entries.
func (r *Reader) ReadLast(n int) ([]models.HistoryEntry, error) {
	entries, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if n <= 0 {
		return []models.HistoryEntry{}, nil
	}
	if len(entries) <= n {
		return entries, nil
	}

	return entries[len(entries)-n:], nil
}

// Clear removes all history entries.
func (r *Reader) Clear() error {
	if err := os.Truncate(r.path, 0); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Search finds entries whose query contains term, ignoring case.
func (r *Reader) Search(term string) ([]models.HistoryEntry, error) {
	entries, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	term = strings.ToLower(term)
	var results []models.HistoryEntry
	for _, entry := range entries {
		if strings.Contains(strings.ToLower(entry.Query), term) {
			results = append(results, entry)
		}
	}

	return results, nil
}

// FindByID returns the entry whose ID starts with prefix.
// The prefix must match exactly one entry.
func (r *Reader) FindByID(prefix string) (models.HistoryEntry, error) {
	entries, err := r.ReadAll()
	if err != nil {
		return models.HistoryEntry{}, err
	}

	var found []models.HistoryEntry
	for _, entry := range entries {
		if prefix != "" && strings.HasPrefix(entry.ID, prefix) {
			found = append(found, entry)
		}
	}

	switch len(found) {
	case 0:
		return models.HistoryEntry{}, fmt.Errorf("no history entry with id %q", prefix)
	case 1:
		return found[0], nil
	default:
		return models.HistoryEntry{}, fmt.Errorf("id prefix %q matches %d entries", prefix, len(found))
	}
}
