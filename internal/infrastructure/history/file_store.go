package history

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/doeshing/clarify/internal/domain"
	"github.com/doeshing/clarify/internal/pkg/filesystem"
	"github.com/doeshing/clarify/internal/ports"
)

// FileStore persists explanation history as a jsonl file. Each Save rewrites
// the file so the dedupe-and-cap rules hold without a database.
type FileStore struct {
	path       string
	maxEntries int
	canon      func(string) string
	mu         sync.Mutex
}

// NewFileStore creates a history store backed by ~/.clarify/history.jsonl.
func NewFileStore(path string, maxEntries int, canon func(string) string) *FileStore {
	if path == "" {
		path = filepath.Join(filesystem.UserHomeDir(), ".clarify", "history.jsonl")
	}
	return &FileStore{path: path, maxEntries: maxEntries, canon: canon}
}

// Save implements ports.HistoryRepository.
func (f *FileStore) Save(entry domain.HistoryEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if entry.ID == 0 {
		entry.ID = time.Now().UnixMilli()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	entries, err := f.load()
	if err != nil {
		return err
	}
	collection := domain.History{Entries: entries, Max: f.maxEntries}
	collection.Insert(entry, f.canon)
	return f.rewrite(collection.Entries)
}

// Recent returns the newest entries, most recent first.
func (f *FileStore) Recent(limit int) ([]domain.HistoryEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries, err := f.load()
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// Search returns entries whose topic or explanation contains keyword,
// case-insensitively.
func (f *FileStore) Search(keyword string, limit int) ([]domain.HistoryEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries, err := f.load()
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(keyword)
	var matched []domain.HistoryEntry
	for _, entry := range entries {
		if strings.Contains(strings.ToLower(entry.Topic), needle) ||
			strings.Contains(strings.ToLower(entry.Explanation), needle) {
			matched = append(matched, entry)
			if limit > 0 && len(matched) >= limit {
				break
			}
		}
	}
	return matched, nil
}

// Clear removes the history file.
func (f *FileStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// ExportJSON copies every entry to a jsonl file at dest.
func (f *FileStore) ExportJSON(dest string) error {
	entries, err := f.Recent(0)
	if err != nil {
		return err
	}
	return writeJSONL(dest, entries)
}

// PruneOlderThan drops entries older than the given number of days.
func (f *FileStore) PruneOlderThan(days int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries, err := f.load()
	if err != nil {
		return err
	}
	cutoff := time.Now().AddDate(0, 0, -days)
	kept := entries[:0]
	for _, entry := range entries {
		if entry.Timestamp.After(cutoff) {
			kept = append(kept, entry)
		}
	}
	return f.rewrite(kept)
}

// Path returns the backing file path.
func (f *FileStore) Path() string {
	return f.path
}

// load reads all entries, newest first. Corrupt lines are skipped.
func (f *FileStore) load() ([]domain.HistoryEntry, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	lines := bytes.Split(bytes.TrimSpace(data), []byte("\n"))
	var entries []domain.HistoryEntry
	for _, line := range lines {
		if len(line) == 0 {
			continue
		}
		var entry domain.HistoryEntry
		if err := json.Unmarshal(line, &entry); err == nil {
			entries = append(entries, entry)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
	return entries, nil
}

func (f *FileStore) rewrite(entries []domain.HistoryEntry) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}
	var buf bytes.Buffer
	for _, entry := range entries {
		b, err := json.Marshal(entry)
		if err != nil {
			return err
		}
		buf.Write(b)
		buf.WriteByte('\n')
	}
	return os.WriteFile(f.path, buf.Bytes(), 0o644)
}

var _ ports.HistoryRepository = (*FileStore)(nil)
