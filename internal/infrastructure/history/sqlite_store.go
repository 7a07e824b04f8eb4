package history

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/doeshing/clarify/internal/domain"
	"github.com/doeshing/clarify/internal/pkg/filesystem"
	"github.com/doeshing/clarify/internal/ports"
)

// SQLiteStore persists explanation history in a SQLite database. The
// topic_key column holds the canonical form of the topic so the
// one-entry-per-topic-and-level rule survives restarts.
type SQLiteStore struct {
	db         *sql.DB
	path       string
	maxEntries int
	canon      func(string) string
	fallback   *FileStore
	mu         sync.Mutex
}

// NewSQLiteStore creates (or opens) the ~/.clarify/history.db database. When
// the database cannot be opened the store degrades to the JSONL file store.
func NewSQLiteStore(path string, maxEntries int, canon func(string) string) *SQLiteStore {
	if path == "" {
		path = filepath.Join(filesystem.UserHomeDir(), ".clarify", "history.db")
	}
	store := &SQLiteStore{path: path, maxEntries: maxEntries, canon: canon}
	_ = os.MkdirAll(filepath.Dir(path), 0o755)
	db, err := sql.Open("sqlite", path)
	if err == nil {
		store.db = db
		err = store.init()
	}
	if err != nil {
		store.db = nil
		store.fallback = NewFileStore(path+".jsonl", maxEntries, canon)
	}
	return store
}

func (s *SQLiteStore) init() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS explanations (
		id INTEGER PRIMARY KEY,
		topic TEXT,
		topic_key TEXT,
		level TEXT,
		explanation TEXT,
		created_at TEXT,
		cached INTEGER,
		response_time_ms INTEGER,
		token_count INTEGER
	);`)
	return err
}

// Save upserts one entry: any existing row with the same canonical topic and
// level is replaced, then the table is trimmed to the configured cap.
func (s *SQLiteStore) Save(entry domain.HistoryEntry) error {
	if s.db == nil {
		return s.fallback.Save(entry)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == 0 {
		entry.ID = time.Now().UnixMilli()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	key := s.canonKey(entry.Topic)
	if _, err := tx.Exec(`DELETE FROM explanations WHERE topic_key = ? AND level = ?`,
		key, string(entry.Level)); err != nil {
		return err
	}
	if _, err := tx.Exec(`INSERT OR REPLACE INTO explanations
		(id, topic, topic_key, level, explanation, created_at, cached, response_time_ms, token_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.Topic,
		key,
		string(entry.Level),
		entry.Explanation,
		entry.Timestamp.Format(time.RFC3339),
		boolToInt(entry.Cached),
		entry.ResponseTimeMS,
		entry.TokenCount,
	); err != nil {
		return err
	}
	if max := s.cap(); max > 0 {
		if _, err := tx.Exec(`DELETE FROM explanations WHERE id NOT IN (
			SELECT id FROM explanations ORDER BY datetime(created_at) DESC LIMIT ?)`, max); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Recent returns the newest entries, most recent first.
func (s *SQLiteStore) Recent(limit int) ([]domain.HistoryEntry, error) {
	if s.db == nil {
		return s.fallback.Recent(limit)
	}
	return s.query(`SELECT id, topic, level, explanation, created_at, cached, response_time_ms, token_count
		FROM explanations ORDER BY datetime(created_at) DESC`+limitClause(limit), limitArgs(limit)...)
}

// Search returns entries whose topic or explanation contains keyword.
func (s *SQLiteStore) Search(keyword string, limit int) ([]domain.HistoryEntry, error) {
	if s.db == nil {
		return s.fallback.Search(keyword, limit)
	}
	pattern := "%" + keyword + "%"
	args := append([]interface{}{pattern, pattern}, limitArgs(limit)...)
	return s.query(`SELECT id, topic, level, explanation, created_at, cached, response_time_ms, token_count
		FROM explanations WHERE topic LIKE ? OR explanation LIKE ?
		ORDER BY datetime(created_at) DESC`+limitClause(limit), args...)
}

// Clear deletes all entries.
func (s *SQLiteStore) Clear() error {
	if s.db == nil {
		return s.fallback.Clear()
	}
	_, err := s.db.Exec("DELETE FROM explanations")
	return err
}

// ExportJSON writes every entry to a jsonl file at dest.
func (s *SQLiteStore) ExportJSON(dest string) error {
	entries, err := s.Recent(0)
	if err != nil {
		return err
	}
	return writeJSONL(dest, entries)
}

// PruneOlderThan deletes entries older than the given number of days.
func (s *SQLiteStore) PruneOlderThan(days int) error {
	if s.db == nil {
		return s.fallback.PruneOlderThan(days)
	}
	cutoff := time.Now().AddDate(0, 0, -days).Format(time.RFC3339)
	_, err := s.db.Exec(`DELETE FROM explanations WHERE datetime(created_at) < datetime(?)`, cutoff)
	return err
}

// Path returns the sqlite database path.
func (s *SQLiteStore) Path() string {
	if s.db == nil {
		return s.fallback.Path()
	}
	return s.path
}

func (s *SQLiteStore) query(q string, args ...interface{}) ([]domain.HistoryEntry, error) {
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []domain.HistoryEntry
	for rows.Next() {
		var entry domain.HistoryEntry
		var ts, level string
		var cached int
		if err := rows.Scan(&entry.ID, &entry.Topic, &level, &entry.Explanation,
			&ts, &cached, &entry.ResponseTimeMS, &entry.TokenCount); err != nil {
			return nil, err
		}
		entry.Level = domain.Level(level)
		entry.Cached = cached == 1
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			entry.Timestamp = t
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (s *SQLiteStore) canonKey(topic string) string {
	if s.canon == nil {
		return topic
	}
	return s.canon(topic)
}

func (s *SQLiteStore) cap() int {
	if s.maxEntries <= 0 {
		return domain.DefaultHistoryMax
	}
	return s.maxEntries
}

func limitClause(limit int) string {
	if limit > 0 {
		return " LIMIT ?"
	}
	return ""
}

func limitArgs(limit int) []interface{} {
	if limit > 0 {
		return []interface{}{limit}
	}
	return nil
}

func writeJSONL(dest string, entries []domain.HistoryEntry) error {
	file, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer file.Close()
	for _, entry := range entries {
		b, err := json.Marshal(entry)
		if err != nil {
			return err
		}
		if _, err := file.Write(append(b, '\n')); err != nil {
			return err
		}
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

var _ ports.HistoryRepository = (*SQLiteStore)(nil)
