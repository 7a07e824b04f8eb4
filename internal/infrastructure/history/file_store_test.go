package history

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/doeshing/clarify/internal/domain"
	"github.com/doeshing/clarify/internal/match"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(filepath.Join(t.TempDir(), "history.jsonl"), 3, match.Normalize)
}

func entry(id int64, topic string, level domain.Level, age time.Duration) domain.HistoryEntry {
	return domain.HistoryEntry{
		ID:          id,
		Topic:       topic,
		Level:       level,
		Explanation: "about " + topic,
		Timestamp:   time.Now().Add(-age),
	}
}

func TestFileStoreSaveAndRecent(t *testing.T) {
	store := newTestStore(t)
	if err := store.Save(entry(1, "recursion", domain.LevelStudent, 2*time.Hour)); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(entry(2, "goroutines", domain.LevelStudent, time.Hour)); err != nil {
		t.Fatal(err)
	}

	entries, err := store.Recent(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Topic != "goroutines" {
		t.Fatalf("most recent entry must come first: %+v", entries)
	}

	limited, err := store.Recent(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 {
		t.Fatalf("limit not applied: %+v", limited)
	}
}

func TestFileStoreDeduplicatesByCanonicalTopic(t *testing.T) {
	store := newTestStore(t)
	if err := store.Save(entry(1, "What is recursion?", domain.LevelStudent, time.Hour)); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(entry(2, "recursion", domain.LevelStudent, 0)); err != nil {
		t.Fatal(err)
	}
	// Same topic at a different level coexists.
	if err := store.Save(entry(3, "recursion", domain.LevelExpert, 0)); err != nil {
		t.Fatal(err)
	}

	entries, err := store.Recent(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected dedupe to leave 2 entries, got %+v", entries)
	}
	for _, e := range entries {
		if e.ID == 1 {
			t.Fatalf("older duplicate should be evicted: %+v", entries)
		}
	}
}

func TestFileStoreEnforcesCap(t *testing.T) {
	store := newTestStore(t)
	topics := []string{"maps", "slices", "channels", "interfaces"}
	for i, topic := range topics {
		e := entry(int64(i+1), topic, domain.LevelSimple, time.Duration(len(topics)-i)*time.Minute)
		if err := store.Save(e); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := store.Recent(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("cap of 3 not enforced: %d entries", len(entries))
	}
	for _, e := range entries {
		if e.Topic == "maps" {
			t.Fatalf("oldest entry should have been evicted: %+v", entries)
		}
	}
}

func TestFileStoreSearch(t *testing.T) {
	store := newTestStore(t)
	if err := store.Save(entry(1, "binary search", domain.LevelStudent, time.Hour)); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(entry(2, "hash maps", domain.LevelStudent, 0)); err != nil {
		t.Fatal(err)
	}

	matched, err := store.Search("BINARY", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(matched) != 1 || matched[0].Topic != "binary search" {
		t.Fatalf("case-insensitive search failed: %+v", matched)
	}
}

func TestFileStorePruneOlderThan(t *testing.T) {
	store := newTestStore(t)
	if err := store.Save(entry(1, "old topic", domain.LevelStudent, 72*time.Hour)); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(entry(2, "fresh topic", domain.LevelStudent, time.Hour)); err != nil {
		t.Fatal(err)
	}

	if err := store.PruneOlderThan(2); err != nil {
		t.Fatal(err)
	}
	entries, err := store.Recent(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Topic != "fresh topic" {
		t.Fatalf("retention prune failed: %+v", entries)
	}
}

func TestFileStoreClearAndExport(t *testing.T) {
	store := newTestStore(t)
	if err := store.Save(entry(1, "pointers", domain.LevelDetailed, 0)); err != nil {
		t.Fatal(err)
	}

	dest := filepath.Join(t.TempDir(), "export.jsonl")
	if err := store.ExportJSON(dest); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "pointers") {
		t.Fatalf("export missing entry: %s", data)
	}

	if err := store.Clear(); err != nil {
		t.Fatal(err)
	}
	entries, err := store.Recent(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("clear left entries behind: %+v", entries)
	}
}
