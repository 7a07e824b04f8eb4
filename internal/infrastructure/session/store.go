// Package session persists the per-user session state under ~/.clarify.
package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/doeshing/clarify/internal/domain"
	"github.com/doeshing/clarify/internal/pkg/filesystem"
	"github.com/doeshing/clarify/internal/ports"
)

// FileStore keeps session state in a small JSON file. A corrupt or missing
// file yields a fresh state rather than an error.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a session store backed by ~/.clarify/session.json.
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = filepath.Join(filesystem.UserHomeDir(), ".clarify", "session.json")
	}
	return &FileStore{path: path}
}

// Load implements ports.SessionStore.
func (f *FileStore) Load() (domain.SessionState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.load(), nil
}

// Save implements ports.SessionStore.
func (f *FileStore) Save(state domain.SessionState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.write(state)
}

// SessionID returns the stable session identifier, minting and persisting
// one on first use.
func (f *FileStore) SessionID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	state := f.load()
	if state.SessionID == "" {
		state.SessionID = uuid.NewString()
		// Best effort: an unwritable home still gets a usable id for this run.
		_ = f.write(state)
	}
	return state.SessionID
}

func (f *FileStore) load() domain.SessionState {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return domain.SessionState{}
	}
	var state domain.SessionState
	if err := json.Unmarshal(data, &state); err != nil {
		return domain.SessionState{}
	}
	return state
}

func (f *FileStore) write(state domain.SessionState) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, data, 0o600)
}

var _ ports.SessionStore = (*FileStore)(nil)
