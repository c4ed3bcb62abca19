package server

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pefman/volley-scoreboard/internal/remote"
)

// SnapshotStore keeps the latest accepted snapshot per identity, in memory
// with a write-through copy on disk so a restart serves the last upload.
type SnapshotStore struct {
	mu   sync.Mutex
	docs map[string]string
	dir  string // empty means memory-only
}

// NewSnapshotStore creates a store persisting under dir ("" disables disk).
func NewSnapshotStore(dir string) *SnapshotStore {
	return &SnapshotStore{docs: map[string]string{}, dir: dir}
}

// Save records the snapshot for an identity. Last write wins.
func (s *SnapshotStore) Save(identity, doc string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[identity] = doc
	if s.dir == "" {
		return nil
	}
	boardDir := filepath.Join(s.dir, identity)
	if err := os.MkdirAll(boardDir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", boardDir, err)
	}
	path := filepath.Join(boardDir, remote.SnapshotFilename)
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Get returns the latest snapshot for an identity, loading from disk when
// the process has not seen it yet.
func (s *SnapshotStore) Get(identity string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if doc, ok := s.docs[identity]; ok {
		return doc, true
	}
	if s.dir == "" {
		return "", false
	}
	b, err := os.ReadFile(filepath.Join(s.dir, identity, remote.SnapshotFilename))
	if err != nil {
		return "", false
	}
	doc := string(b)
	s.docs[identity] = doc
	return doc, true
}
