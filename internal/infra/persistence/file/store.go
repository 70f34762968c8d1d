// Package file provides the default backend: the whole collection lives in a
// single pretty-printed JSON document on the local filesystem and is rewritten
// after every successful append.
package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"zooapi/internal/infra/persistence/memory"
	"zooapi/pkg/domain"
)

var _ domain.PersistentStore = (*Store)(nil)

// DefaultPath is used when no document path is configured.
const DefaultPath = "data/animals.json"

// Store reuses the in-memory implementation for reads and transactions and
// snapshots the collection to path after every commit.
type Store struct {
	*memory.Store
	mu   sync.Mutex
	path string
}

// NewStore loads the document at path. A missing file yields an empty
// collection; the file is created on the first append.
func NewStore(path string) (*Store, error) {
	if path == "" {
		path = DefaultPath
	}
	snapshot, err := Load(path)
	if err != nil {
		return nil, err
	}
	mem := memory.NewStore()
	mem.ImportState(snapshot)
	return &Store{Store: mem, path: path}, nil
}

// Load reads and decodes the document at path.
func Load(path string) (domain.Document, error) {
	// #nosec G304 -- path comes from operator configuration
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.Document{Animals: []domain.Animal{}}, nil
	}
	if err != nil {
		return domain.Document{}, fmt.Errorf("read %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return domain.Document{Animals: []domain.Animal{}}, nil
	}
	var doc domain.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return domain.Document{}, fmt.Errorf("decode %s: %w", path, err)
	}
	if doc.Animals == nil {
		doc.Animals = []domain.Animal{}
	}
	return doc, nil
}

// Encode renders the document the way it is stored on disk: two-space
// indentation under a top-level "animals" key.
func Encode(doc domain.Document) ([]byte, error) {
	if doc.Animals == nil {
		doc.Animals = []domain.Animal{}
	}
	return json.MarshalIndent(doc, "", "  ")
}

// RunInTransaction commits fn against the in-memory collection and then
// rewrites the document. Both steps happen under one lock so concurrent
// appends cannot interleave their rewrites.
func (s *Store) RunInTransaction(ctx context.Context, fn func(domain.Transaction) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.Store.RunInTransaction(ctx, fn); err != nil {
		return err
	}
	if err := s.persist(ctx); err != nil {
		return fmt.Errorf("persist animals: %w", err)
	}
	return nil
}

// Path returns the configured document path.
func (s *Store) Path() string { return s.path }

func (s *Store) persist(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := Encode(s.ExportState())
	if err != nil {
		return err
	}
	return writeAtomic(s.path, data)
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create dirs: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".animals-*.tmp")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	// #nosec G302 -- the document is meant to be readable by operators
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
