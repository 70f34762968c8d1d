// Package objectstore keeps the animal document as a single object in a blob
// store (S3 / MinIO or in-memory), rewriting it after every append.
package objectstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"zooapi/internal/blob"
	"zooapi/internal/infra/persistence/file"
	"zooapi/internal/infra/persistence/memory"
	"zooapi/pkg/domain"
)

var _ domain.PersistentStore = (*Store)(nil)

// DefaultKey is the object key used when none is configured.
const DefaultKey = "animals.json"

// Store reuses the in-memory implementation and uploads the encoded document
// after every committed transaction.
type Store struct {
	*memory.Store
	blobs blob.Store
	key   string
	mu    sync.Mutex
}

// NewStore downloads the document at key. A missing object yields an empty collection.
func NewStore(ctx context.Context, blobs blob.Store, key string) (*Store, error) {
	if blobs == nil {
		return nil, errors.New("blob store required")
	}
	if key == "" {
		key = DefaultKey
	}
	doc, err := load(ctx, blobs, key)
	if err != nil {
		return nil, err
	}
	mem := memory.NewStore()
	mem.ImportState(doc)
	return &Store{Store: mem, blobs: blobs, key: key}, nil
}

func load(ctx context.Context, blobs blob.Store, key string) (domain.Document, error) {
	_, rc, err := blobs.Get(ctx, key)
	if errors.Is(err, blob.ErrNotFound) {
		return domain.Document{Animals: []domain.Animal{}}, nil
	}
	if err != nil {
		return domain.Document{}, fmt.Errorf("get %s: %w", key, err)
	}
	defer func() { _ = rc.Close() }()
	data, err := io.ReadAll(rc)
	if err != nil {
		return domain.Document{}, fmt.Errorf("read %s: %w", key, err)
	}
	var doc domain.Document
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, &doc); err != nil {
			return domain.Document{}, fmt.Errorf("decode %s: %w", key, err)
		}
	}
	return doc, nil
}

// RunInTransaction commits fn in memory and uploads the rewritten document
// under the same lock.
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

// Key returns the object key holding the document.
func (s *Store) Key() string { return s.key }

func (s *Store) persist(ctx context.Context) error {
	data, err := file.Encode(s.ExportState())
	if err != nil {
		return err
	}
	_, err = s.blobs.Put(ctx, s.key, bytes.NewReader(data), blob.PutOptions{ContentType: "application/json"})
	return err
}
