// Package memory provides the in-memory record store shared by every
// persistence backend. Durable backends embed it and snapshot its state after
// each committed transaction.
package memory

import (
	"context"
	"strconv"
	"sync"

	"zooapi/pkg/domain"
)

// Compile-time contract assertion ensuring memory.Store adheres to the domain persistence interface.
var _ domain.PersistentStore = (*Store)(nil)

type (
	// Animal aliases domain.Animal for in-memory persistence operations.
	Animal = domain.Animal
	// Query aliases domain.Query.
	Query = domain.Query
	// Snapshot is the full ordered collection, in its persisted layout.
	Snapshot = domain.Document
	// Transaction aliases domain.Transaction representing a mutable unit of work.
	Transaction = domain.Transaction
	// TransactionView aliases domain.TransactionView providing read-only state.
	TransactionView = domain.TransactionView
)

type memoryState struct {
	animals []Animal
	index   *index
	// next is the sequence number handed to the next created record. It only
	// ever grows.
	next uint64
}

func newMemoryState() memoryState {
	return memoryState{index: newIndex()}
}

func memoryStateFromSnapshot(s Snapshot) memoryState {
	state := newMemoryState()
	for _, a := range s.Animals {
		state.append(a.Clone())
	}
	state.next = domain.NextSequence(s.Animals)
	return state
}

func (st *memoryState) append(a Animal) {
	pos := uint32(len(st.animals))
	st.animals = append(st.animals, a)
	st.index.add(pos, a)
}

func (st *memoryState) clone() memoryState {
	return memoryState{
		animals: append([]Animal(nil), st.animals...),
		index:   st.index.clone(),
		next:    st.next,
	}
}

// Store is an ordered, append-only animal collection guarded by a RWMutex.
type Store struct {
	mu    sync.RWMutex
	state memoryState
}

// NewStore constructs an empty in-memory store.
func NewStore() *Store {
	return &Store{state: newMemoryState()}
}

// ImportState replaces the store contents with the snapshot and rebuilds the
// filter index and id sequence.
func (s *Store) ImportState(snapshot Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = memoryStateFromSnapshot(snapshot)
}

// ExportState returns a deep copy of the collection in its persisted layout.
func (s *Store) ExportState() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{Animals: domain.CloneAnimals(s.state.animals)}
}

// RunInTransaction runs fn under the write lock. Records created by fn are
// appended only when fn returns nil.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx Transaction) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &transaction{store: s, next: s.state.next}
	if err := fn(tx); err != nil {
		return err
	}
	for _, a := range tx.pending {
		s.state.append(a)
	}
	s.state.next = tx.next
	return nil
}

// View executes fn against the committed collection under the read lock.
func (s *Store) View(ctx context.Context, fn func(TransactionView) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(view{state: &s.state})
}

// GetAnimal returns the first record with the given id.
func (s *Store) GetAnimal(id string) (Animal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return view{state: &s.state}.FindAnimal(id)
}

// ListAnimals returns every record in collection order.
func (s *Store) ListAnimals() []Animal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.CloneAnimals(s.state.animals)
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error { return nil }

type transaction struct {
	store   *Store
	pending []Animal
	next    uint64
}

// CreateAnimal assigns the next sequence number as the record id and stages
// the record for commit.
func (tx *transaction) CreateAnimal(a Animal) (Animal, error) {
	created := a.Clone()
	created.ID = strconv.FormatUint(tx.next, 10)
	tx.next++
	tx.pending = append(tx.pending, created)
	return created.Clone(), nil
}

// Snapshot returns a read-only view that includes records staged so far.
func (tx *transaction) Snapshot() TransactionView {
	state := tx.store.state.clone()
	for _, a := range tx.pending {
		state.append(a)
	}
	return view{state: &state}
}

type view struct {
	state *memoryState
}

func (v view) ListAnimals() []Animal {
	return domain.CloneAnimals(v.state.animals)
}

// FindAnimal scans the collection in order; the collection is small and no
// id index is kept.
func (v view) FindAnimal(id string) (Animal, bool) {
	for _, a := range v.state.animals {
		if a.ID == id {
			return a.Clone(), true
		}
	}
	return Animal{}, false
}

func (v view) FilterAnimals(q Query) []Animal {
	if q.IsZero() {
		return v.ListAnimals()
	}
	positions := v.state.index.selectPositions(q)
	out := make([]Animal, 0, positions.GetCardinality())
	it := positions.Iterator()
	for it.HasNext() {
		out = append(out, v.state.animals[it.Next()].Clone())
	}
	return out
}
