package domain

import "context"

// Transaction exposes the mutations a persistence implementation supports
// within one write critical section.
type Transaction interface {
	Snapshot() TransactionView
	// CreateAnimal assigns the next sequential identifier to a and appends it.
	// Any identifier already set on a is discarded.
	CreateAnimal(a Animal) (Animal, error)
}

// TransactionView provides read-only access to the collection.
type TransactionView interface {
	ListAnimals() []Animal
	FindAnimal(id string) (Animal, bool)
	FilterAnimals(q Query) []Animal
}

// PersistentStore is the abstraction over durable backends used by the
// service layer.
type PersistentStore interface {
	RunInTransaction(ctx context.Context, fn func(Transaction) error) error
	View(ctx context.Context, fn func(TransactionView) error) error
	GetAnimal(id string) (Animal, bool)
	ListAnimals() []Animal
	Close() error
}
