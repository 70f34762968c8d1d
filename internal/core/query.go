package core

import (
	"context"

	"zooapi/internal/infra/persistence/memory"
	"zooapi/pkg/domain"
)

// FilterByQuery narrows an arbitrary collection with the same index-backed
// engine the stores use. Order is preserved and the result is never nil on
// success; the only error is ctx's.
func FilterByQuery(ctx context.Context, q domain.Query, animals []domain.Animal) ([]domain.Animal, error) {
	mem := memory.NewStore()
	mem.ImportState(domain.Document{Animals: animals})
	var out []domain.Animal
	err := mem.View(ctx, func(v domain.TransactionView) error {
		out = v.FilterAnimals(q)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
