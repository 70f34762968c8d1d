package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"zooapi/internal/infra/persistence/sqlbundle"
	"zooapi/pkg/domain"
)

func openStore(t *testing.T, path string) *Store {
	t.Helper()
	store, err := NewStore(context.Background(), path)
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStorePersistAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	store := openStore(t, path)
	for i := 0; i < 3; i++ {
		err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
			_, e := tx.CreateAnimal(domain.Animal{Name: fmt.Sprintf("Persist-%d", i), Species: "owl", Diet: "carnivore", PersonalityTraits: []string{"wise"}})
			return e
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	_ = store.Close()

	reloaded := openStore(t, path)
	animals := reloaded.ListAnimals()
	if len(animals) != 3 {
		t.Fatalf("expected 3 animals, got %d", len(animals))
	}
	for i, a := range animals {
		if a.ID != fmt.Sprint(i) || a.Name != fmt.Sprintf("Persist-%d", i) {
			t.Fatalf("unexpected record at %d: %+v", i, a)
		}
	}
}

func TestSQLiteStoreAppliesStateDDL(t *testing.T) {
	store := openStore(t, filepath.Join(t.TempDir(), "state.db"))
	var tableName string
	if err := store.DB().QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name = ?", "state").Scan(&tableName); err != nil {
		t.Fatalf("lookup state table: %v", err)
	}
	if tableName != "state" {
		t.Fatalf("expected state table, got %s", tableName)
	}
}

func TestSQLiteStoreLoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "load.db")
	store := openStore(t, path)
	if _, err := store.DB().Exec(`INSERT INTO state(bucket,payload) VALUES(?,?)`, sqlbundle.StateBucket, []byte("{broken")); err != nil {
		t.Fatalf("seed corrupt payload: %v", err)
	}
	_ = store.Close()
	if _, err := NewStore(context.Background(), path); err == nil {
		t.Fatalf("expected decode error for corrupt payload")
	}
}

func TestSQLiteStoreFailedTransactionSkipsPersist(t *testing.T) {
	store := openStore(t, filepath.Join(t.TempDir(), "state.db"))
	err := store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		if _, err := tx.CreateAnimal(domain.Animal{Name: "ghost"}); err != nil {
			return err
		}
		return fmt.Errorf("abort")
	})
	if err == nil {
		t.Fatalf("expected abort error")
	}
	var count int
	if err := store.DB().QueryRow(`SELECT COUNT(*) FROM state`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no persisted state, got %d rows", count)
	}
}
