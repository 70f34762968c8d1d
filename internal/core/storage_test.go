package core

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zooapi/internal/blob"
	"zooapi/internal/infra/persistence/file"
	"zooapi/internal/infra/persistence/memory"
	"zooapi/internal/infra/persistence/objectstore"
	"zooapi/internal/infra/persistence/postgres"
	pgtestutil "zooapi/internal/infra/persistence/postgres/testutil"
	"zooapi/internal/infra/persistence/sqlite"
	"zooapi/pkg/domain"
)

const seedDocument = `{"animals": [{"id": "0", "name": "Leo", "species": "lion", "diet": "carnivore", "personalityTraits": ["brave"]}]}`

func writeSeed(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "animals.json")
	require.NoError(t, os.WriteFile(path, []byte(seedDocument), 0o600))
	return path
}

func TestOpenPersistentStoreFileIsDefault(t *testing.T) {
	path := writeSeed(t)
	store, err := OpenPersistentStore(context.Background(), StorageConfig{DataPath: path})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	fs, ok := store.(*file.Store)
	require.True(t, ok, "expected *file.Store, got %T", store)
	assert.Equal(t, path, fs.Path())
	assert.Len(t, store.ListAnimals(), 1)
}

func TestOpenPersistentStoreMemory(t *testing.T) {
	store, err := OpenPersistentStore(context.Background(), StorageConfig{Driver: StorageMemory})
	require.NoError(t, err)
	_, ok := store.(*memory.Store)
	require.True(t, ok, "expected *memory.Store, got %T", store)
	assert.Empty(t, store.ListAnimals())

	path := writeSeed(t)
	seeded, err := OpenPersistentStore(context.Background(), StorageConfig{Driver: StorageMemory, DataPath: path})
	require.NoError(t, err)
	assert.Len(t, seeded.ListAnimals(), 1)

	svc := NewService(seeded)
	created, err := svc.CreateAnimal(context.Background(), validPayload())
	require.NoError(t, err)
	assert.Equal(t, "1", created.ID)

	doc, err := file.Load(path)
	require.NoError(t, err)
	assert.Len(t, doc.Animals, 1, "memory driver must not write back to the seed document")
}

func TestOpenPersistentStoreSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zooapi.db")
	store, err := OpenPersistentStore(context.Background(), StorageConfig{Driver: StorageSQLite, SQLitePath: path})
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	ss, ok := store.(*sqlite.Store)
	require.True(t, ok, "expected *sqlite.Store, got %T", store)
	assert.Equal(t, path, ss.Path())
}

func TestOpenPersistentStorePostgres(t *testing.T) {
	db, conn := pgtestutil.NewStubDB()
	restore := postgres.OverrideSQLOpen(func(_, _ string) (*sql.DB, error) { return db, nil })
	t.Cleanup(restore)

	store, err := OpenPersistentStore(context.Background(), StorageConfig{Driver: StoragePostgres, PostgresDSN: "postgres://stub"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	_, ok := store.(*postgres.Store)
	require.True(t, ok, "expected *postgres.Store, got %T", store)
	assert.NotEmpty(t, conn.Execs)
}

func TestOpenPersistentStorePostgresFailure(t *testing.T) {
	db, conn := pgtestutil.NewStubDB()
	conn.FailPing = true
	restore := postgres.OverrideSQLOpen(func(_, _ string) (*sql.DB, error) { return db, nil })
	t.Cleanup(restore)

	store, err := OpenPersistentStore(context.Background(), StorageConfig{Driver: StoragePostgres})
	require.Error(t, err)
	assert.Nil(t, store)
	assert.Contains(t, err.Error(), "open postgres store")
}

func TestOpenPersistentStoreBlob(t *testing.T) {
	store, err := OpenPersistentStore(context.Background(), StorageConfig{
		Driver:  StorageBlob,
		BlobKey: "zoo/animals.json",
		Blob:    blob.Config{Driver: blob.DriverMemory},
	})
	require.NoError(t, err)
	obs, ok := store.(*objectstore.Store)
	require.True(t, ok, "expected *objectstore.Store, got %T", store)
	assert.Equal(t, "zoo/animals.json", obs.Key())

	svc := NewService(store)
	_, err = svc.CreateAnimal(context.Background(), validPayload())
	require.NoError(t, err)
	assert.Len(t, store.ListAnimals(), 1)
}

func TestOpenPersistentStoreErrors(t *testing.T) {
	corrupt := filepath.Join(t.TempDir(), "animals.json")
	require.NoError(t, os.WriteFile(corrupt, []byte("{"), 0o600))

	cases := []struct {
		name string
		cfg  StorageConfig
		want string
	}{
		{"unknown driver", StorageConfig{Driver: "cassandra"}, "open cassandra store"},
		{"corrupt file", StorageConfig{DataPath: corrupt}, "open file store"},
		{"corrupt memory seed", StorageConfig{Driver: StorageMemory, DataPath: corrupt}, "open memory store"},
		{"unknown blob driver", StorageConfig{Driver: StorageBlob, Blob: blob.Config{Driver: "gcs"}}, "open blob store"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store, err := OpenPersistentStore(context.Background(), tc.cfg)
			require.Error(t, err)
			assert.Nil(t, store)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestStorageDriversListed(t *testing.T) {
	assert.Equal(t, []StorageDriver{StorageFile, StorageMemory, StorageSQLite, StoragePostgres, StorageBlob}, StorageDrivers)
	assert.Equal(t, StorageFile, driverName(""))
	var _ PersistentStore = (*file.Store)(nil)
	var _ domain.PersistentStore = (*objectstore.Store)(nil)
}
