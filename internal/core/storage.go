package core

import (
	"context"
	"fmt"

	"zooapi/internal/blob"
	"zooapi/internal/infra/persistence/file"
	"zooapi/internal/infra/persistence/memory"
	"zooapi/internal/infra/persistence/objectstore"
	"zooapi/internal/infra/persistence/postgres"
	"zooapi/internal/infra/persistence/sqlite"
	"zooapi/pkg/domain"
)

// StorageDriver identifies a concrete persistent storage implementation.
type StorageDriver string

const (
	StorageFile     StorageDriver = "file"     // pretty JSON document on disk (default)
	StorageMemory   StorageDriver = "memory"   // in-memory only, optionally seeded from the document
	StorageSQLite   StorageDriver = "sqlite"   // embedded sqlite file
	StoragePostgres StorageDriver = "postgres" // PostgreSQL server
	StorageBlob     StorageDriver = "blob"     // single object in a blob store
)

// StorageDrivers lists every accepted driver name.
var StorageDrivers = []StorageDriver{StorageFile, StorageMemory, StorageSQLite, StoragePostgres, StorageBlob}

type (
	Transaction     = domain.Transaction
	TransactionView = domain.TransactionView
	PersistentStore = domain.PersistentStore
)

// StorageConfig selects and configures the backing source.
type StorageConfig struct {
	Driver      StorageDriver
	DataPath    string
	SQLitePath  string
	PostgresDSN string
	BlobKey     string
	Blob        blob.Config
}

// OpenPersistentStore opens the backend named by cfg.Driver. An empty driver
// means the file driver.
func OpenPersistentStore(ctx context.Context, cfg StorageConfig) (PersistentStore, error) {
	var (
		store PersistentStore
		err   error
	)
	switch cfg.Driver {
	case "", StorageFile:
		var fs *file.Store
		if fs, err = file.NewStore(cfg.DataPath); err == nil {
			store = fs
		}
	case StorageMemory:
		store, err = openMemory(cfg.DataPath)
	case StorageSQLite:
		var ss *sqlite.Store
		if ss, err = sqlite.NewStore(ctx, cfg.SQLitePath); err == nil {
			store = ss
		}
	case StoragePostgres:
		var ps *postgres.Store
		if ps, err = postgres.NewStore(ctx, cfg.PostgresDSN); err == nil {
			store = ps
		}
	case StorageBlob:
		var blobs blob.Store
		if blobs, err = blob.Open(ctx, cfg.Blob); err == nil {
			var obs *objectstore.Store
			if obs, err = objectstore.NewStore(ctx, blobs, cfg.BlobKey); err == nil {
				store = obs
			}
		}
	default:
		err = fmt.Errorf("unknown storage driver %s", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", driverName(cfg.Driver), err)
	}
	return store, nil
}

func openMemory(seedPath string) (PersistentStore, error) {
	mem := memory.NewStore()
	if seedPath == "" {
		return mem, nil
	}
	doc, err := file.Load(seedPath)
	if err != nil {
		return nil, err
	}
	mem.ImportState(doc)
	return mem, nil
}

func driverName(d StorageDriver) StorageDriver {
	if d == "" {
		return StorageFile
	}
	return d
}
