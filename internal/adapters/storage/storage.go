package storage

import (
	"context"
	"fmt"

	"github.com/rafaelleal24/stockledger/internal/adapters/config"
	"github.com/rafaelleal24/stockledger/internal/adapters/file"
	"github.com/rafaelleal24/stockledger/internal/adapters/mongo"
	"github.com/rafaelleal24/stockledger/internal/adapters/mongo/repository"
	"github.com/rafaelleal24/stockledger/internal/adapters/outbox"
	"github.com/rafaelleal24/stockledger/internal/adapters/sqlite"
	"github.com/rafaelleal24/stockledger/internal/core/port"
)

// Backend is one persistence driver with its matching transaction manager and outbox.
// Everything written through TxManager's context commits together.
type Backend struct {
	Driver      config.StorageDriver
	Persistence port.PersistencePort
	TxManager   port.TransactionManager
	Outbox      outbox.Repository
	Ping        func(ctx context.Context) error
	close       func() error
}

func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

func Open(ctx context.Context, cfg *config.Config) (*Backend, error) {
	switch cfg.Storage.Driver {
	case config.StorageFile:
		return openFile(cfg.Storage)
	case config.StorageSQLite:
		return openSQLite(cfg.Storage)
	case config.StorageMongo:
		return openMongo(ctx, cfg.Mongo)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func openFile(cfg config.StorageConfig) (*Backend, error) {
	store, err := file.NewStore(cfg.DataDir)
	if err != nil {
		return nil, err
	}
	return &Backend{
		Driver:      config.StorageFile,
		Persistence: store,
		TxManager:   file.NewTransactionManager(store),
		Outbox:      file.NewOutboxRepository(store),
		Ping:        func(ctx context.Context) error { return store.Ping() },
	}, nil
}

func openSQLite(cfg config.StorageConfig) (*Backend, error) {
	store, err := sqlite.Open(cfg.SQLitePath)
	if err != nil {
		return nil, err
	}
	return &Backend{
		Driver:      config.StorageSQLite,
		Persistence: store,
		TxManager:   sqlite.NewTransactionManager(store),
		Outbox:      sqlite.NewOutboxRepository(store),
		Ping:        store.Ping,
		close:       store.Close,
	}, nil
}

func openMongo(ctx context.Context, cfg config.MongoConfig) (*Backend, error) {
	client, err := mongo.NewConnection(cfg)
	if err != nil {
		return nil, err
	}
	db := client.Database(cfg.Database)
	if err := repository.EnsureIndexes(ctx, db); err != nil {
		_ = mongo.Disconnect(client)
		return nil, fmt.Errorf("failed to ensure indexes: %w", err)
	}
	return &Backend{
		Driver:      config.StorageMongo,
		Persistence: repository.NewLedgerRepository(db),
		TxManager:   mongo.NewTransactionManager(client),
		Outbox:      repository.NewOutboxRepository(db),
		Ping:        func(ctx context.Context) error { return client.Ping(ctx, nil) },
		close:       func() error { return mongo.Disconnect(client) },
	}, nil
}
