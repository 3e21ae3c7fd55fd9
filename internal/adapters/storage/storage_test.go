package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rafaelleal24/stockledger/internal/adapters/config"
	"github.com/rafaelleal24/stockledger/internal/adapters/outbox"
	"github.com/rafaelleal24/stockledger/internal/core/domain"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()

	for _, driver := range []config.StorageDriver{config.StorageFile, config.StorageSQLite} {
		t.Run(string(driver), func(t *testing.T) {
			dir := t.TempDir()
			cfg := &config.Config{Storage: config.StorageConfig{
				Driver:     driver,
				DataDir:    dir,
				SQLitePath: filepath.Join(dir, "ledger.db"),
			}}

			backend, err := Open(ctx, cfg)
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			defer backend.Close()

			if err := backend.Ping(ctx); err != nil {
				t.Fatalf("ping: %v", err)
			}

			product := &domain.Product{ID: "p1", Name: "Tea", Category: "Beverage", Price: 1550, Quantity: 20, TotalStocked: 20}
			event := domain.NewStockMovementEvent(&domain.Transaction{Sequence: 1, ProductID: "p1", Type: domain.TransactionTypeAdd, Quantity: 20}, product)
			err = backend.TxManager.WithTransaction(ctx, func(txCtx context.Context) error {
				if err := backend.Persistence.SaveProducts(txCtx, []*domain.Product{product}); err != nil {
					return err
				}
				return outbox.NewEnqueuer(backend.Outbox).Enqueue(txCtx, event)
			})
			if err != nil {
				t.Fatalf("commit: %v", err)
			}

			products, err := backend.Persistence.LoadProducts(ctx)
			if err != nil || len(products) != 1 || products[0].Quantity != 20 {
				t.Fatalf("unexpected products %+v (err %v)", products, err)
			}
			pending, err := backend.Outbox.FetchPending(ctx, 10)
			if err != nil || len(pending) != 1 || pending[0].EventName != "stock.add" {
				t.Fatalf("unexpected outbox %+v (err %v)", pending, err)
			}
		})
	}

	t.Run("unknown driver", func(t *testing.T) {
		if _, err := Open(ctx, &config.Config{Storage: config.StorageConfig{Driver: "csv"}}); err == nil {
			t.Fatal("expected error for unknown driver")
		}
	})
}
