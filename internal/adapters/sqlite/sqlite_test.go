package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rafaelleal24/stockledger/internal/adapters/outbox"
	"github.com/rafaelleal24/stockledger/internal/core/domain"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_AppliesPragmasAndSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	for i := 0; i < 2; i++ {
		s, err := Open(path)
		if err != nil {
			t.Fatalf("Open() iteration %d failed: %v", i, err)
		}
		s.Close()
	}

	s, err := Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s.Close()

	var mode string
	if err := s.db.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil || mode != "wal" {
		t.Fatalf("expected wal journal mode, got %q (%v)", mode, err)
	}
	for _, table := range []string{"products", "transactions", "outbox"} {
		var name string
		if err := s.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name); err != nil {
			t.Fatalf("table %q missing: %v", table, err)
		}
	}
}

func TestStore_Products(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)
	now := time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC)

	products := []*domain.Product{
		{ID: "p1", Name: "Tea", Category: "Beverage", Price: 1550, Quantity: 20, TotalStocked: 20, CreatedAt: now, UpdatedAt: now},
		{ID: "p2", Name: "Scone", Category: "Bakery", Price: 300, Quantity: 4, TotalStocked: 4, CreatedAt: now, UpdatedAt: now},
	}
	if err := s.SaveProducts(ctx, products); err != nil {
		t.Fatalf("save: %v", err)
	}

	products[0].Quantity = 15
	products[0].TotalSold = 5
	if err := s.SaveProducts(ctx, products[:1]); err != nil {
		t.Fatalf("save update: %v", err)
	}

	loaded, err := s.LoadProducts(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("expected removed product deleted, got %d rows", len(loaded))
	}
	if *loaded[0] != *products[0] {
		t.Fatalf("product did not round-trip:\n got %+v\nwant %+v", loaded[0], products[0])
	}

	if err := s.SaveProducts(ctx, nil); err != nil {
		t.Fatalf("save empty: %v", err)
	}
	if loaded, _ := s.LoadProducts(ctx); len(loaded) != 0 {
		t.Fatalf("expected no products, got %d", len(loaded))
	}
}

func TestStore_TransactionsAreAppendedIncrementally(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)
	now := time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC)

	log := []*domain.Transaction{
		{Sequence: 1, ProductID: "p1", Type: domain.TransactionTypeAdd, Quantity: 20, Timestamp: now},
	}
	if err := s.SaveTransactions(ctx, log); err != nil {
		t.Fatalf("save: %v", err)
	}
	log = append(log,
		&domain.Transaction{Sequence: 2, ProductID: "p1", Type: domain.TransactionTypeSell, Quantity: 5, Timestamp: now.Add(time.Second)},
		&domain.Transaction{Sequence: 3, ProductID: "p1", Type: domain.TransactionTypeDelete, Quantity: 15, Timestamp: now.Add(2 * time.Second)},
	)
	if err := s.SaveTransactions(ctx, log); err != nil {
		t.Fatalf("save appended: %v", err)
	}

	loaded, err := s.LoadTransactions(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(loaded))
	}
	for i := range log {
		if *loaded[i] != *log[i] {
			t.Fatalf("transaction %d did not round-trip: %+v", i, loaded[i])
		}
	}
}

func TestTransactionManager_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)
	tm := NewTransactionManager(s)
	repo := NewOutboxRepository(s)

	err := tm.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.SaveProducts(txCtx, []*domain.Product{{ID: "p1", Name: "Tea", Category: "Beverage", Quantity: 1}}); err != nil {
			return err
		}
		if err := repo.Insert(txCtx, outbox.Entry{ID: "e1", EventName: "stock.add", EntityName: "stock", EventData: []byte(`{}`)}); err != nil {
			return err
		}
		return errors.New("boom")
	})
	if err == nil {
		t.Fatal("expected error")
	}

	if products, _ := s.LoadProducts(ctx); len(products) != 0 {
		t.Fatalf("expected product rolled back, got %d", len(products))
	}
	if pending, _ := repo.FetchPending(ctx, 10); len(pending) != 0 {
		t.Fatalf("expected outbox rolled back, got %d", len(pending))
	}
}

func TestTransactionManager_RejectsNegativeStock(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)
	tm := NewTransactionManager(s)

	err := tm.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.SaveProducts(txCtx, []*domain.Product{{ID: "p1", Name: "Tea", Category: "Beverage", Quantity: -1}})
	})
	if err == nil {
		t.Fatal("expected the CHECK constraint to reject negative stock")
	}
}

func TestOutboxRepository(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)
	repo := NewOutboxRepository(s)
	created := time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC)

	for _, id := range []string{"e1", "e2", "e3"} {
		if err := repo.Insert(ctx, outbox.Entry{ID: id, EventName: "stock.sell", EntityName: "stock", EventData: []byte(`{"quantity":1}`), CreatedAt: created}); err != nil {
			t.Fatalf("insert %s: %v", id, err)
		}
	}

	batch, err := repo.FetchPending(ctx, 2)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(batch) != 2 || batch[0].ID != "e1" || string(batch[0].EventData) != `{"quantity":1}` || !batch[0].CreatedAt.Equal(created) {
		t.Fatalf("unexpected batch: %+v", batch)
	}

	if err := repo.Delete(ctx, "e1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	remaining, _ := repo.FetchPending(ctx, 10)
	if len(remaining) != 2 || remaining[0].ID != "e2" {
		t.Fatalf("unexpected remaining: %+v", remaining)
	}
}
