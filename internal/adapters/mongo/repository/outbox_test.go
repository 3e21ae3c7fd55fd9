package repository_test

import (
	"context"
	"errors"
	"testing"

	mongoadapter "github.com/rafaelleal24/stockledger/internal/adapters/mongo"
	"github.com/rafaelleal24/stockledger/internal/adapters/mongo/repository"
	"github.com/rafaelleal24/stockledger/internal/adapters/outbox"
)

func TestOutboxRepository_Insert(t *testing.T) {
	freshDB := testClient.Database("test_outbox_insert")
	repo := repository.NewOutboxRepository(freshDB)
	ctx := context.Background()

	t.Run("inserts entry successfully", func(t *testing.T) {
		entry := outbox.Entry{
			ID:         "evt-1",
			EventName:  "stock.add",
			EntityName: "stock",
			EventData:  []byte(`{"sequence":1}`),
		}

		err := repo.Insert(ctx, entry)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})
}

func TestOutboxRepository_FetchPending(t *testing.T) {
	freshDB := testClient.Database("test_outbox_fetch")
	repo := repository.NewOutboxRepository(freshDB)
	ctx := context.Background()

	t.Run("returns empty when no entries", func(t *testing.T) {
		entries, err := repo.FetchPending(ctx, 10)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(entries) != 0 {
			t.Fatalf("expected 0 entries, got %d", len(entries))
		}
	})

	t.Run("fetches inserted entries", func(t *testing.T) {
		_ = repo.Insert(ctx, outbox.Entry{EventName: "stock.sell", EntityName: "stock", EventData: []byte(`{}`)})
		_ = repo.Insert(ctx, outbox.Entry{EventName: "stock.low", EntityName: "stock", EventData: []byte(`{}`)})

		entries, err := repo.FetchPending(ctx, 10)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(entries) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(entries))
		}
		for i, e := range entries {
			if e.ID == "" {
				t.Fatalf("entry[%d] has empty ID", i)
			}
		}
	})

	t.Run("respects limit", func(t *testing.T) {
		entries, err := repo.FetchPending(ctx, 1)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(entries) != 1 {
			t.Fatalf("expected 1 entry (limit=1), got %d", len(entries))
		}
	})
}

func TestOutboxRepository_Delete(t *testing.T) {
	freshDB := testClient.Database("test_outbox_delete")
	repo := repository.NewOutboxRepository(freshDB)
	ctx := context.Background()

	t.Run("deletes entry by ID", func(t *testing.T) {
		_ = repo.Insert(ctx, outbox.Entry{EventName: "stock.delete", EntityName: "stock", EventData: []byte(`{}`)})

		entries, _ := repo.FetchPending(ctx, 10)
		if len(entries) == 0 {
			t.Fatal("setup: expected at least 1 entry")
		}

		err := repo.Delete(ctx, entries[0].ID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		remaining, _ := repo.FetchPending(ctx, 10)
		if len(remaining) != 0 {
			t.Fatalf("expected 0 entries after delete, got %d", len(remaining))
		}
	})

	t.Run("deleting an unknown ID is a no-op", func(t *testing.T) {
		if err := repo.Delete(ctx, "missing"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})
}

func TestOutboxRepository_JoinsSessionTransaction(t *testing.T) {
	freshDB := testClient.Database("test_outbox_tx")
	repo := repository.NewOutboxRepository(freshDB)
	tm := mongoadapter.NewTransactionManager(testClient)
	ctx := context.Background()

	if err := repository.EnsureIndexes(ctx, freshDB); err != nil {
		t.Fatalf("setup: ensure indexes: %v", err)
	}

	err := tm.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := repo.Insert(txCtx, outbox.Entry{ID: "tx-evt", EventName: "stock.add", EntityName: "stock", EventData: []byte(`{}`)}); err != nil {
			return err
		}
		return errors.New("abort")
	})
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	entries, err := repo.FetchPending(ctx, 10)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected aborted insert to be discarded, got %d entries", len(entries))
	}
}
