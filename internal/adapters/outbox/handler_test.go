package outbox_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rafaelleal24/stockledger/internal/adapters/config"
	"github.com/rafaelleal24/stockledger/internal/adapters/outbox"
	outboxmock "github.com/rafaelleal24/stockledger/internal/adapters/outbox/mock"
	"github.com/rafaelleal24/stockledger/internal/core/domain"
	portmock "github.com/rafaelleal24/stockledger/internal/core/port/mock"
	"go.uber.org/mock/gomock"
)

func TestHandler_ProcessesAndDeletesEvents(t *testing.T) {
	ctrl := gomock.NewController(t)
	broker := portmock.NewMockBrokerPort(ctrl)
	repo := outboxmock.NewMockRepository(ctrl)

	entries := []outbox.Entry{
		{ID: "1", EventName: "stock.add", EntityName: "stock", EventData: []byte(`{"sequence":1}`)},
		{ID: "2", EventName: "stock.sell", EntityName: "stock", EventData: []byte(`{"sequence":2}`)},
	}

	repo.EXPECT().FetchPending(gomock.Any(), 10).Return(entries, nil).Times(1)
	repo.EXPECT().FetchPending(gomock.Any(), 10).Return(nil, nil).AnyTimes()

	broker.EXPECT().PublishRaw(gomock.Any(), "stock.add", "stock", []byte(`{"sequence":1}`)).Return(nil)
	broker.EXPECT().PublishRaw(gomock.Any(), "stock.sell", "stock", []byte(`{"sequence":2}`)).Return(nil)

	repo.EXPECT().Delete(gomock.Any(), "1").Return(nil)
	repo.EXPECT().Delete(gomock.Any(), "2").Return(nil)

	handler := outbox.NewHandler(repo, broker, config.OutboxConfig{
		Interval:  50 * time.Millisecond,
		BatchSize: 10,
	})

	ctx, cancel := context.WithCancel(context.Background())
	go handler.Start(ctx)

	time.Sleep(200 * time.Millisecond)
	cancel()
}

func TestHandler_SkipsEventOnPublishFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	broker := portmock.NewMockBrokerPort(ctrl)
	repo := outboxmock.NewMockRepository(ctrl)

	entries := []outbox.Entry{
		{ID: "1", EventName: "stock.sell", EntityName: "stock", EventData: []byte(`{"sequence":7}`)},
		{ID: "2", EventName: "stock.low", EntityName: "stock", EventData: []byte(`{"quantity":2}`)},
	}

	repo.EXPECT().FetchPending(gomock.Any(), 10).Return(entries, nil).Times(1)
	repo.EXPECT().FetchPending(gomock.Any(), 10).Return(nil, nil).AnyTimes()

	// First event fails publish → no Delete called for it
	broker.EXPECT().PublishRaw(gomock.Any(), "stock.sell", "stock", []byte(`{"sequence":7}`)).Return(errors.New("publish failed"))
	// Second event succeeds
	broker.EXPECT().PublishRaw(gomock.Any(), "stock.low", "stock", []byte(`{"quantity":2}`)).Return(nil)
	repo.EXPECT().Delete(gomock.Any(), "2").Return(nil)

	handler := outbox.NewHandler(repo, broker, config.OutboxConfig{
		Interval:  50 * time.Millisecond,
		BatchSize: 10,
	})

	ctx, cancel := context.WithCancel(context.Background())
	go handler.Start(ctx)

	time.Sleep(200 * time.Millisecond)
	cancel()
}

func TestHandler_HandlesEmptyOutbox(t *testing.T) {
	ctrl := gomock.NewController(t)
	broker := portmock.NewMockBrokerPort(ctrl)
	repo := outboxmock.NewMockRepository(ctrl)

	repo.EXPECT().FetchPending(gomock.Any(), 10).Return(nil, nil).AnyTimes()

	handler := outbox.NewHandler(repo, broker, config.OutboxConfig{
		Interval:  50 * time.Millisecond,
		BatchSize: 10,
	})

	ctx, cancel := context.WithCancel(context.Background())
	go handler.Start(ctx)

	time.Sleep(200 * time.Millisecond)
	cancel()
}

func TestHandler_HandlesFetchError(t *testing.T) {
	ctrl := gomock.NewController(t)
	broker := portmock.NewMockBrokerPort(ctrl)
	repo := outboxmock.NewMockRepository(ctrl)

	repo.EXPECT().FetchPending(gomock.Any(), 10).Return(nil, errors.New("db down")).AnyTimes()

	handler := outbox.NewHandler(repo, broker, config.OutboxConfig{
		Interval:  50 * time.Millisecond,
		BatchSize: 10,
	})

	ctx, cancel := context.WithCancel(context.Background())
	go handler.Start(ctx)

	time.Sleep(200 * time.Millisecond)
	cancel()
}

func TestHandler_DeleteFailureDoesNotPanic(t *testing.T) {
	ctrl := gomock.NewController(t)
	broker := portmock.NewMockBrokerPort(ctrl)
	repo := outboxmock.NewMockRepository(ctrl)

	entries := []outbox.Entry{
		{ID: "1", EventName: "stock.add", EntityName: "stock", EventData: []byte(`{"sequence":1}`)},
	}

	repo.EXPECT().FetchPending(gomock.Any(), 10).Return(entries, nil).Times(1)
	repo.EXPECT().FetchPending(gomock.Any(), 10).Return(nil, nil).AnyTimes()

	broker.EXPECT().PublishRaw(gomock.Any(), "stock.add", "stock", []byte(`{"sequence":1}`)).Return(nil)
	repo.EXPECT().Delete(gomock.Any(), "1").Return(errors.New("delete failed"))

	handler := outbox.NewHandler(repo, broker, config.OutboxConfig{
		Interval:  50 * time.Millisecond,
		BatchSize: 10,
	})

	ctx, cancel := context.WithCancel(context.Background())
	go handler.Start(ctx)

	time.Sleep(200 * time.Millisecond)
	cancel()
}

func TestHandler_StopsOnContextCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	broker := portmock.NewMockBrokerPort(ctrl)
	repo := outboxmock.NewMockRepository(ctrl)

	handler := outbox.NewHandler(repo, broker, config.OutboxConfig{
		Interval:  1 * time.Hour,
		BatchSize: 10,
	})

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		handler.Start(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("handler did not stop after context cancellation")
	}
}

func TestHandler_RespectsBatchSize(t *testing.T) {
	ctrl := gomock.NewController(t)
	broker := portmock.NewMockBrokerPort(ctrl)
	repo := outboxmock.NewMockRepository(ctrl)

	repo.EXPECT().FetchPending(gomock.Any(), 5).Return(nil, nil).AnyTimes()

	handler := outbox.NewHandler(repo, broker, config.OutboxConfig{
		Interval:  50 * time.Millisecond,
		BatchSize: 5,
	})

	ctx, cancel := context.WithCancel(context.Background())
	go handler.Start(ctx)

	time.Sleep(200 * time.Millisecond)
	cancel()
}

func TestHandler_FlushDrainsAllBatches(t *testing.T) {
	ctrl := gomock.NewController(t)
	broker := portmock.NewMockBrokerPort(ctrl)
	repo := outboxmock.NewMockRepository(ctrl)

	first := []outbox.Entry{
		{ID: "1", EventName: "stock.add", EntityName: "stock"},
		{ID: "2", EventName: "stock.sell", EntityName: "stock"},
	}
	second := []outbox.Entry{
		{ID: "3", EventName: "stock.delete", EntityName: "stock"},
	}
	gomock.InOrder(
		repo.EXPECT().FetchPending(gomock.Any(), 2).Return(first, nil),
		repo.EXPECT().FetchPending(gomock.Any(), 2).Return(second, nil),
	)
	broker.EXPECT().PublishRaw(gomock.Any(), gomock.Any(), "stock", gomock.Any()).Return(nil).Times(3)
	repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).Times(3)

	handler := outbox.NewHandler(repo, broker, config.OutboxConfig{Interval: time.Hour, BatchSize: 2})

	if n := handler.Flush(context.Background()); n != 3 {
		t.Fatalf("expected 3 published, got %d", n)
	}
}

func TestEnqueuer_InsertsMarshalledEvent(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := outboxmock.NewMockRepository(ctrl)
	enqueuer := outbox.NewEnqueuer(repo)

	tx := &domain.Transaction{Sequence: 4, ProductID: "p1", Type: domain.TransactionTypeSell, Quantity: 3}
	product := &domain.Product{ID: "p1", Name: "Tea", Quantity: 12, TotalStocked: 20, TotalSold: 8}

	repo.EXPECT().
		Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, entry outbox.Entry) error {
			if entry.ID == "" || entry.EventName != "stock.sell" || entry.EntityName != "stock" {
				t.Fatalf("unexpected entry: %+v", entry)
			}
			var payload domain.StockMovementEvent
			if err := json.Unmarshal(entry.EventData, &payload); err != nil {
				t.Fatalf("unmarshal payload: %v", err)
			}
			if payload.Sequence != 4 || payload.StockAfter != 12 || payload.Quantity != 3 {
				t.Fatalf("unexpected payload: %+v", payload)
			}
			return nil
		})

	if err := enqueuer.Enqueue(context.Background(), domain.NewStockMovementEvent(tx, product)); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}
