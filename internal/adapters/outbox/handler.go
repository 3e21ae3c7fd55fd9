package outbox

import (
	"context"
	"time"

	"github.com/rafaelleal24/stockledger/internal/adapters/config"
	"github.com/rafaelleal24/stockledger/internal/core/logger"
	"github.com/rafaelleal24/stockledger/internal/core/port"
)

// Handler relays committed ledger events from the outbox to the broker. An entry is
// removed only after the broker accepted it, so delivery is at least once.
type Handler struct {
	outbox   Repository
	broker   port.BrokerPort
	interval time.Duration
	batch    int
}

func NewHandler(outbox Repository, broker port.BrokerPort, config config.OutboxConfig) *Handler {
	return &Handler{
		outbox:   outbox,
		broker:   broker,
		interval: config.Interval,
		batch:    config.BatchSize,
	}
}

func (h *Handler) Start(ctx context.Context) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.processEvents(ctx)
		}
	}
}

// Flush publishes batches until the outbox is empty or a batch makes no progress.
// It returns how many entries were published.
func (h *Handler) Flush(ctx context.Context) int {
	total := 0
	for ctx.Err() == nil {
		published, pending := h.processEvents(ctx)
		total += published
		if published == 0 || pending < h.batch {
			break
		}
	}
	return total
}

func (h *Handler) processEvents(ctx context.Context) (published, fetched int) {
	entries, err := h.outbox.FetchPending(ctx, h.batch)
	if err != nil {
		logger.Error(ctx, "outbox: failed to fetch pending events", err, map[string]any{
			"batch": h.batch,
		})
		return 0, 0
	}

	for _, entry := range entries {
		eventLogAttributes := map[string]any{
			"event_id":    entry.ID,
			"event_name":  entry.EventName,
			"entity_name": entry.EntityName,
		}
		if err := h.broker.PublishRaw(ctx, entry.EventName, entry.EntityName, entry.EventData); err != nil {
			logger.Error(ctx, "outbox: failed to publish event", err, eventLogAttributes)
			continue
		}

		logger.Debug(ctx, "outbox: event published", eventLogAttributes)
		published++

		if err := h.outbox.Delete(ctx, entry.ID); err != nil {
			logger.Error(ctx, "outbox: failed to delete event after publish", err, eventLogAttributes)
		}
	}
	return published, len(entries)
}
