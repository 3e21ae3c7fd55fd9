package file

import (
	"context"

	"github.com/rafaelleal24/stockledger/internal/adapters/outbox"
)

// OutboxRepository keeps pending events in outbox.json next to the ledger files.
type OutboxRepository struct {
	store *Store
}

var _ outbox.Repository = (*OutboxRepository)(nil)

func NewOutboxRepository(store *Store) *OutboxRepository {
	return &OutboxRepository{store: store}
}

func (r *OutboxRepository) Insert(ctx context.Context, entry outbox.Entry) error {
	rec := outboxRecord{
		ID:         entry.ID,
		EventName:  entry.EventName,
		EntityName: entry.EntityName,
		EventData:  entry.EventData,
		CreatedAt:  entry.CreatedAt,
	}
	if u := unitFromContext(ctx); u != nil {
		u.outbox = append(u.outbox, rec)
		return nil
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var pending []outboxRecord
	if err := r.store.readJSON(outboxFile, &pending); err != nil {
		return err
	}
	return r.store.writeJSON(outboxFile, append(pending, rec))
}

func (r *OutboxRepository) FetchPending(ctx context.Context, limit int) ([]outbox.Entry, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var pending []outboxRecord
	if err := r.store.readJSON(outboxFile, &pending); err != nil {
		return nil, err
	}
	if limit > 0 && len(pending) > limit {
		pending = pending[:limit]
	}

	entries := make([]outbox.Entry, len(pending))
	for i, rec := range pending {
		entries[i] = outbox.Entry{
			ID:         rec.ID,
			EventName:  rec.EventName,
			EntityName: rec.EntityName,
			EventData:  rec.EventData,
			CreatedAt:  rec.CreatedAt,
		}
	}
	return entries, nil
}

func (r *OutboxRepository) Delete(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var pending []outboxRecord
	if err := r.store.readJSON(outboxFile, &pending); err != nil {
		return err
	}
	kept := make([]outboxRecord, 0, len(pending))
	for _, rec := range pending {
		if rec.ID != id {
			kept = append(kept, rec)
		}
	}
	return r.store.writeJSON(outboxFile, kept)
}
