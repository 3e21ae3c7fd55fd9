package sqlite

import (
	"context"
	"fmt"

	"github.com/rafaelleal24/stockledger/internal/adapters/outbox"
)

type OutboxRepository struct {
	store *Store
}

var _ outbox.Repository = (*OutboxRepository)(nil)

func NewOutboxRepository(store *Store) *OutboxRepository {
	return &OutboxRepository{store: store}
}

func (r *OutboxRepository) Insert(ctx context.Context, entry outbox.Entry) error {
	_, err := r.store.conn(ctx).ExecContext(ctx, `
		INSERT INTO outbox (id, event_name, entity_name, event_data, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, entry.ID, entry.EventName, entry.EntityName, entry.EventData, formatTime(entry.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert outbox entry: %w", err)
	}
	return nil
}

func (r *OutboxRepository) FetchPending(ctx context.Context, limit int) ([]outbox.Entry, error) {
	rows, err := r.store.conn(ctx).QueryContext(ctx, `
		SELECT id, event_name, entity_name, event_data, created_at
		FROM outbox
		ORDER BY seq
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch outbox: %w", err)
	}
	defer rows.Close()

	var entries []outbox.Entry
	for rows.Next() {
		var (
			entry     outbox.Entry
			createdAt string
		)
		if err := rows.Scan(&entry.ID, &entry.EventName, &entry.EntityName, &entry.EventData, &createdAt); err != nil {
			return nil, fmt.Errorf("scan outbox entry: %w", err)
		}
		if entry.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("outbox entry %s created_at: %w", entry.ID, err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *OutboxRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.store.conn(ctx).ExecContext(ctx, "DELETE FROM outbox WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete outbox entry: %w", err)
	}
	return nil
}
