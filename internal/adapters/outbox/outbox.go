package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rafaelleal24/stockledger/internal/core/domain"
	"github.com/rafaelleal24/stockledger/internal/core/port"
)

type Entry struct {
	ID         string
	EventName  string
	EntityName string
	EventData  []byte
	CreatedAt  time.Time
}

func NewEntry(event domain.Event) (Entry, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return Entry{}, fmt.Errorf("marshal %s event: %w", event.GetName(), err)
	}
	return Entry{
		ID:         uuid.NewString(),
		EventName:  event.GetName(),
		EntityName: event.GetEntityName(),
		EventData:  data,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// Repository stores entries until they are published. Insert must join the persistence
// transaction carried by ctx when there is one.
//
//go:generate mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock
type Repository interface {
	Insert(ctx context.Context, entry Entry) error
	FetchPending(ctx context.Context, limit int) ([]Entry, error)
	Delete(ctx context.Context, id string) error
}

// Enqueuer adapts a Repository to port.OutboxPort.
type Enqueuer struct {
	repo Repository
}

var _ port.OutboxPort = (*Enqueuer)(nil)

func NewEnqueuer(repo Repository) *Enqueuer {
	return &Enqueuer{repo: repo}
}

func (e *Enqueuer) Enqueue(ctx context.Context, event domain.Event) error {
	entry, err := NewEntry(event)
	if err != nil {
		return err
	}
	return e.repo.Insert(ctx, entry)
}
