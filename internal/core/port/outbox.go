package port

import (
	"context"

	"github.com/rafaelleal24/stockledger/internal/core/domain"
)

//go:generate mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock

// OutboxPort records events for later publication. Enqueue is called inside the
// persistence transaction so an event exists only if the mutation was saved.
type OutboxPort interface {
	Enqueue(ctx context.Context, event domain.Event) error
}
