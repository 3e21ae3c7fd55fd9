package port

import (
	"context"

	"github.com/rafaelleal24/stockledger/internal/core/domain"
)

//go:generate mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock

// BrokerPort publishes ledger events. Publish returns only once the broker has accepted
// the message; PublishRaw is used by the outbox to resend an already encoded payload.
type BrokerPort interface {
	Publish(ctx context.Context, event domain.Event) error
	PublishRaw(ctx context.Context, eventName, entityName string, data []byte) error
	Close() error
}
