package port

import (
	"context"

	"github.com/rafaelleal24/stockledger/internal/core/domain"
)

//go:generate mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock

// PersistencePort is the durable backing store of the ledger. Each save replaces the stored
// collection as a whole and must never leave a truncated collection behind. A missing store
// loads as an empty collection.
type PersistencePort interface {
	LoadProducts(ctx context.Context) ([]*domain.Product, error)
	SaveProducts(ctx context.Context, products []*domain.Product) error
	LoadTransactions(ctx context.Context) ([]*domain.Transaction, error)
	SaveTransactions(ctx context.Context, transactions []*domain.Transaction) error
}
