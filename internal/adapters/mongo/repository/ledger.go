package repository

import (
	"context"

	"github.com/rafaelleal24/stockledger/internal/core/domain"
	"github.com/rafaelleal24/stockledger/internal/core/port"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LedgerRepository persists the ledger in the products and transactions collections.
// Saves join the session transaction carried by ctx.
type LedgerRepository struct {
	products     *ProductRepository
	transactions *TransactionRepository
}

func NewLedgerRepository(db *mongo.Database) port.PersistencePort {
	return &LedgerRepository{
		products:     NewProductRepository(db),
		transactions: NewTransactionRepository(db),
	}
}

func (r *LedgerRepository) LoadProducts(ctx context.Context) ([]*domain.Product, error) {
	return r.products.GetAll(ctx)
}

func (r *LedgerRepository) SaveProducts(ctx context.Context, products []*domain.Product) error {
	return r.products.ReplaceAll(ctx, products)
}

func (r *LedgerRepository) LoadTransactions(ctx context.Context) ([]*domain.Transaction, error) {
	return r.transactions.GetAll(ctx)
}

func (r *LedgerRepository) SaveTransactions(ctx context.Context, transactions []*domain.Transaction) error {
	return r.transactions.AppendNew(ctx, transactions)
}

// EnsureIndexes creates the collections and indexes the ledger relies on. Collections must
// exist before the first multi-document transaction writes to them on older servers.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string]mongo.IndexModel{
		"products":     {Keys: bson.D{{Key: "position", Value: 1}}},
		"transactions": {Keys: bson.D{{Key: "product_id", Value: 1}}},
		"outbox":       {Keys: bson.D{{Key: "created_at", Value: 1}}},
	}
	for collection, index := range indexes {
		if _, err := db.Collection(collection).Indexes().CreateOne(ctx, index, options.CreateIndexes()); err != nil {
			return err
		}
	}
	return nil
}
