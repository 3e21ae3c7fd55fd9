package repository

import (
	"context"
	"fmt"

	"github.com/rafaelleal24/stockledger/internal/adapters/mongo/document"
	"github.com/rafaelleal24/stockledger/internal/core/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TransactionRepository struct {
	*BaseRepository[document.TransactionDocument]
}

func NewTransactionRepository(db *mongo.Database) *TransactionRepository {
	return &TransactionRepository{
		BaseRepository: NewBaseRepository[document.TransactionDocument](db, "transactions"),
	}
}

func (r *TransactionRepository) GetAll(ctx context.Context) ([]*domain.Transaction, error) {
	docs, err := r.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}

	transactions := make([]*domain.Transaction, len(docs))
	for i, doc := range docs {
		transactions[i] = doc.ToDomain()
	}
	return transactions, nil
}

func (r *TransactionRepository) LastSequence(ctx context.Context) (int64, error) {
	var doc document.TransactionDocument
	err := r.collection.FindOne(ctx, bson.M{}, options.FindOne().SetSort(bson.D{{Key: "_id", Value: -1}})).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return doc.Sequence, nil
}

// AppendNew inserts the transactions whose sequence is past the last stored one.
func (r *TransactionRepository) AppendNew(ctx context.Context, transactions []*domain.Transaction) error {
	last, err := r.LastSequence(ctx)
	if err != nil {
		return fmt.Errorf("read last sequence: %w", err)
	}

	var docs []any
	for _, tx := range transactions {
		if tx.Sequence > last {
			docs = append(docs, document.ToTransactionDocument(tx))
		}
	}
	if len(docs) == 0 {
		return nil
	}
	if _, err := r.collection.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("append transactions: %w", parseError(err))
	}
	return nil
}
