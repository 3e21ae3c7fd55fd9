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

type ProductRepository struct {
	*BaseRepository[document.ProductDocument]
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{
		BaseRepository: NewBaseRepository[document.ProductDocument](db, "products"),
	}
}

func (r *ProductRepository) GetAll(ctx context.Context) ([]*domain.Product, error) {
	docs, err := r.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "position", Value: 1}}))
	if err != nil {
		return nil, err
	}

	products := make([]*domain.Product, len(docs))
	for i, doc := range docs {
		products[i] = doc.ToDomain()
	}
	return products, nil
}

// ReplaceAll upserts every product and removes the documents of deleted ones.
func (r *ProductRepository) ReplaceAll(ctx context.Context, products []*domain.Product) error {
	ids := make([]string, len(products))
	models := make([]mongo.WriteModel, len(products))
	for i, p := range products {
		ids[i] = string(p.ID)
		models[i] = mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": string(p.ID)}).
			SetReplacement(document.ToProductDocument(p, i)).
			SetUpsert(true)
	}

	if len(models) > 0 {
		if _, err := r.collection.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(true)); err != nil {
			return fmt.Errorf("upsert products: %w", parseError(err))
		}
	}
	if _, err := r.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$nin": ids}}); err != nil {
		return fmt.Errorf("delete removed products: %w", parseError(err))
	}
	return nil
}
