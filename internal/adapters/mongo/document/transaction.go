package document

import (
	"time"

	"github.com/rafaelleal24/stockledger/internal/core/domain"
)

// TransactionDocument is keyed by its log sequence, which makes a re-append a duplicate key.
type TransactionDocument struct {
	Sequence  int64     `bson:"_id"`
	ProductID string    `bson:"product_id"`
	Type      string    `bson:"type"`
	Quantity  int       `bson:"quantity"`
	Timestamp time.Time `bson:"timestamp"`
}

func (doc *TransactionDocument) ToDomain() *domain.Transaction {
	return &domain.Transaction{
		Sequence:  doc.Sequence,
		ProductID: domain.ID(doc.ProductID),
		Type:      domain.TransactionType(doc.Type),
		Quantity:  doc.Quantity,
		Timestamp: doc.Timestamp,
	}
}

func ToTransactionDocument(tx *domain.Transaction) *TransactionDocument {
	return &TransactionDocument{
		Sequence:  tx.Sequence,
		ProductID: string(tx.ProductID),
		Type:      string(tx.Type),
		Quantity:  tx.Quantity,
		Timestamp: tx.Timestamp,
	}
}
