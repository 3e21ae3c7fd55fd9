package domain

import "time"

type TransactionType string

const (
	TransactionTypeAdd    TransactionType = "add"
	TransactionTypeSell   TransactionType = "sell"
	TransactionTypeDelete TransactionType = "delete"
)

func (t TransactionType) IsValid() bool {
	return t == TransactionTypeAdd || t == TransactionTypeSell || t == TransactionTypeDelete
}

// IsMovement reports whether the type can be submitted through RecordTransaction.
func (t TransactionType) IsMovement() bool {
	return t == TransactionTypeAdd || t == TransactionTypeSell
}

// Transaction is write-once. ProductID is a weak reference: the product may since have been deleted.
type Transaction struct {
	Sequence  int64
	ProductID ID
	Type      TransactionType
	Quantity  int
	Timestamp time.Time
}

func NewTransaction(productID ID, txType TransactionType, quantity int) *Transaction {
	return &Transaction{
		ProductID: productID,
		Type:      txType,
		Quantity:  quantity,
	}
}
