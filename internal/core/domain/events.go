package domain

import "time"

const stockEntityName = "stock"

type StockMovementEvent struct {
	Sequence     int64           `json:"sequence"`
	ProductID    ID              `json:"product_id"`
	ProductName  string          `json:"product_name"`
	Type         TransactionType `json:"type"`
	Quantity     int             `json:"quantity"`
	StockAfter   int             `json:"stock_after"`
	TotalStocked int             `json:"total_stocked"`
	TotalSold    int             `json:"total_sold"`
	Timestamp    time.Time       `json:"timestamp"`
}

func NewStockMovementEvent(tx *Transaction, product *Product) *StockMovementEvent {
	event := &StockMovementEvent{
		Sequence:  tx.Sequence,
		ProductID: tx.ProductID,
		Type:      tx.Type,
		Quantity:  tx.Quantity,
		Timestamp: tx.Timestamp,
	}
	if product != nil {
		event.ProductName = product.Name
		event.StockAfter = product.Quantity
		event.TotalStocked = product.TotalStocked
		event.TotalSold = product.TotalSold
	}
	if tx.Type == TransactionTypeDelete {
		event.StockAfter = 0
	}
	return event
}

func (e *StockMovementEvent) GetName() string {
	return "stock." + string(e.Type)
}

func (e *StockMovementEvent) GetEntityName() string {
	return stockEntityName
}

type LowStockEvent struct {
	ProductID   ID        `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
	Threshold   int       `json:"threshold"`
	DetectedAt  time.Time `json:"detected_at"`
}

func NewLowStockEvent(product *Product, threshold int, at time.Time) *LowStockEvent {
	return &LowStockEvent{
		ProductID:   product.ID,
		ProductName: product.Name,
		Quantity:    product.Quantity,
		Threshold:   threshold,
		DetectedAt:  at,
	}
}

func (e *LowStockEvent) GetName() string {
	return "stock.low"
}

func (e *LowStockEvent) GetEntityName() string {
	return stockEntityName
}
