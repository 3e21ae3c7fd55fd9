package domain

import "testing"

func TestTransactionType_IsValid(t *testing.T) {
	tests := []struct {
		txType   TransactionType
		valid    bool
		movement bool
	}{
		{TransactionTypeAdd, true, true},
		{TransactionTypeSell, true, true},
		{TransactionTypeDelete, true, false},
		{"restock", false, false},
		{"", false, false},
		{"SELL", false, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.txType), func(t *testing.T) {
			if got := tt.txType.IsValid(); got != tt.valid {
				t.Errorf("TransactionType(%q).IsValid() = %v, want %v", tt.txType, got, tt.valid)
			}
			if got := tt.txType.IsMovement(); got != tt.movement {
				t.Errorf("TransactionType(%q).IsMovement() = %v, want %v", tt.txType, got, tt.movement)
			}
		})
	}
}

func TestStockMovementEvent(t *testing.T) {
	product := &Product{ID: "p1", Name: "Tea", Quantity: 15, TotalStocked: 20, TotalSold: 5}
	tx := &Transaction{Sequence: 2, ProductID: "p1", Type: TransactionTypeSell, Quantity: 5}

	event := NewStockMovementEvent(tx, product)
	if event.GetName() != "stock.sell" {
		t.Fatalf("expected 'stock.sell', got %q", event.GetName())
	}
	if event.GetEntityName() != "stock" {
		t.Fatalf("expected 'stock', got %q", event.GetEntityName())
	}
	if event.StockAfter != 15 || event.TotalSold != 5 {
		t.Fatalf("unexpected event payload: %+v", event)
	}

	deleted := NewStockMovementEvent(&Transaction{ProductID: "p1", Type: TransactionTypeDelete, Quantity: 15}, product)
	if deleted.StockAfter != 0 {
		t.Fatalf("expected stock_after 0 for delete, got %d", deleted.StockAfter)
	}
}

func TestLowStockEvent_GetName(t *testing.T) {
	event := &LowStockEvent{}
	if got := event.GetName(); got != "stock.low" {
		t.Fatalf("expected 'stock.low', got %q", got)
	}
}
