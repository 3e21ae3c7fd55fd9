package cli

import (
	"encoding/json"
	"io"
	"time"

	"github.com/rafaelleal24/stockledger/internal/core/domain"
)

type productOutput struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	Price        string `json:"price"`
	Quantity     int    `json:"quantity"`
	TotalStocked int    `json:"totalStocked"`
	TotalSold    int    `json:"totalSold"`
}

type transactionOutput struct {
	Sequence  int64     `json:"sequence"`
	ProductID string    `json:"productId"`
	Type      string    `json:"type"`
	Quantity  int       `json:"quantity"`
	Date      time.Time `json:"date"`
}

type summaryOutput struct {
	ProductCount      int             `json:"productCount"`
	TotalUnits        int             `json:"totalUnits"`
	TotalStockValue   string          `json:"totalStockValue"`
	TotalRevenue      string          `json:"totalRevenue"`
	LowStockThreshold int             `json:"lowStockThreshold"`
	LowStock          []productOutput `json:"lowStock"`
}

type driftOutput struct {
	ProductID string `json:"productId"`
	Field     string `json:"field"`
	Recorded  int    `json:"recorded"`
	Replayed  int    `json:"replayed"`
}

type reconciliationOutput struct {
	Consistent          bool          `json:"consistent"`
	CheckedProducts     int           `json:"checkedProducts"`
	CheckedTransactions int           `json:"checkedTransactions"`
	Drifts              []driftOutput `json:"drifts"`
}

func toProductOutputs(products []*domain.Product) []productOutput {
	result := make([]productOutput, len(products))
	for i, p := range products {
		result[i] = productOutput{
			ID:           string(p.ID),
			Name:         p.Name,
			Category:     p.Category,
			Price:        p.Price.String(),
			Quantity:     p.Quantity,
			TotalStocked: p.TotalStocked,
			TotalSold:    p.TotalSold,
		}
	}
	return result
}

func toTransactionOutputs(transactions []*domain.Transaction) []transactionOutput {
	result := make([]transactionOutput, len(transactions))
	for i, tx := range transactions {
		result[i] = transactionOutput{
			Sequence:  tx.Sequence,
			ProductID: string(tx.ProductID),
			Type:      string(tx.Type),
			Quantity:  tx.Quantity,
			Date:      tx.Timestamp,
		}
	}
	return result
}

func toSummaryOutput(s *domain.Summary) summaryOutput {
	low := make([]productOutput, len(s.LowStock))
	for i, row := range s.LowStock {
		low[i] = productOutput{
			ID:           string(row.ProductID),
			Name:         row.Name,
			Category:     row.Category,
			Price:        row.Price.String(),
			Quantity:     row.Quantity,
			TotalStocked: row.TotalStocked,
			TotalSold:    row.TotalSold,
		}
	}
	return summaryOutput{
		ProductCount:      s.ProductCount,
		TotalUnits:        s.TotalUnits,
		TotalStockValue:   s.TotalStockValue.String(),
		TotalRevenue:      s.TotalRevenue.String(),
		LowStockThreshold: s.LowStockThreshold,
		LowStock:          low,
	}
}

func toReconciliationOutput(r *domain.Reconciliation) reconciliationOutput {
	drifts := make([]driftOutput, len(r.Drifts))
	for i, d := range r.Drifts {
		drifts[i] = driftOutput{ProductID: string(d.ProductID), Field: d.Field, Recorded: d.Recorded, Replayed: d.Replayed}
	}
	return reconciliationOutput{
		Consistent:          r.Consistent(),
		CheckedProducts:     r.CheckedProducts,
		CheckedTransactions: r.CheckedTransactions,
		Drifts:              drifts,
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
