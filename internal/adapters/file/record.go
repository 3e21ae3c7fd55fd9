package file

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rafaelleal24/stockledger/internal/core/domain"
	"github.com/rafaelleal24/stockledger/internal/core/dto"
)

// flexID accepts both the numeric ids of older files and string ids.
type flexID string

func (id *flexID) UnmarshalJSON(data []byte) error {
	decoded, err := dto.DecodeID(data)
	if err != nil {
		return err
	}
	*id = flexID(decoded)
	return nil
}

// price is stored as a plain JSON number with two decimals.
type price struct {
	decimal.Decimal
}

func priceFromAmount(a domain.Amount) price {
	return price{decimal.New(int64(a), -2)}
}

func (p price) Amount() (domain.Amount, error) {
	if !dto.PriceInRange(p.Decimal) {
		return 0, fmt.Errorf("price %s out of range", p.String())
	}
	return dto.ToAmount(p.Decimal), nil
}

func (p price) MarshalJSON() ([]byte, error) {
	return []byte(p.StringFixed(2)), nil
}

func (p *price) UnmarshalJSON(data []byte) error {
	return p.Decimal.UnmarshalJSON(data)
}

type productRecord struct {
	ID           flexID     `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	Category     string     `json:"category"`
	Price        price      `json:"price"`
	Quantity     int        `json:"quantity"`
	TotalStocked int        `json:"totalStocked"`
	TotalSold    int        `json:"totalSold"`
	CreatedAt    *time.Time `json:"createdAt,omitempty"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty"`
}

func toProductRecord(p *domain.Product) productRecord {
	rec := productRecord{
		ID:           flexID(p.ID),
		Name:         p.Name,
		Description:  p.Description,
		Category:     p.Category,
		Price:        priceFromAmount(p.Price),
		Quantity:     p.Quantity,
		TotalStocked: p.TotalStocked,
		TotalSold:    p.TotalSold,
	}
	if !p.CreatedAt.IsZero() {
		createdAt := p.CreatedAt.UTC()
		rec.CreatedAt = &createdAt
	}
	if !p.UpdatedAt.IsZero() {
		updatedAt := p.UpdatedAt.UTC()
		rec.UpdatedAt = &updatedAt
	}
	return rec
}

func (r productRecord) toDomain() (*domain.Product, error) {
	amount, err := r.Price.Amount()
	if err != nil {
		return nil, err
	}
	if r.Quantity < 0 {
		return nil, fmt.Errorf("negative quantity %d", r.Quantity)
	}
	p := &domain.Product{
		ID:           domain.ID(r.ID),
		Name:         r.Name,
		Description:  r.Description,
		Category:     r.Category,
		Price:        amount,
		Quantity:     r.Quantity,
		TotalStocked: r.TotalStocked,
		TotalSold:    r.TotalSold,
	}
	if r.CreatedAt != nil {
		p.CreatedAt = *r.CreatedAt
	}
	if r.UpdatedAt != nil {
		p.UpdatedAt = *r.UpdatedAt
	}
	return p, nil
}

type transactionRecord struct {
	Sequence  int64     `json:"sequence,omitempty"`
	ProductID flexID    `json:"productId"`
	Type      string    `json:"type"`
	Quantity  int       `json:"quantity"`
	Date      time.Time `json:"date"`
}

func toTransactionRecord(tx *domain.Transaction) transactionRecord {
	return transactionRecord{
		Sequence:  tx.Sequence,
		ProductID: flexID(tx.ProductID),
		Type:      string(tx.Type),
		Quantity:  tx.Quantity,
		Date:      tx.Timestamp.UTC(),
	}
}

func (r transactionRecord) toDomain() (*domain.Transaction, error) {
	txType := domain.TransactionType(r.Type)
	if !txType.IsValid() {
		return nil, fmt.Errorf("unknown transaction type %q", r.Type)
	}
	return &domain.Transaction{
		Sequence:  r.Sequence,
		ProductID: domain.ID(r.ProductID),
		Type:      txType,
		Quantity:  r.Quantity,
		Timestamp: r.Date,
	}, nil
}

type outboxRecord struct {
	ID         string          `json:"id"`
	EventName  string          `json:"eventName"`
	EntityName string          `json:"entityName"`
	EventData  json.RawMessage `json:"eventData"`
	CreatedAt  time.Time       `json:"createdAt"`
}
