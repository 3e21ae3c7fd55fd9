package document

import (
	"time"

	"github.com/rafaelleal24/stockledger/internal/core/domain"
)

type ProductDocument struct {
	ID           string    `bson:"_id"`
	Position     int       `bson:"position"`
	Name         string    `bson:"name"`
	Description  string    `bson:"description"`
	Category     string    `bson:"category"`
	Price        int64     `bson:"price"`
	Quantity     int       `bson:"quantity"`
	TotalStocked int       `bson:"total_stocked"`
	TotalSold    int       `bson:"total_sold"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

func (doc *ProductDocument) ToDomain() *domain.Product {
	return &domain.Product{
		ID:           domain.ID(doc.ID),
		Name:         doc.Name,
		Description:  doc.Description,
		Category:     doc.Category,
		Price:        domain.Amount(doc.Price),
		Quantity:     doc.Quantity,
		TotalStocked: doc.TotalStocked,
		TotalSold:    doc.TotalSold,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}
}

// ToProductDocument keeps position so a reload returns products in insertion order.
func ToProductDocument(p *domain.Product, position int) *ProductDocument {
	return &ProductDocument{
		ID:           string(p.ID),
		Position:     position,
		Name:         p.Name,
		Description:  p.Description,
		Category:     p.Category,
		Price:        int64(p.Price),
		Quantity:     p.Quantity,
		TotalStocked: p.TotalStocked,
		TotalSold:    p.TotalSold,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
