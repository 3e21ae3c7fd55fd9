package dto

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rafaelleal24/stockledger/internal/core/domain"
	"github.com/rafaelleal24/stockledger/internal/core/serviceerrors"
)

type CreateProductRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Category    string           `json:"category"`
	Price       *decimal.Decimal `json:"price" swaggertype:"number"`
	Quantity    *int             `json:"quantity"`
}

// Validate checks every field before reporting, so the caller sees all violations at once.
func (r *CreateProductRequest) Validate() error {
	var fields []string
	if strings.TrimSpace(r.Name) == "" {
		fields = append(fields, "name")
	}
	if strings.TrimSpace(r.Category) == "" {
		fields = append(fields, "category")
	}
	if r.Price == nil || !PriceInRange(*r.Price) {
		fields = append(fields, "price")
	}
	if r.Quantity == nil || !quantityInRange(*r.Quantity) {
		fields = append(fields, "quantity")
	}
	if len(fields) > 0 {
		return serviceerrors.NewValidationError(fields...)
	}
	return nil
}

type UpdateProductRequest struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty" swaggertype:"number"`
	Quantity    *int             `json:"quantity,omitempty"`
}

func (r *UpdateProductRequest) Validate() error {
	var fields []string
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		fields = append(fields, "name")
	}
	if r.Category != nil && strings.TrimSpace(*r.Category) == "" {
		fields = append(fields, "category")
	}
	if r.Price != nil && !PriceInRange(*r.Price) {
		fields = append(fields, "price")
	}
	if r.Quantity != nil && !quantityInRange(*r.Quantity) {
		fields = append(fields, "quantity")
	}
	if len(fields) > 0 {
		return serviceerrors.NewValidationError(fields...)
	}
	return nil
}

func (r *UpdateProductRequest) IsEmpty() bool {
	return r.Name == nil && r.Description == nil && r.Category == nil && r.Price == nil && r.Quantity == nil
}

var maxPriceCents = decimal.NewFromInt(int64(domain.MaxPrice))

// PriceInRange reports whether price, rounded to cents, lies in [0, domain.MaxPrice].
func PriceInRange(price decimal.Decimal) bool {
	return !price.IsNegative() && price.Shift(2).Round(0).LessThanOrEqual(maxPriceCents)
}

func quantityInRange(quantity int) bool {
	return quantity >= 0 && quantity <= domain.MaxQuantity
}

// ToAmount converts a decimal price into cents, rounding half away from zero. Callers
// check PriceInRange first.
func ToAmount(price decimal.Decimal) domain.Amount {
	return domain.NewAmountFromCents(price.Shift(2).Round(0).IntPart())
}
