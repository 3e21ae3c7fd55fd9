package controllers

import (
	"encoding/json"
	"time"

	"github.com/rafaelleal24/stockledger/internal/core/domain"
)

type ProductResponse struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Description  string      `json:"description"`
	Category     string      `json:"category"`
	Price        json.Number `json:"price" swaggertype:"number" example:"15.50"`
	Quantity     int         `json:"quantity"`
	TotalStocked int         `json:"totalStocked"`
	TotalSold    int         `json:"totalSold"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

func NewProductResponse(product *domain.Product) ProductResponse {
	return ProductResponse{
		ID:           string(product.ID),
		Name:         product.Name,
		Description:  product.Description,
		Category:     product.Category,
		Price:        money(product.Price),
		Quantity:     product.Quantity,
		TotalStocked: product.TotalStocked,
		TotalSold:    product.TotalSold,
		CreatedAt:    product.CreatedAt,
		UpdatedAt:    product.UpdatedAt,
	}
}

func NewProductListResponse(products []*domain.Product) []ProductResponse {
	response := make([]ProductResponse, len(products))
	for i, product := range products {
		response[i] = NewProductResponse(product)
	}
	return response
}

type TransactionResponse struct {
	Sequence  int64     `json:"sequence"`
	ProductID string    `json:"productId"`
	Type      string    `json:"type" example:"sell"`
	Quantity  int       `json:"quantity"`
	Date      time.Time `json:"date"`
}

func NewTransactionListResponse(transactions []*domain.Transaction) []TransactionResponse {
	response := make([]TransactionResponse, len(transactions))
	for i, tx := range transactions {
		response[i] = TransactionResponse{
			Sequence:  tx.Sequence,
			ProductID: string(tx.ProductID),
			Type:      string(tx.Type),
			Quantity:  tx.Quantity,
			Date:      tx.Timestamp,
		}
	}
	return response
}

type SuccessResponse struct {
	Success bool `json:"success" example:"true"`
}

type MovementResponse struct {
	Success bool            `json:"success" example:"true"`
	Product ProductResponse `json:"product"`
}

// money renders cents as a JSON number with two decimals.
func money(a domain.Amount) json.Number {
	return json.Number(a.String())
}
