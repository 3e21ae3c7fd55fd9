package domain

import (
	"math"
	"time"
)

// MaxQuantity bounds a product's stock and the size of any single movement. With
// MaxPrice it keeps price times quantity inside an int64.
const MaxQuantity = 1_000_000_000

type Product struct {
	ID           ID
	Name         string
	Description  string
	Category     string
	Price        Amount
	Quantity     int
	TotalStocked int
	TotalSold    int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func NewProduct(name, description, category string, price Amount, quantity int) *Product {
	now := time.Now()
	return &Product{
		Name:         name,
		Description:  description,
		Category:     category,
		Price:        price,
		Quantity:     quantity,
		TotalStocked: quantity,
		TotalSold:    0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (p *Product) Clone() *Product {
	c := *p
	return &c
}

// Restock credits stock. It refuses an amount that would push the stock past MaxQuantity
// or overflow the cumulative total.
func (p *Product) Restock(amount int) bool {
	if !p.CanRestock(amount) {
		return false
	}
	p.Quantity += amount
	p.TotalStocked += amount
	p.UpdatedAt = time.Now()
	return true
}

func (p *Product) CanRestock(amount int) bool {
	return amount > 0 && amount <= MaxQuantity-p.Quantity && p.TotalStocked <= math.MaxInt-amount
}

// Sell debits stock. Callers check CanSell first; Sell never drives Quantity below zero.
func (p *Product) Sell(amount int) bool {
	if !p.CanSell(amount) {
		return false
	}
	p.Quantity -= amount
	p.TotalSold += amount
	p.UpdatedAt = time.Now()
	return true
}

func (p *Product) CanSell(amount int) bool {
	return amount > 0 && p.Quantity >= amount
}

func (p *Product) StockValue() Amount {
	return p.Price.Multiply(p.Quantity)
}

func (p *Product) Revenue() Amount {
	return p.Price.Multiply(p.TotalSold)
}

func (p *Product) IsLowStock(threshold int) bool {
	return p.Quantity < threshold
}
