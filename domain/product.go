package domain

import "github.com/shopspring/decimal"

// LowStockThreshold is the stock level at or below which a product is reported as low stock.
const LowStockThreshold = 10

// Product is owned by the OrderFlow API.
type Product struct {
	ID               int64           `json:"id"`
	SKU              string          `json:"sku"`
	Name             string          `json:"name"`
	Description      string          `json:"description,omitempty"`
	Price            decimal.Decimal `json:"price"`
	CostPrice        decimal.Decimal `json:"costPrice"`
	QuantityInStock  int             `json:"quantityInStock"`
	ReservedQuantity int             `json:"reservedQuantity"`
	MinStockLevel    *int            `json:"minStockLevel,omitempty"`
	Active           bool            `json:"active"`
	Deleted          bool            `json:"deleted"`
	CreatedAt        Timestamp       `json:"createdAt"`
	UpdatedAt        Timestamp       `json:"updatedAt"`
}

// AvailableStock is the stock not yet reserved by open orders.
func (p *Product) AvailableStock() int {
	if p == nil {
		return 0
	}
	return p.QuantityInStock - p.ReservedQuantity
}

// IsLowStock uses the dashboard threshold, not the per-product minimum.
func (p *Product) IsLowStock() bool {
	return p != nil && !p.Deleted && p.QuantityInStock <= LowStockThreshold
}

// BelowMinimum reports whether stock has reached the product's own reorder level.
func (p *Product) BelowMinimum() bool {
	return p != nil && p.MinStockLevel != nil && p.QuantityInStock <= *p.MinStockLevel
}

func (p *Product) UnreadableDates() map[string]string {
	return UnreadableDates(
		DateField{Name: "createdAt", Value: p.CreatedAt},
		DateField{Name: "updatedAt", Value: p.UpdatedAt},
	)
}
