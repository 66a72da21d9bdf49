package models

import "github.com/shopspring/decimal"

// DefaultAlertThreshold applies when a product is created without one.
const DefaultAlertThreshold = 5

// Product is an inventory ("bodega") item.
type Product struct {
	ID             int64           `json:"id"`
	Code           string          `json:"code"`
	Description    string          `json:"description"`
	Cost           decimal.Decimal `json:"cost"`
	Units          int             `json:"units"`
	AlertThreshold int             `json:"alert_threshold"`
}

// LowStock reports whether the product is at or below its alert threshold.
func (p Product) LowStock() bool {
	return p.Units <= p.AlertThreshold
}

// StockValue is cost times units on hand.
func (p Product) StockValue() decimal.Decimal {
	return p.Cost.Mul(decimal.NewFromInt(int64(p.Units)))
}

// ProductInput is the body submitted to create a product.
type ProductInput struct {
	Code           string          `json:"code"`
	Description    string          `json:"description"`
	Cost           decimal.Decimal `json:"cost"`
	Units          int             `json:"units"`
	AlertThreshold int             `json:"alert_threshold"`
}
