package dto

import "github.com/shopspring/decimal"

// CreateProductRequest is the body for adding a product to the bodega.
type CreateProductRequest struct {
	Code           string          `json:"code" validate:"required,max=64"`
	Description    string          `json:"description" validate:"required"`
	Cost           decimal.Decimal `json:"cost"`
	Units          int             `json:"units" validate:"gte=0"`
	AlertThreshold *int            `json:"alert_threshold" validate:"omitempty,gte=0"`
}

// PackageLineRequest references a product either by id or by code.
type PackageLineRequest struct {
	ProductID   int64  `json:"product_id" validate:"required_without=ProductCode"`
	ProductCode string `json:"product_code" validate:"required_without=ProductID"`
	Quantity    int    `json:"quantity" validate:"gt=0"`
}

// PackageRequest is the body for creating or replacing a package.
type PackageRequest struct {
	Name        string               `json:"name" validate:"required"`
	Description string               `json:"description"`
	Products    []PackageLineRequest `json:"products" validate:"dive"`
}
