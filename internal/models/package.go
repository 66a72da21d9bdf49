package models

// Package is a named bundle of products that workshops can hand out.
type Package struct {
	ID          int64         `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	WorkshopID  *int64        `json:"workshop_id,omitempty"`
	Products    []PackageLine `json:"products"`
}

// PackageLine is one product of a package.
type PackageLine struct {
	ProductID          int64  `json:"product_id"`
	Quantity           int    `json:"quantity"`
	ProductDescription string `json:"product_description,omitempty"`
}

// PackageInput is the body submitted to create or replace a package.
type PackageInput struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Products    []PackageLineInput `json:"products"`
}

// PackageLineInput references a product by id.
type PackageLineInput struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}
