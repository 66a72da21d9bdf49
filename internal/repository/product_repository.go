package repository

import (
	"context"
	"net/url"
	"strings"

	"github.com/noah-isme/school-admin-gateway/internal/models"
	appErrors "github.com/noah-isme/school-admin-gateway/pkg/errors"
	"github.com/noah-isme/school-admin-gateway/pkg/upstream"
)

// ProductRepository manages inventory products.
type ProductRepository struct {
	client *upstream.Client
}

// NewProductRepository constructs a product repository.
func NewProductRepository(client *upstream.Client) *ProductRepository {
	return &ProductRepository{client: client}
}

// List returns every product.
func (r *ProductRepository) List(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	if err := r.client.Get(ctx, "/products/", "", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetByCode looks a product up by its unique code.
func (r *ProductRepository) GetByCode(ctx context.Context, code string) (*models.Product, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "product code is required")
	}
	var product models.Product
	if err := r.client.Get(ctx, "/products/"+url.PathEscape(code), "/products/{code}", nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// Create adds a product.
func (r *ProductRepository) Create(ctx context.Context, input models.ProductInput) (*models.Product, error) {
	var product models.Product
	if err := r.client.Post(ctx, "/products/", "", nil, input, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// Alerts returns products at or below their alert threshold.
func (r *ProductRepository) Alerts(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	if err := r.client.Get(ctx, "/inventory/alerts/", "", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}
