package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-admin-gateway/internal/dto"
	"github.com/noah-isme/school-admin-gateway/internal/models"
	appErrors "github.com/noah-isme/school-admin-gateway/pkg/errors"
)

type productRepoStub struct {
	products  []models.Product
	alerts    []models.Product
	created   []models.ProductInput
	listCalls int
	lookups   []string
	err       error
}

func (p *productRepoStub) List(context.Context) ([]models.Product, error) {
	p.listCalls++
	if p.err != nil {
		return nil, p.err
	}
	return append([]models.Product(nil), p.products...), nil
}

func (p *productRepoStub) GetByCode(_ context.Context, code string) (*models.Product, error) {
	p.lookups = append(p.lookups, code)
	for _, product := range p.products {
		if product.Code == code {
			found := product
			return &found, nil
		}
	}
	return nil, appErrors.Rejection(404, "Producto no encontrado")
}

func (p *productRepoStub) Create(_ context.Context, input models.ProductInput) (*models.Product, error) {
	p.created = append(p.created, input)
	return &models.Product{ID: int64(len(p.products) + 1), Code: input.Code, Description: input.Description, Cost: input.Cost, Units: input.Units, AlertThreshold: input.AlertThreshold}, nil
}

func (p *productRepoStub) Alerts(context.Context) ([]models.Product, error) {
	return p.alerts, p.err
}

func sampleProducts() []models.Product {
	return []models.Product{
		{ID: 1, Code: "LAP-01", Description: "Lápiz HB", Units: 40},
		{ID: 2, Code: "CUA-07", Description: "cuaderno rayado", Units: 3},
		{ID: 3, Code: "BOR-02", Description: "Borrador", Units: 10},
	}
}

func TestInventoryListSortsByDescription(t *testing.T) {
	svc := NewInventoryService(&productRepoStub{products: sampleProducts()}, nil, 0, nil, nil)

	products, hit, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.False(t, hit)
	require.Len(t, products, 3)
	assert.Equal(t, "Borrador", products[0].Description)
	assert.Equal(t, "cuaderno rayado", products[1].Description)
	assert.Equal(t, "Lápiz HB", products[2].Description)
}

func TestFilterProductsMatchesDescriptionOrCode(t *testing.T) {
	products := sampleProducts()

	byDescription := FilterProducts(products, "CUADERNO")
	require.Len(t, byDescription, 1)
	assert.Equal(t, "CUA-07", byDescription[0].Code)

	byCode := FilterProducts(products, "r-0")
	require.Len(t, byCode, 1)
	assert.Equal(t, "BOR-02", byCode[0].Code)

	assert.Len(t, FilterProducts(products, "  "), 3)
	assert.Empty(t, FilterProducts(products, "tijeras"))
}

func TestInventoryListUsesCache(t *testing.T) {
	repo := &productRepoStub{products: sampleProducts()}
	cache := NewCacheService(newMemoryCache(), nil, time.Minute, nil, true)
	svc := NewInventoryService(repo, cache, time.Minute, nil, nil)

	_, hit, err := svc.Search(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, hit)

	products, hit, err := svc.Search(context.Background(), "lap")
	require.NoError(t, err)
	assert.True(t, hit)
	require.Len(t, products, 1)
	assert.Equal(t, 1, repo.listCalls)
}

func TestInventoryCreateDefaultsThresholdAndInvalidates(t *testing.T) {
	repo := &productRepoStub{products: sampleProducts()}
	memory := newMemoryCache()
	cache := NewCacheService(memory, nil, time.Minute, nil, true)
	svc := NewInventoryService(repo, cache, time.Minute, nil, nil)

	_, _, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.True(t, memory.has(productsCacheKey))

	product, err := svc.Create(context.Background(), dto.CreateProductRequest{
		Code:        " TIJ-01 ",
		Description: "Tijeras",
		Cost:        decimal.RequireFromString("12.50"),
		Units:       8,
	})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultAlertThreshold, product.AlertThreshold)
	assert.Equal(t, "TIJ-01", repo.created[0].Code)
	assert.False(t, memory.has(productsCacheKey))
}

func TestInventoryCreateValidation(t *testing.T) {
	repo := &productRepoStub{}
	svc := NewInventoryService(repo, nil, 0, nil, nil)

	_, err := svc.Create(context.Background(), dto.CreateProductRequest{Description: "sin código"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.Create(context.Background(), dto.CreateProductRequest{Code: "X", Description: "x", Cost: decimal.NewFromInt(-1)})
	require.Error(t, err)
	assert.Empty(t, repo.created)
}

func TestInventoryGetPropagatesRejection(t *testing.T) {
	svc := NewInventoryService(&productRepoStub{products: sampleProducts()}, nil, 0, nil, nil)

	product, err := svc.Get(context.Background(), "BOR-02")
	require.NoError(t, err)
	assert.Equal(t, "Borrador", product.Description)

	_, err = svc.Get(context.Background(), "NOPE")
	require.Error(t, err)
	assert.Equal(t, 404, appErrors.FromError(err).Status)
}

func TestInventoryAlerts(t *testing.T) {
	repo := &productRepoStub{alerts: []models.Product{{Code: "CUA-07", Description: "cuaderno", Units: 3, AlertThreshold: 5}}}
	svc := NewInventoryService(repo, nil, 0, nil, nil)

	alerts, hit, err := svc.Alerts(context.Background())
	require.NoError(t, err)
	assert.False(t, hit)
	require.Len(t, alerts, 1)
	assert.True(t, alerts[0].LowStock())
}
