package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/school-admin-gateway/internal/dto"
	"github.com/noah-isme/school-admin-gateway/internal/models"
	appErrors "github.com/noah-isme/school-admin-gateway/pkg/errors"
)

type productRepository interface {
	List(ctx context.Context) ([]models.Product, error)
	GetByCode(ctx context.Context, code string) (*models.Product, error)
	Create(ctx context.Context, input models.ProductInput) (*models.Product, error)
	Alerts(ctx context.Context) ([]models.Product, error)
}

var (
	inventoryCachePattern = CacheKey("inventory", "*")
	productsCacheKey      = CacheKey("inventory", "products")
	alertsCacheKey        = CacheKey("inventory", "alerts")
)

// InventoryService serves the bodega product catalog.
type InventoryService struct {
	repo      productRepository
	cache     *CacheService
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewInventoryService constructs the inventory service. cache may be nil.
func NewInventoryService(repo productRepository, cache *CacheService, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *InventoryService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryService{repo: repo, cache: cache, cacheTTL: cacheTTL, validator: validate, logger: logger}
}

// List returns every product sorted by description. The boolean reports a
// cache hit.
func (s *InventoryService) List(ctx context.Context) ([]models.Product, bool, error) {
	var cached []models.Product
	if hit, _ := s.cache.Get(ctx, productsCacheKey, &cached); hit {
		return cached, true, nil
	}
	products, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Warn("list products failed", zap.Error(err))
		return nil, false, err
	}
	sortByDescription(products)
	_ = s.cache.Set(ctx, productsCacheKey, products, s.cacheTTL)
	return products, false, nil
}

// Search filters the catalog by a case-insensitive substring of the
// description or code. An empty term returns the full list.
func (s *InventoryService) Search(ctx context.Context, term string) ([]models.Product, bool, error) {
	products, hit, err := s.List(ctx)
	if err != nil {
		return nil, false, err
	}
	return FilterProducts(products, term), hit, nil
}

// FilterProducts keeps the products whose description or code contains term,
// ignoring case, sorted by description.
func FilterProducts(products []models.Product, term string) []models.Product {
	term = strings.ToLower(strings.TrimSpace(term))
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if term == "" ||
			strings.Contains(strings.ToLower(p.Description), term) ||
			strings.Contains(strings.ToLower(p.Code), term) {
			out = append(out, p)
		}
	}
	sortByDescription(out)
	return out
}

// Get looks a product up by code.
func (s *InventoryService) Get(ctx context.Context, code string) (*models.Product, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "product code is required")
	}
	product, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		s.logger.Warn("get product failed", zap.String("code", code), zap.Error(err))
		return nil, err
	}
	return product, nil
}

// Create adds a product. The alert threshold defaults to
// models.DefaultAlertThreshold.
func (s *InventoryService) Create(ctx context.Context, req dto.CreateProductRequest) (*models.Product, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid product payload")
	}
	if req.Cost.IsNegative() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "cost must not be negative")
	}
	threshold := models.DefaultAlertThreshold
	if req.AlertThreshold != nil {
		threshold = *req.AlertThreshold
	}
	product, err := s.repo.Create(ctx, models.ProductInput{
		Code:           strings.TrimSpace(req.Code),
		Description:    strings.TrimSpace(req.Description),
		Cost:           req.Cost,
		Units:          req.Units,
		AlertThreshold: threshold,
	})
	if err != nil {
		s.logger.Warn("create product failed", zap.String("code", req.Code), zap.Error(err))
		return nil, err
	}
	_ = s.cache.Invalidate(ctx, inventoryCachePattern)
	return product, nil
}

// Alerts returns the products at or below their alert threshold.
func (s *InventoryService) Alerts(ctx context.Context) ([]models.Product, bool, error) {
	var cached []models.Product
	if hit, _ := s.cache.Get(ctx, alertsCacheKey, &cached); hit {
		return cached, true, nil
	}
	products, err := s.repo.Alerts(ctx)
	if err != nil {
		s.logger.Warn("inventory alerts failed", zap.Error(err))
		return nil, false, err
	}
	sortByDescription(products)
	_ = s.cache.Set(ctx, alertsCacheKey, products, s.cacheTTL)
	return products, false, nil
}

func sortByDescription(products []models.Product) {
	sort.SliceStable(products, func(i, j int) bool {
		return strings.ToLower(products[i].Description) < strings.ToLower(products[j].Description)
	})
}
