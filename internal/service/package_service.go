package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/school-admin-gateway/internal/dto"
	"github.com/noah-isme/school-admin-gateway/internal/models"
	appErrors "github.com/noah-isme/school-admin-gateway/pkg/errors"
)

type packageRepository interface {
	List(ctx context.Context) ([]models.Package, error)
	Create(ctx context.Context, input models.PackageInput) (*models.Package, error)
	Update(ctx context.Context, id int64, input models.PackageInput) (*models.Package, error)
	Delete(ctx context.Context, id int64) error
}

type productLookup interface {
	GetByCode(ctx context.Context, code string) (*models.Product, error)
}

// PackageDraft accumulates the product lines of one package being edited.
// Adding a product twice sums the quantities; lines keep first-added order.
type PackageDraft struct {
	lines []models.PackageLineInput
	index map[int64]int
}

// NewPackageDraft returns an empty draft.
func NewPackageDraft() *PackageDraft {
	return &PackageDraft{index: make(map[int64]int)}
}

// Add appends quantity units of a product.
func (d *PackageDraft) Add(productID int64, quantity int) error {
	if productID <= 0 {
		return fmt.Errorf("invalid product id %d", productID)
	}
	if quantity <= 0 {
		return fmt.Errorf("quantity for product %d must be greater than zero", productID)
	}
	if i, ok := d.index[productID]; ok {
		d.lines[i].Quantity += quantity
		return nil
	}
	d.index[productID] = len(d.lines)
	d.lines = append(d.lines, models.PackageLineInput{ProductID: productID, Quantity: quantity})
	return nil
}

// Len is the number of distinct products.
func (d *PackageDraft) Len() int { return len(d.lines) }

// Lines returns a copy of the draft lines.
func (d *PackageDraft) Lines() []models.PackageLineInput {
	return append([]models.PackageLineInput(nil), d.lines...)
}

// PackageService manages product packages.
type PackageService struct {
	repo      packageRepository
	products  productLookup
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPackageService constructs the package service.
func NewPackageService(repo packageRepository, products productLookup, validate *validator.Validate, logger *zap.Logger) *PackageService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PackageService{repo: repo, products: products, validator: validate, logger: logger}
}

// List returns all packages.
func (s *PackageService) List(ctx context.Context) ([]models.Package, error) {
	packages, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Warn("list packages failed", zap.Error(err))
		return nil, err
	}
	return packages, nil
}

// Create saves a new package.
func (s *PackageService) Create(ctx context.Context, req dto.PackageRequest) (*models.Package, error) {
	input, err := s.buildInput(ctx, req)
	if err != nil {
		return nil, err
	}
	pkg, err := s.repo.Create(ctx, input)
	if err != nil {
		s.logger.Warn("create package failed", zap.String("name", input.Name), zap.Error(err))
		return nil, err
	}
	return pkg, nil
}

// Update replaces a package's name, description and lines.
func (s *PackageService) Update(ctx context.Context, id int64, req dto.PackageRequest) (*models.Package, error) {
	if id <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid package id")
	}
	input, err := s.buildInput(ctx, req)
	if err != nil {
		return nil, err
	}
	pkg, err := s.repo.Update(ctx, id, input)
	if err != nil {
		s.logger.Warn("update package failed", zap.Int64("package_id", id), zap.Error(err))
		return nil, err
	}
	return pkg, nil
}

// Delete removes a package.
func (s *PackageService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return appErrors.Clone(appErrors.ErrValidation, "invalid package id")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Warn("delete package failed", zap.Int64("package_id", id), zap.Error(err))
		return err
	}
	return nil
}

// buildInput validates the request and resolves product codes into a draft.
func (s *PackageService) buildInput(ctx context.Context, req dto.PackageRequest) (models.PackageInput, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.PackageInput{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid package payload")
	}
	draft := NewPackageDraft()
	for _, line := range req.Products {
		productID := line.ProductID
		if productID == 0 {
			code := strings.TrimSpace(line.ProductCode)
			if code == "" {
				return models.PackageInput{}, appErrors.Clone(appErrors.ErrValidation, "product code is required")
			}
			product, err := s.products.GetByCode(ctx, code)
			if err != nil {
				if appErrors.FromError(err).Status == http.StatusNotFound {
					return models.PackageInput{}, appErrors.Clone(appErrors.ErrValidation, "unknown product code "+code)
				}
				return models.PackageInput{}, err
			}
			productID = product.ID
		}
		if err := draft.Add(productID, line.Quantity); err != nil {
			return models.PackageInput{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
		}
	}
	if draft.Len() == 0 {
		return models.PackageInput{}, appErrors.Clone(appErrors.ErrValidation, "package needs at least one product")
	}
	return models.PackageInput{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Products:    draft.Lines(),
	}, nil
}
