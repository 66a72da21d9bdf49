package repository

import (
	"context"
	"strconv"

	"github.com/noah-isme/school-admin-gateway/internal/models"
	"github.com/noah-isme/school-admin-gateway/pkg/upstream"
)

// PackageRepository manages product packages.
type PackageRepository struct {
	client *upstream.Client
}

// NewPackageRepository constructs a package repository.
func NewPackageRepository(client *upstream.Client) *PackageRepository {
	return &PackageRepository{client: client}
}

// List returns all packages.
func (r *PackageRepository) List(ctx context.Context) ([]models.Package, error) {
	packages := []models.Package{}
	if err := r.client.Get(ctx, "/packages/", "", nil, &packages); err != nil {
		return nil, err
	}
	return packages, nil
}

// Create stores a new package.
func (r *PackageRepository) Create(ctx context.Context, input models.PackageInput) (*models.Package, error) {
	var pkg models.Package
	if err := r.client.Post(ctx, "/packages/", "", nil, input, &pkg); err != nil {
		return nil, err
	}
	return &pkg, nil
}

// Update replaces a package's name, description and lines.
func (r *PackageRepository) Update(ctx context.Context, id int64, input models.PackageInput) (*models.Package, error) {
	var pkg models.Package
	if err := r.client.Put(ctx, "/packages/"+strconv.FormatInt(id, 10), "/packages/{id}", input, &pkg); err != nil {
		return nil, err
	}
	return &pkg, nil
}

// Delete removes a package.
func (r *PackageRepository) Delete(ctx context.Context, id int64) error {
	return r.client.Delete(ctx, "/packages/"+strconv.FormatInt(id, 10), "/packages/{id}")
}
