package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-admin-gateway/internal/dto"
	"github.com/noah-isme/school-admin-gateway/internal/models"
	appErrors "github.com/noah-isme/school-admin-gateway/pkg/errors"
)

type packageRepoStub struct {
	created []models.PackageInput
	updated map[int64]models.PackageInput
	deleted []int64
}

func (p *packageRepoStub) List(context.Context) ([]models.Package, error) {
	return []models.Package{{ID: 1, Name: "Kit básico"}}, nil
}

func (p *packageRepoStub) Create(_ context.Context, input models.PackageInput) (*models.Package, error) {
	p.created = append(p.created, input)
	return &models.Package{ID: 9, Name: input.Name, Description: input.Description}, nil
}

func (p *packageRepoStub) Update(_ context.Context, id int64, input models.PackageInput) (*models.Package, error) {
	if p.updated == nil {
		p.updated = map[int64]models.PackageInput{}
	}
	p.updated[id] = input
	return &models.Package{ID: id, Name: input.Name}, nil
}

func (p *packageRepoStub) Delete(_ context.Context, id int64) error {
	p.deleted = append(p.deleted, id)
	return nil
}

func TestPackageDraftMergesDuplicates(t *testing.T) {
	draft := NewPackageDraft()
	require.NoError(t, draft.Add(3, 1))
	require.NoError(t, draft.Add(1, 2))
	require.NoError(t, draft.Add(3, 4))
	assert.Error(t, draft.Add(2, 0))
	assert.Error(t, draft.Add(0, 1))

	assert.Equal(t, []models.PackageLineInput{{ProductID: 3, Quantity: 5}, {ProductID: 1, Quantity: 2}}, draft.Lines())
	assert.Equal(t, 2, draft.Len())
}

func TestPackageCreateResolvesCodes(t *testing.T) {
	repo := &packageRepoStub{}
	svc := NewPackageService(repo, &productRepoStub{products: sampleProducts()}, nil, nil)

	pkg, err := svc.Create(context.Background(), dto.PackageRequest{
		Name: " Kit escolar ",
		Products: []dto.PackageLineRequest{
			{ProductCode: "LAP-01", Quantity: 2},
			{ProductID: 3, Quantity: 1},
			{ProductID: 1, Quantity: 1},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(9), pkg.ID)
	require.Len(t, repo.created, 1)
	assert.Equal(t, "Kit escolar", repo.created[0].Name)
	assert.Equal(t, []models.PackageLineInput{{ProductID: 1, Quantity: 3}, {ProductID: 3, Quantity: 1}}, repo.created[0].Products)
}

func TestPackageCreateRejectsBadLines(t *testing.T) {
	repo := &packageRepoStub{}
	svc := NewPackageService(repo, &productRepoStub{products: sampleProducts()}, nil, nil)

	cases := map[string]dto.PackageRequest{
		"unknown code":  {Name: "Kit", Products: []dto.PackageLineRequest{{ProductCode: "NOPE", Quantity: 1}}},
		"zero quantity": {Name: "Kit", Products: []dto.PackageLineRequest{{ProductID: 1, Quantity: 0}}},
		"no products":   {Name: "Kit"},
		"missing name":  {Products: []dto.PackageLineRequest{{ProductID: 1, Quantity: 1}}},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), req)
			require.Error(t, err)
			assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
		})
	}
	assert.Empty(t, repo.created)
}

func TestPackageBlankCodeIsValidation(t *testing.T) {
	repo := &packageRepoStub{}
	products := &productRepoStub{products: sampleProducts()}
	svc := NewPackageService(repo, products, nil, nil)

	_, err := svc.Update(context.Background(), 4, dto.PackageRequest{
		Name:     "Kit",
		Products: []dto.PackageLineRequest{{ProductCode: "   ", Quantity: 1}},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Equal(t, 400, appErrors.FromError(err).Status)
	assert.Empty(t, products.lookups)
	assert.Empty(t, repo.updated)
}

func TestPackageUpdateAndDelete(t *testing.T) {
	repo := &packageRepoStub{}
	svc := NewPackageService(repo, &productRepoStub{}, nil, nil)

	_, err := svc.Update(context.Background(), 4, dto.PackageRequest{Name: "Kit", Products: []dto.PackageLineRequest{{ProductID: 2, Quantity: 1}}})
	require.NoError(t, err)
	assert.Equal(t, "Kit", repo.updated[4].Name)

	require.NoError(t, svc.Delete(context.Background(), 4))
	assert.Equal(t, []int64{4}, repo.deleted)
	assert.Error(t, svc.Delete(context.Background(), 0))

	packages, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, packages, 1)
}
