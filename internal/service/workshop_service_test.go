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

type workshopRepoStub struct {
	roster   []models.WorkshopEnrollment
	packages []models.Package
	calls    []string
	assigned *int64
	err      error
}

func (w *workshopRepoStub) record(call string) error {
	w.calls = append(w.calls, call)
	return w.err
}

func (w *workshopRepoStub) List(context.Context) ([]models.Workshop, error) {
	return []models.Workshop{{ID: 1, Name: "Guitarra"}}, w.record("list")
}

func (w *workshopRepoStub) Create(_ context.Context, input models.WorkshopInput) (*models.Workshop, error) {
	if err := w.record("create"); err != nil {
		return nil, err
	}
	return &models.Workshop{ID: 2, Name: input.Name, Description: input.Description}, nil
}

func (w *workshopRepoStub) Roster(context.Context, int64) ([]models.WorkshopEnrollment, error) {
	return w.roster, w.record("roster")
}

func (w *workshopRepoStub) Enroll(context.Context, int64, string) error { return w.record("enroll") }

func (w *workshopRepoStub) Unenroll(context.Context, int64, string) error { return w.record("unenroll") }

func (w *workshopRepoStub) Packages(context.Context, int64) ([]models.Package, error) {
	return w.packages, w.record("packages")
}

func (w *workshopRepoStub) LinkPackage(context.Context, int64, int64) error { return w.record("link") }

func (w *workshopRepoStub) UnlinkPackage(context.Context, int64, int64) error {
	return w.record("unlink")
}

func (w *workshopRepoStub) TogglePayment(_ context.Context, _ int64, _ string, kind models.WorkshopPaymentKind) (*models.WorkshopPaymentState, error) {
	if err := w.record("toggle:" + string(kind)); err != nil {
		return nil, err
	}
	return &models.WorkshopPaymentState{WorkshopPaid: kind == models.WorkshopPaymentWorkshop, PackagePaid: kind == models.WorkshopPaymentPackage}, nil
}

func (w *workshopRepoStub) AssignPackage(_ context.Context, _ int64, _ string, packageID *int64) error {
	w.assigned = packageID
	return w.record("assign")
}

func (w *workshopRepoStub) GenerateDiplomas(context.Context, int64) (*models.DiplomaBatch, error) {
	if err := w.record("diplomas"); err != nil {
		return nil, err
	}
	return &models.DiplomaBatch{Status: "success", Message: "ok", CanvaLink: "https://canva.example/d/1"}, nil
}

func int64Ptr(v int64) *int64 { return &v }

func TestWorkshopDetailMarksPackageToggle(t *testing.T) {
	repo := &workshopRepoStub{roster: []models.WorkshopEnrollment{
		{StudentID: "2026000110", Names: "Ana", PackageID: int64Ptr(4)},
		{StudentID: "2026000211", Names: "Luis"},
	}}
	svc := NewWorkshopService(repo, nil, nil)

	detail, err := svc.Detail(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, detail.Roster, 2)
	assert.True(t, detail.Roster[0].PackageToggleEnabled)
	assert.False(t, detail.Roster[1].PackageToggleEnabled)
	assert.NotNil(t, detail.Packages)
}

func TestPackageToggleWithoutPackageIsRefused(t *testing.T) {
	repo := &workshopRepoStub{roster: []models.WorkshopEnrollment{{StudentID: "2026000211"}}}
	svc := NewWorkshopService(repo, nil, nil)

	_, err := svc.TogglePayment(context.Background(), 3, "2026000211", models.WorkshopPaymentPackage)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
	assert.Equal(t, []string{"roster"}, repo.calls)
}

func TestPackageToggleWithPackage(t *testing.T) {
	repo := &workshopRepoStub{roster: []models.WorkshopEnrollment{{StudentID: "2026000211", PackageID: int64Ptr(4)}}}
	svc := NewWorkshopService(repo, nil, nil)

	state, err := svc.TogglePayment(context.Background(), 3, "2026000211", models.WorkshopPaymentPackage)
	require.NoError(t, err)
	assert.True(t, state.PackagePaid)
	assert.Equal(t, []string{"roster", "toggle:package"}, repo.calls)
}

func TestWorkshopToggleSkipsRoster(t *testing.T) {
	repo := &workshopRepoStub{}
	svc := NewWorkshopService(repo, nil, nil)

	state, err := svc.TogglePayment(context.Background(), 3, "2026000211", models.WorkshopPaymentWorkshop)
	require.NoError(t, err)
	assert.True(t, state.WorkshopPaid)
	assert.Equal(t, []string{"toggle:workshop"}, repo.calls)

	_, err = svc.TogglePayment(context.Background(), 3, "2026000211", "taller")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestPackageToggleForUnenrolledStudent(t *testing.T) {
	svc := NewWorkshopService(&workshopRepoStub{}, nil, nil)

	_, err := svc.TogglePayment(context.Background(), 3, "2026000999", models.WorkshopPaymentPackage)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestAssignPackageAllowsClearing(t *testing.T) {
	repo := &workshopRepoStub{}
	svc := NewWorkshopService(repo, nil, nil)

	require.NoError(t, svc.AssignPackage(context.Background(), 3, "2026000211", int64Ptr(4)))
	require.NotNil(t, repo.assigned)
	assert.Equal(t, int64(4), *repo.assigned)

	require.NoError(t, svc.AssignPackage(context.Background(), 3, "2026000211", nil))
	assert.Nil(t, repo.assigned)

	assert.Error(t, svc.AssignPackage(context.Background(), 3, "2026000211", int64Ptr(0)))
}

func TestRosterOperationsRequireCarnet(t *testing.T) {
	repo := &workshopRepoStub{}
	svc := NewWorkshopService(repo, nil, nil)

	for _, carnet := range []string{"", "  "} {
		err := svc.Enroll(context.Background(), 3, carnet)
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
		assert.Error(t, svc.Unenroll(context.Background(), 3, carnet))
		_, err = svc.TogglePayment(context.Background(), 3, carnet, models.WorkshopPaymentWorkshop)
		assert.Error(t, err)
		assert.Error(t, svc.AssignPackage(context.Background(), 3, carnet, nil))
	}
	assert.Error(t, svc.Enroll(context.Background(), 0, "2026000110"))
	assert.Empty(t, repo.calls)
}

func TestWorkshopOperationsPropagateErrors(t *testing.T) {
	repo := &workshopRepoStub{err: appErrors.Rejection(409, "El estudiante ya está inscrito")}
	svc := NewWorkshopService(repo, nil, nil)

	err := svc.Enroll(context.Background(), 3, "2026000211")
	require.Error(t, err)
	assert.Equal(t, "El estudiante ya está inscrito", appErrors.FromError(err).Message)

	assert.Error(t, svc.Unenroll(context.Background(), 3, "2026000211"))
	assert.Error(t, svc.LinkPackage(context.Background(), 3, 4))
	assert.Error(t, svc.UnlinkPackage(context.Background(), 3, 4))
	_, err = svc.GenerateDiplomas(context.Background(), 3)
	assert.Error(t, err)
}

func TestWorkshopCreateAndDiplomas(t *testing.T) {
	repo := &workshopRepoStub{}
	svc := NewWorkshopService(repo, nil, nil)

	_, err := svc.Create(context.Background(), dto.CreateWorkshopRequest{})
	require.Error(t, err)

	workshop, err := svc.Create(context.Background(), dto.CreateWorkshopRequest{Name: " Pintura "})
	require.NoError(t, err)
	assert.Equal(t, "Pintura", workshop.Name)

	batch, err := svc.GenerateDiplomas(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "https://canva.example/d/1", batch.CanvaLink)

	require.NoError(t, svc.Enroll(context.Background(), 2, "2026000512"))
	assert.Error(t, svc.Enroll(context.Background(), 0, "2026000512"))
}
