package repository

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/noah-isme/school-admin-gateway/internal/models"
	"github.com/noah-isme/school-admin-gateway/pkg/upstream"
)

// WorkshopRepository manages workshops, their rosters and linked packages.
type WorkshopRepository struct {
	client *upstream.Client
}

// NewWorkshopRepository constructs a workshop repository.
func NewWorkshopRepository(client *upstream.Client) *WorkshopRepository {
	return &WorkshopRepository{client: client}
}

// List returns all workshops.
func (r *WorkshopRepository) List(ctx context.Context) ([]models.Workshop, error) {
	workshops := []models.Workshop{}
	if err := r.client.Get(ctx, "/workshops/", "", nil, &workshops); err != nil {
		return nil, err
	}
	return workshops, nil
}

// Create adds a workshop.
func (r *WorkshopRepository) Create(ctx context.Context, input models.WorkshopInput) (*models.Workshop, error) {
	var ws models.Workshop
	if err := r.client.Post(ctx, "/workshops/", "", nil, input, &ws); err != nil {
		return nil, err
	}
	return &ws, nil
}

// Roster lists the students enrolled in a workshop.
func (r *WorkshopRepository) Roster(ctx context.Context, workshopID int64) ([]models.WorkshopEnrollment, error) {
	roster := []models.WorkshopEnrollment{}
	if err := r.client.Get(ctx, workshopPath(workshopID, "/students/"), "/workshops/{id}/students/", nil, &roster); err != nil {
		return nil, err
	}
	return roster, nil
}

// Enroll adds a student to a workshop.
func (r *WorkshopRepository) Enroll(ctx context.Context, workshopID int64, carnet string) error {
	path := workshopPath(workshopID, "/students/"+url.PathEscape(carnet))
	return r.client.Post(ctx, path, "/workshops/{id}/students/{carnet}", nil, nil, nil)
}

// Unenroll removes a student from a workshop.
func (r *WorkshopRepository) Unenroll(ctx context.Context, workshopID int64, carnet string) error {
	return r.client.Delete(ctx, workshopPath(workshopID, "/students/"+url.PathEscape(carnet)), "/workshops/{id}/students/{carnet}")
}

// Packages lists the packages linked to a workshop.
func (r *WorkshopRepository) Packages(ctx context.Context, workshopID int64) ([]models.Package, error) {
	packages := []models.Package{}
	if err := r.client.Get(ctx, workshopPath(workshopID, "/packages/"), "/workshops/{id}/packages/", nil, &packages); err != nil {
		return nil, err
	}
	return packages, nil
}

// LinkPackage makes a package available to a workshop.
func (r *WorkshopRepository) LinkPackage(ctx context.Context, workshopID, packageID int64) error {
	path := workshopPath(workshopID, fmt.Sprintf("/packages/%d", packageID))
	return r.client.Post(ctx, path, "/workshops/{id}/packages/{pid}", nil, nil, nil)
}

// UnlinkPackage removes a package from a workshop.
func (r *WorkshopRepository) UnlinkPackage(ctx context.Context, workshopID, packageID int64) error {
	return r.client.Delete(ctx, workshopPath(workshopID, fmt.Sprintf("/packages/%d", packageID)), "/workshops/{id}/packages/{pid}")
}

// TogglePayment flips the workshop or package paid flag of a roster row.
func (r *WorkshopRepository) TogglePayment(ctx context.Context, workshopID int64, carnet string, kind models.WorkshopPaymentKind) (*models.WorkshopPaymentState, error) {
	query := rosterQuery(workshopID, carnet)
	query.Set("payment_type", string(kind))

	var state models.WorkshopPaymentState
	if err := r.client.Post(ctx, "/workshop-students/toggle/", "", query, nil, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// AssignPackage sets the package a student receives; nil clears it.
func (r *WorkshopRepository) AssignPackage(ctx context.Context, workshopID int64, carnet string, packageID *int64) error {
	query := rosterQuery(workshopID, carnet)
	if packageID != nil {
		query.Set("package_id", strconv.FormatInt(*packageID, 10))
	} else {
		query.Set("package_id", "")
	}
	return r.client.Post(ctx, "/workshop-students/assign-package/", "", query, nil, nil)
}

// GenerateDiplomas requests diplomas for every enrolled student.
func (r *WorkshopRepository) GenerateDiplomas(ctx context.Context, workshopID int64) (*models.DiplomaBatch, error) {
	var batch models.DiplomaBatch
	if err := r.client.Post(ctx, workshopPath(workshopID, "/generate-diplomas/"), "/workshops/{id}/generate-diplomas/", nil, nil, &batch); err != nil {
		return nil, err
	}
	return &batch, nil
}

func workshopPath(id int64, suffix string) string {
	return "/workshops/" + strconv.FormatInt(id, 10) + suffix
}

func rosterQuery(workshopID int64, carnet string) url.Values {
	query := url.Values{}
	query.Set("workshop_id", strconv.FormatInt(workshopID, 10))
	query.Set("student_id", carnet)
	return query
}
