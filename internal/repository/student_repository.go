package repository

import (
	"context"
	"net/url"

	"github.com/noah-isme/school-admin-gateway/internal/models"
	"github.com/noah-isme/school-admin-gateway/pkg/upstream"
)

// StudentRepository manages students on the school API.
type StudentRepository struct {
	client *upstream.Client
}

// NewStudentRepository constructs a student repository.
func NewStudentRepository(client *upstream.Client) *StudentRepository {
	return &StudentRepository{client: client}
}

// List returns the students of a plan; models.PlanAll returns everyone.
func (r *StudentRepository) List(ctx context.Context, plan models.Plan) ([]models.Student, error) {
	if plan == "" {
		plan = models.PlanAll
	}
	students := []models.Student{}
	if err := r.client.Get(ctx, "/students/"+url.PathEscape(string(plan)), "/students/{plan}", nil, &students); err != nil {
		return nil, err
	}
	return students, nil
}

// Create registers a student and returns it with its assigned carnet.
func (r *StudentRepository) Create(ctx context.Context, input models.StudentInput) (*models.Student, error) {
	var student models.Student
	if err := r.client.Post(ctx, "/students/", "", nil, input, &student); err != nil {
		return nil, err
	}
	return &student, nil
}

// Delete removes a student by carnet.
func (r *StudentRepository) Delete(ctx context.Context, carnet string) error {
	return r.client.Delete(ctx, "/students/"+url.PathEscape(carnet), "/students/{carnet}")
}
