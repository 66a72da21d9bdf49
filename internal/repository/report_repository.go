package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/school-admin-gateway/internal/models"
	appErrors "github.com/noah-isme/school-admin-gateway/pkg/errors"
)

// ReportRepository keeps report job metadata in memory. Jobs do not survive a
// restart; the exported files they point at are purged on the same TTL.
type ReportRepository struct {
	mu   sync.RWMutex
	jobs map[string]models.ReportJob
}

// NewReportRepository constructs the repository.
func NewReportRepository() *ReportRepository {
	return &ReportRepository{jobs: make(map[string]models.ReportJob)}
}

// Create stores a new job with generated defaults.
func (r *ReportRepository) Create(_ context.Context, job *models.ReportJob) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.Status == "" {
		job.Status = models.ReportStatusQueued
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.jobs[job.ID]; exists {
		return appErrors.Clone(appErrors.ErrConflict, "report job already exists")
	}
	r.jobs[job.ID] = *job
	return nil
}

// GetByID returns a copy of the job.
func (r *ReportRepository) GetByID(_ context.Context, id string) (*models.ReportJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "report job not found")
	}
	return &job, nil
}

// UpdateReportJobParams defines the mutable fields.
type UpdateReportJobParams struct {
	Status       *models.ReportStatus
	Progress     *int
	ResultURL    *string
	FilePath     *string
	ErrorMessage *string
	FinishedAt   *time.Time
}

// Update applies the provided changes to a job. An empty ErrorMessage clears it.
func (r *ReportRepository) Update(_ context.Context, id string, params UpdateReportJobParams) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "report job not found")
	}
	if params.Status != nil {
		job.Status = *params.Status
	}
	if params.Progress != nil {
		job.Progress = *params.Progress
	}
	if params.ResultURL != nil {
		url := *params.ResultURL
		job.ResultURL = &url
	}
	if params.FilePath != nil {
		job.FilePath = *params.FilePath
	}
	if params.ErrorMessage != nil {
		if *params.ErrorMessage == "" {
			job.ErrorMessage = nil
		} else {
			msg := *params.ErrorMessage
			job.ErrorMessage = &msg
		}
	}
	if params.FinishedAt != nil {
		finished := *params.FinishedAt
		job.FinishedAt = &finished
	}
	r.jobs[id] = job
	return nil
}

// ListFinishedBefore returns finished or failed jobs older than cutoff,
// oldest first.
func (r *ReportRepository) ListFinishedBefore(_ context.Context, cutoff time.Time, limit int) ([]models.ReportJob, error) {
	r.mu.RLock()
	out := make([]models.ReportJob, 0)
	for _, job := range r.jobs {
		if job.FinishedAt != nil && job.FinishedAt.Before(cutoff) {
			out = append(out, job)
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].FinishedAt.Before(*out[j].FinishedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Delete forgets a job.
func (r *ReportRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.jobs, id)
	return nil
}
