package dto

import (
	"time"

	"github.com/noah-isme/school-admin-gateway/internal/models"
)

// ReportRequest captures the POST /reports/payments payload.
type ReportRequest struct {
	Plan   models.Plan         `json:"plan" validate:"required,oneof=todos diario fin_de_semana ejecutivo"`
	Format models.ReportFormat `json:"format" validate:"required,oneof=csv pdf"`
}

// ReportJobResponse is returned after enqueueing a report.
type ReportJobResponse struct {
	ID       string              `json:"id"`
	Status   models.ReportStatus `json:"status"`
	Progress int                 `json:"progress"`
}

// ReportStatusResponse exposes job progress metadata.
type ReportStatusResponse struct {
	ID         string              `json:"id"`
	Plan       models.Plan         `json:"plan"`
	Format     models.ReportFormat `json:"format"`
	Status     models.ReportStatus `json:"status"`
	Progress   int                 `json:"progress"`
	ResultURL  *string             `json:"result_url,omitempty"`
	Error      *string             `json:"error,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
	FinishedAt *time.Time          `json:"finished_at,omitempty"`
}
