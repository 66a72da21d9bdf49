package models

import "time"

// ReportFormat enumerates supported export formats.
type ReportFormat string

const (
	ReportFormatCSV ReportFormat = "csv"
	ReportFormatPDF ReportFormat = "pdf"
)

// ReportStatus captures background job lifecycle states.
type ReportStatus string

const (
	ReportStatusQueued     ReportStatus = "QUEUED"
	ReportStatusProcessing ReportStatus = "PROCESSING"
	ReportStatusFinished   ReportStatus = "FINISHED"
	ReportStatusFailed     ReportStatus = "FAILED"
)

// ReportJob tracks one payment ledger export. Jobs live in memory only.
type ReportJob struct {
	ID           string       `json:"id"`
	Plan         Plan         `json:"plan"`
	Format       ReportFormat `json:"format"`
	Status       ReportStatus `json:"status"`
	Progress     int          `json:"progress"`
	ResultURL    *string      `json:"result_url,omitempty"`
	FilePath     string       `json:"-"`
	CreatedAt    time.Time    `json:"created_at"`
	FinishedAt   *time.Time   `json:"finished_at,omitempty"`
	ErrorMessage *string      `json:"error_message,omitempty"`
}
