package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/school-admin-gateway/internal/dto"
	"github.com/noah-isme/school-admin-gateway/internal/models"
	"github.com/noah-isme/school-admin-gateway/internal/repository"
	appErrors "github.com/noah-isme/school-admin-gateway/pkg/errors"
	"github.com/noah-isme/school-admin-gateway/pkg/jobs"
)

// PaymentLedgerJobType tags ledger jobs on the worker queue.
const PaymentLedgerJobType = "payment_ledger"

type reportJobStore interface {
	Create(ctx context.Context, job *models.ReportJob) error
	GetByID(ctx context.Context, id string) (*models.ReportJob, error)
	Update(ctx context.Context, id string, params repository.UpdateReportJobParams) error
	ListFinishedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.ReportJob, error)
	Delete(ctx context.Context, id string) error
}

type jobDispatcher interface {
	Enqueue(job jobs.Job) error
}

type exportGenerator interface {
	Generate(ctx context.Context, job *models.ReportJob) (*ExportResult, error)
}

// ReportService orchestrates the payment ledger job lifecycle.
type ReportService struct {
	repo      reportJobStore
	queue     jobDispatcher
	exporter  *ExportService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       ReportServiceConfig
}

// ReportServiceConfig governs result retention.
type ReportServiceConfig struct {
	ResultTTL       time.Duration
	CleanupInterval time.Duration
}

// ReportDownload aggregates resolved download data.
type ReportDownload struct {
	File      *os.File
	Filename  string
	Format    models.ReportFormat
	ExpiresAt time.Time
}

// NewReportService constructs the report service.
func NewReportService(repo reportJobStore, queue jobDispatcher, exporter *ExportService, validate *validator.Validate, logger *zap.Logger, cfg ReportServiceConfig) *ReportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	return &ReportService{
		repo:      repo,
		queue:     queue,
		exporter:  exporter,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
	}
}

// CreateJob validates the request, records the job and enqueues it.
func (s *ReportService) CreateJob(ctx context.Context, req dto.ReportRequest) (*dto.ReportJobResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid report request")
	}
	job := &models.ReportJob{
		Plan:   req.Plan,
		Format: req.Format,
		Status: models.ReportStatusQueued,
	}
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create report job")
	}
	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: PaymentLedgerJobType}); err != nil {
		s.fail(ctx, job.ID, "failed to enqueue job")
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue report job")
	}
	s.logger.Info("report job queued", zap.String("job_id", job.ID), zap.String("plan", string(job.Plan)), zap.String("format", string(job.Format)))
	return &dto.ReportJobResponse{ID: job.ID, Status: job.Status, Progress: job.Progress}, nil
}

// GetStatus exposes job metadata to clients.
func (s *ReportService) GetStatus(ctx context.Context, id string) (*dto.ReportStatusResponse, error) {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.ReportStatusResponse{
		ID:         job.ID,
		Plan:       job.Plan,
		Format:     job.Format,
		Status:     job.Status,
		Progress:   job.Progress,
		ResultURL:  job.ResultURL,
		Error:      job.ErrorMessage,
		CreatedAt:  job.CreatedAt,
		FinishedAt: job.FinishedAt,
	}, nil
}

// ResolveDownload validates token and opens the stored export file.
func (s *ReportService) ResolveDownload(ctx context.Context, token string) (*ReportDownload, error) {
	parsed, err := s.exporter.ParseToken(token)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "invalid or expired download token")
	}
	job, err := s.repo.GetByID(ctx, parsed.JobID)
	if err != nil {
		return nil, err
	}
	if job.Status != models.ReportStatusFinished {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "report not ready")
	}
	if job.FilePath != parsed.Path {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "token mismatch")
	}
	file, err := s.exporter.Open(parsed.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "export file expired")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open export file")
	}
	return &ReportDownload{
		File:      file,
		Filename:  filepath.Base(parsed.Path),
		Format:    job.Format,
		ExpiresAt: parsed.ExpiresAt,
	}, nil
}

// MarkExhausted records a job as failed once the queue gives up on it.
func (s *ReportService) MarkExhausted(job jobs.Job, err error) {
	msg := "report generation failed"
	if err != nil {
		msg = appErrors.FromError(err).Message
	}
	s.fail(context.Background(), job.ID, msg)
}

// StartCleanup boots a goroutine that purges expired exports periodically.
func (s *ReportService) StartCleanup(ctx context.Context) {
	if s.cfg.CleanupInterval <= 0 {
		return
	}
	ticker := time.NewTicker(s.cfg.CleanupInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.CleanupExpired(ctx, time.Now())
			}
		}
	}()
}

// CleanupExpired drops jobs finished longer than the result TTL ago together
// with their files, then sweeps any orphaned files.
func (s *ReportService) CleanupExpired(ctx context.Context, now time.Time) {
	cutoff := now.Add(-s.cfg.ResultTTL)
	expired, err := s.repo.ListFinishedBefore(ctx, cutoff, 0)
	if err != nil {
		s.logger.Warn("cleanup list failed", zap.Error(err))
		return
	}
	for _, job := range expired {
		if job.FilePath != "" {
			if err := s.exporter.Delete(job.FilePath); err != nil && !errors.Is(err, os.ErrNotExist) {
				s.logger.Warn("cleanup delete failed", zap.String("job_id", job.ID), zap.Error(err))
			}
		}
		_ = s.repo.Delete(ctx, job.ID)
	}
	if _, err := s.exporter.Cleanup(s.cfg.ResultTTL); err != nil {
		s.logger.Warn("filesystem cleanup failed", zap.Error(err))
	}
}

func (s *ReportService) fail(ctx context.Context, id, msg string) {
	status := models.ReportStatusFailed
	progress := 100
	now := time.Now().UTC()
	if err := s.repo.Update(ctx, id, repository.UpdateReportJobParams{
		Status:       &status,
		Progress:     &progress,
		ErrorMessage: &msg,
		FinishedAt:   &now,
	}); err != nil {
		s.logger.Warn("failed to mark job failed", zap.String("job_id", id), zap.Error(err))
	}
}

// ReportWorker bridges queue jobs to ExportService.
type ReportWorker struct {
	repo     reportJobStore
	exporter exportGenerator
	logger   *zap.Logger
}

// NewReportWorker constructs a worker.
func NewReportWorker(repo reportJobStore, exporter exportGenerator, logger *zap.Logger) *ReportWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportWorker{repo: repo, exporter: exporter, logger: logger}
}

// Handle processes a queue job. A failed attempt puts the job back in QUEUED
// with the error message; the queue decides whether to retry.
func (w *ReportWorker) Handle(ctx context.Context, job jobs.Job) error {
	record, err := w.repo.GetByID(ctx, job.ID)
	if err != nil {
		return err
	}
	processing := models.ReportStatusProcessing
	progress := 10
	if err := w.repo.Update(ctx, job.ID, repository.UpdateReportJobParams{
		Status:   &processing,
		Progress: &progress,
	}); err != nil {
		return err
	}

	result, err := w.exporter.Generate(ctx, record)
	if err != nil {
		msg := appErrors.FromError(err).Message
		queued := models.ReportStatusQueued
		reset := 0
		if updateErr := w.repo.Update(ctx, job.ID, repository.UpdateReportJobParams{
			Status:       &queued,
			Progress:     &reset,
			ErrorMessage: &msg,
		}); updateErr != nil {
			w.logger.Warn("failed to mark job queued", zap.String("job_id", job.ID), zap.Error(updateErr))
		}
		return err
	}

	finished := models.ReportStatusFinished
	progress = 100
	now := time.Now().UTC()
	clear := ""
	if err := w.repo.Update(ctx, job.ID, repository.UpdateReportJobParams{
		Status:       &finished,
		Progress:     &progress,
		ResultURL:    &result.URL,
		FilePath:     &result.RelativePath,
		ErrorMessage: &clear,
		FinishedAt:   &now,
	}); err != nil {
		w.logger.Warn("failed to mark job finished", zap.String("job_id", job.ID), zap.Error(err))
		return err
	}
	return nil
}
