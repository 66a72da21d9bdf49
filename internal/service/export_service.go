package service

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/school-admin-gateway/internal/models"
	"github.com/noah-isme/school-admin-gateway/pkg/export"
	"github.com/noah-isme/school-admin-gateway/pkg/paygrid"
	"github.com/noah-isme/school-admin-gateway/pkg/storage"
)

type ledgerSource interface {
	Ledger(ctx context.Context, plan models.Plan) ([]LedgerEntry, paygrid.Config, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type datasetRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// Ledger column headers preceding the per-special and per-year columns.
const (
	ledgerCarnetHeader = "Carnet"
	ledgerNameHeader   = "Nombre"
	ledgerPlanHeader   = "Plan"

	ledgerCarnetKey = "carnet"
	ledgerNameKey   = "name"
	ledgerPlanKey   = "plan"
)

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       models.ReportFormat
	ExpiresAt    time.Time
	Rows         int
}

// ExportService builds payment ledgers and persists rendered files.
type ExportService struct {
	ledger  ledgerSource
	storage fileStorage
	csv     datasetRenderer
	pdf     datasetRenderer
	signer  *storage.SignedURLSigner
	logger  *zap.Logger
	cfg     ExportConfig
}

// NewExportService constructs an ExportService. Nil renderers fall back to the
// export package defaults.
func NewExportService(ledger ledgerSource, files fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger, csv, pdf datasetRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		ledger:  ledger,
		storage: files,
		csv:     csv,
		pdf:     pdf,
		signer:  signer,
		logger:  logger,
		cfg:     cfg,
	}
}

// Generate builds the ledger of the job's plan, renders it and stores the file.
func (s *ExportService) Generate(ctx context.Context, job *models.ReportJob) (*ExportResult, error) {
	if job == nil {
		return nil, fmt.Errorf("job nil")
	}
	entries, catalog, err := s.ledger.Ledger(ctx, job.Plan)
	if err != nil {
		return nil, err
	}
	dataset := BuildLedgerDataset(entries, catalog, job.Plan)

	var payload []byte
	switch job.Format {
	case models.ReportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case models.ReportFormatPDF:
		payload, err = s.pdf.Render(dataset)
	default:
		err = fmt.Errorf("unsupported format %s", job.Format)
	}
	if err != nil {
		return nil, err
	}

	relPath, err := s.storage.Save(ledgerFilename(job), payload)
	if err != nil {
		return nil, err
	}
	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return nil, err
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}

	s.logger.Info("payment ledger generated",
		zap.String("job_id", job.ID),
		zap.String("plan", string(job.Plan)),
		zap.Int("rows", len(dataset.Rows)),
	)
	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          fmt.Sprintf("%s/export/%s", prefix, token),
		Format:       job.Format,
		ExpiresAt:    expiresAt,
		Rows:         len(dataset.Rows),
	}, nil
}

// BuildLedgerDataset lays the ledger out as one row per student: carnet,
// name, plan, one column per special payment and a 12 character strip per
// year where X marks a paid month. Rows are keyed by column id so labels may
// repeat without overwriting each other.
func BuildLedgerDataset(entries []LedgerEntry, catalog paygrid.Config, plan models.Plan) export.Dataset {
	headers := []string{ledgerCarnetHeader, ledgerNameHeader, ledgerPlanHeader}
	keys := []string{ledgerCarnetKey, ledgerNameKey, ledgerPlanKey}
	for _, st := range catalog.SpecialTypes {
		headers = append(headers, st.Label)
		keys = append(keys, specialColumnKey(st.ID))
	}
	for _, year := range catalog.Years {
		headers = append(headers, strconv.Itoa(year))
		keys = append(keys, yearColumnKey(year))
	}

	rows := make([]map[string]string, 0, len(entries))
	for _, entry := range entries {
		row := map[string]string{
			ledgerCarnetKey: entry.Student.Carnet,
			ledgerNameKey:   entry.Student.FullName(),
			ledgerPlanKey:   string(entry.Student.Plan),
		}
		for _, st := range catalog.SpecialTypes {
			mark := "-"
			if cell, ok := entry.Grid.Cell(paygrid.SpecialKey(st.ID)); ok && cell.Paid {
				mark = "X"
			}
			row[specialColumnKey(st.ID)] = mark
		}
		for _, year := range catalog.Years {
			row[yearColumnKey(year)] = entry.Grid.Strip(year)
		}
		rows = append(rows, row)
	}
	return export.Dataset{
		Title:   "Pagos - " + string(plan),
		Headers: headers,
		Keys:    keys,
		Rows:    rows,
	}
}

func specialColumnKey(id string) string { return "special:" + id }

func yearColumnKey(year int) string { return "year:" + strconv.Itoa(year) }

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string) (storage.Token, error) {
	return s.signer.Parse(token)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes stored files older than ttl.
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func ledgerFilename(job *models.ReportJob) string {
	return fmt.Sprintf("ledger_%s_%s.%s", job.Plan, job.ID, job.Format)
}
