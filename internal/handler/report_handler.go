package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-admin-gateway/internal/dto"
	"github.com/noah-isme/school-admin-gateway/internal/middleware"
	"github.com/noah-isme/school-admin-gateway/internal/models"
	"github.com/noah-isme/school-admin-gateway/internal/service"
	appErrors "github.com/noah-isme/school-admin-gateway/pkg/errors"
	"github.com/noah-isme/school-admin-gateway/pkg/response"
)

type reportService interface {
	CreateJob(ctx context.Context, req dto.ReportRequest) (*dto.ReportJobResponse, error)
	GetStatus(ctx context.Context, id string) (*dto.ReportStatusResponse, error)
	ResolveDownload(ctx context.Context, token string) (*service.ReportDownload, error)
}

// ReportHandler exposes payment ledger report endpoints.
type ReportHandler struct {
	service reportService
}

// NewReportHandler constructs handler.
func NewReportHandler(service reportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// GeneratePaymentLedger godoc
// @Summary Queue a payment ledger export
// @Tags Reports
// @Accept json
// @Produce json
// @Param payload body dto.ReportRequest true "Plan and format"
// @Success 202 {object} response.Envelope
// @Router /reports/payments [post]
func (h *ReportHandler) GeneratePaymentLedger(c *gin.Context) {
	var req dto.ReportRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	job, err := h.service.CreateJob(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, job, middleware.ExtractMeta(c))
}

// ReportStatus godoc
// @Summary Report job status
// @Tags Reports
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Router /reports/{id} [get]
func (h *ReportHandler) ReportStatus(c *gin.Context) {
	status, err := h.service.GetStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status, middleware.ExtractMeta(c))
}

// Download godoc
// @Summary Download a generated ledger via signed token
// @Tags Reports
// @Produce octet-stream
// @Param token path string true "Signed token"
// @Success 200 {file} binary
// @Router /export/{token} [get]
func (h *ReportHandler) Download(c *gin.Context) {
	token := strings.TrimSpace(c.Param("token"))
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}
	result, err := h.service.ResolveDownload(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer result.File.Close() //nolint:errcheck

	info, err := result.File.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to stat export file"))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", result.Filename))
	c.Header("Cache-Control", "no-store")
	c.DataFromReader(http.StatusOK, info.Size(), contentType(result.Format), result.File, nil)
}

func contentType(format models.ReportFormat) string {
	if format == models.ReportFormatPDF {
		return "application/pdf"
	}
	return "text/csv; charset=utf-8"
}
