package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-admin-gateway/internal/middleware"
	"github.com/noah-isme/school-admin-gateway/internal/models"
	appErrors "github.com/noah-isme/school-admin-gateway/pkg/errors"
	"github.com/noah-isme/school-admin-gateway/pkg/response"
)

type dashboardService interface {
	Stats(ctx context.Context) (*models.Stats, error)
}

// DashboardHandler wires dashboard service to HTTP endpoints.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service dashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Stats godoc
// @Summary Dashboard counters
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard/stats [get]
func (h *DashboardHandler) Stats(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, middleware.ExtractMeta(c))
}
