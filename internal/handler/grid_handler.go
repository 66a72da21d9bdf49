package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-admin-gateway/internal/dto"
	"github.com/noah-isme/school-admin-gateway/internal/middleware"
	appErrors "github.com/noah-isme/school-admin-gateway/pkg/errors"
	"github.com/noah-isme/school-admin-gateway/pkg/paygrid"
	"github.com/noah-isme/school-admin-gateway/pkg/response"
)

type gridService interface {
	Config(ctx context.Context) (*dto.GridResponse, error)
	Grid(ctx context.Context, carnet string) (*dto.GridResponse, error)
	Toggle(ctx context.Context, carnet string, key paygrid.Key) (*paygrid.CellView, error)
}

// GridHandler exposes the payment grid.
type GridHandler struct {
	service gridService
}

// NewGridHandler constructs the handler.
func NewGridHandler(service gridService) *GridHandler {
	return &GridHandler{service: service}
}

// Config godoc
// @Summary Blank payment grid used at registration
// @Tags Payments
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /grid/config [get]
func (h *GridHandler) Config(c *gin.Context) {
	grid, err := h.service.Config(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grid, middleware.ExtractMeta(c))
}

// Grid godoc
// @Summary Payment grid of a student
// @Description On upstream failure the grid is returned in the error state next to the error.
// @Tags Payments
// @Produce json
// @Param carnet path string true "Student carnet"
// @Success 200 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /students/{carnet}/grid [get]
func (h *GridHandler) Grid(c *gin.Context) {
	grid, err := h.service.Grid(c.Request.Context(), c.Param("carnet"))
	if err != nil {
		if grid != nil {
			response.ErrorWithData(c, err, grid)
			return
		}
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grid, middleware.ExtractMeta(c))
}

// Toggle godoc
// @Summary Flip one payment of a student
// @Description Special payments use month 0 and year 0.
// @Tags Payments
// @Accept json
// @Produce json
// @Param carnet path string true "Student carnet"
// @Param payload body dto.ToggleRequest true "Grid cell"
// @Success 200 {object} response.Envelope
// @Router /students/{carnet}/grid/toggle [post]
func (h *GridHandler) Toggle(c *gin.Context) {
	var req dto.ToggleRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	if req.PaymentType == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "payment_type is required"))
		return
	}
	cell, err := h.service.Toggle(c.Request.Context(), c.Param("carnet"), req.Key())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cell, middleware.ExtractMeta(c))
}
