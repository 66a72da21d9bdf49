package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-admin-gateway/internal/dto"
	"github.com/noah-isme/school-admin-gateway/internal/middleware"
	"github.com/noah-isme/school-admin-gateway/internal/models"
	appErrors "github.com/noah-isme/school-admin-gateway/pkg/errors"
	"github.com/noah-isme/school-admin-gateway/pkg/response"
)

type workshopService interface {
	List(ctx context.Context) ([]models.Workshop, error)
	Create(ctx context.Context, req dto.CreateWorkshopRequest) (*models.Workshop, error)
	Detail(ctx context.Context, workshopID int64) (*dto.WorkshopDetail, error)
	Enroll(ctx context.Context, workshopID int64, carnet string) error
	Unenroll(ctx context.Context, workshopID int64, carnet string) error
	TogglePayment(ctx context.Context, workshopID int64, carnet string, kind models.WorkshopPaymentKind) (*models.WorkshopPaymentState, error)
	AssignPackage(ctx context.Context, workshopID int64, carnet string, packageID *int64) error
	LinkPackage(ctx context.Context, workshopID, packageID int64) error
	UnlinkPackage(ctx context.Context, workshopID, packageID int64) error
	GenerateDiplomas(ctx context.Context, workshopID int64) (*models.DiplomaBatch, error)
}

// WorkshopHandler exposes workshop rosters, packages and diplomas.
type WorkshopHandler struct {
	service workshopService
}

// NewWorkshopHandler constructs the handler.
func NewWorkshopHandler(service workshopService) *WorkshopHandler {
	return &WorkshopHandler{service: service}
}

// List godoc
// @Summary List workshops
// @Tags Workshops
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /workshops [get]
func (h *WorkshopHandler) List(c *gin.Context) {
	workshops, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, workshops, middleware.ExtractMeta(c))
}

// Create godoc
// @Summary Create a workshop
// @Tags Workshops
// @Accept json
// @Produce json
// @Param payload body dto.CreateWorkshopRequest true "Workshop payload"
// @Success 201 {object} response.Envelope
// @Router /workshops [post]
func (h *WorkshopHandler) Create(c *gin.Context) {
	var req dto.CreateWorkshopRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	workshop, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, workshop)
}

// Detail godoc
// @Summary Workshop roster and linked packages
// @Tags Workshops
// @Produce json
// @Param id path int true "Workshop ID"
// @Success 200 {object} response.Envelope
// @Router /workshops/{id} [get]
func (h *WorkshopHandler) Detail(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	detail, err := h.service.Detail(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, middleware.ExtractMeta(c))
}

// Enroll godoc
// @Summary Enroll a student
// @Tags Workshops
// @Param id path int true "Workshop ID"
// @Param carnet path string true "Student carnet"
// @Success 204
// @Router /workshops/{id}/students/{carnet} [post]
func (h *WorkshopHandler) Enroll(c *gin.Context) {
	workshopID, carnet, ok := rosterParams(c)
	if !ok {
		return
	}
	if err := h.service.Enroll(c.Request.Context(), workshopID, carnet); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Unenroll godoc
// @Summary Remove a student from a workshop
// @Tags Workshops
// @Param id path int true "Workshop ID"
// @Param carnet path string true "Student carnet"
// @Success 204
// @Router /workshops/{id}/students/{carnet} [delete]
func (h *WorkshopHandler) Unenroll(c *gin.Context) {
	workshopID, carnet, ok := rosterParams(c)
	if !ok {
		return
	}
	if err := h.service.Unenroll(c.Request.Context(), workshopID, carnet); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// TogglePayment godoc
// @Summary Flip the workshop or package paid flag of a student
// @Description The package flag requires an assigned package (412 otherwise).
// @Tags Workshops
// @Produce json
// @Param id path int true "Workshop ID"
// @Param carnet path string true "Student carnet"
// @Param kind query string true "workshop or package"
// @Success 200 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /workshops/{id}/students/{carnet}/toggle [post]
func (h *WorkshopHandler) TogglePayment(c *gin.Context) {
	workshopID, carnet, ok := rosterParams(c)
	if !ok {
		return
	}
	kind := models.WorkshopPaymentKind(strings.ToLower(strings.TrimSpace(c.Query("kind"))))
	state, err := h.service.TogglePayment(c.Request.Context(), workshopID, carnet, kind)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, state, middleware.ExtractMeta(c))
}

// AssignPackage godoc
// @Summary Assign or clear the package of an enrolled student
// @Tags Workshops
// @Accept json
// @Param id path int true "Workshop ID"
// @Param carnet path string true "Student carnet"
// @Param payload body dto.AssignPackageRequest true "Package assignment"
// @Success 204
// @Router /workshops/{id}/students/{carnet}/package [put]
func (h *WorkshopHandler) AssignPackage(c *gin.Context) {
	workshopID, carnet, ok := rosterParams(c)
	if !ok {
		return
	}
	var req dto.AssignPackageRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.AssignPackage(c.Request.Context(), workshopID, carnet, req.PackageID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// LinkPackage godoc
// @Summary Link a package to a workshop
// @Tags Workshops
// @Param id path int true "Workshop ID"
// @Param packageId path int true "Package ID"
// @Success 204
// @Router /workshops/{id}/packages/{packageId} [post]
func (h *WorkshopHandler) LinkPackage(c *gin.Context) {
	workshopID, packageID, ok := packageParams(c)
	if !ok {
		return
	}
	if err := h.service.LinkPackage(c.Request.Context(), workshopID, packageID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// UnlinkPackage godoc
// @Summary Unlink a package from a workshop
// @Tags Workshops
// @Param id path int true "Workshop ID"
// @Param packageId path int true "Package ID"
// @Success 204
// @Router /workshops/{id}/packages/{packageId} [delete]
func (h *WorkshopHandler) UnlinkPackage(c *gin.Context) {
	workshopID, packageID, ok := packageParams(c)
	if !ok {
		return
	}
	if err := h.service.UnlinkPackage(c.Request.Context(), workshopID, packageID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// GenerateDiplomas godoc
// @Summary Generate the diplomas of a workshop
// @Tags Workshops
// @Produce json
// @Param id path int true "Workshop ID"
// @Success 200 {object} response.Envelope
// @Router /workshops/{id}/diplomas [post]
func (h *WorkshopHandler) GenerateDiplomas(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	batch, err := h.service.GenerateDiplomas(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, batch, middleware.ExtractMeta(c))
}

func rosterParams(c *gin.Context) (int64, string, bool) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return 0, "", false
	}
	carnet := strings.TrimSpace(c.Param("carnet"))
	if carnet == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "carnet is required"))
		return 0, "", false
	}
	return id, carnet, true
}

func packageParams(c *gin.Context) (int64, int64, bool) {
	return pairParams(c, "id", "packageId")
}

func pairParams(c *gin.Context, first, second string) (int64, int64, bool) {
	a, err := idParam(c, first)
	if err != nil {
		response.Error(c, err)
		return 0, 0, false
	}
	b, err := idParam(c, second)
	if err != nil {
		response.Error(c, err)
		return 0, 0, false
	}
	return a, b, true
}
