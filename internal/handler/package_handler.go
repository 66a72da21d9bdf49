package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-admin-gateway/internal/dto"
	"github.com/noah-isme/school-admin-gateway/internal/middleware"
	"github.com/noah-isme/school-admin-gateway/internal/models"
	"github.com/noah-isme/school-admin-gateway/pkg/response"
)

type packageService interface {
	List(ctx context.Context) ([]models.Package, error)
	Create(ctx context.Context, req dto.PackageRequest) (*models.Package, error)
	Update(ctx context.Context, id int64, req dto.PackageRequest) (*models.Package, error)
	Delete(ctx context.Context, id int64) error
}

// PackageHandler manages product packages.
type PackageHandler struct {
	service packageService
}

// NewPackageHandler constructs the handler.
func NewPackageHandler(service packageService) *PackageHandler {
	return &PackageHandler{service: service}
}

// List godoc
// @Summary List packages
// @Tags Packages
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /packages [get]
func (h *PackageHandler) List(c *gin.Context) {
	packages, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, packages, middleware.ExtractMeta(c))
}

// Create godoc
// @Summary Create a package
// @Description Lines may reference a product by product_id or product_code; repeated products are merged.
// @Tags Packages
// @Accept json
// @Produce json
// @Param payload body dto.PackageRequest true "Package payload"
// @Success 201 {object} response.Envelope
// @Router /packages [post]
func (h *PackageHandler) Create(c *gin.Context) {
	var req dto.PackageRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	pkg, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, pkg)
}

// Update godoc
// @Summary Replace a package
// @Tags Packages
// @Accept json
// @Produce json
// @Param id path int true "Package ID"
// @Param payload body dto.PackageRequest true "Package payload"
// @Success 200 {object} response.Envelope
// @Router /packages/{id} [put]
func (h *PackageHandler) Update(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.PackageRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	pkg, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, pkg, middleware.ExtractMeta(c))
}

// Delete godoc
// @Summary Delete a package
// @Tags Packages
// @Param id path int true "Package ID"
// @Success 204
// @Router /packages/{id} [delete]
func (h *PackageHandler) Delete(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
