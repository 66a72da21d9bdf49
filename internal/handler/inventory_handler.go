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

type inventoryService interface {
	Search(ctx context.Context, term string) ([]models.Product, bool, error)
	Get(ctx context.Context, code string) (*models.Product, error)
	Create(ctx context.Context, req dto.CreateProductRequest) (*models.Product, error)
	Alerts(ctx context.Context) ([]models.Product, bool, error)
}

// InventoryHandler exposes the bodega product catalog.
type InventoryHandler struct {
	service inventoryService
}

// NewInventoryHandler constructs the handler.
func NewInventoryHandler(service inventoryService) *InventoryHandler {
	return &InventoryHandler{service: service}
}

// List godoc
// @Summary List or search products
// @Tags Inventory
// @Produce json
// @Param q query string false "Substring of description or code"
// @Success 200 {object} response.Envelope
// @Router /products [get]
func (h *InventoryHandler) List(c *gin.Context) {
	products, hit, err := h.service.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, products, metaWithCache(c, hit))
}

// Get godoc
// @Summary Get a product by code
// @Tags Inventory
// @Produce json
// @Param code path string true "Product code"
// @Success 200 {object} response.Envelope
// @Router /products/{code} [get]
func (h *InventoryHandler) Get(c *gin.Context) {
	product, err := h.service.Get(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, product, middleware.ExtractMeta(c))
}

// Create godoc
// @Summary Create a product
// @Tags Inventory
// @Accept json
// @Produce json
// @Param payload body dto.CreateProductRequest true "Product payload"
// @Success 201 {object} response.Envelope
// @Router /products [post]
func (h *InventoryHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	product, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, product)
}

// Alerts godoc
// @Summary Products at or below their alert threshold
// @Tags Inventory
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /inventory/alerts [get]
func (h *InventoryHandler) Alerts(c *gin.Context) {
	products, hit, err := h.service.Alerts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, products, metaWithCache(c, hit))
}
