package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-admin-gateway/internal/dto"
	"github.com/noah-isme/school-admin-gateway/internal/middleware"
	"github.com/noah-isme/school-admin-gateway/internal/models"
	"github.com/noah-isme/school-admin-gateway/pkg/response"
)

type studentService interface {
	List(ctx context.Context, plan models.Plan) ([]models.Student, error)
	Register(ctx context.Context, req dto.RegisterStudentRequest) (*dto.RegisterStudentResponse, error)
	Delete(ctx context.Context, carnet string) error
}

// StudentHandler manages student endpoints.
type StudentHandler struct {
	service studentService
}

// NewStudentHandler constructs a student handler.
func NewStudentHandler(service studentService) *StudentHandler {
	return &StudentHandler{service: service}
}

// List godoc
// @Summary List students
// @Tags Students
// @Produce json
// @Param plan query string false "diario, fin_de_semana, ejecutivo or todos"
// @Success 200 {object} response.Envelope
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	plan := models.Plan(strings.ToLower(strings.TrimSpace(c.Query("plan"))))
	students, err := h.service.List(c.Request.Context(), plan)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, middleware.ExtractMeta(c))
}

// Register godoc
// @Summary Register a student and record the initial payments
// @Tags Students
// @Accept json
// @Produce json
// @Param payload body dto.RegisterStudentRequest true "Student payload"
// @Success 201 {object} response.Envelope
// @Router /students [post]
func (h *StudentHandler) Register(c *gin.Context) {
	var req dto.RegisterStudentRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Delete godoc
// @Summary Delete a student
// @Tags Students
// @Param carnet path string true "Student carnet"
// @Success 204
// @Router /students/{carnet} [delete]
func (h *StudentHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("carnet")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
