package dto

import (
	"github.com/noah-isme/school-admin-gateway/internal/models"
	"github.com/noah-isme/school-admin-gateway/pkg/paygrid"
)

// RegisterStudentRequest is the registration form. InitialPayments lists the
// grid cells ticked on the blank registration grid.
type RegisterStudentRequest struct {
	Names           string          `json:"names" validate:"required"`
	Lastnames       string          `json:"lastnames" validate:"required"`
	Age             int             `json:"age" validate:"gte=1,lte=120"`
	CUI             string          `json:"cui"`
	Phone           string          `json:"phone"`
	Plan            models.Plan     `json:"plan" validate:"required,oneof=diario fin_de_semana ejecutivo"`
	Guardian1Name   string          `json:"guardian1_name"`
	Guardian1Phone  string          `json:"guardian1_phone"`
	Guardian2Name   string          `json:"guardian2_name"`
	Guardian2Phone  string          `json:"guardian2_phone"`
	PhotoURL        string          `json:"photo_url" validate:"omitempty,url"`
	InitialPayments []ToggleRequest `json:"initial_payments" validate:"dive"`
}

// PaymentFailure reports a registration payment that could not be recorded.
type PaymentFailure struct {
	Cell  string `json:"cell"`
	Error string `json:"error"`
}

// RegisterStudentResponse is the created student plus the outcome of each
// initial payment.
type RegisterStudentResponse struct {
	Student        *models.Student  `json:"student"`
	PaidCells      []paygrid.Key    `json:"paid_cells"`
	FailedPayments []PaymentFailure `json:"failed_payments,omitempty"`
}
