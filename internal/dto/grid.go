package dto

import (
	"time"

	"github.com/noah-isme/school-admin-gateway/pkg/paygrid"
)

// GridResponse is the payment grid of one student, or the blank registration
// grid when StudentID is empty.
type GridResponse struct {
	StudentID   string           `json:"student_id,omitempty"`
	Status      paygrid.Status   `json:"status"`
	Error       string           `json:"error,omitempty"`
	Version     uint64           `json:"version"`
	RefreshedAt *time.Time       `json:"refreshed_at,omitempty"`
	Catalog     paygrid.Config   `json:"catalog"`
	Grid        paygrid.GridView `json:"grid"`
}

// ToggleRequest addresses one grid cell. Special payments use month 0 and year 0.
type ToggleRequest struct {
	PaymentType string `json:"payment_type" validate:"required"`
	Month       int    `json:"month" validate:"gte=0,lte=12"`
	Year        int    `json:"year" validate:"gte=0"`
}

// Key converts the request into a grid key.
func (r ToggleRequest) Key() paygrid.Key {
	return paygrid.Key{PaymentType: r.PaymentType, Month: r.Month, Year: r.Year}
}
