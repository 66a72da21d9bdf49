package repository

import (
	"context"
	"net/url"
	"strconv"

	"github.com/noah-isme/school-admin-gateway/pkg/paygrid"
	"github.com/noah-isme/school-admin-gateway/pkg/upstream"
)

// PaymentRepository reads and toggles student payments on the school API.
// It satisfies paygrid.Client.
type PaymentRepository struct {
	client *upstream.Client
}

// NewPaymentRepository constructs a payment repository.
func NewPaymentRepository(client *upstream.Client) *PaymentRepository {
	return &PaymentRepository{client: client}
}

type paymentRow struct {
	PaymentType string `json:"payment_type"`
	Month       int    `json:"month"`
	Year        int    `json:"year"`
	IsPaid      *bool  `json:"is_paid"`
}

// Payments lists the paid records of a student. Rows the API kept after a
// toggle-off (is_paid=false) are dropped so presence keeps meaning paid.
func (r *PaymentRepository) Payments(ctx context.Context, studentID string) ([]paygrid.Record, error) {
	var rows []paymentRow
	if err := r.client.Get(ctx, "/payments/"+url.PathEscape(studentID), "/payments/{id}", nil, &rows); err != nil {
		return nil, err
	}
	records := make([]paygrid.Record, 0, len(rows))
	for _, row := range rows {
		if row.IsPaid != nil && !*row.IsPaid {
			continue
		}
		paymentType := row.PaymentType
		if paymentType == "" {
			paymentType = paygrid.MonthlyType
		}
		records = append(records, paygrid.Record{PaymentType: paymentType, Month: row.Month, Year: row.Year})
	}
	return records, nil
}

// TogglePayment flips one payment. The API reports the resulting state in
// is_paid; older versions omit it.
func (r *PaymentRepository) TogglePayment(ctx context.Context, studentID string, key paygrid.Key) (paygrid.ToggleResult, error) {
	query := url.Values{}
	query.Set("student_id", studentID)
	query.Set("month", strconv.Itoa(key.Month))
	query.Set("year", strconv.Itoa(key.Year))
	query.Set("payment_type", key.PaymentType)

	var body struct {
		Status string `json:"status"`
		IsPaid *bool  `json:"is_paid"`
	}
	if err := r.client.Post(ctx, "/payments/toggle/", "", query, nil, &body); err != nil {
		return paygrid.ToggleResult{}, err
	}
	return paygrid.ToggleResult{IsPaid: body.IsPaid}, nil
}
