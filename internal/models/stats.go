package models

// Stats is the dashboard summary computed by the school API. The server clock
// fields are optional; older API versions omit them.
type Stats struct {
	Students        int  `json:"students"`
	Alerts          int  `json:"alerts"`
	PendingPayments int  `json:"pending_payments"`
	ServerYear      *int `json:"server_year,omitempty"`
	ServerMonth     *int `json:"server_month,omitempty"`
}
