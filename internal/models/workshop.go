package models

// Workshop ("taller") is a course students can join separately from their plan.
type Workshop struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// WorkshopInput is the body submitted to create a workshop.
type WorkshopInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// WorkshopEnrollment is one roster row. StudentID is the student's carnet.
// PackagePaid is only meaningful when a package is assigned.
type WorkshopEnrollment struct {
	StudentID    string `json:"student_id"`
	Names        string `json:"names"`
	Lastnames    string `json:"lastnames"`
	WorkshopPaid bool   `json:"workshop_paid"`
	PackagePaid  bool   `json:"package_paid"`
	PackageID    *int64 `json:"package_id,omitempty"`
}

// WorkshopPaymentKind selects which roster flag a toggle flips.
type WorkshopPaymentKind string

const (
	WorkshopPaymentWorkshop WorkshopPaymentKind = "workshop"
	WorkshopPaymentPackage  WorkshopPaymentKind = "package"
)

// Valid reports whether k is a known payment kind.
func (k WorkshopPaymentKind) Valid() bool {
	return k == WorkshopPaymentWorkshop || k == WorkshopPaymentPackage
}

// WorkshopPaymentState is the API's answer to a roster toggle.
type WorkshopPaymentState struct {
	WorkshopPaid bool `json:"workshop_paid"`
	PackagePaid  bool `json:"package_paid"`
}

// DiplomaBatch is the result of requesting diplomas for a workshop.
type DiplomaBatch struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	CanvaLink string `json:"canva_link,omitempty"`
}
