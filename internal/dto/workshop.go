package dto

import "github.com/noah-isme/school-admin-gateway/internal/models"

// CreateWorkshopRequest is the body for creating a workshop.
type CreateWorkshopRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// RosterRow is one enrolled student as shown on the workshop detail view.
type RosterRow struct {
	models.WorkshopEnrollment
	PackageToggleEnabled bool `json:"package_toggle_enabled"`
}

// WorkshopDetail aggregates a workshop's roster and linked packages.
type WorkshopDetail struct {
	WorkshopID int64            `json:"workshop_id"`
	Roster     []RosterRow      `json:"roster"`
	Packages   []models.Package `json:"packages"`
}

// AssignPackageRequest assigns a package to an enrolled student. A null
// package_id clears the assignment.
type AssignPackageRequest struct {
	PackageID *int64 `json:"package_id"`
}
