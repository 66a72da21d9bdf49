package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/school-admin-gateway/internal/dto"
	"github.com/noah-isme/school-admin-gateway/internal/models"
	appErrors "github.com/noah-isme/school-admin-gateway/pkg/errors"
)

type workshopRepository interface {
	List(ctx context.Context) ([]models.Workshop, error)
	Create(ctx context.Context, input models.WorkshopInput) (*models.Workshop, error)
	Roster(ctx context.Context, workshopID int64) ([]models.WorkshopEnrollment, error)
	Enroll(ctx context.Context, workshopID int64, carnet string) error
	Unenroll(ctx context.Context, workshopID int64, carnet string) error
	Packages(ctx context.Context, workshopID int64) ([]models.Package, error)
	LinkPackage(ctx context.Context, workshopID, packageID int64) error
	UnlinkPackage(ctx context.Context, workshopID, packageID int64) error
	TogglePayment(ctx context.Context, workshopID int64, carnet string, kind models.WorkshopPaymentKind) (*models.WorkshopPaymentState, error)
	AssignPackage(ctx context.Context, workshopID int64, carnet string, packageID *int64) error
	GenerateDiplomas(ctx context.Context, workshopID int64) (*models.DiplomaBatch, error)
}

// WorkshopService handles workshop rosters, packages and diplomas.
type WorkshopService struct {
	repo      workshopRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewWorkshopService constructs the workshop service.
func NewWorkshopService(repo workshopRepository, validate *validator.Validate, logger *zap.Logger) *WorkshopService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkshopService{repo: repo, validator: validate, logger: logger}
}

// List returns all workshops.
func (s *WorkshopService) List(ctx context.Context) ([]models.Workshop, error) {
	workshops, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Warn("list workshops failed", zap.Error(err))
		return nil, err
	}
	return workshops, nil
}

// Create adds a workshop.
func (s *WorkshopService) Create(ctx context.Context, req dto.CreateWorkshopRequest) (*models.Workshop, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid workshop payload")
	}
	workshop, err := s.repo.Create(ctx, models.WorkshopInput{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
	})
	if err != nil {
		s.logger.Warn("create workshop failed", zap.String("name", req.Name), zap.Error(err))
		return nil, err
	}
	return workshop, nil
}

// Detail loads the roster and linked packages of a workshop.
func (s *WorkshopService) Detail(ctx context.Context, workshopID int64) (*dto.WorkshopDetail, error) {
	if err := validID("workshop", workshopID); err != nil {
		return nil, err
	}
	roster, err := s.repo.Roster(ctx, workshopID)
	if err != nil {
		s.logger.Warn("load roster failed", zap.Int64("workshop_id", workshopID), zap.Error(err))
		return nil, err
	}
	packages, err := s.repo.Packages(ctx, workshopID)
	if err != nil {
		s.logger.Warn("load workshop packages failed", zap.Int64("workshop_id", workshopID), zap.Error(err))
		return nil, err
	}
	detail := &dto.WorkshopDetail{
		WorkshopID: workshopID,
		Roster:     make([]dto.RosterRow, 0, len(roster)),
		Packages:   packages,
	}
	if detail.Packages == nil {
		detail.Packages = []models.Package{}
	}
	for _, row := range roster {
		detail.Roster = append(detail.Roster, dto.RosterRow{
			WorkshopEnrollment:   row,
			PackageToggleEnabled: row.PackageID != nil,
		})
	}
	return detail, nil
}

// Enroll adds a student to a workshop.
func (s *WorkshopService) Enroll(ctx context.Context, workshopID int64, carnet string) error {
	if err := validRosterKey(workshopID, carnet); err != nil {
		return err
	}
	if err := s.repo.Enroll(ctx, workshopID, carnet); err != nil {
		s.logger.Warn("enroll student failed", zap.Int64("workshop_id", workshopID), zap.String("carnet", carnet), zap.Error(err))
		return err
	}
	return nil
}

// Unenroll removes a student from a workshop.
func (s *WorkshopService) Unenroll(ctx context.Context, workshopID int64, carnet string) error {
	if err := validRosterKey(workshopID, carnet); err != nil {
		return err
	}
	if err := s.repo.Unenroll(ctx, workshopID, carnet); err != nil {
		s.logger.Warn("unenroll student failed", zap.Int64("workshop_id", workshopID), zap.String("carnet", carnet), zap.Error(err))
		return err
	}
	return nil
}

// TogglePayment flips the workshop or package paid flag of a roster row.
// The package flag can only be toggled once a package is assigned; otherwise
// the request fails with PRECONDITION_FAILED and the school API is not called.
func (s *WorkshopService) TogglePayment(ctx context.Context, workshopID int64, carnet string, kind models.WorkshopPaymentKind) (*models.WorkshopPaymentState, error) {
	if err := validRosterKey(workshopID, carnet); err != nil {
		return nil, err
	}
	if !kind.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "kind must be workshop or package")
	}
	if kind == models.WorkshopPaymentPackage {
		row, err := s.rosterRow(ctx, workshopID, carnet)
		if err != nil {
			return nil, err
		}
		if row.PackageID == nil {
			return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "student has no package assigned")
		}
	}
	state, err := s.repo.TogglePayment(ctx, workshopID, carnet, kind)
	if err != nil {
		s.logger.Warn("workshop payment toggle failed",
			zap.Int64("workshop_id", workshopID),
			zap.String("carnet", carnet),
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
		return nil, err
	}
	return state, nil
}

// AssignPackage sets or, with a nil packageID, clears a student's package.
func (s *WorkshopService) AssignPackage(ctx context.Context, workshopID int64, carnet string, packageID *int64) error {
	if err := validRosterKey(workshopID, carnet); err != nil {
		return err
	}
	if packageID != nil {
		if err := validID("package", *packageID); err != nil {
			return err
		}
	}
	if err := s.repo.AssignPackage(ctx, workshopID, carnet, packageID); err != nil {
		s.logger.Warn("assign package failed", zap.Int64("workshop_id", workshopID), zap.String("carnet", carnet), zap.Error(err))
		return err
	}
	return nil
}

// LinkPackage makes a package available in a workshop.
func (s *WorkshopService) LinkPackage(ctx context.Context, workshopID, packageID int64) error {
	if err := validID("workshop", workshopID); err != nil {
		return err
	}
	if err := validID("package", packageID); err != nil {
		return err
	}
	if err := s.repo.LinkPackage(ctx, workshopID, packageID); err != nil {
		s.logger.Warn("link package failed", zap.Int64("workshop_id", workshopID), zap.Int64("package_id", packageID), zap.Error(err))
		return err
	}
	return nil
}

// UnlinkPackage removes a package from a workshop.
func (s *WorkshopService) UnlinkPackage(ctx context.Context, workshopID, packageID int64) error {
	if err := validID("workshop", workshopID); err != nil {
		return err
	}
	if err := validID("package", packageID); err != nil {
		return err
	}
	if err := s.repo.UnlinkPackage(ctx, workshopID, packageID); err != nil {
		s.logger.Warn("unlink package failed", zap.Int64("workshop_id", workshopID), zap.Int64("package_id", packageID), zap.Error(err))
		return err
	}
	return nil
}

// GenerateDiplomas asks the school API to produce the diplomas of a workshop.
func (s *WorkshopService) GenerateDiplomas(ctx context.Context, workshopID int64) (*models.DiplomaBatch, error) {
	if err := validID("workshop", workshopID); err != nil {
		return nil, err
	}
	batch, err := s.repo.GenerateDiplomas(ctx, workshopID)
	if err != nil {
		s.logger.Warn("generate diplomas failed", zap.Int64("workshop_id", workshopID), zap.Error(err))
		return nil, err
	}
	s.logger.Info("diplomas generated", zap.Int64("workshop_id", workshopID), zap.String("status", batch.Status))
	return batch, nil
}

func (s *WorkshopService) rosterRow(ctx context.Context, workshopID int64, carnet string) (*models.WorkshopEnrollment, error) {
	roster, err := s.repo.Roster(ctx, workshopID)
	if err != nil {
		return nil, err
	}
	for i := range roster {
		if roster[i].StudentID == carnet {
			return &roster[i], nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "student is not enrolled in this workshop")
}

func validID(name string, id int64) error {
	if id <= 0 {
		return appErrors.Clone(appErrors.ErrValidation, "invalid "+name+" id")
	}
	return nil
}

func validRosterKey(workshopID int64, carnet string) error {
	if err := validID("workshop", workshopID); err != nil {
		return err
	}
	if strings.TrimSpace(carnet) == "" {
		return appErrors.Clone(appErrors.ErrValidation, "carnet is required")
	}
	return nil
}
