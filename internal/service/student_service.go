package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/school-admin-gateway/internal/dto"
	"github.com/noah-isme/school-admin-gateway/internal/models"
	appErrors "github.com/noah-isme/school-admin-gateway/pkg/errors"
	"github.com/noah-isme/school-admin-gateway/pkg/paygrid"
)

type studentRepository interface {
	List(ctx context.Context, plan models.Plan) ([]models.Student, error)
	Create(ctx context.Context, input models.StudentInput) (*models.Student, error)
	Delete(ctx context.Context, carnet string) error
}

type gridSessions interface {
	Toggle(ctx context.Context, carnet string, key paygrid.Key) (*paygrid.CellView, error)
	Evict(carnet string)
}

// StudentService handles student use-cases.
type StudentService struct {
	repo      studentRepository
	grid      gridSessions
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, grid gridSessions, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, grid: grid, validator: validate, logger: logger}
}

// List returns the students of a plan. An empty plan lists everyone.
func (s *StudentService) List(ctx context.Context, plan models.Plan) ([]models.Student, error) {
	if plan == "" {
		plan = models.PlanAll
	}
	if plan != models.PlanAll && !plan.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown plan "+string(plan))
	}
	students, err := s.repo.List(ctx, plan)
	if err != nil {
		s.logger.Warn("list students failed", zap.String("plan", string(plan)), zap.Error(err))
		return nil, err
	}
	return students, nil
}

// Register creates the student and then records each initial payment one at
// a time. Payment failures do not undo the registration; they are reported in
// the response.
func (s *StudentService) Register(ctx context.Context, req dto.RegisterStudentRequest) (*dto.RegisterStudentResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}

	student, err := s.repo.Create(ctx, studentInput(req))
	if err != nil {
		s.logger.Warn("register student failed", zap.String("names", req.Names), zap.Error(err))
		return nil, err
	}
	resp := &dto.RegisterStudentResponse{Student: student, PaidCells: []paygrid.Key{}}
	if len(req.InitialPayments) == 0 {
		return resp, nil
	}
	if student.Carnet == "" {
		return nil, appErrors.Clone(appErrors.ErrDataShape, "created student has no carnet")
	}

	for _, p := range req.InitialPayments {
		key := p.Key()
		if _, err := s.grid.Toggle(ctx, student.Carnet, key); err != nil {
			resp.FailedPayments = append(resp.FailedPayments, dto.PaymentFailure{
				Cell:  key.String(),
				Error: appErrors.FromError(err).Message,
			})
			continue
		}
		resp.PaidCells = append(resp.PaidCells, key)
	}
	if len(resp.FailedPayments) > 0 {
		s.logger.Warn("initial payments incomplete",
			zap.String("carnet", student.Carnet),
			zap.Int("failed", len(resp.FailedPayments)),
		)
	}
	return resp, nil
}

// Delete removes a student and drops its grid session.
func (s *StudentService) Delete(ctx context.Context, carnet string) error {
	carnet = strings.TrimSpace(carnet)
	if carnet == "" {
		return appErrors.Clone(appErrors.ErrValidation, "carnet is required")
	}
	if err := s.repo.Delete(ctx, carnet); err != nil {
		s.logger.Warn("delete student failed", zap.String("carnet", carnet), zap.Error(err))
		return err
	}
	s.grid.Evict(carnet)
	return nil
}

func studentInput(req dto.RegisterStudentRequest) models.StudentInput {
	input := models.StudentInput{
		Names:     strings.TrimSpace(req.Names),
		Lastnames: strings.TrimSpace(req.Lastnames),
		Age:       req.Age,
		CUI:       strings.TrimSpace(req.CUI),
		Phone:     strings.TrimSpace(req.Phone),
		IsAdult:   req.Age >= models.AdultAge,
		Plan:      req.Plan,
		PhotoURL:  optional(req.PhotoURL),
	}
	if !input.IsAdult {
		input.Guardian1Name = optional(req.Guardian1Name)
		input.Guardian1Phone = optional(req.Guardian1Phone)
		input.Guardian2Name = optional(req.Guardian2Name)
		input.Guardian2Phone = optional(req.Guardian2Phone)
	}
	return input
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
