package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/school-admin-gateway/internal/dto"
	"github.com/noah-isme/school-admin-gateway/internal/models"
	appErrors "github.com/noah-isme/school-admin-gateway/pkg/errors"
	"github.com/noah-isme/school-admin-gateway/pkg/paygrid"
)

type studentLister interface {
	List(ctx context.Context, plan models.Plan) ([]models.Student, error)
}

type yearSource interface {
	Current(ctx context.Context) (year, month int)
}

// PaymentGridConfig configures the grid catalog and session lifetime.
type PaymentGridConfig struct {
	// Years fixes the grid window. When empty the window is the server's
	// current year and the next one.
	Years             []int
	MonthLabels       []string
	SpecialTypes      []paygrid.SpecialType
	SessionTTL        time.Duration
	CallTimeout       time.Duration
	LedgerConcurrency int
}

// LedgerEntry is the reconciled grid of one student.
type LedgerEntry struct {
	Student models.Student
	Grid    paygrid.RenderedGrid
}

type gridSession struct {
	vm      *paygrid.ViewModel
	catalog string
}

// PaymentGridService keeps one paygrid.ViewModel per student and serves grid
// reads and toggles through it.
type PaymentGridService struct {
	payments paygrid.Client
	students studentLister
	clock    yearSource
	metrics  *MetricsService
	logger   *zap.Logger
	cfg      PaymentGridConfig

	mu       sync.Mutex
	sessions map[string]*gridSession
}

// NewPaymentGridService constructs the service.
func NewPaymentGridService(payments paygrid.Client, students studentLister, clock yearSource, metrics *MetricsService, logger *zap.Logger, cfg PaymentGridConfig) *PaymentGridService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 30 * time.Minute
	}
	if cfg.LedgerConcurrency <= 0 {
		cfg.LedgerConcurrency = 4
	}
	return &PaymentGridService{
		payments: payments,
		students: students,
		clock:    clock,
		metrics:  metrics,
		logger:   logger,
		cfg:      cfg,
		sessions: make(map[string]*gridSession),
	}
}

// Catalog returns the grid configuration in effect.
func (s *PaymentGridService) Catalog(ctx context.Context) paygrid.Config {
	years := append([]int(nil), s.cfg.Years...)
	if len(years) == 0 {
		current := time.Now().Year()
		if s.clock != nil {
			current, _ = s.clock.Current(ctx)
		}
		years = []int{current, current + 1}
	}
	return paygrid.Config{
		Years:        years,
		MonthLabels:  append([]string(nil), s.cfg.MonthLabels...),
		SpecialTypes: append([]paygrid.SpecialType(nil), s.cfg.SpecialTypes...),
	}
}

// Config returns the blank grid used when registering a student.
func (s *PaymentGridService) Config(ctx context.Context) (*dto.GridResponse, error) {
	catalog := s.Catalog(ctx)
	cells, err := paygrid.BuildGrid(catalog)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "invalid payment grid configuration")
	}
	return &dto.GridResponse{
		Status:  paygrid.StatusReady,
		Catalog: catalog,
		Grid:    paygrid.Reconcile(cells, nil).Views(),
	}, nil
}

// Grid reconciles a student's payments and returns the grid. When the school
// API cannot be read the response is still returned, in the error state, next
// to the error.
func (s *PaymentGridService) Grid(ctx context.Context, carnet string) (*dto.GridResponse, error) {
	vm, catalog, err := s.session(ctx, carnet)
	if err != nil {
		return nil, err
	}
	snap, refreshErr := vm.Refresh(ctx)
	resp := gridResponse(snap, catalog)
	if refreshErr != nil {
		s.logger.Warn("payment grid refresh failed", zap.String("carnet", carnet), zap.Error(refreshErr))
		return resp, refreshErr
	}
	return resp, nil
}

// Toggle flips one payment of a student.
func (s *PaymentGridService) Toggle(ctx context.Context, carnet string, key paygrid.Key) (*paygrid.CellView, error) {
	vm, _, err := s.session(ctx, carnet)
	if err != nil {
		return nil, err
	}
	cell, err := vm.Toggle(ctx, key)
	if err != nil {
		if errors.Is(err, paygrid.ErrUnknownCell) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "cell "+key.String()+" is not part of the payment grid")
		}
		s.metrics.RecordGridToggle(false)
		s.logger.Warn("payment toggle failed",
			zap.String("carnet", carnet),
			zap.String("cell", key.String()),
			zap.Error(err),
		)
		return nil, err
	}
	s.metrics.RecordGridToggle(true)
	view := cell.View()
	return &view, nil
}

// Evict drops the session of a student, cancelling any refresh in flight.
func (s *PaymentGridService) Evict(carnet string) {
	s.mu.Lock()
	sess, ok := s.sessions[carnet]
	delete(s.sessions, carnet)
	count := len(s.sessions)
	s.mu.Unlock()
	if ok {
		sess.vm.Close()
	}
	s.metrics.SetGridSessions(count)
}

// EvictIdle drops sessions unused for longer than the session TTL and
// returns how many were removed.
func (s *PaymentGridService) EvictIdle(now time.Time) int {
	s.mu.Lock()
	var stale []*gridSession
	for carnet, sess := range s.sessions {
		if now.Sub(sess.vm.LastUsed()) > s.cfg.SessionTTL {
			stale = append(stale, sess)
			delete(s.sessions, carnet)
		}
	}
	count := len(s.sessions)
	s.mu.Unlock()

	for _, sess := range stale {
		sess.vm.Close()
	}
	s.metrics.SetGridSessions(count)
	return len(stale)
}

// StartJanitor evicts idle sessions periodically until ctx ends.
func (s *PaymentGridService) StartJanitor(ctx context.Context) {
	interval := s.cfg.SessionTTL / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				if n := s.EvictIdle(now); n > 0 {
					s.logger.Debug("evicted idle grid sessions", zap.Int("count", n))
				}
			}
		}
	}()
}

// Ledger reconciles the grid of every student in plan, fetching payments
// with bounded concurrency. The first failure aborts the whole ledger.
func (s *PaymentGridService) Ledger(ctx context.Context, plan models.Plan) ([]LedgerEntry, paygrid.Config, error) {
	catalog := s.Catalog(ctx)
	cells, err := paygrid.BuildGrid(catalog)
	if err != nil {
		return nil, catalog, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "invalid payment grid configuration")
	}
	students, err := s.students.List(ctx, plan)
	if err != nil {
		return nil, catalog, err
	}

	entries := make([]LedgerEntry, len(students))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.LedgerConcurrency)
	for i := range students {
		i := i
		g.Go(func() error {
			records, err := s.payments.Payments(gctx, students[i].Carnet)
			if err != nil {
				return err
			}
			entries[i] = LedgerEntry{Student: students[i], Grid: paygrid.Reconcile(cells, records)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Warn("payment ledger failed", zap.String("plan", string(plan)), zap.Error(err))
		return nil, catalog, err
	}
	return entries, catalog, nil
}

// session returns the view model of a student, replacing it when the catalog
// changed since it was built (for instance when the server year rolls over).
func (s *PaymentGridService) session(ctx context.Context, carnet string) (*paygrid.ViewModel, paygrid.Config, error) {
	if strings.TrimSpace(carnet) == "" {
		return nil, paygrid.Config{}, appErrors.Clone(appErrors.ErrValidation, "carnet is required")
	}
	catalog := s.Catalog(ctx)
	fingerprint := catalogFingerprint(catalog)

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[carnet]; ok && sess.catalog == fingerprint {
		return sess.vm, catalog, nil
	} else if ok {
		sess.vm.Close()
	}

	cells, err := paygrid.BuildGrid(catalog)
	if err != nil {
		return nil, catalog, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "invalid payment grid configuration")
	}
	vm := paygrid.NewViewModel(carnet, cells, s.payments, paygrid.WithTimeout(s.cfg.CallTimeout))
	s.sessions[carnet] = &gridSession{vm: vm, catalog: fingerprint}
	s.metrics.SetGridSessions(len(s.sessions))
	return vm, catalog, nil
}

func catalogFingerprint(cfg paygrid.Config) string {
	var b strings.Builder
	for _, y := range cfg.Years {
		b.WriteString(strconv.Itoa(y))
		b.WriteByte(',')
	}
	b.WriteByte('|')
	for _, st := range cfg.SpecialTypes {
		b.WriteString(st.ID)
		b.WriteByte(',')
	}
	return b.String()
}

func gridResponse(snap paygrid.Snapshot, catalog paygrid.Config) *dto.GridResponse {
	resp := &dto.GridResponse{
		StudentID: snap.StudentID,
		Status:    snap.Status,
		Error:     snap.Error,
		Version:   snap.Version,
		Catalog:   catalog,
		Grid:      snap.Grid.Views(),
	}
	if !snap.RefreshedAt.IsZero() {
		refreshed := snap.RefreshedAt.UTC()
		resp.RefreshedAt = &refreshed
	}
	return resp
}
