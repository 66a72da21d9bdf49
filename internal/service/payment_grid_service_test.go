package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-admin-gateway/internal/models"
	appErrors "github.com/noah-isme/school-admin-gateway/pkg/errors"
	"github.com/noah-isme/school-admin-gateway/pkg/paygrid"
)

var testMonthLabels = []string{"Ene", "Feb", "Mar", "Abr", "May", "Jun", "Jul", "Ago", "Sep", "Oct", "Nov", "Dic"}

type paymentsStub struct {
	mu          sync.Mutex
	records     map[string][]paygrid.Record
	paymentsErr error
	toggleErr   error
	toggles     []paygrid.Key
}

func (p *paymentsStub) Payments(_ context.Context, studentID string) ([]paygrid.Record, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.paymentsErr != nil {
		return nil, p.paymentsErr
	}
	return p.records[studentID], nil
}

func (p *paymentsStub) TogglePayment(_ context.Context, _ string, key paygrid.Key) (paygrid.ToggleResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.toggles = append(p.toggles, key)
	if p.toggleErr != nil {
		return paygrid.ToggleResult{}, p.toggleErr
	}
	return paygrid.ToggleResult{}, nil
}

type fixedYear struct{ year int }

func (f fixedYear) Current(context.Context) (int, int) { return f.year, 3 }

type studentListStub struct {
	students []models.Student
	err      error
	plans    []models.Plan
}

func (s *studentListStub) List(_ context.Context, plan models.Plan) ([]models.Student, error) {
	s.plans = append(s.plans, plan)
	return s.students, s.err
}

func newGridService(payments paygrid.Client, students studentLister, metrics *MetricsService) *PaymentGridService {
	return NewPaymentGridService(payments, students, fixedYear{2026}, metrics, nil, PaymentGridConfig{
		MonthLabels:  testMonthLabels,
		SpecialTypes: []paygrid.SpecialType{{ID: "inscripcion", Label: "Inscripción"}, {ID: "gastos_varios", Label: "Gastos Varios"}},
		SessionTTL:   time.Minute,
	})
}

func TestGridConfigSeedsYearsFromServerClock(t *testing.T) {
	svc := newGridService(&paymentsStub{}, &studentListStub{}, nil)

	resp, err := svc.Config(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{2026, 2027}, resp.Catalog.Years)
	assert.Equal(t, paygrid.StatusReady, resp.Status)
	assert.Len(t, resp.Grid.Specials, 2)
	require.Len(t, resp.Grid.Years, 2)
	for _, row := range resp.Grid.Years {
		for _, cell := range row.Cells {
			assert.False(t, cell.Paid)
		}
	}
}

func TestGridConfiguredYearsWin(t *testing.T) {
	svc := NewPaymentGridService(&paymentsStub{}, nil, fixedYear{2026}, nil, nil, PaymentGridConfig{
		Years:       []int{2030},
		MonthLabels: testMonthLabels,
	})
	assert.Equal(t, []int{2030}, svc.Catalog(context.Background()).Years)
}

func TestGridReconcilesStudentPayments(t *testing.T) {
	payments := &paymentsStub{records: map[string][]paygrid.Record{
		"A-1": {{PaymentType: paygrid.MonthlyType, Month: 3, Year: 2026}, {PaymentType: "inscripcion"}},
	}}
	svc := newGridService(payments, &studentListStub{}, nil)

	resp, err := svc.Grid(context.Background(), "A-1")
	require.NoError(t, err)
	assert.Equal(t, "A-1", resp.StudentID)
	assert.Equal(t, paygrid.StatusReady, resp.Status)
	assert.True(t, resp.Grid.Specials[0].Paid)
	assert.True(t, resp.Grid.Years[0].Cells[2].Paid)
	assert.NotNil(t, resp.RefreshedAt)
}

func TestGridFailureReturnsErrorState(t *testing.T) {
	payments := &paymentsStub{paymentsErr: appErrors.Clone(appErrors.ErrNetworkFailure, "upstream request timed out")}
	svc := newGridService(payments, &studentListStub{}, nil)

	resp, err := svc.Grid(context.Background(), "A-1")
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, paygrid.StatusError, resp.Status)
	assert.Equal(t, "upstream request timed out", resp.Error)
	assert.True(t, errors.Is(err, appErrors.ErrNetworkFailure))
}

func TestToggleRecordsMetrics(t *testing.T) {
	payments := &paymentsStub{}
	metrics := NewMetricsService()
	svc := newGridService(payments, &studentListStub{}, metrics)

	cell, err := svc.Toggle(context.Background(), "A-1", paygrid.MonthlyKey(2, 2027))
	require.NoError(t, err)
	assert.True(t, cell.Paid)
	assert.Equal(t, "mensualidad:2:2027", cell.ID)

	payments.toggleErr = appErrors.Rejection(500, "")
	_, err = svc.Toggle(context.Background(), "A-1", paygrid.MonthlyKey(2, 2027))
	require.Error(t, err)

	snap := metrics.Snapshot()
	assert.Equal(t, uint64(2), snap.GridToggles)
	assert.Equal(t, uint64(1), snap.GridToggleFailures)
	assert.Equal(t, 1, snap.ActiveGridSessions)
}

func TestToggleOutsideGridIsValidationError(t *testing.T) {
	payments := &paymentsStub{}
	svc := newGridService(payments, &studentListStub{}, nil)

	_, err := svc.Toggle(context.Background(), "A-1", paygrid.MonthlyKey(1, 2019))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, payments.toggles)
}

func TestEvictAndIdleSessions(t *testing.T) {
	metrics := NewMetricsService()
	svc := newGridService(&paymentsStub{}, &studentListStub{}, metrics)
	_, err := svc.Grid(context.Background(), "A-1")
	require.NoError(t, err)
	_, err = svc.Grid(context.Background(), "A-2")
	require.NoError(t, err)
	assert.Equal(t, 2, metrics.Snapshot().ActiveGridSessions)

	svc.Evict("A-1")
	assert.Equal(t, 1, metrics.Snapshot().ActiveGridSessions)

	assert.Equal(t, 0, svc.EvictIdle(time.Now()))
	assert.Equal(t, 1, svc.EvictIdle(time.Now().Add(2*time.Minute)))
	assert.Equal(t, 0, metrics.Snapshot().ActiveGridSessions)
}

func TestLedgerReconcilesEveryStudentInOrder(t *testing.T) {
	payments := &paymentsStub{records: map[string][]paygrid.Record{
		"A-1": {{PaymentType: paygrid.MonthlyType, Month: 1, Year: 2026}},
		"A-2": {{PaymentType: "gastos_varios"}},
	}}
	students := &studentListStub{students: []models.Student{{Carnet: "A-1"}, {Carnet: "A-2"}, {Carnet: "A-3"}}}
	svc := newGridService(payments, students, nil)

	entries, catalog, err := svc.Ledger(context.Background(), models.PlanDaily)
	require.NoError(t, err)
	assert.Equal(t, []models.Plan{models.PlanDaily}, students.plans)
	assert.Equal(t, []int{2026, 2027}, catalog.Years)
	require.Len(t, entries, 3)
	assert.Equal(t, "A-1", entries[0].Student.Carnet)
	assert.Equal(t, "X-----------", entries[0].Grid.Strip(2026))
	assert.Equal(t, []paygrid.Key{paygrid.SpecialKey("gastos_varios")}, entries[1].Grid.PaidKeys())
	assert.Empty(t, entries[2].Grid.PaidKeys())
}

func TestLedgerFailsOnPaymentError(t *testing.T) {
	payments := &paymentsStub{paymentsErr: errors.New("boom")}
	students := &studentListStub{students: []models.Student{{Carnet: "A-1"}}}
	svc := newGridService(payments, students, nil)

	_, _, err := svc.Ledger(context.Background(), models.PlanAll)
	assert.Error(t, err)
}
