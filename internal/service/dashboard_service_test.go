package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-admin-gateway/internal/models"
)

type statsStub struct {
	stats *models.Stats
	err   error
	calls int
}

func (s *statsStub) Get(context.Context) (*models.Stats, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.stats, nil
}

func intPtr(v int) *int { return &v }

func TestDashboardStatsFeedsClock(t *testing.T) {
	stub := &statsStub{stats: &models.Stats{Students: 12, Alerts: 2, PendingPayments: 7, ServerYear: intPtr(2031), ServerMonth: intPtr(4)}}
	clock := NewServerClock(stub, nil)
	svc := NewDashboardService(stub, clock, nil)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, stats.PendingPayments)

	year, month := clock.Current(context.Background())
	assert.Equal(t, 2031, year)
	assert.Equal(t, 4, month)
	assert.Equal(t, 1, stub.calls)
}

func TestDashboardStatsPropagatesError(t *testing.T) {
	stub := &statsStub{err: errors.New("down")}
	svc := NewDashboardService(stub, NewServerClock(stub, nil), nil)
	_, err := svc.Stats(context.Background())
	assert.Error(t, err)
}

func TestServerClockFallsBackToLocalTime(t *testing.T) {
	stub := &statsStub{stats: &models.Stats{Students: 1}}
	clock := NewServerClock(stub, nil)
	clock.now = func() time.Time { return time.Date(2027, 9, 2, 0, 0, 0, 0, time.UTC) }

	year, month := clock.Current(context.Background())
	assert.Equal(t, 2027, year)
	assert.Equal(t, 9, month)
}

func TestServerClockRefreshesWhenStale(t *testing.T) {
	stub := &statsStub{stats: &models.Stats{ServerYear: intPtr(2026), ServerMonth: intPtr(12)}}
	clock := NewServerClock(stub, nil)
	now := time.Date(2026, 12, 31, 22, 0, 0, 0, time.UTC)
	clock.now = func() time.Time { return now }

	year, _ := clock.Current(context.Background())
	assert.Equal(t, 2026, year)
	assert.Equal(t, 1, stub.calls)

	clock.Current(context.Background())
	assert.Equal(t, 1, stub.calls)

	now = now.Add(2 * time.Hour)
	stub.stats = &models.Stats{ServerYear: intPtr(2027), ServerMonth: intPtr(1)}
	year, month := clock.Current(context.Background())
	assert.Equal(t, 2027, year)
	assert.Equal(t, 1, month)
	assert.Equal(t, 2, stub.calls)
}
