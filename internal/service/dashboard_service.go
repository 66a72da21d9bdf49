package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/school-admin-gateway/internal/models"
)

type statsFetcher interface {
	Get(ctx context.Context) (*models.Stats, error)
}

// serverClockTTL bounds how long an observed server date is trusted before
// the clock asks the school API again.
const serverClockTTL = time.Hour

// ServerClock tracks the school API's current year and month. The API is the
// source of truth for dates; the local clock is used only when it has not
// reported them.
type ServerClock struct {
	stats  statsFetcher
	now    func() time.Time
	logger *zap.Logger

	mu         sync.Mutex
	year       int
	month      int
	observedAt time.Time
}

// NewServerClock constructs a clock that refreshes itself through stats.
func NewServerClock(stats statsFetcher, logger *zap.Logger) *ServerClock {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ServerClock{stats: stats, now: time.Now, logger: logger}
}

// Observe records the server date carried by a stats payload, if any.
func (c *ServerClock) Observe(stats *models.Stats) {
	if c == nil || stats == nil || stats.ServerYear == nil || *stats.ServerYear <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.year = *stats.ServerYear
	c.month = 0
	if stats.ServerMonth != nil {
		c.month = *stats.ServerMonth
	}
	c.observedAt = c.now()
}

// Current returns the server's year and month, refreshing from the API when
// the last observation is stale. On failure it falls back to the local clock.
func (c *ServerClock) Current(ctx context.Context) (year, month int) {
	c.mu.Lock()
	fresh := c.year > 0 && c.now().Sub(c.observedAt) < serverClockTTL
	year, month = c.year, c.month
	c.mu.Unlock()
	if fresh {
		return year, c.monthOrLocal(month)
	}

	if c.stats != nil {
		stats, err := c.stats.Get(ctx)
		if err != nil {
			c.logger.Warn("server clock refresh failed, using local time", zap.Error(err))
		} else {
			c.Observe(stats)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.year > 0 {
		return c.year, c.monthOrLocal(c.month)
	}
	local := c.now()
	return local.Year(), int(local.Month())
}

func (c *ServerClock) monthOrLocal(month int) int {
	if month >= 1 && month <= 12 {
		return month
	}
	return int(c.now().Month())
}

// DashboardService serves the dashboard summary.
type DashboardService struct {
	stats  statsFetcher
	clock  *ServerClock
	logger *zap.Logger
}

// NewDashboardService constructs a dashboard service.
func NewDashboardService(stats statsFetcher, clock *ServerClock, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{stats: stats, clock: clock, logger: logger}
}

// Stats returns student, alert and pending payment counts.
func (s *DashboardService) Stats(ctx context.Context) (*models.Stats, error) {
	stats, err := s.stats.Get(ctx)
	if err != nil {
		s.logger.Warn("dashboard stats failed", zap.Error(err))
		return nil, err
	}
	s.clock.Observe(stats)
	return stats, nil
}
