package repository

import (
	"context"

	"github.com/noah-isme/school-admin-gateway/internal/models"
	"github.com/noah-isme/school-admin-gateway/pkg/upstream"
)

// StatsRepository fetches the dashboard summary.
type StatsRepository struct {
	client *upstream.Client
}

// NewStatsRepository constructs a stats repository.
func NewStatsRepository(client *upstream.Client) *StatsRepository {
	return &StatsRepository{client: client}
}

// Get returns the current summary.
func (r *StatsRepository) Get(ctx context.Context) (*models.Stats, error) {
	var stats models.Stats
	if err := r.client.Get(ctx, "/stats/", "", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
