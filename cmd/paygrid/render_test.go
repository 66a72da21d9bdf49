package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/school-admin-gateway/internal/repository"
	"github.com/noah-isme/school-admin-gateway/internal/service"
	"github.com/noah-isme/school-admin-gateway/pkg/config"
	"github.com/noah-isme/school-admin-gateway/pkg/paygrid"
	"github.com/noah-isme/school-admin-gateway/pkg/upstream"
)

type fixedClock struct {
	year  int
	calls int
}

func (f *fixedClock) Current(context.Context) (int, int) {
	f.calls++
	return f.year, 1
}

var monthLabels = []string{"Ene", "Feb", "Mar", "Abr", "May", "Jun", "Jul", "Ago", "Sep", "Oct", "Nov", "Dic"}

func TestRenderSnapshotShowsStripsAndLabels(t *testing.T) {
	catalog := paygrid.Config{
		Years:        []int{2026},
		MonthLabels:  monthLabels,
		SpecialTypes: []paygrid.SpecialType{{ID: "inscripcion", Label: "Inscripción"}},
	}
	cells, err := paygrid.BuildGrid(catalog)
	require.NoError(t, err)
	grid := paygrid.Reconcile(cells, []paygrid.Record{
		{PaymentType: paygrid.MonthlyType, Month: 1, Year: 2026},
		{PaymentType: paygrid.MonthlyType, Month: 3, Year: 2026},
	})

	out := renderSnapshot(paygrid.Snapshot{StudentID: "2026-001", Status: paygrid.StatusReady, Grid: grid}, catalog.Years)

	assert.Contains(t, out, "Pagos 2026-001")
	assert.Contains(t, out, "Inscripción")
	assert.Contains(t, out, "Dic")
	assert.Contains(t, out, "2026 X-X---------")
}

func TestRenderSnapshotShowsError(t *testing.T) {
	out := renderSnapshot(paygrid.Snapshot{StudentID: "A-1", Status: paygrid.StatusError, Error: errors.New("timeout").Error()}, nil)
	assert.Contains(t, out, "timeout")
}

func TestCatalogFromConfigDefaultsYears(t *testing.T) {
	clock := &fixedClock{year: 2031}
	catalog := catalogFromConfig(context.Background(), config.GridConfig{
		MonthLabels:  monthLabels,
		SpecialTypes: []config.SpecialType{{ID: "gastos_varios", Label: "Gastos Varios"}},
	}, clock)

	assert.Equal(t, []int{2031, 2032}, catalog.Years)
	require.Len(t, catalog.SpecialTypes, 1)
	assert.Equal(t, "gastos_varios", catalog.SpecialTypes[0].ID)

	fixed := catalogFromConfig(context.Background(), config.GridConfig{Years: []int{2030}, MonthLabels: monthLabels}, clock)
	assert.Equal(t, []int{2030}, fixed.Years)
	assert.Equal(t, 1, clock.calls)
}

func TestCatalogFromConfigUsesServerYear(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stats/", r.URL.Path)
		_, _ = w.Write([]byte(`{"students":3,"server_year":2029,"server_month":2}`))
	}))
	t.Cleanup(srv.Close)
	client := upstream.New(upstream.Config{BaseURL: srv.URL, Timeout: time.Second})
	clock := service.NewServerClock(repository.NewStatsRepository(client), nil)

	catalog := catalogFromConfig(context.Background(), config.GridConfig{MonthLabels: monthLabels}, clock)
	assert.Equal(t, []int{2029, 2030}, catalog.Years)
}
