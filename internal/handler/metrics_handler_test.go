package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/school-admin-gateway/internal/service"
)

func TestReadyReportsFailingChecks(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewMetricsHandler(service.NewMetricsService(), map[string]Pinger{
		"upstream": PingFunc(func(context.Context) error { return nil }),
		"redis":    PingFunc(func(context.Context) error { return errors.New("connection refused") }),
	})

	c, w := newGinContext(http.MethodGet, "/ready", nil)
	handler.Ready(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"upstream":"ok"`)
	assert.Contains(t, w.Body.String(), "connection refused")
}

func TestReadyWithHealthyChecks(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewMetricsHandler(nil, map[string]Pinger{
		"upstream": PingFunc(func(context.Context) error { return nil }),
	})

	c, w := newGinContext(http.MethodGet, "/ready", nil)
	handler.Ready(c)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPrometheusWithoutMetricsIsUnavailable(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewMetricsHandler(nil, nil)

	c, w := newGinContext(http.MethodGet, "/metrics", nil)
	handler.Prometheus(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.True(t, c.IsAborted())
}

func TestStatusSnapshot(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := service.NewMetricsService()
	metrics.RecordGridToggle(true)
	handler := NewMetricsHandler(metrics, nil)

	c, w := newGinContext(http.MethodGet, "/status", nil)
	handler.Status(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"grid_toggles":1`)
}
