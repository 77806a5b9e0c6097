package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollectors(reg, "test")

	c.ObserveSimulation("32_team", 120*time.Millisecond)
	c.ObserveSimulation("32_team", 80*time.Millisecond)
	c.Hit("memo")
	c.Miss("redis")
	c.Error("decode")
	c.Trials.Add(3)
	c.PresetLoaded("file")

	assert.Equal(t, 2.0, testutil.ToFloat64(c.Simulations.WithLabelValues("32_team")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.CacheHits.WithLabelValues("memo")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.CacheMisses.WithLabelValues("redis")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Errors.WithLabelValues("decode")))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.Trials))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.PresetLoads.WithLabelValues("file")))
}

func TestHandler_Healthz(t *testing.T) {
	ok := Check{Name: "postgres", Ping: func(context.Context) error { return nil }}
	down := Check{Name: "redis", Ping: func(context.Context) error { return errors.New("connection refused") }}

	rec := httptest.NewRecorder()
	Handler(prometheus.NewRegistry(), ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec = httptest.NewRecorder()
	Handler(prometheus.NewRegistry(), ok, down).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "redis not healthy: connection refused")
}

func TestHandler_MetricsUsesGatherer(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollectors(reg, "wc")
	c.Hit("memo")

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `wc_oracle_cache_hits_total{layer="memo"} 1`)
}
