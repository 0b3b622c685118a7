package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RecordsQueries(t *testing.T) {
	m := NewMetrics()

	m.ObserveQuery("goals", "ok", 40*time.Millisecond)
	m.ObserveQuery("goals", "ok", 10*time.Millisecond)
	m.ObserveQuery("save_percentage", "no_data", time.Millisecond)
	m.ObserveFetch(1200)
	m.IncTimeout()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.queries.WithLabelValues("goals", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.queries.WithLabelValues("save_percentage", "no_data")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.timeouts))
	assert.Equal(t, 2, testutil.CollectAndCount(m.queryDuration))
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	m.IncTimeout()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "hockey_analytics_fetch_timeouts_total 1"), body)
	assert.True(t, strings.Contains(body, "go_goroutines"))
}

func TestMetrics_ObserveBreaker(t *testing.T) {
	m := NewMetrics()

	m.ObserveBreaker("event-store", "closed", "open")
	assert.Equal(t, 2.0, testutil.ToFloat64(m.breakerState.WithLabelValues("event-store")))

	m.ObserveBreaker("event-store", "open", "half-open")
	m.ObserveBreaker("event-store", "half-open", "closed")
	assert.Equal(t, 0.0, testutil.ToFloat64(m.breakerState.WithLabelValues("event-store")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.breakerTrips.WithLabelValues("event-store", "open")))
}

func TestMetrics_ObserveCache(t *testing.T) {
	m := NewMetrics()

	m.ObserveCache("miss")
	m.ObserveCache("hit")
	m.ObserveCache("hit")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("miss")))
}
