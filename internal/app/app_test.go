package app

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/hockey-analytics/internal/config"
	"github.com/riskibarqy/hockey-analytics/internal/platform/logging"
	"github.com/riskibarqy/hockey-analytics/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig(t *testing.T) config.Config {
	t.Helper()

	today, err := time.Parse(time.DateOnly, "2024-06-30")
	require.NoError(t, err)
	return config.Config{
		ServiceName:           "hockey-analytics-api",
		HTTPAddr:              ":0",
		ReadTimeout:           time.Second,
		WriteTimeout:          time.Second,
		AnalyticsToday:        today,
		AnalyticsFetchTimeout: 5 * time.Second,
		AnalyticsRankWorkers:  2,
		CacheEnabled:          true,
		CacheTTL:              time.Minute,
		CacheMaxEntries:       64,
		MetricsEnabled:        true,
	}
}

func TestNewHTTPServer_ServesSeededLeague(t *testing.T) {
	server, svc, err := NewHTTPServer(t.Context(), memoryConfig(t), logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })
	require.NotNil(t, svc.Metrics)

	body := `{"entity":{"kind":"team","team":"TOR"},"window":{"kind":"season_range","season_from":2022,"season_to":2022},"stat":"goals"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/stats/query", strings.NewReader(body))
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `hockey_analytics_queries_total{stat="goals"`)
}

func TestNewHTTPServer_MetricsDisabled(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.MetricsEnabled = false

	server, svc, err := NewHTTPServer(t.Context(), cfg, logging.NewNop())
	require.NoError(t, err)
	assert.Nil(t, svc.Metrics)

	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNewHTTPServer_RequiresAddr(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.HTTPAddr = " "

	_, _, err := NewHTTPServer(t.Context(), cfg, logging.NewNop())
	require.Error(t, err)
}

func TestNewServices_PinsCurrentSeason(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.AnalyticsCurrentSeason = 2022

	svc, err := NewServices(t.Context(), cfg, logging.NewNop())
	require.NoError(t, err)

	card, err := svc.Cards.Card(t.Context(), usecase.CardQuery{Player: "Auston Matthews"})
	require.NoError(t, err)
	assert.Equal(t, 2022, card.Season)
}

func TestTodayFunc(t *testing.T) {
	pinned := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, pinned, todayFunc(pinned)())
	assert.False(t, todayFunc(time.Time{})().IsZero())
}
