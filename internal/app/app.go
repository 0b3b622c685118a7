package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/hockey-analytics/internal/config"
	"github.com/riskibarqy/hockey-analytics/internal/domain/assist"
	"github.com/riskibarqy/hockey-analytics/internal/domain/gamelog"
	"github.com/riskibarqy/hockey-analytics/internal/domain/shot"
	repocache "github.com/riskibarqy/hockey-analytics/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/hockey-analytics/internal/infrastructure/repository/guard"
	"github.com/riskibarqy/hockey-analytics/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/hockey-analytics/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/hockey-analytics/internal/interfaces/httpapi"
	"github.com/riskibarqy/hockey-analytics/internal/observability"
	"github.com/riskibarqy/hockey-analytics/internal/platform/cache"
	idgen "github.com/riskibarqy/hockey-analytics/internal/platform/id"
	"github.com/riskibarqy/hockey-analytics/internal/platform/logging"
	"github.com/riskibarqy/hockey-analytics/internal/platform/resilience"
	"github.com/riskibarqy/hockey-analytics/internal/usecase"
)

// Services is the analytics engine wired to its event store.
type Services struct {
	Stats    *usecase.StatsService
	Careers  *usecase.CareerService
	Cards    *usecase.PlayerCardService
	GameLogs *usecase.GameLogService
	// Metrics is nil when METRICS_ENABLED is off.
	Metrics *observability.Metrics

	db *sqlx.DB
}

func (s *Services) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

type stores struct {
	shots   shot.Repository
	logs    gamelog.Repository
	credits assist.Repository
}

// NewServices opens the configured event store and builds the use cases on
// top of it. Without DB_URL the seeded in-memory league is served.
func NewServices(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Services, error) {
	if logger == nil {
		logger = logging.Default()
	}

	st, db, err := openStores(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	svc := &Services{db: db}
	var recorder usecase.QueryRecorder
	var hooks storeHooks
	if cfg.MetricsEnabled {
		svc.Metrics = observability.NewMetrics()
		recorder = svc.Metrics
		hooks = storeHooks{breaker: svc.Metrics.ObserveBreaker, cache: svc.Metrics.ObserveCache}
	}
	st = decorateStores(st, db != nil, cfg, logger, hooks)

	windows := usecase.NewWindowSelector(st.shots, todayFunc(cfg.AnalyticsToday))
	if cfg.AnalyticsCurrentSeason > 0 {
		windows = windows.WithCurrentSeason(cfg.AnalyticsCurrentSeason)
	}

	svc.Stats = usecase.NewStatsService(st.shots, st.logs, st.credits, windows, usecase.StatsConfig{
		FetchTimeout: cfg.AnalyticsFetchTimeout,
		RankWorkers:  cfg.AnalyticsRankWorkers,
	}, recorder, logger)
	svc.Careers = usecase.NewCareerService(st.shots, st.logs, svc.Stats, usecase.CareerConfig{
		MinIcetimeSeconds: cfg.AnalyticsCareerMinIcetime,
		Workers:           cfg.AnalyticsRankWorkers,
		FetchTimeout:      cfg.AnalyticsFetchTimeout,
	}, logger)
	svc.Cards = usecase.NewPlayerCardService(svc.Stats, usecase.CardConfig{
		MinIcetimeSeconds:             cfg.AnalyticsCardMinIcetime,
		SpecialTeamsMinIcetimeSeconds: cfg.AnalyticsCardSpecialTeamsMinIcetime,
	}, logger)
	svc.GameLogs = usecase.NewGameLogService(st.logs)

	return svc, nil
}

// NewHTTPServer builds the API server. The returned Services must be closed
// after the server shuts down.
func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, *Services, error) {
	if strings.TrimSpace(cfg.HTTPAddr) == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	svc, err := NewServices(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	var metricsHandler http.Handler
	if svc.Metrics != nil {
		metricsHandler = svc.Metrics.Handler()
	}

	handler := httpapi.NewHandler(svc.Stats, svc.Careers, svc.Cards, svc.GameLogs, logger)
	router := httpapi.NewRouter(handler, metricsHandler, idgen.NewRandomGenerator(), logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}
	return server, svc, nil
}

func openStores(ctx context.Context, cfg config.Config, logger *logging.Logger) (stores, *sqlx.DB, error) {
	if strings.TrimSpace(cfg.DBURL) == "" {
		data := memory.Seed()
		logger.InfoContext(ctx, "event store ready",
			"backend", "memory",
			"events", len(data.Events),
			"game_logs", len(data.Logs),
		)
		return stores{
			shots:   memory.NewShotRepository(data.Events),
			logs:    memory.NewGameLogRepository(data.Logs),
			credits: memory.NewAssistRepository(data.Credits),
		}, nil, nil
	}

	db, err := openDB(ctx, cfg)
	if err != nil {
		return stores{}, nil, err
	}
	if cfg.DBSeedOnBoot {
		if err := postgres.BootstrapSeed(ctx, db); err != nil {
			_ = db.Close()
			return stores{}, nil, fmt.Errorf("seed event store: %w", err)
		}
	}

	logger.InfoContext(ctx, "event store ready",
		"backend", "postgres",
		"db_name", dbNameFromURL(cfg.DBURL),
		"seeded", cfg.DBSeedOnBoot,
	)
	return stores{
		shots:   postgres.NewShotRepository(db),
		logs:    postgres.NewGameLogRepository(db),
		credits: postgres.NewAssistRepository(db),
	}, db, nil
}

// storeHooks observe the decorators added by decorateStores. Nil hooks are
// skipped.
type storeHooks struct {
	breaker resilience.StateChangeFunc
	cache   cache.Observer
}

// decorateStores puts the circuit breaker around a remote store and the read
// cache in front of everything.
func decorateStores(st stores, remote bool, cfg config.Config, logger *logging.Logger, hooks storeHooks) stores {
	if remote {
		breaker := guard.NewBreaker(cfg.EventStoreCircuit, logger, hooks.breaker)
		st = stores{
			shots:   guard.NewShotRepository(st.shots, breaker),
			logs:    guard.NewGameLogRepository(st.logs, breaker),
			credits: guard.NewAssistRepository(st.credits, breaker),
		}
	}
	if cfg.CacheEnabled {
		var opts []cache.Option
		if hooks.cache != nil {
			opts = append(opts, cache.WithObserver(hooks.cache))
		}
		store := cache.NewStore(cfg.CacheTTL, cfg.CacheMaxEntries, opts...)
		st = stores{
			shots:   repocache.NewShotRepository(st.shots, store),
			logs:    repocache.NewGameLogRepository(st.logs, store),
			credits: repocache.NewAssistRepository(st.credits, store),
		}
	}
	return st
}

func todayFunc(pinned time.Time) func() time.Time {
	if pinned.IsZero() {
		return time.Now
	}
	return func() time.Time { return pinned }
}
