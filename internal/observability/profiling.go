package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/pprof"
	"strconv"
	"time"

	"github.com/grafana/pyroscope-go"
	"github.com/riskibarqy/hockey-analytics/internal/config"
	"github.com/riskibarqy/hockey-analytics/internal/platform/logging"
)

// Profiling owns the optional continuous profiler and the pprof debug
// listener. A nil *Profiling stops cleanly.
type Profiling struct {
	profiler *pyroscope.Profiler
	pprof    *http.Server
	logger   *logging.Logger
}

// Block profiles are not collected.
var profileTypes = []pyroscope.ProfileType{
	pyroscope.ProfileCPU,
	pyroscope.ProfileAllocObjects,
	pyroscope.ProfileAllocSpace,
	pyroscope.ProfileInuseSpace,
	pyroscope.ProfileGoroutines,
	pyroscope.ProfileMutexCount,
	pyroscope.ProfileMutexDuration,
}

// StartProfiling starts whichever of Pyroscope and pprof the config enables.
func StartProfiling(cfg config.Config, logger *logging.Logger) (*Profiling, error) {
	if logger == nil {
		logger = logging.Default()
	}
	p := &Profiling{logger: logger}

	if cfg.PyroscopeEnabled {
		profiler, err := pyroscope.Start(pyroscope.Config{
			ApplicationName:   cfg.PyroscopeAppName,
			ServerAddress:     cfg.PyroscopeServerAddress,
			AuthToken:         cfg.PyroscopeAuthToken,
			BasicAuthUser:     cfg.PyroscopeBasicAuthUser,
			BasicAuthPassword: cfg.PyroscopeBasicAuthPassword,
			UploadRate:        cfg.PyroscopeUploadRate,
			Tags:              profileTags(cfg),
			ProfileTypes:      profileTypes,
		})
		if err != nil {
			return nil, err
		}
		p.profiler = profiler
		logger.Info("pyroscope enabled", "server_address", cfg.PyroscopeServerAddress, "application", cfg.PyroscopeAppName)
	}

	if cfg.PprofEnabled {
		p.pprof = &http.Server{
			Addr:              cfg.PprofAddr,
			Handler:           pprofMux(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func(srv *http.Server) {
			logger.Info("pprof server starting", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("pprof server failed", "error", err)
			}
		}(p.pprof)
	}

	logger.Info("profiling configured", "pyroscope", p.profiler != nil, "pprof", p.pprof != nil)
	return p, nil
}

// Stop flushes the profiler and shuts the pprof listener down, returning
// the first error.
func (p *Profiling) Stop(ctx context.Context) error {
	if p == nil {
		return nil
	}

	var errs []error
	if p.pprof != nil {
		if err := p.pprof.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		} else {
			p.logger.Info("pprof server stopped")
		}
	}
	if p.profiler != nil {
		if err := p.profiler.Stop(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func profileTags(cfg config.Config) map[string]string {
	backend := "memory"
	if cfg.DBURL != "" {
		backend = "postgres"
	}
	return map[string]string{
		"env":           cfg.AppEnv,
		"service":       cfg.ServiceName,
		"version":       cfg.ServiceVersion,
		"event_store":   backend,
		"rank_workers":  strconv.Itoa(cfg.AnalyticsRankWorkers),
		"cache_enabled": strconv.FormatBool(cfg.CacheEnabled),
	}
}

func pprofMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	return mux
}
