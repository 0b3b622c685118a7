package httpapi

import (
	"net/http"

	"github.com/riskibarqy/hockey-analytics/internal/platform/id"
	"github.com/riskibarqy/hockey-analytics/internal/platform/logging"
)

// NewRouter wires the analytics routes behind the shared middleware chain.
// metrics may be nil when the Prometheus endpoint is disabled.
func NewRouter(
	handler *Handler,
	metrics http.Handler,
	ids id.Generator,
	logger *logging.Logger,
	corsAllowedOrigins []string,
) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if ids == nil {
		ids = id.NewRandomGenerator()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler, metrics)
	registerStatsRoutes(mux, handler)
	registerLookupRoutes(mux, handler)

	return RequestTracing(RequestID(ids, logger, RequestLogging(logger, CORS(corsAllowedOrigins, recoverPanic(logger, mux)))))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(r.Context(), "panic recovered", "panic", rec)
				writeInternalError(r.Context(), w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
