package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, metrics http.Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if metrics != nil {
		mux.Handle("GET /metrics", metrics)
	}
}

func registerStatsRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/stats/query", handler.QueryStat)
	mux.HandleFunc("POST /v1/stats/career", handler.AggregateCareer)
	mux.HandleFunc("POST /v1/stats/milestones", handler.ListMilestones)
	mux.HandleFunc("POST /v1/stats/record", handler.TeamRecord)
	mux.HandleFunc("POST /v1/windows/resolve", handler.ResolveWindow)
}

func registerLookupRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/players/{name}/card", handler.GetPlayerCard)
	mux.HandleFunc("GET /v1/games/logs", handler.ListGameLogs)
}
