package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers groups the endpoint handlers mounted by NewRouter
type Handlers struct {
	Technical *TechnicalHandler
	Report    *ReportHandler
	Stream    *StreamHandler
	Health    *HealthHandler
}

// NewRouter mounts every route and wraps it in the middleware chain
func NewRouter(h Handlers, auth *AuthManager, rateLimitRPS int) http.Handler {
	router := mux.NewRouter()
	router.Use(mux.MiddlewareFunc(LoggingMiddleware()))

	v1 := router.PathPrefix("/api/v1").Subrouter()

	// Technical dashboard
	v1.HandleFunc("/technical/fetch", h.Technical.Fetch).Methods(http.MethodPost)
	v1.HandleFunc("/technical/analyze", h.Technical.Analyze).Methods(http.MethodPost)
	v1.HandleFunc("/technical/indicators", h.Technical.ListIndicators).Methods(http.MethodGet)
	v1.HandleFunc("/sessions/{id}", h.Technical.CloseSession).Methods(http.MethodDelete)

	// Fundamental report
	v1.HandleFunc("/reports", h.Report.Create).Methods(http.MethodPost)

	router.HandleFunc("/ws/analyze", h.Stream.Analyze).Methods(http.MethodGet)

	router.HandleFunc("/health", h.Health.Health).Methods(http.MethodGet)
	router.HandleFunc("/ready", h.Health.Ready).Methods(http.MethodGet)
	router.HandleFunc("/live", h.Health.Live).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler())

	chain := ChainMiddleware(
		CORSMiddleware(),
		TraceMiddleware(),
		ErrorHandlingMiddleware(),
		AuthMiddleware(auth),
		RateLimitMiddleware(rateLimitRPS),
	)
	return chain(router)
}
