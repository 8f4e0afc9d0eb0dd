// Package api exposes the ByteGauge entropy estimator over HTTP.
package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds the chi router for the given server and metrics.
func NewRouter(server *Server, metrics *Metrics, apiKey string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Prometheus metrics endpoint (unprotected for scraping)
	r.Handle("/metrics", promhttp.Handler())

	// API key authentication middleware for protected routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(metrics.InstrumentAuthMiddleware(apiKeyMiddleware(apiKey)))

		// Health check
		r.Get("/health", metrics.InstrumentHandler("GET", "/api/v1/health", server.handleHealth))

		// Entropy operations
		r.Post("/entropy", metrics.InstrumentHandler("POST", "/api/v1/entropy", server.handleEstimate))
		r.Post("/scan", metrics.InstrumentHandler("POST", "/api/v1/scan", server.handleScan))

		// Stored reports
		r.Get("/reports", metrics.InstrumentHandler("GET", "/api/v1/reports", server.handleListReports))
		r.Get("/reports/{id}", metrics.InstrumentHandler("GET", "/api/v1/reports/{id}", server.handleGetReport))
		r.Delete("/reports/{id}", metrics.InstrumentHandler("DELETE", "/api/v1/reports/{id}", server.handleDeleteReport))
	})

	return r
}

// StartServer starts the HTTP server with all routes configured
func StartServer(reports ReportStore, config ServerConfig) error {
	// Initialize metrics
	metrics := NewMetrics()

	server := NewServer(reports, config, metrics)
	r := NewRouter(server, metrics, config.APIKey)

	addr := fmt.Sprintf("%s:%d", config.Bind, config.Port)
	fmt.Printf("Starting ByteGauge REST API server on %s\n", addr)
	fmt.Printf("Metrics available at: http://%s/metrics\n", addr)

	return http.ListenAndServe(addr, r)
}
