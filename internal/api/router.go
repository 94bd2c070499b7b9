package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/avdeenko/carrymon/internal/api/handlers"
	"github.com/avdeenko/carrymon/pkg/logger"
)

// NewRouter creates and configures the HTTP router.
func NewRouter(
	spreads *handlers.SpreadHandler,
	futures *handlers.FutureSpreadHandler,
	meta *handlers.MetaHandler,
	log *logger.Logger,
) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	// Share/future views
	api.HandleFunc("/spreads/latest", spreads.Latest).Methods("GET")
	api.HandleFunc("/spreads/history", spreads.History).Methods("GET")
	api.HandleFunc("/spreads/top", spreads.Top).Methods("GET")

	// Future/future views
	api.HandleFunc("/futures/latest", futures.Latest).Methods("GET")
	api.HandleFunc("/futures/history", futures.History).Methods("GET")
	api.HandleFunc("/futures/top", futures.Top).Methods("GET")

	// Lookup data for filter widgets
	api.HandleFunc("/expirations", meta.Expirations).Methods("GET")
	api.HandleFunc("/futures/codes", meta.Futures).Methods("GET")

	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status.
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "carrymon-api",
	})
}

// loggingMiddleware logs HTTP requests.
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics.
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
