package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Sieceres/party-panther-bash-jakarta-sub001/internal/analytics"
	"github.com/Sieceres/party-panther-bash-jakarta-sub001/internal/auth"
	"github.com/Sieceres/party-panther-bash-jakarta-sub001/internal/config"
	"github.com/Sieceres/party-panther-bash-jakarta-sub001/internal/database"
	"github.com/Sieceres/party-panther-bash-jakarta-sub001/internal/dupcheck"
	"github.com/Sieceres/party-panther-bash-jakarta-sub001/internal/embed"
	"github.com/Sieceres/party-panther-bash-jakarta-sub001/internal/metrics"
	"github.com/Sieceres/party-panther-bash-jakarta-sub001/internal/models"
)

// Deps collects everything the routes need.
type Deps struct {
	DB        *sql.DB
	Events    models.EventRepository
	Promos    models.PromotionRepository
	Reviews   models.ReviewRepository
	Users     models.UserRepository
	Dupcheck  *dupcheck.Service
	Analytics *analytics.Service
	Embed     *embed.Fetcher
	Metrics   *metrics.Collector
	AuthCfg   config.AuthConfig
	Logger    *slog.Logger
}

func corsPreflight(w http.ResponseWriter, methods string) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", methods)
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.WriteHeader(http.StatusOK)
}

// SetupRoutes configures all API routes on the mux.
func SetupRoutes(mux *http.ServeMux, deps Deps) {
	logger := deps.Logger

	eventHandler := NewEventHandler(deps.Events, deps.Users, deps.Analytics, logger)
	promoHandler := NewPromotionHandler(deps.Promos, deps.Users, deps.Analytics, logger)
	reviewHandler := NewReviewHandler(deps.Reviews, deps.Users, deps.Analytics, logger)
	authHandler := NewAuthHandler(deps.Users, deps.AuthCfg, logger)
	adminHandler := NewAdminHandler(deps.Users, logger)
	dupcheckHandler := NewDupcheckHandler(deps.Dupcheck, logger)
	analyticsHandler := NewAnalyticsHandler(deps.Analytics, logger)
	embedHandler := NewEmbedHandler(deps.Embed, logger)

	authMiddleware := auth.Middleware(deps.AuthCfg)
	requireAuth := func(h http.HandlerFunc) http.Handler {
		return authMiddleware(h)
	}
	requireRole := func(minimum models.Role, h http.HandlerFunc) http.Handler {
		return authMiddleware(auth.RequireRole(minimum, h))
	}

	// Duplicate check. Public: it runs while a visitor is still filling the
	// submission form, before any account exists.
	mux.HandleFunc("/api/check-duplicates", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			corsPreflight(w, "POST, OPTIONS")
			return
		}
		dupcheckHandler.CheckDuplicates(w, r)
	})

	// Authentication routes.
	mux.HandleFunc("/api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			corsPreflight(w, "POST, OPTIONS")
			return
		}
		authHandler.Register(w, r)
	})
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			corsPreflight(w, "POST, OPTIONS")
			return
		}
		authHandler.Login(w, r)
	})
	mux.HandleFunc("/api/auth/validate", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			corsPreflight(w, "GET, OPTIONS")
			return
		}
		requireAuth(authHandler.Validate).ServeHTTP(w, r)
	})

	// Event routes (public reads, authenticated writes).
	mux.HandleFunc("/api/events", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodOptions:
			corsPreflight(w, "GET, POST, OPTIONS")
		case http.MethodGet:
			eventHandler.List(w, r)
		case http.MethodPost:
			requireAuth(eventHandler.Create).ServeHTTP(w, r)
		default:
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})
	mux.HandleFunc("/api/events/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/events/" {
			http.NotFound(w, r)
			return
		}
		if r.Method == http.MethodOptions {
			corsPreflight(w, "GET, PUT, DELETE, OPTIONS")
			return
		}
		if r.Method == http.MethodPut && strings.HasSuffix(r.URL.Path, "/status") {
			requireRole(models.RoleModerator, eventHandler.SetStatus).ServeHTTP(w, r)
			return
		}
		switch r.Method {
		case http.MethodGet:
			eventHandler.Get(w, r)
		case http.MethodPut:
			requireAuth(eventHandler.Update).ServeHTTP(w, r)
		case http.MethodDelete:
			requireAuth(eventHandler.Delete).ServeHTTP(w, r)
		default:
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Promotion routes (public reads, authenticated writes).
	mux.HandleFunc("/api/promotions", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodOptions:
			corsPreflight(w, "GET, POST, OPTIONS")
		case http.MethodGet:
			promoHandler.List(w, r)
		case http.MethodPost:
			requireAuth(promoHandler.Create).ServeHTTP(w, r)
		default:
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})
	mux.HandleFunc("/api/promotions/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/promotions/" {
			http.NotFound(w, r)
			return
		}
		if r.Method == http.MethodOptions {
			corsPreflight(w, "GET, PUT, DELETE, OPTIONS")
			return
		}
		if r.Method == http.MethodPut && strings.HasSuffix(r.URL.Path, "/status") {
			requireRole(models.RoleModerator, promoHandler.SetStatus).ServeHTTP(w, r)
			return
		}
		switch r.Method {
		case http.MethodGet:
			promoHandler.Get(w, r)
		case http.MethodPut:
			requireAuth(promoHandler.Update).ServeHTTP(w, r)
		case http.MethodDelete:
			requireAuth(promoHandler.Delete).ServeHTTP(w, r)
		default:
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})

	// Review routes.
	mux.HandleFunc("/api/reviews", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodOptions:
			corsPreflight(w, "GET, POST, OPTIONS")
		case http.MethodGet:
			reviewHandler.List(w, r)
		case http.MethodPost:
			requireAuth(reviewHandler.Create).ServeHTTP(w, r)
		default:
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		}
	})
	mux.HandleFunc("/api/reviews/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			corsPreflight(w, "DELETE, OPTIONS")
			return
		}
		if r.Method == http.MethodDelete {
			requireRole(models.RoleModerator, reviewHandler.Delete).ServeHTTP(w, r)
			return
		}
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	// Admin routes.
	mux.HandleFunc("/api/admin/users", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			corsPreflight(w, "GET, OPTIONS")
			return
		}
		if r.Method == http.MethodGet {
			requireRole(models.RoleAdmin, adminHandler.ListUsers).ServeHTTP(w, r)
			return
		}
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
	mux.HandleFunc("/api/admin/users/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			corsPreflight(w, "PUT, OPTIONS")
			return
		}
		if r.Method == http.MethodPut && strings.HasSuffix(r.URL.Path, "/role") {
			requireRole(models.RoleAdmin, adminHandler.UpdateRole).ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
	})

	// Analytics and embeds (public).
	mux.HandleFunc("/api/analytics/summary", analyticsHandler.Summary)
	mux.HandleFunc("/api/embed", embedHandler.Preview)

	// Operational endpoints.
	mux.HandleFunc("/healthz", healthHandler(deps.DB, logger))
	mux.Handle("/metrics", deps.Metrics.Handler())

	// CORS preflight fallthrough for anything unrouted under /api/.
	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			corsPreflight(w, "GET, POST, PUT, DELETE, OPTIONS")
			return
		}
		http.NotFound(w, r)
	})
}

func healthHandler(db *sql.DB, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := "ok"
		code := http.StatusOK
		if err := database.HealthCheck(r.Context(), db); err != nil {
			logger.Warn("health check failed", "error", err)
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		writeJSON(w, code, map[string]interface{}{
			"status": status,
			"time":   time.Now().UTC(),
		})
	}
}
