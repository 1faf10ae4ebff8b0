package handlers

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/liftcare-id/liftcare/internal/config"
	"github.com/liftcare-id/liftcare/internal/database"
	"github.com/liftcare-id/liftcare/internal/draft"
	"github.com/liftcare-id/liftcare/internal/middleware"
	"github.com/liftcare-id/liftcare/internal/models"
	"github.com/liftcare-id/liftcare/internal/ratelimit"
)

// Router wraps the mux router with the handler dependencies
type Router struct {
	*mux.Router
	db      *database.DB
	cfg     *config.Config
	limiter ratelimit.Limiter
	drafts  draft.Store
	started time.Time
}

// NewRouter creates the HTTP router with all API routes
func NewRouter(db *database.DB, cfg *config.Config, limiter ratelimit.Limiter, drafts draft.Store) *Router {
	r := &Router{
		Router:  mux.NewRouter(),
		db:      db,
		cfg:     cfg,
		limiter: limiter,
		drafts:  drafts,
		started: time.Now(),
	}

	// Public routes
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", r.healthCheck).Methods("GET")
	api.HandleFunc("/auth/login", r.login).Methods("POST")
	api.HandleFunc("/qr/validate/{token}", r.validateQRToken).Methods("GET", "POST")

	// Authenticated routes
	protected := r.PathPrefix("/api").Subrouter()
	protected.Use(middleware.Authenticate(cfg.JWTSecret))

	admin := middleware.RequireRole(models.RoleSuperadmin, models.RoleAdmin)
	superadmin := middleware.RequireRole(models.RoleSuperadmin)

	protected.HandleFunc("/auth/profile", r.profile).Methods("GET")

	protected.Handle("/users", admin(http.HandlerFunc(r.listUsers))).Methods("GET")
	protected.Handle("/users", superadmin(http.HandlerFunc(r.createUser))).Methods("POST")
	protected.Handle("/users/{id}", admin(http.HandlerFunc(r.getUser))).Methods("GET")
	protected.Handle("/users/{id}", superadmin(http.HandlerFunc(r.updateUser))).Methods("PUT")
	protected.Handle("/users/{id}", superadmin(http.HandlerFunc(r.deleteUser))).Methods("DELETE")

	protected.HandleFunc("/lifts", r.listLifts).Methods("GET")
	protected.Handle("/lifts", admin(http.HandlerFunc(r.createLift))).Methods("POST")
	protected.HandleFunc("/lifts/{id}", r.getLift).Methods("GET")
	protected.Handle("/lifts/{id}", admin(http.HandlerFunc(r.updateLift))).Methods("PUT")
	protected.Handle("/lifts/{id}", admin(http.HandlerFunc(r.deleteLift))).Methods("DELETE")

	protected.HandleFunc("/schedules", r.listSchedules).Methods("GET")
	protected.Handle("/schedules", admin(http.HandlerFunc(r.createSchedule))).Methods("POST")
	protected.HandleFunc("/schedules/{id}", r.getSchedule).Methods("GET")
	protected.HandleFunc("/schedules/{id}/form", r.openScheduleForm).Methods("GET")
	protected.HandleFunc("/schedules/{id}", r.updateSchedule).Methods("PUT")
	protected.Handle("/schedules/{id}", admin(http.HandlerFunc(r.deleteSchedule))).Methods("DELETE")

	protected.HandleFunc("/reports/stats", r.reportStats).Methods("GET")
	protected.HandleFunc("/reports", r.listReports).Methods("GET")
	protected.HandleFunc("/reports", r.createReport).Methods("POST")
	protected.HandleFunc("/reports/{id}", r.getReport).Methods("GET")
	protected.HandleFunc("/reports/{id}/pdf", r.renderReportPDF).Methods("POST")

	protected.HandleFunc("/checklists/{type}", r.getChecklistTemplate).Methods("GET")

	protected.Handle("/qr/generate", admin(http.HandlerFunc(r.generateQRToken))).Methods("POST")
	protected.Handle("/qr/image/{token}", admin(http.HandlerFunc(r.qrTokenImage))).Methods("GET")
	protected.Handle("/qr/decal/{liftID}", admin(http.HandlerFunc(r.qrDecal))).Methods("GET")

	protected.HandleFunc("/drafts/{formKey}", r.getDraft).Methods("GET")
	protected.HandleFunc("/drafts/{formKey}", r.putDraft).Methods("PUT")
	protected.HandleFunc("/drafts/{formKey}", r.deleteDraft).Methods("DELETE")

	// API 404 handler
	r.PathPrefix("/api/").HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, http.StatusNotFound, "API endpoint tidak ditemukan")
	})

	return r
}

// healthCheck returns the liveness status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": r.cfg.AppEnv,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"uptime":      time.Since(r.started).Truncate(time.Second).String(),
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// clientIP extracts the caller address, honoring the first forwarded hop
// when deployed behind a proxy.
func clientIP(req *http.Request) string {
	if fwd := req.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		return req.RemoteAddr
	}
	return host
}
