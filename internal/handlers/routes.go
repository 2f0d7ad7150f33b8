package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// conditionalHTTPLogger only logs HTTP requests when HTTP logging is enabled
func (h *Handlers) conditionalHTTPLogger(next http.Handler) http.Handler {
	logger := middleware.Logger(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Log != nil && h.Log.IsHTTPLoggingEnabled() {
			logger.ServeHTTP(w, r)
		} else {
			next.ServeHTTP(w, r)
		}
	})
}

// Router returns a configured chi router with all routes
func (h *Handlers) Router() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.conditionalHTTPLogger) // Custom conditional HTTP logger
	r.Use(middleware.Recoverer)
	r.Use(middleware.RedirectSlashes)
	r.Use(middleware.Timeout(60 * time.Second))

	// Static files (served from embedded filesystem)
	r.Handle("/static/*", http.StripPrefix("/static/", h.staticServer))

	// Counter page
	r.Get("/", h.handleIndex)

	// Display board
	r.Get("/display", h.handleDisplayPage)
	r.Get("/display/qr", h.handleDisplayQR)

	// WebSocket
	r.Get("/ws", h.Hub.ServeWs)

	// Prometheus metrics
	r.Handle("/metrics", h.Metrics.Handler())

	// Tally API (public; the counter runs on a trusted kiosk)
	r.Get("/api/tally", h.handleGetTally)
	r.Post("/api/tally/counter", h.handleSetCounter)
	r.Post("/api/tally/counter/adjust", h.handleAdjustCounter)
	r.Post("/api/tally/attendees", h.handleAddAttendee)
	r.Delete("/api/tally/attendees/{category}/{id}", h.handleRemoveAttendee)
	r.Post("/api/tally/service-type", h.handleSetServiceType)
	r.Post("/api/tally/ushers", h.handleSetUshers)

	// Save flow
	r.Post("/api/tally/save", h.handleSave)
	r.Post("/api/tally/continue", h.handleContinueConsecutive)
	r.Post("/api/tally/decline", h.handleDeclineConsecutive)
	r.Post("/api/tally/edit/{id}", h.handleEnterEdit)

	// Archived records (read-only proxy)
	r.Get("/api/records", h.handleListRecords)
	r.Get("/api/records/{id}", h.handleGetRecord)

	// Metadata
	r.Get("/api/categories", h.handleGetCategories)
	r.Get("/api/service-types", h.handleGetServiceTypes)

	// Catalog reads (public: the counter needs them to build rosters)
	r.Get("/api/members", h.handleGetMembers)
	r.Get("/api/sympathizers", h.handleGetSympathizers)
	r.Post("/api/sympathizers", h.handleCreateSympathizer) // added on the fly while counting
	r.Get("/api/ushers", h.handleGetUshers)

	// Auth routes (public)
	r.Get("/admin/login", h.handleLoginPage)
	r.Post("/admin/login", h.handleLogin)
	r.Post("/admin/logout", h.handleLogout)

	// Admin pages (protected)
	r.Group(func(r chi.Router) {
		r.Use(h.Auth.RequireAuth)
		r.Get("/admin", h.handleAdminCatalog)
	})

	// Admin API (protected)
	r.Group(func(r chi.Router) {
		r.Use(h.Auth.RequireAuthAPI)

		// Members
		r.Post("/api/admin/members", h.handleCreateMember)
		r.Put("/api/admin/members/{id}", h.handleUpdateMember)
		r.Delete("/api/admin/members/{id}", h.handleDeleteMember)

		// Sympathizers
		r.Put("/api/admin/sympathizers/{id}", h.handleUpdateSympathizer)
		r.Delete("/api/admin/sympathizers/{id}", h.handleDeleteSympathizer)

		// Ushers
		r.Post("/api/admin/ushers", h.handleCreateUsher)
		r.Put("/api/admin/ushers/{id}/active", h.handleSetUsherActive)
		r.Delete("/api/admin/ushers/{id}", h.handleDeleteUsher)

		// Runtime logging
		r.Post("/api/admin/log-level", h.handleSetLogLevel)
		r.Post("/api/admin/http-logging", h.handleSetHTTPLogging)
	})

	return r
}
