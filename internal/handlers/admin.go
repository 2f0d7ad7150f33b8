package handlers

import (
	"net/http"

	"github.com/NickGV/serujier/internal/auth"
	"github.com/NickGV/serujier/internal/logger"
)

// ==================== Public Pages ====================

func (h *Handlers) handleIndex(w http.ResponseWriter, r *http.Request) {
	h.templates.Index.Execute(w, nil)
}

// ==================== Admin Pages ====================

func (h *Handlers) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	h.templates.AdminLogin.Execute(w, nil)
}

func (h *Handlers) handleAdminCatalog(w http.ResponseWriter, r *http.Request) {
	data := AdminPageData{
		Title:     "Administrar Directorio",
		PageTitle: "Administrar Directorio",
		ActiveNav: "catalog",
	}
	h.templates.AdminCatalog.ExecuteTemplate(w, "admin", data)
}

// ==================== Auth ====================

func (h *Handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	token, ok := h.Auth.Login(req.Password)
	if !ok {
		respondError(w, Unauthorized("Invalid password"))
		return
	}

	auth.SetSessionCookie(w, token)
	respondOK(w, LoginResponse{Message: "Logged in"})
}

func (h *Handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.CookieName); err == nil {
		h.Auth.Logout(cookie.Value)
	}
	auth.ClearSessionCookie(w)
	respondSuccess(w, "Logged out")
}

// ==================== Runtime Logging ====================

func (h *Handlers) handleSetLogLevel(w http.ResponseWriter, r *http.Request) {
	var req LogLevelRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	l, ok := h.Log.(logger.Logger)
	if !ok {
		respondError(w, BadRequest("Logger does not support level changes"))
		return
	}
	l.SetLevel(logger.ParseLevel(req.Level))
	respondSuccess(w, "Log level set to "+req.Level)
}

func (h *Handlers) handleSetHTTPLogging(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Enabled bool `json:"enabled"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	l, ok := h.Log.(logger.Logger)
	if !ok {
		respondError(w, BadRequest("Logger does not support HTTP logging control"))
		return
	}
	if req.Enabled {
		l.EnableHTTPLogging()
	} else {
		l.DisableHTTPLogging()
	}
	respondSuccess(w, "HTTP logging updated")
}
