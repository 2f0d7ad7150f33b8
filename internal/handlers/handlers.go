// Package handlers wires the HTTP surface: the tally API used by the
// counter page, catalog management, record browsing, the display board
// page and the admin area.
package handlers

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/NickGV/serujier/internal/auth"
	"github.com/NickGV/serujier/internal/metrics"
	"github.com/NickGV/serujier/internal/services"
	"github.com/NickGV/serujier/internal/websocket"
)

// NewStaticServer creates a static file server from an fs.FS
func NewStaticServer(staticFS fs.FS) http.Handler {
	return http.FileServer(http.FS(staticFS))
}

// AdminPageData holds the data passed to admin templates
type AdminPageData struct {
	Title     string
	PageTitle string
	ActiveNav string
}

// Templates holds all parsed HTML templates
type Templates struct {
	Index        *template.Template
	Display      *template.Template
	AdminLogin   *template.Template
	AdminCatalog *template.Template
}

// Handlers holds all HTTP handler dependencies
type Handlers struct {
	Attendance   services.AttendanceServicer
	Catalog      services.CatalogServicer
	Auth         *auth.Auth
	Hub          *websocket.Hub
	Log          HTTPLogger
	Metrics      *metrics.Metrics
	templates    *Templates
	staticServer http.Handler
}

// HTTPLogger is an interface for loggers that support HTTP logging control
type HTTPLogger interface {
	IsHTTPLoggingEnabled() bool
}

// New creates a new Handlers instance with all dependencies
func New(
	attendance services.AttendanceServicer,
	catalog services.CatalogServicer,
	templatesFS fs.FS,
	staticServer http.Handler,
	adminAuth *auth.Auth,
	hub *websocket.Hub,
	m *metrics.Metrics,
	log HTTPLogger,
) (*Handlers, error) {
	templates, err := loadTemplates(templatesFS)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	return &Handlers{
		Attendance:   attendance,
		Catalog:      catalog,
		Auth:         adminAuth,
		Hub:          hub,
		Log:          log,
		Metrics:      m,
		templates:    templates,
		staticServer: staticServer,
	}, nil
}

// NoopHTTPLogger is a test logger that always returns false for HTTP logging
type NoopHTTPLogger struct{}

func (NoopHTTPLogger) IsHTTPLoggingEnabled() bool { return false }

// NewForTesting creates a Handlers instance without loading templates (for testing API endpoints)
func NewForTesting(
	attendance services.AttendanceServicer,
	catalog services.CatalogServicer,
) *Handlers {
	testAuth := auth.New("test-password")
	return &Handlers{
		Attendance: attendance,
		Catalog:    catalog,
		Auth:       testAuth,
		Log:        NoopHTTPLogger{},
		Metrics:    metrics.New(),
		// templates left nil - API endpoints don't use templates
	}
}

// loadTemplates parses all templates once at startup
func loadTemplates(templatesFS fs.FS) (*Templates, error) {
	t := &Templates{}
	var err error

	if t.Index, err = template.ParseFS(templatesFS, "index.html"); err != nil {
		return nil, fmt.Errorf("index template: %w", err)
	}
	if t.Display, err = template.ParseFS(templatesFS, "display.html"); err != nil {
		return nil, fmt.Errorf("display template: %w", err)
	}
	if t.AdminLogin, err = template.ParseFS(templatesFS, "admin/login.html"); err != nil {
		return nil, fmt.Errorf("admin login template: %w", err)
	}
	if t.AdminCatalog, err = template.ParseFS(templatesFS, "admin/layout.html", "admin/catalog.html"); err != nil {
		return nil, fmt.Errorf("admin catalog template: %w", err)
	}

	return t, nil
}
