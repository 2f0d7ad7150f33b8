// Package app wires the whole server together: repository, tally store,
// archive client, services, WebSocket hub and HTTP handlers.
package app

import (
	"context"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/NickGV/serujier/internal/auth"
	"github.com/NickGV/serujier/internal/config"
	"github.com/NickGV/serujier/internal/handlers"
	"github.com/NickGV/serujier/internal/logger"
	"github.com/NickGV/serujier/internal/metrics"
	"github.com/NickGV/serujier/internal/models"
	"github.com/NickGV/serujier/internal/repository"
	"github.com/NickGV/serujier/internal/services"
	"github.com/NickGV/serujier/internal/tally"
	"github.com/NickGV/serujier/internal/websocket"
	"github.com/NickGV/serujier/pkg/archive"
)

// App holds all application dependencies
type App struct {
	log      logger.Logger
	handlers *handlers.Handlers
	repo     *repository.Repository
	unsubs   []func()
}

// New creates and initializes a new application instance
func New(log logger.Logger, cfg config.Config, templatesFS, staticFS fs.FS, adminAuth *auth.Auth) (*App, error) {
	repo, err := repository.New(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	m := metrics.New()

	// Without a configured archive the server still counts; records are
	// held in memory and lost on restart.
	var archiveClient archive.Client
	if cfg.ArchiveURL != "" {
		archiveClient = archive.NewHTTPClient(cfg.ArchiveURL, cfg.ArchiveToken, log)
	} else {
		log.Warn("No archive configured, saved records will not survive a restart")
		archiveClient = archive.NewMockClient()
	}

	// Rebuild the running tally from the last checkpoint; state from a
	// previous day is discarded by Hydrate.
	store := tally.New()
	store.Hydrate(services.LoadPersistedState(context.Background(), log, repo))

	attendanceService := services.NewAttendanceService(log, store, archiveClient, m, cfg.BaseServiceTypes)
	catalogService := services.NewCatalogService(log, repo)

	// Initialize WebSocket hub with DI
	hub := websocket.New(log, attendanceService, m)
	hub.Start()

	// Side effects ride on store subscriptions: checkpointing, board
	// broadcasts and the dispatch counter.
	unsubs := []func(){
		store.Subscribe(services.NewStatePersister(log, repo)),
		store.Subscribe(hub.OnTallyCommit),
		store.Subscribe(func(models.TallyState) { m.TallyDispatches.Inc() }),
	}

	// Create static file server
	staticServer := handlers.NewStaticServer(staticFS)

	h, err := handlers.New(
		attendanceService,
		catalogService,
		templatesFS,
		staticServer,
		adminAuth,
		hub,
		m,
		log,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize handlers: %w", err)
	}

	return &App{
		log:      log,
		handlers: h,
		repo:     repo,
		unsubs:   unsubs,
	}, nil
}

// Router returns the configured HTTP router
func (a *App) Router() chi.Router {
	return a.handlers.Router()
}

// Close performs graceful shutdown of app resources
func (a *App) Close() {
	for _, unsub := range a.unsubs {
		unsub()
	}
	if a.repo != nil {
		a.repo.Close()
	}
}

// Run starts the HTTP server
func (a *App) Run(addr string) error {
	// Record the LAN-reachable base URL so printed QR codes point at an
	// address phones and TV sticks can actually open.
	ip := getPreferredIP(realNetworkProvider{})
	baseURL := fmt.Sprintf("http://%s%s", ip, addr)
	a.setDefaultBaseURL(baseURL)

	a.log.Info("Server starting", "url", baseURL)
	a.log.Info("Display board", "url", baseURL+"/display")
	a.log.Info("Admin URL", "url", baseURL+"/admin")
	return http.ListenAndServe(addr, a.Router())
}

// setDefaultBaseURL sets the base URL setting if not already configured
// or if current value uses localhost (which isn't useful for QR codes)
func (a *App) setDefaultBaseURL(baseURL string) {
	ctx := context.Background()
	existing, _ := a.repo.GetSetting(ctx, "base_url")

	needsUpdate := existing == "" || strings.Contains(existing, "localhost")
	if needsUpdate {
		if err := a.repo.SetSetting(ctx, "base_url", baseURL); err != nil {
			a.log.Warn("Failed to set default base_url", "error", err)
		} else {
			a.log.Info("Default base URL set", "url", baseURL)
		}
	}
}

// networkInterface wraps net.Interface for testing
type networkInterface interface {
	Flags() net.Flags
	Addrs() ([]net.Addr, error)
}

// realInterface wraps a real net.Interface
type realInterface struct {
	iface net.Interface
}

func (r realInterface) Flags() net.Flags {
	return r.iface.Flags
}

func (r realInterface) Addrs() ([]net.Addr, error) {
	return r.iface.Addrs()
}

// networkProvider is an interface for getting network interfaces (for testing)
type networkProvider interface {
	Interfaces() ([]networkInterface, error)
}

// realNetworkProvider implements networkProvider using actual net package
type realNetworkProvider struct{}

func (realNetworkProvider) Interfaces() ([]networkInterface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	result := make([]networkInterface, len(ifaces))
	for i, iface := range ifaces {
		result[i] = realInterface{iface: iface}
	}
	return result, nil
}

// getPreferredIP returns the best IP address for LAN access.
// Prefers private network addresses (192.168.x.x, 10.x.x.x, 172.16-31.x.x).
// Falls back to localhost if no suitable address is found.
func getPreferredIP(provider networkProvider) string {
	ifaces, err := provider.Interfaces()
	if err != nil {
		return "localhost"
	}

	var candidates []net.IP

	for _, iface := range ifaces {
		// Skip down, loopback, and point-to-point interfaces
		flags := iface.Flags()
		if flags&net.FlagUp == 0 || flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			var ip net.IP
			switch v := addr.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			}

			// Only consider IPv4 addresses
			if ip == nil || ip.To4() == nil {
				continue
			}

			// Skip loopback
			if ip.IsLoopback() {
				continue
			}

			candidates = append(candidates, ip)
		}
	}

	// Prefer private network addresses
	for _, ip := range candidates {
		ipStr := ip.String()
		if strings.HasPrefix(ipStr, "192.168.") ||
			strings.HasPrefix(ipStr, "10.") ||
			isPrivate172(ip) {
			return ipStr
		}
	}

	// Fall back to any non-loopback if no private address found
	if len(candidates) > 0 {
		return candidates[0].String()
	}

	return "localhost"
}

// isPrivate172 checks if IP is in 172.16.0.0/12 range
func isPrivate172(ip net.IP) bool {
	if ip4 := ip.To4(); ip4 != nil {
		return ip4[0] == 172 && ip4[1] >= 16 && ip4[1] <= 31
	}
	return false
}
