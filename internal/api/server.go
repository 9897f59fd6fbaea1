package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/yuin/goldmark"

	"github.com/nerrad567/ecobuild-core/internal/audit"
	"github.com/nerrad567/ecobuild-core/internal/auth"
	"github.com/nerrad567/ecobuild-core/internal/building"
	"github.com/nerrad567/ecobuild-core/internal/events"
	"github.com/nerrad567/ecobuild-core/internal/infrastructure/config"
	"github.com/nerrad567/ecobuild-core/internal/infrastructure/logging"
	"github.com/nerrad567/ecobuild-core/internal/results"
	"github.com/nerrad567/ecobuild-core/internal/wizard"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// maintenanceInterval is how often expired tickets, wizard sessions and
// login sessions are swept.
const maintenanceInterval = time.Minute

// Analyzer is the scoring collaborator as seen by the HTTP layer.
type Analyzer interface {
	wizard.Analyzer
	wizard.LocationAnalyzer
	Ask(ctx context.Context, question string) (string, error)
}

// HealthChecker is implemented by every component whose liveness is
// reported by GET /api/health.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config    config.APIConfig
	WS        config.WebSocketConfig
	Wizard    config.WizardConfig
	Logger    *logging.Logger
	Auth      *auth.Service
	Buildings building.Repository
	Analyzer  Analyzer

	// Events receives building events in addition to WebSocket clients.
	// Optional.
	Events events.Publisher

	// Audit stores the building history served by GET /api/activity.
	// Optional; without it the route is not registered.
	Audit audit.Repository

	// Checks are reported by the health endpoint, keyed by component name.
	Checks map[string]HealthChecker

	Version string
}

// Server is the HTTP API server for EcoBuild Core.
//
// It manages the HTTP listener, routes, middleware, wizard sessions and
// the WebSocket hub. The server is created with New() and started with Start().
type Server struct {
	cfg      config.APIConfig
	wsCfg    config.WebSocketConfig
	logger   *logging.Logger
	auth     *auth.Service
	analyzer Analyzer
	checks   map[string]HealthChecker
	version  string

	buildings *buildingService
	audit     audit.Repository
	persister *results.Persister
	wizards   *wizardStore
	tickets   *ticketStore
	hub       *Hub
	markdown  goldmark.Markdown

	server   *http.Server
	listener net.Listener
	cancel   context.CancelFunc // cancels background goroutines on Close()
	wg       sync.WaitGroup
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
//
// Parameters:
//   - deps: Required dependencies (config, logger, auth, buildings, analyzer)
//
// Returns:
//   - *Server: Configured server ready to start
//   - error: If required dependencies are missing
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Auth == nil {
		return nil, fmt.Errorf("auth service is required")
	}
	if deps.Buildings == nil {
		return nil, fmt.Errorf("building repository is required")
	}
	if deps.Analyzer == nil {
		return nil, fmt.Errorf("analyzer is required")
	}

	logger := deps.Logger.With("component", "api")
	hub := NewHub(deps.WS, logger)

	publisher := events.NewMulti(logger)
	publisher.Add("websocket", hub)
	publisher.Add("audit", audit.NewRecorder(deps.Audit, "api"))
	publisher.Add("external", deps.Events)

	buildings := newBuildingService(deps.Buildings, publisher)

	ttl := time.Duration(deps.Wizard.SessionTTL) * time.Minute
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &Server{
		cfg:       deps.Config,
		wsCfg:     deps.WS,
		logger:    logger,
		auth:      deps.Auth,
		analyzer:  deps.Analyzer,
		checks:    deps.Checks,
		version:   deps.Version,
		buildings: buildings,
		audit:     deps.Audit,
		persister: results.NewPersister(buildings, logger),
		wizards:   newWizardStore(ttl),
		tickets:   newTicketStore(),
		hub:       hub,
		markdown:  goldmark.New(),
	}, nil
}

// Start begins listening for HTTP connections.
//
// The listener is bound before Start returns, so a port already in use is
// reported here. Requests are served and background maintenance runs in
// goroutines until Close() is called.
//
// Parameters:
//   - ctx: Parent context for background goroutines
//
// Returns:
//   - error: If the listener cannot be bound
func (s *Server) Start(ctx context.Context) error {
	var srvCtx context.Context
	srvCtx, s.cancel = context.WithCancel(ctx)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		s.cancel()
		return fmt.Errorf("binding %s: %w", addr, err)
	}
	s.listener = ln

	s.wg.Add(2) //nolint:mnd // hub + maintenance
	go func() {
		defer s.wg.Done()
		s.hub.Run(srvCtx)
	}()
	go func() {
		defer s.wg.Done()
		s.maintenanceLoop(srvCtx)
	}()

	s.server = &http.Server{
		Handler:           s.buildRouter(),
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	s.logger.Info("API server starting", "address", ln.Addr().String())
	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Addr returns the bound listener address, or nil before Start.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections.
//
// Returns:
//   - error: If shutdown encounters an error
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	err := s.server.Shutdown(ctx)
	s.wg.Wait()
	if err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server is running and responsive.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - error: nil if healthy, error describing the issue otherwise
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}

	return nil
}

// maintenanceLoop sweeps expired state until the context is cancelled.
func (s *Server) maintenanceLoop(ctx context.Context) {
	ticker := time.NewTicker(maintenanceInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// sweep removes expired tickets, idle wizards and expired login sessions.
func (s *Server) sweep(ctx context.Context) {
	s.tickets.sweep()
	if n := s.wizards.sweep(); n > 0 {
		s.logger.Debug("expired wizard sessions removed", "count", n)
	}
	n, err := s.auth.PurgeExpiredSessions(ctx)
	if err != nil {
		s.logger.Warn("purging expired sessions failed", "error", err)
		return
	}
	if n > 0 {
		s.logger.Debug("expired login sessions purged", "count", n)
	}
}
