package web

import (
	"crypto/rand"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"growfitness/internal/adapters/auth"
	"growfitness/internal/adapters/cache"
	"growfitness/internal/adapters/http/middleware"
	"growfitness/internal/adapters/http/perf"
	auditStore "growfitness/internal/adapters/storage/audit"
	bannerStore "growfitness/internal/adapters/storage/banner"
	codeStore "growfitness/internal/adapters/storage/code"
	crmStore "growfitness/internal/adapters/storage/crm"
	invoiceStore "growfitness/internal/adapters/storage/invoice"
	kidStore "growfitness/internal/adapters/storage/kid"
	locationStore "growfitness/internal/adapters/storage/location"
	outboxStore "growfitness/internal/adapters/storage/outbox"
	quizStore "growfitness/internal/adapters/storage/quiz"
	reportStore "growfitness/internal/adapters/storage/report"
	requestStore "growfitness/internal/adapters/storage/request"
	resourceStore "growfitness/internal/adapters/storage/resource"
	sessionStore "growfitness/internal/adapters/storage/session"
	userStore "growfitness/internal/adapters/storage/user"
	"growfitness/internal/application/orchestrators"
	"growfitness/internal/application/projections"
	"growfitness/internal/domain/user"
)

// Stores holds all storage dependencies.
type Stores struct {
	Users     userStore.Store
	Kids      kidStore.Store
	Locations locationStore.Store
	Sessions  sessionStore.Store
	Invoices  invoiceStore.Store
	Banners   bannerStore.Store
	Quizzes   quizStore.Store
	Reports   reportStore.Store
	Requests  requestStore.Store
	Audit     auditStore.Store
	Codes     codeStore.Store
	Crm       crmStore.Store
	Resources resourceStore.Store
	Outbox    outboxStore.Store
}

// TokenService issues and verifies access tokens.
type TokenService interface {
	orchestrators.AccessTokenIssuer
	middleware.TokenParser
}

var _ TokenService = (*auth.Issuer)(nil)

// Config is the HTTP-facing slice of the process configuration.
type Config struct {
	CORSOrigin         string
	FrontendURL        string
	RefreshTTL         time.Duration
	ResetTTL           time.Duration
	DashboardCacheTTL  time.Duration
	RateLimitPerSecond int
	SlowRequestMs      int
	CSRFKey            []byte
	Production         bool
}

// Deps are the collaborators the router hands to orchestrators and projections.
type Deps struct {
	Stores    Stores
	Tokens    TokenService
	Notifier  orchestrators.Notifications
	Cache     cache.Cache
	Outbox    *orchestrators.OutboxProcessor
	Collector *perf.Collector
	Registry  *prometheus.Registry

	GenerateID func() string
	Now        func() time.Time
	Config     Config

	// Stop ends background sweeps owned by the router.
	Stop <-chan struct{}
}

// Server owns the handlers. It carries no per-request state.
type Server struct {
	Deps
	reportGen projections.ReportGenerator
}

// NewRouter wires every route under /api plus /metrics.
// PRE: every store in d.Stores is non-nil
// POST: Returns a handler with recovery, metrics, timing, CORS, rate limiting, CSRF and bearer auth applied
func NewRouter(d Deps) http.Handler {
	if d.Cache == nil {
		d.Cache = cache.Noop{}
	}
	if d.Registry == nil {
		d.Registry = prometheus.NewRegistry()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	s := &Server{Deps: d}
	s.reportGen = projections.ReportGenerator{
		Sessions: d.Stores.Sessions,
		Invoices: d.Stores.Invoices,
		Users:    d.Stores.Users,
		Kids:     d.Stores.Kids,
		Now:      d.Now,
	}

	rate := d.Config.RateLimitPerSecond
	if rate <= 0 {
		rate = 20
	}
	limiter := middleware.NewRateLimiter(rate, time.Second, d.Stop)

	r := chi.NewRouter()
	r.Use(middleware.NewMetrics(d.Registry).Handler)
	r.Use(middleware.Recover)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{d.Config.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.RateLimit(limiter))
	r.Use(middleware.CSRF(csrfKey(d.Config), d.Config.Production, trustedOrigins(d.Config.CORSOrigin)))
	r.Use(middleware.Auth(d.Tokens))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, r, http.StatusNotFound, middleware.CodeNotFound, "Cannot "+r.Method+" "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed")
	})

	r.Handle("/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Use(s.invalidateDashboardOnWrite)
		r.Get("/health", s.handleHealth)

		s.authRoutes(r)
		s.requestRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(user.RoleAdmin))
			s.userRoutes(r)
			s.kidRoutes(r)
			s.locationRoutes(r)
			s.sessionRoutes(r)
			s.invoiceRoutes(r)
			s.bannerRoutes(r)
			s.quizRoutes(r)
			s.reportRoutes(r)
			s.auditRoutes(r)
			s.dashboardRoutes(r)
			s.codeRoutes(r)
			s.crmRoutes(r)
			s.resourceRoutes(r)
			s.adminRoutes(r)
		})
	})

	return middleware.Chain(r,
		middleware.SecurityHeaders,
		middleware.Timing(d.Collector, d.Config.SlowRequestMs),
	)
}

// csrfKey returns the configured key, or a random per-process key outside production.
func csrfKey(c Config) []byte {
	if len(c.CSRFKey) == 32 {
		return c.CSRFKey
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		panic("crypto/rand failed: " + err.Error())
	}
	if c.Production {
		slog.Warn("csrf_key_generated", "reason", "CSRF_KEY unset or not 32 bytes")
	}
	return key
}

func trustedOrigins(origin string) []string {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return nil
	}
	return []string{u.Host}
}

// runtime is the id/clock/audit bundle every orchestrator embeds.
func (s *Server) runtime() orchestrators.Runtime {
	return orchestrators.Runtime{
		AuditStore: s.Stores.Audit,
		GenerateID: s.GenerateID,
		Now:        s.Now,
	}
}

// actorID returns the authenticated caller's user id.
func actorID(r *http.Request) string {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	return sess.UserID
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
