package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	_ "modernc.org/sqlite"

	"growfitness/internal/adapters/auth"
	"growfitness/internal/adapters/cache"
	"growfitness/internal/adapters/email"
	web "growfitness/internal/adapters/http"
	"growfitness/internal/adapters/http/perf"
	"growfitness/internal/adapters/storage"
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
	"growfitness/internal/adapters/whatsapp"
	"growfitness/internal/application/orchestrators"
	"growfitness/internal/config"
	"growfitness/internal/domain/outbox"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(); err != nil {
		slog.Error("server_exit", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.SetDefault(cfg.NewLogger())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector, cfg.SlowQueryMs)

	stores := web.Stores{
		Users:     userStore.NewSQLiteStore(timedDB),
		Kids:      kidStore.NewSQLiteStore(timedDB),
		Locations: locationStore.NewSQLiteStore(timedDB),
		Sessions:  sessionStore.NewSQLiteStore(timedDB),
		Invoices:  invoiceStore.NewSQLiteStore(timedDB),
		Banners:   bannerStore.NewSQLiteStore(timedDB),
		Quizzes:   quizStore.NewSQLiteStore(timedDB),
		Reports:   reportStore.NewSQLiteStore(timedDB),
		Requests:  requestStore.NewSQLiteStore(timedDB),
		Audit:     auditStore.NewSQLiteStore(timedDB),
		Codes:     codeStore.NewSQLiteStore(timedDB),
		Crm:       crmStore.NewSQLiteStore(timedDB),
		Resources: resourceStore.NewSQLiteStore(timedDB),
		Outbox:    outboxStore.NewSQLiteStore(timedDB),
	}

	mailer, err := newEmailSender(ctx, cfg)
	if err != nil {
		return err
	}
	var wa whatsapp.Sender = whatsapp.NoopSender{}
	if cfg.WhatsAppToken != "" {
		wa = whatsapp.NewCloudSender(cfg.WhatsAppAPIURL, cfg.WhatsAppToken, cfg.WhatsAppPhoneID)
		slog.Info("whatsapp_configured", "phone_id", cfg.WhatsAppPhoneID)
	}

	dashCache, closeCache := newCache(ctx, cfg)
	defer closeCache()

	if created, err := orchestrators.ExecuteSeedAdmin(ctx, orchestrators.SeedAdminInput{
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
	}, orchestrators.SeedAdminDeps{UserStore: stores.Users, GenerateID: uuid.NewString, Now: time.Now}); err != nil {
		return err
	} else if created && cfg.IsProduction() {
		slog.Warn("seed_admin_created", "email", cfg.AdminEmail, "hint", "change the bootstrap password")
	}

	notifier := &orchestrators.Notifier{
		Email:      mailer,
		WhatsApp:   wa,
		Outbox:     stores.Outbox,
		Users:      stores.Users,
		Kids:       stores.Kids,
		From:       cfg.EmailFrom,
		GenerateID: uuid.NewString,
		Now:        time.Now,
	}

	stopCh := make(chan struct{})
	processor := orchestrators.NewOutboxProcessor(stores.Outbox, map[string]orchestrators.ActionExecutor{
		outbox.ActionTypeEmail:    &orchestrators.EmailExecutor{Sender: mailer, From: cfg.EmailFrom},
		outbox.ActionTypeWhatsApp: &orchestrators.WhatsAppExecutor{Sender: wa},
	}, time.Now)
	workerDone := orchestrators.StartBackgroundWorker(processor, cfg.OutboxInterval, stopCh)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	handler := web.NewRouter(web.Deps{
		Stores:     stores,
		Tokens:     auth.NewIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTExpiresIn, time.Now),
		Notifier:   notifier,
		Cache:      dashCache,
		Outbox:     processor,
		Collector:  collector,
		Registry:   registry,
		GenerateID: uuid.NewString,
		Now:        time.Now,
		Config: web.Config{
			CORSOrigin:         cfg.CORSOrigin,
			FrontendURL:        cfg.FrontendURL,
			RefreshTTL:         cfg.JWTRefreshExpires,
			ResetTTL:           time.Duration(cfg.PasswordResetTTLSec) * time.Second,
			DashboardCacheTTL:  cfg.DashboardCacheTTL,
			RateLimitPerSecond: cfg.RateLimitPerSecond,
			SlowRequestMs:      cfg.SlowRequestMs,
			CSRFKey:            []byte(cfg.CSRFKey),
			Production:         cfg.IsProduction(),
		},
		Stop: stopCh,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server_starting", "version", version, "addr", srv.Addr, "env", cfg.Env, "email_provider", cfg.EmailProvider)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		close(stopCh)
		return err
	case <-ctx.Done():
	}

	slog.Info("server_stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err = srv.Shutdown(shutdownCtx)
	close(stopCh)
	<-workerDone
	return err
}

// openDB opens SQLite with WAL, foreign keys and a busy timeout, then applies the schema.
func openDB(path string) (*sql.DB, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	if err := storage.InitDB(db); err != nil {
		db.Close()
		return nil, err
	}
	slog.Info("database_ready", "path", path)
	return db, nil
}

func newEmailSender(ctx context.Context, cfg config.Config) (email.Sender, error) {
	switch cfg.EmailProvider {
	case config.EmailProviderResend:
		slog.Info("email_configured", "provider", "resend")
		return email.NewResendSender(cfg.ResendAPIKey, cfg.EmailFrom), nil
	case config.EmailProviderSES:
		s, err := email.NewSESSender(ctx, cfg.AWSRegion, cfg.EmailFrom)
		if err != nil {
			return nil, err
		}
		slog.Info("email_configured", "provider", "ses", "region", cfg.AWSRegion)
		return s, nil
	default:
		if cfg.IsProduction() {
			slog.Warn("email_disabled", "provider", cfg.EmailProvider)
		}
		return email.NewNoopSender(), nil
	}
}

// newCache prefers Redis and falls back to process memory when REDIS_ADDR is unset or unreachable.
func newCache(ctx context.Context, cfg config.Config) (cache.Cache, func()) {
	if cfg.RedisAddr == "" {
		return cache.NewMemory(time.Now), func() {}
	}
	rc, err := cache.NewRedisCache(ctx, cfg.RedisAddr, cfg.RedisPassword, "growfitness:")
	if err != nil {
		slog.Warn("redis_unavailable", "addr", cfg.RedisAddr, "error", err)
		return cache.NewMemory(time.Now), func() {}
	}
	slog.Info("cache_configured", "backend", "redis", "addr", cfg.RedisAddr)
	return rc, func() { _ = rc.Close() }
}
