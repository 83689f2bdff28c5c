package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	emailPkg "elearning/internal/adapters/email"
	web "elearning/internal/adapters/http"
	"elearning/internal/adapters/http/perf"
	"elearning/internal/adapters/storage"
	adminStore "elearning/internal/adapters/storage/admin"
	classStore "elearning/internal/adapters/storage/class"
	contactStore "elearning/internal/adapters/storage/contact"
	courseStore "elearning/internal/adapters/storage/course"
	enrollmentStore "elearning/internal/adapters/storage/enrollment"
	outboxStorePkg "elearning/internal/adapters/storage/outbox"
	videoStore "elearning/internal/adapters/storage/video"
	"elearning/internal/application/orchestrators"
	"elearning/internal/config"
	outboxDomain "elearning/internal/domain/outbox"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	setupLogging(cfg)

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if err := storage.MigrateDB(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}
	if cfg.EphemeralKeys {
		slog.Warn("ephemeral_keys", "detail", "CSRF/session keys generated at startup; sessions will not survive a restart")
	}

	// Performance instrumentation: wrap DB with timing, create collector
	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector, cfg.SlowQueryMs)

	outboxStore := outboxStorePkg.NewSQLiteStore(timedDB)
	stores := web.Stores{
		Courses:     courseStore.NewSQLiteStore(timedDB),
		Classes:     classStore.NewSQLiteStore(timedDB),
		Videos:      videoStore.NewSQLiteStore(timedDB),
		Enrollments: enrollmentStore.NewSQLiteStore(timedDB),
		Admins:      adminStore.NewSQLiteStore(timedDB),
		Contacts:    contactStore.NewSQLiteStore(timedDB),
		Outbox:      outboxStore,
	}

	if err := seedAdmin(cfg, stores.Admins); err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}

	// Configure email sender
	var sender emailPkg.Sender
	if cfg.ResendKey != "" {
		sender = emailPkg.NewResendSender(cfg.ResendKey, cfg.MailFrom)
		slog.Info("email_sender_configured", "provider", "resend")
	} else {
		sender = emailPkg.NewNoopSender()
		if cfg.IsProduction() {
			slog.Warn("email_sender_disabled", "detail", "ELEARNING_RESEND_KEY is not set; email delivery is disabled")
		} else {
			slog.Info("email_sender_configured", "provider", "noop")
		}
	}

	stopCh := make(chan struct{})
	processor := orchestrators.NewOutboxProcessor(outboxStore, map[string]orchestrators.ActionExecutor{
		outboxDomain.ActionTypeEmail: &orchestrators.EmailExecutor{Sender: sender},
	}, time.Now)
	workerDone := orchestrators.StartBackgroundWorker(processor, 1*time.Minute, stopCh)

	server, err := web.NewServer(stores, web.Options{
		CSRFKey:       cfg.CSRFKey,
		SessionKey:    cfg.SessionKey,
		SecureCookies: cfg.IsProduction(),
		RateLimit:     cfg.RateLimit,
		SlowRequestMs: cfg.SlowRequestMs,
		SupportEmail:  cfg.SupportEmail,
		Perf:          collector,
		Done:          stopCh,
	})
	if err != nil {
		log.Fatalf("failed to build server: %v", err)
	}

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server_starting", "version", version, "addr", cfg.Addr, "env", cfg.Env, "schema", storage.LatestSchemaVersion())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	slog.Info("server_stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("server_shutdown_failed", "error", err.Error())
	}
	close(stopCh)
	<-workerDone
}

// setupLogging installs the default slog handler: JSON in production, text otherwise.
func setupLogging(cfg config.Config) {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	var handler slog.Handler
	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// seedAdmin creates the first instructor account. Outside production a
// missing password is replaced by a random one that is logged once.
func seedAdmin(cfg config.Config, admins orchestrators.AdminStoreForSeed) error {
	password := cfg.AdminPassword
	if password == "" {
		if cfg.IsProduction() {
			return errors.New("ELEARNING_ADMIN_PASSWORD is required in production")
		}
		b := make([]byte, 12)
		if _, err := rand.Read(b); err != nil {
			return err
		}
		password = hex.EncodeToString(b)
	}
	created, err := orchestrators.ExecuteSeedAdmin(context.Background(), orchestrators.SeedAdminInput{
		Username: cfg.AdminUsername,
		Password: password,
		FullName: cfg.AdminName,
	}, orchestrators.SeedAdminDeps{Admins: admins})
	if err != nil {
		return err
	}
	if created && cfg.AdminPassword == "" {
		slog.Warn("admin_seeded_with_generated_password", "username", cfg.AdminUsername, "password", password)
	}
	return nil
}
