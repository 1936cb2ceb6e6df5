package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/luissimon96/sistema-exames-sub000/internal/audit"
	"github.com/luissimon96/sistema-exames-sub000/internal/consent"
	consentmetrics "github.com/luissimon96/sistema-exames-sub000/internal/consent/metrics"
	consentservice "github.com/luissimon96/sistema-exames-sub000/internal/consent/service"
	"github.com/luissimon96/sistema-exames-sub000/internal/eventbus"
	busmetrics "github.com/luissimon96/sistema-exames-sub000/internal/eventbus/metrics"
	"github.com/luissimon96/sistema-exames-sub000/internal/platform/config"
	"github.com/luissimon96/sistema-exames-sub000/internal/platform/logger"
	"github.com/luissimon96/sistema-exames-sub000/internal/user"
	usermetrics "github.com/luissimon96/sistema-exames-sub000/internal/user/metrics"
	userservice "github.com/luissimon96/sistema-exames-sub000/internal/user/service"
)

const metricsAddr = ":9090"

// main wires the application core: config, logging, the event bus with its
// audit subscriber, stores, repositories and use cases. Business logic lives
// in the internal packages; this stays a composition root.
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Init("sistema-exames-core", cfg.LogLevel, cfg.AppEnv)

	bus := eventbus.New(log, busmetrics.New(), eventbus.WithLogCapacity(cfg.EventLogCapacity))
	recorder := audit.NewRecorder(audit.NewInMemoryStore(), log)
	recorder.Attach(bus)

	var userStore user.Store = user.NewInMemoryStore()
	var consentStore consent.Store = consent.NewInMemoryStore()
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Error("database open failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			log.Error("database ping failed", "error", err)
			os.Exit(1)
		}
		userStore = user.NewPostgresStore(db)
		consentStore = consent.NewPostgresStore(db)
		log.Info("using postgres storage")
	} else {
		log.Info("no DATABASE_URL set, using in-memory storage")
	}

	userMetrics := usermetrics.New()
	consentMetrics := consentmetrics.New()
	userRepo := user.NewRepository(userStore, bus, userMetrics, log)
	consentRepo := consent.NewRepository(consentStore, bus, consentMetrics, log,
		consent.WithRetentionWindows(cfg.ConsentMaxAgeMonths, cfg.ConsentRenewalThresholdMonths))

	// The use cases are the embedding surface; this binary exposes only
	// health and metrics. Constructing them here fails fast on wiring
	// mistakes until a transport layer picks them up.
	userservice.NewUpdateProfile(userRepo, userMetrics, log)
	userservice.NewChangePassword(userRepo, cfg.BcryptCost, userMetrics, log)
	consentservice.New(consentRepo, consentMetrics, log)
	log.Info("application core ready", "audit_subscribers", bus.SubscriberCount("*"))

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := &http.Server{Addr: metricsAddr, Handler: mux}
	go func() {
		log.Info("metrics endpoint listening", "addr", metricsAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}
