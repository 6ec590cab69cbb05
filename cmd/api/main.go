package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"health-assistant-api/internal/adapters/auth/idp"
	pushoversender "health-assistant-api/internal/adapters/notify/pushover"
	"health-assistant-api/internal/adapters/storage/badgerstore"
	pg "health-assistant-api/internal/adapters/storage/postgres"
	"health-assistant-api/internal/platform/config"
	"health-assistant-api/internal/platform/logger"
	"health-assistant-api/internal/ports/auth"
	"health-assistant-api/internal/reminder"
	"health-assistant-api/internal/router"
)

// @title Health Assistant API
// @version 1.0
// @description Backend del asistente de salud: medicamentos con scheduling de tomas, turnos médicos y perfil del paciente.
// @BasePath /
func main() {
	cfg := config.FromEnv()
	log := logger.NewFromEnv()

	repos, cleanup := buildRepos(cfg, log)
	defer cleanup()

	verifier := buildVerifier(cfg, log)

	r := router.NewRouter(router.Options{
		AuthVerifier: verifier,
		Repos:        repos,
	})

	// Scheduler de recordatorios: solo si hay token de Pushover.
	if cfg.PushoverAPIToken != "" {
		sender := pushoversender.NewSender(cfg.PushoverAPIToken)
		sched := reminder.NewScheduler(repos.Medications, repos.Profiles, sender, log)
		if err := sched.Start(cfg.ReminderCron); err != nil {
			log.Error("reminder scheduler failed to start", map[string]any{"error": err.Error()})
		} else {
			defer sched.Stop()
		}
	} else {
		log.Info("reminder scheduler disabled (no PUSHOVER_API_TOKEN)", nil)
	}

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("starting server", map[string]any{"addr": cfg.Addr()})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown error", map[string]any{"error": err.Error()})
	}
}

// buildRepos elige el storage por env: DB_DSN => Postgres,
// BADGER_PATH => Badger embebido, si no => memoria (dev).
func buildRepos(cfg config.Config, log logger.Logger) (router.Repos, func()) {
	if cfg.DBDSN != "" {
		db, err := pg.Open(cfg.DBDSN)
		if err != nil {
			log.Error("postgres open failed, falling back to memory", map[string]any{"error": err.Error()})
			return router.MemoryRepos(), func() {}
		}
		log.Info("storage: postgres", nil)
		return router.PostgresRepos(db), func() { _ = db.Close() }
	}

	if cfg.BadgerPath != "" {
		store, err := badgerstore.Open(cfg.BadgerPath)
		if err != nil {
			log.Error("badger open failed, falling back to memory", map[string]any{"error": err.Error()})
			return router.MemoryRepos(), func() {}
		}
		log.Info("storage: badger", map[string]any{"path": cfg.BadgerPath})
		return router.Repos{
			Medications:  badgerstore.NewMedicationsRepo(store),
			Appointments: badgerstore.NewAppointmentsRepo(store),
			Profiles:     badgerstore.NewProfileRepo(store),
		}, func() { _ = store.Close() }
	}

	log.Info("storage: in-memory", nil)
	return router.MemoryRepos(), func() {}
}

// buildVerifier arma el verifier contra el proveedor de identidad.
// Sin AUTH_BASE_URL queda nil => modo dev (X-Debug-User-ID).
func buildVerifier(cfg config.Config, log logger.Logger) auth.AuthVerifier {
	if cfg.AuthBaseURL == "" {
		log.Info("auth: dev mode (no AUTH_BASE_URL)", nil)
		return nil
	}

	client, err := idp.NewClient(idp.Config{
		BaseURL:      cfg.AuthBaseURL,
		APIKey:       cfg.AuthAPIKey,
		APIKeyHeader: cfg.AuthAPIKeyHeader,
		Timeout:      cfg.AuthTimeout,
	})
	if err != nil {
		log.Error("idp client config invalid, running in dev mode", map[string]any{"error": err.Error()})
		return nil
	}

	log.Info("auth: idp verifier", map[string]any{"base_url": cfg.AuthBaseURL})
	return idp.NewVerifier(client)
}
