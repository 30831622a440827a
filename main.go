package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/gamefinder/internal/archive"
	"github.com/mauv0809/gamefinder/internal/blackbox"
	"github.com/mauv0809/gamefinder/internal/config"
	"github.com/mauv0809/gamefinder/internal/database"
	"github.com/mauv0809/gamefinder/internal/eligibility"
	"github.com/mauv0809/gamefinder/internal/fumbbl"
	"github.com/mauv0809/gamefinder/internal/gamefinder"
	"github.com/mauv0809/gamefinder/internal/graph"
	server "github.com/mauv0809/gamefinder/internal/http"
	"github.com/mauv0809/gamefinder/internal/metrics"
	"github.com/mauv0809/gamefinder/internal/notifier"
	"github.com/mauv0809/gamefinder/internal/notifier/slack"
	"github.com/mauv0809/gamefinder/internal/pubsub"
	"github.com/mauv0809/gamefinder/internal/queue"
)

func main() {
	// Start profiling timer
	startTime := time.Now()
	log.SetFormatter(log.JSONFormatter)
	cfg := config.Load()
	db, dbTeardown, err := database.InitDB(cfg.DBName, cfg.Turso.PrimaryURL, cfg.Turso.AuthToken, cfg.MigrationsDir)
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	log.Info("Database initialization time recorded", "duration_ms", time.Since(startTime).Milliseconds())
	defer func() {
		log.Info("Closing database connection")
		dbTeardown()
	}()

	rounds := archive.New(db)
	counters := metrics.New(db)
	metricsSvc := metrics.NewService()
	metricsHandler := metrics.NewMetricsHandler()

	var notify notifier.Notifier = notifier.Nop{}
	if cfg.Slack.Enabled() {
		notify = slack.NewNotifier(cfg.Slack.Token, cfg.Slack.ChannelID, metricsSvc)
	} else {
		log.Info("Slack not configured, notifications disabled")
	}
	var events pubsub.PubSubClient = pubsub.Nop{}
	if cfg.ProjectID != "" {
		events, err = pubsub.New(cfg.ProjectID)
		if err != nil {
			log.Fatalf("Failed to initialize pubsub: %s", err)
		}
	} else {
		log.Info("No GCP project configured, events disabled")
	}
	defer events.Close()

	api := fumbbl.NewClient(cfg.Fumbbl.BaseURL, cfg.Fumbbl.ClientID, cfg.Fumbbl.ClientSecret)

	q := queue.New("gamefinder", queue.WithMetrics(metricsSvc))
	g := graph.New(eligibility.Gamefinder{}, graph.WithCoachTimeout(cfg.CoachTimeout), graph.WithMetrics(metricsSvc))
	svc := graph.NewService(q, g)

	opts := []gamefinder.Option{
		gamefinder.WithPublisher(events),
		gamefinder.WithNotifier(notify),
		gamefinder.WithCounters(counters),
		gamefinder.WithMetrics(metricsSvc),
		gamefinder.WithDryRun(cfg.DryRun),
	}

	model, err := gamefinder.New(svc, api, opts...)
	if err != nil {
		log.Fatalf("Failed to initialize gamefinder: %s", err)
	}
	q.Start()

	var cycle *blackbox.Cycle
	if cfg.Blackbox.Enabled {
		cycle = blackbox.NewCycle(
			blackbox.NewGenerator(blackbox.Jitter),
			api,
			model,
			blackbox.WithWindows(cfg.Blackbox.Active, cfg.Blackbox.Paused),
			blackbox.WithCycleMetrics(metricsSvc),
			blackbox.WithReporters(model, rounds, api),
		)
		model.AttachCycle(cycle)
		if err := cycle.Start(); err != nil {
			log.Fatalf("Failed to start blackbox: %s", err)
		}
	}

	s := server.NewServer(model, rounds, counters, metricsHandler, cfg.CorsOrigins)

	// --- Record startup time ---
	startupDuration := time.Since(startTime)
	metricsSvc.SetStartupTime(startupDuration.Seconds())
	log.Info("Startup time recorded", "duration_ms", startupDuration.Milliseconds())

	// --- Graceful shutdown setup ---
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: s,
	}

	// Channel to listen for errors coming from the server
	serverErrors := make(chan error, 1)

	go func() {
		log.Info("Server started", "port", cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			log.Error("Server error", "error", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Server shutdown failed", "error", err)
		} else {
			log.Info("Server gracefully stopped")
		}
	}

	if cycle != nil {
		if err := cycle.Stop(); err != nil {
			log.Error("Blackbox shutdown failed", "error", err)
		}
	}
	model.Close()
	q.Stop()
	log.Info("Server process shutting down")
}
