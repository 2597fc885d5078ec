package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/net/netutil"

	"github.com/flightwise/airquery/internal/airports"
	"github.com/flightwise/airquery/internal/api"
	"github.com/flightwise/airquery/internal/assistant"
	"github.com/flightwise/airquery/internal/config"
	"github.com/flightwise/airquery/internal/location"
	"github.com/flightwise/airquery/internal/rules"
	"github.com/flightwise/airquery/internal/storage/sqlite"
	"github.com/flightwise/airquery/internal/tools"
	"github.com/flightwise/airquery/pkg/logger"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "airquery: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	// .env is optional; real env vars win either way
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		return err
	}
	defer log.Sync()

	// All stores open read-only and close on every exit path
	airportsDB, err := sqlite.OpenReadOnly(cfg.Data.AirportsDB)
	if err != nil {
		return err
	}
	defer airportsDB.Close()

	gazetteerDB, err := sqlite.OpenReadOnly(cfg.Data.GazetteerDB)
	if err != nil {
		return err
	}
	defer gazetteerDB.Close()

	notificationsDB, err := sqlite.OpenReadOnly(cfg.Data.NotificationsDB)
	if err != nil {
		return err
	}
	defer notificationsDB.Close()

	// Airport tools work without the rules document, so a missing or
	// malformed file degrades the two rules tools instead of aborting.
	rulesDoc, err := rules.Load(cfg.Data.RulesFile)
	if err != nil {
		log.Warn("Rules document unavailable, rules tools will return no data",
			logger.String("file", cfg.Data.RulesFile),
			logger.Error(err))
		rulesDoc = &rules.Document{}
	}

	engine := airports.NewQueryEngine(sqlite.NewAirportStorage(airportsDB, log), log)
	resolver := location.NewResolver(engine, sqlite.NewGazetteerStorage(gazetteerDB, log), log)
	notifStore := sqlite.NewNotificationStorage(notificationsDB, log)
	rulesLookup := rules.NewLookup(rulesDoc, log)

	dispatcher := tools.NewDispatcher(engine, resolver, notifStore, rulesLookup, tools.Limits{
		SearchLimit:       cfg.Query.SearchLimit,
		DefaultRadiusNM:   cfg.Query.DefaultRadiusNM,
		DefaultCorridorNM: cfg.Query.DefaultCorridorNM,
	}, log)
	if err := dispatcher.Initialize(); err != nil {
		return err
	}

	var assistantSvc *assistant.Service
	if cfg.Assistant.Enabled {
		assistantSvc = assistant.NewService(os.Getenv("OPENAI_API_KEY"), dispatcher, cfg.Assistant, log)
	}

	router := api.NewRouter(dispatcher, assistantSvc, cfg, log)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	if cfg.Server.MaxConnections > 0 {
		listener = netutil.LimitListener(listener, cfg.Server.MaxConnections)
	}

	server := &http.Server{
		Handler:           router.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("API server listening", logger.String("addr", addr))
		errCh <- server.Serve(listener)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	case sig := <-sigCh:
		log.Info("Shutting down", logger.String("signal", sig.String()))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
	}

	return nil
}
