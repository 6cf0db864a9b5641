// main is the entry point of the DSTOne application.
// It initializes the configuration, logger, database, GeoIP provider, lobby poller and starts the HTTP server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/woozymasta/dstone/internal/bot"
	"github.com/woozymasta/dstone/internal/config"
	"github.com/woozymasta/dstone/internal/fake"
	"github.com/woozymasta/dstone/internal/geoip"
	"github.com/woozymasta/dstone/internal/lobby"
	"github.com/woozymasta/dstone/internal/logger"
	"github.com/woozymasta/dstone/internal/maintenance"
	"github.com/woozymasta/dstone/internal/poller"
	"github.com/woozymasta/dstone/internal/report"
	"github.com/woozymasta/dstone/internal/server"
	"github.com/woozymasta/dstone/internal/storage"
)

// shutdownGrace bounds how long shutdown waits for an in-flight lobby poll.
const shutdownGrace = 10 * time.Second

func main() {
	cfg := config.Parse()

	logger.Setup(cfg.Logger)
	log.Info().Msg("Starting dstone service...")

	ctx := context.Background()

	// GeoIP is optional
	var countries report.CountryLookup
	if cfg.GeoIP.Path != "" {
		if err := geoip.EnsureDB(ctx, cfg.GeoIP); err != nil {
			log.Error().Err(err).Msg("Failed to download GeoIP database")
		}

		geoProvider, err := geoip.Open(cfg.GeoIP.Path)
		if err != nil {
			log.Error().Err(err).Msg("Failed to open GeoIP database, country detection disabled")
		} else {
			countries = geoProvider
			defer func() {
				if err := geoProvider.Close(); err != nil {
					log.Error().Err(err).Msg("Error closing GeoIP provider")
				}
			}()
		}
	}

	// Database
	store, err := storage.New(cfg.Storage.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing database")
		}
	}()

	client := lobby.New(cfg.Lobby)
	syncer := poller.NewSyncer(client, store, cfg.Lobby.Regions, cfg.Lobby.Platforms)

	// data generation or database maintenance
	if cfg.Storage.GenerateCount > 0 {
		fake.GenerateData(ctx, store, cfg.Storage.GenerateCount)
		return
	} else if maintenance.Run(ctx, cfg.Storage, store, syncer) {
		return
	}

	dispatcher := bot.New(cfg.Bot, cfg.Lobby.Regions, store, client, report.New(countries))

	// Background poller
	poll := poller.New(syncer, cfg.Lobby.Interval, cfg.Lobby.PollOnStart)
	poll.Start()

	// Init server
	srvHandler := server.New(store, dispatcher, syncer, cfg)

	httpServer := &http.Server{
		Addr:        cfg.Server.Address,
		Handler:     srvHandler.Run(),
		ReadTimeout: 5 * time.Second,
		// detail lookups walk the regions without a deadline unless --lobby-timeout is set
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("address", cfg.Server.Address).Msg("Server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// no new polls, a running one is left to finish
	poll.Stop()

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	srvHandler.Close()

	waitCtx, waitCancel := context.WithTimeout(ctx, shutdownGrace)
	defer waitCancel()
	if err := poll.Wait(waitCtx); err != nil {
		log.Warn().Err(err).Dur("grace", shutdownGrace).Msg("Lobby poll still running, exiting without it")
	}

	log.Info().Msg("Server exited")
}
