package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"posmorales/internal/config"
	"posmorales/internal/events"
	"posmorales/internal/infra"
	"posmorales/internal/router"
	"posmorales/internal/service"
	"posmorales/internal/settings"
	"posmorales/internal/upstream"
	"posmorales/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger; dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	settingsStore := settings.NewStore(cfg.SettingsPath)
	if err := settingsStore.Load(); err != nil {
		log.Fatal().Err(err).Msg("failed to load settings")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	cb := infra.NewCircuitBreaker(infra.CircuitBreakerConfig{})
	sseURL := strings.TrimRight(cfg.BackendURL, "/") + cfg.SSEPath
	client := upstream.NewClient(cfg.BackendURL, sseURL, cfg.APIToken, cb)
	broker := events.NewBroker()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── Services shared between the HTTP layer and background goroutines ────
	catalogSvc := service.NewCatalogService(client)
	tableSvc := service.NewTableService(client)
	cartSvc := service.NewCartService(catalogSvc, client, tableSvc)
	dispatcher := worker.NewDispatcher(rdb)
	checkoutSvc := service.NewCheckoutService(client, cartSvc, catalogSvc, tableSvc, dispatcher, cfg.TerminalID)
	invoiceSvc := service.NewInvoiceService(client)

	// ── Background goroutines ────────────────────────────────────────────────
	// Worker handlers are wired here (composition root) so that the pool has
	// full access to all infrastructure dependencies.
	mailer := infra.NewMailer(cfg)
	workerHandlers := &worker.WorkerHandlers{
		Receipt: worker.NewReceiptWorker(client, settingsStore, dispatcher, cfg.ReceiptStoragePath),
		Report:  worker.NewReportWorker(client, settingsStore, cfg.ReportStoragePath),
		Email:   worker.NewEmailWorker(mailer),
	}
	worker.StartWorkerPool(ctx, rdb, workerHandlers, cfg.WorkerPoolSize)
	worker.StartRetryCron(ctx, rdb)

	// Table mirror: periodic poll plus event-driven refresh
	tableSvc.StartWatching(ctx, time.Duration(cfg.TablePollSeconds)*time.Second, broker)

	// Backend SSE relay with bounded-backoff reconnect
	go client.SubscribeEvents(ctx, broker)

	r := router.New(cfg, router.Deps{
		Client:   client,
		Redis:    rdb,
		CB:       cb,
		Broker:   broker,
		Settings: settingsStore,
		Tables:   tableSvc,
		Catalog:  catalogSvc,
		Carts:    cartSvc,
		Checkout: checkoutSvc,
		Invoices: invoiceSvc,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 0, // SSE stream must not be cut off
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("terminal gateway %s listening on :%d", cfg.TerminalID, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
