package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
	"github.com/revboard/revboard/internal/api"
	v1 "github.com/revboard/revboard/internal/api/v1"
	"github.com/revboard/revboard/internal/config"
	"github.com/revboard/revboard/internal/integration/exchangerate"
	"github.com/revboard/revboard/internal/integration/stripe"
	"github.com/revboard/revboard/internal/logger"
	"github.com/revboard/revboard/internal/service"
	"github.com/revboard/revboard/internal/types"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load environment variables from .env if present
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.GetLogger().Warnw("failed to load .env file", "error", err)
	}

	cfg, err := config.NewConfig()
	if err != nil {
		logger.GetLogger().Fatalw("failed to load configuration", "error", err)
	}

	log, err := logger.NewLogger(cfg)
	if err != nil {
		logger.GetLogger().Fatalw("failed to initialize logger", "error", err)
	}

	if err := types.ValidateCadenceRegistry(); err != nil {
		log.Fatalw("cadence registry is inconsistent", "error", err)
	}

	if cfg.Sentry.Enabled {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.Sentry.DSN,
			Environment:      cfg.Sentry.Environment,
			TracesSampleRate: cfg.Sentry.SampleRate,
		}); err != nil {
			log.Errorw("failed to initialize sentry", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	params := service.ServiceParams{
		Logger:          log,
		Config:          cfg,
		ProviderFactory: stripe.NewProviderFactory(log),
		RateProvider:    exchangerate.NewClient(cfg.Analytics.RatesBaseURL, log),
	}

	dashboardService := service.NewDashboardService(params)
	handlers := api.Handlers{
		Dashboard: v1.NewDashboardHandler(dashboardService, log),
	}
	router := api.NewRouter(handlers, cfg, log)

	server := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Infow("starting server", "address", cfg.Server.Address, "merchants", len(cfg.Merchants))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	log.Infow("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server shutdown failed", "error", err)
	}
}
