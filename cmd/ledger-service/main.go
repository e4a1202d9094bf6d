package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nurpe/ledger-service/internal/auth"
	"github.com/nurpe/ledger-service/internal/config"
	"github.com/nurpe/ledger-service/internal/db"
	"github.com/nurpe/ledger-service/internal/excel"
	httphandler "github.com/nurpe/ledger-service/internal/http"
	"github.com/nurpe/ledger-service/internal/http/middleware"
	"github.com/nurpe/ledger-service/internal/logger"
	"github.com/nurpe/ledger-service/internal/pdf"
	"github.com/nurpe/ledger-service/internal/repository"
	"github.com/nurpe/ledger-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	profileRepo := repository.NewProfileRepository(database)
	contractRepo := repository.NewContractRepository(database)
	jobRepo := repository.NewJobRepository(database)
	reportRepo := repository.NewReportRepository(database)

	identityService := service.NewIdentityService(profileRepo)
	ledgerService := service.NewLedgerService(contractRepo, jobRepo)
	paymentService := service.NewPaymentService(database, profileRepo, jobRepo, cfg.Payments, log)
	reportService := service.NewReportService(reportRepo, excel.NewGenerator(), cfg.Report)
	receiptService := service.NewReceiptService(jobRepo, pdf.NewGenerator())

	if cfg.Payments.AllowOverdraft {
		log.Warn().Msg("overdraft allowed: jobs are paid even when the client balance is too low")
	}

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(ledgerService, paymentService, reportService, receiptService, log)
	router := httphandler.NewRouter(handler, httphandler.Middlewares{
		Auth:           middleware.Auth(tokenParser, identityService),
		OptionalAuth:   middleware.OptionalAuth(tokenParser, identityService),
		RequireClient:  middleware.RequireClient(identityService, ""),
		ClientFromPath: middleware.RequireClient(identityService, "userId"),
	}, httphandler.RouterConfig{
		Environment:    cfg.Environment,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
	}, log)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("starting ledger service")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	if sqlDB, err := database.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("ledger service stopped")
}
