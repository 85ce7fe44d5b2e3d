package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/SameetPathan/cowfarm/internal/config"
	"github.com/SameetPathan/cowfarm/internal/repository/docstore"
	"github.com/SameetPathan/cowfarm/internal/repository/mongodb"
	"github.com/SameetPathan/cowfarm/internal/repository/sheets"
	"github.com/SameetPathan/cowfarm/internal/scheduler"
	"github.com/SameetPathan/cowfarm/internal/server/handlers"
	"github.com/SameetPathan/cowfarm/internal/server/router"
	advisorsvc "github.com/SameetPathan/cowfarm/internal/service/advisor"
	fetchersvc "github.com/SameetPathan/cowfarm/internal/service/fetcher"
	reportingsvc "github.com/SameetPathan/cowfarm/internal/service/reporting"
	"github.com/SameetPathan/cowfarm/pkg/clients/anthropic"
	"github.com/SameetPathan/cowfarm/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	storeClient := docstore.NewClient(cfg.Store, baseLogger.Named("repo.docstore"))

	mongoRepo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := mongoRepo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	// The sheets export sink is optional.
	var sheetsRepo sheets.Repository
	if cfg.Sheets.CredentialsPath != "" {
		sheetsRepo, err = sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		baseLogger.Info("sheets export sink enabled")
	}

	fetcherSvc := fetchersvc.NewService(storeClient, baseLogger.Named("svc.fetcher"))
	reportingSvc := reportingsvc.NewService(fetcherSvc, mongoRepo, sheetsRepo, cfg.Reporting.MilkPricePerLiter, baseLogger.Named("svc.reporting"))

	var aiClient anthropic.Client
	if cfg.AI.AnthropicKey != "" {
		aiClient = anthropic.NewClient(cfg.AI.AnthropicKey)
		baseLogger.Info("anthropic ai client enabled")
	} else {
		baseLogger.Warn("anthropic api key missing, ai assistant disabled")
	}
	advisorSvc := advisorsvc.NewService(aiClient, reportingSvc, baseLogger.Named("svc.advisor"))

	recordsHandler := handlers.NewRecordsHandler(storeClient, baseLogger.Named("handlers.records"))
	reportsHandler := handlers.NewReportsHandler(reportingSvc, baseLogger.Named("handlers.reports"))
	chatHandler := handlers.NewChatHandler(advisorSvc, baseLogger.Named("handlers.chat"))
	engine := router.New(recordsHandler, reportsHandler, chatHandler, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(cfg.Reporting, reportingSvc, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
