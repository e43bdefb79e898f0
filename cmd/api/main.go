package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tuobayong1988/amazon-ads-optimizer-sub009/infrastructure/database/postgres"
	"github.com/tuobayong1988/amazon-ads-optimizer-sub009/infrastructure/integrator/amazon"
	"github.com/tuobayong1988/amazon-ads-optimizer-sub009/infrastructure/integrator/amazon/adsclient"
	"github.com/tuobayong1988/amazon-ads-optimizer-sub009/infrastructure/repository"
	"github.com/tuobayong1988/amazon-ads-optimizer-sub009/internal/api"
	"github.com/tuobayong1988/amazon-ads-optimizer-sub009/internal/config"
	"github.com/tuobayong1988/amazon-ads-optimizer-sub009/internal/scheduler"
	"github.com/tuobayong1988/amazon-ads-optimizer-sub009/internal/usecases/ingesting"
	"github.com/tuobayong1988/amazon-ads-optimizer-sub009/internal/usecases/syncing"
	"github.com/tuobayong1988/amazon-ads-optimizer-sub009/pkg/ratelimit"
)

func main() {
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("invalid log level %q, falling back to info", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	accountRepo := repository.NewAccountRepository(pgConn)
	campaignRepo := repository.NewCampaignRepository(pgConn)
	jobRepo := repository.NewReportJobRepository(pgConn)
	performanceRepo := repository.NewPerformanceRepository(pgConn)
	syncStateRepo := repository.NewSyncStateRepository(pgConn)

	tokenManager := adsclient.NewTokenManager(cfg)
	go tokenManager.StartAutoRefresh()
	defer tokenManager.StopAutoRefresh()

	adsClient := adsclient.NewClient(cfg, tokenManager)
	reportingAPI := amazon.New(cfg, adsClient)

	limiters := ratelimit.NewRegistry(ratelimit.Config{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
		RequestsPerHour:   cfg.RateLimit.RequestsPerHour,
		BurstLimit:        cfg.RateLimit.BurstLimit,
		InterRequestDelay: time.Duration(cfg.RateLimit.InterRequestDelayMS) * time.Millisecond,
	})
	defer limiters.Stop()

	syncService := syncing.NewService(cfg, jobRepo, syncStateRepo, accountRepo)
	ingestService := ingesting.NewService(cfg, jobRepo, campaignRepo, performanceRepo, reportingAPI, limiters)

	reportSyncService := scheduler.NewReportSyncService(cfg, ingestService, syncService)
	if err := reportSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("starting report sync scheduler")
	}

	server, err := api.New(ctx, cfg, syncService, reportSyncService)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("connecting to PostgreSQL")
	}

	if err := conn.Ping(ctx); err != nil {
		logrus.WithError(err).Fatal("pinging PostgreSQL")
	}

	logrus.Info("PostgreSQL connection established")
	return conn
}
