package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justinas/alice"
	"github.com/sirupsen/logrus"
	"github.com/tuobayong1988/amazon-ads-optimizer-sub009/internal/api/handler"
	"github.com/tuobayong1988/amazon-ads-optimizer-sub009/internal/api/handler/router"
	"github.com/tuobayong1988/amazon-ads-optimizer-sub009/internal/config"
	"github.com/tuobayong1988/amazon-ads-optimizer-sub009/internal/scheduler"
	"github.com/tuobayong1988/amazon-ads-optimizer-sub009/internal/usecases/syncing"
	"github.com/tuobayong1988/amazon-ads-optimizer-sub009/pkg/middleware"
)

type Server struct {
	httpServer *http.Server
}

func New(
	ctx context.Context,
	config *config.Config,
	syncService syncing.Service,
	reportSyncService *scheduler.ReportSyncService,
) (*Server, error) {
	schedulerServices := handler.SchedulerServices{
		ReportSync: reportSyncService,
		AppCtx:     ctx,
	}

	rt := router.New(
		router.WithRoutes(handler.Healthcheck()...),
		router.WithRoutes(handler.Jobs(syncService)...),
		router.WithRoutes(handler.Scheduler(schedulerServices)...),
	)

	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.Cors(),
		middleware.AuthMiddleware(config.Auth.Secret),
	}

	chained := alice.New(middlewares...).Then(rt)

	srv := &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port),
			Handler:           chained,
			ReadHeaderTimeout: 2 * time.Second,
		},
	}

	return srv, nil
}

// Run serves until an interrupt signal arrives or ctx is cancelled, then
// shuts down gracefully.
func (s Server) Run(ctx context.Context) error {
	go func() {
		logrus.WithFields(logrus.Fields{
			"address": s.httpServer.Addr,
		}).Info("server starting")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Error("server execution failed")
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	select {
	case <-done:
		logrus.Info("interrupt signal received")
	case <-ctx.Done():
		logrus.Info("application context cancelled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logrus.WithFields(logrus.Fields{
		"timeout": "15s",
	}).Info("starting graceful shutdown")

	if err := s.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("server shutdown failed")
		return err
	}

	logrus.Info("server stopped")
	return nil
}

func (s Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
