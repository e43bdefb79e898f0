package handler

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
	"github.com/tuobayong1988/amazon-ads-optimizer-sub009/internal/scheduler"
	"github.com/tuobayong1988/amazon-ads-optimizer-sub009/pkg/apiErrors"
)

// SchedulerServices groups what the scheduler endpoints need. AppCtx is the
// application's lifetime context: timers started over HTTP must outlive the
// request that started them.
type SchedulerServices struct {
	ReportSync *scheduler.ReportSyncService
	AppCtx     context.Context
}

// StartScheduler starts the report sync timers.
func StartScheduler(services SchedulerServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := services.ReportSync.Start(services.AppCtx); err != nil {
			logrus.WithError(err).Error("starting scheduler")
			apiErrors.WriteError(w, apiErrors.ErrSchedulerState, "could not start scheduler", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(services.ReportSync.GetStatus())
	}
}

// StopScheduler halts the report sync timers.
func StopScheduler(services SchedulerServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services.ReportSync.Stop()

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(services.ReportSync.GetStatus())
	}
}

// RunSchedulerOnce pushes one synchronous submit/check/process cycle.
func RunSchedulerOnce(services SchedulerServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := services.ReportSync.RunOnce(r.Context()); err != nil {
			logrus.WithError(err).Error("manual sync cycle failed")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "sync cycle failed", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"message": "sync cycle completed"})
	}
}

// GetSchedulerStatus reports whether the timers are running.
func GetSchedulerStatus(services SchedulerServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(services.ReportSync.GetStatus())
	}
}

// RunCronJob triggers a single scheduled stage by name: submit, check,
// process, cleanup, sync or all.
func RunCronJob(services SchedulerServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobType := httprouter.ParamsFromContext(r.Context()).ByName("type")
		if jobType == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "cron job type not specified", nil)
			return
		}

		if err := services.ReportSync.RunJob(r.Context(), jobType); err != nil {
			logrus.WithField("type", jobType).WithError(err).Error("manual cron run failed")
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "accepted types: submit, check, process, cleanup, sync, all", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"message": "cron job completed",
			"type":    jobType,
		})
	}
}
