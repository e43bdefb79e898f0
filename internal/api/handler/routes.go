package handler

import (
	"net/http"

	"github.com/tuobayong1988/amazon-ads-optimizer-sub009/internal/api/handler/router"
	"github.com/tuobayong1988/amazon-ads-optimizer-sub009/internal/usecases/syncing"
	"github.com/tuobayong1988/amazon-ads-optimizer-sub009/pkg/middleware"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Jobs(service syncing.Service) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/accounts/:id/jobs",
			Method:      http.MethodPost,
			Handler:     CreateJobs(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:    "/v1/accounts/:id/jobs",
			Method:  http.MethodGet,
			Handler: ListAccountJobs(service),
		},
		{
			Path:        "/v1/accounts/:id/jobs/retry",
			Method:      http.MethodPost,
			Handler:     RetryJobs(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:    "/v1/jobs/:id",
			Method:  http.MethodGet,
			Handler: GetJob(service),
		},
		{
			Path:    "/v1/accounts/:id/sync/stats",
			Method:  http.MethodGet,
			Handler: GetSyncStats(service),
		},
	}
}

func Scheduler(services SchedulerServices) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/scheduler/start",
			Method:      http.MethodPost,
			Handler:     StartScheduler(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/scheduler/stop",
			Method:      http.MethodPost,
			Handler:     StopScheduler(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/scheduler/run",
			Method:      http.MethodPost,
			Handler:     RunSchedulerOnce(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:    "/v1/scheduler/status",
			Method:  http.MethodGet,
			Handler: GetSchedulerStatus(services),
		},
		{
			Path:        "/v1/cron/:type/run",
			Method:      http.MethodPost,
			Handler:     RunCronJob(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}
