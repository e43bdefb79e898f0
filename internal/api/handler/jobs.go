package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/tuobayong1988/amazon-ads-optimizer-sub009/internal/domain"
	"github.com/tuobayong1988/amazon-ads-optimizer-sub009/internal/usecases/syncing"
	"github.com/tuobayong1988/amazon-ads-optimizer-sub009/pkg/apiErrors"
	"github.com/tuobayong1988/amazon-ads-optimizer-sub009/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type createJobsRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	TierSweep bool   `json:"tier_sweep"`
}

// CreateJobs queues report jobs for an account, either over an explicit
// date range or as a legacy tier sweep.
func CreateJobs(service syncing.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID := httprouter.ParamsFromContext(r.Context()).ByName("id")

		var req createJobsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "invalid request body", nil)
			return
		}

		var dateRange *domain.DateRange
		if !req.TierSweep {
			if req.StartDate == "" || req.EndDate == "" {
				apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "start_date and end_date are required unless tier_sweep is set", nil)
				return
			}
			start, err := utils.ParseDate(req.StartDate)
			if err != nil {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "start_date must be YYYY-MM-DD", nil)
				return
			}
			end, err := utils.ParseDate(req.EndDate)
			if err != nil {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "end_date must be YYYY-MM-DD", nil)
				return
			}
			if end.Before(*start) {
				apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "end_date precedes start_date", nil)
				return
			}
			dateRange = &domain.DateRange{StartDate: *start, EndDate: *end}
		}

		created, err := service.CreateJobsForAccount(accountID, dateRange, req.TierSweep)
		if err != nil {
			if errors.Is(err, syncing.ErrAccountNotFound) {
				apiErrors.WriteError(w, apiErrors.ErrAccountNotFound, "account not found", nil)
				return
			}
			logrus.WithField("account_id", accountID).WithError(err).Error("creating jobs")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "could not create jobs", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"created": created})
	}
}

// GetJob returns a single report job.
func GetJob(service syncing.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID := httprouter.ParamsFromContext(r.Context()).ByName("id")

		job, err := service.GetJob(jobID)
		if err != nil {
			if errors.Is(err, syncing.ErrJobNotFound) {
				apiErrors.WriteError(w, apiErrors.ErrJobNotFound, "report job not found", nil)
				return
			}
			logrus.WithField("job_id", jobID).WithError(err).Error("loading job")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "could not load job", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(job)
	}
}

// ListAccountJobs returns an account's jobs, newest first.
func ListAccountJobs(service syncing.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID := httprouter.ParamsFromContext(r.Context()).ByName("id")

		limit := 50
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 {
				apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "limit must be a positive integer", nil)
				return
			}
			limit = parsed
		}

		jobs, err := service.ListJobs(accountID, limit)
		if err != nil {
			if errors.Is(err, syncing.ErrAccountNotFound) {
				apiErrors.WriteError(w, apiErrors.ErrAccountNotFound, "account not found", nil)
				return
			}
			logrus.WithField("account_id", accountID).WithError(err).Error("listing jobs")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "could not list jobs", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"jobs": jobs})
	}
}

// RetryJobs reopens an account's failed jobs.
func RetryJobs(service syncing.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID := httprouter.ParamsFromContext(r.Context()).ByName("id")

		retried, err := service.RetryFailedJobs(accountID)
		if err != nil {
			if errors.Is(err, syncing.ErrAccountNotFound) {
				apiErrors.WriteError(w, apiErrors.ErrAccountNotFound, "account not found", nil)
				return
			}
			logrus.WithField("account_id", accountID).WithError(err).Error("retrying jobs")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "could not retry jobs", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"retried": retried})
	}
}

// GetSyncStats reports the account's pipeline state and sync mode.
func GetSyncStats(service syncing.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID := httprouter.ParamsFromContext(r.Context()).ByName("id")

		stats, err := service.GetSyncStats(accountID)
		if err != nil {
			if errors.Is(err, syncing.ErrAccountNotFound) {
				apiErrors.WriteError(w, apiErrors.ErrAccountNotFound, "account not found", nil)
				return
			}
			logrus.WithField("account_id", accountID).WithError(err).Error("loading sync stats")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "could not load sync stats", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(stats)
	}
}
