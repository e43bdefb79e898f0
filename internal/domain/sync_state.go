package domain

import "time"

// SyncMode selects how the engine plans jobs for an account.
type SyncMode string

const (
	// SyncModeInitialization backfills the trailing year of history.
	SyncModeInitialization SyncMode = "initialization"
	// SyncModeIncremental ingests yesterday plus attribution re-checks.
	SyncModeIncremental SyncMode = "incremental"
)

// SyncState is the per-account sync bookkeeping. Created on onboarding,
// mutated by the sync-mode selector, never deleted while the account exists.
type SyncState struct {
	AccountID           string     `json:"account_id"`
	Mode                SyncMode   `json:"mode"`
	BackfillCompleted   bool       `json:"backfill_completed"`
	BackfillCompletedAt *time.Time `json:"backfill_completed_at,omitempty"`
	LastFullWalkAt      *time.Time `json:"last_full_walk_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// SyncStats is the aggregate view of an account's pipeline exposed on the
// control surface.
type SyncStats struct {
	AccountID           string   `json:"account_id"`
	Mode                SyncMode `json:"mode"`
	PendingTasks        int      `json:"pending_tasks"`
	CompletedTasks      int      `json:"completed_tasks"`
	FailedTasks         int      `json:"failed_tasks"`
	EstimatedDailyTasks int      `json:"estimated_daily_tasks"`
}

// Claims carries the authenticated caller of the control surface.
type Claims struct {
	Subject string `json:"sub"`
	Role    string `json:"role"`
}

// RoleAdmin may operate the scheduler and create jobs.
const RoleAdmin = "admin"
