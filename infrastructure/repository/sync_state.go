package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/tuobayong1988/amazon-ads-optimizer-sub009/infrastructure/database/postgres"
	"github.com/tuobayong1988/amazon-ads-optimizer-sub009/internal/domain"
)

const (
	syncStatesTable = "sync_states ss"
)

type SyncStateRepository interface {
	Get(accountID string) (*domain.SyncState, error)
	SaveOrUpdate(state *domain.SyncState) error
	MarkBackfillCompleted(accountID string, at time.Time) error
	SetLastFullWalk(accountID string, at time.Time) error
}

type syncStateRepository struct {
	conn *postgres.Connection
}

func NewSyncStateRepository(conn *postgres.Connection) SyncStateRepository {
	return &syncStateRepository{
		conn: conn,
	}
}

func (r *syncStateRepository) Get(accountID string) (*domain.SyncState, error) {
	query, args, err := squirrel.
		Select(`ss.account_id, ss.mode, ss.backfill_completed, ss.backfill_completed_at,
			ss.last_full_walk_at, ss.created_at, ss.updated_at`).
		From(syncStatesTable).
		Where(squirrel.Eq{"ss.account_id": accountID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	row := r.conn.QueryRow(query, args...)

	state := &domain.SyncState{}
	err = row.Scan(
		&state.AccountID,
		&state.Mode,
		&state.BackfillCompleted,
		&state.BackfillCompletedAt,
		&state.LastFullWalkAt,
		&state.CreatedAt,
		&state.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scanning sync state: %w", err)
	}

	return state, nil
}

func (r *syncStateRepository) SaveOrUpdate(state *domain.SyncState) error {
	query, args, err := squirrel.StatementBuilder.
		Insert("sync_states").
		Columns("account_id", "mode", "backfill_completed", "backfill_completed_at", "last_full_walk_at").
		Values(
			state.AccountID,
			state.Mode,
			state.BackfillCompleted,
			state.BackfillCompletedAt,
			state.LastFullWalkAt,
		).
		Suffix(`
			ON CONFLICT (account_id) DO UPDATE SET
				mode = EXCLUDED.mode,
				backfill_completed = EXCLUDED.backfill_completed,
				backfill_completed_at = EXCLUDED.backfill_completed_at,
				last_full_walk_at = EXCLUDED.last_full_walk_at,
				updated_at = NOW()
		`).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("building query: %w", err)
	}

	if _, err := r.conn.Exec(query, args...); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("database error: %w (code: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("saving sync state: %w", err)
	}

	return nil
}

func (r *syncStateRepository) MarkBackfillCompleted(accountID string, at time.Time) error {
	query, args, err := squirrel.
		Update("sync_states").
		Set("mode", domain.SyncModeIncremental).
		Set("backfill_completed", true).
		Set("backfill_completed_at", at).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"account_id": accountID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("building query: %w", err)
	}

	if _, err := r.conn.Exec(query, args...); err != nil {
		return fmt.Errorf("marking backfill completed: %w", err)
	}

	return nil
}

func (r *syncStateRepository) SetLastFullWalk(accountID string, at time.Time) error {
	query, args, err := squirrel.
		Update("sync_states").
		Set("last_full_walk_at", at).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"account_id": accountID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("building query: %w", err)
	}

	if _, err := r.conn.Exec(query, args...); err != nil {
		return fmt.Errorf("setting last full walk: %w", err)
	}

	return nil
}
