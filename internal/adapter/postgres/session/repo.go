// Package session implements the TrainingSession repository using PostgreSQL.
// All queries use raw SQL. The flow engine serializes concurrent operations
// on one session via GetByIDForUpdate (row-level lock inside the transaction).
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/rpshnkv/trainerbot/internal/adapter/postgres"
	"github.com/rpshnkv/trainerbot/internal/domain"
)

// Repo provides training session persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new session repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// SQL constants
// ---------------------------------------------------------------------------

const sessionColumns = "id, user_id, suite, status, current_index, draft_answer, started_at, finished_at"

const createSQL = `
INSERT INTO training_sessions (id, user_id, suite, status, current_index, started_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + sessionColumns

const getByIDSQL = `
SELECT ` + sessionColumns + `
FROM training_sessions
WHERE id = $1`

const getByIDForUpdateSQL = getByIDSQL + `
FOR UPDATE`

const getInProgressByUserSQL = `
SELECT ` + sessionColumns + `
FROM training_sessions
WHERE user_id = $1 AND status = 'IN_PROGRESS'
ORDER BY started_at DESC
LIMIT 1`

const cancelInProgressByUserSQL = `
UPDATE training_sessions
SET status = 'CANCELED', finished_at = $2, draft_answer = NULL
WHERE user_id = $1 AND status = 'IN_PROGRESS'`

const setDraftSQL = `
UPDATE training_sessions
SET draft_answer = $2
WHERE id = $1 AND status = 'IN_PROGRESS'`

const advanceSQL = `
UPDATE training_sessions
SET current_index = $2, draft_answer = NULL
WHERE id = $1 AND status = 'IN_PROGRESS'`

const finishSQL = `
UPDATE training_sessions
SET status = 'FINISHED', finished_at = $2, draft_answer = NULL
WHERE id = $1 AND status = 'IN_PROGRESS'
RETURNING ` + sessionColumns

const listByUserSQL = `
SELECT ` + sessionColumns + `
FROM training_sessions
WHERE user_id = $1
ORDER BY started_at DESC
LIMIT $2 OFFSET $3`

const countByUserSQL = `
SELECT count(*) FROM training_sessions WHERE user_id = $1`

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns a session by primary key.
// Returns domain.ErrNotFound if the session does not exist.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.TrainingSession, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	s, err := scanSession(querier.QueryRow(ctx, getByIDSQL, id))
	if err != nil {
		return nil, postgres.MapError(err, "session", id)
	}

	return s, nil
}

// GetByIDForUpdate returns a session and locks its row until the surrounding
// transaction ends. Must only be called inside RunInTx: two concurrent
// next/finish calls on one session serialize on this lock, so a draft is
// never materialized twice.
func (r *Repo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.TrainingSession, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	s, err := scanSession(querier.QueryRow(ctx, getByIDForUpdateSQL, id))
	if err != nil {
		return nil, postgres.MapError(err, "session", id)
	}

	return s, nil
}

// GetInProgressByUser returns the user's current IN_PROGRESS session.
// Returns domain.ErrNotFound when the user has none.
func (r *Repo) GetInProgressByUser(ctx context.Context, userID int64) (*domain.TrainingSession, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	s, err := scanSession(querier.QueryRow(ctx, getInProgressByUserSQL, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("in-progress session for user %d: %w", userID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get in-progress session for user %d: %w", userID, err)
	}

	return s, nil
}

// ListByUser returns a user's sessions, newest first, with total count.
func (r *Repo) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*domain.TrainingSession, int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var total int
	if err := querier.QueryRow(ctx, countByUserSQL, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sessions by user_id: %w", err)
	}

	rows, err := querier.Query(ctx, listByUserSQL, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list sessions by user_id: %w", err)
	}
	defer rows.Close()

	var result []*domain.TrainingSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan session: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if result == nil {
		result = []*domain.TrainingSession{}
	}

	return result, total, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new session and returns the persisted row.
func (r *Repo) Create(ctx context.Context, s *domain.TrainingSession) (*domain.TrainingSession, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, createSQL,
		s.ID, s.UserID, s.Suite, s.Status.String(), s.CurrentIndex, s.StartedAt,
	)

	created, err := scanSession(row)
	if err != nil {
		return nil, postgres.MapError(err, "session", s.ID)
	}

	return created, nil
}

// CancelInProgressByUser transitions every IN_PROGRESS session of the user
// to CANCELED with the given finish time. Returns the number of sessions
// canceled; 0 is not an error.
func (r *Repo) CancelInProgressByUser(ctx context.Context, userID int64, finishedAt time.Time) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, cancelInProgressByUserSQL, userID, finishedAt)
	if err != nil {
		return 0, fmt.Errorf("cancel in-progress sessions: %w", err)
	}

	return int(tag.RowsAffected()), nil
}

// SetDraft replaces the session's draft answer.
// Returns domain.ErrNotFound when the session is missing or not IN_PROGRESS;
// the status guard lives in the WHERE clause so a finished session can never
// regain a draft.
func (r *Repo) SetDraft(ctx context.Context, id uuid.UUID, draft string) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, setDraftSQL, id, draft)
	if err != nil {
		return postgres.MapError(err, "session", id)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("session %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// Advance moves the session to the given index and clears the draft.
func (r *Repo) Advance(ctx context.Context, id uuid.UUID, newIndex int) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, advanceSQL, id, newIndex)
	if err != nil {
		return postgres.MapError(err, "session", id)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("session %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// Finish transitions an IN_PROGRESS session to FINISHED and clears the draft.
// Returns domain.ErrNotFound when the session is missing or already terminal,
// so a double finish surfaces instead of silently succeeding.
func (r *Repo) Finish(ctx context.Context, id uuid.UUID, finishedAt time.Time) (*domain.TrainingSession, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	s, err := scanSession(querier.QueryRow(ctx, finishSQL, id, finishedAt))
	if err != nil {
		return nil, postgres.MapError(err, "session", id)
	}

	return s, nil
}

// ---------------------------------------------------------------------------
// Row scanning helpers
// ---------------------------------------------------------------------------

func scanSession(row pgx.Row) (*domain.TrainingSession, error) {
	var (
		s          domain.TrainingSession
		status     string
		draft      pgtype.Text
		finishedAt pgtype.Timestamptz
	)

	if err := row.Scan(&s.ID, &s.UserID, &s.Suite, &status, &s.CurrentIndex, &draft, &s.StartedAt, &finishedAt); err != nil {
		return nil, err
	}

	s.Status = domain.SessionStatus(status)
	if draft.Valid {
		s.DraftAnswer = &draft.String
	}
	if finishedAt.Valid {
		s.FinishedAt = &finishedAt.Time
	}

	return &s, nil
}
