// Package answer implements the Answer snapshot repository using PostgreSQL.
// Answers are append-only: there is no update or delete here. Rows disappear
// only through the session FK cascade; deleting a question sets question_id
// to NULL without touching the snapshot text.
package answer

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/rpshnkv/trainerbot/internal/adapter/postgres"
	"github.com/rpshnkv/trainerbot/internal/domain"
)

// Repo provides answer snapshot persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new answer repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const answerColumns = "id, session_id, question_id, question_text_snapshot, answer_text, created_at"

const createSQL = `
INSERT INTO answers (id, session_id, question_id, question_text_snapshot, answer_text)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + answerColumns

const listBySessionSQL = `
SELECT ` + answerColumns + `
FROM answers
WHERE session_id = $1
ORDER BY created_at ASC, id ASC`

const countBySessionSQL = `
SELECT count(*) FROM answers WHERE session_id = $1`

// Create appends one immutable answer snapshot.
// Returns domain.ErrNotFound when the session FK does not resolve.
func (r *Repo) Create(ctx context.Context, a *domain.Answer) (*domain.Answer, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, createSQL,
		uuid.New(), a.SessionID, ptrUUIDToPgUUID(a.QuestionID), a.QuestionTextSnapshot, a.AnswerText,
	)

	created, err := scanAnswer(row)
	if err != nil {
		return nil, postgres.MapError(err, "answer", a.SessionID)
	}

	return created, nil
}

// ListBySession returns a session's answers in creation order.
// Returns an empty slice (not nil) when the session has no answers.
func (r *Repo) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*domain.Answer, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listBySessionSQL, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list answers by session: %w", err)
	}
	defer rows.Close()

	var result []*domain.Answer
	for rows.Next() {
		a, err := scanAnswer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if result == nil {
		result = []*domain.Answer{}
	}

	return result, nil
}

// CountBySession returns the number of answers recorded for a session.
func (r *Repo) CountBySession(ctx context.Context, sessionID uuid.UUID) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var count int
	if err := querier.QueryRow(ctx, countBySessionSQL, sessionID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count answers by session: %w", err)
	}

	return count, nil
}

// ---------------------------------------------------------------------------
// Row scanning helpers
// ---------------------------------------------------------------------------

func scanAnswer(row pgx.Row) (*domain.Answer, error) {
	var (
		a          domain.Answer
		questionID pgtype.UUID
	)

	if err := row.Scan(&a.ID, &a.SessionID, &questionID, &a.QuestionTextSnapshot, &a.AnswerText, &a.CreatedAt); err != nil {
		return nil, err
	}

	if questionID.Valid {
		id := uuid.UUID(questionID.Bytes)
		a.QuestionID = &id
	}

	return &a, nil
}

// ptrUUIDToPgUUID converts a *uuid.UUID to pgtype.UUID (nil -> NULL).
func ptrUUIDToPgUUID(id *uuid.UUID) pgtype.UUID {
	if id == nil {
		return pgtype.UUID{}
	}
	return pgtype.UUID{Bytes: *id, Valid: true}
}
