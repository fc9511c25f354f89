// Package question implements the question catalog repository using PostgreSQL.
// Identity is (suite, code), enforced by a unique index. Rows are never
// deleted: the reconciler flips is_active instead so historical answers keep
// a valid reference.
package question

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/rpshnkv/trainerbot/internal/adapter/postgres"
	"github.com/rpshnkv/trainerbot/internal/domain"
)

// Repo provides question catalog persistence backed by PostgreSQL.
type Repo struct {
	pool    *pgxpool.Pool
	builder sq.StatementBuilderType
}

// New creates a new question repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{
		pool:    pool,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Filter restricts List results. Zero value lists a whole suite.
type Filter struct {
	Suite      string
	OnlyActive bool
	Topic      *string
	Difficulty *int
}

const questionColumns = "id, suite, code, text, topic, difficulty, is_active, updated_at"

// ---------------------------------------------------------------------------
// SQL constants for the fixed-shape queries
// ---------------------------------------------------------------------------

const getByIDSQL = `
SELECT ` + questionColumns + `
FROM questions
WHERE id = $1`

const createSQL = `
INSERT INTO questions (id, suite, code, text, topic, difficulty, is_active, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, TRUE, $7)
RETURNING ` + questionColumns

const updateSQL = `
UPDATE questions
SET text = $2, topic = $3, difficulty = $4, is_active = $5, updated_at = $6
WHERE id = $1`

const deactivateSQL = `
UPDATE questions
SET is_active = FALSE, updated_at = $2
WHERE id = $1 AND is_active`

const countActiveSQL = `
SELECT count(*) FROM questions WHERE suite = $1 AND is_active`

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns a question by primary key.
// Returns domain.ErrNotFound if the question does not exist.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Question, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	q, err := scanQuestion(querier.QueryRow(ctx, getByIDSQL, id))
	if err != nil {
		return nil, postgres.MapError(err, "question", id)
	}

	return q, nil
}

// List returns questions matching the filter, ordered by code ascending.
// The ordering is the session flow's question sequence, so it must stay
// stable and deterministic. Returns an empty slice (not nil) on no match.
func (r *Repo) List(ctx context.Context, f Filter) ([]*domain.Question, error) {
	query := r.builder.
		Select("id", "suite", "code", "text", "topic", "difficulty", "is_active", "updated_at").
		From("questions").
		Where(sq.Eq{"suite": f.Suite}).
		OrderBy("code ASC")

	if f.OnlyActive {
		query = query.Where(sq.Eq{"is_active": true})
	}
	if f.Topic != nil {
		query = query.Where(sq.Eq{"topic": *f.Topic})
	}
	if f.Difficulty != nil {
		query = query.Where(sq.Eq{"difficulty": *f.Difficulty})
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	return scanQuestions(rows)
}

// ListActive returns the suite's active questions ordered by code ascending.
// This is the exact sequence a training session walks through.
func (r *Repo) ListActive(ctx context.Context, suite string) ([]*domain.Question, error) {
	return r.List(ctx, Filter{Suite: suite, OnlyActive: true})
}

// ListBySuite returns every question of a suite, active or not.
// The reconciler diffs this set against the external source.
func (r *Repo) ListBySuite(ctx context.Context, suite string) ([]*domain.Question, error) {
	return r.List(ctx, Filter{Suite: suite})
}

// CountActive returns the number of active questions in a suite.
func (r *Repo) CountActive(ctx context.Context, suite string) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var count int
	if err := querier.QueryRow(ctx, countActiveSQL, suite).Scan(&count); err != nil {
		return 0, fmt.Errorf("count active questions: %w", err)
	}

	return count, nil
}

// ---------------------------------------------------------------------------
// Write operations (reconciler only)
// ---------------------------------------------------------------------------

// Create inserts a new active question from a source record.
// Returns domain.ErrAlreadyExists on a (suite, code) collision.
func (r *Repo) Create(ctx context.Context, rec domain.QuestionRecord) (*domain.Question, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, createSQL,
		uuid.New(), rec.Suite, rec.Code, rec.Text,
		ptrStringToPgText(rec.Topic), rec.Difficulty, time.Now().UTC(),
	)

	q, err := scanQuestion(row)
	if err != nil {
		return nil, postgres.MapError(err, "question", uuid.Nil)
	}

	return q, nil
}

// Update overwrites the mutable fields of an existing question.
// Returns domain.ErrNotFound when no row matched.
func (r *Repo) Update(ctx context.Context, id uuid.UUID, params domain.QuestionUpdateParams) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, updateSQL,
		id, params.Text, ptrStringToPgText(params.Topic),
		params.Difficulty, params.IsActive, time.Now().UTC(),
	)
	if err != nil {
		return postgres.MapError(err, "question", id)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("question %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// Deactivate retires a question from circulation without deleting it.
// A no-op when the question is already inactive (0 rows affected is OK).
func (r *Repo) Deactivate(ctx context.Context, id uuid.UUID) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	if _, err := querier.Exec(ctx, deactivateSQL, id, time.Now().UTC()); err != nil {
		return postgres.MapError(err, "question", id)
	}

	return nil
}

// ---------------------------------------------------------------------------
// Row scanning helpers
// ---------------------------------------------------------------------------

func scanQuestion(row pgx.Row) (*domain.Question, error) {
	var (
		q     domain.Question
		topic pgtype.Text
	)

	if err := row.Scan(&q.ID, &q.Suite, &q.Code, &q.Text, &topic, &q.Difficulty, &q.IsActive, &q.UpdatedAt); err != nil {
		return nil, err
	}

	if topic.Valid {
		q.Topic = &topic.String
	}

	return &q, nil
}

func scanQuestions(rows pgx.Rows) ([]*domain.Question, error) {
	var result []*domain.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if result == nil {
		result = []*domain.Question{}
	}

	return result, nil
}

// ptrStringToPgText converts a *string to pgtype.Text (nil -> NULL).
func ptrStringToPgText(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}
