package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Difficulty levels a question may carry.
const (
	DifficultyBasic    = 1
	DifficultyWorking  = 2
	DifficultyAdvanced = 3
)

// Question is a catalog entry identified by (Suite, Code).
// Rows are never hard-deleted: a question removed from the source is
// deactivated so that historical answers keep a valid reference.
type Question struct {
	ID         uuid.UUID
	Suite      string
	Code       string // stable code within the suite, e.g. "mos_001"
	Text       string
	Topic      *string
	Difficulty int
	IsActive   bool
	UpdatedAt  time.Time
}

// QuestionRecord is one row of an external catalog source after parsing,
// already trimmed and with Difficulty normalized to 1..3.
type QuestionRecord struct {
	Suite      string
	Code       string
	Text       string
	Topic      *string
	Difficulty int
}

// QuestionUpdateParams holds the fields the reconciler may change on an
// existing question.
type QuestionUpdateParams struct {
	Text       string
	Topic      *string
	Difficulty int
	IsActive   bool
}

// NormalizeDifficulty maps a raw source token to a difficulty level.
// Accepts both numeric tokens and the legacy labels; anything unrecognized
// falls back to DifficultyBasic.
func NormalizeDifficulty(raw string) int {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "базовый":
		return DifficultyBasic
	case "2", "рабочий":
		return DifficultyWorking
	case "3", "сложный":
		return DifficultyAdvanced
	default:
		return DifficultyBasic
	}
}

// Differs reports whether applying the record would change the question.
// An inactive question always differs: a code present in the source must
// be reactivated.
func (q *Question) Differs(rec QuestionRecord) bool {
	if q.Text != rec.Text || q.Difficulty != rec.Difficulty || !q.IsActive {
		return true
	}
	return !equalTopic(q.Topic, rec.Topic)
}

func equalTopic(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
