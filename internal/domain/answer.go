package domain

import (
	"time"

	"github.com/google/uuid"
)

// Answer is an immutable snapshot of what the user typed for a question.
// QuestionTextSnapshot preserves the exact wording shown at answer time so
// the record stays meaningful after catalog edits. QuestionID is nil when
// the draft was captured past the end of the question list, or after the
// referenced question row was deleted (FK SET NULL).
type Answer struct {
	ID                   uuid.UUID
	SessionID            uuid.UUID
	QuestionID           *uuid.UUID
	QuestionTextSnapshot string
	AnswerText           string
	CreatedAt            time.Time
}
