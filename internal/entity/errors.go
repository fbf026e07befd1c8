package entity

import "errors"

// Base error kinds surfaced to callers.
var (
	ErrInvalidPayload   = errors.New("invalid payload")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNotFound         = errors.New("not found")
)

// Domain errors for exams, library and planning aggregates.
var (
	ErrInvalidExamType   = wrapKind(ErrInvalidPayload, "invalid exam type")
	ErrInvalidStudyField = wrapKind(ErrInvalidPayload, "invalid study field")
	ErrUnknownSubject    = wrapKind(ErrInvalidPayload, "unknown subject code")
	ErrNegativeCount     = wrapKind(ErrInvalidPayload, "answer counts must not be negative")
	ErrNoScoredSubjects  = wrapKind(ErrInvalidPayload, "no subject has any answers")
	ErrInvalidBook       = wrapKind(ErrInvalidPayload, "title and total units are required")
	ErrInvalidProgress   = wrapKind(ErrInvalidPayload, "progress out of range")
	ErrInvalidUnit       = wrapKind(ErrInvalidPayload, "unit name is required")
	ErrInvalidBookTest   = wrapKind(ErrInvalidPayload, "invalid test answer counts")
	ErrInvalidGoal       = wrapKind(ErrInvalidPayload, "title is required")
	ErrInvalidGoalType   = wrapKind(ErrInvalidPayload, "invalid goal type")
	ErrInvalidDuration   = wrapKind(ErrInvalidPayload, "duration must be greater than 0")
	ErrInvalidFilter     = wrapKind(ErrInvalidPayload, "invalid list filter")

	ErrExamNotFound    = wrapKind(ErrNotFound, "exam not found")
	ErrBookNotFound    = wrapKind(ErrNotFound, "book not found")
	ErrUnitNotFound    = wrapKind(ErrNotFound, "unit not found")
	ErrTestNotFound    = wrapKind(ErrNotFound, "test not found")
	ErrGoalNotFound    = wrapKind(ErrNotFound, "goal not found")
	ErrSessionNotFound = wrapKind(ErrNotFound, "study session not found")
	ErrSubjectNotFound = wrapKind(ErrNotFound, "subject not found")
)

// kindError keeps its own message while matching the broader kind with errors.Is.
type kindError struct {
	kind error
	msg  string
}

func wrapKind(kind error, msg string) error { return &kindError{kind: kind, msg: msg} }

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }
