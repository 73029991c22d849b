package civic

import (
	"context"
	"time"
)

// RepresentativeRepository defines the interface for representative persistence
type RepresentativeRepository interface {
	// FindByIdentity finds a representative by its (name, constituency) pair
	FindByIdentity(ctx context.Context, name, constituency string) (*Representative, error)

	// FindAll returns every representative in the directory
	FindAll(ctx context.Context) ([]Representative, error)

	// Save creates or updates a representative. Updates carry an optimistic
	// version check and return shared.ErrConcurrencyConflict when the row
	// changed underneath the caller.
	Save(ctx context.Context, rep *Representative) error
}

// AnswerUpdate carries the fields written when a form's response is recorded.
type AnswerUpdate struct {
	RepresentativeName string
	Constituency       string
	Question           string
	Response           string
	RespondedAt        time.Time
}

// QuestionRecordRepository defines the interface for question record persistence
type QuestionRecordRepository interface {
	// Create persists a new (unanswered) question record
	Create(ctx context.Context, record *QuestionRecord) error

	// FindByFormID finds a record by its external form id
	FindByFormID(ctx context.Context, formID string) (*QuestionRecord, error)

	// UpsertAnswerByFormID records a response for the given form id,
	// creating the record if it does not exist. Safe to repeat.
	UpsertAnswerByFormID(ctx context.Context, formID string, update AnswerUpdate) error

	// FindAll returns every question record
	FindAll(ctx context.Context) ([]QuestionRecord, error)
}
