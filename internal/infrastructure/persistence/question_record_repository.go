package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/civicconnect/backend/internal/domain/civic"
	"github.com/civicconnect/backend/internal/domain/shared"
)

// GormQuestionRecordRepository implements QuestionRecordRepository using GORM
type GormQuestionRecordRepository struct {
	db *gorm.DB
}

// NewGormQuestionRecordRepository creates a new GormQuestionRecordRepository
func NewGormQuestionRecordRepository(db *gorm.DB) *GormQuestionRecordRepository {
	return &GormQuestionRecordRepository{db: db}
}

// Create persists a new (unanswered) question record
func (r *GormQuestionRecordRepository) Create(ctx context.Context, record *civic.QuestionRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// FindByFormID finds a record by its external form id
func (r *GormQuestionRecordRepository) FindByFormID(ctx context.Context, formID string) (*civic.QuestionRecord, error) {
	var record civic.QuestionRecord
	if err := r.db.WithContext(ctx).
		Where("form_id = ?", formID).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// UpsertAnswerByFormID records a response for the given form id. An existing
// answered record is left untouched, so repeating the upsert after a partial
// reconciliation failure cannot overwrite an already recorded answer. A
// missing record is created answered, which covers records lost to a failed
// create on the submission path.
func (r *GormQuestionRecordRepository) UpsertAnswerByFormID(ctx context.Context, formID string, update civic.AnswerUpdate) error {
	record, err := r.FindByFormID(ctx, formID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		fresh := &civic.QuestionRecord{
			BaseAggregateRoot:  shared.NewBaseAggregateRoot(),
			FormID:             formID,
			RepresentativeName: update.RepresentativeName,
			Constituency:       update.Constituency,
			Question:           update.Question,
			AskedAt:            update.RespondedAt,
		}
		fresh.MarkAnswered(update.Response, update.RespondedAt)
		return r.db.WithContext(ctx).Create(fresh).Error
	}

	if record.IsAnswered() {
		return nil
	}

	record.MarkAnswered(update.Response, update.RespondedAt)
	result := r.db.WithContext(ctx).
		Model(&civic.QuestionRecord{}).
		Where("form_id = ? AND responded = ?", formID, false).
		Select("responded", "response", "responded_at", "version", "updated_at").
		Updates(record)
	if result.Error != nil {
		return result.Error
	}
	// zero rows means a concurrent pass already answered it; the record
	// transition is terminal either way
	return nil
}

// FindAll returns every question record
func (r *GormQuestionRecordRepository) FindAll(ctx context.Context) ([]civic.QuestionRecord, error) {
	var records []civic.QuestionRecord
	if err := r.db.WithContext(ctx).
		Order("asked_at asc").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
