package civic

import (
	"strings"
	"time"

	"github.com/civicconnect/backend/internal/domain/shared"
)

// QuestionRecord is the authoritative record of a single citizen question and
// its eventual response. Identity is the externally assigned form id. The
// representative fields are a denormalized snapshot taken at creation time,
// not a live reference.
//
// A record makes a single transition, unanswered to answered; it never
// transitions back.
type QuestionRecord struct {
	shared.BaseAggregateRoot
	FormID             string     `gorm:"type:varchar(100);not null;uniqueIndex"`
	RepresentativeName string     `gorm:"type:varchar(200);not null"`
	Constituency       string     `gorm:"type:varchar(200);not null"`
	Question           string     `gorm:"type:text;not null"`
	AskedAt            time.Time  `gorm:"not null"`
	Responded          bool       `gorm:"not null;default:false"`
	Response           *string    `gorm:"type:text"`
	RespondedAt        *time.Time `gorm:""`
}

// TableName returns the table name for GORM
func (QuestionRecord) TableName() string {
	return "question_records"
}

// NewQuestionRecord creates an unanswered record for a freshly provisioned form.
func NewQuestionRecord(formID, representativeName, constituency, question string) (*QuestionRecord, error) {
	if strings.TrimSpace(formID) == "" {
		return nil, shared.NewDomainError("INVALID_FORM_ID", "Form ID cannot be empty")
	}
	if strings.TrimSpace(representativeName) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Representative name cannot be empty")
	}
	if strings.TrimSpace(constituency) == "" {
		return nil, shared.NewDomainError("INVALID_CONSTITUENCY", "Constituency cannot be empty")
	}
	if strings.TrimSpace(question) == "" {
		return nil, shared.NewDomainError("INVALID_QUESTION", "Question text cannot be empty")
	}

	return &QuestionRecord{
		BaseAggregateRoot:  shared.NewBaseAggregateRoot(),
		FormID:             formID,
		RepresentativeName: representativeName,
		Constituency:       constituency,
		Question:           question,
		AskedAt:            time.Now(),
	}, nil
}

// MarkAnswered records the response. Marking an already answered record is a
// no-op so that at-least-once reconciliation retries stay safe.
func (q *QuestionRecord) MarkAnswered(response string, respondedAt time.Time) {
	if q.Responded {
		return
	}
	q.Responded = true
	q.Response = &response
	q.RespondedAt = &respondedAt
	q.UpdatedAt = time.Now()
	q.IncrementVersion()
}

// IsAnswered reports whether a response has been recorded.
func (q *QuestionRecord) IsAnswered() bool {
	return q.Responded
}

// ResponseText returns the recorded response, or the empty string when the
// record is still unanswered.
func (q *QuestionRecord) ResponseText() string {
	if q.Response == nil {
		return ""
	}
	return *q.Response
}
