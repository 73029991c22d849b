package civic

import (
	"strings"
	"time"

	"github.com/civicconnect/backend/internal/domain/shared"
)

// Representative is the aggregate root for a public representative tracked by
// the AskYourNeta workflow. Identity is the (name, constituency) pair, which
// is assumed unique together. The aggregate owns the asked/answered counters
// and the set of outstanding response forms awaiting reconciliation.
type Representative struct {
	shared.BaseAggregateRoot
	Name              string    `gorm:"type:varchar(200);not null;uniqueIndex:idx_representative_identity,priority:1"`
	Constituency      string    `gorm:"type:varchar(200);not null;uniqueIndex:idx_representative_identity,priority:2"`
	Email             string    `gorm:"type:varchar(200);not null"`
	QuestionsAsked    int       `gorm:"not null;default:0"`
	QuestionsAnswered int       `gorm:"not null;default:0"`
	OutstandingForms  FormIDSet `gorm:"type:jsonb;serializer:json"`
}

// TableName returns the table name for GORM
func (Representative) TableName() string {
	return "representatives"
}

// NewRepresentative creates a representative. Representatives are seed data;
// this constructor exists for seeding and tests rather than a request path.
func NewRepresentative(name, constituency, email string) (*Representative, error) {
	name = strings.TrimSpace(name)
	constituency = strings.TrimSpace(constituency)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Representative name cannot be empty")
	}
	if constituency == "" {
		return nil, shared.NewDomainError("INVALID_CONSTITUENCY", "Constituency cannot be empty")
	}
	if email == "" {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Representative email cannot be empty")
	}

	return &Representative{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Constituency:      constituency,
		Email:             email,
		OutstandingForms:  FormIDSet{},
	}, nil
}

// RecordQuestionAsked registers a newly provisioned form against this
// representative. The operation is idempotent by form id: re-recording a form
// id that is already outstanding neither double-increments the asked counter
// nor duplicates the set entry.
func (r *Representative) RecordQuestionAsked(formID string) error {
	if formID == "" {
		return shared.NewDomainError("INVALID_FORM_ID", "Form ID cannot be empty")
	}
	if r.OutstandingForms.Contains(formID) {
		return nil
	}

	r.OutstandingForms = r.OutstandingForms.Add(formID)
	r.QuestionsAsked++
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

// ApplyReconciliation folds a reconciliation outcome into the aggregate.
// answeredByForm maps a form id to the number of responses observed for it.
// Only form ids still present in the outstanding set are counted, so a retry
// after an optimistic-save conflict cannot double-count a form another pass
// already settled. Returns the number of form ids actually applied.
func (r *Representative) ApplyReconciliation(answeredByForm map[string]int) int {
	applied := 0
	for formID, responses := range answeredByForm {
		if responses <= 0 || !r.OutstandingForms.Contains(formID) {
			continue
		}
		r.OutstandingForms = r.OutstandingForms.Remove(formID)
		r.QuestionsAnswered += responses
		applied++
	}
	if applied > 0 {
		r.UpdatedAt = time.Now()
		r.IncrementVersion()
	}
	return applied
}

// HasConsistentCounts reports whether the asked counter is at least the
// answered counter, the invariant reconciliation converges towards.
func (r *Representative) HasConsistentCounts() bool {
	return r.QuestionsAsked >= r.QuestionsAnswered
}

// OutstandingCount returns the number of forms awaiting a response.
func (r *Representative) OutstandingCount() int {
	return len(r.OutstandingForms)
}
