package civic

import "time"

// SubmitQuestionRequest represents a citizen question submission
type SubmitQuestionRequest struct {
	RepresentativeName string `json:"representative_name" binding:"required"`
	Constituency       string `json:"constituency" binding:"required"`
	Question           string `json:"question" binding:"required"`
}

// SubmitQuestionResult is returned once a form has been provisioned. Notified
// reports whether the representative was actually emailed; a false value with
// a non-empty NotificationError still means the question counts as asked.
type SubmitQuestionResult struct {
	FormID            string `json:"form_id"`
	FormURL           string `json:"form_url"`
	Notified          bool   `json:"notified"`
	NotificationError string `json:"notification_error,omitempty"`
}

// ReconcileFailure describes one form id that could not be settled during a
// reconciliation pass. The form stays outstanding for the next pass.
type ReconcileFailure struct {
	RepresentativeName string `json:"representative_name"`
	Constituency       string `json:"constituency"`
	FormID             string `json:"form_id"`
	Reason             string `json:"reason"`
}

// ReconcileReport summarizes one reconciliation pass
type ReconcileReport struct {
	RepresentativesChecked int                `json:"representatives_checked"`
	FormsChecked           int                `json:"forms_checked"`
	UpdatedCount           int                `json:"updated_count"`
	Failures               []ReconcileFailure `json:"failures,omitempty"`
}

// ReconciledResponse is one (question, response) tuple from the record store
type ReconciledResponse struct {
	RepresentativeName string     `json:"representative_name"`
	Constituency       string     `json:"constituency"`
	Question           string     `json:"question"`
	Response           *string    `json:"response"`
	Responded          bool       `json:"responded"`
	AskedAt            time.Time  `json:"asked_at"`
	RespondedAt        *time.Time `json:"responded_at,omitempty"`
}

// FormStatusResult describes the current state of a single provisioned form
type FormStatusResult struct {
	FormID             string     `json:"form_id"`
	RepresentativeName string     `json:"representative_name"`
	Constituency       string     `json:"constituency"`
	Question           string     `json:"question"`
	Responded          bool       `json:"responded"`
	Response           *string    `json:"response,omitempty"`
	RespondedAt        *time.Time `json:"responded_at,omitempty"`
	ResponseCount      int        `json:"response_count"`
	FromCache          bool       `json:"from_cache"`
}

// RepresentativeDTO represents a directory entry with its counters
type RepresentativeDTO struct {
	Name              string   `json:"name"`
	Constituency      string   `json:"constituency"`
	Email             string   `json:"email"`
	QuestionsAsked    int      `json:"questions_asked"`
	QuestionsAnswered int      `json:"questions_answered"`
	OutstandingForms  []string `json:"outstanding_forms"`
}

// CreateRepresentativeRequest seeds a new directory entry
type CreateRepresentativeRequest struct {
	Name         string `json:"name" binding:"required"`
	Constituency string `json:"constituency" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
}
