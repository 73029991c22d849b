package civic

import (
	"context"
	"time"
)

// ProvisionedForm is the result of creating an external response form.
type ProvisionedForm struct {
	FormID  string
	FormURL string
}

// FormProvider provisions a single-question response form with an external
// provider. Provisioning is the irreversible side effect of question
// submission: once a form id exists, local bookkeeping must follow.
type FormProvider interface {
	CreateForm(ctx context.Context, title, description string) (*ProvisionedForm, error)
}

// Notifier delivers a formatted message to a recipient address. Delivery is
// best-effort on the submission path; a send failure never rolls back
// provisioning or bookkeeping.
type Notifier interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// TextAnswer is a single free-text value inside a form response.
type TextAnswer struct {
	Value string `json:"value"`
}

// TextAnswers wraps the free-text values for one answered question.
type TextAnswers struct {
	Answers []TextAnswer `json:"answers"`
}

// Answer is the response payload for one form question, keyed by question id
// in FormResponse.Answers. The shape mirrors the provider's wire format.
type Answer struct {
	QuestionID  string      `json:"questionId,omitempty"`
	TextAnswers TextAnswers `json:"textAnswers"`
}

// FormResponse is one submission to a provisioned form.
type FormResponse struct {
	ResponseID  string            `json:"responseId"`
	Answers     map[string]Answer `json:"answers"`
	SubmittedAt time.Time         `json:"createTime"`
}

// ResponseSource reports submissions to a provisioned form. Responses are
// returned in the provider's submission order; the reconciliation engine
// treats the last element as the most recent.
type ResponseSource interface {
	ListResponses(ctx context.Context, formID string) ([]FormResponse, error)
}
