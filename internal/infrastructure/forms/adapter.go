package forms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/civicconnect/backend/internal/domain/civic"
)

// maxResponseSize is the maximum allowed response size from the Forms API (10MB)
const maxResponseSize = 10 * 1024 * 1024

// Errors surfaced by the Forms API adapter
var (
	ErrFormsUnavailable     = errors.New("forms: provider unreachable")
	ErrFormsRequestFailed   = errors.New("forms: request failed")
	ErrFormsInvalidResponse = errors.New("forms: invalid response")
)

// GoogleFormsAdapter implements civic.FormProvider and civic.ResponseSource
// against the Google Forms REST API. A provisioned form carries the question
// as a single required paragraph item.
type GoogleFormsAdapter struct {
	config     *GoogleFormsConfig
	httpClient *http.Client
}

// NewGoogleFormsAdapter creates a new Forms API adapter with the given configuration
func NewGoogleFormsAdapter(config *GoogleFormsConfig) (*GoogleFormsAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &GoogleFormsAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
	}, nil
}

// CreateForm provisions a new form titled after the representative and adds
// the citizen's question as its only item. The create call is the point of no
// return; a failure in the follow-up batchUpdate still returns the form so the
// caller's bookkeeping can track it.
func (a *GoogleFormsAdapter) CreateForm(ctx context.Context, title, description string) (*civic.ProvisionedForm, error) {
	body, err := a.doRequest(ctx, http.MethodPost, "/v1/forms", createFormRequest{
		Info: formInfo{Title: title, DocumentTitle: title},
	})
	if err != nil {
		return nil, err
	}

	var form formResource
	if err := json.Unmarshal(body, &form); err != nil {
		return nil, fmt.Errorf("%w: failed to parse create response: %v", ErrFormsInvalidResponse, err)
	}
	if form.FormID == "" {
		return nil, fmt.Errorf("%w: create response missing form id", ErrFormsInvalidResponse)
	}

	provisioned := &civic.ProvisionedForm{
		FormID:  form.FormID,
		FormURL: form.ResponderURI,
	}
	if provisioned.FormURL == "" {
		provisioned.FormURL = fmt.Sprintf("https://docs.google.com/forms/d/%s/viewform", form.FormID)
	}

	update := batchUpdateRequest{
		Requests: []updateRequest{
			{
				UpdateFormInfo: &updateFormInfoRequest{
					Info:       formInfo{Description: description},
					UpdateMask: "description",
				},
			},
			{
				CreateItem: &createItemRequest{
					Item: item{
						Title: "Your response",
						QuestionItem: questionItem{
							Question: question{
								Required:     true,
								TextQuestion: textQuestion{Paragraph: true},
							},
						},
					},
					Location: location{Index: 0},
				},
			},
		},
	}

	path := fmt.Sprintf("/v1/forms/%s:batchUpdate", url.PathEscape(form.FormID))
	if _, err := a.doRequest(ctx, http.MethodPost, path, update); err != nil {
		return nil, fmt.Errorf("forms: form %s created but question setup failed: %w", form.FormID, err)
	}

	return provisioned, nil
}

// ListResponses returns every submission to the form, oldest first. The API
// pages results; all pages are drained before returning.
func (a *GoogleFormsAdapter) ListResponses(ctx context.Context, formID string) ([]civic.FormResponse, error) {
	if formID == "" {
		return nil, fmt.Errorf("%w: empty form id", ErrFormsRequestFailed)
	}

	var responses []civic.FormResponse
	pageToken := ""
	for {
		path := fmt.Sprintf("/v1/forms/%s/responses", url.PathEscape(formID))
		if pageToken != "" {
			path += "?pageToken=" + url.QueryEscape(pageToken)
		}

		body, err := a.doRequest(ctx, http.MethodGet, path, nil)
		if err != nil {
			return nil, err
		}

		var page listResponsesResponse
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("%w: failed to parse responses: %v", ErrFormsInvalidResponse, err)
		}

		responses = append(responses, page.Responses...)
		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	// API list order is preserved; callers treat the last element as the
	// latest submission
	return responses, nil
}

// doRequest performs an HTTP request against the Forms API
func (a *GoogleFormsAdapter) doRequest(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("forms: failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.config.APIBaseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("forms: failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+a.config.AccessToken)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormsUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("forms: failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: HTTP %d", ErrFormsRequestFailed, resp.StatusCode)
	}

	return body, nil
}

// Ensure GoogleFormsAdapter implements the civic ports
var (
	_ civic.FormProvider   = (*GoogleFormsAdapter)(nil)
	_ civic.ResponseSource = (*GoogleFormsAdapter)(nil)
)
