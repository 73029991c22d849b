package civic

import (
	"context"
	"errors"
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/civicconnect/backend/internal/domain/civic"
	"github.com/civicconnect/backend/internal/domain/shared"
)

const (
	// sentinel stored when a response payload carries no readable answer;
	// a shape mismatch must not abort reconciliation
	noAnswerSentinel = "No answer"

	// attempts for optimistic-save retries on representative updates
	maxSaveAttempts = 3

	defaultQueryTimeout = 10 * time.Second
)

// QuestionService orchestrates the AskYourNeta question lifecycle: form
// provisioning, notification, and reconciliation against the external
// response source.
type QuestionService struct {
	reps         civic.RepresentativeRepository
	records      civic.QuestionRecordRepository
	forms        civic.FormProvider
	notifier     civic.Notifier
	responses    civic.ResponseSource
	cache        RegistryCache
	logger       *zap.Logger
	queryTimeout time.Duration
}

// NewQuestionService creates a new question lifecycle service
func NewQuestionService(
	reps civic.RepresentativeRepository,
	records civic.QuestionRecordRepository,
	forms civic.FormProvider,
	notifier civic.Notifier,
	responses civic.ResponseSource,
	cache RegistryCache,
	logger *zap.Logger,
	queryTimeout time.Duration,
) *QuestionService {
	if queryTimeout <= 0 {
		queryTimeout = defaultQueryTimeout
	}
	return &QuestionService{
		reps:         reps,
		records:      records,
		forms:        forms,
		notifier:     notifier,
		responses:    responses,
		cache:        cache,
		logger:       logger,
		queryTimeout: queryTimeout,
	}
}

// SubmitQuestion runs the creation path: directory lookup, form provisioning,
// bookkeeping, then a best-effort notification.
//
// The representative lookup runs before any external side effect, so an
// unknown representative never leaves an orphaned form behind. Once a form id
// exists the question counts as asked; a failed email surfaces in the result
// but never rolls the bookkeeping back.
func (s *QuestionService) SubmitQuestion(ctx context.Context, req SubmitQuestionRequest) (*SubmitQuestionResult, error) {
	name := strings.TrimSpace(req.RepresentativeName)
	constituency := strings.TrimSpace(req.Constituency)
	question := strings.TrimSpace(req.Question)
	if name == "" || constituency == "" || question == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Representative name, constituency and question are required")
	}

	rep, err := s.reps.FindByIdentity(ctx, name, constituency)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("REPRESENTATIVE_NOT_FOUND", fmt.Sprintf("No representative %q found for constituency %q", name, constituency))
		}
		return nil, err
	}

	title := fmt.Sprintf("RESPONSE NEEDED FROM %s", rep.Name)
	description := fmt.Sprintf("📣 %q\n\nFrom a citizen in %s.", question, rep.Constituency)

	form, err := s.forms.CreateForm(ctx, title, description)
	if err != nil {
		s.logger.Error("form provisioning failed",
			zap.String("representative", rep.Name),
			zap.String("constituency", rep.Constituency),
			zap.Error(err))
		return nil, shared.NewDomainError("PROVISIONING_FAILED", "Could not create a response form for this question")
	}

	record, err := civic.NewQuestionRecord(form.FormID, rep.Name, rep.Constituency, question)
	if err != nil {
		return nil, err
	}
	if err := s.records.Create(ctx, record); err != nil {
		return nil, err
	}

	if err := s.recordAsked(ctx, rep, form.FormID); err != nil {
		return nil, err
	}

	s.cache.Put(RegistryEntry{
		FormID:             form.FormID,
		FormURL:            form.FormURL,
		RepresentativeName: rep.Name,
		Constituency:       rep.Constituency,
		Question:           question,
		NotifiedEmail:      rep.Email,
		CreatedAt:          time.Now(),
	})

	result := &SubmitQuestionResult{
		FormID:  form.FormID,
		FormURL: form.FormURL,
	}

	subject := "Question from a citizen"
	body := notificationBody(rep.Name, rep.Constituency, question, form.FormURL)
	if err := s.notifier.Send(ctx, rep.Email, subject, body); err != nil {
		s.logger.Warn("notification failed after provisioning; bookkeeping stands",
			zap.String("form_id", form.FormID),
			zap.String("to", rep.Email),
			zap.Error(err))
		result.NotificationError = err.Error()
	} else {
		result.Notified = true
	}

	return result, nil
}

// recordAsked applies the asked-count increment and outstanding-set add under
// optimistic retry. RecordQuestionAsked is idempotent by form id, so reloading
// and reapplying after a version conflict cannot double-count.
func (s *QuestionService) recordAsked(ctx context.Context, rep *civic.Representative, formID string) error {
	for attempt := 0; ; attempt++ {
		if err := rep.RecordQuestionAsked(formID); err != nil {
			return err
		}
		err := s.reps.Save(ctx, rep)
		if err == nil {
			return nil
		}
		if !errors.Is(err, shared.ErrConcurrencyConflict) || attempt == maxSaveAttempts-1 {
			return err
		}
		rep, err = s.reps.FindByIdentity(ctx, rep.Name, rep.Constituency)
		if err != nil {
			return err
		}
	}
}

// ReconcileAll queries the external response source for every outstanding
// form of every representative and converges local state with it.
//
// One bad form id or one bad representative never blocks the rest of the
// batch; failures are accumulated into the report and the affected form ids
// stay outstanding for the next pass.
func (s *QuestionService) ReconcileAll(ctx context.Context) (*ReconcileReport, error) {
	reps, err := s.reps.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	report := &ReconcileReport{RepresentativesChecked: len(reps)}

	for i := range reps {
		rep := &reps[i]
		snapshot := rep.OutstandingForms.Snapshot()
		if len(snapshot) == 0 {
			continue
		}

		answeredByForm := make(map[string]int)
		for _, formID := range snapshot {
			report.FormsChecked++

			responses, err := s.listResponses(ctx, formID)
			if err != nil {
				s.logger.Warn("response query failed; form stays outstanding",
					zap.String("form_id", formID),
					zap.String("representative", rep.Name),
					zap.Error(err))
				report.Failures = append(report.Failures, ReconcileFailure{
					RepresentativeName: rep.Name,
					Constituency:       rep.Constituency,
					FormID:             formID,
					Reason:             err.Error(),
				})
				continue
			}
			if len(responses) == 0 {
				continue
			}

			latest := responses[len(responses)-1]
			text := extractResponseText(latest)
			update := civic.AnswerUpdate{
				RepresentativeName: rep.Name,
				Constituency:       rep.Constituency,
				Response:           text,
				RespondedAt:        latest.SubmittedAt,
			}
			if err := s.records.UpsertAnswerByFormID(ctx, formID, update); err != nil {
				s.logger.Error("answer upsert failed; form stays outstanding",
					zap.String("form_id", formID),
					zap.Error(err))
				report.Failures = append(report.Failures, ReconcileFailure{
					RepresentativeName: rep.Name,
					Constituency:       rep.Constituency,
					FormID:             formID,
					Reason:             err.Error(),
				})
				continue
			}

			answeredByForm[formID] = len(responses)
			s.cache.MarkResponded(formID, latest.SubmittedAt)
		}

		if len(answeredByForm) == 0 {
			continue
		}

		applied, err := s.applyReconciliation(ctx, rep, answeredByForm)
		if err != nil {
			s.logger.Error("representative update failed; forms stay outstanding",
				zap.String("representative", rep.Name),
				zap.String("constituency", rep.Constituency),
				zap.Error(err))
			for formID := range answeredByForm {
				report.Failures = append(report.Failures, ReconcileFailure{
					RepresentativeName: rep.Name,
					Constituency:       rep.Constituency,
					FormID:             formID,
					Reason:             err.Error(),
				})
			}
			continue
		}
		report.UpdatedCount += applied
	}

	return report, nil
}

// applyReconciliation persists the answered-count increments and
// outstanding-set removals as a single representative update, retrying on
// optimistic-save conflicts. ApplyReconciliation skips form ids no longer
// outstanding, so a retry cannot settle the same form twice.
func (s *QuestionService) applyReconciliation(ctx context.Context, rep *civic.Representative, answeredByForm map[string]int) (int, error) {
	for attempt := 0; ; attempt++ {
		applied := rep.ApplyReconciliation(answeredByForm)
		if applied == 0 {
			return 0, nil
		}
		err := s.reps.Save(ctx, rep)
		if err == nil {
			return applied, nil
		}
		if !errors.Is(err, shared.ErrConcurrencyConflict) || attempt == maxSaveAttempts-1 {
			return 0, err
		}
		rep2, err := s.reps.FindByIdentity(ctx, rep.Name, rep.Constituency)
		if err != nil {
			return 0, err
		}
		rep = rep2
	}
}

func (s *QuestionService) listResponses(ctx context.Context, formID string) ([]civic.FormResponse, error) {
	qctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()
	return s.responses.ListResponses(qctx, formID)
}

// FetchReconciledResponses runs a reconciliation pass and then reads back
// every question record. A failure in the reconciliation phase is logged and
// swallowed so the read of already-reconciled data still succeeds; only read
// errors surface.
func (s *QuestionService) FetchReconciledResponses(ctx context.Context) ([]ReconciledResponse, error) {
	if _, err := s.ReconcileAll(ctx); err != nil {
		s.logger.Warn("reconciliation failed before read-back; returning stored state", zap.Error(err))
	}

	records, err := s.records.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]ReconciledResponse, 0, len(records))
	for i := range records {
		r := &records[i]
		out = append(out, ReconciledResponse{
			RepresentativeName: r.RepresentativeName,
			Constituency:       r.Constituency,
			Question:           r.Question,
			Response:           r.Response,
			Responded:          r.Responded,
			AskedAt:            r.AskedAt,
			RespondedAt:        r.RespondedAt,
		})
	}
	return out, nil
}

// CheckForm queries the response source for a single form and reports whether
// it has been answered, including the number of responses seen. The first
// observed response triggers the same bookkeeping as a reconciliation pass:
// the record is upserted, the registry cache marked, and the representative's
// answered count incremented. When the source is unreachable the registry
// cache and record store answer instead, so the endpoint degrades rather than
// fails.
func (s *QuestionService) CheckForm(ctx context.Context, formID string) (*FormStatusResult, error) {
	if formID = strings.TrimSpace(formID); formID == "" {
		return nil, shared.NewDomainError("INVALID_FORM_ID", "Form ID cannot be empty")
	}

	record, err := s.records.FindByFormID(ctx, formID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("FORM_NOT_FOUND", fmt.Sprintf("No question record for form %q", formID))
		}
		return nil, err
	}

	responses, err := s.listResponses(ctx, formID)
	if err != nil {
		s.logger.Warn("response query failed; reporting stored state",
			zap.String("form_id", formID),
			zap.Error(err))
		return s.storedFormStatus(record), nil
	}

	status := &FormStatusResult{
		FormID:             record.FormID,
		RepresentativeName: record.RepresentativeName,
		Constituency:       record.Constituency,
		Question:           record.Question,
		Responded:          record.Responded,
		Response:           record.Response,
		RespondedAt:        record.RespondedAt,
		ResponseCount:      len(responses),
	}
	if len(responses) == 0 {
		return status, nil
	}

	latest := responses[len(responses)-1]
	text := extractResponseText(latest)
	status.Responded = true
	status.Response = &text
	status.RespondedAt = &latest.SubmittedAt

	if !record.Responded {
		if err := s.settleForm(ctx, record, formID, latest, len(responses)); err != nil {
			s.logger.Error("first-response bookkeeping failed; status still reported",
				zap.String("form_id", formID),
				zap.Error(err))
		}
	}

	return status, nil
}

// settleForm runs the first-observation bookkeeping for a form that just
// gained a response outside the reconciliation loop. ApplyReconciliation
// skips forms no longer outstanding, so racing a scheduler pass cannot
// double-count.
func (s *QuestionService) settleForm(ctx context.Context, record *civic.QuestionRecord, formID string, latest civic.FormResponse, count int) error {
	update := civic.AnswerUpdate{
		RepresentativeName: record.RepresentativeName,
		Constituency:       record.Constituency,
		Response:           extractResponseText(latest),
		RespondedAt:        latest.SubmittedAt,
	}
	if err := s.records.UpsertAnswerByFormID(ctx, formID, update); err != nil {
		return err
	}
	s.cache.MarkResponded(formID, latest.SubmittedAt)

	rep, err := s.reps.FindByIdentity(ctx, record.RepresentativeName, record.Constituency)
	if err != nil {
		return err
	}
	_, err = s.applyReconciliation(ctx, rep, map[string]int{formID: count})
	return err
}

// storedFormStatus builds a status from local state only. The registry cache
// wins when it already knows the form is responded; otherwise the record
// stands as last reconciled.
func (s *QuestionService) storedFormStatus(record *civic.QuestionRecord) *FormStatusResult {
	if entry, ok := s.cache.Get(record.FormID); ok && entry.Responded {
		return &FormStatusResult{
			FormID:             entry.FormID,
			RepresentativeName: entry.RepresentativeName,
			Constituency:       entry.Constituency,
			Question:           entry.Question,
			Responded:          true,
			RespondedAt:        entry.RespondedAt,
			FromCache:          true,
		}
	}
	return &FormStatusResult{
		FormID:             record.FormID,
		RepresentativeName: record.RepresentativeName,
		Constituency:       record.Constituency,
		Question:           record.Question,
		Responded:          record.Responded,
		Response:           record.Response,
		RespondedAt:        record.RespondedAt,
		FromCache:          true,
	}
}

// extractResponseText pulls the answer text out of a response payload. The
// parsing is deliberately lenient: any missing or malformed field yields the
// "No answer" sentinel instead of an error. When a response carries several
// answered questions the lowest question id wins, keeping the pick stable
// across map iteration order.
func extractResponseText(resp civic.FormResponse) string {
	if len(resp.Answers) == 0 {
		return noAnswerSentinel
	}

	keys := make([]string, 0, len(resp.Answers))
	for k := range resp.Answers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	answer := resp.Answers[keys[0]]
	if len(answer.TextAnswers.Answers) == 0 {
		return noAnswerSentinel
	}
	value := answer.TextAnswers.Answers[0].Value
	if value == "" {
		return noAnswerSentinel
	}
	return value
}

func notificationBody(name, constituency, question, formURL string) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("<p>Dear %s,</p>", html.EscapeString(name)))
	b.WriteString(fmt.Sprintf("<p>A citizen from %s has asked you the following question:</p>", html.EscapeString(constituency)))
	b.WriteString(fmt.Sprintf("<blockquote>%s</blockquote>", html.EscapeString(question)))
	b.WriteString(fmt.Sprintf("<p>Please record your answer here: <a href=%q>%s</a></p>", formURL, html.EscapeString(formURL)))
	b.WriteString("<p>Citizen Connect Platform</p>")
	return b.String()
}
