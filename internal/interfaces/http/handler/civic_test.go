package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	civicapp "github.com/civicconnect/backend/internal/application/civic"
	"github.com/civicconnect/backend/internal/domain/civic"
	"github.com/civicconnect/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockRepresentativeRepository struct {
	mock.Mock
}

func (m *MockRepresentativeRepository) FindByIdentity(ctx context.Context, name, constituency string) (*civic.Representative, error) {
	args := m.Called(ctx, name, constituency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*civic.Representative), args.Error(1)
}

func (m *MockRepresentativeRepository) FindAll(ctx context.Context) ([]civic.Representative, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]civic.Representative), args.Error(1)
}

func (m *MockRepresentativeRepository) Save(ctx context.Context, rep *civic.Representative) error {
	args := m.Called(ctx, rep)
	return args.Error(0)
}

type MockQuestionRecordRepository struct {
	mock.Mock
}

func (m *MockQuestionRecordRepository) Create(ctx context.Context, record *civic.QuestionRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockQuestionRecordRepository) FindByFormID(ctx context.Context, formID string) (*civic.QuestionRecord, error) {
	args := m.Called(ctx, formID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*civic.QuestionRecord), args.Error(1)
}

func (m *MockQuestionRecordRepository) UpsertAnswerByFormID(ctx context.Context, formID string, update civic.AnswerUpdate) error {
	args := m.Called(ctx, formID, update)
	return args.Error(0)
}

func (m *MockQuestionRecordRepository) FindAll(ctx context.Context) ([]civic.QuestionRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]civic.QuestionRecord), args.Error(1)
}

type MockFormProvider struct {
	mock.Mock
}

func (m *MockFormProvider) CreateForm(ctx context.Context, title, description string) (*civic.ProvisionedForm, error) {
	args := m.Called(ctx, title, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*civic.ProvisionedForm), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Send(ctx context.Context, to, subject, htmlBody string) error {
	args := m.Called(ctx, to, subject, htmlBody)
	return args.Error(0)
}

type MockResponseSource struct {
	mock.Mock
}

func (m *MockResponseSource) ListResponses(ctx context.Context, formID string) ([]civic.FormResponse, error) {
	args := m.Called(ctx, formID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]civic.FormResponse), args.Error(1)
}

type noopRegistryCache struct{}

func (noopRegistryCache) Put(civicapp.RegistryEntry)                {}
func (noopRegistryCache) Get(string) (civicapp.RegistryEntry, bool) { return civicapp.RegistryEntry{}, false }
func (noopRegistryCache) MarkResponded(string, time.Time)           {}

type civicFixture struct {
	reps      *MockRepresentativeRepository
	records   *MockQuestionRecordRepository
	forms     *MockFormProvider
	notifier  *MockNotifier
	responses *MockResponseSource
	router    *gin.Engine
}

func newCivicFixture(t *testing.T) *civicFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &civicFixture{
		reps:      new(MockRepresentativeRepository),
		records:   new(MockQuestionRecordRepository),
		forms:     new(MockFormProvider),
		notifier:  new(MockNotifier),
		responses: new(MockResponseSource),
	}

	questions := civicapp.NewQuestionService(
		f.reps, f.records, f.forms, f.notifier, f.responses,
		noopRegistryCache{}, zap.NewNop(), time.Second,
	)
	representatives := civicapp.NewRepresentativeService(f.reps, zap.NewNop())
	h := NewCivicHandler(questions, representatives)

	f.router = gin.New()
	f.router.POST("/civic/questions", h.SubmitQuestion)
	f.router.POST("/civic/reconcile", h.Reconcile)
	f.router.GET("/civic/responses", h.ListResponses)
	f.router.GET("/civic/forms/:form_id", h.CheckForm)
	f.router.POST("/civic/representatives", h.CreateRepresentative)
	f.router.GET("/civic/representatives", h.ListRepresentatives)
	f.router.GET("/civic/representatives/lookup", h.GetRepresentative)
	return f
}

func mustRepresentative(t *testing.T, name, constituency string) *civic.Representative {
	t.Helper()
	rep, err := civic.NewRepresentative(name, constituency, "rep@example.com")
	require.NoError(t, err)
	return rep
}

func TestCivicHandler_SubmitQuestion_Success(t *testing.T) {
	f := newCivicFixture(t)

	rep := mustRepresentative(t, "Jane Doe", "North Ward")
	f.reps.On("FindByIdentity", mock.Anything, "Jane Doe", "North Ward").Return(rep, nil)
	f.forms.On("CreateForm", mock.Anything, mock.Anything, mock.Anything).
		Return(&civic.ProvisionedForm{FormID: "form-1", FormURL: "https://forms.example/form-1"}, nil)
	f.records.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.reps.On("Save", mock.Anything, mock.Anything).Return(nil)
	f.notifier.On("Send", mock.Anything, "rep@example.com", mock.Anything, mock.Anything).Return(nil)

	body, _ := json.Marshal(map[string]string{
		"representative_name": "Jane Doe",
		"constituency":        "North Ward",
		"question":            "When will the road be repaired?",
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/civic/questions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "form-1")
	assert.Contains(t, w.Body.String(), `"notified":true`)
}

func TestCivicHandler_SubmitQuestion_UnknownRepresentative(t *testing.T) {
	f := newCivicFixture(t)

	f.reps.On("FindByIdentity", mock.Anything, "Nobody", "Nowhere").Return(nil, shared.ErrNotFound)

	body, _ := json.Marshal(map[string]string{
		"representative_name": "Nobody",
		"constituency":        "Nowhere",
		"question":            "Anyone home?",
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/civic/questions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_NOT_FOUND")
	f.forms.AssertNotCalled(t, "CreateForm", mock.Anything, mock.Anything, mock.Anything)
}

func TestCivicHandler_SubmitQuestion_InvalidBody(t *testing.T) {
	f := newCivicFixture(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/civic/questions", bytes.NewReader([]byte(`{"question":`)))
	req.Header.Set("Content-Type", "application/json")
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCivicHandler_SubmitQuestion_ProvisioningFailure(t *testing.T) {
	f := newCivicFixture(t)

	rep := mustRepresentative(t, "Jane Doe", "North Ward")
	f.reps.On("FindByIdentity", mock.Anything, "Jane Doe", "North Ward").Return(rep, nil)
	f.forms.On("CreateForm", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, assert.AnError)

	body, _ := json.Marshal(map[string]string{
		"representative_name": "Jane Doe",
		"constituency":        "North Ward",
		"question":            "When will the road be repaired?",
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/civic/questions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_PROVISIONING_FAILED")
}

func TestCivicHandler_Reconcile_ReturnsReport(t *testing.T) {
	f := newCivicFixture(t)

	rep := mustRepresentative(t, "Jane Doe", "North Ward")
	require.NoError(t, rep.RecordQuestionAsked("form-1"))
	f.reps.On("FindAll", mock.Anything).Return([]civic.Representative{*rep}, nil)
	f.responses.On("ListResponses", mock.Anything, "form-1").Return([]civic.FormResponse{
		{
			ResponseID: "resp-1",
			Answers: map[string]civic.Answer{
				"q1": {TextAnswers: civic.TextAnswers{Answers: []civic.TextAnswer{{Value: "Done."}}}},
			},
			SubmittedAt: time.Now(),
		},
	}, nil)
	f.records.On("UpsertAnswerByFormID", mock.Anything, "form-1", mock.Anything).Return(nil)
	f.reps.On("Save", mock.Anything, mock.Anything).Return(nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/civic/reconcile", nil)
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"forms_checked":1`)
	assert.Contains(t, w.Body.String(), `"updated_count":1`)
}

func TestCivicHandler_ListResponses(t *testing.T) {
	f := newCivicFixture(t)

	f.reps.On("FindAll", mock.Anything).Return([]civic.Representative{}, nil)
	record, err := civic.NewQuestionRecord("form-9", "Jane Doe", "North Ward", "Any update?")
	require.NoError(t, err)
	f.records.On("FindAll", mock.Anything).Return([]civic.QuestionRecord{*record}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/civic/responses", nil)
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Any update?")
	assert.Contains(t, w.Body.String(), `"responded":false`)
}

func TestCivicHandler_CheckForm_ReportsResponseCount(t *testing.T) {
	f := newCivicFixture(t)

	record, err := civic.NewQuestionRecord("form-1", "Jane Doe", "North Ward", "Any update?")
	require.NoError(t, err)
	rep := mustRepresentative(t, "Jane Doe", "North Ward")
	require.NoError(t, rep.RecordQuestionAsked("form-1"))

	f.records.On("FindByFormID", mock.Anything, "form-1").Return(record, nil)
	f.responses.On("ListResponses", mock.Anything, "form-1").Return([]civic.FormResponse{
		{
			SubmittedAt: time.Now(),
			Answers: map[string]civic.Answer{
				"q1": {TextAnswers: civic.TextAnswers{Answers: []civic.TextAnswer{{Value: "Yes"}}}},
			},
		},
	}, nil)
	f.records.On("UpsertAnswerByFormID", mock.Anything, "form-1", mock.Anything).Return(nil)
	f.reps.On("FindByIdentity", mock.Anything, "Jane Doe", "North Ward").Return(rep, nil)
	f.reps.On("Save", mock.Anything, rep).Return(nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/civic/forms/form-1", nil)
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"responded":true`)
	assert.Contains(t, w.Body.String(), `"response_count":1`)
}

func TestCivicHandler_CheckForm_NotFound(t *testing.T) {
	f := newCivicFixture(t)

	f.records.On("FindByFormID", mock.Anything, "missing").Return(nil, shared.ErrNotFound)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/civic/forms/missing", nil)
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCivicHandler_CreateRepresentative(t *testing.T) {
	f := newCivicFixture(t)

	f.reps.On("FindByIdentity", mock.Anything, "Jane Doe", "North Ward").Return(nil, shared.ErrNotFound)
	f.reps.On("Save", mock.Anything, mock.Anything).Return(nil)

	body, _ := json.Marshal(map[string]string{
		"name":         "Jane Doe",
		"constituency": "North Ward",
		"email":        "jane@example.com",
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/civic/representatives", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "Jane Doe")
}

func TestCivicHandler_ListRepresentatives(t *testing.T) {
	f := newCivicFixture(t)

	rep := mustRepresentative(t, "Jane Doe", "North Ward")
	f.reps.On("FindAll", mock.Anything).Return([]civic.Representative{*rep}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/civic/representatives", nil)
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "North Ward")
}

func TestCivicHandler_GetRepresentative_RequiresQueryParams(t *testing.T) {
	f := newCivicFixture(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/civic/representatives/lookup?name=Jane", nil)
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
