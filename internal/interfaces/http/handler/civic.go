package handler

import (
	civicapp "github.com/civicconnect/backend/internal/application/civic"
	"github.com/gin-gonic/gin"
)

// CivicHandler handles question submission, reconciliation and the
// representative directory
type CivicHandler struct {
	BaseHandler
	questions       *civicapp.QuestionService
	representatives *civicapp.RepresentativeService
}

// NewCivicHandler creates a new CivicHandler
func NewCivicHandler(questions *civicapp.QuestionService, representatives *civicapp.RepresentativeService) *CivicHandler {
	return &CivicHandler{
		questions:       questions,
		representatives: representatives,
	}
}

// SubmitQuestion provisions a response form for a citizen question and
// notifies the representative
func (h *CivicHandler) SubmitQuestion(c *gin.Context) {
	var req civicapp.SubmitQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.questions.SubmitQuestion(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Reconcile runs a full reconciliation pass over every outstanding form
func (h *CivicHandler) Reconcile(c *gin.Context) {
	report, err := h.questions.ReconcileAll(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}

// ListResponses reconciles and then returns every recorded question with
// its response state
func (h *CivicHandler) ListResponses(c *gin.Context) {
	responses, err := h.questions.FetchReconciledResponses(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, responses)
}

// CheckForm reports the response state of a single provisioned form
func (h *CivicHandler) CheckForm(c *gin.Context) {
	formID := c.Param("form_id")

	result, err := h.questions.CheckForm(c.Request.Context(), formID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// CreateRepresentative seeds a new directory entry
func (h *CivicHandler) CreateRepresentative(c *gin.Context) {
	var req civicapp.CreateRepresentativeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	rep, err := h.representatives.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, rep)
}

// ListRepresentatives returns the full directory
func (h *CivicHandler) ListRepresentatives(c *gin.Context) {
	reps, err := h.representatives.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, reps)
}

// GetRepresentative looks up one directory entry by name and constituency
func (h *CivicHandler) GetRepresentative(c *gin.Context) {
	name := c.Query("name")
	constituency := c.Query("constituency")
	if name == "" || constituency == "" {
		h.BadRequest(c, "name and constituency query parameters are required")
		return
	}

	rep, err := h.representatives.Get(c.Request.Context(), name, constituency)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, rep)
}
