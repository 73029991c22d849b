package forms

import "github.com/civicconnect/backend/internal/domain/civic"

// formInfo is the title block of a form resource
type formInfo struct {
	Title         string `json:"title"`
	DocumentTitle string `json:"documentTitle,omitempty"`
	Description   string `json:"description,omitempty"`
}

// createFormRequest is the body of POST /v1/forms
type createFormRequest struct {
	Info formInfo `json:"info"`
}

// formResource is the form returned by the create call
type formResource struct {
	FormID       string   `json:"formId"`
	Info         formInfo `json:"info"`
	ResponderURI string   `json:"responderUri"`
}

// textQuestion marks a question as free text; paragraph allows multi-line answers
type textQuestion struct {
	Paragraph bool `json:"paragraph"`
}

type question struct {
	Required     bool         `json:"required"`
	TextQuestion textQuestion `json:"textQuestion"`
}

type questionItem struct {
	Question question `json:"question"`
}

type item struct {
	Title        string       `json:"title"`
	QuestionItem questionItem `json:"questionItem"`
}

type location struct {
	Index int `json:"index"`
}

type createItemRequest struct {
	Item     item     `json:"item"`
	Location location `json:"location"`
}

type updateFormInfoRequest struct {
	Info       formInfo `json:"info"`
	UpdateMask string   `json:"updateMask"`
}

// updateRequest is one entry of a batchUpdate call; exactly one field is set
type updateRequest struct {
	CreateItem     *createItemRequest     `json:"createItem,omitempty"`
	UpdateFormInfo *updateFormInfoRequest `json:"updateFormInfo,omitempty"`
}

// batchUpdateRequest is the body of POST /v1/forms/{formId}:batchUpdate
type batchUpdateRequest struct {
	Requests []updateRequest `json:"requests"`
}

// listResponsesResponse is the body of GET /v1/forms/{formId}/responses
type listResponsesResponse struct {
	Responses     []civic.FormResponse `json:"responses"`
	NextPageToken string               `json:"nextPageToken"`
}
