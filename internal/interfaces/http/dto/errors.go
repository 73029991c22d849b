package dto

import "net/http"

// Standardized API error codes. Domain errors carry bare codes like
// "REPRESENTATIVE_NOT_FOUND"; NormalizeErrorCode maps them onto this set
// before the HTTP status lookup.
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"

	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"

	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeForbidden is used when the user lacks permission
	ErrCodeForbidden = "ERR_FORBIDDEN"
	// ErrCodeTokenExpired is used when the auth token has expired
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	// ErrCodeTokenInvalid is used when the auth token is invalid
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"

	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeConcurrencyConflict is used when optimistic locking fails
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"

	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeListingSold is used when acting on a listing that has already been sold
	ErrCodeListingSold = "ERR_LISTING_SOLD"
	// ErrCodeNotParticipant is used when a user acts on a conversation they are not part of
	ErrCodeNotParticipant = "ERR_NOT_PARTICIPANT"

	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
	// ErrCodePayloadTooLarge is used when the request body exceeds the configured limit
	ErrCodePayloadTooLarge = "ERR_PAYLOAD_TOO_LARGE"

	// ErrCodeProvisioningFailed is used when the response form could not be created upstream
	ErrCodeProvisioningFailed = "ERR_PROVISIONING_FAILED"
	// ErrCodeSearchFailed is used when the upstream news search is unavailable
	ErrCodeSearchFailed = "ERR_SEARCH_FAILED"

	// ErrCodeRateLimited is used when rate limit is exceeded
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation: http.StatusBadRequest,

	// Auth errors
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	// Resource errors
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState: http.StatusUnprocessableEntity,
	ErrCodeListingSold:  http.StatusUnprocessableEntity,

	// Permission-shaped business errors
	ErrCodeNotParticipant: http.StatusForbidden,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,

	// Oversized payloads -> 413 Request Entity Too Large
	ErrCodePayloadTooLarge: http.StatusRequestEntityTooLarge,

	// Upstream dependency failures -> 502 Bad Gateway
	ErrCodeProvisioningFailed: http.StatusBadGateway,
	ErrCodeSearchFailed:       http.StatusBadGateway,

	// Rate limiting -> 429 Too Many Requests
	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps the bare codes emitted by the domain and
// application layers onto the standardized API codes above.
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":                ErrCodeNotFound,
	"USER_NOT_FOUND":           ErrCodeNotFound,
	"PRODUCT_NOT_FOUND":        ErrCodeNotFound,
	"CONVERSATION_NOT_FOUND":   ErrCodeNotFound,
	"REPRESENTATIVE_NOT_FOUND": ErrCodeNotFound,
	"FORM_NOT_FOUND":           ErrCodeNotFound,

	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"ALREADY_SOLD":         ErrCodeListingSold,
	"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,

	"UNAUTHORIZED":    ErrCodeUnauthorized,
	"FORBIDDEN":       ErrCodeForbidden,
	"NOT_PARTICIPANT": ErrCodeNotParticipant,

	"INVALID_STATE": ErrCodeInvalidState,

	"INVALID_INPUT":        ErrCodeInvalidInput,
	"INVALID_NAME":         ErrCodeInvalidInput,
	"INVALID_EMAIL":        ErrCodeInvalidInput,
	"INVALID_PHONE":        ErrCodeInvalidInput,
	"INVALID_PINCODE":      ErrCodeInvalidInput,
	"INVALID_VILLAGE":      ErrCodeInvalidInput,
	"INVALID_DISTRICT":     ErrCodeInvalidInput,
	"INVALID_CONSTITUENCY": ErrCodeInvalidInput,
	"INVALID_QUESTION":     ErrCodeInvalidInput,
	"INVALID_FORM_ID":      ErrCodeInvalidInput,
	"INVALID_TITLE":        ErrCodeInvalidInput,
	"INVALID_PRICE":        ErrCodeInvalidInput,
	"INVALID_CATEGORY":     ErrCodeInvalidInput,
	"INVALID_CONDITION":    ErrCodeInvalidInput,
	"INVALID_SELLER":       ErrCodeInvalidInput,
	"INVALID_PRODUCT":      ErrCodeInvalidInput,
	"INVALID_MESSAGE":      ErrCodeInvalidInput,
	"INVALID_PARTICIPANT":  ErrCodeInvalidInput,
	"INVALID_QUERY":        ErrCodeInvalidInput,
	"INVALID_CONTENT_TYPE": ErrCodeInvalidInput,

	"PROVISIONING_FAILED": ErrCodeProvisioningFailed,
	"SEARCH_FAILED":       ErrCodeSearchFailed,

	"BAD_REQUEST":    ErrCodeBadRequest,
	"INTERNAL_ERROR": ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the standardized format
// If the code is already in the new format or unknown, returns it as-is
func NormalizeErrorCode(code string) string {
	if newCode, ok := DomainErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
