package apierrors

import (
	"fmt"
	"net/http"
)

// Machine-readable error codes returned to API clients.
const (
	CodeInvalidInput          = "INVALID_INPUT"
	CodeUnauthorized          = "UNAUTHORIZED"
	CodeForbidden             = "FORBIDDEN"
	CodeInternalError         = "INTERNAL_ERROR"
	CodeEmailExists           = "EMAIL_EXISTS"
	CodeEmailNotFound         = "EMAIL_NOT_FOUND"
	CodeUserNotFound          = "USER_NOT_FOUND"
	CodeTaskNotFound          = "TASK_NOT_FOUND"
	CodeCampaignNotFound      = "CAMPAIGN_NOT_FOUND"
	CodeUploadNotFound        = "UPLOAD_NOT_FOUND"
	CodeDraftNotFound         = "DRAFT_NOT_FOUND"
	CodePublishNotFound       = "PUBLISHED_CONTENT_NOT_FOUND"
	CodeEmptyContent          = "EMPTY_CONTENT"
	CodeInvalidTransition     = "INVALID_PHASE_TRANSITION"
	CodePhaseNotStarted       = "PHASE_NOT_STARTED"
	CodeAlreadyReviewed       = "UPLOAD_ALREADY_REVIEWED"
	CodeInvalidReviewStatus   = "INVALID_REVIEW_STATUS"
	CodeInvalidPlatform       = "INVALID_PLATFORM"
	CodeInvalidAnalytics      = "INVALID_ANALYTICS"
	CodeAIGenerationFailed    = "AI_GENERATION_FAILED"
	CodeAnalysisFailed        = "CONTENT_ANALYSIS_FAILED"
	CodePresignFailed         = "PRESIGN_FAILED"
	CodeNotFound              = "NOT_FOUND"
	CodeEmailServiceError     = "EMAIL_SERVICE_ERROR"
	CodeAIServiceError        = "AI_SERVICE_ERROR"
	CodeStorageServiceError   = "STORAGE_SERVICE_ERROR"
)

// APIError is a sanitized error carrying the HTTP status and client message.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	// Internal is the underlying error, logged but never sent to clients.
	Internal error
}

func (e *APIError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Internal)
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Internal
}

// NotFound returns a 404 APIError
func NotFound(code, message string) *APIError {
	return &APIError{StatusCode: http.StatusNotFound, Code: code, Message: message}
}

// BadRequest returns a 400 APIError
func BadRequest(code, message string) *APIError {
	return &APIError{StatusCode: http.StatusBadRequest, Code: code, Message: message}
}

// Unauthorized returns a 401 APIError
func Unauthorized(message string) *APIError {
	return &APIError{StatusCode: http.StatusUnauthorized, Code: CodeUnauthorized, Message: message}
}

// Forbidden returns a 403 APIError
func Forbidden(message string) *APIError {
	return &APIError{StatusCode: http.StatusForbidden, Code: CodeForbidden, Message: message}
}

// Conflict returns a 409 APIError
func Conflict(code, message string) *APIError {
	return &APIError{StatusCode: http.StatusConflict, Code: code, Message: message}
}

// ServiceUnavailable returns a 503 APIError wrapping the internal failure
func ServiceUnavailable(code, message string, internal error) *APIError {
	return &APIError{StatusCode: http.StatusServiceUnavailable, Code: code, Message: message, Internal: internal}
}

// InternalError returns a sanitized 500 APIError - never exposes internal details
func InternalError(internal error) *APIError {
	return &APIError{
		StatusCode: http.StatusInternalServerError,
		Code:       CodeInternalError,
		Message:    "An internal error occurred. Please try again later.",
		Internal:   internal,
	}
}
