package apierrors

import (
	"errors"
	"strings"

	authProcessor "creatorlink/internal/auth/processor"
	campaignProcessor "creatorlink/internal/campaign/processor"
	"creatorlink/internal/store"
	taskdetailProcessor "creatorlink/internal/taskdetail/processor"
	workflowProcessor "creatorlink/internal/workflow/processor"
)

// MapError converts domain/processor errors to APIErrors.
// This function centralizes all error mapping logic to ensure consistent
// error responses across the entire API.
//
// If the error is already an APIError, it returns it as-is.
// If the error is a known domain error, it maps it to an appropriate APIError.
// If the error is unknown, it returns a sanitized InternalError (500).
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}

	// Check if already an APIError
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	switch {
	// Map auth processor errors
	case errors.Is(err, authProcessor.ErrEmailAlreadyExists):
		return Conflict(CodeEmailExists, "Email already exists")

	case errors.Is(err, authProcessor.ErrEmailDoesNotExist):
		return NotFound(CodeEmailNotFound, "Email does not exist")

	case errors.Is(err, authProcessor.ErrIncorrectPassword):
		return Unauthorized("Invalid email or password")

	case errors.Is(err, authProcessor.ErrUserNotFound):
		return NotFound(CodeUserNotFound, "User not found")

	case errors.Is(err, authProcessor.ErrInvalidRole):
		return BadRequest(CodeInvalidInput, "Invalid role. Valid values: brand, influencer, agency")

	case errors.Is(err, authProcessor.ErrExpiredToken),
		errors.Is(err, authProcessor.ErrInvalidJWTToken),
		errors.Is(err, authProcessor.ErrParseJWTToken):
		return Unauthorized("Invalid or expired token")

	// Map workflow processor errors
	case errors.Is(err, workflowProcessor.ErrTaskNotFound):
		return NotFound(CodeTaskNotFound, "Task not found")

	case errors.Is(err, workflowProcessor.ErrEmptyContent):
		return BadRequest(CodeEmptyContent, "Content requirements cannot be empty")

	case errors.Is(err, workflowProcessor.ErrInvalidTransition):
		return Conflict(CodeInvalidTransition, "The workflow is not in a state that allows this action")

	case errors.Is(err, workflowProcessor.ErrPhaseNotStarted):
		return Conflict(CodePhaseNotStarted, "This phase has not been started")

	case errors.Is(err, workflowProcessor.ErrUploadNotFound):
		return NotFound(CodeUploadNotFound, "Upload not found")

	case errors.Is(err, workflowProcessor.ErrUploadNotForTask):
		return BadRequest(CodeInvalidInput, "Upload does not belong to this task")

	case errors.Is(err, workflowProcessor.ErrUploadAlreadyReviewed):
		return Conflict(CodeAlreadyReviewed, "This upload already has a final review")

	case errors.Is(err, workflowProcessor.ErrInvalidReviewStatus):
		return BadRequest(CodeInvalidReviewStatus, "Invalid review status. Valid values: pending, approved, rejected")

	case errors.Is(err, workflowProcessor.ErrInvalidPlatform):
		return BadRequest(CodeInvalidPlatform, "Invalid platform. Valid values: instagram, tiktok, youtube, twitter, other")

	case errors.Is(err, workflowProcessor.ErrInvalidAnalytics):
		return BadRequest(CodeInvalidAnalytics, "Analytics metrics cannot be negative")

	case errors.Is(err, workflowProcessor.ErrNoPublishedContent):
		return NotFound(CodePublishNotFound, "No published content recorded for this task")

	case errors.Is(err, workflowProcessor.ErrPhaseNotVisible):
		return Forbidden("You do not have access to this phase")

	// Map campaign processor errors
	case errors.Is(err, campaignProcessor.ErrCampaignNotFound):
		return NotFound(CodeCampaignNotFound, "Campaign not found")

	// Map task detail processor errors
	case errors.Is(err, taskdetailProcessor.ErrTaskNotFound):
		return NotFound(CodeTaskNotFound, "Task not found")

	case errors.Is(err, taskdetailProcessor.ErrUploadNotFound):
		return NotFound(CodeUploadNotFound, "Upload not found")

	case errors.Is(err, taskdetailProcessor.ErrInvalidSenderType):
		return BadRequest(CodeInvalidInput, "Invalid sender type. Valid values: brand, influencer")

	case errors.Is(err, taskdetailProcessor.ErrEmptyMessage):
		return BadRequest(CodeInvalidInput, "Message cannot be empty")

	// Map store errors
	case errors.Is(err, store.ErrNotFound):
		return NotFound(CodeNotFound, "Resource not found")

	// Check for common external service errors by message content
	default:
		return mapExternalServiceError(err)
	}
}

// mapExternalServiceError attempts to identify external service errors
// and map them to appropriate service-specific error responses.
func mapExternalServiceError(err error) *APIError {
	errMsg := strings.ToLower(err.Error())

	// Email service errors (Resend)
	if strings.Contains(errMsg, "resend") || strings.Contains(errMsg, "email service") {
		return ServiceUnavailable(
			CodeEmailServiceError,
			"Email service is temporarily unavailable. Please try again later.",
			err,
		)
	}

	// AI service errors (OpenAI, Gemini)
	if strings.Contains(errMsg, "openai") || strings.Contains(errMsg, "gemini") || strings.Contains(errMsg, "ai service") {
		return ServiceUnavailable(
			CodeAIServiceError,
			"AI service is temporarily unavailable. Please try again later.",
			err,
		)
	}

	// Blob storage errors (S3 presigning)
	if strings.Contains(errMsg, "presign") || strings.Contains(errMsg, "s3") {
		return ServiceUnavailable(
			CodeStorageServiceError,
			"Storage service is temporarily unavailable. Please try again later.",
			err,
		)
	}

	// Default: Unknown error - return sanitized 500
	return InternalError(err)
}
