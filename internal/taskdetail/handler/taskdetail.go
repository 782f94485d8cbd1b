package handler

import (
	"creatorlink/internal/apierrors"
	authHandler "creatorlink/internal/auth/handler"
	"creatorlink/internal/clients/storage"
	"creatorlink/internal/observability"
	"creatorlink/internal/store"
	taskdetailProcessor "creatorlink/internal/taskdetail/processor"
	workflowProcessor "creatorlink/internal/workflow/processor"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	taskdetail taskdetailProcessor.TaskDetailProcessor
	workflow   workflowProcessor.WorkflowProcessor
	storage    *storage.Client
	logger     *observability.Logger
}

func New(taskdetail taskdetailProcessor.TaskDetailProcessor, workflow workflowProcessor.WorkflowProcessor, storageClient *storage.Client, logger *observability.Logger) Handler {
	return Handler{
		taskdetail: taskdetail,
		workflow:   workflow,
		storage:    storageClient,
		logger:     logger,
	}
}

func taskIDParam(c *gin.Context) (uuid.UUID, bool) {
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.RespondWithError(c, apierrors.BadRequest(apierrors.CodeInvalidInput, "Invalid task id"))
		return uuid.Nil, false
	}
	return taskID, true
}

func session(c *gin.Context) (authHandler.Session, bool) {
	s, ok := authHandler.CurrentSession(c)
	if !ok {
		apierrors.RespondWithError(c, apierrors.Unauthorized("invalid session"))
		return authHandler.Session{}, false
	}
	return s, true
}

type CreateTaskRequest struct {
	CampaignID   string     `json:"campaign_id" binding:"required,uuid"`
	InfluencerID string     `json:"influencer_id" binding:"required,uuid"`
	Title        string     `json:"title" binding:"required"`
	Description  *string    `json:"description"`
	TaskType     string     `json:"task_type" binding:"required,oneof=content_creation product_review brand_ambassador event_coverage"`
	NextDeadline *time.Time `json:"next_deadline"`
}

// CreateTask inserts the task and initializes its workflow rows.
func (h *Handler) CreateTask(c *gin.Context) {
	ctx := c.Request.Context()

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error(ctx, "failed to bind request", err)
		apierrors.ValidationError(c, err)
		return
	}

	campaignID, err := uuid.Parse(req.CampaignID)
	if err != nil {
		apierrors.RespondWithError(c, apierrors.BadRequest(apierrors.CodeInvalidInput, "Invalid campaign id"))
		return
	}
	influencerID, err := uuid.Parse(req.InfluencerID)
	if err != nil {
		apierrors.RespondWithError(c, apierrors.BadRequest(apierrors.CodeInvalidInput, "Invalid influencer id"))
		return
	}

	task, err := h.taskdetail.CreateTask(ctx, store.CreateTaskParams{
		CampaignID:   campaignID,
		InfluencerID: influencerID,
		Title:        req.Title,
		Description:  req.Description,
		TaskType:     req.TaskType,
		NextDeadline: req.NextDeadline,
	})
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	states, err := h.workflow.InitializeWorkflow(ctx, task.ID)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"task":            task,
		"workflow_states": states,
	})
}

// GetTaskDetail returns the aggregated view-model for one task.
func (h *Handler) GetTaskDetail(c *gin.Context) {
	ctx := c.Request.Context()
	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	detail, err := h.taskdetail.GetTaskDetail(ctx, taskID)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// SubmitForReview marks the task as waiting on brand review.
func (h *Handler) SubmitForReview(c *gin.Context) {
	ctx := c.Request.Context()
	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	task, err := h.taskdetail.SubmitForReview(ctx, taskID)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

type SendMessageRequest struct {
	Message string `json:"message" binding:"required"`
}

// SendMessage appends a feedback message from the authenticated actor.
func (h *Handler) SendMessage(c *gin.Context) {
	ctx := c.Request.Context()
	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}
	sess, ok := session(c)
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error(ctx, "failed to bind request", err)
		apierrors.ValidationError(c, err)
		return
	}

	// Agencies act on the brand side of the exchange.
	senderType := store.SenderTypeBrand
	if sess.Role == store.UserRoleInfluencer {
		senderType = store.SenderTypeInfluencer
	}

	feedback, err := h.taskdetail.SendMessage(ctx, taskID, sess.UserID, senderType, req.Message)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, feedback)
}

// GetFeedback returns the task's feedback log.
func (h *Handler) GetFeedback(c *gin.Context) {
	ctx := c.Request.Context()
	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	feedback, err := h.taskdetail.GetFeedback(ctx, taskID)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"feedback": feedback})
}

type PresignUploadRequest struct {
	ContentType string `json:"content_type" binding:"required"`
}

// PresignUpload hands out a short-lived PUT URL for the upload bytes.
func (h *Handler) PresignUpload(c *gin.Context) {
	ctx := c.Request.Context()
	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	var req PresignUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error(ctx, "failed to bind request", err)
		apierrors.ValidationError(c, err)
		return
	}

	key, url, err := h.storage.PresignUpload(ctx, taskID, req.ContentType)
	if err != nil {
		h.logger.Error(ctx, "failed to presign upload", err)
		apierrors.RespondWithError(c, apierrors.ServiceUnavailable(
			apierrors.CodePresignFailed, "Failed to prepare upload. Please try again.", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"key":        key,
		"upload_url": url,
	})
}

type AddUploadRequest struct {
	FileName string  `json:"file_name" binding:"required"`
	FileURL  string  `json:"file_url" binding:"required,url"`
	MimeType string  `json:"mime_type" binding:"required"`
	Caption  *string `json:"caption"`
	Hashtags *string `json:"hashtags"`
}

// AddUpload records a file the influencer finished uploading.
func (h *Handler) AddUpload(c *gin.Context) {
	ctx := c.Request.Context()
	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}
	sess, ok := session(c)
	if !ok {
		return
	}

	var req AddUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error(ctx, "failed to bind request", err)
		apierrors.ValidationError(c, err)
		return
	}

	upload, err := h.taskdetail.AddUpload(ctx, taskdetailProcessor.AddUploadParams{
		TaskID:     taskID,
		UploaderID: sess.UserID,
		FileName:   req.FileName,
		FileURL:    req.FileURL,
		MimeType:   req.MimeType,
		Caption:    req.Caption,
		Hashtags:   req.Hashtags,
	})
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, upload)
}

// GetUploads returns the task's uploads.
func (h *Handler) GetUploads(c *gin.Context) {
	ctx := c.Request.Context()
	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	uploads, err := h.taskdetail.GetUploads(ctx, taskID)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"uploads": uploads})
}

// DeleteUpload removes an upload record.
func (h *Handler) DeleteUpload(c *gin.Context) {
	ctx := c.Request.Context()
	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}
	uploadID, err := uuid.Parse(c.Param("uploadID"))
	if err != nil {
		apierrors.RespondWithError(c, apierrors.BadRequest(apierrors.CodeInvalidInput, "Invalid upload id"))
		return
	}

	if err := h.taskdetail.DeleteUpload(ctx, taskID, uploadID); err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
