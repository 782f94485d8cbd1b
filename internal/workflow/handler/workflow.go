package handler

import (
	"creatorlink/internal/apierrors"
	authHandler "creatorlink/internal/auth/handler"
	"creatorlink/internal/clients/ai"
	"creatorlink/internal/clients/googleai"
	"creatorlink/internal/observability"
	workflowProcessor "creatorlink/internal/workflow/processor"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	workflow workflowProcessor.WorkflowProcessor
	ai       *ai.Client
	analyzer *googleai.Client
	logger   *observability.Logger
}

func New(workflow workflowProcessor.WorkflowProcessor, aiClient *ai.Client, analyzer *googleai.Client, logger *observability.Logger) Handler {
	return Handler{
		workflow: workflow,
		ai:       aiClient,
		analyzer: analyzer,
		logger:   logger,
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

// GetWorkflowStates returns the phase rows the caller is allowed to see.
func (h *Handler) GetWorkflowStates(c *gin.Context) {
	ctx := c.Request.Context()
	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}
	sess, ok := session(c)
	if !ok {
		return
	}

	states, err := h.workflow.GetVisibleWorkflowStates(ctx, taskID, sess.Role)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"workflow_states": states})
}

// StartRequirements moves the content_requirement phase to in_progress.
func (h *Handler) StartRequirements(c *gin.Context) {
	ctx := c.Request.Context()
	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	state, err := h.workflow.StartContentRequirementPhase(ctx, taskID)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

type GenerateRequirementsRequest struct {
	CampaignName    string `json:"campaign_name" binding:"required"`
	BrandName       string `json:"brand_name" binding:"required"`
	TaskTitle       string `json:"task_title" binding:"required"`
	TaskDescription string `json:"task_description"`
	TaskType        string `json:"task_type" binding:"required,oneof=content_creation product_review brand_ambassador event_coverage"`
}

// GenerateRequirements asks the model for deliverables and stores them as an
// unshared AI draft.
func (h *Handler) GenerateRequirements(c *gin.Context) {
	ctx := c.Request.Context()
	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}
	sess, ok := session(c)
	if !ok {
		return
	}

	var req GenerateRequirementsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error(ctx, "failed to bind request", err)
		apierrors.ValidationError(c, err)
		return
	}

	deliverables, err := h.ai.GenerateDeliverables(ctx, ai.Brief{
		CampaignName:    req.CampaignName,
		BrandName:       req.BrandName,
		TaskTitle:       req.TaskTitle,
		TaskDescription: req.TaskDescription,
		TaskType:        req.TaskType,
	})
	if err != nil {
		h.logger.Error(ctx, "failed to generate deliverables", err)
		apierrors.RespondWithError(c, apierrors.ServiceUnavailable(
			apierrors.CodeAIGenerationFailed, "Failed to generate content requirements. Please try again.", err))
		return
	}

	draft, err := h.workflow.SaveContentDraft(ctx, taskID, deliverablesToText(deliverables), true, false, sess.UserID)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"deliverables": deliverables,
		"draft":        draft,
	})
}

type ShareRequirementsRequest struct {
	Content     string `json:"content" binding:"required"`
	AIGenerated bool   `json:"ai_generated"`
	BrandEdited bool   `json:"brand_edited"`
}

// ShareRequirements commits the requirements to the influencer and advances
// the workflow to content_review.
func (h *Handler) ShareRequirements(c *gin.Context) {
	ctx := c.Request.Context()
	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}
	sess, ok := session(c)
	if !ok {
		return
	}

	var req ShareRequirementsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error(ctx, "failed to bind request", err)
		apierrors.ValidationError(c, err)
		return
	}

	draft, err := h.workflow.ShareContentRequirements(ctx, taskID, req.Content, req.AIGenerated, req.BrandEdited, sess.UserID)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, draft)
}

// GetDrafts returns the task's content drafts.
func (h *Handler) GetDrafts(c *gin.Context) {
	ctx := c.Request.Context()
	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}
	sess, ok := session(c)
	if !ok {
		return
	}

	drafts, err := h.workflow.GetContentDrafts(ctx, taskID, sess.Role)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"drafts": drafts})
}

type CreateReviewRequest struct {
	UploadID string  `json:"upload_id" binding:"required,uuid"`
	Status   string  `json:"status" binding:"required,oneof=pending approved rejected"`
	Feedback *string `json:"feedback"`
}

// CreateReview records the brand's verdict on an upload.
func (h *Handler) CreateReview(c *gin.Context) {
	ctx := c.Request.Context()
	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}
	sess, ok := session(c)
	if !ok {
		return
	}

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error(ctx, "failed to bind request", err)
		apierrors.ValidationError(c, err)
		return
	}
	uploadID, err := uuid.Parse(req.UploadID)
	if err != nil {
		apierrors.RespondWithError(c, apierrors.BadRequest(apierrors.CodeInvalidInput, "Invalid upload id"))
		return
	}

	review, err := h.workflow.CreateContentReview(ctx, taskID, uploadID, req.Status, req.Feedback, &sess.UserID)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

// GetReviews returns the task's reviews.
func (h *Handler) GetReviews(c *gin.Context) {
	ctx := c.Request.Context()
	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}
	sess, ok := session(c)
	if !ok {
		return
	}

	reviews, err := h.workflow.GetContentReviews(ctx, taskID, sess.Role)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

type PublishRequest struct {
	URL      string  `json:"url" binding:"required,url"`
	Platform string  `json:"platform" binding:"required,oneof=instagram tiktok youtube twitter other"`
	Notes    *string `json:"notes"`
}

// Publish records where the approved content went live.
func (h *Handler) Publish(c *gin.Context) {
	ctx := c.Request.Context()
	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}
	sess, ok := session(c)
	if !ok {
		return
	}

	var req PublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error(ctx, "failed to bind request", err)
		apierrors.ValidationError(c, err)
		return
	}

	content, err := h.workflow.SubmitPublishedContent(ctx, taskID, req.URL, req.Platform, sess.UserID, req.Notes)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, content)
}

type SubmitAnalyticsRequest struct {
	Reach       int `json:"reach" binding:"min=0"`
	Impressions int `json:"impressions" binding:"min=0"`
	Likes       int `json:"likes" binding:"min=0"`
	Comments    int `json:"comments" binding:"min=0"`
	Shares      int `json:"shares" binding:"min=0"`
	Saves       int `json:"saves" binding:"min=0"`
}

// SubmitAnalytics stores the final metrics and completes the task.
func (h *Handler) SubmitAnalytics(c *gin.Context) {
	ctx := c.Request.Context()
	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	var req SubmitAnalyticsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error(ctx, "failed to bind request", err)
		apierrors.ValidationError(c, err)
		return
	}

	content, err := h.workflow.SubmitAnalytics(ctx, taskID, workflowProcessor.AnalyticsMetrics{
		Reach:       req.Reach,
		Impressions: req.Impressions,
		Likes:       req.Likes,
		Comments:    req.Comments,
		Shares:      req.Shares,
		Saves:       req.Saves,
	})
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, content)
}

type AnalyzeUploadRequest struct {
	Caption  string `json:"caption"`
	Hashtags string `json:"hashtags"`
}

// AnalyzeUpload scores an upload's caption and hashtags against the shared
// requirements.
func (h *Handler) AnalyzeUpload(c *gin.Context) {
	ctx := c.Request.Context()
	taskID, ok := taskIDParam(c)
	if !ok {
		return
	}

	var req AnalyzeUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error(ctx, "failed to bind request", err)
		apierrors.ValidationError(c, err)
		return
	}

	draft, err := h.workflow.GetSharedContentDraft(ctx, taskID)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	analysis, err := h.analyzer.AnalyzeContent(ctx, draft.Content, req.Caption, req.Hashtags)
	if err != nil {
		h.logger.Error(ctx, "failed to analyze content", err)
		apierrors.RespondWithError(c, apierrors.ServiceUnavailable(
			apierrors.CodeAnalysisFailed, "Failed to analyze content. Please try again.", err))
		return
	}
	c.JSON(http.StatusOK, analysis)
}

// deliverablesToText renders the generated categories as the draft body.
func deliverablesToText(d ai.Deliverables) string {
	sections := []struct {
		title string
		items []string
	}{
		{"Content Themes", d.ContentThemes},
		{"Key Messages", d.KeyMessages},
		{"Content Formats", d.ContentFormats},
		{"Hashtags", d.Hashtags},
		{"Captions", d.Captions},
		{"Posting Schedule", d.PostingSchedule},
		{"Visual Guidelines", d.VisualGuidelines},
		{"Do's", d.Dos},
		{"Don'ts", d.Donts},
		{"Call-to-Action Suggestions", d.CTASuggestions},
	}

	var out string
	for _, s := range sections {
		if len(s.items) == 0 {
			continue
		}
		out += "## " + s.title + "\n"
		for _, item := range s.items {
			out += "- " + item + "\n"
		}
		out += "\n"
	}
	return out
}
