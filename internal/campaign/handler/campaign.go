package handler

import (
	"creatorlink/internal/apierrors"
	authHandler "creatorlink/internal/auth/handler"
	campaignProcessor "creatorlink/internal/campaign/processor"
	"creatorlink/internal/observability"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	campaign campaignProcessor.CampaignProcessor
	logger   *observability.Logger
}

func New(campaign campaignProcessor.CampaignProcessor, logger *observability.Logger) Handler {
	return Handler{campaign: campaign, logger: logger}
}

func campaignIDParam(c *gin.Context) (uuid.UUID, bool) {
	campaignID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.RespondWithError(c, apierrors.BadRequest(apierrors.CodeInvalidInput, "Invalid campaign id"))
		return uuid.Nil, false
	}
	return campaignID, true
}

type CreateCampaignRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}

// CreateCampaign creates a campaign owned by the authenticated brand.
func (h *Handler) CreateCampaign(c *gin.Context) {
	ctx := c.Request.Context()
	sess, ok := authHandler.CurrentSession(c)
	if !ok {
		apierrors.RespondWithError(c, apierrors.Unauthorized("invalid session"))
		return
	}

	var req CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error(ctx, "failed to bind request", err)
		apierrors.ValidationError(c, err)
		return
	}

	campaign, err := h.campaign.CreateCampaign(ctx, sess.UserID, req.Name, req.Description)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, campaign)
}

// ListCampaigns returns the authenticated brand's campaigns.
func (h *Handler) ListCampaigns(c *gin.Context) {
	ctx := c.Request.Context()
	sess, ok := authHandler.CurrentSession(c)
	if !ok {
		apierrors.RespondWithError(c, apierrors.Unauthorized("invalid session"))
		return
	}

	campaigns, err := h.campaign.ListCampaigns(ctx, sess.UserID)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"campaigns": campaigns})
}

// GetCampaign returns one campaign.
func (h *Handler) GetCampaign(c *gin.Context) {
	ctx := c.Request.Context()
	campaignID, ok := campaignIDParam(c)
	if !ok {
		return
	}

	campaign, err := h.campaign.GetCampaign(ctx, campaignID)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, campaign)
}

// GetCampaignTasks returns the campaign's tasks.
func (h *Handler) GetCampaignTasks(c *gin.Context) {
	ctx := c.Request.Context()
	campaignID, ok := campaignIDParam(c)
	if !ok {
		return
	}

	tasks, err := h.campaign.GetCampaignTasks(ctx, campaignID)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}
