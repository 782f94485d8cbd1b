package handler

import (
	"creatorlink/internal/apierrors"
	authHandler "creatorlink/internal/auth/handler"
	"creatorlink/internal/observability"
	progressProcessor "creatorlink/internal/progress/processor"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	progress progressProcessor.ProgressProcessor
	logger   *observability.Logger
}

func New(progress progressProcessor.ProgressProcessor, logger *observability.Logger) Handler {
	return Handler{progress: progress, logger: logger}
}

func session(c *gin.Context) (authHandler.Session, bool) {
	s, ok := authHandler.CurrentSession(c)
	if !ok {
		apierrors.RespondWithError(c, apierrors.Unauthorized("invalid session"))
		return authHandler.Session{}, false
	}
	return s, true
}

// GetOverview returns the per-status counts and average progress.
func (h *Handler) GetOverview(c *gin.Context) {
	ctx := c.Request.Context()
	sess, ok := session(c)
	if !ok {
		return
	}

	overview, err := h.progress.GetOverview(ctx, sess.UserID, sess.Role)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

// GetTimeline returns the caller's tasks with phase rows, nearest deadline
// first.
func (h *Handler) GetTimeline(c *gin.Context) {
	ctx := c.Request.Context()
	sess, ok := session(c)
	if !ok {
		return
	}

	timeline, err := h.progress.GetTimeline(ctx, sess.UserID, sess.Role)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"timeline": timeline})
}

// GetActivity returns the newest feedback, reviews and uploads.
func (h *Handler) GetActivity(c *gin.Context) {
	ctx := c.Request.Context()
	sess, ok := session(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	activity, err := h.progress.GetActivity(ctx, sess.UserID, sess.Role, limit)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"activity": activity})
}
