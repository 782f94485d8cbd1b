package handler

import (
	"creatorlink/internal/apierrors"
	"creatorlink/internal/auth/processor"
	"creatorlink/internal/observability"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	contextKeyUserID   = "User-ID"
	contextKeyUserRole = "User-Role"
)

// Session is the authenticated identity stamped on the request by the JWT
// middleware.
type Session struct {
	UserID uuid.UUID
	Role   string
}

// CurrentSession extracts the authenticated session from the gin context.
func CurrentSession(c *gin.Context) (Session, bool) {
	rawID, ok := c.Get(contextKeyUserID)
	if !ok {
		return Session{}, false
	}
	userID, err := uuid.Parse(rawID.(string))
	if err != nil {
		return Session{}, false
	}
	role := c.GetString(contextKeyUserRole)
	if role == "" {
		return Session{}, false
	}
	return Session{UserID: userID, Role: role}, true
}

type Handler struct {
	authProcessor processor.AuthProcessor
	logger        *observability.Logger
}

func New(authProcessor processor.AuthProcessor, logger *observability.Logger) Handler {
	return Handler{authProcessor: authProcessor, logger: logger}
}

type SignupRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	DisplayName string `json:"display_name" binding:"required"`
	Role        string `json:"role" binding:"required,oneof=brand influencer agency"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

func (h *Handler) HandleSignup(c *gin.Context) {
	var req SignupRequest
	ctx := c.Request.Context()
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error(ctx, "failed to bind request", err)
		apierrors.ValidationError(c, err)
		return
	}
	signedUpUser, err := h.authProcessor.Signup(ctx, req.Email, req.Password, req.DisplayName, req.Role)
	if err != nil {
		h.logger.Error(ctx, "failed to signup", err)
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, signedUpUser)
}

func (h *Handler) HandleLogin(c *gin.Context) {
	var req LoginRequest
	ctx := c.Request.Context()
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error(ctx, "failed to bind request", err)
		apierrors.ValidationError(c, err)
		return
	}
	token, err := h.authProcessor.Login(ctx, req.Email, req.Password)
	if err != nil {
		h.logger.Error(ctx, "failed to login", err)
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (h *Handler) GetUserInfo(c *gin.Context) {
	ctx := c.Request.Context()
	session, ok := CurrentSession(c)
	if !ok {
		h.logger.Error(ctx, "failed to get session from context", nil)
		apierrors.RespondWithError(c, apierrors.Unauthorized("invalid session"))
		return
	}
	user, err := h.authProcessor.GetUserByID(ctx, session.UserID)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// HandleJWTMiddleware validates the bearer token and stamps the user id and
// role onto the request context for downstream handlers.
func (h *Handler) HandleJWTMiddleware(c *gin.Context) {
	ctx := c.Request.Context()
	tokenHeader := c.GetHeader("Authorization")

	if tokenHeader == "" || !strings.HasPrefix(tokenHeader, "Bearer ") {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization token is missing or invalid"})
		c.Abort()
		return
	}

	tokenString := strings.TrimPrefix(tokenHeader, "Bearer ")

	claims, err := h.authProcessor.ValidateJWTToken(ctx, tokenString)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		c.Abort()
		return
	}
	sub, err := claims.GetSubject()
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		c.Abort()
		return
	}
	c.Set(contextKeyUserID, sub)
	c.Set(contextKeyUserRole, claims.Role)
	c.Next()
}
