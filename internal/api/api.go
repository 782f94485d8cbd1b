package api

import (
	authHandler "creatorlink/internal/auth/handler"
	campaignHandler "creatorlink/internal/campaign/handler"
	progressHandler "creatorlink/internal/progress/handler"
	taskdetailHandler "creatorlink/internal/taskdetail/handler"
	workflowHandler "creatorlink/internal/workflow/handler"
	"net/http"

	"github.com/gin-gonic/gin"
)

type API struct {
	router            *gin.RouterGroup
	authHandler       authHandler.Handler
	campaignHandler   campaignHandler.Handler
	workflowHandler   workflowHandler.Handler
	taskdetailHandler taskdetailHandler.Handler
	progressHandler   progressHandler.Handler
}

func New(
	router *gin.RouterGroup,
	authHandler authHandler.Handler,
	campaignHandler campaignHandler.Handler,
	workflowHandler workflowHandler.Handler,
	taskdetailHandler taskdetailHandler.Handler,
	progressHandler progressHandler.Handler,
) API {
	return API{
		router:            router,
		authHandler:       authHandler,
		campaignHandler:   campaignHandler,
		workflowHandler:   workflowHandler,
		taskdetailHandler: taskdetailHandler,
		progressHandler:   progressHandler,
	}
}

func (a *API) RegisterRoutes() {
	a.Health()
	apiGroup := a.router.Group("/api")
	{
		authGroup := apiGroup.Group("/auth")
		authGroup.POST("/signup", a.authHandler.HandleSignup)
		authGroup.POST("/login", a.authHandler.HandleLogin)
	}
	protectedGroup := apiGroup.Group("/protected", a.authHandler.HandleJWTMiddleware)
	{
		protectedGroup.GET("/user", a.authHandler.GetUserInfo)

		campaigns := protectedGroup.Group("/campaigns")
		campaigns.POST("", a.campaignHandler.CreateCampaign)
		campaigns.GET("", a.campaignHandler.ListCampaigns)
		campaigns.GET("/:id", a.campaignHandler.GetCampaign)
		campaigns.GET("/:id/tasks", a.campaignHandler.GetCampaignTasks)

		tasks := protectedGroup.Group("/tasks")
		tasks.POST("", a.taskdetailHandler.CreateTask)
		tasks.GET("/:id", a.taskdetailHandler.GetTaskDetail)
		tasks.GET("/:id/workflow", a.workflowHandler.GetWorkflowStates)

		tasks.POST("/:id/requirements/start", a.workflowHandler.StartRequirements)
		tasks.POST("/:id/requirements/generate", a.workflowHandler.GenerateRequirements)
		tasks.POST("/:id/requirements/share", a.workflowHandler.ShareRequirements)
		tasks.GET("/:id/drafts", a.workflowHandler.GetDrafts)

		tasks.POST("/:id/uploads/presign", a.taskdetailHandler.PresignUpload)
		tasks.POST("/:id/uploads", a.taskdetailHandler.AddUpload)
		tasks.GET("/:id/uploads", a.taskdetailHandler.GetUploads)
		tasks.DELETE("/:id/uploads/:uploadID", a.taskdetailHandler.DeleteUpload)
		tasks.POST("/:id/uploads/:uploadID/analyze", a.workflowHandler.AnalyzeUpload)

		tasks.POST("/:id/reviews", a.workflowHandler.CreateReview)
		tasks.GET("/:id/reviews", a.workflowHandler.GetReviews)

		tasks.POST("/:id/publish", a.workflowHandler.Publish)
		tasks.POST("/:id/analytics", a.workflowHandler.SubmitAnalytics)
		tasks.POST("/:id/submit-review", a.taskdetailHandler.SubmitForReview)

		tasks.POST("/:id/feedback", a.taskdetailHandler.SendMessage)
		tasks.GET("/:id/feedback", a.taskdetailHandler.GetFeedback)

		dashboard := protectedGroup.Group("/dashboard")
		dashboard.GET("/overview", a.progressHandler.GetOverview)
		dashboard.GET("/timeline", a.progressHandler.GetTimeline)
		dashboard.GET("/activity", a.progressHandler.GetActivity)
	}
}

func (a *API) Health() {
	a.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
}
