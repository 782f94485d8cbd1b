package store

// User ENUMs
const (
	UserRoleBrand      = "brand"
	UserRoleInfluencer = "influencer"
	UserRoleAgency     = "agency"
)

// Workflow phase ENUMs
const (
	PhaseContentRequirement = "content_requirement"
	PhaseContentReview      = "content_review"
	PhasePublishAnalytics   = "publish_analytics"
)

// Workflow phase status ENUMs
const (
	PhaseStatusNotStarted = "not_started"
	PhaseStatusInProgress = "in_progress"
	PhaseStatusCompleted  = "completed"
	PhaseStatusRejected   = "rejected"
)

// Task ENUMs
const (
	TaskStatusPending            = "pending"
	TaskStatusContentRequirement = "content_requirement"
	TaskStatusContentReview      = "content_review"
	TaskStatusPostContent        = "post_content"
	TaskStatusContentAnalytics   = "content_analytics"
	TaskStatusCompleted          = "completed"
)

const (
	TaskTypeContentCreation = "content_creation"
	TaskTypeProductReview   = "product_review"
	TaskTypeBrandAmbassador = "brand_ambassador"
	TaskTypeEventCoverage   = "event_coverage"
)

// Content review ENUMs
const (
	ReviewStatusPending  = "pending"
	ReviewStatusApproved = "approved"
	ReviewStatusRejected = "rejected"
)

// Published content ENUMs
const (
	PublishedStatusSubmitted = "submitted"
	PublishedStatusLive      = "live"
	PublishedStatusCompleted = "completed"
)

const (
	PlatformInstagram = "instagram"
	PlatformTikTok    = "tiktok"
	PlatformYouTube   = "youtube"
	PlatformTwitter   = "twitter"
	PlatformOther     = "other"
)

// Feedback sender ENUMs
const (
	SenderTypeBrand      = "brand"
	SenderTypeInfluencer = "influencer"
)

// Campaign ENUMs
const (
	CampaignStatusActive    = "active"
	CampaignStatusPaused    = "paused"
	CampaignStatusCompleted = "completed"
)

// AllPhases lists the workflow phases in lifecycle order.
var AllPhases = []string{PhaseContentRequirement, PhaseContentReview, PhasePublishAnalytics}
