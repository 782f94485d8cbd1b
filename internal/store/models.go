package store

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PhaseVisibility is the per-phase visibility map stored on the task row.
// It is a fixed-shape record, one boolean per known phase, so a missing key
// can never default ambiguously.
type PhaseVisibility struct {
	ContentRequirement bool `json:"content_requirement"`
	ContentReview      bool `json:"content_review"`
	PublishAnalytics   bool `json:"publish_analytics"`
}

// Value implements driver.Valuer for the jsonb column.
func (v PhaseVisibility) Value() (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal phase visibility: %w", err)
	}
	return b, nil
}

// Scan implements sql.Scanner for the jsonb column. NULL scans to all-false.
func (v *PhaseVisibility) Scan(src interface{}) error {
	if src == nil {
		*v = PhaseVisibility{}
		return nil
	}
	var b []byte
	switch s := src.(type) {
	case []byte:
		b = s
	case string:
		b = []byte(s)
	default:
		return fmt.Errorf("unsupported phase visibility type %T", src)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("failed to unmarshal phase visibility: %w", err)
	}
	return nil
}

// Visible reports whether the given phase is visible.
func (v PhaseVisibility) Visible(phase string) bool {
	switch phase {
	case PhaseContentRequirement:
		return v.ContentRequirement
	case PhaseContentReview:
		return v.ContentReview
	case PhasePublishAnalytics:
		return v.PublishAnalytics
	}
	return false
}

// AnalyticsData is the analytics payload stored on a published content row.
type AnalyticsData struct {
	Reach          int     `json:"reach"`
	Impressions    int     `json:"impressions"`
	Likes          int     `json:"likes"`
	Comments       int     `json:"comments"`
	Shares         int     `json:"shares"`
	Saves          int     `json:"saves"`
	EngagementRate float64 `json:"engagement_rate"`
}

// Value implements driver.Valuer for the jsonb column.
func (a AnalyticsData) Value() (driver.Value, error) {
	b, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal analytics data: %w", err)
	}
	return b, nil
}

// Scan implements sql.Scanner for the jsonb column.
func (a *AnalyticsData) Scan(src interface{}) error {
	if src == nil {
		*a = AnalyticsData{}
		return nil
	}
	var b []byte
	switch s := src.(type) {
	case []byte:
		b = s
	case string:
		b = []byte(s)
	default:
		return fmt.Errorf("unsupported analytics data type %T", src)
	}
	if err := json.Unmarshal(b, a); err != nil {
		return fmt.Errorf("failed to unmarshal analytics data: %w", err)
	}
	return nil
}

// User represents a platform account: a brand, influencer or agency actor.
type User struct {
	ID             uuid.UUID `db:"id"`
	Email          string    `db:"email"`
	HashedPassword string    `db:"hashed_password"`
	DisplayName    string    `db:"display_name"`
	Role           string    `db:"role"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// Campaign groups tasks under one brand.
type Campaign struct {
	ID          uuid.UUID `db:"id"`
	BrandID     uuid.UUID `db:"brand_id"`
	Name        string    `db:"name"`
	Description *string   `db:"description"`
	Status      string    `db:"status"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// Task is one unit of campaign work assigned to one influencer.
// status and current_phase mirror the workflow_states rows; they are only
// ever written in the same transaction as those rows.
type Task struct {
	ID              uuid.UUID       `db:"id"`
	CampaignID      uuid.UUID       `db:"campaign_id"`
	InfluencerID    uuid.UUID       `db:"influencer_id"`
	Title           string          `db:"title"`
	Description     *string         `db:"description"`
	TaskType        string          `db:"task_type"`
	Status          string          `db:"status"`
	Progress        int             `db:"progress"`
	CurrentPhase    string          `db:"current_phase"`
	PhaseVisibility PhaseVisibility `db:"phase_visibility"`
	AIScore         *float64        `db:"ai_score"`
	NextDeadline    *time.Time      `db:"next_deadline"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at"`
}

// WorkflowState is one row per (task, phase) pair.
type WorkflowState struct {
	ID              uuid.UUID  `db:"id"`
	TaskID          uuid.UUID  `db:"task_id"`
	Phase           string     `db:"phase"`
	Status          string     `db:"status"`
	StartedAt       *time.Time `db:"started_at"`
	CompletedAt     *time.Time `db:"completed_at"`
	RejectedAt      *time.Time `db:"rejected_at"`
	RejectionReason *string    `db:"rejection_reason"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
}

// ContentDraft is the brand's content-requirement text for a task.
type ContentDraft struct {
	ID                   uuid.UUID `db:"id"`
	TaskID               uuid.UUID `db:"task_id"`
	Content              string    `db:"content"`
	AIGenerated          bool      `db:"ai_generated"`
	BrandEdited          bool      `db:"brand_edited"`
	SharedWithInfluencer bool      `db:"shared_with_influencer"`
	CreatedBy            uuid.UUID `db:"created_by"`
	CreatedAt            time.Time `db:"created_at"`
	UpdatedAt            time.Time `db:"updated_at"`
}

// Upload is influencer-submitted media. The bytes live in the blob store;
// only the URL is recorded here.
type Upload struct {
	ID         uuid.UUID `db:"id"`
	TaskID     uuid.UUID `db:"task_id"`
	UploaderID uuid.UUID `db:"uploader_id"`
	FileName   string    `db:"file_name"`
	FileURL    string    `db:"file_url"`
	MimeType   string    `db:"mime_type"`
	Caption    *string   `db:"caption"`
	Hashtags   *string   `db:"hashtags"`
	CreatedAt  time.Time `db:"created_at"`
}

// ContentReview is the brand's verdict on one upload. Append-only.
type ContentReview struct {
	ID         uuid.UUID  `db:"id"`
	TaskID     uuid.UUID  `db:"task_id"`
	UploadID   uuid.UUID  `db:"upload_id"`
	Status     string     `db:"status"`
	Feedback   *string    `db:"feedback"`
	ReviewedBy *uuid.UUID `db:"reviewed_by"`
	ReviewedAt *time.Time `db:"reviewed_at"`
	CreatedAt  time.Time  `db:"created_at"`
}

// PublishedContent is the influencer's live-post record for a task.
type PublishedContent struct {
	ID            uuid.UUID      `db:"id"`
	TaskID        uuid.UUID      `db:"task_id"`
	InfluencerID  uuid.UUID      `db:"influencer_id"`
	URL           string         `db:"url"`
	Platform      string         `db:"platform"`
	Status        string         `db:"status"`
	AnalyticsData *AnalyticsData `db:"analytics_data"`
	Notes         *string        `db:"notes"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

// TaskFeedback is one message in the append-only brand/influencer exchange.
type TaskFeedback struct {
	ID         uuid.UUID `db:"id"`
	TaskID     uuid.UUID `db:"task_id"`
	SenderID   uuid.UUID `db:"sender_id"`
	SenderType string    `db:"sender_type"`
	Phase      string    `db:"phase"`
	Message    string    `db:"message"`
	CreatedAt  time.Time `db:"created_at"`
}
