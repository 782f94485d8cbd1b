package processor

import (
	"context"
	"creatorlink/internal/observability"
	"creatorlink/internal/store"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrTaskNotFound          = errors.New("task not found")
	ErrEmptyContent          = errors.New("content requirements are empty")
	ErrPhaseNotStarted       = errors.New("phase not started")
	ErrUploadNotFound        = errors.New("upload not found")
	ErrUploadNotForTask      = errors.New("upload does not belong to task")
	ErrUploadAlreadyReviewed = errors.New("upload already has a final review")
	ErrInvalidReviewStatus   = errors.New("invalid review status")
	ErrInvalidPlatform       = errors.New("invalid platform")
	ErrInvalidAnalytics      = errors.New("invalid analytics metrics")
	ErrNoPublishedContent    = errors.New("no published content for task")
	ErrPhaseNotVisible       = errors.New("phase not visible")
)

// Store is the slice of the data layer the workflow processor needs.
type Store interface {
	GetTaskByID(ctx context.Context, taskID uuid.UUID) (store.Task, error)
	GetWorkflowStates(ctx context.Context, taskID uuid.UUID) ([]store.WorkflowState, error)
	InitializeWorkflowStates(ctx context.Context, taskID uuid.UUID) error
	StartWorkflowPhase(ctx context.Context, taskID uuid.UUID, phase string) (store.WorkflowState, error)
	ShareContentRequirements(ctx context.Context, params store.ShareContentRequirementsParams) (store.ContentDraft, error)
	UpsertContentDraft(ctx context.Context, params store.UpsertContentDraftParams) (store.ContentDraft, error)
	GetContentDraftsByTaskID(ctx context.Context, taskID uuid.UUID) ([]store.ContentDraft, error)
	GetSharedContentDraft(ctx context.Context, taskID uuid.UUID) (store.ContentDraft, error)
	GetUploadByID(ctx context.Context, uploadID uuid.UUID) (store.Upload, error)
	GetLatestReviewByUploadID(ctx context.Context, uploadID uuid.UUID) (store.ContentReview, error)
	GetContentReviewsByTaskID(ctx context.Context, taskID uuid.UUID) ([]store.ContentReview, error)
	CreateContentReview(ctx context.Context, params store.CreateContentReviewParams) (store.ContentReview, error)
	ApproveContentReview(ctx context.Context, params store.ApproveContentReviewParams) (store.ContentReview, error)
	RejectContentReview(ctx context.Context, params store.RejectContentReviewParams) (store.ContentReview, error)
	CreatePublishedContent(ctx context.Context, params store.CreatePublishedContentParams) (store.PublishedContent, error)
	GetLatestPublishedContent(ctx context.Context, taskID uuid.UUID) (store.PublishedContent, error)
	CompleteTaskAnalytics(ctx context.Context, params store.CompleteTaskAnalyticsParams) (store.PublishedContent, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (store.User, error)
}

// Mailer sends workflow notifications. Failures are logged, never returned.
type Mailer interface {
	NotifyRequirementsShared(ctx context.Context, to, taskID, taskTitle string) error
	NotifyContentApproved(ctx context.Context, to, taskID, taskTitle string) error
	NotifyChangesRequested(ctx context.Context, to, taskID, taskTitle string) error
}

type WorkflowProcessor struct {
	store  Store
	mailer Mailer
	logger *observability.Logger
}

func New(store Store, mailer Mailer, logger *observability.Logger) WorkflowProcessor {
	return WorkflowProcessor{
		store:  store,
		mailer: mailer,
		logger: logger,
	}
}

// InitializeWorkflow creates the three phase rows for a task. Safe to call
// more than once; existing rows are left untouched.
func (p *WorkflowProcessor) InitializeWorkflow(ctx context.Context, taskID uuid.UUID) ([]store.WorkflowState, error) {
	ctx = observability.WithFields(ctx, observability.Field{Key: "task_id", Value: taskID.String()})

	if _, err := p.taskByID(ctx, taskID); err != nil {
		return nil, err
	}

	if err := p.store.InitializeWorkflowStates(ctx, taskID); err != nil {
		p.logger.Error(ctx, "failed to initialize workflow states", err)
		return nil, err
	}

	states, err := p.store.GetWorkflowStates(ctx, taskID)
	if err != nil {
		p.logger.Error(ctx, "failed to get workflow states", err)
		return nil, err
	}
	return states, nil
}

// StartContentRequirementPhase moves the first phase to in_progress.
// Repeat calls are no-op transitions.
func (p *WorkflowProcessor) StartContentRequirementPhase(ctx context.Context, taskID uuid.UUID) (store.WorkflowState, error) {
	ctx = observability.WithFields(ctx, observability.Field{Key: "task_id", Value: taskID.String()})

	states, err := p.statesForTask(ctx, taskID)
	if err != nil {
		return store.WorkflowState{}, err
	}
	if err := guardTransition(states, store.PhaseContentRequirement, store.PhaseStatusInProgress); err != nil {
		return store.WorkflowState{}, err
	}

	state, err := p.store.StartWorkflowPhase(ctx, taskID, store.PhaseContentRequirement)
	if err != nil {
		p.logger.Error(ctx, "failed to start content_requirement phase", err)
		return store.WorkflowState{}, err
	}
	return state, nil
}

// SaveContentDraft stores requirement text without sharing it. Used for AI
// generations and manual edits before the brand commits.
func (p *WorkflowProcessor) SaveContentDraft(ctx context.Context, taskID uuid.UUID, content string, aiGenerated, brandEdited bool, createdBy uuid.UUID) (store.ContentDraft, error) {
	ctx = observability.WithFields(ctx, observability.Field{Key: "task_id", Value: taskID.String()})

	if content == "" {
		return store.ContentDraft{}, ErrEmptyContent
	}
	if _, err := p.taskByID(ctx, taskID); err != nil {
		return store.ContentDraft{}, err
	}

	draft, err := p.store.UpsertContentDraft(ctx, store.UpsertContentDraftParams{
		TaskID:      taskID,
		Content:     content,
		AIGenerated: aiGenerated,
		BrandEdited: brandEdited,
		CreatedBy:   createdBy,
	})
	if err != nil {
		p.logger.Error(ctx, "failed to save content draft", err)
		return store.ContentDraft{}, err
	}
	return draft, nil
}

// ShareContentRequirements commits the requirement text to the influencer:
// completes content_requirement, starts content_review and advances the
// task, all atomically. A notification email goes out best-effort.
func (p *WorkflowProcessor) ShareContentRequirements(ctx context.Context, taskID uuid.UUID, content string, aiGenerated, brandEdited bool, createdBy uuid.UUID) (store.ContentDraft, error) {
	ctx = observability.WithFields(ctx, observability.Field{Key: "task_id", Value: taskID.String()})

	if content == "" {
		return store.ContentDraft{}, ErrEmptyContent
	}

	task, err := p.taskByID(ctx, taskID)
	if err != nil {
		return store.ContentDraft{}, err
	}

	states, err := p.statesForTask(ctx, taskID)
	if err != nil {
		return store.ContentDraft{}, err
	}
	if err := guardTransition(states, store.PhaseContentRequirement, store.PhaseStatusCompleted); err != nil {
		return store.ContentDraft{}, err
	}

	draft, err := p.store.ShareContentRequirements(ctx, store.ShareContentRequirementsParams{
		TaskID:      taskID,
		Content:     content,
		AIGenerated: aiGenerated,
		BrandEdited: brandEdited,
		CreatedBy:   createdBy,
	})
	if err != nil {
		p.logger.Error(ctx, "failed to share content requirements", err)
		return store.ContentDraft{}, err
	}

	p.notifyInfluencer(ctx, task, func(to string) error {
		return p.mailer.NotifyRequirementsShared(ctx, to, task.ID.String(), task.Title)
	})

	return draft, nil
}

// CreateContentReview records the brand's verdict on an upload. Approval
// advances the workflow; rejection leaves the phase in_progress for a
// revision; pending stores the verdict only.
func (p *WorkflowProcessor) CreateContentReview(ctx context.Context, taskID, uploadID uuid.UUID, status string, feedback *string, reviewedBy *uuid.UUID) (store.ContentReview, error) {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "task_id", Value: taskID.String()},
		observability.Field{Key: "upload_id", Value: uploadID.String()},
	)

	switch status {
	case store.ReviewStatusPending, store.ReviewStatusApproved, store.ReviewStatusRejected:
	default:
		return store.ContentReview{}, ErrInvalidReviewStatus
	}

	task, err := p.taskByID(ctx, taskID)
	if err != nil {
		return store.ContentReview{}, err
	}

	upload, err := p.store.GetUploadByID(ctx, uploadID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.ContentReview{}, ErrUploadNotFound
		}
		p.logger.Error(ctx, "failed to get upload", err)
		return store.ContentReview{}, err
	}
	if upload.TaskID != taskID {
		return store.ContentReview{}, ErrUploadNotForTask
	}

	latest, err := p.store.GetLatestReviewByUploadID(ctx, uploadID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		p.logger.Error(ctx, "failed to get latest review", err)
		return store.ContentReview{}, err
	}
	if err == nil && (latest.Status == store.ReviewStatusApproved || latest.Status == store.ReviewStatusRejected) {
		return store.ContentReview{}, ErrUploadAlreadyReviewed
	}

	states, err := p.statesForTask(ctx, taskID)
	if err != nil {
		return store.ContentReview{}, err
	}
	reviewState := stateForPhase(states, store.PhaseContentReview)
	if reviewState == nil || reviewState.Status != store.PhaseStatusInProgress {
		return store.ContentReview{}, ErrPhaseNotStarted
	}

	switch status {
	case store.ReviewStatusApproved:
		if err := guardTransition(states, store.PhaseContentReview, store.PhaseStatusCompleted); err != nil {
			return store.ContentReview{}, err
		}
		review, err := p.store.ApproveContentReview(ctx, store.ApproveContentReviewParams{
			TaskID:     taskID,
			UploadID:   uploadID,
			Feedback:   feedback,
			ReviewedBy: reviewedBy,
		})
		if err != nil {
			p.logger.Error(ctx, "failed to approve content review", err)
			return store.ContentReview{}, err
		}
		p.notifyInfluencer(ctx, task, func(to string) error {
			return p.mailer.NotifyContentApproved(ctx, to, task.ID.String(), task.Title)
		})
		return review, nil

	case store.ReviewStatusRejected:
		review, err := p.store.RejectContentReview(ctx, store.RejectContentReviewParams{
			TaskID:     taskID,
			UploadID:   uploadID,
			Feedback:   feedback,
			ReviewedBy: reviewedBy,
		})
		if err != nil {
			p.logger.Error(ctx, "failed to reject content review", err)
			return store.ContentReview{}, err
		}
		p.notifyInfluencer(ctx, task, func(to string) error {
			return p.mailer.NotifyChangesRequested(ctx, to, task.ID.String(), task.Title)
		})
		return review, nil

	default:
		review, err := p.store.CreateContentReview(ctx, store.CreateContentReviewParams{
			TaskID:     taskID,
			UploadID:   uploadID,
			Status:     store.ReviewStatusPending,
			Feedback:   feedback,
			ReviewedBy: reviewedBy,
		})
		if err != nil {
			p.logger.Error(ctx, "failed to create content review", err)
			return store.ContentReview{}, err
		}
		return review, nil
	}
}

// SubmitPublishedContent records where the approved content went live. The
// phase stays in_progress until analytics arrive.
func (p *WorkflowProcessor) SubmitPublishedContent(ctx context.Context, taskID uuid.UUID, url, platform string, influencerID uuid.UUID, notes *string) (store.PublishedContent, error) {
	ctx = observability.WithFields(ctx, observability.Field{Key: "task_id", Value: taskID.String()})

	switch platform {
	case store.PlatformInstagram, store.PlatformTikTok, store.PlatformYouTube, store.PlatformTwitter, store.PlatformOther:
	default:
		return store.PublishedContent{}, ErrInvalidPlatform
	}

	if _, err := p.taskByID(ctx, taskID); err != nil {
		return store.PublishedContent{}, err
	}

	states, err := p.statesForTask(ctx, taskID)
	if err != nil {
		return store.PublishedContent{}, err
	}
	publishState := stateForPhase(states, store.PhasePublishAnalytics)
	if publishState == nil || publishState.Status != store.PhaseStatusInProgress {
		return store.PublishedContent{}, ErrPhaseNotStarted
	}

	content, err := p.store.CreatePublishedContent(ctx, store.CreatePublishedContentParams{
		TaskID:       taskID,
		InfluencerID: influencerID,
		URL:          url,
		Platform:     platform,
		Notes:        notes,
	})
	if err != nil {
		p.logger.Error(ctx, "failed to submit published content", err)
		return store.PublishedContent{}, err
	}
	return content, nil
}

// AnalyticsMetrics is the raw engagement numbers reported by the influencer.
type AnalyticsMetrics struct {
	Reach       int
	Impressions int
	Likes       int
	Comments    int
	Shares      int
	Saves       int
}

// EngagementRate computes (likes+comments+shares+saves)/reach*100, 0 when
// reach is zero.
func EngagementRate(m AnalyticsMetrics) float64 {
	if m.Reach == 0 {
		return 0
	}
	interactions := m.Likes + m.Comments + m.Shares + m.Saves
	return float64(interactions) / float64(m.Reach) * 100
}

// SubmitAnalytics stores the final metrics and closes out the task.
func (p *WorkflowProcessor) SubmitAnalytics(ctx context.Context, taskID uuid.UUID, metrics AnalyticsMetrics) (store.PublishedContent, error) {
	ctx = observability.WithFields(ctx, observability.Field{Key: "task_id", Value: taskID.String()})

	if metrics.Reach < 0 || metrics.Impressions < 0 || metrics.Likes < 0 ||
		metrics.Comments < 0 || metrics.Shares < 0 || metrics.Saves < 0 {
		return store.PublishedContent{}, ErrInvalidAnalytics
	}

	if _, err := p.taskByID(ctx, taskID); err != nil {
		return store.PublishedContent{}, err
	}

	published, err := p.store.GetLatestPublishedContent(ctx, taskID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.PublishedContent{}, ErrNoPublishedContent
		}
		p.logger.Error(ctx, "failed to get published content", err)
		return store.PublishedContent{}, err
	}

	states, err := p.statesForTask(ctx, taskID)
	if err != nil {
		return store.PublishedContent{}, err
	}
	if err := guardTransition(states, store.PhasePublishAnalytics, store.PhaseStatusCompleted); err != nil {
		return store.PublishedContent{}, err
	}

	content, err := p.store.CompleteTaskAnalytics(ctx, store.CompleteTaskAnalyticsParams{
		TaskID:             taskID,
		PublishedContentID: published.ID,
		Analytics: store.AnalyticsData{
			Reach:          metrics.Reach,
			Impressions:    metrics.Impressions,
			Likes:          metrics.Likes,
			Comments:       metrics.Comments,
			Shares:         metrics.Shares,
			Saves:          metrics.Saves,
			EngagementRate: EngagementRate(metrics),
		},
	})
	if err != nil {
		p.logger.Error(ctx, "failed to complete task analytics", err)
		return store.PublishedContent{}, err
	}
	return content, nil
}

// GetVisibleWorkflowStates returns the phase rows the caller's role is
// allowed to see. Brands and agencies see everything; influencers see the
// task's stored visibility map.
func (p *WorkflowProcessor) GetVisibleWorkflowStates(ctx context.Context, taskID uuid.UUID, role string) ([]store.WorkflowState, error) {
	task, err := p.taskByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	states, err := p.statesForTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if role != store.UserRoleInfluencer {
		return states, nil
	}

	visible := make([]store.WorkflowState, 0, len(states))
	for _, st := range states {
		if task.PhaseVisibility.Visible(st.Phase) {
			visible = append(visible, st)
		}
	}
	return visible, nil
}

// CheckPhaseVisibility reports whether one phase is visible to the role.
func (p *WorkflowProcessor) CheckPhaseVisibility(ctx context.Context, taskID uuid.UUID, role, phase string) (bool, error) {
	task, err := p.taskByID(ctx, taskID)
	if err != nil {
		return false, err
	}
	if role != store.UserRoleInfluencer {
		return true, nil
	}
	return task.PhaseVisibility.Visible(phase), nil
}

// GetContentDrafts returns the task's drafts in creation order. Influencers
// can only read drafts once the content_requirement phase is visible to them.
func (p *WorkflowProcessor) GetContentDrafts(ctx context.Context, taskID uuid.UUID, role string) ([]store.ContentDraft, error) {
	visible, err := p.CheckPhaseVisibility(ctx, taskID, role, store.PhaseContentRequirement)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, ErrPhaseNotVisible
	}
	drafts, err := p.store.GetContentDraftsByTaskID(ctx, taskID)
	if err != nil {
		p.logger.Error(ctx, "failed to get content drafts", err)
		return nil, err
	}
	return drafts, nil
}

// GetContentReviews returns the task's reviews in creation order, gated by
// content_review phase visibility for influencers.
func (p *WorkflowProcessor) GetContentReviews(ctx context.Context, taskID uuid.UUID, role string) ([]store.ContentReview, error) {
	visible, err := p.CheckPhaseVisibility(ctx, taskID, role, store.PhaseContentReview)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, ErrPhaseNotVisible
	}
	reviews, err := p.store.GetContentReviewsByTaskID(ctx, taskID)
	if err != nil {
		p.logger.Error(ctx, "failed to get content reviews", err)
		return nil, err
	}
	return reviews, nil
}

// GetSharedContentDraft returns the draft shared with the influencer.
func (p *WorkflowProcessor) GetSharedContentDraft(ctx context.Context, taskID uuid.UUID) (store.ContentDraft, error) {
	if _, err := p.taskByID(ctx, taskID); err != nil {
		return store.ContentDraft{}, err
	}
	return p.store.GetSharedContentDraft(ctx, taskID)
}

func (p *WorkflowProcessor) taskByID(ctx context.Context, taskID uuid.UUID) (store.Task, error) {
	task, err := p.store.GetTaskByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Task{}, ErrTaskNotFound
		}
		p.logger.Error(ctx, "failed to get task", err)
		return store.Task{}, err
	}
	return task, nil
}

func (p *WorkflowProcessor) statesForTask(ctx context.Context, taskID uuid.UUID) ([]store.WorkflowState, error) {
	states, err := p.store.GetWorkflowStates(ctx, taskID)
	if err != nil {
		p.logger.Error(ctx, "failed to get workflow states", err)
		return nil, err
	}
	if len(states) == 0 {
		return nil, ErrPhaseNotStarted
	}
	return states, nil
}

func stateForPhase(states []store.WorkflowState, phase string) *store.WorkflowState {
	for i := range states {
		if states[i].Phase == phase {
			return &states[i]
		}
	}
	return nil
}

// notifyInfluencer resolves the task's influencer and sends one
// notification. Failures are logged only; the workflow write has already
// committed.
func (p *WorkflowProcessor) notifyInfluencer(ctx context.Context, task store.Task, send func(to string) error) {
	if p.mailer == nil {
		return
	}
	influencer, err := p.store.GetUserByID(ctx, task.InfluencerID)
	if err != nil {
		p.logger.Error(ctx, "failed to look up influencer for notification", err)
		return
	}
	if err := send(influencer.Email); err != nil {
		p.logger.Error(ctx, "failed to send workflow notification", err)
	}
}
