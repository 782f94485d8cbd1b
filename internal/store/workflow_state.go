package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

const sqlGetWorkflowStates = `
SELECT id, task_id, phase, status, started_at, completed_at, rejected_at, rejection_reason, created_at, updated_at
FROM workflow_states
WHERE task_id = $1
ORDER BY CASE phase
    WHEN 'content_requirement' THEN 1
    WHEN 'content_review' THEN 2
    WHEN 'publish_analytics' THEN 3
END
`

// GetWorkflowStates retrieves all workflow phase rows for a task in
// lifecycle order.
func (s *Store) GetWorkflowStates(ctx context.Context, taskID uuid.UUID) ([]WorkflowState, error) {
	var states []WorkflowState
	err := s.db.SelectContext(ctx, &states, sqlGetWorkflowStates, taskID)
	if err != nil {
		s.logger.Error(ctx, "failed to get workflow states", err)
		return nil, fmt.Errorf("failed to get workflow states: %w", err)
	}
	return states, nil
}

const sqlGetWorkflowState = `
SELECT id, task_id, phase, status, started_at, completed_at, rejected_at, rejection_reason, created_at, updated_at
FROM workflow_states
WHERE task_id = $1 AND phase = $2
`

// GetWorkflowState retrieves one (task, phase) row
func (s *Store) GetWorkflowState(ctx context.Context, taskID uuid.UUID, phase string) (WorkflowState, error) {
	var state WorkflowState
	err := s.db.GetContext(ctx, &state, sqlGetWorkflowState, taskID, phase)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return WorkflowState{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get workflow state", err)
		return WorkflowState{}, fmt.Errorf("failed to get workflow state: %w", err)
	}
	return state, nil
}

const sqlCountWorkflowStates = `
SELECT COUNT(*) FROM workflow_states WHERE task_id = $1
`

const sqlInsertWorkflowState = `
INSERT INTO workflow_states (task_id, phase, status)
VALUES ($1, $2, 'not_started')
ON CONFLICT (task_id, phase) DO NOTHING
`

const sqlInitializeTaskWorkflow = `
UPDATE tasks
SET status = $2,
    current_phase = $3,
    phase_visibility = $4,
    updated_at = CURRENT_TIMESTAMP
WHERE id = $1
`

// InitializeWorkflowStates inserts the three phase rows for a task and sets
// the task's phase fields, all in one transaction. When any phase rows
// already exist the whole call is a no-op, so re-running never disturbs a
// task mid-workflow.
func (s *Store) InitializeWorkflowStates(ctx context.Context, taskID uuid.UUID) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.logger.Error(ctx, "failed to begin transaction", err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.logger.Error(ctx, "failed to rollback transaction", rbErr)
			}
		}
	}()

	var existing int
	if err = tx.GetContext(ctx, &existing, sqlCountWorkflowStates, taskID); err != nil {
		s.logger.Error(ctx, "failed to count workflow states", err)
		return fmt.Errorf("failed to count workflow states: %w", err)
	}
	if existing > 0 {
		if err = tx.Commit(); err != nil {
			s.logger.Error(ctx, "failed to commit transaction", err)
			return fmt.Errorf("failed to commit transaction: %w", err)
		}
		return nil
	}

	for _, phase := range AllPhases {
		if _, err = tx.ExecContext(ctx, sqlInsertWorkflowState, taskID, phase); err != nil {
			s.logger.Error(ctx, "failed to insert workflow state", err)
			return fmt.Errorf("failed to insert workflow state: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx, sqlInitializeTaskWorkflow,
		taskID,
		TaskStatusContentRequirement,
		PhaseContentRequirement,
		PhaseVisibility{})
	if err != nil {
		s.logger.Error(ctx, "failed to initialize task workflow fields", err)
		return fmt.Errorf("failed to initialize task workflow fields: %w", err)
	}

	if err = tx.Commit(); err != nil {
		s.logger.Error(ctx, "failed to commit transaction", err)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

const sqlStartWorkflowPhase = `
UPDATE workflow_states
SET status = 'in_progress',
    started_at = COALESCE(started_at, CURRENT_TIMESTAMP),
    updated_at = CURRENT_TIMESTAMP
WHERE task_id = $1 AND phase = $2
RETURNING id, task_id, phase, status, started_at, completed_at, rejected_at, rejection_reason, created_at, updated_at
`

// StartWorkflowPhase marks one phase row in_progress, keeping the original
// started_at on repeat calls.
func (s *Store) StartWorkflowPhase(ctx context.Context, taskID uuid.UUID, phase string) (WorkflowState, error) {
	var state WorkflowState
	err := s.db.GetContext(ctx, &state, sqlStartWorkflowPhase, taskID, phase)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return WorkflowState{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to start workflow phase", err)
		return WorkflowState{}, fmt.Errorf("failed to start workflow phase: %w", err)
	}
	return state, nil
}

const sqlCompleteWorkflowPhase = `
UPDATE workflow_states
SET status = 'completed',
    completed_at = CURRENT_TIMESTAMP,
    updated_at = CURRENT_TIMESTAMP
WHERE task_id = $1 AND phase = $2
`

const sqlUpsertSharedDraft = `
INSERT INTO content_drafts (task_id, content, ai_generated, brand_edited, shared_with_influencer, created_by)
VALUES ($1, $2, $3, $4, TRUE, $5)
ON CONFLICT (task_id) DO UPDATE
SET content = EXCLUDED.content,
    ai_generated = EXCLUDED.ai_generated,
    brand_edited = EXCLUDED.brand_edited,
    shared_with_influencer = TRUE,
    updated_at = CURRENT_TIMESTAMP
RETURNING id, task_id, content, ai_generated, brand_edited, shared_with_influencer, created_by, created_at, updated_at
`

const sqlAdvanceTaskPhase = `
UPDATE tasks
SET status = $2,
    progress = $3,
    current_phase = $4,
    phase_visibility = $5,
    updated_at = CURRENT_TIMESTAMP
WHERE id = $1
`

// ShareContentRequirementsParams represents the writes that make up the
// requirement-sharing transition.
type ShareContentRequirementsParams struct {
	TaskID      uuid.UUID
	Content     string
	AIGenerated bool
	BrandEdited bool
	CreatedBy   uuid.UUID
}

// ShareContentRequirements performs the requirement-sharing transition in a
// single transaction: upsert the shared draft, complete content_requirement,
// start content_review and advance the task's denormalized phase fields.
func (s *Store) ShareContentRequirements(ctx context.Context, params ShareContentRequirementsParams) (draft ContentDraft, err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.logger.Error(ctx, "failed to begin transaction", err)
		return ContentDraft{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.logger.Error(ctx, "failed to rollback transaction", rbErr)
			}
		}
	}()

	err = tx.GetContext(ctx, &draft, sqlUpsertSharedDraft,
		params.TaskID,
		params.Content,
		params.AIGenerated,
		params.BrandEdited,
		params.CreatedBy)
	if err != nil {
		s.logger.Error(ctx, "failed to upsert content draft", err)
		return ContentDraft{}, fmt.Errorf("failed to upsert content draft: %w", err)
	}

	_, err = tx.ExecContext(ctx, sqlCompleteWorkflowPhase, params.TaskID, PhaseContentRequirement)
	if err != nil {
		s.logger.Error(ctx, "failed to complete content_requirement phase", err)
		return ContentDraft{}, fmt.Errorf("failed to complete content_requirement phase: %w", err)
	}

	_, err = tx.ExecContext(ctx, sqlStartPhaseInTx, params.TaskID, PhaseContentReview)
	if err != nil {
		s.logger.Error(ctx, "failed to start content_review phase", err)
		return ContentDraft{}, fmt.Errorf("failed to start content_review phase: %w", err)
	}

	visibility := PhaseVisibility{ContentRequirement: true, ContentReview: true}
	_, err = tx.ExecContext(ctx, sqlAdvanceTaskPhase,
		params.TaskID,
		TaskStatusContentReview,
		50,
		PhaseContentReview,
		visibility)
	if err != nil {
		s.logger.Error(ctx, "failed to advance task phase", err)
		return ContentDraft{}, fmt.Errorf("failed to advance task phase: %w", err)
	}

	if err = tx.Commit(); err != nil {
		s.logger.Error(ctx, "failed to commit transaction", err)
		return ContentDraft{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return draft, nil
}

const sqlStartPhaseInTx = `
UPDATE workflow_states
SET status = 'in_progress',
    started_at = COALESCE(started_at, CURRENT_TIMESTAMP),
    updated_at = CURRENT_TIMESTAMP
WHERE task_id = $1 AND phase = $2
`

const sqlInsertContentReview = `
INSERT INTO content_reviews (task_id, upload_id, status, feedback, reviewed_by, reviewed_at)
VALUES ($1, $2, $3, $4, $5, CURRENT_TIMESTAMP)
RETURNING id, task_id, upload_id, status, feedback, reviewed_by, reviewed_at, created_at
`

// ApproveContentReviewParams represents the writes that make up the
// review-approval transition.
type ApproveContentReviewParams struct {
	TaskID     uuid.UUID
	UploadID   uuid.UUID
	Feedback   *string
	ReviewedBy *uuid.UUID
}

// ApproveContentReview performs the approval transition in a single
// transaction: insert the approved review, complete content_review, start
// publish_analytics and make every phase visible to the influencer.
func (s *Store) ApproveContentReview(ctx context.Context, params ApproveContentReviewParams) (review ContentReview, err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.logger.Error(ctx, "failed to begin transaction", err)
		return ContentReview{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.logger.Error(ctx, "failed to rollback transaction", rbErr)
			}
		}
	}()

	err = tx.GetContext(ctx, &review, sqlInsertContentReview,
		params.TaskID,
		params.UploadID,
		ReviewStatusApproved,
		params.Feedback,
		params.ReviewedBy)
	if err != nil {
		s.logger.Error(ctx, "failed to insert content review", err)
		return ContentReview{}, fmt.Errorf("failed to insert content review: %w", err)
	}

	_, err = tx.ExecContext(ctx, sqlCompleteWorkflowPhase, params.TaskID, PhaseContentReview)
	if err != nil {
		s.logger.Error(ctx, "failed to complete content_review phase", err)
		return ContentReview{}, fmt.Errorf("failed to complete content_review phase: %w", err)
	}

	_, err = tx.ExecContext(ctx, sqlStartPhaseInTx, params.TaskID, PhasePublishAnalytics)
	if err != nil {
		s.logger.Error(ctx, "failed to start publish_analytics phase", err)
		return ContentReview{}, fmt.Errorf("failed to start publish_analytics phase: %w", err)
	}

	visibility := PhaseVisibility{ContentRequirement: true, ContentReview: true, PublishAnalytics: true}
	_, err = tx.ExecContext(ctx, sqlAdvanceTaskPhase,
		params.TaskID,
		TaskStatusPostContent,
		75,
		PhasePublishAnalytics,
		visibility)
	if err != nil {
		s.logger.Error(ctx, "failed to advance task phase", err)
		return ContentReview{}, fmt.Errorf("failed to advance task phase: %w", err)
	}

	if err = tx.Commit(); err != nil {
		s.logger.Error(ctx, "failed to commit transaction", err)
		return ContentReview{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return review, nil
}

const sqlMarkPhaseRejected = `
UPDATE workflow_states
SET rejected_at = CURRENT_TIMESTAMP,
    rejection_reason = $3,
    updated_at = CURRENT_TIMESTAMP
WHERE task_id = $1 AND phase = $2
`

// RejectContentReviewParams represents the writes that record a rejection.
type RejectContentReviewParams struct {
	TaskID     uuid.UUID
	UploadID   uuid.UUID
	Feedback   *string
	ReviewedBy *uuid.UUID
}

// RejectContentReview records a rejected review and stamps the
// content_review phase with the rejection, in one transaction. The phase
// stays in_progress so the influencer can upload a revision.
func (s *Store) RejectContentReview(ctx context.Context, params RejectContentReviewParams) (review ContentReview, err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.logger.Error(ctx, "failed to begin transaction", err)
		return ContentReview{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.logger.Error(ctx, "failed to rollback transaction", rbErr)
			}
		}
	}()

	err = tx.GetContext(ctx, &review, sqlInsertContentReview,
		params.TaskID,
		params.UploadID,
		ReviewStatusRejected,
		params.Feedback,
		params.ReviewedBy)
	if err != nil {
		s.logger.Error(ctx, "failed to insert content review", err)
		return ContentReview{}, fmt.Errorf("failed to insert content review: %w", err)
	}

	_, err = tx.ExecContext(ctx, sqlMarkPhaseRejected, params.TaskID, PhaseContentReview, params.Feedback)
	if err != nil {
		s.logger.Error(ctx, "failed to mark content_review phase rejected", err)
		return ContentReview{}, fmt.Errorf("failed to mark content_review phase rejected: %w", err)
	}

	if err = tx.Commit(); err != nil {
		s.logger.Error(ctx, "failed to commit transaction", err)
		return ContentReview{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return review, nil
}

const sqlCompletePublishedContent = `
UPDATE published_content
SET analytics_data = $2,
    status = 'completed',
    updated_at = CURRENT_TIMESTAMP
WHERE id = $1
RETURNING id, task_id, influencer_id, url, platform, status, analytics_data, notes, created_at, updated_at
`

const sqlCompleteTask = `
UPDATE tasks
SET status = $2,
    progress = 100,
    phase_visibility = $3,
    updated_at = CURRENT_TIMESTAMP
WHERE id = $1
`

// CompleteTaskAnalyticsParams represents the writes that close out a task.
type CompleteTaskAnalyticsParams struct {
	TaskID             uuid.UUID
	PublishedContentID uuid.UUID
	Analytics          AnalyticsData
}

// CompleteTaskAnalytics stores the analytics payload, completes the
// publish_analytics phase and closes the task, all in one transaction.
func (s *Store) CompleteTaskAnalytics(ctx context.Context, params CompleteTaskAnalyticsParams) (content PublishedContent, err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.logger.Error(ctx, "failed to begin transaction", err)
		return PublishedContent{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.logger.Error(ctx, "failed to rollback transaction", rbErr)
			}
		}
	}()

	err = tx.GetContext(ctx, &content, sqlCompletePublishedContent,
		params.PublishedContentID,
		params.Analytics)
	if err != nil {
		s.logger.Error(ctx, "failed to store analytics payload", err)
		return PublishedContent{}, fmt.Errorf("failed to store analytics payload: %w", err)
	}

	_, err = tx.ExecContext(ctx, sqlCompleteWorkflowPhase, params.TaskID, PhasePublishAnalytics)
	if err != nil {
		s.logger.Error(ctx, "failed to complete publish_analytics phase", err)
		return PublishedContent{}, fmt.Errorf("failed to complete publish_analytics phase: %w", err)
	}

	visibility := PhaseVisibility{ContentRequirement: true, ContentReview: true, PublishAnalytics: true}
	_, err = tx.ExecContext(ctx, sqlCompleteTask, params.TaskID, TaskStatusCompleted, visibility)
	if err != nil {
		s.logger.Error(ctx, "failed to complete task", err)
		return PublishedContent{}, fmt.Errorf("failed to complete task: %w", err)
	}

	if err = tx.Commit(); err != nil {
		s.logger.Error(ctx, "failed to commit transaction", err)
		return PublishedContent{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return content, nil
}
