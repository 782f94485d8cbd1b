package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// UpsertContentDraftParams represents parameters for saving a draft without
// sharing it.
type UpsertContentDraftParams struct {
	TaskID      uuid.UUID
	Content     string
	AIGenerated bool
	BrandEdited bool
	CreatedBy   uuid.UUID
}

const sqlUpsertContentDraft = `
INSERT INTO content_drafts (task_id, content, ai_generated, brand_edited, shared_with_influencer, created_by)
VALUES ($1, $2, $3, $4, FALSE, $5)
ON CONFLICT (task_id) DO UPDATE
SET content = EXCLUDED.content,
    ai_generated = EXCLUDED.ai_generated,
    brand_edited = EXCLUDED.brand_edited,
    updated_at = CURRENT_TIMESTAMP
RETURNING id, task_id, content, ai_generated, brand_edited, shared_with_influencer, created_by, created_at, updated_at
`

// UpsertContentDraft creates or updates the task's draft. Sharing state is
// untouched; the sharing transition owns that flag.
func (s *Store) UpsertContentDraft(ctx context.Context, params UpsertContentDraftParams) (ContentDraft, error) {
	var draft ContentDraft
	err := s.db.GetContext(ctx, &draft, sqlUpsertContentDraft,
		params.TaskID,
		params.Content,
		params.AIGenerated,
		params.BrandEdited,
		params.CreatedBy)
	if err != nil {
		s.logger.Error(ctx, "failed to upsert content draft", err)
		return ContentDraft{}, fmt.Errorf("failed to upsert content draft: %w", err)
	}
	return draft, nil
}

const sqlGetContentDraftsByTaskID = `
SELECT id, task_id, content, ai_generated, brand_edited, shared_with_influencer, created_by, created_at, updated_at
FROM content_drafts
WHERE task_id = $1
ORDER BY created_at ASC
`

// GetContentDraftsByTaskID retrieves the drafts for a task ordered by
// creation time.
func (s *Store) GetContentDraftsByTaskID(ctx context.Context, taskID uuid.UUID) ([]ContentDraft, error) {
	var drafts []ContentDraft
	err := s.db.SelectContext(ctx, &drafts, sqlGetContentDraftsByTaskID, taskID)
	if err != nil {
		s.logger.Error(ctx, "failed to get content drafts", err)
		return nil, fmt.Errorf("failed to get content drafts: %w", err)
	}
	return drafts, nil
}

const sqlGetSharedContentDraft = `
SELECT id, task_id, content, ai_generated, brand_edited, shared_with_influencer, created_by, created_at, updated_at
FROM content_drafts
WHERE task_id = $1 AND shared_with_influencer = TRUE
`

// GetSharedContentDraft retrieves the draft visible to the influencer
func (s *Store) GetSharedContentDraft(ctx context.Context, taskID uuid.UUID) (ContentDraft, error) {
	var draft ContentDraft
	err := s.db.GetContext(ctx, &draft, sqlGetSharedContentDraft, taskID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ContentDraft{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get shared content draft", err)
		return ContentDraft{}, fmt.Errorf("failed to get shared content draft: %w", err)
	}
	return draft, nil
}
