package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// CreatePublishedContentParams represents parameters for recording a
// published post.
type CreatePublishedContentParams struct {
	TaskID       uuid.UUID
	InfluencerID uuid.UUID
	URL          string
	Platform     string
	Notes        *string
}

const sqlCreatePublishedContent = `
INSERT INTO published_content (task_id, influencer_id, url, platform, notes)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, task_id, influencer_id, url, platform, status, analytics_data, notes, created_at, updated_at
`

// CreatePublishedContent records a live-post submission
func (s *Store) CreatePublishedContent(ctx context.Context, params CreatePublishedContentParams) (PublishedContent, error) {
	var content PublishedContent
	err := s.db.GetContext(ctx, &content, sqlCreatePublishedContent,
		params.TaskID,
		params.InfluencerID,
		params.URL,
		params.Platform,
		params.Notes)
	if err != nil {
		s.logger.Error(ctx, "failed to create published content", err)
		return PublishedContent{}, fmt.Errorf("failed to create published content: %w", err)
	}
	return content, nil
}

const sqlGetPublishedContentByTaskID = `
SELECT id, task_id, influencer_id, url, platform, status, analytics_data, notes, created_at, updated_at
FROM published_content
WHERE task_id = $1
ORDER BY created_at ASC
`

// GetPublishedContentByTaskID retrieves published content rows for a task
func (s *Store) GetPublishedContentByTaskID(ctx context.Context, taskID uuid.UUID) ([]PublishedContent, error) {
	var contents []PublishedContent
	err := s.db.SelectContext(ctx, &contents, sqlGetPublishedContentByTaskID, taskID)
	if err != nil {
		s.logger.Error(ctx, "failed to get published content", err)
		return nil, fmt.Errorf("failed to get published content: %w", err)
	}
	return contents, nil
}

const sqlGetLatestPublishedContent = `
SELECT id, task_id, influencer_id, url, platform, status, analytics_data, notes, created_at, updated_at
FROM published_content
WHERE task_id = $1
ORDER BY created_at DESC
LIMIT 1
`

// GetLatestPublishedContent retrieves the most recent published row for a task
func (s *Store) GetLatestPublishedContent(ctx context.Context, taskID uuid.UUID) (PublishedContent, error) {
	var content PublishedContent
	err := s.db.GetContext(ctx, &content, sqlGetLatestPublishedContent, taskID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return PublishedContent{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get latest published content", err)
		return PublishedContent{}, fmt.Errorf("failed to get latest published content: %w", err)
	}
	return content, nil
}
