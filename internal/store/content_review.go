package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// CreateContentReviewParams represents parameters for recording a review.
// Reviews are append-only; the approval transition inserts its row inside
// the transition transaction instead of through this method.
type CreateContentReviewParams struct {
	TaskID     uuid.UUID
	UploadID   uuid.UUID
	Status     string
	Feedback   *string
	ReviewedBy *uuid.UUID
}

// CreateContentReview inserts a review row
func (s *Store) CreateContentReview(ctx context.Context, params CreateContentReviewParams) (ContentReview, error) {
	var review ContentReview
	err := s.db.GetContext(ctx, &review, sqlInsertContentReview,
		params.TaskID,
		params.UploadID,
		params.Status,
		params.Feedback,
		params.ReviewedBy)
	if err != nil {
		s.logger.Error(ctx, "failed to create content review", err)
		return ContentReview{}, fmt.Errorf("failed to create content review: %w", err)
	}
	return review, nil
}

const sqlGetContentReviewsByTaskID = `
SELECT id, task_id, upload_id, status, feedback, reviewed_by, reviewed_at, created_at
FROM content_reviews
WHERE task_id = $1
ORDER BY created_at ASC
`

// GetContentReviewsByTaskID retrieves all reviews for a task in creation order
func (s *Store) GetContentReviewsByTaskID(ctx context.Context, taskID uuid.UUID) ([]ContentReview, error) {
	var reviews []ContentReview
	err := s.db.SelectContext(ctx, &reviews, sqlGetContentReviewsByTaskID, taskID)
	if err != nil {
		s.logger.Error(ctx, "failed to get content reviews", err)
		return nil, fmt.Errorf("failed to get content reviews: %w", err)
	}
	return reviews, nil
}

const sqlGetLatestReviewByUploadID = `
SELECT id, task_id, upload_id, status, feedback, reviewed_by, reviewed_at, created_at
FROM content_reviews
WHERE upload_id = $1
ORDER BY created_at DESC
LIMIT 1
`

// GetLatestReviewByUploadID retrieves the most recent review for an upload.
// With append-only reviews the latest row is the current verdict.
func (s *Store) GetLatestReviewByUploadID(ctx context.Context, uploadID uuid.UUID) (ContentReview, error) {
	var review ContentReview
	err := s.db.GetContext(ctx, &review, sqlGetLatestReviewByUploadID, uploadID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ContentReview{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get latest review by upload id", err)
		return ContentReview{}, fmt.Errorf("failed to get latest review by upload id: %w", err)
	}
	return review, nil
}
