package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ActivityItem is one entry in the recent-activity feed: a feedback
// message, a review verdict or an upload.
type ActivityItem struct {
	Kind      string    `db:"kind" json:"kind"`
	ID        uuid.UUID `db:"id" json:"id"`
	TaskID    uuid.UUID `db:"task_id" json:"task_id"`
	Detail    string    `db:"detail" json:"detail"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

const activityUnion = `
SELECT 'feedback' AS kind, f.id, f.task_id, f.message AS detail, f.created_at
FROM task_feedback f
JOIN tasks t ON t.id = f.task_id
%[1]s
UNION ALL
SELECT 'review' AS kind, r.id, r.task_id, r.status AS detail, r.created_at
FROM content_reviews r
JOIN tasks t ON t.id = r.task_id
%[1]s
UNION ALL
SELECT 'upload' AS kind, u.id, u.task_id, u.file_name AS detail, u.created_at
FROM uploads u
JOIN tasks t ON t.id = u.task_id
%[1]s
ORDER BY created_at DESC
LIMIT %[2]s
`

var (
	sqlActivityForBrand = fmt.Sprintf(activityUnion,
		"JOIN campaigns c ON c.id = t.campaign_id WHERE c.brand_id = $1", "$2")
	sqlActivityForInfluencer = fmt.Sprintf(activityUnion,
		"WHERE t.influencer_id = $1", "$2")
)

// GetRecentActivityForBrand returns the newest feedback, reviews and
// uploads across a brand's tasks.
func (s *Store) GetRecentActivityForBrand(ctx context.Context, brandID uuid.UUID, limit int) ([]ActivityItem, error) {
	var items []ActivityItem
	err := s.db.SelectContext(ctx, &items, sqlActivityForBrand, brandID, limit)
	if err != nil {
		s.logger.Error(ctx, "failed to get brand activity", err)
		return nil, fmt.Errorf("failed to get brand activity: %w", err)
	}
	return items, nil
}

// GetRecentActivityForInfluencer returns the newest feedback, reviews and
// uploads across an influencer's tasks.
func (s *Store) GetRecentActivityForInfluencer(ctx context.Context, influencerID uuid.UUID, limit int) ([]ActivityItem, error) {
	var items []ActivityItem
	err := s.db.SelectContext(ctx, &items, sqlActivityForInfluencer, influencerID, limit)
	if err != nil {
		s.logger.Error(ctx, "failed to get influencer activity", err)
		return nil, fmt.Errorf("failed to get influencer activity: %w", err)
	}
	return items, nil
}

const sqlGetAllTasks = `
SELECT id, campaign_id, influencer_id, title, description, task_type, status, progress, current_phase, phase_visibility, ai_score, next_deadline, created_at, updated_at
FROM tasks
ORDER BY created_at ASC
`

// GetAllTasks retrieves every task. Used by agency dashboards.
func (s *Store) GetAllTasks(ctx context.Context) ([]Task, error) {
	var tasks []Task
	err := s.db.SelectContext(ctx, &tasks, sqlGetAllTasks)
	if err != nil {
		s.logger.Error(ctx, "failed to get all tasks", err)
		return nil, fmt.Errorf("failed to get all tasks: %w", err)
	}
	return tasks, nil
}

const sqlActivityAll = `
SELECT 'feedback' AS kind, f.id, f.task_id, f.message AS detail, f.created_at
FROM task_feedback f
UNION ALL
SELECT 'review' AS kind, r.id, r.task_id, r.status AS detail, r.created_at
FROM content_reviews r
UNION ALL
SELECT 'upload' AS kind, u.id, u.task_id, u.file_name AS detail, u.created_at
FROM uploads u
ORDER BY created_at DESC
LIMIT $1
`

// GetRecentActivity returns the newest feedback, reviews and uploads across
// all tasks. Used by agency dashboards.
func (s *Store) GetRecentActivity(ctx context.Context, limit int) ([]ActivityItem, error) {
	var items []ActivityItem
	err := s.db.SelectContext(ctx, &items, sqlActivityAll, limit)
	if err != nil {
		s.logger.Error(ctx, "failed to get activity", err)
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}
	return items, nil
}
