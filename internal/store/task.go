package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CreateTaskParams represents parameters for creating a task
type CreateTaskParams struct {
	CampaignID   uuid.UUID
	InfluencerID uuid.UUID
	Title        string
	Description  *string
	TaskType     string
	NextDeadline *time.Time
}

const sqlCreateTask = `
INSERT INTO tasks (campaign_id, influencer_id, title, description, task_type, next_deadline)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, campaign_id, influencer_id, title, description, task_type, status, progress, current_phase, phase_visibility, ai_score, next_deadline, created_at, updated_at
`

// CreateTask creates a new task for an influencer within a campaign
func (s *Store) CreateTask(ctx context.Context, params CreateTaskParams) (Task, error) {
	var task Task
	err := s.db.GetContext(ctx, &task, sqlCreateTask,
		params.CampaignID,
		params.InfluencerID,
		params.Title,
		params.Description,
		params.TaskType,
		params.NextDeadline)
	if err != nil {
		s.logger.Error(ctx, "failed to create task", err)
		return Task{}, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

const sqlGetTaskByID = `
SELECT id, campaign_id, influencer_id, title, description, task_type, status, progress, current_phase, phase_visibility, ai_score, next_deadline, created_at, updated_at
FROM tasks
WHERE id = $1
`

// GetTaskByID retrieves a task by ID
func (s *Store) GetTaskByID(ctx context.Context, taskID uuid.UUID) (Task, error) {
	var task Task
	err := s.db.GetContext(ctx, &task, sqlGetTaskByID, taskID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Task{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get task by id", err)
		return Task{}, fmt.Errorf("failed to get task by id: %w", err)
	}
	return task, nil
}

const sqlGetTasksByCampaignID = `
SELECT id, campaign_id, influencer_id, title, description, task_type, status, progress, current_phase, phase_visibility, ai_score, next_deadline, created_at, updated_at
FROM tasks
WHERE campaign_id = $1
ORDER BY created_at ASC
`

// GetTasksByCampaignID retrieves all tasks in a campaign
func (s *Store) GetTasksByCampaignID(ctx context.Context, campaignID uuid.UUID) ([]Task, error) {
	var tasks []Task
	err := s.db.SelectContext(ctx, &tasks, sqlGetTasksByCampaignID, campaignID)
	if err != nil {
		s.logger.Error(ctx, "failed to get tasks by campaign id", err)
		return nil, fmt.Errorf("failed to get tasks by campaign id: %w", err)
	}
	return tasks, nil
}

const sqlGetTasksByInfluencerID = `
SELECT id, campaign_id, influencer_id, title, description, task_type, status, progress, current_phase, phase_visibility, ai_score, next_deadline, created_at, updated_at
FROM tasks
WHERE influencer_id = $1
ORDER BY created_at ASC
`

// GetTasksByInfluencerID retrieves all tasks assigned to an influencer
func (s *Store) GetTasksByInfluencerID(ctx context.Context, influencerID uuid.UUID) ([]Task, error) {
	var tasks []Task
	err := s.db.SelectContext(ctx, &tasks, sqlGetTasksByInfluencerID, influencerID)
	if err != nil {
		s.logger.Error(ctx, "failed to get tasks by influencer id", err)
		return nil, fmt.Errorf("failed to get tasks by influencer id: %w", err)
	}
	return tasks, nil
}

const sqlGetTasksByBrandID = `
SELECT t.id, t.campaign_id, t.influencer_id, t.title, t.description, t.task_type, t.status, t.progress, t.current_phase, t.phase_visibility, t.ai_score, t.next_deadline, t.created_at, t.updated_at
FROM tasks t
JOIN campaigns c ON c.id = t.campaign_id
WHERE c.brand_id = $1
ORDER BY t.created_at ASC
`

// GetTasksByBrandID retrieves all tasks across a brand's campaigns
func (s *Store) GetTasksByBrandID(ctx context.Context, brandID uuid.UUID) ([]Task, error) {
	var tasks []Task
	err := s.db.SelectContext(ctx, &tasks, sqlGetTasksByBrandID, brandID)
	if err != nil {
		s.logger.Error(ctx, "failed to get tasks by brand id", err)
		return nil, fmt.Errorf("failed to get tasks by brand id: %w", err)
	}
	return tasks, nil
}

const sqlUpdateTaskStatusProgress = `
UPDATE tasks
SET status = $2, progress = $3, updated_at = CURRENT_TIMESTAMP
WHERE id = $1
RETURNING id, campaign_id, influencer_id, title, description, task_type, status, progress, current_phase, phase_visibility, ai_score, next_deadline, created_at, updated_at
`

// UpdateTaskStatusProgress updates the denormalized task status and progress.
// Workflow phase transitions must not use this; they update the task inside
// the same transaction as the workflow_states rows.
func (s *Store) UpdateTaskStatusProgress(ctx context.Context, taskID uuid.UUID, status string, progress int) (Task, error) {
	var task Task
	err := s.db.GetContext(ctx, &task, sqlUpdateTaskStatusProgress, taskID, status, progress)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Task{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to update task status", err)
		return Task{}, fmt.Errorf("failed to update task status: %w", err)
	}
	return task, nil
}

// TaskDisplayNames carries the campaign and party names joined for the task
// detail view-model.
type TaskDisplayNames struct {
	CampaignName   string `db:"campaign_name"`
	BrandName      string `db:"brand_name"`
	InfluencerName string `db:"influencer_name"`
}

const sqlGetTaskDisplayNames = `
SELECT c.name AS campaign_name,
       b.display_name AS brand_name,
       i.display_name AS influencer_name
FROM tasks t
JOIN campaigns c ON c.id = t.campaign_id
JOIN users b ON b.id = c.brand_id
JOIN users i ON i.id = t.influencer_id
WHERE t.id = $1
`

// GetTaskDisplayNames retrieves the display names joined to a task
func (s *Store) GetTaskDisplayNames(ctx context.Context, taskID uuid.UUID) (TaskDisplayNames, error) {
	var names TaskDisplayNames
	err := s.db.GetContext(ctx, &names, sqlGetTaskDisplayNames, taskID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return TaskDisplayNames{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get task display names", err)
		return TaskDisplayNames{}, fmt.Errorf("failed to get task display names: %w", err)
	}
	return names, nil
}
