package processor

import (
	"context"
	"creatorlink/internal/observability"
	"creatorlink/internal/store"
	"sort"
	"time"

	"github.com/google/uuid"
)

const defaultActivityLimit = 50

// Store is the slice of the data layer the progress tracker needs.
type Store interface {
	GetTasksByBrandID(ctx context.Context, brandID uuid.UUID) ([]store.Task, error)
	GetTasksByInfluencerID(ctx context.Context, influencerID uuid.UUID) ([]store.Task, error)
	GetAllTasks(ctx context.Context) ([]store.Task, error)
	GetWorkflowStates(ctx context.Context, taskID uuid.UUID) ([]store.WorkflowState, error)
	GetRecentActivityForBrand(ctx context.Context, brandID uuid.UUID, limit int) ([]store.ActivityItem, error)
	GetRecentActivityForInfluencer(ctx context.Context, influencerID uuid.UUID, limit int) ([]store.ActivityItem, error)
	GetRecentActivity(ctx context.Context, limit int) ([]store.ActivityItem, error)
}

type ProgressProcessor struct {
	store  Store
	logger *observability.Logger
}

func New(store Store, logger *observability.Logger) ProgressProcessor {
	return ProgressProcessor{store: store, logger: logger}
}

// Overview is the dashboard summary of a user's tasks.
type Overview struct {
	TotalTasks      int            `json:"total_tasks"`
	TasksByStatus   map[string]int `json:"tasks_by_status"`
	TasksByPhase    map[string]int `json:"tasks_by_phase"`
	AverageProgress float64        `json:"average_progress"`
}

// TimelineEntry is one task's phase rows for the timeline view.
type TimelineEntry struct {
	TaskID       uuid.UUID             `json:"task_id"`
	Title        string                `json:"title"`
	Status       string                `json:"status"`
	Progress     int                   `json:"progress"`
	NextDeadline *time.Time            `json:"next_deadline"`
	Phases       []store.WorkflowState `json:"phases"`
}

// tasksForRole scopes the task set to what the caller may see. Agencies
// oversee every campaign.
func (p *ProgressProcessor) tasksForRole(ctx context.Context, userID uuid.UUID, role string) ([]store.Task, error) {
	switch role {
	case store.UserRoleBrand:
		return p.store.GetTasksByBrandID(ctx, userID)
	case store.UserRoleInfluencer:
		return p.store.GetTasksByInfluencerID(ctx, userID)
	default:
		return p.store.GetAllTasks(ctx)
	}
}

// GetOverview aggregates task counts and average progress.
func (p *ProgressProcessor) GetOverview(ctx context.Context, userID uuid.UUID, role string) (Overview, error) {
	tasks, err := p.tasksForRole(ctx, userID, role)
	if err != nil {
		p.logger.Error(ctx, "failed to get tasks for overview", err)
		return Overview{}, err
	}

	overview := Overview{
		TotalTasks:    len(tasks),
		TasksByStatus: make(map[string]int),
		TasksByPhase:  make(map[string]int),
	}

	totalProgress := 0
	for _, t := range tasks {
		overview.TasksByStatus[t.Status]++
		overview.TasksByPhase[t.CurrentPhase]++
		totalProgress += t.Progress
	}
	if len(tasks) > 0 {
		overview.AverageProgress = float64(totalProgress) / float64(len(tasks))
	}
	return overview, nil
}

// GetTimeline returns each task with its phase rows, nearest deadline
// first. Tasks without a deadline sort last.
func (p *ProgressProcessor) GetTimeline(ctx context.Context, userID uuid.UUID, role string) ([]TimelineEntry, error) {
	tasks, err := p.tasksForRole(ctx, userID, role)
	if err != nil {
		p.logger.Error(ctx, "failed to get tasks for timeline", err)
		return nil, err
	}

	entries := make([]TimelineEntry, 0, len(tasks))
	for _, t := range tasks {
		states, err := p.store.GetWorkflowStates(ctx, t.ID)
		if err != nil {
			p.logger.Error(ctx, "failed to get workflow states for timeline", err)
			return nil, err
		}
		entries = append(entries, TimelineEntry{
			TaskID:       t.ID,
			Title:        t.Title,
			Status:       t.Status,
			Progress:     t.Progress,
			NextDeadline: t.NextDeadline,
			Phases:       states,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].NextDeadline, entries[j].NextDeadline
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})
	return entries, nil
}

// GetActivity returns the newest feedback, reviews and uploads for the
// caller's tasks.
func (p *ProgressProcessor) GetActivity(ctx context.Context, userID uuid.UUID, role string, limit int) ([]store.ActivityItem, error) {
	if limit <= 0 || limit > defaultActivityLimit {
		limit = defaultActivityLimit
	}

	var (
		items []store.ActivityItem
		err   error
	)
	switch role {
	case store.UserRoleBrand:
		items, err = p.store.GetRecentActivityForBrand(ctx, userID, limit)
	case store.UserRoleInfluencer:
		items, err = p.store.GetRecentActivityForInfluencer(ctx, userID, limit)
	default:
		items, err = p.store.GetRecentActivity(ctx, limit)
	}
	if err != nil {
		p.logger.Error(ctx, "failed to get activity", err)
		return nil, err
	}
	return items, nil
}
