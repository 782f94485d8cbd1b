package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// CreateTaskFeedbackParams represents parameters for appending a feedback
// message.
type CreateTaskFeedbackParams struct {
	TaskID     uuid.UUID
	SenderID   uuid.UUID
	SenderType string
	Phase      string
	Message    string
}

const sqlCreateTaskFeedback = `
INSERT INTO task_feedback (task_id, sender_id, sender_type, phase, message)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, task_id, sender_id, sender_type, phase, message, created_at
`

// CreateTaskFeedback appends a message to the task's feedback log
func (s *Store) CreateTaskFeedback(ctx context.Context, params CreateTaskFeedbackParams) (TaskFeedback, error) {
	var feedback TaskFeedback
	err := s.db.GetContext(ctx, &feedback, sqlCreateTaskFeedback,
		params.TaskID,
		params.SenderID,
		params.SenderType,
		params.Phase,
		params.Message)
	if err != nil {
		s.logger.Error(ctx, "failed to create task feedback", err)
		return TaskFeedback{}, fmt.Errorf("failed to create task feedback: %w", err)
	}
	return feedback, nil
}

const sqlGetTaskFeedbackByTaskID = `
SELECT id, task_id, sender_id, sender_type, phase, message, created_at
FROM task_feedback
WHERE task_id = $1
ORDER BY created_at ASC
`

// GetTaskFeedbackByTaskID retrieves the feedback log in creation order
func (s *Store) GetTaskFeedbackByTaskID(ctx context.Context, taskID uuid.UUID) ([]TaskFeedback, error) {
	var feedback []TaskFeedback
	err := s.db.SelectContext(ctx, &feedback, sqlGetTaskFeedbackByTaskID, taskID)
	if err != nil {
		s.logger.Error(ctx, "failed to get task feedback", err)
		return nil, fmt.Errorf("failed to get task feedback: %w", err)
	}
	return feedback, nil
}
