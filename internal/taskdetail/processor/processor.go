package processor

import (
	"context"
	"creatorlink/internal/observability"
	"creatorlink/internal/store"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrUploadNotFound    = errors.New("upload not found")
	ErrInvalidSenderType = errors.New("invalid sender type")
	ErrEmptyMessage      = errors.New("message is empty")
)

// Store is the slice of the data layer the task detail aggregator needs.
type Store interface {
	CreateTask(ctx context.Context, params store.CreateTaskParams) (store.Task, error)
	GetTaskByID(ctx context.Context, taskID uuid.UUID) (store.Task, error)
	GetTaskDisplayNames(ctx context.Context, taskID uuid.UUID) (store.TaskDisplayNames, error)
	GetTaskFeedbackByTaskID(ctx context.Context, taskID uuid.UUID) ([]store.TaskFeedback, error)
	GetUploadsByTaskID(ctx context.Context, taskID uuid.UUID) ([]store.Upload, error)
	CreateTaskFeedback(ctx context.Context, params store.CreateTaskFeedbackParams) (store.TaskFeedback, error)
	CreateUpload(ctx context.Context, params store.CreateUploadParams) (store.Upload, error)
	DeleteUpload(ctx context.Context, taskID, uploadID uuid.UUID) error
	UpdateTaskStatusProgress(ctx context.Context, taskID uuid.UUID, status string, progress int) (store.Task, error)
}

type TaskDetailProcessor struct {
	store  Store
	logger *observability.Logger
}

func New(store Store, logger *observability.Logger) TaskDetailProcessor {
	return TaskDetailProcessor{store: store, logger: logger}
}

// StepFlags are presentation derivations of the task's position in the
// workflow. They are recomputed on every read and never persisted.
type StepFlags struct {
	ContentRequirement bool `json:"content_requirement"`
	ContentReview      bool `json:"content_review"`
	PublishContent     bool `json:"publish_content"`
	ContentAnalytics   bool `json:"content_analytics"`
}

// TaskDetail is the aggregated view-model for one task.
type TaskDetail struct {
	Task           store.Task           `json:"task"`
	CampaignName   string               `json:"campaign_name"`
	BrandName      string               `json:"brand_name"`
	InfluencerName string               `json:"influencer_name"`
	Feedback       []store.TaskFeedback `json:"feedback"`
	Uploads        []store.Upload       `json:"uploads"`
	Steps          StepFlags            `json:"steps"`
}

// deriveStepFlags computes the four step booleans from the denormalized
// status and current phase.
func deriveStepFlags(status, currentPhase string) StepFlags {
	return StepFlags{
		ContentRequirement: currentPhase != store.PhaseContentRequirement ||
			status != store.TaskStatusContentRequirement,
		ContentReview: status == store.TaskStatusContentReview ||
			status == store.TaskStatusPostContent ||
			status == store.TaskStatusContentAnalytics ||
			currentPhase == store.PhaseContentReview,
		PublishContent: status == store.TaskStatusPostContent ||
			status == store.TaskStatusContentAnalytics ||
			currentPhase == store.PhasePublishAnalytics,
		ContentAnalytics: status == store.TaskStatusContentAnalytics,
	}
}

// CreateTask inserts a new task row. Workflow initialization is a separate
// step so creation stays a single write.
func (p *TaskDetailProcessor) CreateTask(ctx context.Context, params store.CreateTaskParams) (store.Task, error) {
	task, err := p.store.CreateTask(ctx, params)
	if err != nil {
		p.logger.Error(ctx, "failed to create task", err)
		return store.Task{}, err
	}
	return task, nil
}

// GetTaskDetail joins the task with display names, the feedback log and the
// upload list, and derives the step flags.
func (p *TaskDetailProcessor) GetTaskDetail(ctx context.Context, taskID uuid.UUID) (TaskDetail, error) {
	ctx = observability.WithFields(ctx, observability.Field{Key: "task_id", Value: taskID.String()})

	task, err := p.taskByID(ctx, taskID)
	if err != nil {
		return TaskDetail{}, err
	}

	names, err := p.store.GetTaskDisplayNames(ctx, taskID)
	if err != nil {
		p.logger.Error(ctx, "failed to get task display names", err)
		return TaskDetail{}, err
	}

	feedback, err := p.store.GetTaskFeedbackByTaskID(ctx, taskID)
	if err != nil {
		p.logger.Error(ctx, "failed to get task feedback", err)
		return TaskDetail{}, err
	}

	uploads, err := p.store.GetUploadsByTaskID(ctx, taskID)
	if err != nil {
		p.logger.Error(ctx, "failed to get uploads", err)
		return TaskDetail{}, err
	}

	return TaskDetail{
		Task:           task,
		CampaignName:   names.CampaignName,
		BrandName:      names.BrandName,
		InfluencerName: names.InfluencerName,
		Feedback:       feedback,
		Uploads:        uploads,
		Steps:          deriveStepFlags(task.Status, task.CurrentPhase),
	}, nil
}

// SubmitForReview marks the task as waiting on the brand's review of
// published content.
func (p *TaskDetailProcessor) SubmitForReview(ctx context.Context, taskID uuid.UUID) (store.Task, error) {
	ctx = observability.WithFields(ctx, observability.Field{Key: "task_id", Value: taskID.String()})

	task, err := p.store.UpdateTaskStatusProgress(ctx, taskID, store.TaskStatusPostContent, 75)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Task{}, ErrTaskNotFound
		}
		p.logger.Error(ctx, "failed to submit task for review", err)
		return store.Task{}, err
	}
	return task, nil
}

// SendMessage appends a feedback message tagged with the task's current
// phase.
func (p *TaskDetailProcessor) SendMessage(ctx context.Context, taskID, senderID uuid.UUID, senderType, message string) (store.TaskFeedback, error) {
	ctx = observability.WithFields(ctx, observability.Field{Key: "task_id", Value: taskID.String()})

	if message == "" {
		return store.TaskFeedback{}, ErrEmptyMessage
	}
	if senderType != store.SenderTypeBrand && senderType != store.SenderTypeInfluencer {
		return store.TaskFeedback{}, ErrInvalidSenderType
	}

	task, err := p.taskByID(ctx, taskID)
	if err != nil {
		return store.TaskFeedback{}, err
	}

	feedback, err := p.store.CreateTaskFeedback(ctx, store.CreateTaskFeedbackParams{
		TaskID:     taskID,
		SenderID:   senderID,
		SenderType: senderType,
		Phase:      task.CurrentPhase,
		Message:    message,
	})
	if err != nil {
		p.logger.Error(ctx, "failed to send message", err)
		return store.TaskFeedback{}, err
	}
	return feedback, nil
}

// AddUploadParams carries the blob-store record for one uploaded file.
type AddUploadParams struct {
	TaskID     uuid.UUID
	UploaderID uuid.UUID
	FileName   string
	FileURL    string
	MimeType   string
	Caption    *string
	Hashtags   *string
}

// AddUpload records a file that was uploaded to the blob store.
func (p *TaskDetailProcessor) AddUpload(ctx context.Context, params AddUploadParams) (store.Upload, error) {
	ctx = observability.WithFields(ctx, observability.Field{Key: "task_id", Value: params.TaskID.String()})

	if _, err := p.taskByID(ctx, params.TaskID); err != nil {
		return store.Upload{}, err
	}

	upload, err := p.store.CreateUpload(ctx, store.CreateUploadParams{
		TaskID:     params.TaskID,
		UploaderID: params.UploaderID,
		FileName:   params.FileName,
		FileURL:    params.FileURL,
		MimeType:   params.MimeType,
		Caption:    params.Caption,
		Hashtags:   params.Hashtags,
	})
	if err != nil {
		p.logger.Error(ctx, "failed to add upload", err)
		return store.Upload{}, err
	}
	return upload, nil
}

// DeleteUpload removes an upload record. The blob itself is left to the
// store's lifecycle rules.
func (p *TaskDetailProcessor) DeleteUpload(ctx context.Context, taskID, uploadID uuid.UUID) error {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "task_id", Value: taskID.String()},
		observability.Field{Key: "upload_id", Value: uploadID.String()},
	)

	if err := p.store.DeleteUpload(ctx, taskID, uploadID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUploadNotFound
		}
		p.logger.Error(ctx, "failed to delete upload", err)
		return err
	}
	return nil
}

// GetUploads returns the task's uploads in creation order.
func (p *TaskDetailProcessor) GetUploads(ctx context.Context, taskID uuid.UUID) ([]store.Upload, error) {
	if _, err := p.taskByID(ctx, taskID); err != nil {
		return nil, err
	}
	uploads, err := p.store.GetUploadsByTaskID(ctx, taskID)
	if err != nil {
		p.logger.Error(ctx, "failed to get uploads", err)
		return nil, err
	}
	return uploads, nil
}

// GetFeedback returns the task's feedback log in creation order.
func (p *TaskDetailProcessor) GetFeedback(ctx context.Context, taskID uuid.UUID) ([]store.TaskFeedback, error) {
	if _, err := p.taskByID(ctx, taskID); err != nil {
		return nil, err
	}
	feedback, err := p.store.GetTaskFeedbackByTaskID(ctx, taskID)
	if err != nil {
		p.logger.Error(ctx, "failed to get task feedback", err)
		return nil, err
	}
	return feedback, nil
}

func (p *TaskDetailProcessor) taskByID(ctx context.Context, taskID uuid.UUID) (store.Task, error) {
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
