package processor

import (
	"context"
	"creatorlink/internal/observability"
	"creatorlink/internal/store"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

type fakeStore struct {
	tasks    map[uuid.UUID]store.Task
	names    map[uuid.UUID]store.TaskDisplayNames
	feedback []store.TaskFeedback
	uploads  map[uuid.UUID]store.Upload
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		tasks:   make(map[uuid.UUID]store.Task),
		names:   make(map[uuid.UUID]store.TaskDisplayNames),
		uploads: make(map[uuid.UUID]store.Upload),
	}
}

func (f *fakeStore) addTask(status, currentPhase string) store.Task {
	task := store.Task{
		ID:           uuid.New(),
		CampaignID:   uuid.New(),
		InfluencerID: uuid.New(),
		Title:        "Unboxing video",
		TaskType:     store.TaskTypeProductReview,
		Status:       status,
		CurrentPhase: currentPhase,
	}
	f.tasks[task.ID] = task
	f.names[task.ID] = store.TaskDisplayNames{
		CampaignName:   "Summer Launch",
		BrandName:      "Acme Co",
		InfluencerName: "Jordan",
	}
	return task
}

func (f *fakeStore) CreateTask(_ context.Context, params store.CreateTaskParams) (store.Task, error) {
	task := store.Task{
		ID:           uuid.New(),
		CampaignID:   params.CampaignID,
		InfluencerID: params.InfluencerID,
		Title:        params.Title,
		Description:  params.Description,
		TaskType:     params.TaskType,
		Status:       store.TaskStatusPending,
		NextDeadline: params.NextDeadline,
		CreatedAt:    time.Now(),
	}
	f.tasks[task.ID] = task
	return task, nil
}

func (f *fakeStore) GetTaskByID(_ context.Context, taskID uuid.UUID) (store.Task, error) {
	task, ok := f.tasks[taskID]
	if !ok {
		return store.Task{}, store.ErrNotFound
	}
	return task, nil
}

func (f *fakeStore) GetTaskDisplayNames(_ context.Context, taskID uuid.UUID) (store.TaskDisplayNames, error) {
	names, ok := f.names[taskID]
	if !ok {
		return store.TaskDisplayNames{}, store.ErrNotFound
	}
	return names, nil
}

func (f *fakeStore) GetTaskFeedbackByTaskID(_ context.Context, taskID uuid.UUID) ([]store.TaskFeedback, error) {
	var out []store.TaskFeedback
	for _, fb := range f.feedback {
		if fb.TaskID == taskID {
			out = append(out, fb)
		}
	}
	return out, nil
}

func (f *fakeStore) GetUploadsByTaskID(_ context.Context, taskID uuid.UUID) ([]store.Upload, error) {
	var out []store.Upload
	for _, u := range f.uploads {
		if u.TaskID == taskID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateTaskFeedback(_ context.Context, params store.CreateTaskFeedbackParams) (store.TaskFeedback, error) {
	fb := store.TaskFeedback{
		ID:         uuid.New(),
		TaskID:     params.TaskID,
		SenderID:   params.SenderID,
		SenderType: params.SenderType,
		Phase:      params.Phase,
		Message:    params.Message,
		CreatedAt:  time.Now(),
	}
	f.feedback = append(f.feedback, fb)
	return fb, nil
}

func (f *fakeStore) CreateUpload(_ context.Context, params store.CreateUploadParams) (store.Upload, error) {
	upload := store.Upload{
		ID:         uuid.New(),
		TaskID:     params.TaskID,
		UploaderID: params.UploaderID,
		FileName:   params.FileName,
		FileURL:    params.FileURL,
		MimeType:   params.MimeType,
		Caption:    params.Caption,
		Hashtags:   params.Hashtags,
		CreatedAt:  time.Now(),
	}
	f.uploads[upload.ID] = upload
	return upload, nil
}

func (f *fakeStore) DeleteUpload(_ context.Context, taskID, uploadID uuid.UUID) error {
	upload, ok := f.uploads[uploadID]
	if !ok || upload.TaskID != taskID {
		return store.ErrNotFound
	}
	delete(f.uploads, uploadID)
	return nil
}

func (f *fakeStore) UpdateTaskStatusProgress(_ context.Context, taskID uuid.UUID, status string, progress int) (store.Task, error) {
	task, ok := f.tasks[taskID]
	if !ok {
		return store.Task{}, store.ErrNotFound
	}
	task.Status = status
	task.Progress = progress
	f.tasks[taskID] = task
	return task, nil
}

func newTestProcessor(f *fakeStore) TaskDetailProcessor {
	return New(f, observability.NewLogger())
}

func TestDeriveStepFlags(t *testing.T) {
	tests := []struct {
		name         string
		status       string
		currentPhase string
		want         StepFlags
	}{
		{
			name:         "requirements underway",
			status:       store.TaskStatusContentRequirement,
			currentPhase: store.PhaseContentRequirement,
			want:         StepFlags{},
		},
		{
			name:         "review underway",
			status:       store.TaskStatusContentReview,
			currentPhase: store.PhaseContentReview,
			want:         StepFlags{ContentRequirement: true, ContentReview: true},
		},
		{
			name:         "awaiting publish",
			status:       store.TaskStatusPostContent,
			currentPhase: store.PhasePublishAnalytics,
			want:         StepFlags{ContentRequirement: true, ContentReview: true, PublishContent: true},
		},
		{
			name:         "analytics pending",
			status:       store.TaskStatusContentAnalytics,
			currentPhase: store.PhasePublishAnalytics,
			want:         StepFlags{ContentRequirement: true, ContentReview: true, PublishContent: true, ContentAnalytics: true},
		},
		{
			name:         "completed task keeps analytics flag off",
			status:       store.TaskStatusCompleted,
			currentPhase: store.PhasePublishAnalytics,
			want:         StepFlags{ContentRequirement: true, ContentReview: false, PublishContent: true, ContentAnalytics: false},
		},
		{
			name:         "pending task before initialization",
			status:       store.TaskStatusPending,
			currentPhase: "",
			want:         StepFlags{ContentRequirement: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := deriveStepFlags(tt.status, tt.currentPhase)
			if got != tt.want {
				t.Errorf("deriveStepFlags(%q, %q) = %+v, want %+v", tt.status, tt.currentPhase, got, tt.want)
			}
		})
	}
}

func TestGetTaskDetail(t *testing.T) {
	f := newFakeStore()
	p := newTestProcessor(f)
	task := f.addTask(store.TaskStatusContentReview, store.PhaseContentReview)
	ctx := context.Background()

	if _, err := p.SendMessage(ctx, task.ID, uuid.New(), store.SenderTypeBrand, "Please match the brand palette"); err != nil {
		t.Fatalf("send message: %v", err)
	}

	detail, err := p.GetTaskDetail(ctx, task.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if detail.CampaignName != "Summer Launch" || detail.BrandName != "Acme Co" || detail.InfluencerName != "Jordan" {
		t.Errorf("unexpected display names: %+v", detail)
	}
	if len(detail.Feedback) != 1 {
		t.Errorf("expected 1 feedback message, got %d", len(detail.Feedback))
	}
	if !detail.Steps.ContentRequirement || !detail.Steps.ContentReview {
		t.Errorf("unexpected step flags: %+v", detail.Steps)
	}
	if detail.Steps.PublishContent || detail.Steps.ContentAnalytics {
		t.Errorf("later steps must be off during review: %+v", detail.Steps)
	}
}

func TestGetTaskDetail_NotFound(t *testing.T) {
	f := newFakeStore()
	p := newTestProcessor(f)

	_, err := p.GetTaskDetail(context.Background(), uuid.New())
	if !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestSendMessage_Validation(t *testing.T) {
	f := newFakeStore()
	p := newTestProcessor(f)
	task := f.addTask(store.TaskStatusContentReview, store.PhaseContentReview)
	ctx := context.Background()

	if _, err := p.SendMessage(ctx, task.ID, uuid.New(), store.SenderTypeBrand, ""); !errors.Is(err, ErrEmptyMessage) {
		t.Errorf("expected ErrEmptyMessage, got %v", err)
	}
	if _, err := p.SendMessage(ctx, task.ID, uuid.New(), "agency", "hello"); !errors.Is(err, ErrInvalidSenderType) {
		t.Errorf("expected ErrInvalidSenderType, got %v", err)
	}
	if _, err := p.SendMessage(ctx, uuid.New(), uuid.New(), store.SenderTypeBrand, "hello"); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestSendMessage_TagsCurrentPhase(t *testing.T) {
	f := newFakeStore()
	p := newTestProcessor(f)
	task := f.addTask(store.TaskStatusPostContent, store.PhasePublishAnalytics)

	fb, err := p.SendMessage(context.Background(), task.ID, task.InfluencerID, store.SenderTypeInfluencer, "Posted last night")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if fb.Phase != store.PhasePublishAnalytics {
		t.Errorf("expected phase publish_analytics, got %s", fb.Phase)
	}
}

func TestSubmitForReview(t *testing.T) {
	f := newFakeStore()
	p := newTestProcessor(f)
	task := f.addTask(store.TaskStatusContentReview, store.PhaseContentReview)

	updated, err := p.SubmitForReview(context.Background(), task.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if updated.Status != store.TaskStatusPostContent {
		t.Errorf("expected status post_content, got %s", updated.Status)
	}
	if updated.Progress != 75 {
		t.Errorf("expected progress 75, got %d", updated.Progress)
	}

	if _, err := p.SubmitForReview(context.Background(), uuid.New()); !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestUploadLifecycle(t *testing.T) {
	f := newFakeStore()
	p := newTestProcessor(f)
	task := f.addTask(store.TaskStatusContentReview, store.PhaseContentReview)
	ctx := context.Background()

	caption := "First cut"
	upload, err := p.AddUpload(ctx, AddUploadParams{
		TaskID:     task.ID,
		UploaderID: task.InfluencerID,
		FileName:   "cut-01.mp4",
		FileURL:    "https://cdn.example.com/cut-01.mp4",
		MimeType:   "video/mp4",
		Caption:    &caption,
	})
	if err != nil {
		t.Fatalf("add upload: %v", err)
	}

	uploads, err := p.GetUploads(ctx, task.ID)
	if err != nil {
		t.Fatalf("get uploads: %v", err)
	}
	if len(uploads) != 1 {
		t.Fatalf("expected 1 upload, got %d", len(uploads))
	}

	if err := p.DeleteUpload(ctx, task.ID, upload.ID); err != nil {
		t.Errorf("delete upload: %v", err)
	}
	if err := p.DeleteUpload(ctx, task.ID, upload.ID); !errors.Is(err, ErrUploadNotFound) {
		t.Errorf("expected ErrUploadNotFound on second delete, got %v", err)
	}
}

func TestAddUpload_TaskNotFound(t *testing.T) {
	f := newFakeStore()
	p := newTestProcessor(f)

	_, err := p.AddUpload(context.Background(), AddUploadParams{
		TaskID:     uuid.New(),
		UploaderID: uuid.New(),
		FileName:   "cut-01.mp4",
		FileURL:    "https://cdn.example.com/cut-01.mp4",
		MimeType:   "video/mp4",
	})
	if !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound, got %v", err)
	}
}
