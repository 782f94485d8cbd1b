package processor

import (
	"context"
	"creatorlink/internal/observability"
	"creatorlink/internal/store"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
)

// fakeStore is an in-memory stand-in for the data layer. Multi-write
// transitions apply all their writes at once, mirroring the transactional
// store methods.
type fakeStore struct {
	tasks     map[uuid.UUID]store.Task
	states    map[uuid.UUID][]store.WorkflowState
	drafts    map[uuid.UUID]store.ContentDraft
	uploads   map[uuid.UUID]store.Upload
	reviews   []store.ContentReview
	published []store.PublishedContent
	users     map[uuid.UUID]store.User
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		tasks:   make(map[uuid.UUID]store.Task),
		states:  make(map[uuid.UUID][]store.WorkflowState),
		drafts:  make(map[uuid.UUID]store.ContentDraft),
		uploads: make(map[uuid.UUID]store.Upload),
		users:   make(map[uuid.UUID]store.User),
	}
}

func (f *fakeStore) addTask() store.Task {
	task := store.Task{
		ID:           uuid.New(),
		CampaignID:   uuid.New(),
		InfluencerID: uuid.New(),
		Title:        "Spring launch reel",
		TaskType:     store.TaskTypeContentCreation,
		Status:       store.TaskStatusPending,
	}
	f.tasks[task.ID] = task
	f.users[task.InfluencerID] = store.User{
		ID:    task.InfluencerID,
		Email: "creator@example.com",
		Role:  store.UserRoleInfluencer,
	}
	return task
}

func (f *fakeStore) addUpload(taskID uuid.UUID) store.Upload {
	upload := store.Upload{
		ID:         uuid.New(),
		TaskID:     taskID,
		UploaderID: uuid.New(),
		FileName:   "reel.mp4",
		FileURL:    "https://cdn.example.com/reel.mp4",
		MimeType:   "video/mp4",
		CreatedAt:  time.Now(),
	}
	f.uploads[upload.ID] = upload
	return upload
}

func (f *fakeStore) setState(taskID uuid.UUID, phase, status string) {
	for i := range f.states[taskID] {
		if f.states[taskID][i].Phase == phase {
			f.states[taskID][i].Status = status
			return
		}
	}
}

func (f *fakeStore) GetTaskByID(_ context.Context, taskID uuid.UUID) (store.Task, error) {
	task, ok := f.tasks[taskID]
	if !ok {
		return store.Task{}, store.ErrNotFound
	}
	return task, nil
}

func (f *fakeStore) GetWorkflowStates(_ context.Context, taskID uuid.UUID) ([]store.WorkflowState, error) {
	return f.states[taskID], nil
}

func (f *fakeStore) InitializeWorkflowStates(_ context.Context, taskID uuid.UUID) error {
	if len(f.states[taskID]) > 0 {
		return nil
	}
	for _, phase := range store.AllPhases {
		f.states[taskID] = append(f.states[taskID], store.WorkflowState{
			ID:     uuid.New(),
			TaskID: taskID,
			Phase:  phase,
			Status: store.PhaseStatusNotStarted,
		})
	}
	task := f.tasks[taskID]
	task.Status = store.TaskStatusContentRequirement
	task.CurrentPhase = store.PhaseContentRequirement
	task.PhaseVisibility = store.PhaseVisibility{}
	f.tasks[taskID] = task
	return nil
}

func (f *fakeStore) StartWorkflowPhase(_ context.Context, taskID uuid.UUID, phase string) (store.WorkflowState, error) {
	f.setState(taskID, phase, store.PhaseStatusInProgress)
	for _, st := range f.states[taskID] {
		if st.Phase == phase {
			return st, nil
		}
	}
	return store.WorkflowState{}, store.ErrNotFound
}

func (f *fakeStore) ShareContentRequirements(_ context.Context, params store.ShareContentRequirementsParams) (store.ContentDraft, error) {
	draft := store.ContentDraft{
		ID:                   uuid.New(),
		TaskID:               params.TaskID,
		Content:              params.Content,
		AIGenerated:          params.AIGenerated,
		BrandEdited:          params.BrandEdited,
		SharedWithInfluencer: true,
		CreatedBy:            params.CreatedBy,
	}
	f.drafts[params.TaskID] = draft
	f.setState(params.TaskID, store.PhaseContentRequirement, store.PhaseStatusCompleted)
	f.setState(params.TaskID, store.PhaseContentReview, store.PhaseStatusInProgress)

	task := f.tasks[params.TaskID]
	task.Status = store.TaskStatusContentReview
	task.Progress = 50
	task.CurrentPhase = store.PhaseContentReview
	task.PhaseVisibility = store.PhaseVisibility{ContentRequirement: true, ContentReview: true}
	f.tasks[params.TaskID] = task
	return draft, nil
}

func (f *fakeStore) UpsertContentDraft(_ context.Context, params store.UpsertContentDraftParams) (store.ContentDraft, error) {
	draft := f.drafts[params.TaskID]
	draft.TaskID = params.TaskID
	draft.Content = params.Content
	draft.AIGenerated = params.AIGenerated
	draft.BrandEdited = params.BrandEdited
	if draft.ID == uuid.Nil {
		draft.ID = uuid.New()
	}
	f.drafts[params.TaskID] = draft
	return draft, nil
}

func (f *fakeStore) GetContentDraftsByTaskID(_ context.Context, taskID uuid.UUID) ([]store.ContentDraft, error) {
	if draft, ok := f.drafts[taskID]; ok {
		return []store.ContentDraft{draft}, nil
	}
	return nil, nil
}

func (f *fakeStore) GetSharedContentDraft(_ context.Context, taskID uuid.UUID) (store.ContentDraft, error) {
	draft, ok := f.drafts[taskID]
	if !ok || !draft.SharedWithInfluencer {
		return store.ContentDraft{}, store.ErrNotFound
	}
	return draft, nil
}

func (f *fakeStore) GetUploadByID(_ context.Context, uploadID uuid.UUID) (store.Upload, error) {
	upload, ok := f.uploads[uploadID]
	if !ok {
		return store.Upload{}, store.ErrNotFound
	}
	return upload, nil
}

func (f *fakeStore) GetLatestReviewByUploadID(_ context.Context, uploadID uuid.UUID) (store.ContentReview, error) {
	for i := len(f.reviews) - 1; i >= 0; i-- {
		if f.reviews[i].UploadID == uploadID {
			return f.reviews[i], nil
		}
	}
	return store.ContentReview{}, store.ErrNotFound
}

func (f *fakeStore) GetContentReviewsByTaskID(_ context.Context, taskID uuid.UUID) ([]store.ContentReview, error) {
	var out []store.ContentReview
	for _, r := range f.reviews {
		if r.TaskID == taskID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) appendReview(taskID, uploadID uuid.UUID, status string, feedback *string, reviewedBy *uuid.UUID) store.ContentReview {
	now := time.Now()
	review := store.ContentReview{
		ID:         uuid.New(),
		TaskID:     taskID,
		UploadID:   uploadID,
		Status:     status,
		Feedback:   feedback,
		ReviewedBy: reviewedBy,
		ReviewedAt: &now,
		CreatedAt:  now,
	}
	f.reviews = append(f.reviews, review)
	return review
}

func (f *fakeStore) CreateContentReview(_ context.Context, params store.CreateContentReviewParams) (store.ContentReview, error) {
	return f.appendReview(params.TaskID, params.UploadID, params.Status, params.Feedback, params.ReviewedBy), nil
}

func (f *fakeStore) ApproveContentReview(_ context.Context, params store.ApproveContentReviewParams) (store.ContentReview, error) {
	review := f.appendReview(params.TaskID, params.UploadID, store.ReviewStatusApproved, params.Feedback, params.ReviewedBy)
	f.setState(params.TaskID, store.PhaseContentReview, store.PhaseStatusCompleted)
	f.setState(params.TaskID, store.PhasePublishAnalytics, store.PhaseStatusInProgress)

	task := f.tasks[params.TaskID]
	task.Status = store.TaskStatusPostContent
	task.Progress = 75
	task.CurrentPhase = store.PhasePublishAnalytics
	task.PhaseVisibility = store.PhaseVisibility{ContentRequirement: true, ContentReview: true, PublishAnalytics: true}
	f.tasks[params.TaskID] = task
	return review, nil
}

func (f *fakeStore) RejectContentReview(_ context.Context, params store.RejectContentReviewParams) (store.ContentReview, error) {
	return f.appendReview(params.TaskID, params.UploadID, store.ReviewStatusRejected, params.Feedback, params.ReviewedBy), nil
}

func (f *fakeStore) CreatePublishedContent(_ context.Context, params store.CreatePublishedContentParams) (store.PublishedContent, error) {
	content := store.PublishedContent{
		ID:           uuid.New(),
		TaskID:       params.TaskID,
		InfluencerID: params.InfluencerID,
		URL:          params.URL,
		Platform:     params.Platform,
		Status:       store.PublishedStatusSubmitted,
		Notes:        params.Notes,
		CreatedAt:    time.Now(),
	}
	f.published = append(f.published, content)
	return content, nil
}

func (f *fakeStore) GetLatestPublishedContent(_ context.Context, taskID uuid.UUID) (store.PublishedContent, error) {
	for i := len(f.published) - 1; i >= 0; i-- {
		if f.published[i].TaskID == taskID {
			return f.published[i], nil
		}
	}
	return store.PublishedContent{}, store.ErrNotFound
}

func (f *fakeStore) CompleteTaskAnalytics(_ context.Context, params store.CompleteTaskAnalyticsParams) (store.PublishedContent, error) {
	var updated store.PublishedContent
	for i := range f.published {
		if f.published[i].ID == params.PublishedContentID {
			analytics := params.Analytics
			f.published[i].AnalyticsData = &analytics
			f.published[i].Status = store.PublishedStatusCompleted
			updated = f.published[i]
		}
	}
	f.setState(params.TaskID, store.PhasePublishAnalytics, store.PhaseStatusCompleted)

	task := f.tasks[params.TaskID]
	task.Status = store.TaskStatusCompleted
	task.Progress = 100
	f.tasks[params.TaskID] = task
	return updated, nil
}

func (f *fakeStore) GetUserByID(_ context.Context, userID uuid.UUID) (store.User, error) {
	user, ok := f.users[userID]
	if !ok {
		return store.User{}, store.ErrNotFound
	}
	return user, nil
}

// fakeMailer records sends instead of delivering them.
type fakeMailer struct {
	sent []string
	err  error
}

func (m *fakeMailer) record(kind, to string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, kind+": "+to)
	return nil
}

func (m *fakeMailer) NotifyRequirementsShared(_ context.Context, to, _, _ string) error {
	return m.record("requirements_shared", to)
}

func (m *fakeMailer) NotifyContentApproved(_ context.Context, to, _, _ string) error {
	return m.record("content_approved", to)
}

func (m *fakeMailer) NotifyChangesRequested(_ context.Context, to, _, _ string) error {
	return m.record("changes_requested", to)
}

func newTestProcessor(f *fakeStore) (WorkflowProcessor, *fakeMailer) {
	mailer := &fakeMailer{}
	logger := observability.NewLogger()
	return New(f, mailer, logger), mailer
}

func stateOf(t *testing.T, f *fakeStore, taskID uuid.UUID, phase string) store.WorkflowState {
	t.Helper()
	for _, st := range f.states[taskID] {
		if st.Phase == phase {
			return st
		}
	}
	t.Fatalf("no state for phase %s", phase)
	return store.WorkflowState{}
}

func TestInitializeWorkflow_Idempotent(t *testing.T) {
	f := newFakeStore()
	p, _ := newTestProcessor(f)
	task := f.addTask()
	ctx := context.Background()

	states, err := p.InitializeWorkflow(ctx, task.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(states) != 3 {
		t.Fatalf("expected 3 workflow states, got %d", len(states))
	}

	states, err = p.InitializeWorkflow(ctx, task.ID)
	if err != nil {
		t.Fatalf("expected no error on repeat, got %v", err)
	}
	if len(states) != 3 {
		t.Errorf("expected 3 workflow states after repeat, got %d", len(states))
	}
	for _, st := range states {
		if st.Status != store.PhaseStatusNotStarted {
			t.Errorf("phase %s: expected not_started, got %s", st.Phase, st.Status)
		}
	}
	if got := f.tasks[task.ID].CurrentPhase; got != store.PhaseContentRequirement {
		t.Errorf("expected current phase content_requirement, got %s", got)
	}
	if f.tasks[task.ID].PhaseVisibility != (store.PhaseVisibility{}) {
		t.Errorf("expected all-false visibility, got %+v", f.tasks[task.ID].PhaseVisibility)
	}
}

func TestInitializeWorkflow_DoesNotResetMidWorkflow(t *testing.T) {
	f := newFakeStore()
	p, _ := newTestProcessor(f)
	task := f.addTask()
	ctx := context.Background()

	if _, err := p.InitializeWorkflow(ctx, task.ID); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if _, err := p.StartContentRequirementPhase(ctx, task.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := p.ShareContentRequirements(ctx, task.ID, "Post 3x/week", false, false, uuid.New()); err != nil {
		t.Fatalf("share: %v", err)
	}

	if _, err := p.InitializeWorkflow(ctx, task.ID); err != nil {
		t.Fatalf("expected repeat initialize to no-op, got %v", err)
	}

	got := f.tasks[task.ID]
	if got.CurrentPhase != store.PhaseContentReview {
		t.Errorf("expected current phase content_review, got %s", got.CurrentPhase)
	}
	if got.Status != store.TaskStatusContentReview {
		t.Errorf("expected status content_review, got %s", got.Status)
	}
	if got.Progress != 50 {
		t.Errorf("expected progress 50, got %d", got.Progress)
	}
	want := store.PhaseVisibility{ContentRequirement: true, ContentReview: true}
	if got.PhaseVisibility != want {
		t.Errorf("expected shared phases to stay visible, got %+v", got.PhaseVisibility)
	}
	if status := stateOf(t, f, task.ID, store.PhaseContentRequirement).Status; status != store.PhaseStatusCompleted {
		t.Errorf("content_requirement: expected completed, got %s", status)
	}
}

func TestInitializeWorkflow_TaskNotFound(t *testing.T) {
	f := newFakeStore()
	p, _ := newTestProcessor(f)

	_, err := p.InitializeWorkflow(context.Background(), uuid.New())
	if !errors.Is(err, ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestShareContentRequirements(t *testing.T) {
	f := newFakeStore()
	p, mailer := newTestProcessor(f)
	task := f.addTask()
	ctx := context.Background()

	if _, err := p.InitializeWorkflow(ctx, task.ID); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if _, err := p.StartContentRequirementPhase(ctx, task.ID); err != nil {
		t.Fatalf("start: %v", err)
	}

	draft, err := p.ShareContentRequirements(ctx, task.ID, "Post 3x/week", false, true, uuid.New())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !draft.SharedWithInfluencer {
		t.Error("expected draft to be shared")
	}

	if got := stateOf(t, f, task.ID, store.PhaseContentRequirement).Status; got != store.PhaseStatusCompleted {
		t.Errorf("content_requirement: expected completed, got %s", got)
	}
	if got := stateOf(t, f, task.ID, store.PhaseContentReview).Status; got != store.PhaseStatusInProgress {
		t.Errorf("content_review: expected in_progress, got %s", got)
	}

	visibility := f.tasks[task.ID].PhaseVisibility
	if !visibility.ContentRequirement || !visibility.ContentReview {
		t.Errorf("expected first two phases visible, got %+v", visibility)
	}
	if visibility.PublishAnalytics {
		t.Error("publish_analytics must not be visible yet")
	}
	if len(mailer.sent) != 1 {
		t.Errorf("expected 1 notification, got %d", len(mailer.sent))
	}
}

func TestShareContentRequirements_EmptyContent(t *testing.T) {
	f := newFakeStore()
	p, _ := newTestProcessor(f)
	task := f.addTask()
	ctx := context.Background()

	if _, err := p.InitializeWorkflow(ctx, task.ID); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	_, err := p.ShareContentRequirements(ctx, task.ID, "", false, false, uuid.New())
	if !errors.Is(err, ErrEmptyContent) {
		t.Errorf("expected ErrEmptyContent, got %v", err)
	}
}

func TestShareContentRequirements_NotStarted(t *testing.T) {
	f := newFakeStore()
	p, _ := newTestProcessor(f)
	task := f.addTask()
	ctx := context.Background()

	if _, err := p.InitializeWorkflow(ctx, task.ID); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	_, err := p.ShareContentRequirements(ctx, task.ID, "Post 3x/week", false, false, uuid.New())
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestShareContentRequirements_MailFailureDoesNotFail(t *testing.T) {
	f := newFakeStore()
	p, mailer := newTestProcessor(f)
	mailer.err = errors.New("resend: rate limited")
	task := f.addTask()
	ctx := context.Background()

	if _, err := p.InitializeWorkflow(ctx, task.ID); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if _, err := p.StartContentRequirementPhase(ctx, task.ID); err != nil {
		t.Fatalf("start: %v", err)
	}

	if _, err := p.ShareContentRequirements(ctx, task.ID, "Post 3x/week", false, false, uuid.New()); err != nil {
		t.Errorf("mail failure must not fail the transition, got %v", err)
	}
}

func TestCreateContentReview_Approved(t *testing.T) {
	f := newFakeStore()
	p, _ := newTestProcessor(f)
	task := f.addTask()
	ctx := context.Background()

	if _, err := p.InitializeWorkflow(ctx, task.ID); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if _, err := p.StartContentRequirementPhase(ctx, task.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := p.ShareContentRequirements(ctx, task.ID, "Post 3x/week", false, false, uuid.New()); err != nil {
		t.Fatalf("share: %v", err)
	}
	upload := f.addUpload(task.ID)

	feedback := "Great job"
	reviewer := uuid.New()
	review, err := p.CreateContentReview(ctx, task.ID, upload.ID, store.ReviewStatusApproved, &feedback, &reviewer)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if review.Status != store.ReviewStatusApproved {
		t.Errorf("expected approved, got %s", review.Status)
	}

	if got := stateOf(t, f, task.ID, store.PhaseContentReview).Status; got != store.PhaseStatusCompleted {
		t.Errorf("content_review: expected completed, got %s", got)
	}
	if got := stateOf(t, f, task.ID, store.PhasePublishAnalytics).Status; got != store.PhaseStatusInProgress {
		t.Errorf("publish_analytics: expected in_progress, got %s", got)
	}

	visibility := f.tasks[task.ID].PhaseVisibility
	if !visibility.ContentRequirement || !visibility.ContentReview || !visibility.PublishAnalytics {
		t.Errorf("expected all phases visible after approval, got %+v", visibility)
	}
}

func TestCreateContentReview_Rejected(t *testing.T) {
	f := newFakeStore()
	p, mailer := newTestProcessor(f)
	task := f.addTask()
	ctx := context.Background()

	if _, err := p.InitializeWorkflow(ctx, task.ID); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if _, err := p.StartContentRequirementPhase(ctx, task.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := p.ShareContentRequirements(ctx, task.ID, "Post 3x/week", false, false, uuid.New()); err != nil {
		t.Fatalf("share: %v", err)
	}
	upload := f.addUpload(task.ID)

	feedback := "Logo is cropped"
	if _, err := p.CreateContentReview(ctx, task.ID, upload.ID, store.ReviewStatusRejected, &feedback, nil); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if got := stateOf(t, f, task.ID, store.PhaseContentReview).Status; got != store.PhaseStatusInProgress {
		t.Errorf("content_review: expected in_progress after rejection, got %s", got)
	}
	if got := stateOf(t, f, task.ID, store.PhasePublishAnalytics).Status; got != store.PhaseStatusNotStarted {
		t.Errorf("publish_analytics: expected not_started after rejection, got %s", got)
	}
	if len(mailer.sent) != 2 || mailer.sent[1] != "changes_requested: creator@example.com" {
		t.Errorf("expected a changes-requested notification, got %v", mailer.sent)
	}

	// A second upload can still be reviewed after the rejection.
	revision := f.addUpload(task.ID)
	if _, err := p.CreateContentReview(ctx, task.ID, revision.ID, store.ReviewStatusApproved, nil, nil); err != nil {
		t.Errorf("expected revision review to succeed, got %v", err)
	}
}

func TestCreateContentReview_Guards(t *testing.T) {
	f := newFakeStore()
	p, _ := newTestProcessor(f)
	task := f.addTask()
	other := f.addTask()
	ctx := context.Background()

	if _, err := p.InitializeWorkflow(ctx, task.ID); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if _, err := p.StartContentRequirementPhase(ctx, task.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := p.ShareContentRequirements(ctx, task.ID, "Post 3x/week", false, false, uuid.New()); err != nil {
		t.Fatalf("share: %v", err)
	}
	upload := f.addUpload(task.ID)
	foreignUpload := f.addUpload(other.ID)

	if _, err := p.CreateContentReview(ctx, task.ID, upload.ID, "maybe", nil, nil); !errors.Is(err, ErrInvalidReviewStatus) {
		t.Errorf("expected ErrInvalidReviewStatus, got %v", err)
	}
	if _, err := p.CreateContentReview(ctx, task.ID, uuid.New(), store.ReviewStatusApproved, nil, nil); !errors.Is(err, ErrUploadNotFound) {
		t.Errorf("expected ErrUploadNotFound, got %v", err)
	}
	if _, err := p.CreateContentReview(ctx, task.ID, foreignUpload.ID, store.ReviewStatusApproved, nil, nil); !errors.Is(err, ErrUploadNotForTask) {
		t.Errorf("expected ErrUploadNotForTask, got %v", err)
	}

	if _, err := p.CreateContentReview(ctx, task.ID, upload.ID, store.ReviewStatusApproved, nil, nil); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if _, err := p.CreateContentReview(ctx, task.ID, upload.ID, store.ReviewStatusRejected, nil, nil); !errors.Is(err, ErrUploadAlreadyReviewed) {
		t.Errorf("expected ErrUploadAlreadyReviewed, got %v", err)
	}
}

func TestSubmitPublishedContent_PhaseGuard(t *testing.T) {
	f := newFakeStore()
	p, _ := newTestProcessor(f)
	task := f.addTask()
	ctx := context.Background()

	if _, err := p.InitializeWorkflow(ctx, task.ID); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	_, err := p.SubmitPublishedContent(ctx, task.ID, "https://instagram.com/p/abc", store.PlatformInstagram, task.InfluencerID, nil)
	if !errors.Is(err, ErrPhaseNotStarted) {
		t.Errorf("expected ErrPhaseNotStarted, got %v", err)
	}

	_, err = p.SubmitPublishedContent(ctx, task.ID, "https://example.com", "myspace", task.InfluencerID, nil)
	if !errors.Is(err, ErrInvalidPlatform) {
		t.Errorf("expected ErrInvalidPlatform, got %v", err)
	}
}

func TestEngagementRate(t *testing.T) {
	rate := EngagementRate(AnalyticsMetrics{Reach: 1000, Likes: 50, Comments: 10, Shares: 5, Saves: 5})
	if math.Abs(rate-7.0) > 1e-9 {
		t.Errorf("expected 7.0, got %v", rate)
	}

	if rate := EngagementRate(AnalyticsMetrics{Reach: 0, Likes: 100}); rate != 0 {
		t.Errorf("expected 0 for zero reach, got %v", rate)
	}
}

func TestSubmitAnalytics_Negative(t *testing.T) {
	f := newFakeStore()
	p, _ := newTestProcessor(f)
	task := f.addTask()

	_, err := p.SubmitAnalytics(context.Background(), task.ID, AnalyticsMetrics{Reach: -1})
	if !errors.Is(err, ErrInvalidAnalytics) {
		t.Errorf("expected ErrInvalidAnalytics, got %v", err)
	}
}

func TestGetVisibleWorkflowStates(t *testing.T) {
	f := newFakeStore()
	p, _ := newTestProcessor(f)
	task := f.addTask()
	ctx := context.Background()

	if _, err := p.InitializeWorkflow(ctx, task.ID); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	brandStates, err := p.GetVisibleWorkflowStates(ctx, task.ID, store.UserRoleBrand)
	if err != nil {
		t.Fatalf("brand: %v", err)
	}
	if len(brandStates) != 3 {
		t.Errorf("brand should see all 3 phases, got %d", len(brandStates))
	}

	agencyStates, err := p.GetVisibleWorkflowStates(ctx, task.ID, store.UserRoleAgency)
	if err != nil {
		t.Fatalf("agency: %v", err)
	}
	if len(agencyStates) != 3 {
		t.Errorf("agency should see all 3 phases, got %d", len(agencyStates))
	}

	influencerStates, err := p.GetVisibleWorkflowStates(ctx, task.ID, store.UserRoleInfluencer)
	if err != nil {
		t.Fatalf("influencer: %v", err)
	}
	if len(influencerStates) != 0 {
		t.Errorf("influencer should see nothing before sharing, got %d", len(influencerStates))
	}

	if _, err := p.StartContentRequirementPhase(ctx, task.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := p.ShareContentRequirements(ctx, task.ID, "Post 3x/week", false, false, uuid.New()); err != nil {
		t.Fatalf("share: %v", err)
	}

	influencerStates, err = p.GetVisibleWorkflowStates(ctx, task.ID, store.UserRoleInfluencer)
	if err != nil {
		t.Fatalf("influencer after share: %v", err)
	}
	if len(influencerStates) != 2 {
		t.Errorf("influencer should see 2 phases after sharing, got %d", len(influencerStates))
	}
}

func TestCheckPhaseVisibility(t *testing.T) {
	f := newFakeStore()
	p, _ := newTestProcessor(f)
	task := f.addTask()
	ctx := context.Background()

	if _, err := p.InitializeWorkflow(ctx, task.ID); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	for _, phase := range store.AllPhases {
		visible, err := p.CheckPhaseVisibility(ctx, task.ID, store.UserRoleBrand, phase)
		if err != nil {
			t.Fatalf("brand %s: %v", phase, err)
		}
		if !visible {
			t.Errorf("brand should see %s", phase)
		}

		visible, err = p.CheckPhaseVisibility(ctx, task.ID, store.UserRoleInfluencer, phase)
		if err != nil {
			t.Fatalf("influencer %s: %v", phase, err)
		}
		if visible {
			t.Errorf("influencer should not see %s before sharing", phase)
		}
	}

	if _, err := p.StartContentRequirementPhase(ctx, task.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := p.ShareContentRequirements(ctx, task.ID, "Post 3x/week", false, false, uuid.New()); err != nil {
		t.Fatalf("share: %v", err)
	}

	cases := []struct {
		phase string
		want  bool
	}{
		{store.PhaseContentRequirement, true},
		{store.PhaseContentReview, true},
		{store.PhasePublishAnalytics, false},
	}
	for _, tc := range cases {
		visible, err := p.CheckPhaseVisibility(ctx, task.ID, store.UserRoleInfluencer, tc.phase)
		if err != nil {
			t.Fatalf("influencer %s after share: %v", tc.phase, err)
		}
		if visible != tc.want {
			t.Errorf("influencer %s after share: expected %v, got %v", tc.phase, tc.want, visible)
		}
	}
}

func TestGetContentDrafts_PhaseNotVisible(t *testing.T) {
	f := newFakeStore()
	p, _ := newTestProcessor(f)
	task := f.addTask()
	ctx := context.Background()

	if _, err := p.InitializeWorkflow(ctx, task.ID); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if _, err := p.SaveContentDraft(ctx, task.ID, "Post 3x/week", true, false, uuid.New()); err != nil {
		t.Fatalf("save draft: %v", err)
	}

	if _, err := p.GetContentDrafts(ctx, task.ID, store.UserRoleInfluencer); !errors.Is(err, ErrPhaseNotVisible) {
		t.Errorf("expected ErrPhaseNotVisible before sharing, got %v", err)
	}
	if _, err := p.GetContentReviews(ctx, task.ID, store.UserRoleInfluencer); !errors.Is(err, ErrPhaseNotVisible) {
		t.Errorf("expected ErrPhaseNotVisible for reviews before sharing, got %v", err)
	}

	drafts, err := p.GetContentDrafts(ctx, task.ID, store.UserRoleBrand)
	if err != nil {
		t.Fatalf("brand drafts: %v", err)
	}
	if len(drafts) != 1 {
		t.Errorf("brand should see 1 draft, got %d", len(drafts))
	}

	if _, err := p.StartContentRequirementPhase(ctx, task.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := p.ShareContentRequirements(ctx, task.ID, "Post 3x/week", false, false, uuid.New()); err != nil {
		t.Fatalf("share: %v", err)
	}

	drafts, err = p.GetContentDrafts(ctx, task.ID, store.UserRoleInfluencer)
	if err != nil {
		t.Fatalf("influencer drafts after share: %v", err)
	}
	if len(drafts) != 1 {
		t.Errorf("influencer should see 1 draft after sharing, got %d", len(drafts))
	}
}

func TestWorkflowEndToEnd(t *testing.T) {
	f := newFakeStore()
	p, _ := newTestProcessor(f)
	task := f.addTask()
	ctx := context.Background()

	if _, err := p.InitializeWorkflow(ctx, task.ID); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if _, err := p.StartContentRequirementPhase(ctx, task.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := p.ShareContentRequirements(ctx, task.ID, "Post 3x/week", false, false, uuid.New()); err != nil {
		t.Fatalf("share: %v", err)
	}

	upload := f.addUpload(task.ID)
	feedback := "Great job"
	if _, err := p.CreateContentReview(ctx, task.ID, upload.ID, store.ReviewStatusApproved, &feedback, nil); err != nil {
		t.Fatalf("review: %v", err)
	}

	if _, err := p.SubmitPublishedContent(ctx, task.ID, "https://instagram.com/p/abc", store.PlatformInstagram, task.InfluencerID, nil); err != nil {
		t.Fatalf("publish: %v", err)
	}

	content, err := p.SubmitAnalytics(ctx, task.ID, AnalyticsMetrics{
		Reach:    10000,
		Likes:    400,
		Comments: 100,
		Shares:   50,
		Saves:    50,
	})
	if err != nil {
		t.Fatalf("analytics: %v", err)
	}

	if content.AnalyticsData == nil {
		t.Fatal("expected analytics payload")
	}
	if math.Abs(content.AnalyticsData.EngagementRate-6.0) > 1e-9 {
		t.Errorf("expected engagement rate 6.0, got %v", content.AnalyticsData.EngagementRate)
	}

	final := f.tasks[task.ID]
	if final.Status != store.TaskStatusCompleted {
		t.Errorf("expected status completed, got %s", final.Status)
	}
	if final.Progress != 100 {
		t.Errorf("expected progress 100, got %d", final.Progress)
	}
	for _, phase := range store.AllPhases {
		if got := stateOf(t, f, task.ID, phase).Status; got != store.PhaseStatusCompleted {
			t.Errorf("phase %s: expected completed, got %s", phase, got)
		}
	}
}
