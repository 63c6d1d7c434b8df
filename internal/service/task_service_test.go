package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/taskflow-dev/taskflow/internal/apperrors"
	"github.com/taskflow-dev/taskflow/internal/models"
	"github.com/taskflow-dev/taskflow/internal/types"
)

func newTaskFixture() (*TaskService, *fakeTaskStore, *fakeCategoryStore) {
	tasks := newFakeTaskStore()
	categories := newFakeCategoryStore(tasks)
	return NewTaskService(tasks, categories), tasks, categories
}

func assertAppCode(t *testing.T, err error, code string) *apperrors.AppError {
	t.Helper()
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %v", err)
	}
	if appErr.Code != code {
		t.Fatalf("expected code %s, got %s (%s)", code, appErr.Code, appErr.Message)
	}
	return appErr
}

func statusPtr(s models.TaskStatus) *models.TaskStatus { return &s }
func strPtr(s string) *string                          { return &s }
func timePtr(t time.Time) *time.Time                   { return &t }

func nullTime() types.Optional[time.Time] {
	return types.Optional[time.Time]{Set: true, Valid: false}
}

func TestCreateTaskDefaults(t *testing.T) {
	svc, _, _ := newTaskFixture()
	userID := uuid.New()

	task, err := svc.Create(context.Background(), userID, CreateTaskInput{Title: "Write report"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if task.Status != models.TaskStatusPending {
		t.Errorf("expected default status PENDING, got %s", task.Status)
	}
	if task.Priority != models.PriorityMedium {
		t.Errorf("expected default priority MEDIUM, got %s", task.Priority)
	}
	if task.CompletedAt != nil {
		t.Error("completedAt should be nil for a pending task")
	}
	if task.UserID != userID {
		t.Errorf("task not owned by creator")
	}
}

func TestCreateBackburnerRequiresDate(t *testing.T) {
	svc, _, _ := newTaskFixture()
	userID := uuid.New()

	_, err := svc.Create(context.Background(), userID, CreateTaskInput{
		Title:  "Someday",
		Status: statusPtr(models.TaskStatusBackburner),
	})

	appErr := assertAppCode(t, err, "VALIDATION_ERROR")
	if appErr.Message != backburnerDateMessage {
		t.Errorf("unexpected message: %s", appErr.Message)
	}

	// With either date supplied the same create succeeds.
	due := time.Now().Add(24 * time.Hour)
	if _, err := svc.Create(context.Background(), userID, CreateTaskInput{
		Title:   "Someday",
		Status:  statusPtr(models.TaskStatusBackburner),
		DueDate: timePtr(due),
	}); err != nil {
		t.Fatalf("create with due date: %v", err)
	}
}

func TestCreateCompletedStampsCompletedAt(t *testing.T) {
	svc, _, _ := newTaskFixture()

	task, err := svc.Create(context.Background(), uuid.New(), CreateTaskInput{
		Title:  "Already done",
		Status: statusPtr(models.TaskStatusCompleted),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if task.CompletedAt == nil {
		t.Fatal("completedAt should be stamped at creation for a completed task")
	}
}

func TestCreateInvalidCategoryIsValidationError(t *testing.T) {
	svc, _, _ := newTaskFixture()

	_, err := svc.Create(context.Background(), uuid.New(), CreateTaskInput{
		Title:      "Misfiled",
		CategoryID: &uuid.UUID{},
	})

	appErr := assertAppCode(t, err, "VALIDATION_ERROR")
	if appErr.Message != "Invalid category" {
		t.Errorf("unexpected message: %s", appErr.Message)
	}
}

func TestCreateCrossOwnerParentIsNotFound(t *testing.T) {
	svc, _, _ := newTaskFixture()
	owner := uuid.New()
	intruder := uuid.New()

	parent, err := svc.Create(context.Background(), owner, CreateTaskInput{Title: "Parent"})
	if err != nil {
		t.Fatalf("create parent: %v", err)
	}

	_, err = svc.Create(context.Background(), intruder, CreateTaskInput{
		Title:        "Sub",
		ParentTaskID: &parent.ID,
	})

	assertAppCode(t, err, "NOT_FOUND")
}

func TestUpdateStatusTransitionsMaintainCompletedAt(t *testing.T) {
	svc, _, _ := newTaskFixture()
	userID := uuid.New()

	task, err := svc.Create(context.Background(), userID, CreateTaskInput{Title: "Cycle"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	task, err = svc.Update(context.Background(), userID, task.ID, UpdateTaskInput{
		Status: statusPtr(models.TaskStatusCompleted),
	})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if task.CompletedAt == nil {
		t.Fatal("completedAt should be stamped on transition to COMPLETED")
	}

	task, err = svc.Update(context.Background(), userID, task.ID, UpdateTaskInput{
		Status: statusPtr(models.TaskStatusInProgress),
	})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if task.CompletedAt != nil {
		t.Fatal("completedAt should be cleared on transition away from COMPLETED")
	}
}

func TestUpdateToBackburnerUsesStoredDates(t *testing.T) {
	svc, _, _ := newTaskFixture()
	userID := uuid.New()
	due := time.Now().Add(48 * time.Hour)

	task, err := svc.Create(context.Background(), userID, CreateTaskInput{
		Title:   "Defer me",
		DueDate: timePtr(due),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// No date in the update itself; the stored due date satisfies the rule.
	task, err = svc.Update(context.Background(), userID, task.ID, UpdateTaskInput{
		Status: statusPtr(models.TaskStatusBackburner),
	})
	if err != nil {
		t.Fatalf("defer: %v", err)
	}
	if task.Status != models.TaskStatusBackburner {
		t.Fatalf("expected BACKBURNER, got %s", task.Status)
	}
}

func TestUpdateToBackburnerWithoutAnyDateRejected(t *testing.T) {
	svc, _, _ := newTaskFixture()
	userID := uuid.New()

	task, err := svc.Create(context.Background(), userID, CreateTaskInput{Title: "No dates"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = svc.Update(context.Background(), userID, task.ID, UpdateTaskInput{
		Status: statusPtr(models.TaskStatusBackburner),
	})

	appErr := assertAppCode(t, err, "VALIDATION_ERROR")
	if appErr.Message != backburnerDateMessage {
		t.Errorf("unexpected message: %s", appErr.Message)
	}
}

func TestClearingDatesOnBackburnerTaskRejected(t *testing.T) {
	svc, _, _ := newTaskFixture()
	userID := uuid.New()
	due := time.Now().Add(72 * time.Hour)

	task, err := svc.Create(context.Background(), userID, CreateTaskInput{
		Title:   "Deferred",
		Status:  statusPtr(models.TaskStatusBackburner),
		DueDate: timePtr(due),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Nulling out the only date while the task stays BACKBURNER breaks the
	// invariant and must be rejected.
	_, err = svc.Update(context.Background(), userID, task.ID, UpdateTaskInput{
		DueDate: nullTime(),
	})

	assertAppCode(t, err, "VALIDATION_ERROR")
}

func TestUpdatePartialMergeAndExplicitNull(t *testing.T) {
	svc, _, _ := newTaskFixture()
	userID := uuid.New()
	due := time.Now().Add(24 * time.Hour)

	task, err := svc.Create(context.Background(), userID, CreateTaskInput{
		Title:       "Original",
		Description: strPtr("keep me"),
		DueDate:     timePtr(due),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	task, err = svc.Update(context.Background(), userID, task.ID, UpdateTaskInput{
		Title:   strPtr("Renamed"),
		DueDate: nullTime(),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if task.Title != "Renamed" {
		t.Errorf("title not updated: %s", task.Title)
	}
	if task.Description == nil || *task.Description != "keep me" {
		t.Error("omitted description should be untouched")
	}
	if task.DueDate != nil {
		t.Error("explicit null should clear dueDate")
	}
}

func TestOwnershipViolationsLookLikeMissingRows(t *testing.T) {
	svc, _, _ := newTaskFixture()
	owner := uuid.New()
	intruder := uuid.New()

	task, err := svc.Create(context.Background(), owner, CreateTaskInput{Title: "Private"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Get(context.Background(), intruder, task.ID); err == nil {
		t.Fatal("expected error")
	} else {
		assertAppCode(t, err, "NOT_FOUND")
	}

	_, err = svc.Update(context.Background(), intruder, task.ID, UpdateTaskInput{Title: strPtr("Taken")})
	assertAppCode(t, err, "NOT_FOUND")

	err = svc.Delete(context.Background(), intruder, task.ID)
	assertAppCode(t, err, "NOT_FOUND")

	// The owner still sees the task untouched.
	got, err := svc.Get(context.Background(), owner, task.ID)
	if err != nil {
		t.Fatalf("owner get: %v", err)
	}
	if got.Title != "Private" {
		t.Errorf("task was modified: %s", got.Title)
	}
}

func TestParentCycleRejected(t *testing.T) {
	svc, _, _ := newTaskFixture()
	userID := uuid.New()

	grandparent, err := svc.Create(context.Background(), userID, CreateTaskInput{Title: "Top"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	parent, err := svc.Create(context.Background(), userID, CreateTaskInput{
		Title:        "Middle",
		ParentTaskID: &grandparent.ID,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Re-parenting the top of the chain under its own descendant would form
	// a cycle.
	_, err = svc.Update(context.Background(), userID, grandparent.ID, UpdateTaskInput{
		ParentTaskID: types.Optional[uuid.UUID]{Set: true, Valid: true, Value: parent.ID},
	})
	assertAppCode(t, err, "VALIDATION_ERROR")

	// Self-parenting is the degenerate cycle.
	_, err = svc.Update(context.Background(), userID, parent.ID, UpdateTaskInput{
		ParentTaskID: types.Optional[uuid.UUID]{Set: true, Valid: true, Value: parent.ID},
	})
	assertAppCode(t, err, "VALIDATION_ERROR")
}

func TestDeleteCompletedReportsCount(t *testing.T) {
	svc, _, _ := newTaskFixture()
	userID := uuid.New()
	other := uuid.New()

	for i := 0; i < 3; i++ {
		if _, err := svc.Create(context.Background(), userID, CreateTaskInput{
			Title:  "Done",
			Status: statusPtr(models.TaskStatusCompleted),
		}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if _, err := svc.Create(context.Background(), userID, CreateTaskInput{Title: "Open"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(context.Background(), other, CreateTaskInput{
		Title:  "Someone else's",
		Status: statusPtr(models.TaskStatusCompleted),
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	count, err := svc.DeleteCompleted(context.Background(), userID)
	if err != nil {
		t.Fatalf("bulk delete: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 removed, got %d", count)
	}
}

func TestTaskStats(t *testing.T) {
	svc, _, _ := newTaskFixture()
	userID := uuid.New()
	past := time.Now().Add(-24 * time.Hour)

	inputs := []CreateTaskInput{
		{Title: "a", Status: statusPtr(models.TaskStatusCompleted)},
		{Title: "b", Status: statusPtr(models.TaskStatusCompleted)},
		{Title: "c", Status: statusPtr(models.TaskStatusInProgress)},
		{Title: "d", DueDate: timePtr(past)},
	}
	for _, input := range inputs {
		if _, err := svc.Create(context.Background(), userID, input); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	stats, err := svc.Stats(context.Background(), userID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}

	if stats.Total != 4 || stats.Completed != 2 || stats.InProgress != 1 || stats.Pending != 1 {
		t.Fatalf("unexpected counts: %+v", stats)
	}
	if stats.Overdue != 1 {
		t.Errorf("expected 1 overdue, got %d", stats.Overdue)
	}
	if stats.CompletionRate != 50 {
		t.Errorf("expected completion rate 50, got %d", stats.CompletionRate)
	}
}

func TestListPaginationMetadata(t *testing.T) {
	svc, _, _ := newTaskFixture()
	userID := uuid.New()

	for i := 0; i < 120; i++ {
		if _, err := svc.Create(context.Background(), userID, CreateTaskInput{Title: "t"}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	first, err := svc.List(context.Background(), userID, types.TaskFilters{}, 1, 50, types.Sort{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	p := first.Pagination
	if p.TotalPages != 3 || !p.HasNext || p.HasPrev {
		t.Fatalf("page 1: %+v", p)
	}

	last, err := svc.List(context.Background(), userID, types.TaskFilters{}, 3, 50, types.Sort{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	p = last.Pagination
	if p.HasNext || !p.HasPrev {
		t.Fatalf("page 3: %+v", p)
	}
	if len(last.Data) != 20 {
		t.Errorf("expected 20 rows on the last page, got %d", len(last.Data))
	}

	// Out-of-range limits are clamped.
	clamped, err := svc.List(context.Background(), userID, types.TaskFilters{}, 0, 1000, types.Sort{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if clamped.Pagination.Page != 1 || clamped.Pagination.Limit != types.MaxLimit {
		t.Fatalf("clamping failed: %+v", clamped.Pagination)
	}
}
