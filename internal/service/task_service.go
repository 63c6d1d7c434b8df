package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/taskflow-dev/taskflow/internal/apperrors"
	"github.com/taskflow-dev/taskflow/internal/models"
	"github.com/taskflow-dev/taskflow/internal/types"
	"gorm.io/gorm"
)

const backburnerDateMessage = "Backburner tasks must have either a due date or backburner date assigned"

// maxParentDepth bounds the ancestor walk of the cycle guard.
const maxParentDepth = 100

const maxHours = 999.99

// TaskStore is the entity store contract the task service depends on.
type TaskStore interface {
	Create(ctx context.Context, task *models.Task) error
	FindOwned(ctx context.Context, userID, id uuid.UUID) (*models.Task, error)
	FindOwnedDetailed(ctx context.Context, userID, id uuid.UUID) (*models.Task, error)
	List(ctx context.Context, userID uuid.UUID, filters types.TaskFilters, page, limit int, sort types.Sort) ([]models.Task, int64, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, task *models.Task) error
	DeleteCompleted(ctx context.Context, userID uuid.UUID) (int64, error)
	CountByStatus(ctx context.Context, userID uuid.UUID) (map[models.TaskStatus]int64, error)
	CountOverdue(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error)
}

// CategoryReader is the slice of the category store task operations need for
// reference checks.
type CategoryReader interface {
	FindOwned(ctx context.Context, userID, id uuid.UUID) (*models.Category, error)
}

type CreateTaskInput struct {
	Title          string             `json:"title" binding:"required,max=500"`
	Description    *string            `json:"description"`
	Status         *models.TaskStatus `json:"status"`
	Priority       *models.Priority   `json:"priority"`
	DueDate        *time.Time         `json:"dueDate"`
	BackburnerDate *time.Time         `json:"backburnerDate"`
	CategoryID     *uuid.UUID         `json:"categoryId"`
	Tags           []string           `json:"tags"`
	ParentTaskID   *uuid.UUID         `json:"parentTaskId"`
	EstimatedHours *float64           `json:"estimatedHours"`
}

// UpdateTaskInput is a partial update: absent fields are untouched, fields
// explicitly set to null clear the stored value.
type UpdateTaskInput struct {
	Title          *string                    `json:"title" binding:"omitempty,min=1,max=500"`
	Description    types.Optional[string]     `json:"description"`
	Status         *models.TaskStatus         `json:"status"`
	Priority       *models.Priority           `json:"priority"`
	DueDate        types.Optional[time.Time]  `json:"dueDate"`
	BackburnerDate types.Optional[time.Time]  `json:"backburnerDate"`
	CategoryID     types.Optional[uuid.UUID]  `json:"categoryId"`
	ParentTaskID   types.Optional[uuid.UUID]  `json:"parentTaskId"`
	Tags           []string                   `json:"tags"`
	EstimatedHours types.Optional[float64]    `json:"estimatedHours"`
	ActualHours    types.Optional[float64]    `json:"actualHours"`
	Position       *int                       `json:"position"`
}

// TaskService implements the task lifecycle rules: defaults, the backburner
// date invariant, completedAt maintenance, reference ownership checks,
// filtering and statistics.
type TaskService struct {
	tasks      TaskStore
	categories CategoryReader
}

func NewTaskService(tasks TaskStore, categories CategoryReader) *TaskService {
	return &TaskService{tasks: tasks, categories: categories}
}

func (s *TaskService) Create(ctx context.Context, userID uuid.UUID, input CreateTaskInput) (*models.Task, error) {
	status := models.TaskStatusPending
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, apperrors.Validation("Invalid task data", "status: invalid value")
		}
		status = *input.Status
	}

	priority := models.PriorityMedium
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, apperrors.Validation("Invalid task data", "priority: invalid value")
		}
		priority = *input.Priority
	}

	if err := validateHours(input.EstimatedHours); err != nil {
		return nil, err
	}

	if status == models.TaskStatusBackburner && input.DueDate == nil && input.BackburnerDate == nil {
		return nil, apperrors.Validation(backburnerDateMessage)
	}

	if input.CategoryID != nil {
		if err := s.checkCategory(ctx, userID, *input.CategoryID); err != nil {
			return nil, err
		}
	}

	if input.ParentTaskID != nil {
		if _, err := s.guardTask(ctx, userID, *input.ParentTaskID); err != nil {
			return nil, err
		}
	}

	task := &models.Task{
		Title:          input.Title,
		Description:    input.Description,
		Status:         status,
		Priority:       priority,
		DueDate:        input.DueDate,
		BackburnerDate: input.BackburnerDate,
		CategoryID:     input.CategoryID,
		ParentTaskID:   input.ParentTaskID,
		Tags:           input.Tags,
		EstimatedHours: input.EstimatedHours,
		UserID:         userID,
	}

	if status == models.TaskStatusCompleted {
		now := time.Now()
		task.CompletedAt = &now
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}

	return s.tasks.FindOwnedDetailed(ctx, userID, task.ID)
}

func (s *TaskService) Get(ctx context.Context, userID, id uuid.UUID) (*models.Task, error) {
	task, err := s.tasks.FindOwnedDetailed(ctx, userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Task not found")
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return task, nil
}

func (s *TaskService) List(ctx context.Context, userID uuid.UUID, filters types.TaskFilters, page, limit int, sort types.Sort) (*types.Paginated[models.Task], error) {
	page = types.ClampPage(page)
	limit = types.ClampLimit(limit)

	tasks, total, err := s.tasks.List(ctx, userID, filters, page, limit, sort)
	if err != nil {
		return nil, err
	}

	if tasks == nil {
		tasks = []models.Task{}
	}

	return &types.Paginated[models.Task]{
		Data:       tasks,
		Pagination: types.NewPagination(page, limit, total),
	}, nil
}

func (s *TaskService) Update(ctx context.Context, userID, id uuid.UUID, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.guardTask(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if input.Status != nil && !input.Status.Valid() {
		return nil, apperrors.Validation("Invalid task data", "status: invalid value")
	}

	if input.Priority != nil && !input.Priority.Valid() {
		return nil, apperrors.Validation("Invalid task data", "priority: invalid value")
	}

	if err := validateHours(input.EstimatedHours.Ptr()); err != nil {
		return nil, err
	}

	if err := validateHours(input.ActualHours.Ptr()); err != nil {
		return nil, err
	}

	// The backburner invariant is checked against the effective dates: the
	// value supplied in this update when present, the stored value otherwise.
	statusAfter := task.Status
	if input.Status != nil {
		statusAfter = *input.Status
	}

	if statusAfter == models.TaskStatusBackburner {
		dueAfter := task.DueDate
		if input.DueDate.Set {
			dueAfter = input.DueDate.Ptr()
		}

		backburnerAfter := task.BackburnerDate
		if input.BackburnerDate.Set {
			backburnerAfter = input.BackburnerDate.Ptr()
		}

		if dueAfter == nil && backburnerAfter == nil {
			return nil, apperrors.Validation(backburnerDateMessage)
		}
	}

	if input.CategoryID.Set {
		if input.CategoryID.Valid {
			if err := s.checkCategory(ctx, userID, input.CategoryID.Value); err != nil {
				return nil, err
			}
		}
		task.CategoryID = input.CategoryID.Ptr()
	}

	if input.ParentTaskID.Set {
		if input.ParentTaskID.Valid {
			if _, err := s.guardTask(ctx, userID, input.ParentTaskID.Value); err != nil {
				return nil, err
			}
			if err := s.checkParentCycle(ctx, userID, task.ID, input.ParentTaskID.Value); err != nil {
				return nil, err
			}
		}
		task.ParentTaskID = input.ParentTaskID.Ptr()
	}

	if input.Title != nil {
		task.Title = *input.Title
	}

	if input.Description.Set {
		task.Description = input.Description.Ptr()
	}

	if input.Priority != nil {
		task.Priority = *input.Priority
	}

	if input.DueDate.Set {
		task.DueDate = input.DueDate.Ptr()
	}

	if input.BackburnerDate.Set {
		task.BackburnerDate = input.BackburnerDate.Ptr()
	}

	if input.Tags != nil {
		task.Tags = input.Tags
	}

	if input.EstimatedHours.Set {
		task.EstimatedHours = input.EstimatedHours.Ptr()
	}

	if input.ActualHours.Set {
		task.ActualHours = input.ActualHours.Ptr()
	}

	if input.Position != nil {
		task.Position = *input.Position
	}

	if input.Status != nil {
		task.Status = *input.Status

		if *input.Status == models.TaskStatusCompleted {
			now := time.Now()
			task.CompletedAt = &now
		} else {
			task.CompletedAt = nil
		}
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	return s.tasks.FindOwnedDetailed(ctx, userID, task.ID)
}

// Delete removes a task after the ownership check; subtasks go with it via
// the store-level cascade.
func (s *TaskService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	task, err := s.guardTask(ctx, userID, id)
	if err != nil {
		return err
	}
	return s.tasks.Delete(ctx, task)
}

// DeleteCompleted removes all of the user's completed tasks and returns the
// count removed.
func (s *TaskService) DeleteCompleted(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.tasks.DeleteCompleted(ctx, userID)
}

func (s *TaskService) Stats(ctx context.Context, userID uuid.UUID) (*types.TaskStats, error) {
	counts, err := s.tasks.CountByStatus(ctx, userID)
	if err != nil {
		return nil, err
	}

	overdue, err := s.tasks.CountOverdue(ctx, userID, time.Now())
	if err != nil {
		return nil, err
	}

	stats := &types.TaskStats{
		Pending:    counts[models.TaskStatusPending],
		InProgress: counts[models.TaskStatusInProgress],
		Completed:  counts[models.TaskStatusCompleted],
		Backburner: counts[models.TaskStatusBackburner],
		Overdue:    overdue,
	}

	stats.Total = stats.Pending + stats.InProgress + stats.Completed + stats.Backburner
	stats.CompletionRate = completionRate(stats.Completed, stats.Total)

	return stats, nil
}

// guardTask is the ownership guard: a missing row and another user's row are
// both reported as NotFound.
func (s *TaskService) guardTask(ctx context.Context, userID, id uuid.UUID) (*models.Task, error) {
	task, err := s.tasks.FindOwned(ctx, userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Task not found")
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	return task, nil
}

// checkCategory verifies a category reference. Failures are validation
// errors, not 404s: the id may be malformed or point anywhere.
func (s *TaskService) checkCategory(ctx context.Context, userID, categoryID uuid.UUID) error {
	if _, err := s.categories.FindOwned(ctx, userID, categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.Validation("Invalid category")
		}
		return fmt.Errorf("find category: %w", err)
	}
	return nil
}

// checkParentCycle walks the parent chain and rejects assignments that would
// make a task its own ancestor.
func (s *TaskService) checkParentCycle(ctx context.Context, userID, taskID, parentID uuid.UUID) error {
	current := parentID

	for depth := 0; depth < maxParentDepth; depth++ {
		if current == taskID {
			return apperrors.Validation("A task cannot be its own parent or ancestor")
		}

		parent, err := s.tasks.FindOwned(ctx, userID, current)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return fmt.Errorf("walk parent chain: %w", err)
		}

		if parent.ParentTaskID == nil {
			return nil
		}
		current = *parent.ParentTaskID
	}

	return apperrors.Validation("Task hierarchy is too deep")
}

func validateHours(hours *float64) error {
	if hours == nil {
		return nil
	}
	if *hours < 0 || *hours > maxHours {
		return apperrors.Validation("Invalid task data", fmt.Sprintf("hours must be between 0 and %.2f", maxHours))
	}
	return nil
}

func completionRate(completed, total int64) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}
