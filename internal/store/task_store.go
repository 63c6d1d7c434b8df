package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/taskflow-dev/taskflow/internal/models"
	"github.com/taskflow-dev/taskflow/internal/types"
	"gorm.io/gorm"
)

// TaskStore handles persistence for tasks.
type TaskStore struct {
	db *gorm.DB
}

func NewTaskStore(db *gorm.DB) *TaskStore {
	return &TaskStore{db: db}
}

func (s *TaskStore) Create(ctx context.Context, task *models.Task) error {
	if err := s.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// FindOwned is the ownership guard lookup without associations.
func (s *TaskStore) FindOwned(ctx context.Context, userID, id uuid.UUID) (*models.Task, error) {
	var task models.Task
	if err := s.db.WithContext(ctx).Scopes(OwnedBy(userID)).
		Where("id = ?", id).
		First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// FindOwnedDetailed loads a task with its category and subtasks, the shape
// single-task responses use.
func (s *TaskStore) FindOwnedDetailed(ctx context.Context, userID, id uuid.UUID) (*models.Task, error) {
	var task models.Task
	if err := s.db.WithContext(ctx).Scopes(OwnedBy(userID)).
		Where("id = ?", id).
		Preload("Category").
		Preload("Subtasks").
		Preload("Subtasks.Category").
		First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// List applies the filter set, counts the total and returns one page.
func (s *TaskStore) List(ctx context.Context, userID uuid.UUID, filters types.TaskFilters, page, limit int, sort types.Sort) ([]models.Task, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Task{}).Scopes(
		OwnedBy(userID),
		InStatuses(filters.Statuses),
		InPriorities(filters.Priorities),
		MatchesSearch(filters.Search),
		DueOn(filters.DueDate),
		HasAllTags(filters.Tags),
		WithParent("parent_task_id", filters.ParentTaskID),
	)

	if filters.CategoryID != "" {
		query = query.Where("category_id = ?", filters.CategoryID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	var tasks []models.Task
	if err := query.
		Order(OrderClause(sort)).
		Offset((page - 1) * limit).
		Limit(limit).
		Preload("Category").
		Preload("Subtasks").
		Preload("Subtasks.Category").
		Find(&tasks).Error; err != nil {
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}

	return tasks, total, nil
}

func (s *TaskStore) Update(ctx context.Context, task *models.Task) error {
	if err := s.db.WithContext(ctx).Save(task).Error; err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return nil
}

// Delete removes a task; the store-level cascade takes its subtasks with it.
func (s *TaskStore) Delete(ctx context.Context, task *models.Task) error {
	if err := s.db.WithContext(ctx).Delete(task).Error; err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// DeleteCompleted removes every completed task of the user and reports how
// many rows went away.
func (s *TaskStore) DeleteCompleted(ctx context.Context, userID uuid.UUID) (int64, error) {
	result := s.db.WithContext(ctx).Scopes(OwnedBy(userID)).
		Where("status = ?", models.TaskStatusCompleted).
		Delete(&models.Task{})
	if result.Error != nil {
		return 0, fmt.Errorf("delete completed tasks: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// CountByStatus groups the user's tasks by status.
func (s *TaskStore) CountByStatus(ctx context.Context, userID uuid.UUID) (map[models.TaskStatus]int64, error) {
	var rows []struct {
		Status models.TaskStatus
		Count  int64
	}

	if err := s.db.WithContext(ctx).Model(&models.Task{}).Scopes(OwnedBy(userID)).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("count tasks by status: %w", err)
	}

	counts := make(map[models.TaskStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}

	return counts, nil
}

// CountOverdue counts tasks past their due date that are not completed.
func (s *TaskStore) CountOverdue(ctx context.Context, userID uuid.UUID, now time.Time) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Task{}).Scopes(OwnedBy(userID)).
		Where("due_date < ? AND status <> ?", now, models.TaskStatusCompleted).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count overdue tasks: %w", err)
	}
	return count, nil
}
