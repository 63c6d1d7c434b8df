package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/taskflow-dev/taskflow/internal/models"
	"github.com/taskflow-dev/taskflow/internal/types"
	"gorm.io/gorm"
)

// In-memory stand-ins for the store layer. They emulate the ownership-scoped
// lookups (a miss and another user's row are both ErrRecordNotFound) and the
// store-level cascade deletes.

type fakeTaskStore struct {
	tasks map[uuid.UUID]*models.Task
}

func newFakeTaskStore() *fakeTaskStore {
	return &fakeTaskStore{tasks: make(map[uuid.UUID]*models.Task)}
}

func (f *fakeTaskStore) Create(_ context.Context, task *models.Task) error {
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	task.CreatedAt = time.Now()
	task.UpdatedAt = task.CreatedAt
	stored := *task
	f.tasks[task.ID] = &stored
	return nil
}

func (f *fakeTaskStore) FindOwned(_ context.Context, userID, id uuid.UUID) (*models.Task, error) {
	task, ok := f.tasks[id]
	if !ok || task.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	found := *task
	return &found, nil
}

func (f *fakeTaskStore) FindOwnedDetailed(ctx context.Context, userID, id uuid.UUID) (*models.Task, error) {
	return f.FindOwned(ctx, userID, id)
}

func (f *fakeTaskStore) List(_ context.Context, userID uuid.UUID, _ types.TaskFilters, page, limit int, _ types.Sort) ([]models.Task, int64, error) {
	var all []models.Task
	for _, task := range f.tasks {
		if task.UserID == userID {
			all = append(all, *task)
		}
	}

	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := int64(len(all))
	start := (page - 1) * limit
	if start > len(all) {
		start = len(all)
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}

	return all[start:end], total, nil
}

func (f *fakeTaskStore) Update(_ context.Context, task *models.Task) error {
	task.UpdatedAt = time.Now()
	stored := *task
	f.tasks[task.ID] = &stored
	return nil
}

func (f *fakeTaskStore) Delete(_ context.Context, task *models.Task) error {
	delete(f.tasks, task.ID)
	for id, other := range f.tasks {
		if other.ParentTaskID != nil && *other.ParentTaskID == task.ID {
			delete(f.tasks, id)
		}
	}
	return nil
}

func (f *fakeTaskStore) DeleteCompleted(_ context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	for id, task := range f.tasks {
		if task.UserID == userID && task.Status == models.TaskStatusCompleted {
			delete(f.tasks, id)
			count++
		}
	}
	return count, nil
}

func (f *fakeTaskStore) CountByStatus(_ context.Context, userID uuid.UUID) (map[models.TaskStatus]int64, error) {
	counts := make(map[models.TaskStatus]int64)
	for _, task := range f.tasks {
		if task.UserID == userID {
			counts[task.Status]++
		}
	}
	return counts, nil
}

func (f *fakeTaskStore) CountOverdue(_ context.Context, userID uuid.UUID, now time.Time) (int64, error) {
	var count int64
	for _, task := range f.tasks {
		if task.UserID == userID && task.DueDate != nil && task.DueDate.Before(now) &&
			task.Status != models.TaskStatusCompleted {
			count++
		}
	}
	return count, nil
}

type fakeCategoryStore struct {
	categories map[uuid.UUID]*models.Category
	tasks      *fakeTaskStore
}

func newFakeCategoryStore(tasks *fakeTaskStore) *fakeCategoryStore {
	return &fakeCategoryStore{categories: make(map[uuid.UUID]*models.Category), tasks: tasks}
}

func (f *fakeCategoryStore) Create(_ context.Context, category *models.Category) error {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	stored := *category
	f.categories[category.ID] = &stored
	return nil
}

func (f *fakeCategoryStore) FindOwned(_ context.Context, userID, id uuid.UUID) (*models.Category, error) {
	category, ok := f.categories[id]
	if !ok || category.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	found := *category
	return &found, nil
}

func (f *fakeCategoryStore) FindOwnedByName(_ context.Context, userID uuid.UUID, name string) (*models.Category, error) {
	for _, category := range f.categories {
		if category.UserID == userID && category.Name == name {
			found := *category
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCategoryStore) List(_ context.Context, userID uuid.UUID) ([]models.Category, error) {
	var all []models.Category
	for _, category := range f.categories {
		if category.UserID == userID {
			all = append(all, *category)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].IsFavorite != all[j].IsFavorite {
			return all[i].IsFavorite
		}
		return all[i].Name < all[j].Name
	})
	return all, nil
}

func (f *fakeCategoryStore) Update(_ context.Context, category *models.Category) error {
	stored := *category
	f.categories[category.ID] = &stored
	return nil
}

func (f *fakeCategoryStore) CountTasks(_ context.Context, categoryID uuid.UUID) (int64, error) {
	var count int64
	for _, task := range f.tasks.tasks {
		if task.CategoryID != nil && *task.CategoryID == categoryID {
			count++
		}
	}
	return count, nil
}

func (f *fakeCategoryStore) DeleteReassigning(_ context.Context, category *models.Category) (int64, error) {
	var reassigned int64
	for _, task := range f.tasks.tasks {
		if task.CategoryID != nil && *task.CategoryID == category.ID {
			task.CategoryID = nil
			reassigned++
		}
	}
	delete(f.categories, category.ID)
	return reassigned, nil
}

type fakeGoalStore struct {
	goals map[uuid.UUID]*models.Goal
}

func newFakeGoalStore() *fakeGoalStore {
	return &fakeGoalStore{goals: make(map[uuid.UUID]*models.Goal)}
}

func (f *fakeGoalStore) Create(_ context.Context, goal *models.Goal) error {
	if goal.ID == uuid.Nil {
		goal.ID = uuid.New()
	}
	goal.CreatedAt = time.Now()
	stored := *goal
	f.goals[goal.ID] = &stored
	return nil
}

func (f *fakeGoalStore) FindOwned(_ context.Context, userID, id uuid.UUID) (*models.Goal, error) {
	goal, ok := f.goals[id]
	if !ok || goal.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	found := *goal
	return &found, nil
}

func (f *fakeGoalStore) FindOwnedDetailed(ctx context.Context, userID, id uuid.UUID) (*models.Goal, error) {
	return f.FindOwned(ctx, userID, id)
}

func (f *fakeGoalStore) List(_ context.Context, userID uuid.UUID, filters types.GoalFilters) ([]models.Goal, error) {
	var all []models.Goal
	for _, goal := range f.goals {
		if goal.UserID != userID {
			continue
		}
		if filters.Category != "" && string(goal.Category) != filters.Category {
			continue
		}
		if filters.IsCompleted != nil && goal.IsCompleted != *filters.IsCompleted {
			continue
		}
		all = append(all, *goal)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return all, nil
}

func (f *fakeGoalStore) Update(_ context.Context, goal *models.Goal) error {
	stored := *goal
	f.goals[goal.ID] = &stored
	return nil
}

func (f *fakeGoalStore) Delete(_ context.Context, goal *models.Goal) error {
	delete(f.goals, goal.ID)
	for id, other := range f.goals {
		if other.ParentGoalID != nil && *other.ParentGoalID == goal.ID {
			delete(f.goals, id)
		}
	}
	return nil
}

func (f *fakeGoalStore) Count(_ context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	for _, goal := range f.goals {
		if goal.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (f *fakeGoalStore) CountCompleted(_ context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	for _, goal := range f.goals {
		if goal.UserID == userID && goal.IsCompleted {
			count++
		}
	}
	return count, nil
}

func (f *fakeGoalStore) AverageProgress(_ context.Context, userID uuid.UUID) (float64, error) {
	var sum, count float64
	for _, goal := range f.goals {
		if goal.UserID == userID && !goal.IsCompleted {
			sum += float64(goal.ProgressPercentage)
			count++
		}
	}
	if count == 0 {
		return 0, nil
	}
	return sum / count, nil
}
