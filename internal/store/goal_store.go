package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/taskflow-dev/taskflow/internal/models"
	"github.com/taskflow-dev/taskflow/internal/types"
	"gorm.io/gorm"
)

// GoalStore handles persistence for goals.
type GoalStore struct {
	db *gorm.DB
}

func NewGoalStore(db *gorm.DB) *GoalStore {
	return &GoalStore{db: db}
}

func (s *GoalStore) Create(ctx context.Context, goal *models.Goal) error {
	if err := s.db.WithContext(ctx).Create(goal).Error; err != nil {
		return fmt.Errorf("create goal: %w", err)
	}
	return nil
}

// FindOwned is the ownership guard lookup without associations.
func (s *GoalStore) FindOwned(ctx context.Context, userID, id uuid.UUID) (*models.Goal, error) {
	var goal models.Goal
	if err := s.db.WithContext(ctx).Scopes(OwnedBy(userID)).
		Where("id = ?", id).
		First(&goal).Error; err != nil {
		return nil, err
	}
	return &goal, nil
}

// FindOwnedDetailed loads a goal with two levels of subgoals.
func (s *GoalStore) FindOwnedDetailed(ctx context.Context, userID, id uuid.UUID) (*models.Goal, error) {
	var goal models.Goal
	if err := s.db.WithContext(ctx).Scopes(OwnedBy(userID)).
		Where("id = ?", id).
		Preload("Subgoals").
		Preload("Subgoals.Subgoals").
		First(&goal).Error; err != nil {
		return nil, err
	}
	return &goal, nil
}

func (s *GoalStore) List(ctx context.Context, userID uuid.UUID, filters types.GoalFilters) ([]models.Goal, error) {
	query := s.db.WithContext(ctx).Scopes(
		OwnedBy(userID),
		WithParent("parent_goal_id", filters.ParentGoalID),
	)

	if filters.Category != "" {
		query = query.Where("category = ?", filters.Category)
	}

	if filters.IsCompleted != nil {
		query = query.Where("is_completed = ?", *filters.IsCompleted)
	}

	var goals []models.Goal
	if err := query.
		Order("created_at DESC").
		Preload("Subgoals").
		Preload("Subgoals.Subgoals").
		Find(&goals).Error; err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}

	return goals, nil
}

func (s *GoalStore) Update(ctx context.Context, goal *models.Goal) error {
	if err := s.db.WithContext(ctx).Save(goal).Error; err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	return nil
}

// Delete removes a goal; the store-level cascade takes its subgoals with it.
func (s *GoalStore) Delete(ctx context.Context, goal *models.Goal) error {
	if err := s.db.WithContext(ctx).Delete(goal).Error; err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	return nil
}

func (s *GoalStore) Count(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Goal{}).Scopes(OwnedBy(userID)).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count goals: %w", err)
	}
	return count, nil
}

func (s *GoalStore) CountCompleted(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Goal{}).Scopes(OwnedBy(userID)).
		Where("is_completed = ?", true).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count completed goals: %w", err)
	}
	return count, nil
}

// AverageProgress returns the mean progress over the user's incomplete goals,
// 0 when there are none.
func (s *GoalStore) AverageProgress(ctx context.Context, userID uuid.UUID) (float64, error) {
	var average float64
	if err := s.db.WithContext(ctx).Model(&models.Goal{}).Scopes(OwnedBy(userID)).
		Where("is_completed = ?", false).
		Select("COALESCE(AVG(progress_percentage), 0)").
		Scan(&average).Error; err != nil {
		return 0, fmt.Errorf("average goal progress: %w", err)
	}
	return average, nil
}
