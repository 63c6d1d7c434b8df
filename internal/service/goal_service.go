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

// GoalStore is the entity store contract the goal service depends on.
type GoalStore interface {
	Create(ctx context.Context, goal *models.Goal) error
	FindOwned(ctx context.Context, userID, id uuid.UUID) (*models.Goal, error)
	FindOwnedDetailed(ctx context.Context, userID, id uuid.UUID) (*models.Goal, error)
	List(ctx context.Context, userID uuid.UUID, filters types.GoalFilters) ([]models.Goal, error)
	Update(ctx context.Context, goal *models.Goal) error
	Delete(ctx context.Context, goal *models.Goal) error
	Count(ctx context.Context, userID uuid.UUID) (int64, error)
	CountCompleted(ctx context.Context, userID uuid.UUID) (int64, error)
	AverageProgress(ctx context.Context, userID uuid.UUID) (float64, error)
}

type CreateGoalInput struct {
	Title        string               `json:"title" binding:"required,max=500"`
	Description  *string              `json:"description"`
	Category     *models.GoalCategory `json:"category"`
	TargetDate   *time.Time           `json:"targetDate"`
	ParentGoalID *uuid.UUID           `json:"parentGoalId"`
}

type UpdateGoalInput struct {
	Title              *string                   `json:"title" binding:"omitempty,min=1,max=500"`
	Description        *string                   `json:"description"`
	Category           *models.GoalCategory      `json:"category"`
	TargetDate         types.Optional[time.Time] `json:"targetDate"`
	ProgressPercentage *int                      `json:"progressPercentage"`
	IsCompleted        *bool                     `json:"isCompleted"`
	ParentGoalID       types.Optional[uuid.UUID] `json:"parentGoalId"`
}

// GoalService implements the goal lifecycle: category default, parent
// ownership, partial merge with the auto-complete rule, statistics.
type GoalService struct {
	goals GoalStore
}

func NewGoalService(goals GoalStore) *GoalService {
	return &GoalService{goals: goals}
}

func (s *GoalService) Create(ctx context.Context, userID uuid.UUID, input CreateGoalInput) (*models.Goal, error) {
	category := models.GoalCategoryOther
	if input.Category != nil {
		if !input.Category.Valid() {
			return nil, apperrors.Validation("Invalid goal data", "category: invalid value")
		}
		category = *input.Category
	}

	if input.ParentGoalID != nil {
		if _, err := s.guardGoal(ctx, userID, *input.ParentGoalID); err != nil {
			return nil, err
		}
	}

	goal := &models.Goal{
		Title:        input.Title,
		Description:  input.Description,
		Category:     category,
		TargetDate:   input.TargetDate,
		ParentGoalID: input.ParentGoalID,
		UserID:       userID,
	}

	if err := s.goals.Create(ctx, goal); err != nil {
		return nil, err
	}

	return s.goals.FindOwnedDetailed(ctx, userID, goal.ID)
}

func (s *GoalService) Get(ctx context.Context, userID, id uuid.UUID) (*models.Goal, error) {
	goal, err := s.goals.FindOwnedDetailed(ctx, userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Goal not found")
		}
		return nil, fmt.Errorf("find goal: %w", err)
	}
	return goal, nil
}

func (s *GoalService) List(ctx context.Context, userID uuid.UUID, filters types.GoalFilters) ([]models.Goal, error) {
	goals, err := s.goals.List(ctx, userID, filters)
	if err != nil {
		return nil, err
	}
	if goals == nil {
		goals = []models.Goal{}
	}
	return goals, nil
}

func (s *GoalService) Update(ctx context.Context, userID, id uuid.UUID, input UpdateGoalInput) (*models.Goal, error) {
	goal, err := s.guardGoal(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if input.Category != nil && !input.Category.Valid() {
		return nil, apperrors.Validation("Invalid goal data", "category: invalid value")
	}

	if input.ProgressPercentage != nil && (*input.ProgressPercentage < 0 || *input.ProgressPercentage > 100) {
		return nil, apperrors.Validation("Invalid goal data", "progressPercentage must be between 0 and 100")
	}

	if input.ParentGoalID.Set {
		if input.ParentGoalID.Valid {
			if _, err := s.guardGoal(ctx, userID, input.ParentGoalID.Value); err != nil {
				return nil, err
			}
			if err := s.checkParentCycle(ctx, userID, goal.ID, input.ParentGoalID.Value); err != nil {
				return nil, err
			}
		}
		goal.ParentGoalID = input.ParentGoalID.Ptr()
	}

	if input.Title != nil {
		goal.Title = *input.Title
	}

	if input.Description != nil {
		goal.Description = input.Description
	}

	if input.Category != nil {
		goal.Category = *input.Category
	}

	if input.TargetDate.Set {
		goal.TargetDate = input.TargetDate.Ptr()
	}

	if input.ProgressPercentage != nil {
		goal.ProgressPercentage = *input.ProgressPercentage
	}

	if input.IsCompleted != nil {
		goal.IsCompleted = *input.IsCompleted
	}

	// Auto-completion is one-directional: full progress forces completion
	// unless the same update explicitly said otherwise.
	explicitlyIncomplete := input.IsCompleted != nil && !*input.IsCompleted
	if goal.ProgressPercentage == 100 && !explicitlyIncomplete {
		goal.IsCompleted = true
	}

	if err := s.goals.Update(ctx, goal); err != nil {
		return nil, err
	}

	return s.goals.FindOwnedDetailed(ctx, userID, goal.ID)
}

// Delete removes a goal after the ownership check; subgoals go with it via
// the store-level cascade.
func (s *GoalService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	goal, err := s.guardGoal(ctx, userID, id)
	if err != nil {
		return err
	}
	return s.goals.Delete(ctx, goal)
}

func (s *GoalService) Stats(ctx context.Context, userID uuid.UUID) (*types.GoalStats, error) {
	total, err := s.goals.Count(ctx, userID)
	if err != nil {
		return nil, err
	}

	completed, err := s.goals.CountCompleted(ctx, userID)
	if err != nil {
		return nil, err
	}

	average, err := s.goals.AverageProgress(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &types.GoalStats{
		Total:           total,
		Completed:       completed,
		InProgress:      total - completed,
		AverageProgress: int(math.Round(average)),
		CompletionRate:  completionRate(completed, total),
	}, nil
}

func (s *GoalService) guardGoal(ctx context.Context, userID, id uuid.UUID) (*models.Goal, error) {
	goal, err := s.goals.FindOwned(ctx, userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Goal not found")
		}
		return nil, fmt.Errorf("find goal: %w", err)
	}
	return goal, nil
}

func (s *GoalService) checkParentCycle(ctx context.Context, userID, goalID, parentID uuid.UUID) error {
	current := parentID

	for depth := 0; depth < maxParentDepth; depth++ {
		if current == goalID {
			return apperrors.Validation("A goal cannot be its own parent or ancestor")
		}

		parent, err := s.goals.FindOwned(ctx, userID, current)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return fmt.Errorf("walk parent chain: %w", err)
		}

		if parent.ParentGoalID == nil {
			return nil
		}
		current = *parent.ParentGoalID
	}

	return apperrors.Validation("Goal hierarchy is too deep")
}
