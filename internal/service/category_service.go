package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/taskflow-dev/taskflow/internal/apperrors"
	"github.com/taskflow-dev/taskflow/internal/models"
	"gorm.io/gorm"
)

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// CategoryStore is the entity store contract the category service depends on.
type CategoryStore interface {
	CategoryReader
	Create(ctx context.Context, category *models.Category) error
	FindOwnedByName(ctx context.Context, userID uuid.UUID, name string) (*models.Category, error)
	List(ctx context.Context, userID uuid.UUID) ([]models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	CountTasks(ctx context.Context, categoryID uuid.UUID) (int64, error)
	DeleteReassigning(ctx context.Context, category *models.Category) (int64, error)
}

type CreateCategoryInput struct {
	Name        string  `json:"name" binding:"required,max=255"`
	Color       *string `json:"color"`
	Description *string `json:"description"`
	IsFavorite  *bool   `json:"isFavorite"`
}

type UpdateCategoryInput struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=255"`
	Color       *string `json:"color"`
	Description *string `json:"description"`
	IsFavorite  *bool   `json:"isFavorite"`
}

// CategoryService implements category lifecycle rules: per-user name
// uniqueness, color validation, and delete-with-reassignment.
type CategoryService struct {
	categories CategoryStore
}

func NewCategoryService(categories CategoryStore) *CategoryService {
	return &CategoryService{categories: categories}
}

func (s *CategoryService) Create(ctx context.Context, userID uuid.UUID, input CreateCategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.Validation("Invalid category data", "Name is required")
	}

	color := models.DefaultCategoryColor
	if input.Color != nil {
		if !colorPattern.MatchString(*input.Color) {
			return nil, apperrors.Validation("Invalid category data", "Invalid color format")
		}
		color = *input.Color
	}

	if err := s.checkNameAvailable(ctx, userID, name, uuid.Nil); err != nil {
		return nil, err
	}

	category := &models.Category{
		Name:   name,
		Color:  color,
		UserID: userID,
	}

	if input.Description != nil {
		if description := strings.TrimSpace(*input.Description); description != "" {
			category.Description = &description
		}
	}

	if input.IsFavorite != nil {
		category.IsFavorite = *input.IsFavorite
	}

	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

func (s *CategoryService) Get(ctx context.Context, userID, id uuid.UUID) (*models.Category, error) {
	category, err := s.guardCategory(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	count, err := s.categories.CountTasks(ctx, category.ID)
	if err != nil {
		return nil, err
	}
	category.TaskCount = count

	return category, nil
}

// List returns the user's categories, favorites first. Task counts are
// attached when requested.
func (s *CategoryService) List(ctx context.Context, userID uuid.UUID, includeCounts bool) ([]models.Category, error) {
	categories, err := s.categories.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	if includeCounts {
		for i := range categories {
			count, err := s.categories.CountTasks(ctx, categories[i].ID)
			if err != nil {
				return nil, err
			}
			categories[i].TaskCount = count
		}
	}

	if categories == nil {
		categories = []models.Category{}
	}

	return categories, nil
}

func (s *CategoryService) Update(ctx context.Context, userID, id uuid.UUID, input UpdateCategoryInput) (*models.Category, error) {
	category, err := s.guardCategory(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperrors.Validation("Invalid category data", "Name is required")
		}

		if err := s.checkNameAvailable(ctx, userID, name, category.ID); err != nil {
			return nil, err
		}
		category.Name = name
	}

	if input.Color != nil {
		if !colorPattern.MatchString(*input.Color) {
			return nil, apperrors.Validation("Invalid category data", "Invalid color format")
		}
		category.Color = *input.Color
	}

	if input.Description != nil {
		if description := strings.TrimSpace(*input.Description); description != "" {
			category.Description = &description
		} else {
			category.Description = nil
		}
	}

	if input.IsFavorite != nil {
		category.IsFavorite = *input.IsFavorite
	}

	if err := s.categories.Update(ctx, category); err != nil {
		return nil, err
	}

	count, err := s.categories.CountTasks(ctx, category.ID)
	if err != nil {
		return nil, err
	}
	category.TaskCount = count

	return category, nil
}

// Delete removes a category after detaching its tasks. It returns how many
// tasks were moved to no category.
func (s *CategoryService) Delete(ctx context.Context, userID, id uuid.UUID) (int64, error) {
	category, err := s.guardCategory(ctx, userID, id)
	if err != nil {
		return 0, err
	}

	return s.categories.DeleteReassigning(ctx, category)
}

func (s *CategoryService) guardCategory(ctx context.Context, userID, id uuid.UUID) (*models.Category, error) {
	category, err := s.categories.FindOwned(ctx, userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Category not found")
		}
		return nil, fmt.Errorf("find category: %w", err)
	}
	return category, nil
}

// checkNameAvailable enforces per-user name uniqueness on the trimmed name,
// ignoring the category being updated.
func (s *CategoryService) checkNameAvailable(ctx context.Context, userID uuid.UUID, name string, selfID uuid.UUID) error {
	existing, err := s.categories.FindOwnedByName(ctx, userID, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("check category name: %w", err)
	}

	if existing.ID != selfID {
		return apperrors.Conflict("Category with this name already exists")
	}

	return nil
}
