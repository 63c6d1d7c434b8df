package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/taskflow-dev/taskflow/internal/models"
	"gorm.io/gorm"
)

// CategoryStore handles persistence for categories.
type CategoryStore struct {
	db *gorm.DB
}

func NewCategoryStore(db *gorm.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

func (s *CategoryStore) Create(ctx context.Context, category *models.Category) error {
	if err := s.db.WithContext(ctx).Create(category).Error; err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

// FindOwned is the ownership guard lookup: a miss is gorm.ErrRecordNotFound
// whether the row is missing or belongs to someone else.
func (s *CategoryStore) FindOwned(ctx context.Context, userID, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := s.db.WithContext(ctx).Scopes(OwnedBy(userID)).
		Where("id = ?", id).
		First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *CategoryStore) FindOwnedByName(ctx context.Context, userID uuid.UUID, name string) (*models.Category, error) {
	var category models.Category
	if err := s.db.WithContext(ctx).Scopes(OwnedBy(userID)).
		Where("name = ?", name).
		First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// List returns the user's categories ordered favorites first, then by name.
func (s *CategoryStore) List(ctx context.Context, userID uuid.UUID) ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.WithContext(ctx).Scopes(OwnedBy(userID)).
		Order("is_favorite DESC, name ASC").
		Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (s *CategoryStore) Update(ctx context.Context, category *models.Category) error {
	if err := s.db.WithContext(ctx).Save(category).Error; err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

func (s *CategoryStore) CountTasks(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Task{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count category tasks: %w", err)
	}
	return count, nil
}

// DeleteReassigning detaches every task that references the category and then
// deletes it, in one transaction. It returns how many tasks were moved to no
// category.
func (s *CategoryStore) DeleteReassigning(ctx context.Context, category *models.Category) (int64, error) {
	var reassigned int64

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Task{}).
			Where("category_id = ?", category.ID).
			Update("category_id", nil)
		if result.Error != nil {
			return result.Error
		}
		reassigned = result.RowsAffected

		return tx.Delete(category).Error
	})

	if err != nil {
		return 0, fmt.Errorf("delete category: %w", err)
	}

	return reassigned, nil
}
