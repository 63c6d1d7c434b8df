package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/taskflow-dev/taskflow/internal/models"
	"gorm.io/gorm"
)

// UserStore handles persistence for user records.
type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) Update(ctx context.Context, user *models.User) error {
	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func (s *UserStore) TouchLastActive(ctx context.Context, id uuid.UUID, at time.Time) error {
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("last_active", at).Error; err != nil {
		return fmt.Errorf("touch last active: %w", err)
	}
	return nil
}
