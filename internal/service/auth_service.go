package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/taskflow-dev/taskflow/internal/apperrors"
	"github.com/taskflow-dev/taskflow/internal/auth"
	"github.com/taskflow-dev/taskflow/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserStore is the identity store contract the auth service depends on.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	TouchLastActive(ctx context.Context, id uuid.UUID, at time.Time) error
}

type RegisterInput struct {
	Email    string  `json:"email" binding:"required"`
	Password string  `json:"password" binding:"required"`
	Name     *string `json:"name"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileInput struct {
	Name        *string                `json:"name" binding:"omitempty,min=1"`
	AvatarURL   *string                `json:"avatarUrl" binding:"omitempty,url"`
	Preferences map[string]interface{} `json:"preferences"`
}

// AuthService implements registration, login, token refresh and profile
// management.
type AuthService struct {
	users      UserStore
	tokens     *auth.TokenManager
	bcryptCost int
}

func NewAuthService(users UserStore, tokens *auth.TokenManager, bcryptCost int) *AuthService {
	return &AuthService{users: users, tokens: tokens, bcryptCost: bcryptCost}
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, auth.TokenPair, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if !auth.ValidateEmail(email) {
		return nil, auth.TokenPair{}, apperrors.Validation("Invalid email format")
	}

	if errs := auth.ValidatePassword(input.Password); len(errs) > 0 {
		return nil, auth.TokenPair{}, apperrors.Validation("Password does not meet requirements", errs...)
	}

	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return nil, auth.TokenPair{}, apperrors.Conflict("User with this email already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, auth.TokenPair{}, fmt.Errorf("check existing user: %w", err)
	}

	passwordHash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, auth.TokenPair{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()

	user := &models.User{
		Email:        email,
		PasswordHash: passwordHash,
		Preferences:  datatypes.JSONMap{},
		LastActive:   &now,
	}

	if input.Name != nil {
		if name := strings.TrimSpace(*input.Name); name != "" {
			user.Name = &name
		}
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, auth.TokenPair{}, err
	}

	tokens, err := s.tokens.GenerateTokenPair(user.ID, user.Email)
	if err != nil {
		return nil, auth.TokenPair{}, fmt.Errorf("generate tokens: %w", err)
	}

	return user, tokens, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*models.User, auth.TokenPair, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, auth.TokenPair{}, apperrors.Authentication("Invalid email or password")
		}
		return nil, auth.TokenPair{}, fmt.Errorf("find user: %w", err)
	}

	if !auth.ComparePassword(input.Password, user.PasswordHash) {
		return nil, auth.TokenPair{}, apperrors.Authentication("Invalid email or password")
	}

	if err := s.users.TouchLastActive(ctx, user.ID, time.Now()); err != nil {
		return nil, auth.TokenPair{}, err
	}

	tokens, err := s.tokens.GenerateTokenPair(user.ID, user.Email)
	if err != nil {
		return nil, auth.TokenPair{}, fmt.Errorf("generate tokens: %w", err)
	}

	return user, tokens, nil
}

// Refresh rotates the token pair for a valid refresh token, provided the user
// still exists.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.User, auth.TokenPair, error) {
	claims, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, auth.TokenPair{}, apperrors.Authentication("Invalid or expired refresh token")
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, auth.TokenPair{}, apperrors.Authentication("User not found")
		}
		return nil, auth.TokenPair{}, fmt.Errorf("find user: %w", err)
	}

	if err := s.users.TouchLastActive(ctx, user.ID, time.Now()); err != nil {
		return nil, auth.TokenPair{}, err
	}

	tokens, err := s.tokens.GenerateTokenPair(user.ID, user.Email)
	if err != nil {
		return nil, auth.TokenPair{}, fmt.Errorf("generate tokens: %w", err)
	}

	return user, tokens, nil
}

func (s *AuthService) Profile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Authentication("User not found")
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*models.User, error) {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperrors.Validation("Invalid profile data", "Name cannot be empty")
		}
		user.Name = &name
	}

	if input.AvatarURL != nil {
		user.AvatarURL = input.AvatarURL
	}

	if input.Preferences != nil {
		user.Preferences = datatypes.JSONMap(input.Preferences)
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}
