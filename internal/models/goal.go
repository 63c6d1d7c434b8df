package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GoalCategory string

const (
	GoalCategoryPersonalGrowth GoalCategory = "PERSONAL_GROWTH"
	GoalCategoryProfessional   GoalCategory = "PROFESSIONAL"
	GoalCategoryHealth         GoalCategory = "HEALTH"
	GoalCategoryFinancial      GoalCategory = "FINANCIAL"
	GoalCategoryLearning       GoalCategory = "LEARNING"
	GoalCategoryOther          GoalCategory = "OTHER"
)

func (c GoalCategory) Valid() bool {
	switch c {
	case GoalCategoryPersonalGrowth, GoalCategoryProfessional, GoalCategoryHealth,
		GoalCategoryFinancial, GoalCategoryLearning, GoalCategoryOther:
		return true
	}
	return false
}

type Goal struct {
	ID                 uuid.UUID    `json:"id" gorm:"type:uuid;primaryKey"`
	Title              string       `json:"title" gorm:"not null"`
	Description        *string      `json:"description"`
	Category           GoalCategory `json:"category" gorm:"type:varchar(20);not null;default:'OTHER'"`
	TargetDate         *time.Time   `json:"targetDate"`
	ProgressPercentage int          `json:"progressPercentage" gorm:"not null;default:0"`
	IsCompleted        bool         `json:"isCompleted" gorm:"default:false;index"`
	UserID             uuid.UUID    `json:"userId" gorm:"type:uuid;not null;index"`
	ParentGoalID       *uuid.UUID   `json:"parentGoalId" gorm:"type:uuid;index"`
	CreatedAt          time.Time    `json:"createdAt"`
	UpdatedAt          time.Time    `json:"updatedAt"`

	// Relationships
	Subgoals []Goal `json:"subgoals,omitempty" gorm:"foreignKey:ParentGoalID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

func (g *Goal) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}
