package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "PENDING"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
	TaskStatusBackburner TaskStatus = "BACKBURNER"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusBackburner:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow      Priority = "LOW"
	PriorityMedium   Priority = "MEDIUM"
	PriorityHigh     Priority = "HIGH"
	PriorityCritical Priority = "CRITICAL"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

type Task struct {
	ID             uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	Title          string         `json:"title" gorm:"not null"`
	Description    *string        `json:"description"`
	Status         TaskStatus     `json:"status" gorm:"type:varchar(20);not null;default:'PENDING';index"`
	Priority       Priority       `json:"priority" gorm:"type:varchar(20);not null;default:'MEDIUM'"`
	DueDate        *time.Time     `json:"dueDate"`
	BackburnerDate *time.Time     `json:"backburnerDate"`
	CompletedAt    *time.Time     `json:"completedAt"`
	Position       int            `json:"position" gorm:"default:0"`
	EstimatedHours *float64       `json:"estimatedHours" gorm:"type:decimal(5,2)"`
	ActualHours    *float64       `json:"actualHours" gorm:"type:decimal(5,2)"`
	Tags           pq.StringArray `json:"tags" gorm:"type:text[];not null;default:'{}'"`
	UserID         uuid.UUID      `json:"userId" gorm:"type:uuid;not null;index"`
	CategoryID     *uuid.UUID     `json:"categoryId" gorm:"type:uuid;index"`
	ParentTaskID   *uuid.UUID     `json:"parentTaskId" gorm:"type:uuid;index"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`

	// Relationships
	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
	Subtasks []Task    `json:"subtasks,omitempty" gorm:"foreignKey:ParentTaskID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Tags == nil {
		t.Tags = pq.StringArray{}
	}
	return nil
}
