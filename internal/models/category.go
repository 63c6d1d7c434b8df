package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const DefaultCategoryColor = "#007AFF"

type Category struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name        string    `json:"name" gorm:"not null;uniqueIndex:idx_categories_user_name"`
	Color       string    `json:"color" gorm:"not null;default:'#007AFF'"`
	Description *string   `json:"description"`
	IsFavorite  bool      `json:"isFavorite" gorm:"default:false"`
	UserID      uuid.UUID `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_categories_user_name;index"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// Populated on demand by the store, not a column.
	TaskCount int64 `json:"taskCount" gorm:"-"`

	// Relationships
	Tasks []Task `json:"-" gorm:"foreignKey:CategoryID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
