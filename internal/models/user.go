package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	ID            uuid.UUID          `json:"id" gorm:"type:uuid;primaryKey"`
	Email         string             `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash  string             `json:"-" gorm:"not null"`
	Name          *string            `json:"name"`
	AvatarURL     *string            `json:"avatarUrl"`
	EmailVerified bool               `json:"emailVerified" gorm:"default:false"`
	Preferences   datatypes.JSONMap  `json:"preferences" gorm:"type:jsonb"`
	LastActive    *time.Time         `json:"lastActive"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`

	// Relationships
	Categories []Category `json:"-" gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Tasks      []Task     `json:"-" gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Goals      []Goal     `json:"-" gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
