package models

import (
	"time"
)

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Name         string    `gorm:"size:100;not null" json:"name"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"` // always lowercase
	PasswordHash string    `gorm:"size:255;not null" json:"-"`                 // empty for Google-only accounts
	Role         Role      `gorm:"size:20;not null;default:'user'" json:"role"`
	GoogleID     *string   `gorm:"size:64;uniqueIndex" json:"-"`
	Reports      []Report  `gorm:"foreignKey:UserID" json:"reports,omitempty"`
}
