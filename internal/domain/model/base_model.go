package model

import (
	"time"

	"gorm.io/gorm"
)

// BaseModel carries the bookkeeping columns shared by every persisted entity.
type BaseModel struct {
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
