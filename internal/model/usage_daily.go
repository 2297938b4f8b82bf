package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UsageDaily tracks external AI calls per user per calendar day.
// One row per (ymd, username); counters only move up within a day and reset
// by rolling to a new ymd or an explicit admin wipe of today's rows.
type UsageDaily struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	YMD        string    `gorm:"column:ymd;uniqueIndex:idx_usage_day_user;not null"`
	Username   string    `gorm:"uniqueIndex:idx_usage_day_user;not null"`
	ImageCalls int       `gorm:"not null;default:0"`
	TextCalls  int       `gorm:"not null;default:0"`
	UpdatedAt  time.Time
}

// TableName keeps the table name the operators already know from backups.
func (UsageDaily) TableName() string { return "usage_daily" }

func (u *UsageDaily) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
