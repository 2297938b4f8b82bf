package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Roles recognized by the permission system.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User stores system users with role-based access.
// A row is upserted on the first successful login; the role is overwritten on
// every login, so logging in with the admin password promotes the user.
// PasswordHash is only set for registry users (per-user bcrypt credentials);
// shared-password users carry an empty hash.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username     string    `gorm:"uniqueIndex;not null"`
	Role         string    `gorm:"type:varchar(10);not null;default:'user'"`
	PasswordHash string
	CreatedAt    time.Time
}

// BeforeCreate assigns the UUID — SQLite has no server-side generator.
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
