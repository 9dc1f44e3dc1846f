package models

import (
	"time"

	"github.com/angelmondragon/sweetshop-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents the canonical identity entity. Users are never hard-deleted.
type User struct {
	ID           uuid.UUID             `gorm:"type:uuid;primaryKey"`
	Name         string                `gorm:"column:name;type:varchar(255);not null"`
	Email        string                `gorm:"column:email;type:varchar(255);not null;uniqueIndex:users_email_key"`
	PasswordHash string                `gorm:"column:password_hash;not null"`
	Role         enums.Role            `gorm:"column:role;type:varchar(16);not null;default:customer"`
	Status       enums.LifecycleStatus `gorm:"column:status;type:varchar(16);not null;default:active;index"`
	DeletedAt    *time.Time            `gorm:"column:deleted_at"`
	LastLoginAt  *time.Time            `gorm:"column:last_login_at"`
	CreatedAt    time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

// IsActive projects the lifecycle column for API consumers.
func (u User) IsActive() bool {
	return u.Status == enums.LifecycleStatusActive
}

func (u *User) BeforeCreate(*gorm.DB) error {
	ensureID(&u.ID)
	if u.Role == "" {
		u.Role = enums.RoleCustomer
	}
	if u.Status == "" {
		u.Status = enums.LifecycleStatusActive
	}
	return nil
}
