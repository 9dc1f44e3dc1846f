package models

import (
	"time"

	"github.com/angelmondragon/sweetshop-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category groups sweets. Soft-deleted categories keep their sweets.
type Category struct {
	ID        uuid.UUID             `gorm:"type:uuid;primaryKey"`
	Name      string                `gorm:"column:name;type:varchar(255);not null;uniqueIndex:categories_name_key"`
	Status    enums.LifecycleStatus `gorm:"column:status;type:varchar(16);not null;default:active;index"`
	DeletedAt *time.Time            `gorm:"column:deleted_at"`
	CreatedAt time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

func (c Category) IsActive() bool {
	return c.Status == enums.LifecycleStatusActive
}

func (c *Category) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	if c.Status == "" {
		c.Status = enums.LifecycleStatusActive
	}
	return nil
}
