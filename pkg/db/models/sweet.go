package models

import (
	"time"

	"github.com/angelmondragon/sweetshop-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Sweet is a catalog item with its stock counter. Names are unique among active sweets.
type Sweet struct {
	ID         uuid.UUID             `gorm:"type:uuid;primaryKey"`
	Name       string                `gorm:"column:name;type:varchar(255);not null;index:sweets_name_active_key,unique,where:status = 'active'"`
	CategoryID uuid.UUID             `gorm:"column:category_id;type:uuid;not null;index"`
	Category   *Category             `gorm:"foreignKey:CategoryID"`
	Price      decimal.Decimal       `gorm:"column:price;type:numeric(10,2);not null"`
	Quantity   int                   `gorm:"column:quantity;not null;default:0;check:sweets_quantity_non_negative,quantity >= 0"`
	Status     enums.LifecycleStatus `gorm:"column:status;type:varchar(16);not null;default:active;index"`
	DeletedAt  *time.Time            `gorm:"column:deleted_at"`
	CreatedAt  time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

func (s Sweet) IsActive() bool {
	return s.Status == enums.LifecycleStatusActive
}

func (s *Sweet) BeforeCreate(*gorm.DB) error {
	ensureID(&s.ID)
	if s.Status == "" {
		s.Status = enums.LifecycleStatusActive
	}
	return nil
}
