package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Purchase is an immutable record of a stock decrement made on behalf of a user.
type Purchase struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	User        *User     `gorm:"foreignKey:UserID"`
	SweetID     uuid.UUID `gorm:"column:sweet_id;type:uuid;not null;index"`
	Sweet       *Sweet    `gorm:"foreignKey:SweetID"`
	Quantity    int       `gorm:"column:quantity;not null;check:purchases_quantity_positive,quantity > 0"`
	PurchasedAt time.Time `gorm:"column:purchased_at;not null;index"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Purchase) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	if p.PurchasedAt.IsZero() {
		p.PurchasedAt = nowUTC()
	}
	return nil
}
