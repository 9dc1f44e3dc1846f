package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Restock records an administrator topping up a sweet's stock.
type Restock struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	SweetID     uuid.UUID `gorm:"column:sweet_id;type:uuid;not null;index"`
	Sweet       *Sweet    `gorm:"foreignKey:SweetID"`
	AdminID     uuid.UUID `gorm:"column:admin_id;type:uuid;not null;index"`
	Admin       *User     `gorm:"foreignKey:AdminID"`
	Quantity    int       `gorm:"column:quantity;not null;check:restocks_quantity_positive,quantity > 0"`
	RestockedAt time.Time `gorm:"column:restocked_at;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (r *Restock) BeforeCreate(*gorm.DB) error {
	ensureID(&r.ID)
	if r.RestockedAt.IsZero() {
		r.RestockedAt = nowUTC()
	}
	return nil
}

// All lists every persisted model in dependency order. Tests use it with AutoMigrate.
func All() []any {
	return []any{&User{}, &Category{}, &Sweet{}, &Purchase{}, &Restock{}}
}
