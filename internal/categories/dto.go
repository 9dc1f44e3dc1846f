package categories

import (
	"time"

	"github.com/angelmondragon/sweetshop-backend/pkg/db/models"
	"github.com/angelmondragon/sweetshop-backend/pkg/pagination"
	"github.com/angelmondragon/sweetshop-backend/pkg/visibility"
	"github.com/google/uuid"
)

// CategoryDTO is the API shape of a category.
type CategoryDTO struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	IsActive  bool       `json:"isActive"`
	DeletedAt *time.Time `json:"deletedAt"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Option is the compact shape used by selection widgets.
type Option struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// CreateRequest is the payload for creating a category.
type CreateRequest struct {
	Name string `json:"name" validate:"required,min=2,max=255,catalogname"`
}

// UpdateRequest is the payload for renaming a category. Status is changed through
// delete and reactivate only.
type UpdateRequest struct {
	Name *string `json:"name,omitempty" validate:"omitempty,min=2,max=255,catalogname"`
}

// ListQuery combines paging, substring filters and the caller's lifecycle filters.
type ListQuery struct {
	pagination.Params
	Name       string
	Search     string
	Visibility visibility.Filter
}

func FromModel(c *models.Category) *CategoryDTO {
	if c == nil {
		return nil
	}
	return &CategoryDTO{
		ID:        c.ID,
		Name:      c.Name,
		IsActive:  c.IsActive(),
		DeletedAt: c.DeletedAt,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
