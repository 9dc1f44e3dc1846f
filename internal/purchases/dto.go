package purchases

import (
	"encoding/json"
	"time"

	"github.com/angelmondragon/sweetshop-backend/pkg/db/models"
	"github.com/angelmondragon/sweetshop-backend/pkg/enums"
	"github.com/angelmondragon/sweetshop-backend/pkg/pagination"
	"github.com/google/uuid"
)

// MaxQuantity caps the units bought in one purchase.
const MaxQuantity = 1000

// Actor is the authenticated caller a purchase operation runs for.
type Actor struct {
	UserID uuid.UUID
	Role   enums.Role
}

// CreateRequest is the payload for POST /api/purchases. The sweet-scoped route
// fills SweetID from the path.
type CreateRequest struct {
	SweetID  uuid.UUID `json:"sweetId" validate:"required"`
	Quantity int       `json:"quantity" validate:"required,min=1,max=1000"`
}

// SweetSummary is the sweet embedded on purchase rows.
type SweetSummary struct {
	ID           uuid.UUID   `json:"id"`
	Name         string      `json:"name"`
	Price        json.Number `json:"price"`
	CategoryID   uuid.UUID   `json:"categoryId"`
	CategoryName string      `json:"categoryName"`
}

// UserSummary is the buyer embedded on purchase rows.
type UserSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// PurchaseDTO is the API shape of a purchase.
type PurchaseDTO struct {
	ID          uuid.UUID     `json:"id"`
	UserID      uuid.UUID     `json:"userId"`
	SweetID     uuid.UUID     `json:"sweetId"`
	Quantity    int           `json:"quantity"`
	PurchasedAt time.Time     `json:"purchasedAt"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
	Sweet       *SweetSummary `json:"sweet,omitempty"`
	User        *UserSummary  `json:"user,omitempty"`
}

// Filter narrows purchase listings. EndDate is inclusive.
type Filter struct {
	UserID    *uuid.UUID
	SweetID   *uuid.UUID
	StartDate *time.Time
	EndDate   *time.Time
}

// ListQuery combines paging with purchase filters.
type ListQuery struct {
	pagination.Params
	Filter
}

func FromModel(p *models.Purchase) *PurchaseDTO {
	if p == nil {
		return nil
	}
	dto := &PurchaseDTO{
		ID:          p.ID,
		UserID:      p.UserID,
		SweetID:     p.SweetID,
		Quantity:    p.Quantity,
		PurchasedAt: p.PurchasedAt,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if s := p.Sweet; s != nil {
		dto.Sweet = &SweetSummary{
			ID:         s.ID,
			Name:       s.Name,
			Price:      json.Number(s.Price.StringFixed(2)),
			CategoryID: s.CategoryID,
		}
		if s.Category != nil {
			dto.Sweet.CategoryName = s.Category.Name
		}
	}
	if u := p.User; u != nil {
		dto.User = &UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
	}
	return dto
}
