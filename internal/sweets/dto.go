package sweets

import (
	"encoding/json"
	"time"

	"github.com/angelmondragon/sweetshop-backend/pkg/db/models"
	"github.com/angelmondragon/sweetshop-backend/pkg/pagination"
	"github.com/angelmondragon/sweetshop-backend/pkg/visibility"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// MaxPrice is the largest price a sweet may carry.
	MaxPrice = decimal.RequireFromString("999999.99")
	// MaxQuantity is the stock ceiling shared by create, update and restock.
	MaxQuantity = 999999
)

// SearchLimit caps how many rows a search returns.
const SearchLimit = 50

// CategorySummary is the embedded category on sweet responses.
type CategorySummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// SweetDTO is the API shape of a sweet. Price is always rendered with two decimals.
type SweetDTO struct {
	ID         uuid.UUID        `json:"id"`
	Name       string           `json:"name"`
	CategoryID uuid.UUID        `json:"categoryId"`
	Category   *CategorySummary `json:"category,omitempty"`
	Price      json.Number      `json:"price"`
	Quantity   int              `json:"quantity"`
	IsActive   bool             `json:"isActive"`
	DeletedAt  *time.Time       `json:"deletedAt"`
	CreatedAt  time.Time        `json:"createdAt"`
	UpdatedAt  time.Time        `json:"updatedAt"`
}

// CreateRequest is the payload for creating a sweet.
type CreateRequest struct {
	Name       string          `json:"name" validate:"required,min=2,max=255,catalogname"`
	CategoryID uuid.UUID       `json:"categoryId" validate:"required"`
	Price      decimal.Decimal `json:"price"`
	Quantity   *int            `json:"quantity" validate:"omitempty,min=0,max=999999"`
}

// UpdateRequest is a partial sweet update. Status moves through delete and reactivate.
type UpdateRequest struct {
	Name       *string          `json:"name,omitempty" validate:"omitempty,min=2,max=255,catalogname"`
	CategoryID *uuid.UUID       `json:"categoryId,omitempty"`
	Price      *decimal.Decimal `json:"price,omitempty"`
	Quantity   *int             `json:"quantity,omitempty" validate:"omitempty,min=0,max=999999"`
}

// Empty reports whether no field was supplied.
func (r UpdateRequest) Empty() bool {
	return r.Name == nil && r.CategoryID == nil && r.Price == nil && r.Quantity == nil
}

// Filter narrows sweet listings and searches.
type Filter struct {
	Name       string
	Search     string
	Category   string
	CategoryID *uuid.UUID
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	InStock    *bool
}

// ListQuery combines paging, filters and the caller's lifecycle filters.
type ListQuery struct {
	pagination.Params
	Filter
	Visibility visibility.Filter
}

// SearchQuery is an unpaginated name search.
type SearchQuery struct {
	Q string
	Filter
	Visibility visibility.Filter
}

// NormalizePrice rounds half away from zero to two decimal places.
func NormalizePrice(price decimal.Decimal) decimal.Decimal {
	return price.Round(2)
}

func FromModel(s *models.Sweet) *SweetDTO {
	if s == nil {
		return nil
	}
	dto := &SweetDTO{
		ID:         s.ID,
		Name:       s.Name,
		CategoryID: s.CategoryID,
		Price:      json.Number(s.Price.StringFixed(2)),
		Quantity:   s.Quantity,
		IsActive:   s.IsActive(),
		DeletedAt:  s.DeletedAt,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
	if s.Category != nil {
		dto.Category = &CategorySummary{ID: s.Category.ID, Name: s.Category.Name}
	}
	return dto
}
