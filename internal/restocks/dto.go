package restocks

import (
	"time"

	"github.com/angelmondragon/sweetshop-backend/pkg/db/models"
	"github.com/google/uuid"
)

// MaxQuantity caps the units added by one restock.
const MaxQuantity = 10000

// Request is the payload for POST /api/sweets/:id/restock.
type Request struct {
	Quantity int `json:"quantity" validate:"required,min=1,max=10000"`
}

// AdminSummary identifies the administrator who restocked.
type AdminSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// RestockDTO is the API shape of a restock record.
type RestockDTO struct {
	ID          uuid.UUID     `json:"id"`
	SweetID     uuid.UUID     `json:"sweetId"`
	AdminID     uuid.UUID     `json:"adminId"`
	Quantity    int           `json:"quantity"`
	RestockedAt time.Time     `json:"restockedAt"`
	Admin       *AdminSummary `json:"admin,omitempty"`
}

// Result is returned by a restock: the record plus the sweet's new stock level.
type Result struct {
	Restock     RestockDTO `json:"restock"`
	NewQuantity int        `json:"newQuantity"`
}

func FromModel(r *models.Restock) *RestockDTO {
	if r == nil {
		return nil
	}
	dto := &RestockDTO{
		ID:          r.ID,
		SweetID:     r.SweetID,
		AdminID:     r.AdminID,
		Quantity:    r.Quantity,
		RestockedAt: r.RestockedAt,
	}
	if r.Admin != nil {
		dto.Admin = &AdminSummary{ID: r.Admin.ID, Name: r.Admin.Name, Email: r.Admin.Email}
	}
	return dto
}
