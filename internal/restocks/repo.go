package restocks

import (
	"context"

	"github.com/angelmondragon/sweetshop-backend/internal/repo"
	"github.com/angelmondragon/sweetshop-backend/pkg/db/models"
	"github.com/angelmondragon/sweetshop-backend/pkg/enums"
	"github.com/angelmondragon/sweetshop-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var sortSpec = pagination.SortSpec{
	Columns: map[string]string{
		"restockedAt": "restocks.restocked_at",
	},
	DefaultKey:   "restockedAt",
	DefaultOrder: enums.SortOrderDesc,
}

// Repository persists restock history.
type Repository struct {
	repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(tx)}
}

// Create inserts a restock row.
func (r *Repository) Create(ctx context.Context, restock *models.Restock) error {
	return r.DB(ctx).Omit("Sweet", "Admin").Create(restock).Error
}

// ListBySweet pages through a sweet's restocks, newest first.
func (r *Repository) ListBySweet(ctx context.Context, sweetID uuid.UUID, params pagination.Params) ([]models.Restock, int64, error) {
	query := r.DB(ctx).Model(&models.Restock{}).Where("restocks.sweet_id = ?", sweetID)
	var rows []models.Restock
	total, err := pagination.Apply(query, params, sortSpec, "restocks.id", &rows, func(db *gorm.DB) *gorm.DB {
		return db.Preload("Admin")
	})
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
