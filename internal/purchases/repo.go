package purchases

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
		"id":          "purchases.id",
		"purchasedAt": "purchases.purchased_at",
		"quantity":    "purchases.quantity",
	},
	DefaultKey:   "purchasedAt",
	DefaultOrder: enums.SortOrderDesc,
}

// Repository persists purchase records.
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

// Create inserts a purchase row.
func (r *Repository) Create(ctx context.Context, purchase *models.Purchase) error {
	return r.DB(ctx).Omit("Sweet", "User").Create(purchase).Error
}

// FindByID loads a purchase with its sweet, category and buyer.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Purchase, error) {
	var purchase models.Purchase
	err := r.DB(ctx).
		Scopes(withSummaries).
		First(&purchase, "purchases.id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

// List pages through purchases matching filter.
func (r *Repository) List(ctx context.Context, params pagination.Params, filter Filter) ([]models.Purchase, int64, error) {
	query := r.DB(ctx).Model(&models.Purchase{})
	if filter.UserID != nil {
		query = query.Where("purchases.user_id = ?", *filter.UserID)
	}
	if filter.SweetID != nil {
		query = query.Where("purchases.sweet_id = ?", *filter.SweetID)
	}
	if filter.StartDate != nil {
		query = query.Where("purchases.purchased_at >= ?", filter.StartDate.UTC())
	}
	if filter.EndDate != nil {
		query = query.Where("purchases.purchased_at <= ?", filter.EndDate.UTC())
	}

	var rows []models.Purchase
	total, err := pagination.Apply(query, params, sortSpec, "purchases.id", &rows, withSummaries)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// withSummaries ignores lifecycle status so history keeps deleted sweets and users.
func withSummaries(db *gorm.DB) *gorm.DB {
	return db.Preload("Sweet").Preload("Sweet.Category").Preload("User")
}
