package sweets

import (
	"context"
	"strings"
	"time"

	"github.com/angelmondragon/sweetshop-backend/internal/repo"
	"github.com/angelmondragon/sweetshop-backend/pkg/db/models"
	"github.com/angelmondragon/sweetshop-backend/pkg/enums"
	"github.com/angelmondragon/sweetshop-backend/pkg/pagination"
	"github.com/angelmondragon/sweetshop-backend/pkg/visibility"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const statusColumn = "sweets.status"

var sortSpec = pagination.SortSpec{
	Columns: map[string]string{
		"id":        "sweets.id",
		"name":      "sweets.name",
		"price":     "sweets.price",
		"quantity":  "sweets.quantity",
		"createdAt": "sweets.created_at",
		"updatedAt": "sweets.updated_at",
	},
	DefaultKey:   "createdAt",
	DefaultOrder: enums.SortOrderDesc,
}

// Repository persists sweets and their stock counters.
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

// Create inserts a sweet.
func (r *Repository) Create(ctx context.Context, sweet *models.Sweet) error {
	return r.DB(ctx).Omit("Category").Create(sweet).Error
}

// FindByID loads a sweet and its category when it is visible under pred.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID, pred visibility.Predicate) (*models.Sweet, error) {
	var sweet models.Sweet
	query := pred.Apply(r.DB(ctx).Model(&models.Sweet{}), statusColumn)
	if err := query.Preload("Category").First(&sweet, "sweets.id = ?", id).Error; err != nil {
		return nil, err
	}
	return &sweet, nil
}

// NameTaken reports whether an active sweet other than excludeID uses name.
func (r *Repository) NameTaken(ctx context.Context, name string, excludeID uuid.UUID) (bool, error) {
	query := r.DB(ctx).
		Model(&models.Sweet{}).
		Where("name = ? AND status = ?", name, enums.LifecycleStatusActive)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Update writes the provided columns and reports whether a row matched.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, fields map[string]any) (bool, error) {
	if len(fields) == 0 {
		return true, nil
	}
	fields["updated_at"] = time.Now().UTC()
	res := r.DB(ctx).Model(&models.Sweet{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// SetStatus moves a sweet between lifecycle states.
func (r *Repository) SetStatus(ctx context.Context, id uuid.UUID, status enums.LifecycleStatus) (bool, error) {
	return visibility.Transition(r.DB(ctx), &models.Sweet{}, id, status, time.Now().UTC())
}

// DecrementStock removes qty units from an active sweet only when enough stock
// remains. A false result means no row satisfied the guard.
func (r *Repository) DecrementStock(ctx context.Context, id uuid.UUID, qty int) (bool, error) {
	res := r.DB(ctx).
		Model(&models.Sweet{}).
		Where("id = ? AND status = ? AND quantity >= ?", id, enums.LifecycleStatusActive, qty).
		Updates(map[string]any{
			"quantity":   gorm.Expr("quantity - ?", qty),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// IncrementStock adds qty units to an active sweet as long as the result stays
// within ceiling.
func (r *Repository) IncrementStock(ctx context.Context, id uuid.UUID, qty, ceiling int) (bool, error) {
	res := r.DB(ctx).
		Model(&models.Sweet{}).
		Where("id = ? AND status = ? AND quantity + ? <= ?", id, enums.LifecycleStatusActive, qty, ceiling).
		Updates(map[string]any{
			"quantity":   gorm.Expr("quantity + ?", qty),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// List pages through sweets visible under pred.
func (r *Repository) List(ctx context.Context, params pagination.Params, filter Filter, pred visibility.Predicate) ([]models.Sweet, int64, error) {
	query := r.filtered(ctx, filter, pred)
	var rows []models.Sweet
	total, err := pagination.Apply(query, params, sortSpec, "sweets.id", &rows, preloadCategory)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Search returns up to limit sweets whose name contains q, ordered by name.
func (r *Repository) Search(ctx context.Context, q string, filter Filter, pred visibility.Predicate, limit int) ([]models.Sweet, error) {
	var rows []models.Sweet
	err := r.filtered(ctx, filter, pred).
		Where(repo.LikeLower("sweets.name"), repo.ContainsPattern(q)).
		Scopes(preloadCategory).
		Order("sweets.name ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) filtered(ctx context.Context, filter Filter, pred visibility.Predicate) *gorm.DB {
	query := pred.Apply(r.DB(ctx).Model(&models.Sweet{}), statusColumn)
	if name := strings.TrimSpace(filter.Name); name != "" {
		query = query.Where(repo.LikeLower("sweets.name"), repo.ContainsPattern(name))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.Where(repo.LikeLower("sweets.name"), repo.ContainsPattern(search))
	}
	if category := strings.TrimSpace(filter.Category); category != "" {
		query = query.
			Joins("JOIN categories ON categories.id = sweets.category_id").
			Where(repo.LikeLower("categories.name"), repo.ContainsPattern(category))
	}
	if filter.CategoryID != nil {
		query = query.Where("sweets.category_id = ?", *filter.CategoryID)
	}
	if filter.MinPrice != nil {
		query = query.Where("sweets.price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("sweets.price <= ?", *filter.MaxPrice)
	}
	if filter.InStock != nil {
		if *filter.InStock {
			query = query.Where("sweets.quantity > 0")
		} else {
			query = query.Where("sweets.quantity = 0")
		}
	}
	return query
}

func preloadCategory(db *gorm.DB) *gorm.DB {
	return db.Preload("Category")
}

