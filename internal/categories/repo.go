package categories

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

var sortSpec = pagination.SortSpec{
	Columns: map[string]string{
		"id":        "categories.id",
		"name":      "categories.name",
		"createdAt": "categories.created_at",
		"updatedAt": "categories.updated_at",
	},
	DefaultKey:   "createdAt",
	DefaultOrder: enums.SortOrderDesc,
}

// Filter holds the substring filters for category listings.
type Filter struct {
	Name   string
	Search string
}

// Repository persists categories.
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

// Create inserts an active category.
func (r *Repository) Create(ctx context.Context, name string) (*models.Category, error) {
	category := &models.Category{Name: name, Status: enums.LifecycleStatusActive}
	if err := r.DB(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// FindByID loads a category visible under pred.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID, pred visibility.Predicate) (*models.Category, error) {
	var category models.Category
	query := pred.Apply(r.DB(ctx).Model(&models.Category{}), "categories.status")
	if err := query.First(&category, "categories.id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// NameTaken reports whether another category already uses name. Deleted categories
// keep their names reserved.
func (r *Repository) NameTaken(ctx context.Context, name string, excludeID uuid.UUID) (bool, error) {
	query := r.DB(ctx).Model(&models.Category{}).Where("name = ?", name)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateName renames a category and reports whether a row matched.
func (r *Repository) UpdateName(ctx context.Context, id uuid.UUID, name string) (bool, error) {
	res := r.DB(ctx).
		Model(&models.Category{}).
		Where("id = ?", id).
		Updates(map[string]any{"name": name, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// SetStatus moves a category between lifecycle states.
func (r *Repository) SetStatus(ctx context.Context, id uuid.UUID, status enums.LifecycleStatus) (bool, error) {
	return visibility.Transition(r.DB(ctx), &models.Category{}, id, status, time.Now().UTC())
}

// List pages through categories visible under pred.
func (r *Repository) List(ctx context.Context, params pagination.Params, filter Filter, pred visibility.Predicate) ([]models.Category, int64, error) {
	query := pred.Apply(r.DB(ctx).Model(&models.Category{}), "categories.status")
	if name := strings.TrimSpace(filter.Name); name != "" {
		query = query.Where(repo.LikeLower("categories.name"), repo.ContainsPattern(name))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.Where(repo.LikeLower("categories.name"), repo.ContainsPattern(search))
	}

	var rows []models.Category
	total, err := pagination.Apply(query, params, sortSpec, "categories.id", &rows)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// ListActive returns every active category ordered by name.
func (r *Repository) ListActive(ctx context.Context) ([]Option, error) {
	var rows []Option
	err := r.DB(ctx).
		Model(&models.Category{}).
		Select("id", "name").
		Where("status = ?", enums.LifecycleStatusActive).
		Order("name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
