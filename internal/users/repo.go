package users

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
		"id":        "users.id",
		"name":      "users.name",
		"email":     "users.email",
		"createdAt": "users.created_at",
	},
	DefaultKey:   "createdAt",
	DefaultOrder: enums.SortOrderDesc,
}

// Repository exposes user-related persistence operations.
type Repository struct {
	repo.Base
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(tx)}
}

// Create inserts a new user and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	if err := r.DB(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByEmail retrieves the user matching the provided email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads a user by their UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.DB(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateLastLogin refreshes the user's last_login_at timestamp.
func (r *Repository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.DB(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
}

// List pages through users, optionally matching name or email.
func (r *Repository) List(ctx context.Context, params pagination.Params, search string) ([]models.User, int64, error) {
	query := r.DB(ctx).Model(&models.User{})
	if term := strings.TrimSpace(search); term != "" {
		like := repo.ContainsPattern(term)
		query = query.Where(repo.LikeLower("users.name")+" OR "+repo.LikeLower("users.email"), like, like)
	}
	var rows []models.User
	total, err := pagination.Apply(query, params, sortSpec, "users.id", &rows)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// UpdateProfile writes the provided name and role. Nil fields are left untouched.
func (r *Repository) UpdateProfile(ctx context.Context, id uuid.UUID, name *string, role *enums.Role) error {
	updates := map[string]any{"updated_at": time.Now().UTC()}
	if name != nil {
		updates["name"] = *name
	}
	if role != nil {
		updates["role"] = *role
	}
	return r.DB(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// SetStatus moves a user between lifecycle states. It reports false when the user was
// not in the opposite state.
func (r *Repository) SetStatus(ctx context.Context, id uuid.UUID, status enums.LifecycleStatus) (bool, error) {
	return visibility.Transition(r.DB(ctx), &models.User{}, id, status, time.Now().UTC())
}

// SetRole overwrites the role of the user with the provided email.
func (r *Repository) SetRole(ctx context.Context, email string, role enums.Role) (bool, error) {
	res := r.DB(ctx).
		Model(&models.User{}).
		Where("email = ?", email).
		Updates(map[string]any{"role": role, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
