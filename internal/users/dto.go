package users

import (
	"time"

	"github.com/angelmondragon/sweetshop-backend/pkg/db/models"
	"github.com/angelmondragon/sweetshop-backend/pkg/enums"
	"github.com/google/uuid"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Role        enums.Role `json:"role"`
	IsActive    bool       `json:"isActive"`
	DeletedAt   *time.Time `json:"deletedAt"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Name         string
	Email        string
	PasswordHash string
	Role         enums.Role
}

// UpdateUserRequest is the admin payload for editing a user. At least one field is required.
type UpdateUserRequest struct {
	Name     *string     `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Role     *enums.Role `json:"role,omitempty" validate:"omitempty,oneof=customer admin"`
	IsActive *bool       `json:"is_active,omitempty"`
}

// Empty reports whether the request carries no changes.
func (r UpdateUserRequest) Empty() bool {
	return r.Name == nil && r.Role == nil && r.IsActive == nil
}

// ListQuery captures the admin user listing parameters.
type ListQuery struct {
	Page   int
	Limit  int
	Search string
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role,
		IsActive:    u.IsActive(),
		DeletedAt:   u.DeletedAt,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	role := c.Role
	if role == "" {
		role = enums.RoleCustomer
	}
	return &models.User{
		Name:         c.Name,
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		Role:         role,
		Status:       enums.LifecycleStatusActive,
	}
}
