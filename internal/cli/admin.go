package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/angelmondragon/sweetshop-backend/internal/users"
	"github.com/angelmondragon/sweetshop-backend/pkg/config"
	"github.com/angelmondragon/sweetshop-backend/pkg/db"
	"github.com/angelmondragon/sweetshop-backend/pkg/db/models"
	"github.com/angelmondragon/sweetshop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/sweetshop-backend/pkg/errors"
	"github.com/angelmondragon/sweetshop-backend/pkg/security"
	"github.com/spf13/cobra"
)

// AdminPasswordEnv is read when --password is not passed.
const AdminPasswordEnv = "SWEETSHOP_ADMIN_PASSWORD"

const minPasswordLen = 8

// UserStore is the slice of the users repository the CLI touches.
type UserStore interface {
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	SetRole(ctx context.Context, email string, role enums.Role) (bool, error)
}

// CreateAdmin inserts a new admin account. Existing emails are a conflict; use SetRole
// to promote them instead.
func CreateAdmin(ctx context.Context, store UserStore, pwCfg config.PasswordConfig, name, email, password string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name and email are required")
	}
	if len(password) < minPasswordLen {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "password must be at least %d characters", minPasswordLen)
	}

	if _, err := store.FindByEmail(ctx, email); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	} else if !db.IsNotFound(err) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
	}

	hash, err := security.HashPassword(password, pwCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	user, err := store.Create(ctx, users.CreateUserDTO{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         enums.RoleAdmin,
	})
	if err != nil {
		return nil, db.Classify(err, "user not found", "email already registered", "create admin")
	}
	return user, nil
}

// SetRole changes the role of an existing account.
func SetRole(ctx context.Context, store UserStore, email, role string) error {
	parsed, err := enums.ParseRole(strings.ToLower(strings.TrimSpace(role)))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid role")
	}
	ok, err := store.SetRole(ctx, strings.ToLower(strings.TrimSpace(email)), parsed)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update role")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	return nil
}

func newCreateAdminCommand(open Opener) *cobra.Command {
	var name, email, password string
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				password = os.Getenv(AdminPasswordEnv)
			}
			return withEnv(cmd, open, func(ctx context.Context, env *Env) error {
				user, err := CreateAdmin(ctx, env.Users, env.Password, name, email, password)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (%s)\n", user.Email, user.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&password, "password", "", "password (defaults to $"+AdminPasswordEnv+")")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newSetRoleCommand(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "set-role <email> <customer|admin>",
		Short: "Change the role of an existing account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, open, func(ctx context.Context, env *Env) error {
				if err := SetRole(ctx, env.Users, args[0], args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", strings.ToLower(strings.TrimSpace(args[0])), strings.ToLower(args[1]))
				return nil
			})
		},
	}
}
