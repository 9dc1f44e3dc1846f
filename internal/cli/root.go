package cli

import (
	"context"
	"fmt"

	"github.com/angelmondragon/sweetshop-backend/internal/users"
	"github.com/angelmondragon/sweetshop-backend/pkg/config"
	"github.com/angelmondragon/sweetshop-backend/pkg/db"
	"github.com/angelmondragon/sweetshop-backend/pkg/logger"
	"github.com/spf13/cobra"
)

// Env is what a subcommand needs once the database is open.
type Env struct {
	Users    UserStore
	Password config.PasswordConfig
	Close    func() error
}

// Opener connects to the configured database.
type Opener func(ctx context.Context) (*Env, error)

// NewRootCommand builds the sweetshopctl command tree.
func NewRootCommand(open Opener) *cobra.Command {
	root := &cobra.Command{
		Use:           "sweetshopctl",
		Short:         "Operator tooling for the sweet shop backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newCreateAdminCommand(open), newSetRoleCommand(open))
	return root
}

// OpenFromConfig loads env config and opens the database with it.
func OpenFromConfig(logg *logger.Logger) Opener {
	return func(ctx context.Context) (*Env, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		client, err := db.New(ctx, cfg.DB, logg)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		return &Env{
			Users:    users.NewRepository(client.DB()),
			Password: cfg.Password,
			Close:    client.Close,
		}, nil
	}
}

func withEnv(cmd *cobra.Command, open Opener, fn func(ctx context.Context, env *Env) error) (err error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	env, err := open(ctx)
	if err != nil {
		return err
	}
	if env.Close != nil {
		defer func() {
			if cerr := env.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
	}
	return fn(ctx, env)
}
