package main

import (
	"context"
	"os"

	"github.com/angelmondragon/sweetshop-backend/internal/cli"
	"github.com/angelmondragon/sweetshop-backend/pkg/logger"
	"github.com/joho/godotenv"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "sweetshopctl"})
	_ = godotenv.Load()

	if err := cli.NewRootCommand(cli.OpenFromConfig(logg)).ExecuteContext(context.Background()); err != nil {
		logg.Error(context.Background(), "command failed", err)
		os.Exit(1)
	}
}
