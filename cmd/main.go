package main

import (
	"context"
	"os"

	"github.com/desertthunder/closet/internal/services"
	"github.com/desertthunder/closet/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	var identity services.Identity
	if config.Credentials.Auth0.Domain != "" && config.Credentials.Auth0.ClientID != "" {
		if svc, err := services.NewAuth0Service(config.Credentials.Auth0.Map()); err == nil {
			identity = svc
		} else {
			logger.Warn("identity service unavailable", "error", err)
		}
	}

	wardrobe := services.NewClosetService(config.API.BaseURL, nil)

	runner := NewRunner(RunnerOpts{
		Config:   config,
		Identity: identity,
		Wardrobe: wardrobe,
		Logger:   logger,
	})

	app := &cli.Command{
		Name:     "closet",
		Usage:    "Catalog your wardrobe from photos",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
