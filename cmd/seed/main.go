package main

import (
	"context"
	"fmt"
	"os"

	"storefront/internal/client"
	"storefront/internal/config"
	"storefront/internal/logger"
	"storefront/internal/repository"
	"storefront/internal/service"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Seeds the sample catalog (categories and t-shirts). Safe to run repeatedly.
func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log)

	db, err := client.InitMysqlClient(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("database init failed")
	}

	catalogService := service.NewCatalogService(
		repository.NewProductRepository(db),
		repository.NewCategoryRepository(db),
	)

	if err := catalogService.Seed(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("seeding failed")
	}

	log.Info().Msg("sample catalog seeded")
}
