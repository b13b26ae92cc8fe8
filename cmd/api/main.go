package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"storefront/internal/client"
	"storefront/internal/config"
	"storefront/internal/logger"
	"storefront/internal/notify"
	"storefront/internal/repository"
	"storefront/internal/server"
	"storefront/internal/service"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

func main() {
	// load .env into os.Environ
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

	paymentClient := client.NewStripeClient(&cfg.Stripe)
	mailer := client.NewMailer(&cfg.SMTP, log)

	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	cartRepo := repository.NewCartRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	notifier, err := notify.NewService(mailer, cfg.BaseURL, cfg.SMTP.From, log)
	if err != nil {
		log.Fatal().Err(err).Msg("notification templates failed to parse")
	}

	catalogService := service.NewCatalogService(productRepo, categoryRepo)
	cartService := service.NewCartService(cartRepo, productRepo)
	checkoutService := service.NewCheckoutService(
		db, paymentClient,
		cartRepo, customerRepo, orderRepo,
		notifier, cfg.Stripe.PublishableKey, log,
	)
	orderService := service.NewOrderService(db, paymentClient, orderRepo, customerRepo, notifier, log)
	webhookService := service.NewWebhookService(db, paymentClient, orderRepo, log)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	srv := server.NewServer(
		cfg.Auth.JWTSecret,
		catalogService,
		cartService,
		checkoutService,
		orderService,
		webhookService,
		log,
	)

	log.Info().Str("addr", serverAddr).Msg("starting HTTP server")
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Info().Msg("signal received, starting graceful shutdown")

	if err := srv.Shutdown(); err != nil {
		log.Fatal().Err(err).Msg("HTTP server shutdown error")
	}
}
