package server

import (
	"net/http"

	"storefront/internal/handler"
	custommw "storefront/internal/middleware"
	"storefront/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

type Server struct {
	echo            *echo.Echo
	jwtSecret       string
	catalogHandler  *handler.CatalogHandler
	cartHandler     *handler.CartHandler
	checkoutHandler *handler.CheckoutHandler
	orderHandler    *handler.OrderHandler
	webhookHandler  *handler.WebhookHandler
	adminHandler    *handler.AdminHandler
}

func NewServer(
	jwtSecret string,
	catalogService service.CatalogService,
	cartService service.CartService,
	checkoutService service.CheckoutService,
	orderService service.OrderService,
	webhookService service.WebhookService,
	logger zerolog.Logger,
) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Err(v.Error).
				Msg("request")
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		echo:            e,
		jwtSecret:       jwtSecret,
		catalogHandler:  handler.NewCatalogHandler(catalogService),
		cartHandler:     handler.NewCartHandler(cartService),
		checkoutHandler: handler.NewCheckoutHandler(checkoutService),
		orderHandler:    handler.NewOrderHandler(orderService),
		webhookHandler:  handler.NewWebhookHandler(webhookService),
		adminHandler:    handler.NewAdminHandler(catalogService, orderService),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// -------- catalog --------
	api.GET("/products", s.catalogHandler.ListProducts)
	api.GET("/products/:slug", s.catalogHandler.GetProduct)
	api.GET("/categories", s.catalogHandler.ListCategories)

	// -------- cart (session scoped) --------
	cart := api.Group("/cart", custommw.CartSession())
	cart.GET("", s.cartHandler.GetCart)
	cart.POST("/items", s.cartHandler.AddItem)
	cart.PUT("/items/:id", s.cartHandler.UpdateItem)
	cart.DELETE("/items/:id", s.cartHandler.RemoveItem)

	// -------- checkout / orders (authenticated) --------
	auth := custommw.Auth(s.jwtSecret)
	checkout := api.Group("/checkout", custommw.CartSession(), auth)
	checkout.POST("", s.checkoutHandler.BeginCheckout)
	checkout.POST("/confirm", s.checkoutHandler.Confirm)

	orders := api.Group("/orders", auth)
	orders.GET("", s.orderHandler.ListMyOrders)
	orders.GET("/:id", s.orderHandler.GetOrder)
	orders.POST("/:id/refund", s.orderHandler.RefundOrder)

	// -------- payment processor callbacks --------
	api.POST("/webhooks/stripe", s.webhookHandler.StripeWebhook)

	// -------- admin back-office --------
	admin := api.Group("/admin", auth, custommw.RequireAdmin())
	admin.GET("/products", s.adminHandler.ListProducts)
	admin.POST("/products", s.adminHandler.CreateProduct)
	admin.PUT("/products/:id", s.adminHandler.UpdateProduct)
	admin.DELETE("/products/:id", s.adminHandler.DeleteProduct)
	admin.GET("/orders", s.adminHandler.ListOrders)
	admin.GET("/orders/:id", s.orderHandler.GetOrder)
	admin.POST("/orders/:id/status", s.adminHandler.UpdateOrderStatus)
	admin.POST("/orders/:id/refund", s.orderHandler.RefundOrder)
	admin.GET("/customers", s.adminHandler.ListCustomers)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
