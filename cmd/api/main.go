package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"go-sales-tracker/internal/config"
	"go-sales-tracker/internal/handler"
	"go-sales-tracker/internal/repository"
	"go-sales-tracker/internal/service"
	"go-sales-tracker/internal/ws"
	"go-sales-tracker/pkg/jwt"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "Warning: .env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setupLogger(cfg)

	// 2. Setup Store
	store := repository.NewStore(repository.WithCacheCapacity(cfg.CacheCapacity))
	if cfg.SeedDemoData {
		if err := seedDemoData(store, cfg); err != nil {
			log.Fatal().Err(err).Msg("failed to seed demo data")
		}
	}

	// 3. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 4. Dependency Injection (Wiring Layers)
	issuer := jwt.NewIssuer(cfg.JWTSecret, time.Duration(cfg.JWTExpirationHours)*time.Hour)

	pricingService := service.NewPricingService(store)
	salesService := service.NewSalesService(store, time.Now)
	accessService := service.NewAccessService(store)
	userService := service.NewUserService(store.Users())
	customerService := service.NewCustomerService(store, accessService, salesService)
	productService := service.NewProductService(store.Products())
	orderService := service.NewOrderService(store, pricingService, salesService, accessService, wsHub)
	dashService := service.NewDashboardService(salesService, accessService, orderService, userService, time.Now)
	reportService := service.NewReportService(salesService, userService)
	authService := service.NewAuthService(store.Users(), issuer)

	// 5. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Sales Tracker v1.0",
	})

	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	handler.RegisterRoutes(app, handler.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Dashboard: handler.NewDashboardHandler(dashService, reportService, salesService, store.Generations()),
		Customers: handler.NewCustomerHandler(customerService, pricingService),
		Products:  handler.NewProductHandler(productService),
		Orders:    handler.NewOrderHandler(orderService),
		Users:     handler.NewUserHandler(userService),
	}, authService)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 6. Graceful Shutdown
	go func() {
		log.Info().Msgf("sales tracker listening on :%d", cfg.Port)
		if err := app.Listen(fmt.Sprintf(":%d", cfg.Port)); err != nil {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}
	log.Info().Msg("server exited")
}

// setupLogger: pretty console output in development, JSON in production.
func setupLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.IsProduction() {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Str("service", "sales-tracker").Logger()
		return
	}
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Str("service", "sales-tracker").Logger()
}
