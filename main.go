package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"trego/internal/config"
	"trego/internal/database"
	"trego/internal/handlers"
	"trego/internal/logger"
	"trego/internal/middleware"
	"trego/internal/repositories"
	"trego/internal/services"
	"trego/pkg/rabbitmq"
)

// Dependencies are the external collaborators NewApp wires together.
type Dependencies struct {
	Config     *config.Config
	DB         *gorm.DB
	Publisher  services.EventPublisher
	Settlement services.SettlementProvider
	Log        *zap.Logger
}

// NewApp builds the Fiber application with every route registered. It also
// returns the AuthService so callers can seed accounts.
func NewApp(deps Dependencies) (*fiber.App, *services.AuthService) {
	cfg, db, log := deps.Config, deps.DB, deps.Log

	// --- Repositories ---
	productRepo := repositories.NewGORMProductRepository(db)
	categoryRepo := repositories.NewGORMCategoryRepository(db)
	userRepo := repositories.NewGORMUserRepository(db)
	cartRepo := repositories.NewGORMCartRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	feedbackRepo := repositories.NewGORMFeedbackRepository(db)
	scope := repositories.NewGormTransactionScope(db)

	// --- Services ---
	authService := services.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.TTL, log)
	productService := services.NewProductService(productRepo, categoryRepo)
	categoryService := services.NewCategoryService(categoryRepo)
	cartService := services.NewCartService(productRepo, cartRepo, scope, log)
	orderService := services.NewOrderService(orderRepo, scope, deps.Settlement, deps.Publisher, cfg.Payment.Timeout, log)
	profileService := services.NewProfileService(userRepo)
	feedbackService := services.NewFeedbackService(feedbackRepo, productRepo)

	app := fiber.New(fiber.Config{
		AppName:               "trego",
		ErrorHandler:          handlers.ErrorHandler(log),
		DisableStartupMessage: cfg.IsProduction(),
	})

	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(log))
	app.Use(recover.New()) // inside the logger so panics still get an access-log line

	app.Get("/health", func(c *fiber.Ctx) error {
		dbStatus := "connected"
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.UserContext()) != nil {
			dbStatus = "unavailable"
		}
		return c.JSON(fiber.Map{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": dbStatus,
			"rabbitmq": cfg.RabbitMQ.Enabled,
		})
	})

	apiV1 := app.Group("/api/v1")
	handlers.NewAuthHandler(authService).RegisterRoutes(apiV1)

	protected := apiV1.Group("", middleware.AuthRequired(authService))
	handlers.NewProductHandler(productService).RegisterRoutes(protected)
	handlers.NewCategoryHandler(categoryService).RegisterRoutes(protected)
	handlers.NewCartHandler(cartService).RegisterRoutes(protected)
	handlers.NewOrderHandler(orderService).RegisterRoutes(protected)
	handlers.NewProfileHandler(profileService).RegisterRoutes(protected)
	handlers.NewFeedbackHandler(feedbackService).RegisterRoutes(protected)

	return app, authService
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	if err := run(cfg, zlog); err != nil {
		zlog.Error("server exited with error", zap.Error(err))
		_ = zlog.Sync()
		os.Exit(1)
	}
	_ = zlog.Sync()
}

// run owns every resource it opens, so all of them are released before it returns.
func run(cfg *config.Config, zlog *zap.Logger) error {
	db, err := database.Open(cfg.Database, zlog)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			zlog.Warn("failed to close database", zap.Error(err))
		}
	}()

	var publisher services.EventPublisher = services.NoopPublisher{}
	if cfg.RabbitMQ.Enabled {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQ.URL}, zlog)
		if err != nil {
			return fmt.Errorf("failed to initialize RabbitMQ client: %w", err)
		}
		defer func() {
			if err := mqClient.Close(); err != nil {
				zlog.Warn("failed to close RabbitMQ client", zap.Error(err))
			}
		}()
		publisher = mqClient

		eventLog := zlog.Named("order-events")
		if err := mqClient.ConsumeOrderEvents(func(msg amqp.Delivery) error {
			return services.HandleOrderEvent(eventLog, msg.Body)
		}); err != nil {
			zlog.Error("failed to start RabbitMQ consumer", zap.Error(err))
		}
	}

	settlement := services.NewSimulatedSettlement(cfg.Payment.Latency, cfg.Payment.DeclineRate, nil)

	app, authService := NewApp(Dependencies{
		Config:     cfg,
		DB:         db,
		Publisher:  publisher,
		Settlement: settlement,
		Log:        zlog,
	})

	if cfg.Admin.Username != "" {
		if err := authService.EnsureAdmin(context.Background(), cfg.Admin.Username, cfg.Admin.Email, cfg.Admin.Password); err != nil {
			return fmt.Errorf("failed to ensure admin account: %w", err)
		}
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		zlog.Info("starting server", zap.String("port", cfg.App.Port), zap.String("env", cfg.App.Env))
		serverErr <- app.Listen(cfg.App.Port)
	}()

	var listenErr error
	select {
	case <-quit:
		zlog.Info("shutting down server")
	case listenErr = <-serverErr:
	}

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		zlog.Error("error during shutdown", zap.Error(err))
	}
	zlog.Info("server gracefully stopped")
	return listenErr
}
