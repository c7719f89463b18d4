package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/wichananm65/pharmacy-backend/internal/category"
	"github.com/wichananm65/pharmacy-backend/internal/config"
	"github.com/wichananm65/pharmacy-backend/internal/logger"
	"github.com/wichananm65/pharmacy-backend/internal/manufacturer"
	"github.com/wichananm65/pharmacy-backend/internal/metrics"
	"github.com/wichananm65/pharmacy-backend/internal/order"
	"github.com/wichananm65/pharmacy-backend/internal/product"
	"github.com/wichananm65/pharmacy-backend/internal/storage"
	"github.com/wichananm65/pharmacy-backend/internal/upload"
	"github.com/wichananm65/pharmacy-backend/internal/user"
)

func main() {
	cfg := config.MustLoad()

	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// prices go out as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := storage.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("open database", zap.Error(err))
	}
	defer db.Close()

	if err := storage.EnsureSchema(ctx, db); err != nil {
		log.Fatal("ensure schema", zap.Error(err))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewDBStatsCollector(db, "pharmacy"))
	m := metrics.New(reg)

	userRepo := user.NewPostgresRepository(db)
	userService := user.NewService(userRepo, cfg.JWTSecret)
	userHandler := user.NewHandler(userService, log)

	categoryRepo := category.NewPostgresRepository(db)
	categoryHandler := category.NewHandler(category.NewService(categoryRepo), log)

	manufacturerRepo := manufacturer.NewPostgresRepository(db)
	manufacturerHandler := manufacturer.NewHandler(manufacturer.NewService(manufacturerRepo), log)

	uploadService := upload.NewService(upload.NewPostgresRepository(db), int64(cfg.MaxUploadBytes))
	uploadHandler := upload.NewHandler(uploadService, log)

	productRepo := product.NewPostgresRepository(db)
	productService := product.NewService(productRepo, manufacturerRepo, categoryRepo, uploadService)
	productHandler := product.NewHandler(productService, log)

	orderService := order.NewService(userRepo, productRepo, order.NewPostgresRepository(db), storage.NewSQLBeginner(db), m, log)
	orderHandler := order.NewHandler(orderService, cfg.RequestTimeout)

	app := fiber.New(fiber.Config{
		BodyLimit:             cfg.MaxUploadBytes,
		DisableStartupMessage: cfg.IsProd(),
	})
	setupCORS(app, cfg.CORSOrigins)
	app.Use(logger.Middleware(log))
	app.Use(m.Middleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := db.PingContext(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", m.Handler())

	userHandler.RegisterPublicRoutes(app)
	categoryHandler.RegisterPublicRoutes(app)
	manufacturerHandler.RegisterPublicRoutes(app)
	productHandler.RegisterPublicRoutes(app)
	uploadHandler.RegisterPublicRoutes(app)

	app.Use(user.NewJWTMiddleware(cfg.JWTSecret))

	userHandler.RegisterProtectedRoutes(app)
	categoryHandler.RegisterProtectedRoutes(app)
	manufacturerHandler.RegisterProtectedRoutes(app)
	productHandler.RegisterProtectedRoutes(app)
	uploadHandler.RegisterProtectedRoutes(app)
	orderHandler.RegisterProtectedRoutes(app)

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
			log.Error("shutdown", zap.Error(err))
		}
	}()

	log.Info("listening", zap.String("addr", cfg.Addr), zap.String("env", cfg.Env))
	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func setupCORS(app *fiber.App, origins string) {
	app.Use(cors.New(cors.Config{
		AllowOrigins:  origins,
		AllowMethods:  "GET,POST,HEAD,PUT,DELETE",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders: "x-auth-token",
	}))
}
