package main

import (
	"fmt"
	"log"
	"time"

	"planner3d/internal/common/config"
	"planner3d/internal/common/logger"
	"planner3d/internal/common/middleware"
	"planner3d/internal/gateway/handlers"
	"planner3d/internal/gateway/proxy"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"go.uber.org/zap"
)

// ============================================================
// API Gateway
// ============================================================

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zl, err := logger.New(cfg.LogLevel, cfg.LogFormat, "gateway")
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zl.Sync()

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "API Gateway",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger(zl))
	app.Use(middleware.CORS(cfg.CORSOrigins))

	// ============================================================
	// Health Check & Docs Routes
	// ============================================================

	converterURL := cfg.Gateway.ConverterURL

	app.Get("/health/live", handlers.LivenessCheck)
	app.Get("/health/ready", handlers.ReadinessCheck(converterURL))
	app.Get("/health/startup", handlers.StartupCheck)
	app.Get("/docs", handlers.SwaggerUI)
	app.Get("/docs/openapi.yaml", handlers.SwaggerSpec(cfg.Gateway.DocsPath))

	// ============================================================
	// API Routes
	// ============================================================

	p := proxy.New(zl, time.Duration(cfg.WriteTimeout)*time.Second)
	Routes(app.Group("/api/v1"), p, converterURL)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	zl.Info("starting API gateway", zap.String("addr", addr), zap.String("env", cfg.Environment), zap.String("converter", converterURL))

	if err := app.Listen(addr); err != nil {
		zl.Fatal("failed to start server", zap.Error(err))
	}
}
