package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"planner3d/internal/common/config"
	"planner3d/internal/common/logger"
	"planner3d/internal/common/middleware"
	"planner3d/internal/converter/geometry"
	"planner3d/internal/converter/handlers"
	"planner3d/internal/converter/metrics"
	"planner3d/internal/converter/repository"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"go.uber.org/zap"
)

// ============================================================
// Converter Service
// ============================================================

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zl, err := logger.New(cfg.LogLevel, cfg.LogFormat, "converter")
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zl.Sync()

	consts := geometry.Default()
	if cfg.Converter.TablesPath != "" {
		if consts, err = geometry.LoadFile(cfg.Converter.TablesPath, consts); err != nil {
			zl.Fatal("load geometry tables", zap.String("path", cfg.Converter.TablesPath), zap.Error(err))
		}
		zl.Info("geometry tables loaded", zap.String("path", cfg.Converter.TablesPath))
	}

	db, err := repository.OpenSQLite(cfg.Converter.DBPath)
	if err != nil {
		zl.Fatal("open db", zap.Error(err))
	}
	defer db.Close()

	repo := repository.New(db)
	if err := repo.Init(context.Background()); err != nil {
		zl.Fatal("init db", zap.Error(err))
	}

	handler := handlers.New(handlers.Deps{
		Engine:         geometry.NewEngine(consts),
		Repo:           repo,
		Metrics:        metrics.New(),
		Log:            zl,
		PixelsPerMeter: cfg.Converter.PixelsPerMeter,
		Workers:        cfg.Converter.Workers,
	})

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "Converter Service",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger(zl))
	app.Use(middleware.CORS(cfg.CORSOrigins))

	// ============================================================
	// Routes
	// ============================================================

	handler.Register(app)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Converter.Port)
	zl.Info("starting converter service", zap.String("addr", addr), zap.String("env", cfg.Environment))

	if err := app.Listen(addr); err != nil {
		zl.Fatal("failed to start server", zap.Error(err))
	}
}
