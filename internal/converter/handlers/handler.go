package handlers

import (
	"context"
	"strconv"
	"time"

	"planner3d/internal/converter/geometry"
	"planner3d/internal/converter/mapper"
	"planner3d/internal/converter/metrics"
	"planner3d/internal/converter/models"
	"planner3d/internal/converter/repository"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ============================================================
// Converter Handler
// ============================================================

type Handler struct {
	converter *mapper.Converter
	importer  *mapper.Importer
	renderer  *mapper.Renderer
	repo      *repository.Repository
	consts    geometry.Constants
	metrics   *metrics.Metrics
	log       *zap.Logger
}

type Deps struct {
	Engine         *geometry.Engine
	Repo           *repository.Repository
	Metrics        *metrics.Metrics
	Log            *zap.Logger
	PixelsPerMeter float64
	Workers        int
}

func New(d Deps) *Handler {
	consts := d.Engine.Constants()
	return &Handler{
		converter: mapper.New(d.Engine, mapper.WithWorkers(d.Workers)),
		importer:  mapper.NewImporter(d.PixelsPerMeter),
		renderer:  mapper.NewRenderer(consts, 0),
		repo:      d.Repo,
		consts:    consts,
		metrics:   d.Metrics,
		log:       d.Log.Named("converter"),
	}
}

// Register вешает маршруты сервиса на роутер.
func (h *Handler) Register(r fiber.Router) {
	r.Get("/health/live", h.Live)
	r.Get("/health/ready", h.Ready)
	r.Get("/metrics", adaptor.HTTPHandler(h.metrics.Handler()))

	r.Post("/convert", h.Convert)
	r.Post("/import", h.Import)
	r.Post("/render", h.Render)
	r.Get("/materials", h.Materials)

	r.Get("/layouts", h.ListLayouts)
	r.Post("/layouts", h.CreateLayout)
	r.Get("/layouts/:id", h.GetLayout)
	r.Put("/layouts/:id", h.UpdateLayout)
	r.Delete("/layouts/:id", h.DeleteLayout)
	r.Get("/layouts/:id/3d", h.GetLayout3D)
}

// ============================================================
// Health
// ============================================================

func (h *Handler) Live(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "alive"})
}

func (h *Handler) Ready(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := h.repo.Ping(ctx); err != nil {
		h.log.Error("readiness check failed", zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
	}
	return c.JSON(fiber.Map{"status": "ready"})
}

// ============================================================
// Shared helpers
// ============================================================

// convert строит 3D, пишет метрики и логирует комнаты-заглушки.
func (h *Handler) convert(source string, layout models.Layout, heights mapper.Heights) models.Layout3D {
	start := time.Now()
	result := h.converter.ConvertLayout(layout, heights)
	h.metrics.ObserveConversion(source, result, time.Since(start))

	for _, room := range result.Degraded() {
		h.log.Warn("room replaced with placeholder",
			zap.String("source", source),
			zap.String("room_id", room.Room.ID),
			zap.String("reason", room.Outcome.Reason),
		)
	}
	return result
}

func heightsFromQuery(c fiber.Ctx) (mapper.Heights, error) {
	var h mapper.Heights
	var err error
	if h.Wall, err = positiveQuery(c, "wallHeight"); err != nil {
		return h, err
	}
	if h.Ceiling, err = positiveQuery(c, "ceilingHeight"); err != nil {
		return h, err
	}
	return h, nil
}

// positiveQuery читает необязательный положительный параметр; 0 означает, что параметр не задан.
func positiveQuery(c fiber.Ctx, key string) (float64, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 {
		return 0, errors.Errorf("%s must be a positive number", key)
	}
	return v, nil
}

func badRequest(c fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

func internalError(c fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": msg})
}
