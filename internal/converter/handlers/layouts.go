package handlers

import (
	"context"
	"encoding/json"

	"planner3d/internal/converter/models"
	"planner3d/internal/converter/repository"

	"github.com/gofiber/fiber/v3"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ============================================================
// Layout Handlers
// ============================================================

var (
	errBodyRequired  = errors.New("body required")
	errInvalidLayout = errors.New("invalid JSON payload")
)

// CreateLayout сохраняет план и возвращает его id.
func (h *Handler) CreateLayout(c fiber.Ctx) error {
	if _, err := decodeLayout(c.Body()); err != nil {
		return badRequest(c, err.Error())
	}

	stored, err := h.repo.Create(context.Background(), c.Body())
	if err != nil {
		h.log.Error("create layout", zap.Error(err))
		return internalError(c, "failed to save layout")
	}
	return c.Status(fiber.StatusCreated).JSON(stored)
}

func (h *Handler) UpdateLayout(c fiber.Ctx) error {
	if _, err := decodeLayout(c.Body()); err != nil {
		return badRequest(c, err.Error())
	}

	stored, err := h.repo.Update(context.Background(), c.Params("id"), c.Body())
	if err != nil {
		return h.storeError(c, "update layout", err)
	}
	return c.JSON(stored)
}

func (h *Handler) ListLayouts(c fiber.Ctx) error {
	list, err := h.repo.List(context.Background())
	if err != nil {
		h.log.Error("list layouts", zap.Error(err))
		return internalError(c, "failed to list layouts")
	}
	return c.JSON(list)
}

func (h *Handler) GetLayout(c fiber.Ctx) error {
	stored, err := h.repo.Get(context.Background(), c.Params("id"))
	if err != nil {
		return h.storeError(c, "get layout", err)
	}
	return c.JSON(stored)
}

func (h *Handler) DeleteLayout(c fiber.Ctx) error {
	if err := h.repo.Delete(context.Background(), c.Params("id")); err != nil {
		return h.storeError(c, "delete layout", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetLayout3D строит 3D для сохранённого плана.
func (h *Handler) GetLayout3D(c fiber.Ctx) error {
	stored, err := h.repo.Get(context.Background(), c.Params("id"))
	if err != nil {
		return h.storeError(c, "get layout", err)
	}
	heights, err := heightsFromQuery(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	var layout models.Layout
	if err := json.Unmarshal(stored.Data, &layout); err != nil {
		h.log.Error("stored layout is not valid JSON", zap.String("id", stored.ID), zap.Error(err))
		return internalError(c, "stored layout is corrupted")
	}
	return c.JSON(h.convert("stored", layout, heights))
}

func (h *Handler) storeError(c fiber.Ctx, op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "layout not found"})
	}
	h.log.Error(op, zap.String("id", c.Params("id")), zap.Error(err))
	return internalError(c, "storage error")
}
