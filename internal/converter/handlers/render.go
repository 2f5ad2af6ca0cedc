package handlers

import (
	"planner3d/internal/converter/mapper"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

// ============================================================
// Render Handlers
// ============================================================

// Render строит 3D и отдаёт вид сверху в SVG.
func (h *Handler) Render(c fiber.Ctx) error {
	layout, err := decodeLayout(c.Body())
	if err != nil {
		return badRequest(c, err.Error())
	}
	heights, err := heightsFromQuery(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	renderer := h.renderer
	scale, err := positiveQuery(c, "scale")
	if err != nil {
		return badRequest(c, err.Error())
	}
	if scale > 0 {
		renderer = mapper.NewRenderer(h.consts, scale)
	}

	svg, err := renderer.Render(h.convert("render", layout, heights))
	if err != nil {
		h.log.Info("render rejected", zap.Error(err))
		return badRequest(c, err.Error())
	}

	c.Set("Content-Type", "image/svg+xml")
	return c.SendString(svg)
}

// Materials отдаёт таблицы цветов и материалов для 3D-рендера.
func (h *Handler) Materials(c fiber.Ctx) error {
	return c.JSON(h.consts)
}
