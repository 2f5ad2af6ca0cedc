package handlers

import (
	"encoding/json"
	"strings"

	"planner3d/internal/converter/mapper"
	"planner3d/internal/converter/models"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

// ============================================================
// Convert Handlers
// ============================================================

// Convert строит 3D по JSON-плану из тела запроса.
func (h *Handler) Convert(c fiber.Ctx) error {
	layout, err := decodeLayout(c.Body())
	if err != nil {
		return badRequest(c, err.Error())
	}
	heights, err := heightsFromQuery(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	return c.JSON(h.convert("json", layout, heights))
}

// Import разбирает SVG из multipart/form-data в 2D-план, с ?convert=true сразу в 3D.
func (h *Handler) Import(c fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "file required in multipart/form-data")
	}
	heights, err := heightsFromQuery(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	importer := h.importer
	scale, err := positiveQuery(c, "scale")
	if err != nil {
		return badRequest(c, err.Error())
	}
	if scale > 0 {
		importer = mapper.NewImporter(scale)
	}

	f, err := file.Open()
	if err != nil {
		return internalError(c, "failed to open file")
	}
	defer f.Close()

	result, err := importer.Import(f)
	if err != nil {
		h.metrics.ImportFailed()
		h.log.Info("svg import rejected", zap.String("file", file.Filename), zap.Error(err))
		return badRequest(c, err.Error())
	}
	if len(result.Skipped) > 0 {
		h.metrics.ImportSkipped(len(result.Skipped))
		h.log.Warn("svg elements skipped", zap.String("file", file.Filename), zap.Strings("ids", result.Skipped))
		c.Set("X-Skipped-Elements", strings.Join(result.Skipped, ","))
	}

	if c.Query("convert") == "true" {
		return c.JSON(h.convert("svg", result.Layout, heights))
	}
	return c.JSON(result.Layout)
}

func decodeLayout(body []byte) (models.Layout, error) {
	var layout models.Layout
	if len(body) == 0 {
		return layout, errBodyRequired
	}
	if err := json.Unmarshal(body, &layout); err != nil {
		return layout, errInvalidLayout
	}
	return layout, nil
}
