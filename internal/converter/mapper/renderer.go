package mapper

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"planner3d/internal/converter/geometry"
	"planner3d/internal/converter/models"

	"github.com/pkg/errors"
)

// ============================================================
// Renderer
// ============================================================

// Renderer рисует вид сверху на построенный 3D-план: x → x, z → y.
type Renderer struct {
	consts         geometry.Constants
	pixelsPerMeter float64
	margin         float64
}

func NewRenderer(consts geometry.Constants, pixelsPerMeter float64) *Renderer {
	if pixelsPerMeter <= 0 {
		pixelsPerMeter = consts.PixelsPerMeter
	}
	return &Renderer{consts: consts.Clone(), pixelsPerMeter: pixelsPerMeter, margin: 0.5}
}

// Render собирает SVG из Layout3D.
func (r *Renderer) Render(layout models.Layout3D) (string, error) {
	if len(layout.Rooms) == 0 {
		return "", errors.New("layout has no rooms")
	}

	minX, minZ, maxX, maxZ := r.bounds(layout)
	if minX > maxX {
		return "", errors.New("layout has no buildable rooms")
	}
	width := (maxX - minX + 2*r.margin) * r.pixelsPerMeter
	height := (maxZ - minZ + 2*r.margin) * r.pixelsPerMeter
	offX, offZ := minX-r.margin, minZ-r.margin

	var elements []string
	for _, room := range layout.Rooms {
		if room.Outcome.IsDegraded() {
			continue
		}
		elements = append(elements, r.renderFloor(room, offX, offZ))
	}
	for _, room := range layout.Rooms {
		elements = append(elements, r.renderWalls(room, offX, offZ)...)
	}
	for _, room := range layout.Rooms {
		elements = append(elements, r.renderFurniture(room, offX, offZ)...)
		elements = append(elements, r.renderOpenings(room, offX, offZ)...)
	}

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`,
		formatFloat(width), formatFloat(height), formatFloat(width), formatFloat(height)))
	builder.WriteString("\n")

	for _, elem := range elements {
		builder.WriteString("  ")
		builder.WriteString(elem)
		builder.WriteString("\n")
	}

	builder.WriteString(`</svg>`)
	return builder.String(), nil
}

// ============================================================
// Sizing
// ============================================================

func (r *Renderer) bounds(layout models.Layout3D) (minX, minZ, maxX, maxZ float64) {
	minX, minZ = math.MaxFloat64, math.MaxFloat64
	maxX, maxZ = -math.MaxFloat64, -math.MaxFloat64

	extend := func(pos, size models.Vec3) {
		minX = math.Min(minX, pos.X()-size.X()/2)
		maxX = math.Max(maxX, pos.X()+size.X()/2)
		minZ = math.Min(minZ, pos.Z()-size.Z()/2)
		maxZ = math.Max(maxZ, pos.Z()+size.Z()/2)
	}
	// Заглушки стоят в начале координат и не должны растягивать картинку.
	for _, room := range layout.Rooms {
		if room.Outcome.IsDegraded() {
			continue
		}
		extend(room.Geometry.Floor.Position, room.Geometry.Floor.Size)
		for _, wall := range room.Geometry.Walls {
			extend(wall.Position, wall.Size)
		}
	}
	return minX, minZ, maxX, maxZ
}

// ============================================================
// Element renderers
// ============================================================

func (r *Renderer) renderFloor(room models.Room3D, offX, offZ float64) string {
	floor := room.Geometry.Floor
	return r.rect(room.Room.ID, floor.Position, floor.Size.X(), floor.Size.Z(), offX, offZ,
		fmt.Sprintf(`fill="%s" stroke="none"`, r.consts.FloorColor(room.Room.Type)))
}

func (r *Renderer) renderWalls(room models.Room3D, offX, offZ float64) []string {
	out := make([]string, 0, len(room.Geometry.Walls))
	for i, wall := range room.Geometry.Walls {
		material := r.consts.WallMaterial(wall.IsExternal)
		id := fmt.Sprintf("%s_%s_%d", room.Room.ID, wall.Wall, i)
		out = append(out, r.rect(id, wall.Position, wall.Size.X(), wall.Size.Z(), offX, offZ,
			fmt.Sprintf(`fill="%s" fill-opacity="%s" stroke="#333"`, material.Color, formatFloat(material.Opacity))))
	}
	return out
}

func (r *Renderer) renderFurniture(room models.Room3D, offX, offZ float64) []string {
	out := make([]string, 0, len(room.Furniture3D))
	for i, item := range room.Furniture3D {
		id := fmt.Sprintf("%s_%s_%d", room.Room.ID, item.Type, i)
		out = append(out, r.rect(id, item.Position, item.Size.X(), item.Size.Z(), offX, offZ,
			fmt.Sprintf(`fill="%s" fill-opacity="0.6" stroke="#000"`, r.consts.FurnitureColor)))
	}
	return out
}

func (r *Renderer) renderOpenings(room models.Room3D, offX, offZ float64) []string {
	var out []string
	openings := append(append([]models.Opening3D{}, room.Doors3D...), room.Windows3D...)
	for i, o := range openings {
		along, across := o.Size.X(), o.Size.Z()
		if o.Kind == models.OpeningWindow {
			along, across = o.Size.Z(), o.Size.X()
		}
		w, h := along, across
		if o.Wall == models.WallEast || o.Wall == models.WallWest {
			w, h = across, along
		}

		stroke := "#1f77b4"
		if o.Kind == models.OpeningDoor {
			stroke = "#d62728"
		}
		id := fmt.Sprintf("%s_%s_%d", room.Room.ID, o.Kind, i)
		out = append(out, r.rect(id, o.Position, w, h, offX, offZ,
			fmt.Sprintf(`fill="none" stroke="%s"`, stroke)))
	}
	return out
}

// rect рисует прямоугольник с центром в pos (в метрах).
func (r *Renderer) rect(id string, pos models.Vec3, w, h, offX, offZ float64, style string) string {
	x := (pos.X() - w/2 - offX) * r.pixelsPerMeter
	y := (pos.Z() - h/2 - offZ) * r.pixelsPerMeter
	return fmt.Sprintf(`<rect id="%s" x="%s" y="%s" width="%s" height="%s" %s />`,
		id, formatFloat(x), formatFloat(y), formatFloat(w*r.pixelsPerMeter), formatFloat(h*r.pixelsPerMeter), style)
}

// ============================================================
// Formatting helpers
// ============================================================

func formatFloat(val float64) string {
	return strconv.FormatFloat(math.Round(val*1000)/1000, 'f', -1, 64)
}
