package geometry

import "planner3d/internal/converter/models"

// ============================================================
// Furniture Placer
// ============================================================

// PlaceFurniture переводит мебель из пиксельных координат комнаты в мировые метры
// и прижимает её внутрь стен с отступом. Высота берётся из таблицы, wallHeight на неё
// не влияет. Без ширины комнаты масштаб не определить, тогда результат пустой.
func (e *Engine) PlaceFurniture(items []models.FurnitureItem, room models.Room, wallHeight float64) []models.Furniture3D {
	out := make([]models.Furniture3D, 0, len(items))
	if room.WidthM == nil || *room.WidthM <= 0 {
		return out
	}

	x0, y0 := deref(room.XM), deref(room.YM)
	width, depth := *room.WidthM, deref(room.HeightM)
	scale := e.scale(room)
	inset := e.c.WallThickness/2 + e.c.FurniturePadding

	for _, item := range items {
		dims := e.c.FurnitureDimensions(item.Type)

		cx := x0 + (item.X+item.Width/2)/scale
		cz := y0 + (item.Y+item.Height/2)/scale

		cx = clamp(cx, x0+inset+dims.Width/2, x0+width-inset-dims.Width/2)
		cz = clamp(cz, y0+inset+dims.Depth/2, y0+depth-inset-dims.Depth/2)

		out = append(out, models.Furniture3D{
			Type:     item.Type,
			Position: models.Vec3{cx, dims.Height / 2, cz},
			Size:     models.Vec3{dims.Width, dims.Height, dims.Depth},
		})
	}
	return out
}

// scale возвращает пиксели на метр: из width_px комнаты, иначе значение по умолчанию.
func (e *Engine) scale(room models.Room) float64 {
	if room.WidthPx != nil && *room.WidthPx > 0 && room.WidthM != nil && *room.WidthM > 0 {
		return *room.WidthPx / *room.WidthM
	}
	return e.c.PixelsPerMeter
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
