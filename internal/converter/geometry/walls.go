package geometry

import (
	"math"
	"sort"

	"planner3d/internal/converter/models"
)

// ============================================================
// Wall Segmenter
// ============================================================

// SegmentWalls строит сплошные сегменты четырёх стен комнаты. Двери режут стену
// на части с перемычкой над проёмом, окна сплошность стены не нарушают.
func (e *Engine) SegmentWalls(room models.Rect, doors []models.Opening, wallHeight float64, extent models.Extent) []models.WallSegment {
	segments := make([]models.WallSegment, 0, len(models.Walls))
	for _, wall := range models.Walls {
		line := e.wallLine(wall, room)
		external := e.isExternal(wall, room, extent)
		segments = append(segments, e.segmentWall(line, openingsOn(doors, wall), wallHeight, external)...)
	}
	return segments
}

func (e *Engine) segmentWall(line wallLine, openings []models.Opening, wallHeight float64, external bool) []models.WallSegment {
	if len(openings) == 0 {
		return []models.WallSegment{line.segment(0, 1, 0, wallHeight, external)}
	}

	var out []models.WallSegment
	cursor := 0.0
	for _, o := range openings {
		half := o.WidthM / line.length / 2
		start, end := o.Position-half, o.Position+half

		if start > cursor {
			out = append(out, line.segment(cursor, start, 0, wallHeight, external))
		}
		if wallHeight-e.c.DoorHeight > e.c.MinLintelHeight {
			out = append(out, line.segment(start, end, e.c.DoorHeight, wallHeight, external))
		}
		// Курсор не откатывается назад: дверь внутри более широкой не открывает стену заново.
		cursor = math.Max(cursor, end)
	}
	if cursor < 1 {
		out = append(out, line.segment(cursor, 1, 0, wallHeight, external))
	}
	return out
}

// isExternal: стена внешняя, если край комнаты совпадает с границей плана.
func (e *Engine) isExternal(wall models.WallID, room models.Rect, extent models.Extent) bool {
	tol := e.c.EdgeTolerance
	switch wall {
	case models.WallNorth:
		return math.Abs(room.Y) < tol
	case models.WallSouth:
		return math.Abs(room.Bottom()-extent.Height) < tol
	case models.WallWest:
		return math.Abs(room.X) < tol
	case models.WallEast:
		return math.Abs(room.Right()-extent.Width) < tol
	}
	return false
}

// openingsOn отбирает проёмы одной стены и сортирует их по позиции, не трогая исходный срез.
func openingsOn(openings []models.Opening, wall models.WallID) []models.Opening {
	var out []models.Opening
	for _, o := range openings {
		if o.Wall == wall {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Position < out[j].Position
	})
	return out
}

// ============================================================
// Wall line
// ============================================================

// wallLine описывает ось стены: начало и длина вдоль стены, координата середины
// толщины по перпендикулярной оси.
type wallLine struct {
	wall      models.WallID
	origin    float64
	length    float64
	fixed     float64
	alongX    bool
	thickness float64
}

func (e *Engine) wallLine(wall models.WallID, room models.Rect) wallLine {
	t := e.c.WallThickness
	line := wallLine{wall: wall, thickness: t}
	switch wall {
	case models.WallNorth:
		line.alongX, line.origin, line.length, line.fixed = true, room.X, room.Width, room.Y-t/2
	case models.WallSouth:
		line.alongX, line.origin, line.length, line.fixed = true, room.X, room.Width, room.Bottom()+t/2
	case models.WallWest:
		line.origin, line.length, line.fixed = room.Y, room.Height, room.X-t/2
	case models.WallEast:
		line.origin, line.length, line.fixed = room.Y, room.Height, room.Right()+t/2
	}
	return line
}

// segment строит бокс для участка [from, to) в нормированных единицах и [bottom, top] по высоте.
func (l wallLine) segment(from, to, bottom, top float64, external bool) models.WallSegment {
	along := l.origin + (from+to)/2*l.length
	length := (to - from) * l.length
	height := top - bottom
	y := bottom + height/2

	seg := models.WallSegment{Wall: l.wall, IsExternal: external}
	if l.alongX {
		seg.Position = models.Vec3{along, y, l.fixed}
		seg.Size = models.Vec3{length, height, l.thickness}
	} else {
		seg.Position = models.Vec3{l.fixed, y, along}
		seg.Size = models.Vec3{l.thickness, height, length}
	}
	return seg
}
