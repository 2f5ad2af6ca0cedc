package geometry

import (
	"math"

	"planner3d/internal/converter/models"
)

// ============================================================
// Opening Projector
// ============================================================

// wallRotations задаёт поворот вокруг вертикальной оси, чтобы тонкая сторона проёма смотрела наружу.
var wallRotations = map[models.WallID]models.Vec3{
	models.WallNorth: {0, 0, 0},
	models.WallSouth: {0, math.Pi, 0},
	models.WallEast:  {0, -math.Pi / 2, 0},
	models.WallWest:  {0, math.Pi / 2, 0},
}

// ProjectOpening ставит дверь или окно на плоскость своей стены.
// Для неизвестной стены возвращает false.
func (e *Engine) ProjectOpening(o models.Opening, room models.Rect, kind models.OpeningKind) (models.Opening3D, bool) {
	rotation, ok := wallRotations[o.Wall]
	if !ok {
		return models.Opening3D{}, false
	}

	var x, z float64
	switch o.Wall {
	case models.WallNorth:
		x, z = room.X+o.Position*room.Width, room.Y
	case models.WallSouth:
		x, z = room.X+o.Position*room.Width, room.Bottom()
	case models.WallWest:
		x, z = room.X, room.Y+o.Position*room.Height
	case models.WallEast:
		x, z = room.Right(), room.Y+o.Position*room.Height
	}

	out := models.Opening3D{Kind: kind, Wall: o.Wall, Rotation: rotation}
	if kind == models.OpeningWindow {
		out.Position = models.Vec3{x, e.c.WindowSill + e.c.WindowHeight/2, z}
		out.Size = models.Vec3{e.c.WindowDepth, e.c.WindowHeight, o.WidthM}
		return out, true
	}
	out.Position = models.Vec3{x, e.c.DoorHeight / 2, z}
	out.Size = models.Vec3{o.WidthM, e.c.DoorHeight, e.c.DoorThickness}
	return out, true
}
