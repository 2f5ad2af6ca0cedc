package mapper

import (
	"planner3d/internal/converter/geometry"
	"planner3d/internal/converter/models"

	"golang.org/x/sync/errgroup"
)

// ============================================================
// Converter
// ============================================================

type Converter struct {
	engine  *geometry.Engine
	consts  geometry.Constants
	workers int
}

type Option func(*Converter)

// WithWorkers задаёт число комнат, обрабатываемых параллельно. При 0 и 1 последовательно.
func WithWorkers(n int) Option {
	return func(c *Converter) {
		c.workers = n
	}
}

func New(engine *geometry.Engine, opts ...Option) *Converter {
	c := &Converter{engine: engine, consts: engine.Constants(), workers: 1}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Heights задаёт высоты стен и потолка, нулевые значения берутся из таблиц движка.
type Heights struct {
	Wall    float64
	Ceiling float64
}

// ConvertLayout строит 3D для каждой комнаты плана. Порядок комнат и поля плана сохраняются.
func (c *Converter) ConvertLayout(layout models.Layout, h Heights) models.Layout3D {
	if h.Wall == 0 {
		h.Wall = c.consts.WallHeight
	}
	if h.Ceiling == 0 {
		h.Ceiling = c.consts.CeilingHeight
	}

	rooms := make([]models.Room3D, len(layout.Rooms))
	if c.workers <= 1 || len(layout.Rooms) < 2 {
		for i, room := range layout.Rooms {
			rooms[i] = c.ConvertRoom(room, h.Wall, h.Ceiling, layout)
		}
		return models.Layout3D{Layout: layout, Rooms: rooms}
	}

	var g errgroup.Group
	g.SetLimit(c.workers)
	for i := range layout.Rooms {
		g.Go(func() error {
			rooms[i] = c.ConvertRoom(layout.Rooms[i], h.Wall, h.Ceiling, layout)
			return nil
		})
	}
	_ = g.Wait()

	return models.Layout3D{Layout: layout, Rooms: rooms}
}

// ConvertRoom собирает пол, потолок, стены, мебель и проёмы комнаты.
// Комната без обязательных размеров превращается в заглушку 1×1 в начале координат.
func (c *Converter) ConvertRoom(room models.Room, wallHeight, ceilingHeight float64, layout models.Layout) models.Room3D {
	rect, reason := room.Rect()
	if reason != "" {
		return c.placeholder(room, wallHeight, ceilingHeight, reason)
	}

	center := func(y float64) models.Vec3 {
		return models.Vec3{rect.X + rect.Width/2, y, rect.Y + rect.Height/2}
	}
	slab := models.Vec3{rect.Width, c.consts.FloorThickness, rect.Height}

	return models.Room3D{
		Room: room,
		Geometry: models.RoomGeometry{
			Floor:   models.Box{Position: center(0), Size: slab},
			Ceiling: models.Box{Position: center(ceilingHeight), Size: slab},
			Walls:   c.engine.SegmentWalls(rect, room.Doors, wallHeight, layout.Extent(rect)),
		},
		Furniture3D:   c.engine.PlaceFurniture(room.FurnitureList(), room, wallHeight),
		Doors3D:       c.projectAll(room.Doors, rect, models.OpeningDoor),
		Windows3D:     c.projectAll(room.Windows, rect, models.OpeningWindow),
		WallHeight:    wallHeight,
		CeilingHeight: ceilingHeight,
		Outcome:       models.Outcome{Kind: models.Converted},
	}
}

func (c *Converter) projectAll(openings []models.Opening, rect models.Rect, kind models.OpeningKind) []models.Opening3D {
	out := make([]models.Opening3D, 0, len(openings))
	for _, o := range openings {
		if projected, ok := c.engine.ProjectOpening(o, rect, kind); ok {
			out = append(out, projected)
		}
	}
	return out
}

func (c *Converter) placeholder(room models.Room, wallHeight, ceilingHeight float64, reason string) models.Room3D {
	slab := models.Vec3{1, c.consts.FloorThickness, 1}
	return models.Room3D{
		Room: room,
		Geometry: models.RoomGeometry{
			Floor:   models.Box{Position: models.Vec3{0, 0, 0}, Size: slab},
			Ceiling: models.Box{Position: models.Vec3{0, ceilingHeight, 0}, Size: slab},
			Walls:   []models.WallSegment{},
		},
		Furniture3D:   []models.Furniture3D{},
		Doors3D:       []models.Opening3D{},
		Windows3D:     []models.Opening3D{},
		WallHeight:    wallHeight,
		CeilingHeight: ceilingHeight,
		Outcome:       models.Outcome{Kind: models.Degraded, Reason: reason},
	}
}
