package mapper

import (
	"io"
	"math"
	"strconv"
	"strings"

	"planner3d/internal/converter/models"
	"planner3d/internal/converter/parser"

	"github.com/pkg/errors"
)

// ============================================================
// SVG Importer
// ============================================================

// ErrNoRooms: в SVG не нашлось ни одной комнаты.
var ErrNoRooms = errors.New("svg contains no rooms")

// snapTolerance задаёт, насколько (в пикселях) дверь может отстоять от ближайшей стены,
// чтобы всё ещё резать стену соседней комнаты.
const snapTolerance = 15.0

type Importer struct {
	pixelsPerMeter float64
}

func NewImporter(pixelsPerMeter float64) *Importer {
	if pixelsPerMeter <= 0 {
		pixelsPerMeter = 50
	}
	return &Importer{pixelsPerMeter: pixelsPerMeter}
}

// ImportResult содержит план и id элементов, которые не удалось привязать к комнатам.
type ImportResult struct {
	Layout  models.Layout
	Skipped []string
}

type importedRoom struct {
	room models.Room
	box  models.RectGeometry
}

// Import строит 2D-план из SVG: комнаты по габаритам, проёмы по ближайшей стене,
// мебель по комнате, в которую попадает её центр.
func (im *Importer) Import(r io.Reader) (*ImportResult, error) {
	elements, err := parser.ParseSVG(r)
	if err != nil {
		return nil, errors.Wrap(err, "parse SVG")
	}

	result := &ImportResult{}
	var rooms []*importedRoom
	var doors, windows, furniture []models.SVGElement
	for _, elem := range elements {
		switch elem.Type {
		case "room", "balcony":
			box, ok := elementBox(elem)
			if !ok || box.Width <= 0 || box.Height <= 0 {
				result.Skipped = append(result.Skipped, elem.ID)
				continue
			}
			rooms = append(rooms, &importedRoom{
				room: models.Room{ID: elem.ID, Type: roomTypeFromID(elem.ID, elem.Type)},
				box:  box,
			})
		case "door":
			doors = append(doors, elem)
		case "window":
			windows = append(windows, elem)
		case "furniture":
			furniture = append(furniture, elem)
		}
	}
	if len(rooms) == 0 {
		return nil, ErrNoRooms
	}

	origin, far := planBounds(rooms)
	for _, ir := range rooms {
		ir.room.XM = models.Float((ir.box.X - origin.X) / im.pixelsPerMeter)
		ir.room.YM = models.Float((ir.box.Y - origin.Y) / im.pixelsPerMeter)
		ir.room.WidthM = models.Float(ir.box.Width / im.pixelsPerMeter)
		ir.room.HeightM = models.Float(ir.box.Height / im.pixelsPerMeter)
		ir.room.WidthPx = models.Float(ir.box.Width)
		ir.room.Furniture = []models.FurnitureItem{}
		ir.room.Doors = []models.Opening{}
		ir.room.Windows = []models.Opening{}
	}

	for _, door := range doors {
		if !im.attachOpening(door, models.OpeningDoor, rooms) {
			result.Skipped = append(result.Skipped, door.ID)
		}
	}
	for _, window := range windows {
		if !im.attachOpening(window, models.OpeningWindow, rooms) {
			result.Skipped = append(result.Skipped, window.ID)
		}
	}
	for _, item := range furniture {
		if !attachFurniture(item, rooms) {
			result.Skipped = append(result.Skipped, item.ID)
		}
	}

	layout := models.Layout{
		TotalWidthM:  models.Float((far.X - origin.X) / im.pixelsPerMeter),
		TotalHeightM: models.Float((far.Y - origin.Y) / im.pixelsPerMeter),
		Rooms:        make([]models.Room, 0, len(rooms)),
	}
	for _, ir := range rooms {
		layout.Rooms = append(layout.Rooms, ir.room)
	}
	result.Layout = layout
	return result, nil
}

// ============================================================
// Openings
// ============================================================

type wallHit struct {
	room   *importedRoom
	wall   models.WallID
	offset float64
	dist   float64
}

// attachOpening привязывает проём к ближайшей стене. Дверь дополнительно режет
// стены соседних комнат, если они почти так же близко.
func (im *Importer) attachOpening(elem models.SVGElement, kind models.OpeningKind, rooms []*importedRoom) bool {
	box, ok := elementBox(elem)
	if !ok {
		return false
	}
	center := models.Point{X: box.X + box.Width/2, Y: box.Y + box.Height/2}
	widthM := math.Max(box.Width, box.Height) / im.pixelsPerMeter

	hits := make([]wallHit, 0, len(rooms))
	best := -1
	for _, ir := range rooms {
		hit := nearestWall(center, ir)
		hits = append(hits, hit)
		if best < 0 || hit.dist < hits[best].dist {
			best = len(hits) - 1
		}
	}
	// Дальше метра от любой стены проём не принадлежит плану.
	if best < 0 || hits[best].dist > im.pixelsPerMeter {
		return false
	}

	for i, hit := range hits {
		if i != best && (kind == models.OpeningWindow || hit.dist > hits[best].dist+snapTolerance) {
			continue
		}
		opening := models.Opening{Wall: hit.wall, Position: hit.offset, WidthM: widthM}
		if kind == models.OpeningWindow {
			hit.room.room.Windows = append(hit.room.room.Windows, opening)
		} else {
			hit.room.room.Doors = append(hit.room.room.Doors, opening)
		}
	}
	return true
}

func nearestWall(p models.Point, ir *importedRoom) wallHit {
	b := ir.box
	edges := []struct {
		wall   models.WallID
		v1, v2 models.Point
	}{
		{models.WallNorth, models.Point{X: b.X, Y: b.Y}, models.Point{X: b.X + b.Width, Y: b.Y}},
		{models.WallSouth, models.Point{X: b.X, Y: b.Y + b.Height}, models.Point{X: b.X + b.Width, Y: b.Y + b.Height}},
		{models.WallWest, models.Point{X: b.X, Y: b.Y}, models.Point{X: b.X, Y: b.Y + b.Height}},
		{models.WallEast, models.Point{X: b.X + b.Width, Y: b.Y}, models.Point{X: b.X + b.Width, Y: b.Y + b.Height}},
	}

	hit := wallHit{room: ir, dist: math.MaxFloat64}
	for _, e := range edges {
		dist, offset := pointToLineDistance(p, e.v1, e.v2)
		if dist < hit.dist {
			hit.wall, hit.offset, hit.dist = e.wall, offset, dist
		}
	}
	return hit
}

func pointToLineDistance(p, v1, v2 models.Point) (float64, float64) {
	dx := v2.X - v1.X
	dy := v2.Y - v1.Y
	lineLen := math.Sqrt(dx*dx + dy*dy)

	if lineLen == 0 {
		return math.Hypot(p.X-v1.X, p.Y-v1.Y), 0
	}

	// Проекция точки на отрезок
	t := ((p.X-v1.X)*dx + (p.Y-v1.Y)*dy) / (lineLen * lineLen)
	t = math.Max(0, math.Min(1, t))

	projX := v1.X + t*dx
	projY := v1.Y + t*dy

	return math.Hypot(p.X-projX, p.Y-projY), t
}

// ============================================================
// Furniture
// ============================================================

func attachFurniture(elem models.SVGElement, rooms []*importedRoom) bool {
	box, ok := elementBox(elem)
	if !ok {
		return false
	}
	cx, cy := box.X+box.Width/2, box.Y+box.Height/2

	for _, ir := range rooms {
		b := ir.box
		if cx < b.X || cx > b.X+b.Width || cy < b.Y || cy > b.Y+b.Height {
			continue
		}
		ir.room.Furniture = append(ir.room.Furniture, models.FurnitureItem{
			Type:   furnitureTypeFromID(elem.ID),
			X:      box.X - b.X,
			Y:      box.Y - b.Y,
			Width:  box.Width,
			Height: box.Height,
		})
		return true
	}
	return false
}

// furnitureTypeFromID: Furniture_double_bed_2 → double_bed.
func furnitureTypeFromID(id string) string {
	name := strings.ToLower(strings.TrimPrefix(id, "Furniture_"))
	if i := strings.LastIndex(name, "_"); i > 0 {
		if _, err := strconv.Atoi(name[i+1:]); err == nil {
			name = name[:i]
		}
	}
	return name
}

// ============================================================
// Room types
// ============================================================

var roomTypeAliases = map[string]models.RoomType{
	"hall":     models.RoomLiving,
	"lounge":   models.RoomLiving,
	"master":   models.RoomMasterBedroom,
	"bath":     models.RoomBathroom,
	"toilet":   models.RoomBathroom,
	"wc":       models.RoomBathroom,
	"study":    models.RoomOffice,
	"cabinet":  models.RoomOffice,
	"hallway":  models.RoomCorridor,
	"foyer":    models.RoomEntrance,
	"pantry":   models.RoomStorage,
	"closet":   models.RoomStorage,
	"loggia":   models.RoomBalcony,
	"terrace":  models.RoomBalcony,
	"bedroom":  models.RoomBedroom,
	"kitchen":  models.RoomKitchen,
	"dining":   models.RoomDining,
	"office":   models.RoomOffice,
	"corridor": models.RoomCorridor,
	"storage":  models.RoomStorage,
	"entrance": models.RoomEntrance,
	"living":   models.RoomLiving,
	"bathroom": models.RoomBathroom,
	"balcony":  models.RoomBalcony,
}

// roomTypeFromID: Room_master_bedroom_1 → master_bedroom, Toilet_room → bathroom.
func roomTypeFromID(id, elemType string) models.RoomType {
	if elemType == "balcony" {
		return models.RoomBalcony
	}
	name := strings.ToLower(id)
	name = strings.TrimPrefix(name, "room_")
	name = strings.TrimSuffix(name, "_room")

	if t := models.RoomType(name); t.Valid() {
		return t
	}
	tokens := strings.Split(name, "_")
	if len(tokens) > 1 {
		if t := models.RoomType(strings.Join(tokens[:len(tokens)-1], "_")); t.Valid() {
			return t
		}
	}
	for _, token := range tokens {
		if t, ok := roomTypeAliases[token]; ok {
			return t
		}
	}
	return models.RoomOther
}

// ============================================================
// Geometry helpers
// ============================================================

func elementBox(elem models.SVGElement) (models.RectGeometry, bool) {
	switch geom := elem.Geometry.(type) {
	case models.RectGeometry:
		return geom, true
	case models.PathGeometry:
		points, err := parser.ParsePath(geom.D)
		if err != nil {
			return models.RectGeometry{}, false
		}
		return parser.Bounds(points), true
	}
	return models.RectGeometry{}, false
}

func planBounds(rooms []*importedRoom) (models.Point, models.Point) {
	origin := models.Point{X: math.MaxFloat64, Y: math.MaxFloat64}
	far := models.Point{X: -math.MaxFloat64, Y: -math.MaxFloat64}
	for _, ir := range rooms {
		origin.X = math.Min(origin.X, ir.box.X)
		origin.Y = math.Min(origin.Y, ir.box.Y)
		far.X = math.Max(far.X, ir.box.X+ir.box.Width)
		far.Y = math.Max(far.Y, ir.box.Y+ir.box.Height)
	}
	return origin, far
}
