package models

// ============================================================
// SVG Elements
// ============================================================

type SVGElement struct {
	ID       string
	Type     string // room, balcony, door, window, furniture
	Geometry interface{}
}

type RectGeometry struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

type PathGeometry struct {
	D string
}

// ============================================================
// Geometry primitives
// ============================================================

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect это прямоугольник комнаты в метрах (x вправо, y вглубь плана).
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

func (r Rect) Right() float64  { return r.X + r.Width }
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Extent хранит габариты всего плана, от которых считаются внешние стены.
type Extent struct {
	Width  float64
	Height float64
}

// ============================================================
// Walls & openings
// ============================================================

type WallID string

const (
	WallNorth WallID = "north"
	WallSouth WallID = "south"
	WallEast  WallID = "east"
	WallWest  WallID = "west"
)

// Walls задаёт порядок обхода стен при построении геометрии.
var Walls = []WallID{WallNorth, WallSouth, WallEast, WallWest}

func (w WallID) Valid() bool {
	switch w {
	case WallNorth, WallSouth, WallEast, WallWest:
		return true
	}
	return false
}

type OpeningKind string

const (
	OpeningDoor   OpeningKind = "door"
	OpeningWindow OpeningKind = "window"
)

// ============================================================
// Room types
// ============================================================

type RoomType string

const (
	RoomLiving        RoomType = "living"
	RoomBedroom       RoomType = "bedroom"
	RoomMasterBedroom RoomType = "master_bedroom"
	RoomKitchen       RoomType = "kitchen"
	RoomBathroom      RoomType = "bathroom"
	RoomDining        RoomType = "dining"
	RoomOffice        RoomType = "office"
	RoomBalcony       RoomType = "balcony"
	RoomEntrance      RoomType = "entrance"
	RoomCorridor      RoomType = "corridor"
	RoomStorage       RoomType = "storage"
	RoomOther         RoomType = "other"
)

var RoomTypes = []RoomType{
	RoomLiving, RoomBedroom, RoomMasterBedroom, RoomKitchen, RoomBathroom, RoomDining,
	RoomOffice, RoomBalcony, RoomEntrance, RoomCorridor, RoomStorage, RoomOther,
}

func (t RoomType) Valid() bool {
	for _, known := range RoomTypes {
		if t == known {
			return true
		}
	}
	return false
}
