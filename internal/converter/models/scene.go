package models

import (
	"encoding/json"

	"github.com/tidwall/sjson"
)

// ============================================================
// 3D records (output)
// ============================================================

// Vec3 это (x, y, z) в метрах, y направлена вверх. В JSON пишется массивом.
type Vec3 [3]float64

func (v Vec3) X() float64 { return v[0] }
func (v Vec3) Y() float64 { return v[1] }
func (v Vec3) Z() float64 { return v[2] }

type Box struct {
	Position Vec3 `json:"position"`
	Size     Vec3 `json:"size"`
}

type WallSegment struct {
	Wall       WallID `json:"wall"`
	Position   Vec3   `json:"position"`
	Size       Vec3   `json:"size"`
	IsExternal bool   `json:"isExternal"`
}

type Furniture3D struct {
	Type     string `json:"type"`
	Position Vec3   `json:"position"`
	Size     Vec3   `json:"size"`
}

type Opening3D struct {
	Kind     OpeningKind `json:"kind"`
	Wall     WallID      `json:"wall"`
	Position Vec3        `json:"position"`
	Size     Vec3        `json:"size"`
	Rotation Vec3        `json:"rotation"`
}

type RoomGeometry struct {
	Floor   Box           `json:"floor"`
	Ceiling Box           `json:"ceiling"`
	Walls   []WallSegment `json:"walls"`
}

// ============================================================
// Conversion outcome
// ============================================================

type OutcomeKind int

const (
	Converted OutcomeKind = iota
	Degraded
)

func (k OutcomeKind) String() string {
	if k == Degraded {
		return "degraded"
	}
	return "converted"
}

// Outcome отличает настоящую геометрию от заглушки. В JSON не выводится.
type Outcome struct {
	Kind   OutcomeKind
	Reason string
}

func (o Outcome) IsDegraded() bool { return o.Kind == Degraded }

// ============================================================
// Room3D / Layout3D
// ============================================================

// Room3D: исходная комната плюс построенная геометрия.
type Room3D struct {
	Room          Room          `json:"-"`
	Geometry      RoomGeometry  `json:"geometry"`
	Furniture3D   []Furniture3D `json:"furniture3D"`
	Doors3D       []Opening3D   `json:"doors3D"`
	Windows3D     []Opening3D   `json:"windows3D"`
	WallHeight    float64       `json:"wallHeight"`
	CeilingHeight float64       `json:"ceilingHeight"`
	Outcome       Outcome       `json:"-"`
}

// MarshalJSON дописывает производные поля в исходный объект комнаты,
// остальные поля остаются как были.
func (r Room3D) MarshalJSON() ([]byte, error) {
	out, err := json.Marshal(r.Room)
	if err != nil {
		return nil, err
	}
	derived := []struct {
		key   string
		value any
	}{
		{"geometry", r.Geometry},
		{"furniture3D", r.Furniture3D},
		{"doors3D", r.Doors3D},
		{"windows3D", r.Windows3D},
		{"wallHeight", r.WallHeight},
		{"ceilingHeight", r.CeilingHeight},
	}
	for _, field := range derived {
		if out, err = sjson.SetBytes(out, field.key, field.value); err != nil {
			return nil, err
		}
	}
	return out, nil
}

type Layout3D struct {
	Layout Layout   `json:"-"`
	Rooms  []Room3D `json:"rooms"`
}

func (l Layout3D) MarshalJSON() ([]byte, error) {
	out, err := json.Marshal(l.Layout)
	if err != nil {
		return nil, err
	}
	rooms := l.Rooms
	if rooms == nil {
		rooms = []Room3D{}
	}
	return sjson.SetBytes(out, "rooms", rooms)
}

// Degraded возвращает комнаты, построенные как заглушки.
func (l Layout3D) Degraded() []Room3D {
	var out []Room3D
	for _, room := range l.Rooms {
		if room.Outcome.IsDegraded() {
			out = append(out, room)
		}
	}
	return out
}
