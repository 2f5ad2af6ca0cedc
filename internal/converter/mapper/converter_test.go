package mapper

import (
	"encoding/json"
	"testing"

	"planner3d/internal/converter/geometry"
	"planner3d/internal/converter/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

const eps = 1e-9

const threeRooms = `{
	"name": "Flat 12",
	"total_width_m": 7,
	"total_height_m": 5,
	"rooms": [
		{"id": "living", "type": "living", "label": "Гостиная", "x_m": 0, "y_m": 0, "width_m": 4, "height_m": 3,
		 "doors": [{"wall": "east", "position": 0.5, "width_m": 0.9}],
		 "windows": [{"wall": "north", "position": 0.5, "width_m": 1.2}],
		 "furniture": [{"type": "sofa", "x": 50, "y": 50, "width": 100, "height": 45}]},
		{"id": "kitchen", "type": "kitchen", "x_m": 4, "y_m": 0, "width_m": 3, "height_m": 3, "width_px": 150,
		 "furniture_items": [{"type": "fridge", "x": 10, "y": 10, "width": 35, "height": 35}]},
		{"id": "hall", "type": "corridor", "area": 14, "x_m": 0, "y_m": 3, "width_m": 7, "height_m": 2}
	]
}`

func decodeLayout(t *testing.T, data string) models.Layout {
	t.Helper()
	var layout models.Layout
	require.NoError(t, json.Unmarshal([]byte(data), &layout))
	return layout
}

func newConverter(opts ...Option) *Converter {
	return New(geometry.NewEngine(geometry.Default()), opts...)
}

func TestConvertLayout_PreservesOrderAndFields(t *testing.T) {
	c := newConverter()
	out := c.ConvertLayout(decodeLayout(t, threeRooms), Heights{})
	require.Len(t, out.Rooms, 3)

	data, err := json.Marshal(out)
	require.NoError(t, err)

	assert.Equal(t, "Flat 12", gjson.GetBytes(data, "name").String())
	assert.Equal(t, `["living","kitchen","hall"]`, gjson.GetBytes(data, "rooms.#.id").Raw)
	assert.Equal(t, "Гостиная", gjson.GetBytes(data, "rooms.0.label").String())
	assert.Equal(t, int64(14), gjson.GetBytes(data, "rooms.2.area").Int())

	for _, key := range []string{"geometry", "furniture3D", "doors3D", "windows3D", "wallHeight", "ceilingHeight"} {
		assert.True(t, gjson.GetBytes(data, "rooms.1."+key).Exists(), key)
	}
	assert.Equal(t, 2.7, gjson.GetBytes(data, "rooms.0.wallHeight").Float())
	assert.Equal(t, int64(1), gjson.GetBytes(data, "rooms.1.furniture3D.#").Int())
	assert.Equal(t, "fridge", gjson.GetBytes(data, "rooms.1.furniture3D.0.type").String())
}

func TestConvertRoom_Geometry(t *testing.T) {
	c := newConverter()
	layout := decodeLayout(t, threeRooms)

	room := c.ConvertRoom(layout.Rooms[0], 2.5, 2.6, layout)
	assert.False(t, room.Outcome.IsDegraded())

	assert.InDeltaSlice(t, []float64{2, 0, 1.5}, room.Geometry.Floor.Position[:], eps)
	assert.InDeltaSlice(t, []float64{4, 0.1, 3}, room.Geometry.Floor.Size[:], eps)
	assert.InDeltaSlice(t, []float64{2, 2.6, 1.5}, room.Geometry.Ceiling.Position[:], eps)

	// Дверь на восточной стене режет её на три части.
	assert.Len(t, room.Geometry.Walls, 6)
	require.Len(t, room.Doors3D, 1)
	require.Len(t, room.Windows3D, 1)
	require.Len(t, room.Furniture3D, 1)
	assert.Equal(t, 2.5, room.WallHeight)
	assert.Equal(t, 2.6, room.CeilingHeight)
}

func TestConvertRoom_Placeholder(t *testing.T) {
	c := newConverter()
	layout := decodeLayout(t, `{"rooms": [{"id": "broken", "type": "other", "x_m": 1, "y_m": 1, "width_m": 3,
		"doors": [{"wall": "north", "position": 0.5, "width_m": 0.9}]}]}`)

	out := c.ConvertLayout(layout, Heights{})
	require.Len(t, out.Rooms, 1)
	room := out.Rooms[0]

	assert.True(t, room.Outcome.IsDegraded())
	assert.Contains(t, room.Outcome.Reason, "height_m")
	assert.Equal(t, models.Vec3{0, 0, 0}, room.Geometry.Floor.Position)
	assert.InDeltaSlice(t, []float64{1, 0.1, 1}, room.Geometry.Floor.Size[:], eps)
	assert.InDeltaSlice(t, []float64{0, 2.7, 0}, room.Geometry.Ceiling.Position[:], eps)
	assert.Empty(t, room.Geometry.Walls)
	assert.Empty(t, room.Doors3D)
	assert.Len(t, out.Degraded(), 1)

	data, err := json.Marshal(out)
	require.NoError(t, err)
	assert.Equal(t, "[]", gjson.GetBytes(data, "rooms.0.geometry.walls").Raw)
	assert.Equal(t, "[]", gjson.GetBytes(data, "rooms.0.doors3D").Raw)
}

func TestConvertRoom_NonPositiveSize(t *testing.T) {
	c := newConverter()
	layout := decodeLayout(t, `{"rooms": [{"id": "flat", "x_m": 0, "y_m": 0, "width_m": 0, "height_m": 2}]}`)

	room := c.ConvertRoom(layout.Rooms[0], 2.7, 2.7, layout)
	assert.True(t, room.Outcome.IsDegraded())
	assert.Contains(t, room.Outcome.Reason, "non-positive")
}

func TestConvertLayout_Idempotent(t *testing.T) {
	c := newConverter()
	layout := decodeLayout(t, threeRooms)

	first, err := json.Marshal(c.ConvertLayout(layout, Heights{Wall: 2.5}))
	require.NoError(t, err)
	second, err := json.Marshal(c.ConvertLayout(layout, Heights{Wall: 2.5}))
	require.NoError(t, err)

	assert.JSONEq(t, string(first), string(second))
}

func TestConvertLayout_WorkersMatchSequential(t *testing.T) {
	layout := decodeLayout(t, threeRooms)

	sequential, err := json.Marshal(newConverter().ConvertLayout(layout, Heights{}))
	require.NoError(t, err)
	parallel, err := json.Marshal(newConverter(WithWorkers(4)).ConvertLayout(layout, Heights{}))
	require.NoError(t, err)

	assert.JSONEq(t, string(sequential), string(parallel))
}

func TestConvertLayout_ExternalWallsFromTotals(t *testing.T) {
	c := newConverter()
	out := c.ConvertLayout(decodeLayout(t, threeRooms), Heights{})

	external := map[models.WallID]bool{}
	for _, w := range out.Rooms[0].Geometry.Walls {
		if w.IsExternal {
			external[w.Wall] = true
		}
	}
	// Гостиная: север и запад на границе плана 7×5, юг и восток внутренние.
	assert.Equal(t, map[models.WallID]bool{models.WallNorth: true, models.WallWest: true}, external)
}

func TestConvertLayout_Empty(t *testing.T) {
	out := newConverter().ConvertLayout(decodeLayout(t, `{"rooms": []}`), Heights{})

	data, err := json.Marshal(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{"rooms": []}`, string(data))
}

func TestConvertLayout_MistypedRoomDoesNotAffectOthers(t *testing.T) {
	layout := decodeLayout(t, `{"rooms": [
		{"id": "a", "type": "living", "x_m": 0, "y_m": 0, "width_m": 4, "height_m": 3},
		{"id": "b", "type": "kitchen", "x_m": 4, "y_m": 0, "width_m": "4", "height_m": 3}
	]}`)

	out := newConverter().ConvertLayout(layout, Heights{})
	require.Len(t, out.Rooms, 2)

	assert.False(t, out.Rooms[0].Outcome.IsDegraded())
	assert.Len(t, out.Rooms[0].Geometry.Walls, 4)

	assert.True(t, out.Rooms[1].Outcome.IsDegraded())
	assert.Equal(t, "non-numeric width_m", out.Rooms[1].Outcome.Reason)

	data, err := json.Marshal(out)
	require.NoError(t, err)
	assert.Equal(t, "4", gjson.GetBytes(data, "rooms.1.width_m").String())
	assert.Equal(t, gjson.String, gjson.GetBytes(data, "rooms.1.width_m").Type)
	assert.Equal(t, "[1,0.1,1]", gjson.GetBytes(data, "rooms.1.geometry.floor.size").Raw)
}
