package geometry

import (
	"maps"
	"os"

	"planner3d/internal/converter/models"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ============================================================
// Geometry Constants
// ============================================================

// Dimensions описывает габаритный бокс мебели в метрах.
type Dimensions struct {
	Width  float64 `yaml:"width" json:"width"`
	Height float64 `yaml:"height" json:"height"`
	Depth  float64 `yaml:"depth" json:"depth"`
}

// WallMaterial описывает материал стены для внешнего рендера.
type WallMaterial struct {
	Color   string  `yaml:"color" json:"color"`
	Opacity float64 `yaml:"opacity" json:"opacity"`
}

type WallMaterials struct {
	Interior WallMaterial `yaml:"interior" json:"interior"`
	Exterior WallMaterial `yaml:"exterior" json:"exterior"`
}

// Constants хранит неизменяемые таблицы и размеры, которые передаются в Engine явно.
type Constants struct {
	WallThickness    float64 `yaml:"wall_thickness" json:"wallThickness"`
	FloorThickness   float64 `yaml:"floor_thickness" json:"floorThickness"`
	DoorHeight       float64 `yaml:"door_height" json:"doorHeight"`
	DoorThickness    float64 `yaml:"door_thickness" json:"doorThickness"`
	WindowHeight     float64 `yaml:"window_height" json:"windowHeight"`
	WindowDepth      float64 `yaml:"window_depth" json:"windowDepth"`
	WindowSill       float64 `yaml:"window_sill" json:"windowSill"`
	FurniturePadding float64 `yaml:"furniture_padding" json:"furniturePadding"`
	PixelsPerMeter   float64 `yaml:"pixels_per_meter" json:"pixelsPerMeter"`
	EdgeTolerance    float64 `yaml:"edge_tolerance" json:"edgeTolerance"`
	MinLintelHeight  float64 `yaml:"min_lintel_height" json:"minLintelHeight"`
	WallHeight       float64 `yaml:"wall_height" json:"wallHeight"`
	CeilingHeight    float64 `yaml:"ceiling_height" json:"ceilingHeight"`

	DefaultFurniture Dimensions                 `yaml:"default_furniture" json:"defaultFurniture"`
	Furniture        map[string]Dimensions      `yaml:"furniture" json:"furniture"`
	FloorColors      map[models.RoomType]string `yaml:"floor_colors" json:"floorColors"`
	DefaultFloor     string                     `yaml:"default_floor" json:"defaultFloor"`
	Walls            WallMaterials              `yaml:"walls" json:"walls"`
	FurnitureColor   string                     `yaml:"furniture_color" json:"furnitureColor"`
}

// Default возвращает новую копию стандартных таблиц.
func Default() Constants {
	return Constants{
		WallThickness:    0.15,
		FloorThickness:   0.1,
		DoorHeight:       2.0,
		DoorThickness:    0.05,
		WindowHeight:     1.2,
		WindowDepth:      0.3,
		WindowSill:       0.9,
		FurniturePadding: 0.1,
		PixelsPerMeter:   50,
		EdgeTolerance:    0.1,
		MinLintelHeight:  0.1,
		WallHeight:       2.7,
		CeilingHeight:    2.7,

		DefaultFurniture: Dimensions{Width: 0.5, Height: 0.5, Depth: 0.5},
		Furniture: map[string]Dimensions{
			"sofa":            {Width: 2.0, Height: 0.85, Depth: 0.9},
			"armchair":        {Width: 0.9, Height: 0.9, Depth: 0.85},
			"bed":             {Width: 1.4, Height: 0.5, Depth: 2.0},
			"double_bed":      {Width: 1.8, Height: 0.5, Depth: 2.1},
			"nightstand":      {Width: 0.5, Height: 0.55, Depth: 0.4},
			"wardrobe":        {Width: 1.2, Height: 2.1, Depth: 0.6},
			"dresser":         {Width: 1.0, Height: 0.85, Depth: 0.5},
			"table":           {Width: 1.2, Height: 0.75, Depth: 0.8},
			"chair":           {Width: 0.45, Height: 0.9, Depth: 0.5},
			"desk":            {Width: 1.2, Height: 0.75, Depth: 0.6},
			"bookshelf":       {Width: 0.8, Height: 1.8, Depth: 0.35},
			"tv":              {Width: 1.2, Height: 0.7, Depth: 0.1},
			"fridge":          {Width: 0.7, Height: 1.8, Depth: 0.7},
			"stove":           {Width: 0.6, Height: 0.85, Depth: 0.6},
			"sink":            {Width: 0.6, Height: 0.85, Depth: 0.5},
			"toilet":          {Width: 0.4, Height: 0.75, Depth: 0.65},
			"bathtub":         {Width: 1.7, Height: 0.6, Depth: 0.75},
			"shower":          {Width: 0.9, Height: 2.0, Depth: 0.9},
			"washing_machine": {Width: 0.6, Height: 0.85, Depth: 0.6},
			"plant":           {Width: 0.4, Height: 1.0, Depth: 0.4},
			"lamp":            {Width: 0.3, Height: 1.5, Depth: 0.3},
		},
		FloorColors: map[models.RoomType]string{
			models.RoomLiving:        "#d9c4a3",
			models.RoomBedroom:       "#c9b79c",
			models.RoomMasterBedroom: "#bfa888",
			models.RoomKitchen:       "#e8e2d6",
			models.RoomBathroom:      "#dfe8ec",
			models.RoomDining:        "#d4bd98",
			models.RoomOffice:        "#c7b9a5",
			models.RoomBalcony:       "#b8b8b0",
			models.RoomEntrance:      "#cfc6b8",
			models.RoomCorridor:      "#d6cdbf",
			models.RoomStorage:       "#bdb6aa",
			models.RoomOther:         "#d0d0d0",
		},
		DefaultFloor: "#d0d0d0",
		Walls: WallMaterials{
			Interior: WallMaterial{Color: "#f5f5f0", Opacity: 1},
			Exterior: WallMaterial{Color: "#e0ddd5", Opacity: 0.35},
		},
		FurnitureColor: "#8b7355",
	}
}

// Clone делает глубокую копию, таблицы не разделяются между копиями.
func (c Constants) Clone() Constants {
	c.Furniture = maps.Clone(c.Furniture)
	c.FloorColors = maps.Clone(c.FloorColors)
	return c
}

// FurnitureDimensions возвращает габариты по типу мебели, для неизвестных типов бокс по умолчанию.
func (c Constants) FurnitureDimensions(kind string) Dimensions {
	if dims, ok := c.Furniture[kind]; ok {
		return dims
	}
	return c.DefaultFurniture
}

func (c Constants) FloorColor(roomType models.RoomType) string {
	if color, ok := c.FloorColors[roomType]; ok {
		return color
	}
	return c.DefaultFloor
}

func (c Constants) WallMaterial(external bool) WallMaterial {
	if external {
		return c.Walls.Exterior
	}
	return c.Walls.Interior
}

// LoadFile накладывает YAML-файл поверх base. Ключи таблиц добавляются
// или заменяются, отсутствующие поля остаются из base.
func LoadFile(path string, base Constants) (Constants, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Constants{}, errors.Wrap(err, "read geometry tables")
	}
	return Parse(data, base)
}

func Parse(data []byte, base Constants) (Constants, error) {
	c := base.Clone()
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Constants{}, errors.Wrap(err, "decode geometry tables")
	}
	return c, nil
}
