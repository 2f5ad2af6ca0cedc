package models

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ============================================================
// 2D layout (input)
// ============================================================

type FurnitureItem struct {
	Type   string  `json:"type"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Opening описывает дверь или окно: стена, нормированная позиция [0,1] и ширина в метрах.
type Opening struct {
	Wall     WallID  `json:"wall"`
	Position float64 `json:"position"`
	WidthM   float64 `json:"width_m"`
}

// Room описывает комнату плана. Числовые поля хранятся указателями, чтобы отличать
// отсутствующее значение от нуля. Исходный JSON сохраняется целиком.
type Room struct {
	ID             string          `json:"id"`
	Type           RoomType        `json:"type"`
	XM             *float64        `json:"x_m,omitempty"`
	YM             *float64        `json:"y_m,omitempty"`
	WidthM         *float64        `json:"width_m,omitempty"`
	HeightM        *float64        `json:"height_m,omitempty"`
	WidthPx        *float64        `json:"width_px,omitempty"`
	Furniture      []FurnitureItem `json:"furniture,omitempty"`
	FurnitureItems []FurnitureItem `json:"furniture_items,omitempty"`
	Doors          []Opening       `json:"doors,omitempty"`
	Windows        []Opening       `json:"windows,omitempty"`

	raw        json.RawMessage
	nonNumeric []string
	invalid    string
}

type roomAlias Room

// roomNumbers перечисляет числовые поля комнаты, которые читаются нестрого.
var roomNumbers = []string{"x_m", "y_m", "width_m", "height_m", "width_px"}

// UnmarshalJSON никогда не отклоняет комнату целиком: поле неверного типа
// остаётся пустым, а причина попадает в Rect. Так одна битая комната
// не ломает разбор всего плана.
func (r *Room) UnmarshalJSON(data []byte) error {
	parsed := gjson.ParseBytes(data)
	if parsed.Type == gjson.Null {
		return nil
	}
	if !parsed.IsObject() {
		*r = Room{invalid: "room is not an object"}
		return nil
	}

	clean := append([]byte(nil), data...)
	var nonNumeric []string
	for _, key := range roomNumbers {
		v := parsed.Get(key)
		if !v.Exists() || v.Type == gjson.Number || v.Type == gjson.Null {
			continue
		}
		nonNumeric = append(nonNumeric, key)
		var err error
		if clean, err = sjson.DeleteBytes(clean, key); err != nil {
			return errors.Wrapf(err, "drop %s", key)
		}
	}

	var a roomAlias
	if err := json.Unmarshal(clean, &a); err != nil {
		a = roomAlias{
			ID:      parsed.Get("id").String(),
			Type:    RoomType(parsed.Get("type").String()),
			invalid: "invalid room: " + err.Error(),
		}
	}
	*r = Room(a)
	r.nonNumeric = nonNumeric
	r.raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON отдаёт исходный JSON без изменений, если комната была декодирована.
func (r Room) MarshalJSON() ([]byte, error) {
	if len(r.raw) > 0 {
		return r.raw, nil
	}
	return json.Marshal(roomAlias(r))
}

// FurnitureList возвращает мебель из "furniture" либо, если поля нет, из "furniture_items".
func (r Room) FurnitureList() []FurnitureItem {
	if r.Furniture != nil {
		return r.Furniture
	}
	return r.FurnitureItems
}

// Rect проверяет обязательные размеры комнаты. Вторым значением
// возвращается причина, по которой комнату нельзя построить.
func (r Room) Rect() (Rect, string) {
	if r.invalid != "" {
		return Rect{}, r.invalid
	}
	var missing, nonNumeric []string
	for _, f := range []struct {
		key string
		v   *float64
	}{
		{"x_m", r.XM},
		{"y_m", r.YM},
		{"width_m", r.WidthM},
		{"height_m", r.HeightM},
	} {
		if f.v != nil {
			continue
		}
		if slices.Contains(r.nonNumeric, f.key) {
			nonNumeric = append(nonNumeric, f.key)
		} else {
			missing = append(missing, f.key)
		}
	}
	if len(nonNumeric) > 0 {
		return Rect{}, "non-numeric " + strings.Join(nonNumeric, ", ")
	}
	if len(missing) > 0 {
		return Rect{}, "missing " + strings.Join(missing, ", ")
	}
	if *r.WidthM <= 0 || *r.HeightM <= 0 {
		return Rect{}, fmt.Sprintf("non-positive size %gx%g", *r.WidthM, *r.HeightM)
	}
	return Rect{X: *r.XM, Y: *r.YM, Width: *r.WidthM, Height: *r.HeightM}, ""
}

// Layout описывает план целиком.
type Layout struct {
	TotalWidthM  *float64 `json:"total_width_m,omitempty"`
	TotalHeightM *float64 `json:"total_height_m,omitempty"`
	Rooms        []Room   `json:"rooms"`

	raw json.RawMessage
}

type layoutAlias Layout

// UnmarshalJSON читает общие размеры нестрого: нечисловое значение считается
// отсутствующим, и граница плана берётся по самой комнате.
func (l *Layout) UnmarshalJSON(data []byte) error {
	clean := append([]byte(nil), data...)
	for _, key := range []string{"total_width_m", "total_height_m"} {
		v := gjson.GetBytes(data, key)
		if !v.Exists() || v.Type == gjson.Number || v.Type == gjson.Null {
			continue
		}
		var err error
		if clean, err = sjson.DeleteBytes(clean, key); err != nil {
			return errors.Wrapf(err, "drop %s", key)
		}
	}

	var a layoutAlias
	if err := json.Unmarshal(clean, &a); err != nil {
		return err
	}
	*l = Layout(a)
	if string(data) != "null" {
		l.raw = append(json.RawMessage(nil), data...)
	}
	return nil
}

func (l Layout) MarshalJSON() ([]byte, error) {
	if len(l.raw) > 0 {
		return l.raw, nil
	}
	return json.Marshal(layoutAlias(l))
}

// Extent возвращает габариты плана для комнаты. Если общий размер не задан,
// границей считается дальний край самой комнаты.
func (l Layout) Extent(room Rect) Extent {
	ext := Extent{Width: room.Right(), Height: room.Bottom()}
	if l.TotalWidthM != nil && *l.TotalWidthM > 0 {
		ext.Width = *l.TotalWidthM
	}
	if l.TotalHeightM != nil && *l.TotalHeightM > 0 {
		ext.Height = *l.TotalHeightM
	}
	return ext
}

// Float нужен для литералов с необязательными полями.
func Float(v float64) *float64 {
	return &v
}
