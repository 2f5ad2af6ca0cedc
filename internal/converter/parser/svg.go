package parser

import (
	"encoding/xml"
	"io"
	"strings"

	"planner3d/internal/converter/models"

	"github.com/pkg/errors"
)

// ============================================================
// XML Structures
// ============================================================

type SVG struct {
	XMLName xml.Name `xml:"svg"`
	Rects   []Rect   `xml:"rect"`
	Paths   []Path   `xml:"path"`
	Groups  []Group  `xml:"g"`
}

// Group это <g>: редакторы планов складывают в них комнаты и мебель.
type Group struct {
	ID     string  `xml:"id,attr"`
	Rects  []Rect  `xml:"rect"`
	Paths  []Path  `xml:"path"`
	Groups []Group `xml:"g"`
}

type Rect struct {
	ID     string  `xml:"id,attr"`
	X      float64 `xml:"x,attr"`
	Y      float64 `xml:"y,attr"`
	Width  float64 `xml:"width,attr"`
	Height float64 `xml:"height,attr"`
}

type Path struct {
	ID string `xml:"id,attr"`
	D  string `xml:"d,attr"`
}

// ============================================================
// Parser
// ============================================================

// ParseSVG читает SVG и возвращает элементы плана, распознанные по id.
// Элементы с неизвестными id пропускаются.
func ParseSVG(r io.Reader) ([]models.SVGElement, error) {
	var svg SVG
	decoder := xml.NewDecoder(r)
	if err := decoder.Decode(&svg); err != nil {
		return nil, errors.Wrap(err, "decode svg")
	}

	var elements []models.SVGElement
	elements = appendShapes(elements, svg.Rects, svg.Paths)
	for _, g := range svg.Groups {
		elements = appendGroup(elements, g)
	}
	return elements, nil
}

func appendGroup(elements []models.SVGElement, g Group) []models.SVGElement {
	elements = appendShapes(elements, g.Rects, g.Paths)
	for _, child := range g.Groups {
		elements = appendGroup(elements, child)
	}
	return elements
}

func appendShapes(elements []models.SVGElement, rects []Rect, paths []Path) []models.SVGElement {
	for _, rect := range rects {
		elemType := ClassifyElementByID(rect.ID)
		if elemType == "" {
			continue
		}

		elements = append(elements, models.SVGElement{
			ID:   rect.ID,
			Type: elemType,
			Geometry: models.RectGeometry{
				X:      rect.X,
				Y:      rect.Y,
				Width:  rect.Width,
				Height: rect.Height,
			},
		})
	}

	for _, path := range paths {
		elemType := ClassifyElementByID(path.ID)
		if elemType == "" {
			continue
		}

		elements = append(elements, models.SVGElement{
			ID:   path.ID,
			Type: elemType,
			Geometry: models.PathGeometry{
				D: path.D,
			},
		})
	}
	return elements
}

// ClassifyElementByID определяет тип элемента по префиксу/суффиксу id.
func ClassifyElementByID(id string) string {
	if strings.HasPrefix(id, "Door_") {
		return "door"
	}
	if strings.HasPrefix(id, "Window_") {
		return "window"
	}
	if strings.HasPrefix(id, "Furniture_") {
		return "furniture"
	}
	if strings.HasPrefix(id, "Room_") ||
		strings.HasSuffix(id, "_room") || // Hall_room, Toilet_room
		strings.HasSuffix(id, "_Room") {
		return "room"
	}
	if strings.HasPrefix(id, "Balcony") {
		return "balcony"
	}
	return ""
}
