package domain

import (
	"math"
	"strconv"
)

// LngLat — пара [долгота, широта], порядок как у картографической библиотеки.
type LngLat [2]float64

func (p LngLat) Lng() float64 { return p[0] }
func (p LngLat) Lat() float64 { return p[1] }

// String форматирует точку как "lng,lat" для URL Directions API.
func (p LngLat) String() string {
	return strconv.FormatFloat(p[0], 'f', -1, 64) + "," + strconv.FormatFloat(p[1], 'f', -1, 64)
}

// Valid проверяет диапазоны широты и долготы.
func (p LngLat) Valid() bool {
	return !math.IsNaN(p[0]) && !math.IsNaN(p[1]) &&
		p[0] >= -180 && p[0] <= 180 && p[1] >= -90 && p[1] <= 90
}

// Coordinates хранит координаты мероприятия в порядке [широта, долгота].
type Coordinates struct {
	Lat float64
	Lng float64
}

func (c Coordinates) LngLat() LngLat {
	return LngLat{c.Lng, c.Lat}
}

// Bounds — прямоугольник на карте.
type Bounds struct {
	West  float64
	South float64
	East  float64
	North float64
}

// BoundsFromPoints строит минимальный прямоугольник, содержащий все точки.
// Для пустого списка возвращает false.
func BoundsFromPoints(points ...LngLat) (Bounds, bool) {
	if len(points) == 0 {
		return Bounds{}, false
	}
	b := Bounds{West: points[0].Lng(), East: points[0].Lng(), South: points[0].Lat(), North: points[0].Lat()}
	for _, p := range points[1:] {
		b = b.Extend(p)
	}
	return b, true
}

func (b Bounds) Extend(p LngLat) Bounds {
	b.West = math.Min(b.West, p.Lng())
	b.East = math.Max(b.East, p.Lng())
	b.South = math.Min(b.South, p.Lat())
	b.North = math.Max(b.North, p.Lat())
	return b
}

func (b Bounds) Contains(p LngLat) bool {
	return p.Lng() >= b.West && p.Lng() <= b.East && p.Lat() >= b.South && p.Lat() <= b.North
}

// Clamp прижимает точку к границам прямоугольника.
func (b Bounds) Clamp(p LngLat) LngLat {
	return LngLat{
		math.Min(math.Max(p.Lng(), b.West), b.East),
		math.Min(math.Max(p.Lat(), b.South), b.North),
	}
}

// Intersect обрезает b по limit. Если пересечения нет, результат вырождается
// в ближайшую к b точку limit.
func (b Bounds) Intersect(limit Bounds) Bounds {
	sw := limit.Clamp(LngLat{b.West, b.South})
	ne := limit.Clamp(LngLat{b.East, b.North})
	return Bounds{West: sw.Lng(), South: sw.Lat(), East: ne.Lng(), North: ne.Lat()}
}

func (b Bounds) Center() LngLat {
	return LngLat{(b.West + b.East) / 2, (b.South + b.North) / 2}
}

// Polygon возвращает замкнутый контур прямоугольника (для GeoJSON).
func (b Bounds) Polygon() []LngLat {
	return []LngLat{
		{b.West, b.South},
		{b.East, b.South},
		{b.East, b.North},
		{b.West, b.North},
		{b.West, b.South},
	}
}
