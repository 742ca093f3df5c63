package dto

// DirectionsResponse — ответ Mapbox Directions API v5.
// Для неуспешных ответов заполнены только Code и Message.
type DirectionsResponse struct {
	Code    string           `json:"code"`
	Message string           `json:"message,omitempty"`
	Routes  []DirectionRoute `json:"routes"`
}

type DirectionRoute struct {
	Duration float64        `json:"duration"` // секунды
	Distance float64        `json:"distance"` // метры
	Geometry LineString     `json:"geometry"`
	Legs     []DirectionLeg `json:"legs"`
}

// LineString — GeoJSON-геометрия маршрута (geometries=geojson).
type LineString struct {
	Type        string       `json:"type"`
	Coordinates [][2]float64 `json:"coordinates"`
}

type DirectionLeg struct {
	Summary  string          `json:"summary"`
	Duration float64         `json:"duration"`
	Distance float64         `json:"distance"`
	Steps    []DirectionStep `json:"steps"`
}

type DirectionStep struct {
	Name     string   `json:"name"`
	Duration float64  `json:"duration"`
	Distance float64  `json:"distance"` // метры
	Maneuver Maneuver `json:"maneuver"`
}

type Maneuver struct {
	Type        string     `json:"type"`
	Modifier    string     `json:"modifier,omitempty"`
	Instruction string     `json:"instruction"`
	Location    [2]float64 `json:"location"`
}
