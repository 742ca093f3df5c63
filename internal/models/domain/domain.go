package domain

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Category — категория мероприятия из фиксированного списка.
type Category string

const (
	CategoryAcademic Category = "Academic"
	CategorySocial   Category = "Social"
	CategorySports   Category = "Sports"
	CategoryArts     Category = "Arts"
	CategoryCareer   Category = "Career"
)

// Categories возвращает категории в порядке, в котором их показывает фильтр.
func Categories() []Category {
	return []Category{CategoryAcademic, CategorySocial, CategorySports, CategoryArts, CategoryCareer}
}

func (c Category) String() string {
	return string(c)
}

// Event - доменная модель мероприятия каталога. Неизменяемая.
type Event struct {
	ID          int
	Title       string
	Date        string
	Time        string
	Location    string
	Coordinates Coordinates
	Category    Category
	Organizer   string
	Description string
	Image       string
}

// Paragraphs делит описание на абзацы по пустым строкам.
func (e Event) Paragraphs() []string {
	parts := strings.Split(e.Description, "\n\n")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}

// Matches — предикат поиска: query встречается в title или description без учёта
// регистра, начиная с начала слова; category совпадает или не задана.
// "AI" находит "AI Ethics", но не "Fair" и не "available".
func (e Event) Matches(query string, category Category) bool {
	if category != "" && e.Category != category {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return containsAtWordStart(strings.ToLower(e.Title), q) ||
		containsAtWordStart(strings.ToLower(e.Description), q)
}

func containsAtWordStart(text, q string) bool {
	for offset := 0; offset <= len(text); {
		i := strings.Index(text[offset:], q)
		if i < 0 {
			return false
		}
		i += offset
		if i == 0 {
			return true
		}
		prev, _ := utf8.DecodeLastRuneInString(text[:i])
		if !unicode.IsLetter(prev) && !unicode.IsDigit(prev) {
			return true
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		offset = i + size
	}
	return false
}

// DirectionsStep — один манёвр маршрута.
type DirectionsStep struct {
	Instruction  string
	DistanceFeet float64
}

// DirectionsResult — сводка пешего маршрута в имперских единицах.
type DirectionsResult struct {
	DurationMinutes float64
	DistanceMiles   float64
	Steps           []DirectionsStep
}

// Route — маршрут, нарисованный на карте поверх остального.
type Route struct {
	ID       uuid.UUID
	EventID  int
	Result   DirectionsResult
	Geometry []LngLat
	Bounds   Bounds
}
