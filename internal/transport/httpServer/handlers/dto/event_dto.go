package dto

import (
	"campusEvents/internal/models/domain"
)

// EventResponse — DTO для ответа с данными мероприятия.
// Coordinates в порядке [широта, долгота], как в каталоге.
type EventResponse struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Date        string     `json:"date"`
	Time        string     `json:"time"`
	Location    string     `json:"location"`
	Coordinates [2]float64 `json:"coordinates"`
	Category    string     `json:"category"`
	Organizer   string     `json:"organizer"`
	Description string     `json:"description"`
	Image       string     `json:"image"`
}

// EventListResponse — результат поиска с эхо параметров фильтра.
type EventListResponse struct {
	Query    string          `json:"query"`
	Category string          `json:"category"`
	Total    int             `json:"total"`
	Events   []EventResponse `json:"events"`
}

// MapDomainToEventResponse конвертирует доменную модель Event в EventResponse DTO.
func MapDomainToEventResponse(e domain.Event) EventResponse {
	return EventResponse{
		ID:          e.ID,
		Title:       e.Title,
		Date:        e.Date,
		Time:        e.Time,
		Location:    e.Location,
		Coordinates: [2]float64{e.Coordinates.Lat, e.Coordinates.Lng},
		Category:    e.Category.String(),
		Organizer:   e.Organizer,
		Description: e.Description,
		Image:       e.Image,
	}
}

// MapDomainToEventResponseList конвертирует слайс доменных моделей в слайс DTO.
func MapDomainToEventResponseList(events []domain.Event) []EventResponse {
	result := make([]EventResponse, len(events))
	for i, e := range events {
		result[i] = MapDomainToEventResponse(e)
	}
	return result
}
