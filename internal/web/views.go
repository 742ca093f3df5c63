package web

import (
	"campusEvents/internal/models/domain"
)

type NavItem struct {
	Label  string
	Href   string
	Active bool
}

// Page — общие данные layout и содержимое конкретной страницы.
type Page struct {
	Title   string
	Nav     []NavItem
	Mapbox  bool
	Scripts []string
	Content any
}

// NewPage собирает навигацию; пункт активен при точном совпадении пути.
func NewPage(title, currentPath string, content any) Page {
	items := []NavItem{
		{Label: "Home", Href: "/"},
		{Label: "Events", Href: "/events"},
		{Label: "Map", Href: "/map"},
		{Label: "Profile", Href: "/profile"},
	}
	for i := range items {
		items[i].Active = items[i].Href == currentPath
	}
	return Page{Title: title, Nav: items, Content: content}
}

// WithMap подключает Mapbox GL и скрипт страницы.
func (p Page) WithMap(script string) Page {
	p.Mapbox = true
	p.Scripts = append(p.Scripts, script)
	return p
}

type HomeContent struct {
	Upcoming []domain.Event
}

type EventsContent struct {
	Query      string
	Category   string
	Categories []domain.Category
	Events     []domain.Event
	Empty      string
}

type EventDetailContent struct {
	Event domain.Event
	Map   DetailMapConfig
}

type NotFoundContent struct {
	Heading  string
	Message  string
	BackHref string
	BackText string
}

type MapContent struct {
	CampusName string
	Config     MapPageConfig
	Featured   []domain.Event
	Tips       []string
}

type ProfileTabLink struct {
	Tab    domain.ProfileTab
	Label  string
	Href   string
	Active bool
}

type ProfileContent struct {
	Profile domain.Profile
	Tab     domain.ProfileTab
	Tabs    []ProfileTabLink
	Groups  []domain.SettingGroup
}

// Конфигурация для скриптов карты. Попадает на страницу как JSON.

type MarkerConfig struct {
	ID         int           `json:"id"`
	LngLat     domain.LngLat `json:"lngLat"`
	Title      string        `json:"title"`
	Date       string        `json:"date"`
	Time       string        `json:"time"`
	Location   string        `json:"location"`
	DetailsURL string        `json:"detailsUrl"`
}

type DetailMapConfig struct {
	AccessToken string        `json:"accessToken"`
	Style       string        `json:"style"`
	Center      domain.LngLat `json:"center"`
	Zoom        float64       `json:"zoom"`
	Marker      MarkerConfig  `json:"marker"`
}

type GeolocationOptions struct {
	EnableHighAccuracy bool  `json:"enableHighAccuracy"`
	Timeout            int64 `json:"timeout"`
	MaximumAge         int64 `json:"maximumAge"`
}

type MapMessages struct {
	LocationRequired    string `json:"locationRequired"`
	LocationUnavailable string `json:"locationUnavailable"`
	DirectionsFailed    string `json:"directionsFailed"`
	MapLoadError        string `json:"mapLoadError"`
	MapInitError        string `json:"mapInitError"`
}

type MapPageConfig struct {
	AccessToken string             `json:"accessToken"`
	Style       string             `json:"style"`
	Bounds      [2]domain.LngLat   `json:"bounds"`
	Center      domain.LngLat      `json:"center"`
	Zoom        float64            `json:"zoom"`
	MinZoom     float64            `json:"minZoom"`
	MaxZoom     float64            `json:"maxZoom"`
	Outline     []domain.LngLat    `json:"outline"`
	Markers     []MarkerConfig     `json:"markers"`
	Geolocation GeolocationOptions `json:"geolocation"`
	SessionsURL string             `json:"sessionsUrl"`
	Messages    MapMessages        `json:"messages"`
}

func DefaultMapMessages() MapMessages {
	return MapMessages{
		LocationRequired:    MsgLocationRequired,
		LocationUnavailable: MsgLocationUnavailable,
		DirectionsFailed:    MsgDirectionsFailed,
		MapLoadError:        MsgMapLoadError,
		MapInitError:        MsgMapInitError,
	}
}

var MapTips = []string{
	"Click any glowing red marker to view event details",
	`Click "Get Directions" to get walking directions from your location`,
	"Follow the step list under the map to reach the event",
	"Your position is shown with a blue marker when location is enabled",
}
