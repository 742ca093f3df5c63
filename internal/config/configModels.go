package config

import "time"

type Config struct {
	Env            string            `yaml:"env" env:"ENV" env-default:"local"`
	HttpServer     HttpServerConfig  `yaml:"httpServer" env-required:"true"`
	Mapbox         MapboxConfig      `yaml:"mapbox" env-required:"true"`
	Campus         CampusConfig      `yaml:"campus"`
	Geolocation    GeolocationConfig `yaml:"geolocation"`
	MapSessions    MapSessionsConfig `yaml:"mapSessions"`
	Catalog        CatalogConfig     `yaml:"catalog"`
	Metrics        MetricsConfig     `yaml:"metrics"`
	configPath     string
}

type HttpServerConfig struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost"`
	Port        string        `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"5s"`
	IdleTimeout time.Duration `yaml:"idleTimeout" env-default:"60s"`
}

// MapboxConfig — доступ к картам и к Directions API.
// Токен передаётся явно в клиент и в шаблоны страниц.
type MapboxConfig struct {
	AccessToken   string        `yaml:"accessToken" env:"MAPBOX_ACCESS_TOKEN" env-required:"true"`
	StyleURL      string        `yaml:"styleURL" env-default:"mapbox://styles/mapbox/streets-v12"`
	DirectionsURL string        `yaml:"directionsURL" env:"MAPBOX_DIRECTIONS_URL" env-default:"https://api.mapbox.com"`
	Profile       string        `yaml:"profile" env-default:"mapbox/walking"`
	Timeout       time.Duration `yaml:"timeout" env:"MAPBOX_TIMEOUT" env-default:"10s"`
	RatePerSecond float64       `yaml:"ratePerSecond" env-default:"5"`
	Burst         int           `yaml:"burst" env-default:"10"`
}

// BoundsConfig задаёт прямоугольник кампуса в градусах.
type BoundsConfig struct {
	North float64 `yaml:"north" env-default:"26.3771"`
	South float64 `yaml:"south" env-default:"26.3671"`
	West  float64 `yaml:"west" env-default:"-80.1070"`
	East  float64 `yaml:"east" env-default:"-80.0970"`
}

type CampusConfig struct {
	Name      string       `yaml:"name" env-default:"FAU Boca Raton"`
	Bounds    BoundsConfig `yaml:"bounds"`
	CenterLng float64      `yaml:"centerLng" env-default:"-80.1020"`
	CenterLat float64      `yaml:"centerLat" env-default:"26.3721"`
	Zoom      float64      `yaml:"zoom" env-default:"15.5"`
	MinZoom   float64      `yaml:"minZoom" env-default:"14.5"`
	MaxZoom   float64      `yaml:"maxZoom" env-default:"18"`
}

// GeolocationConfig — политика получения позиции устройства (как в PositionOptions браузера).
type GeolocationConfig struct {
	EnableHighAccuracy bool          `yaml:"enableHighAccuracy" env-default:"true"`
	Timeout            time.Duration `yaml:"timeout" env-default:"5s"`
	MaximumAge         time.Duration `yaml:"maximumAge" env-default:"0s"`
}

type MapSessionsConfig struct {
	TTL             time.Duration `yaml:"ttl" env:"MAP_SESSION_TTL" env-default:"30m"`
	CleanupInterval time.Duration `yaml:"cleanupInterval" env-default:"1m"`
}

// CatalogConfig — необязательный внешний файл каталога; пустой путь означает встроенный.
type CatalogConfig struct {
	FilePath string `yaml:"filePath" env:"CATALOG_FILEPATH" env-default:""`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled" env:"METRICS_ENABLED" env-default:"true"`
}
