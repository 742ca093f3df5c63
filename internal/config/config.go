package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const defaultConfigPath = "config/local.yaml"

// MustLoad читает .env (если есть), затем YAML-конфиг и переменные окружения.
// Путь к конфигу: флаг -config, затем CONFIG_PATH, затем config/local.yaml.
// Паникует при ошибке: без конфига сервис не стартует.
func MustLoad() *Config {
	_ = godotenv.Load()

	path := fetchConfigPath()

	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}

	return cfg
}

// Load читает конфиг по указанному пути. Пустой путь — только окружение.
func Load(path string) (*Config, error) {
	op := "config.Load()"

	var cfg Config

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("%s: config file %q: %w", op, path, err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("%s: cannot read config: %w", op, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("%s: cannot read env: %w", op, err)
	}

	cfg.configPath = path

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &cfg, nil
}

// Validate проверяет согласованность значений, которые cleanenv проверить не может.
func (c *Config) Validate() error {
	b := c.Campus.Bounds
	if b.South >= b.North || b.West >= b.East {
		return errors.New("campus bounds are empty")
	}
	if c.Campus.MinZoom > c.Campus.MaxZoom {
		return errors.New("campus minZoom is greater than maxZoom")
	}
	if c.Mapbox.AccessToken == "" {
		return errors.New("mapbox access token is required")
	}
	// без очистки go-cache не вызывает OnEvicted для истёкших сессий
	if c.MapSessions.TTL <= 0 || c.MapSessions.CleanupInterval <= 0 {
		return errors.New("mapSessions ttl and cleanupInterval must be positive")
	}
	return nil
}

// ListenAddr возвращает host:port HTTP-сервера.
func (c *Config) ListenAddr() string {
	return net.JoinHostPort(c.HttpServer.Address, c.HttpServer.Port)
}

// Path — путь, из которого был прочитан конфиг.
func (c *Config) Path() string {
	return c.configPath
}

func fetchConfigPath() string {
	var res string

	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	if res == "" {
		if _, err := os.Stat(defaultConfigPath); err == nil {
			res = defaultConfigPath
		}
	}

	return res
}
