// config предоставляет структуру конфигурации sections-service
// и функции загрузки из YAML/ENV с предсказуемым приоритетом.
package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config — корневая конфигурация сервиса.
// Приоритет источников:
//  1. явный путь, переданный в MustLoad/Load;
//  2. переменная окружения CONFIG_PATH;
//  3. файл ./local.yaml из рабочей директории;
//  4. переменные окружения.
type Config struct {
	Env          string        `yaml:"env" env:"ENV" env-default:"local"`
	HTTP         HTTPConfig    `yaml:"http"`
	Metrics      MetricsConfig `yaml:"metrics"`
	Remote       RemoteConfig  `yaml:"remote"`
	Storage      StorageConfig `yaml:"storage"`
	Paging       PagingConfig  `yaml:"paging"`
	LimitsConfig LimitsConfig  `yaml:"limits"`
	Search       SearchConfig  `yaml:"search"`
	Timeouts     TimeoutConfig `yaml:"timeouts"`
}

// TimeoutConfig — таймауты сервиса.
type TimeoutConfig struct {
	Service time.Duration `yaml:"service" env:"SERVICE" env-default:"15s"`
}

// HTTPConfig — сетевые настройки HTTP-сервера.
type HTTPConfig struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"50086"`
}

// Addr возвращает адрес в формате host:port.
func (h HTTPConfig) Addr() string { return net.JoinHostPort(h.Host, h.Port) }

// MetricsConfig — отдельный HTTP для Prometheus.
type MetricsConfig struct {
	Host string `yaml:"host" env:"METRICS_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"METRICS_PORT" env-default:"50087"`
}

// Addr возвращает адрес в формате host:port.
func (m MetricsConfig) Addr() string { return net.JoinHostPort(m.Host, m.Port) }

// RemoteConfig — удалённый источник секций и поиска.
type RemoteConfig struct {
	HomeURL   string        `yaml:"home_url"   env:"REMOTE_HOME_URL" env-required:"true"`
	SearchURL string        `yaml:"search_url" env:"REMOTE_SEARCH_URL" env-required:"true"`
	Timeout   time.Duration `yaml:"timeout"    env:"REMOTE_TIMEOUT" env-default:"30s"`
}

// StorageConfig — локальный кэш секций.
type StorageConfig struct {
	// Driver — sqlite (встроенный файл) или postgres (общий кэш).
	Driver     string `yaml:"driver"      env:"STORAGE_DRIVER" env-default:"sqlite"`
	SQLitePath string `yaml:"sqlite_path" env:"SQLITE_PATH"    env-default:"sections.db"`
	URL        string `yaml:"url"         env:"DATABASE_URL"`
}

// PagingConfig — поведение медиатора.
type PagingConfig struct {
	AnchorAware bool `yaml:"anchor_aware" env:"PAGING_ANCHOR_AWARE" env-default:"false"`
}

// LimitsConfig — серверные лимиты на выдачу.
type LimitsConfig struct {
	// Применяется при запросе с limit=0.
	Default int32 `yaml:"default" env:"DEFAULT_LIMIT" env-default:"10"`
	// Верхняя граница для limit.
	Max int32 `yaml:"max" env:"MAX_LIMIT" env-default:"100"`
}

// SearchConfig — поток поиска.
type SearchConfig struct {
	Debounce time.Duration `yaml:"debounce" env:"SEARCH_DEBOUNCE" env-default:"200ms"`
}

// MustLoad — обёртка над Load с panic при ошибке.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load загружает конфигурацию по приоритету:
// 1) явный путь; 2) CONFIG_PATH; 3) ./local.yaml; 4) ENV.
func Load(path string) (*Config, error) {
	var cfg Config

	tryRead := func(p string) (*Config, error) {
		if p == "" {
			return nil, fmt.Errorf("empty config path")
		}
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("config file does not exist: %s", p)
		}
		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		return &cfg, nil
	}

	var (
		c   *Config
		err error
	)

	switch envPath := os.Getenv("CONFIG_PATH"); {
	case path != "":
		c, err = tryRead(path)
	case envPath != "":
		c, err = tryRead(envPath)
	default:
		if _, statErr := os.Stat("local.yaml"); statErr == nil {
			if err := cleanenv.ReadConfig("local.yaml", &cfg); err != nil {
				return nil, fmt.Errorf("failed to read local.yaml: %w", err)
			}
		} else if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
		}
		c = &cfg
	}
	if err != nil {
		return nil, err
	}

	if err := c.validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// validate — базовая валидация значений.
func (c *Config) validate() error {
	if err := validateURL("remote.home_url", c.Remote.HomeURL); err != nil {
		return err
	}
	if err := validateURL("remote.search_url", c.Remote.SearchURL); err != nil {
		return err
	}
	if c.Remote.Timeout <= 0 {
		return fmt.Errorf("remote.timeout must be > 0")
	}

	switch c.Storage.Driver {
	case DriverSQLite:
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("storage.sqlite_path is required for sqlite driver")
		}
	case DriverPostgres:
		if c.Storage.URL == "" {
			return fmt.Errorf("storage.url is required for postgres driver")
		}
	default:
		return fmt.Errorf("storage.driver must be %q or %q, got %q", DriverSQLite, DriverPostgres, c.Storage.Driver)
	}

	if c.LimitsConfig.Default <= 0 {
		return fmt.Errorf("limits.default must be > 0")
	}
	if c.LimitsConfig.Max <= 0 {
		return fmt.Errorf("limits.max must be > 0")
	}
	if c.LimitsConfig.Default > c.LimitsConfig.Max {
		return fmt.Errorf("limits.default must be <= limits.max")
	}
	if c.Search.Debounce < 0 {
		return fmt.Errorf("search.debounce must be >= 0")
	}
	return nil
}

func validateURL(field, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", field)
	}
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("%s must be an absolute URL, got %q", field, raw)
	}
	return nil
}
