package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config cấu hình toàn bộ service
type Config struct {
	App         AppConfig         `mapstructure:"app" yaml:"app"`
	CORS        CORSConfig        `mapstructure:"cors" yaml:"cors"`
	Geocoder    GeocoderConfig    `mapstructure:"geocoder" yaml:"geocoder"`
	Router      RouterConfig      `mapstructure:"router" yaml:"router"`
	Persistence PersistenceConfig `mapstructure:"persistence" yaml:"persistence"`
}

type AppConfig struct {
	Port            int           `mapstructure:"port" yaml:"port"`
	Env             string        `mapstructure:"env" yaml:"env"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
}

type GeocoderConfig struct {
	Provider    string            `mapstructure:"provider" yaml:"provider"`
	URL         string            `mapstructure:"url" yaml:"url"`
	UserAgent   string            `mapstructure:"user_agent" yaml:"user_agent"`
	Timeout     time.Duration     `mapstructure:"timeout" yaml:"timeout"`
	Meilisearch MeilisearchConfig `mapstructure:"meilisearch" yaml:"meilisearch"`
}

type MeilisearchConfig struct {
	URL        string `mapstructure:"url" yaml:"url"`
	APIKey     string `mapstructure:"api_key" yaml:"api_key"`
	Index      string `mapstructure:"index" yaml:"index"`
	Candidates int    `mapstructure:"candidates" yaml:"candidates"`
}

type RouterConfig struct {
	URL     string        `mapstructure:"url" yaml:"url"`
	Profile string        `mapstructure:"profile" yaml:"profile"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// PersistenceConfig cấu hình persistence gateway. Driver "auto" dùng MongoDB khi
// có mongo_uri, ngược lại tắt persistence.
type PersistenceConfig struct {
	Driver     string `mapstructure:"driver" yaml:"driver"`
	MongoURI   string `mapstructure:"mongo_uri" yaml:"mongo_uri"`
	MongoDB    string `mapstructure:"mongo_db" yaml:"mongo_db"`
	Collection string `mapstructure:"collection" yaml:"collection"`
	RedisURL   string `mapstructure:"redis_url" yaml:"redis_url"`
	MemorySize int    `mapstructure:"memory_size" yaml:"memory_size"`
	ListLimit  int    `mapstructure:"list_limit" yaml:"list_limit"`
}

// ResolvedDriver driver thực tế sau khi xử lý "auto"
func (p PersistenceConfig) ResolvedDriver() string {
	if p.Driver == "" || p.Driver == "auto" {
		if p.MongoURI != "" {
			return "mongo"
		}
		return "none"
	}
	return p.Driver
}

// IsProduction kiểm tra môi trường production
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.env", "development")
	v.SetDefault("app.shutdown_timeout", "10s")
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("geocoder.provider", "nominatim")
	v.SetDefault("geocoder.url", "https://nominatim.openstreetmap.org")
	v.SetDefault("geocoder.user_agent", "route-planner/1.0")
	v.SetDefault("geocoder.timeout", "10s")
	v.SetDefault("geocoder.meilisearch.url", "http://localhost:7700")
	v.SetDefault("geocoder.meilisearch.api_key", "")
	v.SetDefault("geocoder.meilisearch.index", "places")
	v.SetDefault("geocoder.meilisearch.candidates", 5)
	v.SetDefault("router.url", "https://router.project-osrm.org")
	v.SetDefault("router.profile", "driving")
	v.SetDefault("router.timeout", "15s")
	v.SetDefault("persistence.driver", "auto")
	v.SetDefault("persistence.mongo_uri", "")
	v.SetDefault("persistence.mongo_db", "route_planner")
	v.SetDefault("persistence.collection", "routes")
	v.SetDefault("persistence.redis_url", "redis://localhost:6379/0")
	v.SetDefault("persistence.memory_size", 1000)
	v.SetDefault("persistence.list_limit", 50)
}

// Load đọc cấu hình từ defaults, file yaml (tuỳ chọn) và biến môi trường.
// configFile rỗng thì tìm config/app.yaml hoặc ./app.yaml, không có cũng được.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("app")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	// ROUTEPLANNER_PERSISTENCE_MONGO_URI → persistence.mongo_uri
	v.SetEnvPrefix("ROUTEPLANNER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Biến môi trường ngắn quen thuộc
	_ = v.BindEnv("app.port", "ROUTEPLANNER_APP_PORT", "PORT")
	_ = v.BindEnv("app.env", "ROUTEPLANNER_APP_ENV", "APP_ENV")
	_ = v.BindEnv("persistence.mongo_uri", "ROUTEPLANNER_PERSISTENCE_MONGO_URI", "MONGO_URI")
	_ = v.BindEnv("persistence.mongo_db", "ROUTEPLANNER_PERSISTENCE_MONGO_DB", "MONGO_DB", "DB_NAME")
	_ = v.BindEnv("persistence.redis_url", "ROUTEPLANNER_PERSISTENCE_REDIS_URL", "REDIS_URL")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate kiểm tra các giá trị bắt buộc
func (c *Config) Validate() error {
	var errs []string

	if c.App.Port <= 0 || c.App.Port > 65535 {
		errs = append(errs, fmt.Sprintf("app.port must be 1-65535, got %d", c.App.Port))
	}
	if c.App.ShutdownTimeout <= 0 {
		errs = append(errs, "app.shutdown_timeout must be positive")
	}

	switch c.Geocoder.Provider {
	case "nominatim":
		if c.Geocoder.URL == "" {
			errs = append(errs, "geocoder.url is required")
		}
	case "meilisearch":
		if c.Geocoder.Meilisearch.URL == "" {
			errs = append(errs, "geocoder.meilisearch.url is required")
		}
	default:
		errs = append(errs, fmt.Sprintf("geocoder.provider must be nominatim or meilisearch, got %q", c.Geocoder.Provider))
	}
	if c.Geocoder.Timeout <= 0 {
		errs = append(errs, "geocoder.timeout must be positive")
	}

	if c.Router.URL == "" {
		errs = append(errs, "router.url is required")
	}
	if c.Router.Timeout <= 0 {
		errs = append(errs, "router.timeout must be positive")
	}

	switch c.Persistence.ResolvedDriver() {
	case "none", "memory":
	case "mongo":
		if c.Persistence.MongoURI == "" {
			errs = append(errs, "persistence.mongo_uri is required for the mongo driver")
		}
	case "redis":
		if c.Persistence.RedisURL == "" {
			errs = append(errs, "persistence.redis_url is required for the redis driver")
		}
	default:
		errs = append(errs, fmt.Sprintf("persistence.driver must be auto, none, mongo, redis or memory, got %q", c.Persistence.Driver))
	}
	if c.Persistence.MemorySize <= 0 {
		errs = append(errs, "persistence.memory_size must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// Redacted render cấu hình hiệu lực dạng YAML, che mật khẩu và API key
func (c Config) Redacted() string {
	c.Persistence.MongoURI = maskURL(c.Persistence.MongoURI)
	c.Persistence.RedisURL = maskURL(c.Persistence.RedisURL)
	if c.Geocoder.Meilisearch.APIKey != "" {
		c.Geocoder.Meilisearch.APIKey = "***"
	}

	out, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Sprintf("<unrenderable config: %v>", err)
	}
	return string(out)
}

func maskURL(raw string) string {
	if raw == "" {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "***"
	}
	if _, hasPassword := u.User.Password(); hasPassword {
		u.User = url.UserPassword(u.User.Username(), "xxx")
	}
	return u.String()
}
