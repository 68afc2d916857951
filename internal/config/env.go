package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"discoveryfy/internal/utils"
)

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{"config.yaml", "config.yml"}

type AppConfig struct {
	Addr    string `koanf:"addr"`
	URL     string `koanf:"url"`
	GinMode string `koanf:"gin_mode"`
}

type DatabaseConfig struct {
	Driver string `koanf:"driver"`
	DSN    string `koanf:"dsn"`
}

type CacheConfig struct {
	// Dir is the badger directory; empty keeps the cache in memory.
	Dir string        `koanf:"dir"`
	TTL time.Duration `koanf:"ttl"`
}

type AuthConfig struct {
	JWTSecret string        `koanf:"jwt_secret"`
	TokenTTL  time.Duration `koanf:"token_ttl"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type CORSConfig struct {
	Origins []string `koanf:"origins"`
}

// Config is the full runtime configuration.
type Config struct {
	App      AppConfig      `koanf:"app"`
	Database DatabaseConfig `koanf:"database"`
	Cache    CacheConfig    `koanf:"cache"`
	Auth     AuthConfig     `koanf:"auth"`
	Log      LogConfig      `koanf:"log"`
	CORS     CORSConfig     `koanf:"cors"`
}

func defaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Addr: ":8080",
			URL:  "http://localhost:8080",
		},
		Database: DatabaseConfig{
			Driver: "mysql",
			DSN:    "root:@tcp(127.0.0.1:3306)/discoveryfy?parseTime=true&loc=UTC&charset=utf8mb4",
		},
		Cache: CacheConfig{TTL: 10 * time.Minute},
		Auth:  AuthConfig{TokenTTL: 24 * time.Hour},
		Log:   LogConfig{Level: "info", Format: "json"},
		CORS: CORSConfig{Origins: []string{
			"http://localhost:3000",
			"http://127.0.0.1:3000",
			"http://localhost:5173",
			"http://127.0.0.1:5173",
		}},
	}
}

// envKeys maps environment variables onto config paths.
var envKeys = map[string]string{
	"APP_ADDR":        "app.addr",
	"APP_URL":         "app.url",
	"GIN_MODE":        "app.gin_mode",
	"DATABASE_DRIVER": "database.driver",
	"DATABASE_DSN":    "database.dsn",
	"CACHE_DIR":       "cache.dir",
	"CACHE_TTL":       "cache.ttl",
	"JWT_SECRET":      "auth.jwt_secret",
	"TOKEN_TTL":       "auth.token_ttl",
	"LOG_LEVEL":       "log.level",
	"LOG_FORMAT":      "log.format",

	"CORS_ALLOWED_ORIGINS": "cors.origins",
}

// Load layers defaults, the optional YAML file and the environment, then validates.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	err := k.Load(env.Provider("", ".", func(key string) string {
		return envKeys[key]
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	if origins, ok := k.Get("cors.origins").(string); ok {
		if err := k.Set("cors.origins", utils.SplitList(origins)); err != nil {
			return nil, fmt.Errorf("set cors.origins: %w", err)
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}
	cfg.App.URL = strings.TrimRight(cfg.App.URL, "/")

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "mysql", "sqlite":
	default:
		return fmt.Errorf("database.driver must be mysql or sqlite, got %q", c.Database.Driver)
	}
	if strings.TrimSpace(c.Database.DSN) == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive")
	}
	return nil
}
