package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	RoutingModeCountry = "country"
	RoutingModeCity    = "city"
)

// ConfigPathEnvVar 指定配置文件路径的环境变量。
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths 按优先级查找的配置文件。
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/dplus/config.yaml",
}

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr  string        `koanf:"listen_addr"`
	Port        string        `koanf:"port"`
	GinMode     string        `koanf:"gin_mode"`
	SiteBaseURL string        `koanf:"site_base_url"`
	SiteName    string        `koanf:"site_name"`
	DefaultOG   string        `koanf:"default_og_image"`
	API         APIConfig     `koanf:"api"`
	Cache       CacheConfig   `koanf:"cache"`
	Log         LogConfig     `koanf:"log"`
	Routing     RoutingConfig `koanf:"routing"`
}

// APIConfig describes the remote backend the pages are rendered from.
type APIConfig struct {
	BaseURL          string        `koanf:"base_url"`
	Timeout          time.Duration `koanf:"timeout"`
	BreakerFailures  uint32        `koanf:"breaker_failures"`
	BreakerOpenFor   time.Duration `koanf:"breaker_open_for"`
	BreakerHalfOpen  uint32        `koanf:"breaker_half_open"`
	BreakerResetEach time.Duration `koanf:"breaker_reset_each"`
}

type CacheConfig struct {
	Enabled bool   `koanf:"enabled"`
	DBPath  string `koanf:"db_path"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// RoutingConfig holds the constants the locale/country routing layer works with.
type RoutingConfig struct {
	Mode              string   `koanf:"mode"`
	AllowedCountries  []string `koanf:"allowed_countries"`
	DefaultCountry    string   `koanf:"default_country"`
	HomeCountry       string   `koanf:"home_country"`
	HomeLanguage      string   `koanf:"home_language"`
	DefaultFullLocale string   `koanf:"default_full_locale"`
	SupportedLocales  []string `koanf:"supported_locales"`
	DefaultCity       string   `koanf:"default_city"`
	PassthroughPaths  []string `koanf:"passthrough_paths"`
}

func defaultConfig() AppConfig {
	return AppConfig{
		Port:        "8080",
		GinMode:     "release",
		SiteBaseURL: "https://dplus.app",
		SiteName:    "dplus",
		DefaultOG:   "https://dplus.app/static/og-default.png",
		API: APIConfig{
			BaseURL:          "http://localhost:4000",
			Timeout:          10 * time.Second,
			BreakerFailures:  5,
			BreakerOpenFor:   30 * time.Second,
			BreakerHalfOpen:  1,
			BreakerResetEach: time.Minute,
		},
		Cache: CacheConfig{
			Enabled: true,
			DBPath:  "data/dplus-cache.db",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Routing: RoutingConfig{
			Mode:              RoutingModeCountry,
			AllowedCountries:  []string{"AA", "KR"},
			DefaultCountry:    "AA",
			HomeCountry:       "KR",
			HomeLanguage:      "ko",
			DefaultFullLocale: "ko-KR",
			SupportedLocales:  []string{"en", "cn", "ja", "id", "vi", "th", "tw"},
			DefaultCity:       "seoul",
			PassthroughPaths:  []string{"/_next", "/static", "/api", "/metrics", "/healthz", "/locale"},
		},
	}
}

var envMappings = map[string]string{
	"port":                "port",
	"listen_addr":         "listen_addr",
	"gin_mode":            "gin_mode",
	"site_base_url":       "site_base_url",
	"site_name":           "site_name",
	"default_og_image":    "default_og_image",
	"api_base_url":        "api.base_url",
	"api_timeout":         "api.timeout",
	"api_breaker_fails":   "api.breaker_failures",
	"api_breaker_open":    "api.breaker_open_for",
	"cache_enabled":       "cache.enabled",
	"cache_db_path":       "cache.db_path",
	"log_level":           "log.level",
	"log_format":          "log.format",
	"routing_mode":        "routing.mode",
	"allowed_countries":   "routing.allowed_countries",
	"default_country":     "routing.default_country",
	"home_country":        "routing.home_country",
	"home_language":       "routing.home_language",
	"default_full_locale": "routing.default_full_locale",
	"supported_locales":   "routing.supported_locales",
	"default_city":        "routing.default_city",
	"passthrough_paths":   "routing.passthrough_paths",
}

var sliceConfigPaths = []string{
	"routing.allowed_countries",
	"routing.supported_locales",
	"routing.passthrough_paths",
}

// Load 依次读取默认值、可选的 YAML 配置文件和环境变量（优先级最高）。
func Load() (AppConfig, error) {
	k := koanf.New(".")

	defaults := defaultConfig()
	if err := k.Load(structs.Provider(&defaults, "koanf"), nil); err != nil {
		return AppConfig{}, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return AppConfig{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransform), nil); err != nil {
		return AppConfig{}, fmt.Errorf("load environment: %w", err)
	}

	if err := splitSliceFields(k); err != nil {
		return AppConfig{}, err
	}

	var cfg AppConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return AppConfig{}, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

func envTransform(key string) string {
	mapped, ok := envMappings[strings.ToLower(key)]
	if !ok {
		return ""
	}
	return mapped
}

func findConfigFile() string {
	if path := strings.TrimSpace(os.Getenv(ConfigPathEnvVar)); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// env values arrive as "AA,KR"; YAML lists are left alone.
func splitSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		raw, ok := k.Get(path).(string)
		if !ok || strings.TrimSpace(raw) == "" {
			continue
		}
		parts := strings.Split(raw, ",")
		values := make([]string, 0, len(parts))
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				values = append(values, trimmed)
			}
		}
		if err := k.Set(path, values); err != nil {
			return fmt.Errorf("set %s: %w", path, err)
		}
	}
	return nil
}

func (c *AppConfig) normalize() {
	c.Port = strings.TrimSpace(c.Port)
	if c.Port == "" {
		c.Port = "8080"
	}
	c.ListenAddr = strings.TrimSpace(c.ListenAddr)
	if c.ListenAddr == "" {
		c.ListenAddr = fmt.Sprintf(":%s", c.Port)
	}
	c.SiteBaseURL = strings.TrimRight(strings.TrimSpace(c.SiteBaseURL), "/")
	c.API.BaseURL = strings.TrimRight(strings.TrimSpace(c.API.BaseURL), "/")
	c.Routing.Mode = strings.ToLower(strings.TrimSpace(c.Routing.Mode))

	r := &c.Routing
	r.DefaultCountry = strings.ToUpper(strings.TrimSpace(r.DefaultCountry))
	r.HomeCountry = strings.ToUpper(strings.TrimSpace(r.HomeCountry))
	r.HomeLanguage = strings.ToLower(strings.TrimSpace(r.HomeLanguage))
	r.DefaultCity = strings.ToLower(strings.TrimSpace(r.DefaultCity))
	for i, code := range r.AllowedCountries {
		r.AllowedCountries[i] = strings.ToUpper(strings.TrimSpace(code))
	}
	for i, code := range r.SupportedLocales {
		r.SupportedLocales[i] = strings.ToLower(strings.TrimSpace(code))
	}
}

// Validate reports configuration the routing layer cannot work with.
func (c AppConfig) Validate() error {
	var errs []error
	switch c.Routing.Mode {
	case RoutingModeCountry, RoutingModeCity:
	default:
		errs = append(errs, fmt.Errorf("routing.mode must be %q or %q, got %q", RoutingModeCountry, RoutingModeCity, c.Routing.Mode))
	}
	if len(c.Routing.DefaultCountry) != 2 {
		errs = append(errs, fmt.Errorf("routing.default_country must be two letters, got %q", c.Routing.DefaultCountry))
	}
	if !containsString(c.Routing.AllowedCountries, c.Routing.DefaultCountry) {
		errs = append(errs, fmt.Errorf("routing.allowed_countries must include default country %q", c.Routing.DefaultCountry))
	}
	if c.Routing.DefaultCity == "" {
		errs = append(errs, errors.New("routing.default_city is required"))
	}
	if c.API.BaseURL == "" {
		errs = append(errs, errors.New("api.base_url is required"))
	}
	return errors.Join(errs...)
}

func containsString(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
