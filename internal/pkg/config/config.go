package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig          `mapstructure:"server"`
	Upstream  UpstreamConfig        `mapstructure:"upstream"`
	Poll      PollConfig            `mapstructure:"poll"`
	Search    SearchConfig          `mapstructure:"search"`
	Seats     SeatsConfig           `mapstructure:"seats"`
	NATS      NATSConfig            `mapstructure:"nats"`
	Valkey    ValkeyConfig          `mapstructure:"valkey"`
	Telemetry TelemetryConfig       `mapstructure:"telemetry"`
	Log       LogConfig             `mapstructure:"log"`
	Lines     map[string]LineConfig `mapstructure:"lines"`
}

type ServerConfig struct {
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
	PublicDir    string `mapstructure:"public_dir"`
}

// UpstreamConfig points at the reservation API.
type UpstreamConfig struct {
	BaseURL  string `mapstructure:"base_url"`
	APIKey   string `mapstructure:"api_key"`
	Language string `mapstructure:"language"`
	Timeout  int    `mapstructure:"timeout"` // seconds per HTTP call
}

type PollConfig struct {
	IntervalMS  int `mapstructure:"interval_ms"`
	MaxAttempts int `mapstructure:"max_attempts"`
}

// Interval returns the poll interval as a duration.
func (p PollConfig) Interval() time.Duration {
	return time.Duration(p.IntervalMS) * time.Millisecond
}

type SearchConfig struct {
	CacheBackend    string `mapstructure:"cache_backend"` // memory | valkey
	CacheTTLSeconds int    `mapstructure:"cache_ttl_seconds"`
	SortMode        string `mapstructure:"sort_mode"` // lexical | chronological
	StrictDates     bool   `mapstructure:"strict_dates"`
}

// CacheTTL returns the search cache TTL as a duration.
func (s SearchConfig) CacheTTL() time.Duration {
	return time.Duration(s.CacheTTLSeconds) * time.Second
}

type SeatsConfig struct {
	MockFallback bool `mapstructure:"mock_fallback"`
}

type NATSConfig struct {
	URL     string `mapstructure:"url"`
	Enabled bool   `mapstructure:"enabled"`
}

type ValkeyConfig struct {
	Addr string `mapstructure:"addr"`
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	TempoAddr   string `mapstructure:"tempo_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LineConfig overrides the built-in catalog entry of one bus line.
type LineConfig struct {
	ServiceType string   `mapstructure:"service_type"`
	Amenities   []string `mapstructure:"amenities"`
}

// Load reads configuration from file and environment variables.
func Load(service string) (*Config, error) {
	return load(service, viper.New())
}

func load(service string, v *viper.Viper) (*Config, error) {
	// Defaults
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 35)
	v.SetDefault("server.public_dir", "")
	v.SetDefault("upstream.base_url", "https://one-api.expresobrasilia.com/api/v2")
	v.SetDefault("upstream.api_key", "")
	v.SetDefault("upstream.language", "es-CO")
	v.SetDefault("upstream.timeout", 15)
	v.SetDefault("poll.interval_ms", 1000)
	v.SetDefault("poll.max_attempts", 15)
	v.SetDefault("search.cache_backend", "memory")
	v.SetDefault("search.cache_ttl_seconds", 300)
	v.SetDefault("search.sort_mode", "lexical")
	v.SetDefault("search.strict_dates", false)
	v.SetDefault("seats.mock_fallback", true)
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("nats.enabled", false)
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.tempo_addr", "tempo:4317")
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: BUSTICKET_UPSTREAM_API_KEY → upstream.api_key
	v.SetEnvPrefix("BUSTICKET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if c.Upstream.BaseURL == "" {
		errs = append(errs, "upstream.base_url is required")
	}
	if c.Upstream.APIKey == "" {
		errs = append(errs, "upstream.api_key is required")
	}
	if c.Upstream.Timeout <= 0 {
		errs = append(errs, "upstream.timeout must be positive")
	}
	if c.Poll.IntervalMS <= 0 {
		errs = append(errs, "poll.interval_ms must be positive")
	}
	if c.Poll.MaxAttempts <= 0 {
		errs = append(errs, "poll.max_attempts must be positive")
	}
	switch c.Search.CacheBackend {
	case "memory":
	case "valkey":
		if c.Valkey.Addr == "" {
			errs = append(errs, "valkey.addr is required when search.cache_backend is valkey")
		}
	default:
		errs = append(errs, fmt.Sprintf("search.cache_backend must be memory or valkey, got %q", c.Search.CacheBackend))
	}
	if c.Search.CacheTTLSeconds <= 0 {
		errs = append(errs, "search.cache_ttl_seconds must be positive")
	}
	if c.Search.SortMode != "lexical" && c.Search.SortMode != "chronological" {
		errs = append(errs, fmt.Sprintf("search.sort_mode must be lexical or chronological, got %q", c.Search.SortMode))
	}
	if c.NATS.Enabled && c.NATS.URL == "" {
		errs = append(errs, "nats.url is required when nats.enabled is set")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
