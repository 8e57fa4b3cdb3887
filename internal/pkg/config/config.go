package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/forworkyanika/BKK-Smart-Investment-Map/internal/core/valuation"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig     `mapstructure:"server"`
	Log       LogConfig        `mapstructure:"log"`
	Valuation valuation.Params `mapstructure:"valuation"`
	Landmarks LandmarksConfig  `mapstructure:"landmarks"`
	RateLimit RateLimitConfig  `mapstructure:"ratelimit"`
	NATS      NATSConfig       `mapstructure:"nats"`
	Valkey    ValkeyConfig     `mapstructure:"valkey"`
	Telemetry TelemetryConfig  `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
	DocsPath     string `mapstructure:"docs_path"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type LandmarksConfig struct {
	RadiusMeters float64 `mapstructure:"radius_meters"`
}

// RateLimitConfig bounds requests per client IP. Expiration is in seconds.
type RateLimitConfig struct {
	Max        int `mapstructure:"max"`
	Expiration int `mapstructure:"expiration"`
}

type NATSConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
	Subject string `mapstructure:"subject"`
	Queue   string `mapstructure:"queue"`
}

// ValkeyConfig points the rate limiter at a shared store. Empty Addr keeps
// limiter state in memory.
type ValkeyConfig struct {
	Addr string `mapstructure:"addr"`
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	Endpoint    string `mapstructure:"endpoint"`
	Enabled     bool   `mapstructure:"enabled"`
}

// Load reads configuration from a .env file, an optional config file and
// environment variables, in increasing order of precedence.
func Load(service string) (*Config, error) {
	_ = godotenv.Load() // OK if missing

	v := viper.New()
	setDefaults(v, service)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	// Environment variables: BKKMAP_SERVER_PORT → server.port
	v.SetEnvPrefix("BKKMAP")
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

func setDefaults(v *viper.Viper, service string) {
	p := valuation.DefaultParams()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("server.docs_path", "api/openapi.yaml")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("valuation.base_price", p.BasePrice)
	v.SetDefault("valuation.decay_rate", p.DecayRate)
	v.SetDefault("valuation.min_price", p.MinPrice)
	v.SetDefault("valuation.max_price", p.MaxPrice)
	v.SetDefault("valuation.premium_line", p.PremiumLine)
	v.SetDefault("valuation.premium_multiplier", p.PremiumMultiplier)
	v.SetDefault("valuation.prime_radius", p.PrimeRadius)
	v.SetDefault("valuation.good_radius", p.GoodRadius)
	v.SetDefault("landmarks.radius_meters", 3000.0)
	v.SetDefault("ratelimit.max", 120)
	v.SetDefault("ratelimit.expiration", 60)
	v.SetDefault("nats.enabled", false)
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("nats.subject", "bkkmap.analysis")
	v.SetDefault("nats.queue", "bkkmap-api")
	v.SetDefault("valkey.addr", "")
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.endpoint", "localhost:4317")
	v.SetDefault("telemetry.enabled", false)
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
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Sprintf("log.format must be json or text, got %q", c.Log.Format))
	}
	if err := c.Valuation.Validate(); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Landmarks.RadiusMeters <= 0 {
		errs = append(errs, "landmarks.radius_meters must be positive")
	}
	if c.RateLimit.Max <= 0 {
		errs = append(errs, "ratelimit.max must be positive")
	}
	if c.RateLimit.Expiration <= 0 {
		errs = append(errs, "ratelimit.expiration must be positive")
	}
	if c.NATS.Enabled {
		if c.NATS.URL == "" {
			errs = append(errs, "nats.url is required when nats is enabled")
		}
		if c.NATS.Subject == "" {
			errs = append(errs, "nats.subject is required when nats is enabled")
		}
	}
	if c.Telemetry.Enabled && c.Telemetry.Endpoint == "" {
		errs = append(errs, "telemetry.endpoint is required when telemetry is enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
