package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const envPrefix = "DRIVER"

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Service ServiceConfig `mapstructure:"service"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Gateway GatewayConfig `mapstructure:"gateway"`
}

type ServerConfig struct {
	Port              string          `mapstructure:"port" validate:"required,numeric"`
	LogLevel          string          `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	RequestTimeout    time.Duration   `mapstructure:"request_timeout" validate:"gt=0"`
	ReadHeaderTimeout time.Duration   `mapstructure:"read_header_timeout" validate:"gt=0"`
	MaxBodyBytes      int64           `mapstructure:"max_body_bytes" validate:"gt=0"`
	CORSOrigins       []string        `mapstructure:"cors_origins"`
	TrustProxy        bool            `mapstructure:"trust_proxy"`
	RateLimit         RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig is per client IP. RPS <= 0 disables limiting.
type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps" validate:"gte=0"`
	Burst int     `mapstructure:"burst" validate:"gte=1"`
}

type ServiceConfig struct {
	Name string `mapstructure:"name" validate:"required"`
	Slug string `mapstructure:"slug" validate:"required"`
}

// AuthConfig holds the expected credentials for the deployment's single auth mode.
type AuthConfig struct {
	Mode         string `mapstructure:"mode" validate:"oneof=token login"`
	Token        string `mapstructure:"token" validate:"required_if=Mode token"`
	Login        string `mapstructure:"login" validate:"required_if=Mode login"`
	Password     string `mapstructure:"password"`
	PasswordHash string `mapstructure:"password_hash"`
}

type GatewayConfig struct {
	Kind    string        `mapstructure:"kind" validate:"oneof=fake http"`
	BaseURL string        `mapstructure:"base_url" validate:"omitempty,url"`
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

// Load reads configuration from an optional YAML file and DRIVER_* env vars.
// Env vars take precedence over the file.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Auth.Mode == "login" && c.Auth.Password == "" && c.Auth.PasswordHash == "" {
		return errors.New("invalid config: auth.password or auth.password_hash is required in login mode")
	}
	if c.Gateway.Kind == "http" && c.Gateway.BaseURL == "" {
		return errors.New("invalid config: gateway.base_url is required for the http gateway")
	}
	return nil
}

func (c ServerConfig) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.request_timeout", 600*time.Second)
	v.SetDefault("server.read_header_timeout", 10*time.Second)
	v.SetDefault("server.max_body_bytes", int64(1<<20))
	v.SetDefault("server.cors_origins", []string{})
	v.SetDefault("server.trust_proxy", false)
	v.SetDefault("server.rate_limit.rps", 0.0)
	v.SetDefault("server.rate_limit.burst", 20)

	v.SetDefault("service.name", "Driver Service Example")
	v.SetDefault("service.slug", "driver_service_example")

	v.SetDefault("auth.mode", "token")
	v.SetDefault("auth.token", "")
	v.SetDefault("auth.login", "")
	v.SetDefault("auth.password", "")
	v.SetDefault("auth.password_hash", "")

	v.SetDefault("gateway.kind", "fake")
	v.SetDefault("gateway.base_url", "")
	v.SetDefault("gateway.timeout", 15*time.Second)
}
