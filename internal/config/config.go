// Package config provides runtime configuration for the server and the CLI client.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "PRICELIST"

// Server holds configuration for the REST API process.
type Server struct {
	HTTPAddr         string
	DatabaseURL      string
	RedisAddr        string
	JWTSecret        string
	TokenTTL         time.Duration
	AllowedOrigins   []string
	AuthRateLimit    float64
	AuthRateBurst    int
	LoginMaxFailures int
	LoginWindow      time.Duration
	LoginBanDuration time.Duration
	ShutdownTimeout  time.Duration
	LogLevel         string
}

// Client holds configuration for the price-list client.
type Client struct {
	APIBaseURL     string
	SessionFile    string
	DebounceDelay  time.Duration
	RequestTimeout time.Duration
	Language       string
	LogLevel       string
}

func newViper(configFile string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

// LoadServer reads server settings from an optional config file and PRICELIST_* env vars.
func LoadServer(configFile string) (Server, error) {
	v, err := newViper(configFile)
	if err != nil {
		return Server{}, err
	}

	v.SetDefault("http_addr", ":5000")
	v.SetDefault("database_url", "")
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("jwt_secret", "")
	v.SetDefault("token_ttl", 24*time.Hour)
	v.SetDefault("allowed_origins", []string{"http://localhost:5173"})
	v.SetDefault("auth_rate_limit", 1.0)
	v.SetDefault("auth_rate_burst", 5)
	v.SetDefault("login_max_failures", 5)
	v.SetDefault("login_window", 15*time.Minute)
	v.SetDefault("login_ban_duration", 15*time.Minute)
	v.SetDefault("shutdown_timeout", 15*time.Second)
	v.SetDefault("log_level", "info")

	cfg := Server{
		HTTPAddr:         v.GetString("http_addr"),
		DatabaseURL:      v.GetString("database_url"),
		RedisAddr:        v.GetString("redis_addr"),
		JWTSecret:        v.GetString("jwt_secret"),
		TokenTTL:         v.GetDuration("token_ttl"),
		AllowedOrigins:   v.GetStringSlice("allowed_origins"),
		AuthRateLimit:    v.GetFloat64("auth_rate_limit"),
		AuthRateBurst:    v.GetInt("auth_rate_burst"),
		LoginMaxFailures: v.GetInt("login_max_failures"),
		LoginWindow:      v.GetDuration("login_window"),
		LoginBanDuration: v.GetDuration("login_ban_duration"),
		ShutdownTimeout:  v.GetDuration("shutdown_timeout"),
		LogLevel:         v.GetString("log_level"),
	}

	if cfg.DatabaseURL == "" {
		return Server{}, errors.New("database_url is required (PRICELIST_DATABASE_URL)")
	}
	if cfg.JWTSecret == "" {
		return Server{}, errors.New("jwt_secret is required (PRICELIST_JWT_SECRET)")
	}
	return cfg, nil
}

// LoadClient reads client settings; every value has a usable default.
func LoadClient(configFile string) (Client, error) {
	v, err := newViper(configFile)
	if err != nil {
		return Client{}, err
	}

	v.SetDefault("api_base_url", "http://localhost:5000")
	v.SetDefault("session_file", ".pricelist-session.json")
	v.SetDefault("debounce_delay", time.Second)
	v.SetDefault("request_timeout", 10*time.Second)
	v.SetDefault("language", "en")
	v.SetDefault("log_level", "warn")

	cfg := Client{
		APIBaseURL:     strings.TrimRight(v.GetString("api_base_url"), "/"),
		SessionFile:    v.GetString("session_file"),
		DebounceDelay:  v.GetDuration("debounce_delay"),
		RequestTimeout: v.GetDuration("request_timeout"),
		Language:       v.GetString("language"),
		LogLevel:       v.GetString("log_level"),
	}
	if cfg.DebounceDelay <= 0 {
		return Client{}, fmt.Errorf("debounce_delay must be positive, got %s", cfg.DebounceDelay)
	}
	return cfg, nil
}
