package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Strava   StravaConfig   `mapstructure:"strava"`
	Planner  PlannerConfig  `mapstructure:"planner"`
	Session  SessionConfig  `mapstructure:"session"`
	Frontend FrontendConfig `mapstructure:"frontend"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// DatabaseConfig selects the durable storage backend. Driver is "sqlite"
// (Path) or "mongo" (URI + Name).
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
	URI    string `mapstructure:"uri"`
	Name   string `mapstructure:"name"`
}

type StravaConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURI  string `mapstructure:"redirect_uri"`
}

type PlannerConfig struct {
	URL string `mapstructure:"url"`
}

// SessionConfig defines the signed session cookie carrying Strava tokens.
type SessionConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

type FrontendConfig struct {
	URL string `mapstructure:"url"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Env override for nested keys, e.g. server.address -> SERVER_ADDRESS,
	// strava.client_id -> STRAVA_CLIENT_ID.
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	viper.SetDefault("server.address", ":8080")
	viper.SetDefault("database.driver", "sqlite")
	viper.SetDefault("database.path", "stride.db")
	viper.SetDefault("database.uri", "mongodb://localhost:27017")
	viper.SetDefault("database.name", "stride")
	viper.SetDefault("planner.url", "http://localhost:8090")
	viper.SetDefault("session.expiration", "6h")
	viper.SetDefault("frontend.url", "http://localhost:5173")

	err = viper.ReadInConfig()
	// A missing config file is fine; env vars and defaults still apply.
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		err = nil
	} else if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}
