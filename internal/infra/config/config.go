// Package config provides configuration loading from YAML files.
package config

import (
	"net"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/osa030/tastebox/internal/domain/track"
)

// Config represents the application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	API     APIConfig     `yaml:"api"`
	Log     LogConfig     `yaml:"log"`
	Spotify SpotifyConfig `yaml:"spotify"`
	Reports ReportsConfig `yaml:"reports"`
}

// ServerConfig represents server configuration.
type ServerConfig struct {
	Addr  string      `yaml:"addr" default:":8080"`
	Hooks HooksConfig `yaml:"hooks"`
}

// HooksConfig represents lifecycle hooks configuration.
type HooksConfig struct {
	OnStarted []string `yaml:"on_started"`
	OnStopped []string `yaml:"on_stopped"`
}

// APIConfig represents API access configuration.
// An empty token leaves the API open.
type APIConfig struct {
	Token string `yaml:"token"`
}

// LogConfig represents logging configuration.
type LogConfig struct {
	Level string `yaml:"level" default:"info" validate:"oneof=debug info warn warning error"`
	File  string `yaml:"file"`
}

// SpotifyConfig represents Spotify API configuration.
type SpotifyConfig struct {
	ClientID     string `yaml:"client_id" validate:"required"`
	ClientSecret string `yaml:"client_secret" validate:"required"`
	RefreshToken string `yaml:"refresh_token" validate:"required"`
	Market       string `yaml:"market" validate:"omitempty,len=2"`
}

// ReportsConfig represents report computation settings.
type ReportsConfig struct {
	DefaultTimeRange       string `yaml:"default_time_range" default:"medium_term" validate:"oneof=short_term medium_term long_term"`
	GenreLookupConcurrency int    `yaml:"genre_lookup_concurrency" default:"4" validate:"gte=1,lte=16"`
}

// Load loads configuration from a YAML file.
// Environment variables take precedence over file values for sensitive fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}
	return Parse(data)
}

// Parse parses configuration from YAML data, applies environment overrides
// and defaults, and validates the result.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	// Override with environment variables
	cfg.overrideFromEnv()

	// Set defaults using creasty/defaults
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("SPOTIFY_CLIENT_ID"); v != "" {
		c.Spotify.ClientID = v
	}
	if v := os.Getenv("SPOTIFY_CLIENT_SECRET"); v != "" {
		c.Spotify.ClientSecret = v
	}
	if v := os.Getenv("SPOTIFY_REFRESH_TOKEN"); v != "" {
		c.Spotify.RefreshToken = v
	}
	if v := os.Getenv("TASTEBOX_API_TOKEN"); v != "" {
		c.API.Token = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}

	if _, _, err := net.SplitHostPort(c.Server.Addr); err != nil {
		return errors.Wrapf(err, "invalid server addr %q", c.Server.Addr)
	}

	return nil
}

// DefaultTimeRange returns the window used when a request names none.
func (c *Config) DefaultTimeRange() track.TimeRange {
	tr, err := track.ParseTimeRange(c.Reports.DefaultTimeRange, track.MediumTerm)
	if err != nil {
		return track.MediumTerm
	}
	return tr
}

// APITokenRequired reports whether requests must carry the API token.
func (c *Config) APITokenRequired() bool {
	return c.API.Token != ""
}
