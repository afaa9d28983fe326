// Package config manages run configuration for import jobs.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"ytimport/retry"
)

// Import modes. Search modes discover items from a query, lookup modes load
// an explicit id list.
const (
	ModeSearchVideos   = "search-videos"
	ModeVideoIDs       = "video-ids"
	ModeSearchChannels = "search-channels"
	ModeChannelIDs     = "channel-ids"
)

// API backends.
const (
	APIOfficial = "official"
	APIMirror   = "mirror"
)

// ErrInvalidConfig wraps all validation failures.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds one import run's settings. Values load from a config file,
// then environment variables override; env vars use the YTIMPORT_ prefix
// with dots and dashes replaced by underscores.
type Config struct {
	// Mode selects what to import and how items are discovered.
	Mode string `mapstructure:"mode" validate:"required,oneof=search-videos video-ids search-channels channel-ids"`
	// API selects the official Data API or an unofficial mirror.
	API string `mapstructure:"api" validate:"required,oneof=official mirror"`

	// APIKey authenticates against the official Data API.
	APIKey string `mapstructure:"api_key" validate:"required_if=API official"`
	// MirrorURL is the mirror instance base URL.
	MirrorURL string `mapstructure:"mirror_url" validate:"required_if=API mirror,omitempty,url"`

	// Query drives the search modes.
	Query string `mapstructure:"query"`
	// IDs drives the lookup modes.
	IDs []string `mapstructure:"ids"`

	// Region biases search results and is recorded on every row.
	Region string `mapstructure:"region" validate:"omitempty,len=2,alpha"`
	// Order is the search result ordering.
	Order string `mapstructure:"order" validate:"omitempty,oneof=relevance date rating title viewCount"`
	// SafeSearch filters restricted content in searches.
	SafeSearch string `mapstructure:"safe_search" validate:"omitempty,oneof=none moderate strict"`
	// ChannelType restricts channel searches to a channel kind.
	ChannelType string `mapstructure:"channel_type" validate:"omitempty,oneof=any show"`
	// MaxResults caps imported items across all result pages.
	MaxResults int `mapstructure:"max_results" validate:"min=1,max=150"`
	// IncludePlaylists keeps playlist results instead of skipping them.
	IncludePlaylists bool `mapstructure:"include_playlists"`

	Airtable AirtableConfig `mapstructure:"airtable"`

	// DryRun routes writes to an in-memory store and prints the summary.
	DryRun bool `mapstructure:"dry_run"`
	// LogLevel is a zerolog level name.
	LogLevel string `mapstructure:"log_level" validate:"omitempty,oneof=trace debug info warn error"`

	// RequestTimeout bounds each outbound HTTP request.
	RequestTimeout time.Duration `mapstructure:"request_timeout" validate:"min=1s"`
	// MaxRetries caps retries of transient failures.
	MaxRetries int `mapstructure:"max_retries" validate:"min=0,max=10"`
	// InitialBackoff is the first retry delay.
	InitialBackoff time.Duration `mapstructure:"initial_backoff" validate:"min=1ms"`
	// MaxBackoff caps the retry delay.
	MaxBackoff time.Duration `mapstructure:"max_backoff" validate:"gtefield=InitialBackoff"`
	// BackoffMultiplier grows the delay between attempts.
	BackoffMultiplier float64 `mapstructure:"backoff_multiplier" validate:"gte=1"`
}

// AirtableConfig identifies the destination base and tables.
type AirtableConfig struct {
	// BaseID is the destination base.
	BaseID string `mapstructure:"base_id" validate:"required"`
	// Token is a personal access token with schema and record scopes.
	Token string `mapstructure:"token" validate:"required"`
	// VideosTable receives video rows.
	VideosTable string `mapstructure:"videos_table" validate:"required"`
	// ChannelsTable receives channel rows.
	ChannelsTable string `mapstructure:"channels_table" validate:"required"`
}

// Default returns configuration with safe defaults. Credentials and mode
// have no defaults and must be supplied.
func Default() *Config {
	return &Config{
		API:               APIOfficial,
		Region:            "US",
		Order:             "relevance",
		SafeSearch:        "moderate",
		MaxResults:        150,
		LogLevel:          "info",
		RequestTimeout:    30 * time.Second,
		MaxRetries:        3,
		InitialBackoff:    time.Second,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 2.0,
		Airtable: AirtableConfig{
			VideosTable:   "Videos",
			ChannelsTable: "Channels",
		},
	}
}

// Load reads configuration via Read and validates the result.
func Load() (*Config, error) {
	cfg, err := Read()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read reads ytimport.yaml from the working directory or
// $HOME/.config/ytimport and applies YTIMPORT_* environment overrides,
// without validating. Callers that layer further overrides on top (flags)
// validate afterwards. A missing config file is not an error.
func Read() (*Config, error) {
	v := viper.New()
	v.SetConfigName("ytimport")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/ytimport")

	v.SetEnvPrefix("YTIMPORT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	defaults := Default()
	v.SetDefault("api", defaults.API)
	v.SetDefault("region", defaults.Region)
	v.SetDefault("order", defaults.Order)
	v.SetDefault("safe_search", defaults.SafeSearch)
	v.SetDefault("max_results", defaults.MaxResults)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("request_timeout", defaults.RequestTimeout)
	v.SetDefault("max_retries", defaults.MaxRetries)
	v.SetDefault("initial_backoff", defaults.InitialBackoff)
	v.SetDefault("max_backoff", defaults.MaxBackoff)
	v.SetDefault("backoff_multiplier", defaults.BackoffMultiplier)
	v.SetDefault("airtable.videos_table", defaults.Airtable.VideosTable)
	v.SetDefault("airtable.channels_table", defaults.Airtable.ChannelsTable)

	// Keys without defaults still need registering or env-only values are
	// invisible to Unmarshal.
	for _, key := range []string{
		"mode", "api_key", "mirror_url", "query", "channel_type",
		"airtable.base_id", "airtable.token",
	} {
		v.SetDefault(key, "")
	}
	v.SetDefault("ids", []string{})
	v.SetDefault("include_playlists", false)
	v.SetDefault("dry_run", false)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints and mode prerequisites.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) && len(invalid) > 0 {
			f := invalid[0]
			return fmt.Errorf("%w: field %s fails %s", ErrInvalidConfig, f.Field(), f.Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	switch c.Mode {
	case ModeSearchVideos, ModeSearchChannels:
		if strings.TrimSpace(c.Query) == "" {
			return fmt.Errorf("%w: mode %s requires a query", ErrInvalidConfig, c.Mode)
		}
	case ModeVideoIDs, ModeChannelIDs:
		if len(c.IDs) == 0 {
			return fmt.Errorf("%w: mode %s requires ids", ErrInvalidConfig, c.Mode)
		}
		for _, id := range c.IDs {
			if strings.TrimSpace(id) == "" {
				return fmt.Errorf("%w: mode %s got an empty id", ErrInvalidConfig, c.Mode)
			}
		}
	}
	return nil
}

// RetryConfig maps the retry settings into the retry package's shape.
func (c *Config) RetryConfig() retry.Config {
	return retry.Config{
		MaxRetries:     c.MaxRetries,
		InitialBackoff: c.InitialBackoff,
		MaxBackoff:     c.MaxBackoff,
		Multiplier:     c.BackoffMultiplier,
		JitterFraction: 0.2,
	}
}
