package config

import (
	"errors"
	"testing"
	"time"
)

func validConfig() *Config {
	cfg := Default()
	cfg.Mode = ModeSearchVideos
	cfg.Query = "synth builds"
	cfg.APIKey = "key"
	cfg.Airtable.BaseID = "appX"
	cfg.Airtable.Token = "pat"
	return cfg
}

func TestValidateAcceptsFullConfig(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateModePrerequisites(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"search without query", func(c *Config) { c.Query = "  " }},
		{"lookup without ids", func(c *Config) { c.Mode = ModeVideoIDs; c.IDs = nil }},
		{"lookup with blank id", func(c *Config) { c.Mode = ModeChannelIDs; c.IDs = []string{"UC1", ""} }},
		{"unknown mode", func(c *Config) { c.Mode = "scrape-everything" }},
		{"official without key", func(c *Config) { c.APIKey = "" }},
		{"mirror without url", func(c *Config) { c.API = APIMirror }},
		{"max results above cap", func(c *Config) { c.MaxResults = 151 }},
		{"bad region", func(c *Config) { c.Region = "USA" }},
		{"bad channel type", func(c *Config) { c.ChannelType = "brand" }},
		{"missing base", func(c *Config) { c.Airtable.BaseID = "" }},
		{"backoff inverted", func(c *Config) { c.MaxBackoff = c.InitialBackoff / 2 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestValidateMirrorMode(t *testing.T) {
	cfg := validConfig()
	cfg.API = APIMirror
	cfg.APIKey = ""
	cfg.MirrorURL = "https://iv.example.org"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate mirror config: %v", err)
	}
}

func TestValidateLookupMode(t *testing.T) {
	cfg := validConfig()
	cfg.Mode = ModeVideoIDs
	cfg.Query = ""
	cfg.IDs = []string{"dQw4w9WgXcQ"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate lookup config: %v", err)
	}
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.MaxResults != 150 {
		t.Errorf("MaxResults = %d, want 150", cfg.MaxResults)
	}
	if cfg.API != APIOfficial {
		t.Errorf("API = %q, want official", cfg.API)
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Errorf("RequestTimeout = %v", cfg.RequestTimeout)
	}
	if cfg.Airtable.VideosTable != "Videos" || cfg.Airtable.ChannelsTable != "Channels" {
		t.Errorf("table defaults = %+v", cfg.Airtable)
	}
}

func TestRetryConfig(t *testing.T) {
	cfg := validConfig()
	cfg.MaxRetries = 5
	rc := cfg.RetryConfig()
	if rc.MaxRetries != 5 || rc.InitialBackoff != time.Second || rc.Multiplier != 2.0 {
		t.Errorf("RetryConfig() = %+v", rc)
	}
}
