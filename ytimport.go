package ytimport

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"ytimport/canonical"
	"ytimport/config"
	"ytimport/httpx"
	"ytimport/importer"
	"ytimport/store"
	"ytimport/store/airtable"
	"ytimport/youtube"
	"ytimport/youtube/mirror"
)

// Run executes one import with the configured backend and destination. A
// dry-run configuration writes to memory instead of Airtable. The returned
// summary is valid even when an error is returned.
func Run(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*canonical.Summary, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client, err := NewClient(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("create platform client: %w", err)
	}

	return importer.New(cfg, client, NewStore(cfg), log).Run(ctx)
}

// NewClient builds the platform client the configuration selects: the
// official Data API or an unofficial mirror.
func NewClient(ctx context.Context, cfg *config.Config, log zerolog.Logger) (youtube.Client, error) {
	if cfg.API == config.APIMirror {
		return mirror.New(cfg.MirrorURL, NewHTTPClient(cfg)), nil
	}
	return youtube.NewAPIClient(ctx, cfg.APIKey,
		youtube.WithRetryConfig(cfg.RetryConfig()),
		youtube.WithLogger(log))
}

// NewStore builds the destination store: Airtable, or memory for dry runs.
func NewStore(cfg *config.Config) store.TableStore {
	if cfg.DryRun {
		return store.NewMemoryStore()
	}
	return airtable.New(cfg.Airtable.BaseID, cfg.Airtable.Token, NewHTTPClient(cfg))
}

// NewHTTPClient builds the rate-limited HTTP client used by the mirror
// backend and the Airtable store.
func NewHTTPClient(cfg *config.Config) *httpx.Client {
	hc := httpx.DefaultConfig()
	hc.Timeout = cfg.RequestTimeout
	hc.Retry = cfg.RetryConfig()
	return httpx.New(hc)
}
