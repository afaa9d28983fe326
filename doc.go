// Package ytimport imports YouTube videos and channels into Airtable.
//
// It queries the official YouTube Data API v3 (or an unofficial mirror with
// an Invidious-compatible API), normalizes the heterogeneous responses into
// one canonical record shape, provisions the destination table schema, and
// writes the rows.
//
// Quick Start
//
// Run a whole import with one call:
//
//	cfg := config.Default()
//	cfg.Mode = config.ModeSearchVideos
//	cfg.Query = "modular synths"
//	cfg.APIKey = os.Getenv("YTIMPORT_API_KEY")
//	cfg.Airtable.BaseID = "appXXXXXXXXXXXXXX"
//	cfg.Airtable.Token = os.Getenv("YTIMPORT_AIRTABLE_TOKEN")
//
//	summary, err := ytimport.Run(ctx, cfg, log)
//	if err != nil {
//		log.Fatal().Err(err).Msg("import failed")
//	}
//	fmt.Print(summary)
//
// Modes
//
// Four modes are supported:
//
//   - search-videos: free-text video search, paginated up to 150 results
//   - video-ids: direct lookup of an explicit video id list
//   - search-channels: free-text channel search
//   - channel-ids: direct lookup of an explicit channel id list
//
// Video modes write to the videos table, channel modes to the channels
// table. Missing tables and fields are created automatically with typed
// options; fresh select fields get a starter choice set.
//
// Configuration
//
// Configuration loads from ytimport.yaml (working directory or
// ~/.config/ytimport), with YTIMPORT_* environment variables overriding the
// file. See the config package for the full surface.
//
// Error Handling
//
// Operations return errors that wrap the sentinels re-exported here:
//
//	if errors.Is(err, ytimport.ErrQuotaExceeded) {
//		// stop for the day
//	}
//
// Transient failures (rate limits, 5xx responses, timeouts) are retried
// with exponential backoff before surfacing; a *RetryableError marks an
// error that survived every retry.
//
// Advanced Usage
//
// For more control, use the sub-packages directly:
//
//   - youtube: the platform client contract and the official implementation
//   - youtube/mirror: the unofficial mirror implementation
//   - canonical: normalization into the canonical record shape
//   - schema: destination field layouts and choice management
//   - store: the destination table contract, Airtable and memory backends
//   - importer: the run orchestration
//   - retry: exponential backoff retry logic
package ytimport
