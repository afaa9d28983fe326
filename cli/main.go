// Command ytimport imports YouTube videos or channels into an Airtable base.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"

	"ytimport"
	"ytimport/config"
	"ytimport/importer"
	"ytimport/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	mode := flag.String("mode", "", "import mode: search-videos, video-ids, search-channels, channel-ids")
	query := flag.String("query", "", "search query (search modes)")
	ids := flag.String("ids", "", "comma-separated ids (lookup modes)")
	api := flag.String("api", "", "api backend: official or mirror")
	mirrorURL := flag.String("mirror-url", "", "mirror instance base URL")
	region := flag.String("region", "", "two-letter region code")
	maxResults := flag.Int("max", 0, "maximum items to import (1-150)")
	dryRun := flag.Bool("dry-run", false, "import into memory and print the summary without writing")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Usage = printUsage
	flag.Parse()

	cfg, err := loadConfig(*mode, *query, *ids, *api, *mirrorURL, *region, *maxResults, *dryRun, *verbose)
	if err != nil {
		return err
	}

	log := newLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := ytimport.NewClient(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("create platform client: %w", err)
	}

	st := ytimport.NewStore(cfg)
	mem, _ := st.(*store.MemoryStore)

	summary, err := importer.New(cfg, client, st, log).Run(ctx)
	if summary != nil {
		fmt.Print(summary.String())
	}
	if err != nil {
		return err
	}

	if cfg.DryRun && mem != nil {
		table := cfg.Airtable.VideosTable
		if cfg.Mode == config.ModeSearchChannels || cfg.Mode == config.ModeChannelIDs {
			table = cfg.Airtable.ChannelsTable
		}
		fmt.Printf("Dry run: %d rows would be written to %q\n", len(mem.Rows(table)), table)
	}
	return nil
}

// loadConfig merges the config file and environment with flag overrides.
// Flags win.
func loadConfig(mode, query, ids, api, mirrorURL, region string, maxResults int, dryRun, verbose bool) (*config.Config, error) {
	cfg, err := config.Read()
	if err != nil {
		return nil, err
	}

	if mode != "" {
		cfg.Mode = mode
	}
	if query != "" {
		cfg.Query = query
	}
	if ids != "" {
		cfg.IDs = nil
		for _, id := range strings.Split(ids, ",") {
			if id = strings.TrimSpace(id); id != "" {
				cfg.IDs = append(cfg.IDs, id)
			}
		}
	}
	if api != "" {
		cfg.API = api
	}
	if mirrorURL != "" {
		cfg.MirrorURL = mirrorURL
	}
	if region != "" {
		cfg.Region = region
	}
	if maxResults > 0 {
		cfg.MaxResults = maxResults
	}
	if dryRun {
		cfg.DryRun = true
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(lvl).
		With().Timestamp().Logger()
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `ytimport - import YouTube videos or channels into Airtable

Usage:
  ytimport -mode search-videos -query "modular synths"
  ytimport -mode video-ids -ids dQw4w9WgXcQ,9bZkp7q19f0
  ytimport -mode search-channels -query "synth makers"
  ytimport -mode channel-ids -ids UC_x5XG1OV2P6uZZ5FSM9Ttw

Configuration comes from ytimport.yaml (working directory or
~/.config/ytimport) and YTIMPORT_* environment variables; flags override
both. The Airtable base id and token have no flags and must come from the
config file or environment (YTIMPORT_AIRTABLE_BASE_ID,
YTIMPORT_AIRTABLE_TOKEN).

Flags:
`)
	flag.PrintDefaults()
}
