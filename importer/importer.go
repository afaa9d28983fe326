// Package importer orchestrates one import run end to end: destination
// schema reconciliation, item discovery, auxiliary statistics lookups,
// normalization, tag choice management, and the final table writes.
package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"ytimport/canonical"
	"ytimport/config"
	"ytimport/schema"
	"ytimport/store"
	"ytimport/youtube"
)

// maxSearchPages bounds pagination; three pages of fifty results covers the
// run ceiling of 150 items.
const maxSearchPages = 3

// recentUploadsSample is how many recent uploads feed the posting-cadence
// estimate for a channel.
const recentUploadsSample = 15

// Importer runs imports against one platform client and one table store.
type Importer struct {
	cfg    *config.Config
	client youtube.Client
	store  store.TableStore
	log    zerolog.Logger
	norm   *canonical.Normalizer
}

// New creates an importer for a validated configuration.
func New(cfg *config.Config, client youtube.Client, st store.TableStore, log zerolog.Logger) *Importer {
	log = log.With().Str("component", "importer").Logger()
	return &Importer{
		cfg:    cfg,
		client: client,
		store:  st,
		log:    log,
		norm:   canonical.NewNormalizer(cfg.Region, log),
	}
}

// Run executes one import and reports what it did. The returned summary is
// valid even on error, so callers can report partial progress.
func (imp *Importer) Run(ctx context.Context) (*canonical.Summary, error) {
	summary := &canonical.Summary{RunID: uuid.NewString()}

	mode := importMode(imp.cfg.Mode)
	table, target := imp.target(mode.Entity())

	log := imp.log.With().Str("run_id", summary.RunID).Str("mode", imp.cfg.Mode).Logger()
	log.Info().Str("table", table).Msg("starting import run")

	fields, err := imp.reconcileSchema(ctx, table, target)
	if err != nil {
		return summary, fmt.Errorf("reconcile schema for %s: %w", table, err)
	}

	items, err := imp.discover(ctx, mode, summary)
	if err != nil {
		return summary, fmt.Errorf("discover items: %w", err)
	}
	if len(items) == 0 {
		log.Info().Msg("nothing to import")
		return summary, nil
	}

	records, err := imp.enrich(ctx, mode, items, summary)
	if err != nil {
		return summary, fmt.Errorf("look up item details: %w", err)
	}

	rows, err := imp.buildRows(ctx, table, fields, records, summary)
	if err != nil {
		return summary, err
	}

	ids, err := imp.store.CreateRecords(ctx, table, rows)
	summary.Imported = len(ids)
	if err != nil {
		return summary, fmt.Errorf("write records to %s: %w", table, err)
	}

	log.Info().
		Int("imported", summary.Imported).
		Int("duplicates", summary.DuplicatesSkipped).
		Int("playlists", summary.PlaylistsSkipped).
		Msg("import run finished")
	return summary, nil
}

func importMode(mode string) canonical.Mode {
	switch mode {
	case config.ModeVideoIDs:
		return canonical.ModeVideoLookup
	case config.ModeSearchChannels:
		return canonical.ModeChannelSearch
	case config.ModeChannelIDs:
		return canonical.ModeChannelLookup
	default:
		return canonical.ModeVideoSearch
	}
}

func (imp *Importer) target(entity canonical.Entity) (string, []schema.FieldSpec) {
	if entity == canonical.EntityChannel {
		return imp.cfg.Airtable.ChannelsTable, schema.ChannelFields()
	}
	return imp.cfg.Airtable.VideosTable, schema.VideoFields()
}

// reconcileSchema makes the destination table match the target layout:
// ensure the table exists, create whatever fields are missing, and seed
// starter choices into fresh select fields. It returns the resulting field
// list, including choice sets, for the row-building stage.
func (imp *Importer) reconcileSchema(ctx context.Context, table string, target []schema.FieldSpec) ([]schema.ExistingField, error) {
	if err := imp.store.EnsureTable(ctx, table, target[0]); err != nil {
		return nil, err
	}

	existing, err := imp.store.ListFields(ctx, table)
	if err != nil {
		return nil, err
	}

	for _, spec := range schema.MissingFields(existing, target) {
		imp.log.Info().Str("table", table).Str("field", spec.Name).Msg("creating missing field")
		if err := imp.store.CreateField(ctx, table, spec); err != nil {
			return nil, err
		}
		existing = append(existing, schema.ExistingField{Name: spec.Name, Kind: spec.Kind})
	}

	for i := range existing {
		presets := schema.PresetChoices(existing[i].Name)
		if len(presets) == 0 {
			continue
		}
		add := schema.SeedChoices(existing[i], presets)
		if len(add) == 0 {
			continue
		}
		if err := imp.store.UpdateFieldChoices(ctx, table, existing[i].Name, add); err != nil {
			return nil, err
		}
		existing[i].Choices = append(existing[i].Choices, add...)
	}
	return existing, nil
}

// discover produces the validated, deduplicated item list for the run,
// either by paging through search results or from the configured id list.
func (imp *Importer) discover(ctx context.Context, mode canonical.Mode, summary *canonical.Summary) ([]youtube.RawItem, error) {
	var merged []youtube.RawItem

	switch mode {
	case canonical.ModeVideoSearch, canonical.ModeChannelSearch:
		pages, err := imp.searchPages(ctx, mode)
		if err != nil {
			return nil, err
		}
		merged = canonical.MergePages(pages)
	case canonical.ModeVideoLookup:
		for _, id := range imp.cfg.IDs {
			merged = append(merged, youtube.RawItem{VideoID: id})
		}
	case canonical.ModeChannelLookup:
		for _, id := range imp.cfg.IDs {
			merged = append(merged, youtube.RawItem{ChannelID: id})
		}
	}

	extractor := canonical.VideoID
	if mode.Entity() == canonical.EntityChannel {
		extractor = canonical.ChannelID
	}

	valid, skips := canonical.FilterValid(merged, extractor, imp.cfg.IncludePlaylists)
	summary.PlaylistsSkipped = skips.Playlists
	if skips.EmptyID > 0 {
		// Entries without a usable id are removed or unavailable items; they
		// count toward the run summary like any other skip.
		if mode.Entity() == canonical.EntityChannel {
			summary.RemovedChannelsSkipped += skips.EmptyID
		} else {
			summary.RemovedVideosSkipped += skips.EmptyID
		}
		imp.log.Warn().Int("count", skips.EmptyID).Msg("skipping results without a usable id")
	}

	deduped, dups := canonical.DedupeByID(valid, extractor)
	summary.DuplicatesSkipped = dups

	if len(deduped) > imp.cfg.MaxResults {
		deduped = deduped[:imp.cfg.MaxResults]
	}
	return deduped, nil
}

func (imp *Importer) searchPages(ctx context.Context, mode canonical.Mode) ([]youtube.Page, error) {
	params := youtube.SearchParams{
		Query:      imp.cfg.Query,
		Mode:       youtube.SearchVideos,
		Region:     imp.cfg.Region,
		Order:      imp.cfg.Order,
		SafeSearch: imp.cfg.SafeSearch,
	}
	if mode == canonical.ModeChannelSearch {
		params.Mode = youtube.SearchChannels
		params.ChannelType = imp.cfg.ChannelType
	}

	var pages []youtube.Page
	collected := 0
	for page := 0; page < maxSearchPages; page++ {
		p, err := imp.client.Search(ctx, params)
		if err != nil {
			return nil, err
		}
		pages = append(pages, *p)
		collected += len(p.Items)

		if p.NextPageToken == "" || collected >= imp.cfg.MaxResults {
			break
		}
		params.PageToken = p.NextPageToken
	}
	return pages, nil
}

// enrich runs the auxiliary lookups and normalizes every surviving item.
// In the id-lookup modes an item whose detail lookup comes back empty is
// treated as removed and skipped; search results keep their snippet and fall
// back to zero-valued counters when a lookup is missing.
func (imp *Importer) enrich(ctx context.Context, mode canonical.Mode, items []youtube.RawItem, summary *canonical.Summary) ([]canonical.Record, error) {
	if mode.Entity() == canonical.EntityChannel {
		return imp.enrichChannels(ctx, mode, items, summary)
	}
	return imp.enrichVideos(ctx, mode, items, summary)
}

func (imp *Importer) enrichVideos(ctx context.Context, mode canonical.Mode, items []youtube.RawItem, summary *canonical.Summary) ([]canonical.Record, error) {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.VideoID)
	}

	details, err := imp.client.VideoDetails(ctx, ids)
	if err != nil {
		return nil, err
	}
	videoByID := make(map[string]*youtube.VideoDetail, len(details))
	for i := range details {
		videoByID[details[i].ID] = &details[i]
	}

	// One channel lookup covers every distinct channel in the batch.
	var channelIDs []string
	seen := map[string]bool{}
	for _, it := range items {
		chID := videoChannelID(it, videoByID[it.VideoID])
		if chID != "" && !seen[chID] {
			seen[chID] = true
			channelIDs = append(channelIDs, chID)
		}
	}
	channelByID, err := imp.channelMap(ctx, channelIDs)
	if err != nil {
		return nil, err
	}

	var records []canonical.Record
	for _, it := range items {
		vd := videoByID[it.VideoID]
		if vd == nil {
			// A direct id lookup has nothing but the id; the video is gone.
			// A search result still carries a usable snippet, so a missing
			// statistics lookup degrades to zero counts instead of dropping
			// the item.
			if mode == canonical.ModeVideoLookup {
				summary.RemovedVideosSkipped++
				imp.log.Warn().Str("video_id", it.VideoID).Msg("video has no details, skipping as removed")
				continue
			}
		}
		aux := canonical.Aux{Video: vd, Channel: channelByID[videoChannelID(it, vd)]}
		records = append(records, imp.norm.Normalize(it, aux, mode))
	}
	return records, nil
}

// videoChannelID resolves a video item's channel id, preferring the detail
// snippet over the search snippet.
func videoChannelID(item youtube.RawItem, detail *youtube.VideoDetail) string {
	if detail != nil && detail.Snippet.ChannelID != "" {
		return detail.Snippet.ChannelID
	}
	return item.Snippet.ChannelID
}

func (imp *Importer) enrichChannels(ctx context.Context, mode canonical.Mode, items []youtube.RawItem, summary *canonical.Summary) ([]canonical.Record, error) {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, canonical.ChannelID(it))
	}

	channelByID, err := imp.channelMap(ctx, ids)
	if err != nil {
		return nil, err
	}

	var records []canonical.Record
	for _, it := range items {
		id := canonical.ChannelID(it)
		cd := channelByID[id]
		if cd == nil {
			summary.RemovedChannelsSkipped++
			imp.log.Warn().Str("channel_id", id).Msg("channel has no details, skipping as removed")
			continue
		}

		var uploads []time.Time
		if cd.UploadsPlaylistID != "" {
			uploads, err = imp.client.RecentUploads(ctx, cd.UploadsPlaylistID, recentUploadsSample)
			if err != nil {
				imp.log.Warn().Err(err).Str("channel_id", id).Msg("recent uploads lookup failed, cadence unavailable")
				uploads = nil
			}
		}

		aux := canonical.Aux{Channel: cd, RecentUploads: uploads}
		records = append(records, imp.norm.Normalize(it, aux, mode))
	}
	return records, nil
}

func (imp *Importer) channelMap(ctx context.Context, ids []string) (map[string]*youtube.ChannelDetail, error) {
	if len(ids) == 0 {
		return map[string]*youtube.ChannelDetail{}, nil
	}
	details, err := imp.client.ChannelDetails(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*youtube.ChannelDetail, len(details))
	for i := range details {
		byID[details[i].ID] = &details[i]
	}
	return byID, nil
}

// buildRows turns canonical records into table rows, syncing the tag choice
// set first so every written tag is a known choice.
func (imp *Importer) buildRows(ctx context.Context, table string, fields []schema.ExistingField, records []canonical.Record, summary *canonical.Summary) ([]store.Fields, error) {
	kinds := make(map[string]schema.FieldKind, len(fields))
	for _, f := range fields {
		kinds[f.Name] = f.Kind
	}

	allowedTags, err := imp.syncTagChoices(ctx, table, fields, records, summary)
	if err != nil {
		return nil, fmt.Errorf("sync tag choices: %w", err)
	}

	rows := make([]store.Fields, 0, len(records))
	for _, rec := range records {
		rows = append(rows, rowForRecord(rec, kinds, allowedTags))
	}
	return rows, nil
}

// syncTagChoices adds the run's new tags to the tag field's choice set, up
// to the ceiling. Tags that do not fit are dropped from the run and tallied.
// A text-kind tag field needs no choice management.
func (imp *Importer) syncTagChoices(ctx context.Context, table string, fields []schema.ExistingField, records []canonical.Record, summary *canonical.Summary) (map[string]bool, error) {
	var tagField *schema.ExistingField
	for i := range fields {
		if fields[i].Name == tagFieldName {
			tagField = &fields[i]
			break
		}
	}
	if tagField == nil || (tagField.Kind != schema.KindMultipleSelects && tagField.Kind != schema.KindSingleSelect) {
		return nil, nil
	}

	allowed := make(map[string]bool, len(tagField.Choices))
	for _, c := range tagField.Choices {
		allowed[c.Name] = true
	}

	var newLabels []string
	for _, rec := range records {
		for _, tag := range rec.Tags {
			if !allowed[tag] && !contains(newLabels, tag) {
				newLabels = append(newLabels, tag)
			}
		}
	}
	if len(newLabels) == 0 {
		return allowed, nil
	}

	additions, truncated := schema.ChoiceAdditions(len(tagField.Choices), newLabels, schema.MaxChoicesPerField)
	if truncated {
		dropped := len(newLabels) - len(additions)
		summary.ChoicesDropped += dropped
		imp.log.Warn().Int("dropped", dropped).Str("field", tagFieldName).Msg("tag choice set full, dropping overflow tags")
	}
	if len(additions) > 0 {
		if err := imp.store.UpdateFieldChoices(ctx, table, tagFieldName, additions); err != nil {
			return nil, err
		}
		for _, c := range additions {
			allowed[c.Name] = true
		}
	}
	return allowed, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
