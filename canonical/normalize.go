package canonical

import (
	"strings"
	"time"

	"github.com/rs/zerolog"

	"ytimport/duration"
	"ytimport/schema"
	"ytimport/youtube"
)

// Mode selects the import flow an item came from, which determines its entity
// and which auxiliary lookups the normalizer consults.
type Mode string

const (
	// ModeVideoSearch covers items from a video search.
	ModeVideoSearch Mode = "video-search"
	// ModeVideoLookup covers direct video-id lookups.
	ModeVideoLookup Mode = "video-lookup"
	// ModeChannelSearch covers items from a channel search.
	ModeChannelSearch Mode = "channel-search"
	// ModeChannelLookup covers direct channel-id lookups.
	ModeChannelLookup Mode = "channel-lookup"
)

// Entity returns the record entity a mode produces.
func (m Mode) Entity() Entity {
	if m == ModeChannelSearch || m == ModeChannelLookup {
		return EntityChannel
	}
	return EntityVideo
}

// shortMaxSeconds is the duration ceiling for the "short" classification.
const shortMaxSeconds = 60

// watchURLBase and friends build canonical platform URLs.
const (
	watchURLBase   = "https://www.youtube.com/watch?v="
	shortsURLBase  = "https://www.youtube.com/shorts/"
	channelURLBase = "https://www.youtube.com/channel/"
	vanityURLBase  = "https://www.youtube.com/"
)

// thumbnailOrder lists resolution keys from best to worst.
var thumbnailOrder = [5]string{"maxres", "high", "standard", "medium", "default"}

// Aux carries the optional auxiliary lookups for one item. Nil members mean
// the lookup produced nothing (deleted or restricted resource); every derived
// field then falls back to empty or zero and the item still yields a record.
type Aux struct {
	Video         *youtube.VideoDetail
	Channel       *youtube.ChannelDetail
	RecentUploads []time.Time
}

// Normalizer projects validated raw items into canonical records.
type Normalizer struct {
	// Region is the run's region code, stamped onto every record.
	Region string
	// Log is the debug side-channel; defaults to a no-op logger.
	Log zerolog.Logger
}

// NewNormalizer creates a normalizer for a run.
func NewNormalizer(region string, log zerolog.Logger) *Normalizer {
	return &Normalizer{Region: region, Log: log}
}

// Normalize builds exactly one canonical record from a raw item and its
// auxiliary lookups. It never fails: anomalies in a single item degrade to
// defaults so the run can continue.
func (n *Normalizer) Normalize(item youtube.RawItem, aux Aux, mode Mode) Record {
	if mode.Entity() == EntityChannel {
		return n.normalizeChannel(item, aux)
	}
	return n.normalizeVideo(item, aux)
}

func (n *Normalizer) normalizeVideo(item youtube.RawItem, aux Aux) Record {
	rec := Record{
		Entity:     EntityVideo,
		VideoID:    item.VideoID,
		RegionCode: n.Region,
		Platform:   "YouTube",
	}

	// The detail snippet supersedes the search snippet when present.
	snippet := item.Snippet
	if aux.Video != nil && aux.Video.Snippet.Title != "" {
		snippet = aux.Video.Snippet
	}
	rec.Title = snippet.Title
	rec.Description = snippet.Description
	rec.UploadDate = snippet.PublishedAt
	rec.ChannelID = firstNonEmpty(snippet.ChannelID, item.ChannelID)
	rec.ChannelName = snippet.ChannelTitle

	if aux.Video != nil {
		rec.ViewCount = parseCount(aux.Video.ViewCount)
		rec.LikeCount = parseCount(aux.Video.LikeCount)
		rec.CommentCount = parseCount(aux.Video.CommentCount)
		rec.DurationSeconds = duration.ParseISO(aux.Video.Duration)
		rec.Definition = aux.Video.Definition
		rec.Tags = schema.DedupeLabels(aux.Video.Tags)
		rec.TagsFlattened = strings.Join(rec.Tags, ",")
	} else {
		n.Log.Debug().Str("video_id", item.VideoID).Msg("no statistics lookup, defaulting metrics")
	}

	if rec.DurationSeconds <= shortMaxSeconds {
		rec.ContentType = ContentShort
		rec.VideoURL = shortsURLBase + item.VideoID
	} else {
		rec.ContentType = ContentVideo
		rec.VideoURL = watchURLBase + item.VideoID
	}

	rec.Thumbnails = videoThumbnails(item.VideoID, snippet.Thumbnails)

	n.applyChannelDetail(&rec, aux)
	return rec
}

func (n *Normalizer) normalizeChannel(item youtube.RawItem, aux Aux) Record {
	rec := Record{
		Entity:     EntityChannel,
		RegionCode: n.Region,
		Platform:   "YouTube",
	}

	rec.ChannelID = firstNonEmpty(item.ChannelID, item.Snippet.ChannelID)
	rec.ChannelName = firstNonEmpty(item.Snippet.Title, item.Snippet.ChannelTitle)
	rec.ChannelDescription = item.Snippet.Description
	rec.Title = rec.ChannelName
	rec.UploadDate = item.Snippet.PublishedAt
	rec.Thumbnails = presentThumbnails(item.Snippet.Thumbnails)

	n.applyChannelDetail(&rec, aux)

	cadence := PostingCadence(aux.RecentUploads)
	rec.PostsPerYear = cadence.PostsPerYear
	rec.PostsPerMonth = cadence.PostsPerMonth

	return rec
}

// applyChannelDetail fills the channel descriptor fields shared by both
// entities from the channel detail lookup, when one exists.
func (n *Normalizer) applyChannelDetail(rec *Record, aux Aux) {
	ch := aux.Channel
	if ch == nil {
		if rec.ChannelID != "" {
			rec.ChannelURL = channelURLBase + rec.ChannelID
		}
		return
	}

	if ch.ID != "" {
		rec.ChannelID = ch.ID
	}
	if ch.Title != "" {
		rec.ChannelName = ch.Title
	}
	// Branding description wins over the plain snippet description.
	if ch.BrandingDescription != "" {
		rec.ChannelDescription = ch.BrandingDescription
	} else if ch.Description != "" {
		rec.ChannelDescription = ch.Description
	}
	rec.ChannelCountry = ch.Country
	rec.SubscriberCount = parseCount(ch.SubscriberCount)
	rec.ChannelViewCount = parseCount(ch.ViewCount)
	rec.ChannelVideoCount = parseCount(ch.VideoCount)
	rec.ChannelURL = channelURL(ch.CustomURL, rec.ChannelID)
}

// channelURL prefers a vanity/custom handle URL over the canonical
// channel-id form.
func channelURL(customURL, channelID string) string {
	if customURL != "" {
		return vanityURLBase + strings.TrimPrefix(customURL, "/")
	}
	if channelID != "" {
		return channelURLBase + channelID
	}
	return ""
}

// videoThumbnails builds the best-first thumbnail list for a video: a
// synthetic maxres guess derived from the id always leads (it may 404;
// consumers tolerate that), followed by whichever renditions the platform
// actually reported, best resolution first. URLs already in the list are not
// repeated.
func videoThumbnails(videoID string, thumbs map[string]youtube.Thumbnail) []string {
	urls := []string{syntheticMaxres(videoID)}
	for _, key := range thumbnailOrder {
		t, ok := thumbs[key]
		if !ok || t.URL == "" {
			continue
		}
		if contains(urls, t.URL) {
			continue
		}
		urls = append(urls, t.URL)
	}
	return urls
}

// presentThumbnails lists the reported renditions best-first, without a
// synthetic guess (channel avatars have no predictable URL pattern).
func presentThumbnails(thumbs map[string]youtube.Thumbnail) []string {
	var urls []string
	for _, key := range thumbnailOrder {
		if t, ok := thumbs[key]; ok && t.URL != "" && !contains(urls, t.URL) {
			urls = append(urls, t.URL)
		}
	}
	return urls
}

func syntheticMaxres(videoID string) string {
	return "https://i.ytimg.com/vi/" + videoID + "/maxresdefault.jpg"
}

// parseCount coerces an upstream counter string to a non-negative int.
// Leading digits parse, anything else (missing, malformed, negative) is 0.
func parseCount(s string) int {
	s = strings.TrimSpace(s)
	n := 0
	ok := false
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
		ok = true
	}
	if !ok {
		return 0
	}
	return n
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
