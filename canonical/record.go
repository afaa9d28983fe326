// Package canonical turns heterogeneous raw platform items into the single
// normalized record shape written to the destination table. It owns the
// merge/dedupe rules for paginated results, the per-item derivation rules
// (duration, content classification, thumbnails, channel URLs, tags), and the
// posting-cadence statistics.
package canonical

import (
	"fmt"
	"strings"
)

// Entity is the logical record type a canonical record describes.
type Entity string

const (
	EntityVideo   Entity = "video"
	EntityChannel Entity = "channel"
)

// ContentType classifies a video by duration.
type ContentType string

const (
	// ContentVideo is a regular video (longer than 60 seconds).
	ContentVideo ContentType = "video"
	// ContentShort is a video of 60 seconds or less.
	ContentShort ContentType = "short"
)

// Record is the normalized row shape handed to the destination store.
// It is immutable once built; a run only ever creates rows, never updates
// or deletes them. Numeric fields are non-negative and default to 0 when the
// upstream value is missing or non-numeric.
type Record struct {
	Entity Entity

	// Video identity and metrics.
	Title           string
	VideoID         string
	VideoURL        string
	ViewCount       int
	LikeCount       int
	CommentCount    int
	DurationSeconds int
	ContentType     ContentType
	Description     string
	RegionCode      string
	UploadDate      string
	Definition      string

	// Tags holds the deduplicated free-text tags; the destination store
	// renders them as multi-choice entries. TagsFlattened is the legacy
	// comma-joined form used only when the destination field is plain text.
	Tags          []string
	TagsFlattened string

	// Thumbnails is ordered best-guess-highest to lowest resolution; for
	// videos a synthetic maxres guess always leads the list.
	Thumbnails []string

	// Channel descriptors.
	ChannelID          string
	ChannelName        string
	ChannelDescription string
	ChannelCountry     string
	ChannelURL         string
	SubscriberCount    int
	ChannelViewCount   int
	ChannelVideoCount  int

	// Posting cadence, derived from the channel's recent uploads.
	PostsPerYear  float64
	PostsPerMonth float64

	Platform string
}

// Summary tallies what a run did. Counters are touched only by the single
// run goroutine.
type Summary struct {
	RunID                  string
	Imported               int
	DuplicatesSkipped      int
	PlaylistsSkipped       int
	RemovedVideosSkipped   int
	RemovedChannelsSkipped int
	ChoicesDropped         int
}

// String renders the end-of-run report.
func (s *Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Results:\n")
	fmt.Fprintf(&b, "  %d imported\n", s.Imported)
	fmt.Fprintf(&b, "  %d duplicates skipped\n", s.DuplicatesSkipped)
	fmt.Fprintf(&b, "  %d playlists skipped\n", s.PlaylistsSkipped)
	fmt.Fprintf(&b, "  %d removed/unavailable videos skipped\n", s.RemovedVideosSkipped)
	fmt.Fprintf(&b, "  %d removed/unavailable channels skipped\n", s.RemovedChannelsSkipped)
	if s.ChoicesDropped > 0 {
		fmt.Fprintf(&b, "  %d tag choices dropped (choice set full)\n", s.ChoicesDropped)
	}
	return b.String()
}
