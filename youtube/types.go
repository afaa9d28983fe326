// Package youtube defines the platform client contract and its raw response
// shapes, plus the official Data API v3 implementation. An unofficial mirror
// implementation of the same contract lives in the mirror sub-package.
//
// The raw shapes deliberately keep numeric counters as strings: the platform
// serves them that way, missing values stay empty, and coercion to integers
// happens in one place downstream.
package youtube

import (
	"context"
	"time"
)

// SearchMode selects what a search returns.
type SearchMode string

const (
	// SearchVideos returns video results.
	SearchVideos SearchMode = "video"
	// SearchChannels returns channel results.
	SearchChannels SearchMode = "channel"
)

// SearchParams are the knobs for one search page.
type SearchParams struct {
	// Query is the free-text search query.
	Query string
	// Mode selects video or channel results.
	Mode SearchMode
	// Region is the two-letter region code, e.g. "US".
	Region string
	// Order is the result ordering key (relevance, date, title, rating, viewCount).
	Order string
	// SafeSearch is the filtering level (none, moderate, strict).
	SafeSearch string
	// ChannelType restricts channel results (any, show).
	ChannelType string
	// PageToken continues a prior page; empty for the first page.
	PageToken string
}

// Thumbnail is one rendition of an item's thumbnail image.
type Thumbnail struct {
	URL    string `json:"url"`
	Width  int64  `json:"width,omitempty"`
	Height int64  `json:"height,omitempty"`
}

// Snippet holds the descriptive fields common to search results and
// resource lookups.
type Snippet struct {
	Title        string
	Description  string
	ChannelID    string
	ChannelTitle string
	PublishedAt  string
	// Thumbnails maps resolution keys (default, medium, high, standard,
	// maxres) to renditions; absent keys are absent entries, never nils.
	Thumbnails map[string]Thumbnail
}

// RawItem is one search result or direct-lookup envelope. Exactly one of the
// ID fields is set for a well-formed item; PlaylistID marks the
// playlist-shaped entries the platform injects into video searches.
type RawItem struct {
	VideoID    string
	ChannelID  string
	PlaylistID string
	Snippet    Snippet
}

// Page is one page of search results.
type Page struct {
	Items         []RawItem
	NextPageToken string
}

// VideoDetail is the statistics/contentDetails extension for one video.
// Counter fields are the platform's raw strings; empty means absent.
type VideoDetail struct {
	ID           string
	Snippet      Snippet
	Tags         []string
	Duration     string // ISO-8601 style token, e.g. "PT3M53S"
	Definition   string // "hd" or "sd"
	ViewCount    string
	LikeCount    string
	CommentCount string
}

// ChannelDetail is the statistics/brandingSettings extension for one channel.
type ChannelDetail struct {
	ID                  string
	Title               string
	Description         string
	BrandingDescription string
	Country             string
	CustomURL           string // vanity handle/path, e.g. "@somechannel"
	SubscriberCount     string
	ViewCount           string
	VideoCount          string
	UploadsPlaylistID   string
}

// Client is the platform API surface the importer needs. Both the official
// Data API implementation and the unofficial mirror satisfy it.
type Client interface {
	// Search fetches one page of results.
	Search(ctx context.Context, params SearchParams) (*Page, error)
	// VideoDetails looks up statistics and content details for up to 50 ids
	// per underlying call; larger id sets are batched transparently.
	VideoDetails(ctx context.Context, ids []string) ([]VideoDetail, error)
	// ChannelDetails looks up statistics and branding for up to 50 ids per
	// underlying call.
	ChannelDetails(ctx context.Context, ids []string) ([]ChannelDetail, error)
	// RecentUploads returns publish timestamps of a channel's most recent
	// uploads, newest first, capped at max.
	RecentUploads(ctx context.Context, uploadsPlaylistID string, max int) ([]time.Time, error)
}

// detailBatchSize is the platform's ceiling on ids per lookup call.
const detailBatchSize = 50

// batchIDs splits ids into chunks of at most detailBatchSize.
func batchIDs(ids []string) [][]string {
	var batches [][]string
	for len(ids) > detailBatchSize {
		batches = append(batches, ids[:detailBatchSize])
		ids = ids[detailBatchSize:]
	}
	if len(ids) > 0 {
		batches = append(batches, ids)
	}
	return batches
}
