// Package mirror implements the platform client against an unofficial
// Invidious-compatible mirror. Mirrors carry no API key or quota, but they
// are best-effort community instances, so every call goes through the shared
// rate-limited HTTP client and responses are decoded defensively.
package mirror

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	jsonenc "github.com/goccy/go-json"

	"ytimport/httpx"
	"ytimport/youtube"
)

// Client implements youtube.Client against an Invidious-compatible API.
type Client struct {
	baseURL    string
	httpClient *httpx.Client
}

// New creates a mirror client for the given instance base URL
// (e.g. "https://invidious.example.org").
func New(baseURL string, httpClient *httpx.Client) *Client {
	if httpClient == nil {
		httpClient = httpx.New(nil)
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// searchResult is one entry of the mirror's search response.
type searchResult struct {
	Type             string        `json:"type"`
	VideoID          string        `json:"videoId"`
	Title            string        `json:"title"`
	Author           string        `json:"author"`
	AuthorID         string        `json:"authorId"`
	Description      string        `json:"description"`
	Published        int64         `json:"published"`
	PlaylistID       string        `json:"playlistId"`
	VideoThumbnails  []mirrorThumb `json:"videoThumbnails"`
	AuthorThumbnails []mirrorThumb `json:"authorThumbnails"`
}

type mirrorThumb struct {
	Quality string `json:"quality"`
	URL     string `json:"url"`
	Width   int64  `json:"width"`
	Height  int64  `json:"height"`
}

// videoResponse is the mirror's single-video payload.
type videoResponse struct {
	VideoID         string        `json:"videoId"`
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	Author          string        `json:"author"`
	AuthorID        string        `json:"authorId"`
	Published       int64         `json:"published"`
	LengthSeconds   int           `json:"lengthSeconds"`
	ViewCount       int64         `json:"viewCount"`
	LikeCount       int64         `json:"likeCount"`
	Keywords        []string      `json:"keywords"`
	VideoThumbnails []mirrorThumb `json:"videoThumbnails"`
}

// channelResponse is the mirror's single-channel payload.
type channelResponse struct {
	Author      string `json:"author"`
	AuthorID    string `json:"authorId"`
	AuthorURL   string `json:"authorUrl"`
	Description string `json:"description"`
	SubCount    int64  `json:"subCount"`
	TotalViews  int64  `json:"totalViews"`
	VideoCount  int64  `json:"videoCount"`
}

// channelVideosResponse holds a channel's recent uploads.
type channelVideosResponse struct {
	Videos []struct {
		Published int64 `json:"published"`
	} `json:"videos"`
}

// mirrorError is the mirror's error payload.
type mirrorError struct {
	Error string `json:"error"`
}

// Search fetches one page of results. Mirrors paginate by page number, so
// the page token is a decimal page index.
func (c *Client) Search(ctx context.Context, params youtube.SearchParams) (*youtube.Page, error) {
	page := 1
	if params.PageToken != "" {
		if n, err := strconv.Atoi(params.PageToken); err == nil && n > 1 {
			page = n
		}
	}

	q := url.Values{}
	q.Set("q", params.Query)
	q.Set("type", string(params.Mode))
	q.Set("page", strconv.Itoa(page))
	if params.Region != "" {
		q.Set("region", params.Region)
	}
	if params.Order != "" {
		q.Set("sort_by", mirrorSortKey(params.Order))
	}

	var results []searchResult
	if err := c.getJSON(ctx, "/api/v1/search?"+q.Encode(), &results); err != nil {
		return nil, err
	}

	items := make([]youtube.RawItem, 0, len(results))
	for _, r := range results {
		items = append(items, r.toRawItem())
	}

	// A full page implies more may follow; mirrors don't report totals.
	next := ""
	if len(results) >= 20 {
		next = strconv.Itoa(page + 1)
	}
	return &youtube.Page{Items: items, NextPageToken: next}, nil
}

// VideoDetails looks up each id individually; mirrors have no batch lookup,
// so the 50-id batching of the official API degrades to sequential fetches.
func (c *Client) VideoDetails(ctx context.Context, ids []string) ([]youtube.VideoDetail, error) {
	details := make([]youtube.VideoDetail, 0, len(ids))
	for _, id := range ids {
		var v videoResponse
		if err := c.getJSON(ctx, "/api/v1/videos/"+url.PathEscape(id), &v); err != nil {
			// A vanished video is a per-item anomaly, not a run failure.
			var he *httpx.HTTPError
			if errors.As(err, &he) && he.StatusCode == 404 {
				continue
			}
			return nil, err
		}

		details = append(details, youtube.VideoDetail{
			ID: v.VideoID,
			Snippet: youtube.Snippet{
				Title:        v.Title,
				Description:  v.Description,
				ChannelID:    v.AuthorID,
				ChannelTitle: v.Author,
				PublishedAt:  unixToRFC3339(v.Published),
				Thumbnails:   thumbMap(v.VideoThumbnails),
			},
			Tags: v.Keywords,
			// Mirrors report plain seconds; synthesize the ISO token the
			// normalizer expects.
			Duration:  "PT" + strconv.Itoa(v.LengthSeconds) + "S",
			ViewCount: strconv.FormatInt(v.ViewCount, 10),
			LikeCount: strconv.FormatInt(v.LikeCount, 10),
			// Comment counts require a separate, expensive endpoint;
			// left absent and coerced to 0 downstream.
		})
	}
	return details, nil
}

// ChannelDetails looks up each channel id individually.
func (c *Client) ChannelDetails(ctx context.Context, ids []string) ([]youtube.ChannelDetail, error) {
	details := make([]youtube.ChannelDetail, 0, len(ids))
	for _, id := range ids {
		var ch channelResponse
		if err := c.getJSON(ctx, "/api/v1/channels/"+url.PathEscape(id), &ch); err != nil {
			var he *httpx.HTTPError
			if errors.As(err, &he) && he.StatusCode == 404 {
				continue
			}
			return nil, err
		}

		details = append(details, youtube.ChannelDetail{
			ID:              ch.AuthorID,
			Title:           ch.Author,
			Description:     ch.Description,
			CustomURL:       vanityPath(ch.AuthorURL),
			SubscriberCount: strconv.FormatInt(ch.SubCount, 10),
			ViewCount:       strconv.FormatInt(ch.TotalViews, 10),
			VideoCount:      strconv.FormatInt(ch.VideoCount, 10),
			// Mirrors address uploads by channel id, not playlist id.
			UploadsPlaylistID: ch.AuthorID,
		})
	}
	return details, nil
}

// RecentUploads returns publish timestamps from the channel's videos tab.
// The playlist id is the channel id (see ChannelDetails).
func (c *Client) RecentUploads(ctx context.Context, uploadsPlaylistID string, max int) ([]time.Time, error) {
	if uploadsPlaylistID == "" {
		return nil, nil
	}

	var resp channelVideosResponse
	if err := c.getJSON(ctx, "/api/v1/channels/"+url.PathEscape(uploadsPlaylistID)+"/videos", &resp); err != nil {
		return nil, err
	}

	if max <= 0 || max > len(resp.Videos) {
		max = len(resp.Videos)
	}
	timestamps := make([]time.Time, 0, max)
	for _, v := range resp.Videos[:max] {
		if v.Published > 0 {
			timestamps = append(timestamps, time.Unix(v.Published, 0).UTC())
		}
	}
	return timestamps, nil
}

// getJSON fetches a mirror endpoint and decodes the JSON body, converting
// the mirror's error payload into an APIError.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	resp, err := c.httpClient.Get(ctx, c.baseURL+path)
	if err != nil {
		var he *httpx.HTTPError
		if errors.As(err, &he) && len(he.Body) > 0 {
			var me mirrorError
			if jerr := jsonenc.Unmarshal(he.Body, &me); jerr == nil && me.Error != "" {
				return fmt.Errorf("mirror: %w", &youtube.APIError{
					Code:    he.StatusCode,
					Reason:  "mirrorError",
					Message: me.Error,
				})
			}
		}
		return err
	}

	if err := jsonenc.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("decode mirror response: %w", err)
	}
	return nil
}

func (r searchResult) toRawItem() youtube.RawItem {
	item := youtube.RawItem{
		Snippet: youtube.Snippet{
			Title:        r.Title,
			Description:  r.Description,
			ChannelID:    r.AuthorID,
			ChannelTitle: r.Author,
			PublishedAt:  unixToRFC3339(r.Published),
		},
	}

	switch r.Type {
	case "video":
		item.VideoID = r.VideoID
		item.Snippet.Thumbnails = thumbMap(r.VideoThumbnails)
	case "channel":
		item.ChannelID = r.AuthorID
		item.Snippet.Title = r.Author
		item.Snippet.Thumbnails = thumbMap(r.AuthorThumbnails)
	case "playlist":
		item.PlaylistID = r.PlaylistID
	}
	return item
}

// mirrorQualityKeys maps the mirror's quality labels onto the official
// resolution keys the normalizer orders by.
var mirrorQualityKeys = map[string]string{
	"maxres":        "maxres",
	"maxresdefault": "maxres",
	"sddefault":     "standard",
	"high":          "high",
	"medium":        "medium",
	"default":       "default",
}

func thumbMap(thumbs []mirrorThumb) map[string]youtube.Thumbnail {
	if len(thumbs) == 0 {
		return nil
	}
	out := make(map[string]youtube.Thumbnail)
	for _, t := range thumbs {
		key, ok := mirrorQualityKeys[t.Quality]
		if !ok || t.URL == "" {
			continue
		}
		if _, exists := out[key]; exists {
			continue
		}
		out[key] = youtube.Thumbnail{URL: t.URL, Width: t.Width, Height: t.Height}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// mirrorSortKey translates the official ordering keys to the mirror's.
func mirrorSortKey(order string) string {
	switch order {
	case "date":
		return "upload_date"
	case "viewCount":
		return "view_count"
	case "rating":
		return "rating"
	default:
		return "relevance"
	}
}

// vanityPath extracts the vanity path (e.g. "@handle") from a mirror
// authorUrl like "/channel/UC..." or "/@handle". Channel-id paths carry no
// vanity information and yield "".
func vanityPath(authorURL string) string {
	if len(authorURL) > 2 && authorURL[0] == '/' && authorURL[1] == '@' {
		return authorURL[1:]
	}
	return ""
}

func unixToRFC3339(unix int64) string {
	if unix <= 0 {
		return ""
	}
	return time.Unix(unix, 0).UTC().Format(time.RFC3339)
}
