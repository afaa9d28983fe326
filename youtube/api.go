package youtube

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	youtubeapi "google.golang.org/api/youtube/v3"

	"ytimport/retry"
)

// Quota unit costs per Data API call.
const (
	quotaCostSearch = 100
	quotaCostList   = 1

	// dailyQuota is the default daily allotment for an API key.
	dailyQuota = 10000
)

// APIClient implements Client using the official YouTube Data API v3.
// It tracks estimated quota consumption so a run can report how expensive
// it was and fail early once the key is spent.
type APIClient struct {
	service     *youtubeapi.Service
	retryConfig retry.Config
	log         zerolog.Logger

	mu             sync.Mutex
	estimatedQuota int
	lastQuotaReset time.Time
}

// APIClientOption configures an APIClient.
type APIClientOption func(*APIClient)

// WithRetryConfig sets custom retry behavior.
func WithRetryConfig(cfg retry.Config) APIClientOption {
	return func(c *APIClient) {
		c.retryConfig = cfg
	}
}

// WithLogger attaches a logger; by default the client is silent.
func WithLogger(log zerolog.Logger) APIClientOption {
	return func(c *APIClient) {
		c.log = log
	}
}

// NewAPIClient creates a Data API client authenticated with an API key.
func NewAPIClient(ctx context.Context, apiKey string, opts ...APIClientOption) (*APIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api key required")
	}

	service, err := youtubeapi.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}

	c := &APIClient{
		service:        service,
		retryConfig:    retry.DefaultConfig(),
		log:            zerolog.Nop(),
		estimatedQuota: dailyQuota,
		lastQuotaReset: time.Now(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Search fetches one page of search results.
func (c *APIClient) Search(ctx context.Context, params SearchParams) (*Page, error) {
	if err := c.checkQuota(quotaCostSearch); err != nil {
		return nil, err
	}

	var page *Page
	err := retry.Do(ctx, c.retryConfig, isRetryableAPIError, func(ctx context.Context) error {
		call := c.service.Search.List([]string{"snippet"}).
			Q(params.Query).
			Type(string(params.Mode)).
			MaxResults(50).
			Context(ctx)
		if params.Region != "" {
			call = call.RegionCode(params.Region)
		}
		if params.Order != "" {
			call = call.Order(params.Order)
		}
		if params.SafeSearch != "" {
			call = call.SafeSearch(params.SafeSearch)
		}
		if params.ChannelType != "" {
			call = call.ChannelType(params.ChannelType)
		}
		if params.PageToken != "" {
			call = call.PageToken(params.PageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return asAPIError(err)
		}
		c.trackQuotaUsage(quotaCostSearch)

		items := make([]RawItem, 0, len(resp.Items))
		for _, it := range resp.Items {
			raw := RawItem{}
			if it.Id != nil {
				raw.VideoID = it.Id.VideoId
				raw.ChannelID = it.Id.ChannelId
				raw.PlaylistID = it.Id.PlaylistId
			}
			if it.Snippet != nil {
				raw.Snippet = Snippet{
					Title:        it.Snippet.Title,
					Description:  it.Snippet.Description,
					ChannelID:    it.Snippet.ChannelId,
					ChannelTitle: it.Snippet.ChannelTitle,
					PublishedAt:  it.Snippet.PublishedAt,
					Thumbnails:   fromThumbnailDetails(it.Snippet.Thumbnails),
				}
			}
			items = append(items, raw)
		}

		page = &Page{Items: items, NextPageToken: resp.NextPageToken}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}

// VideoDetails looks up statistics, snippet and content details for the given
// video ids, batching at the platform's 50-id ceiling.
func (c *APIClient) VideoDetails(ctx context.Context, ids []string) ([]VideoDetail, error) {
	var details []VideoDetail

	for _, batch := range batchIDs(ids) {
		if err := c.checkQuota(quotaCostList); err != nil {
			return nil, err
		}
		err := retry.Do(ctx, c.retryConfig, isRetryableAPIError, func(ctx context.Context) error {
			call := c.service.Videos.List([]string{"contentDetails", "snippet", "statistics", "status", "id", "player"}).
				Id(batch...).
				Context(ctx)

			resp, err := call.Do()
			if err != nil {
				return asAPIError(err)
			}
			c.trackQuotaUsage(quotaCostList)

			for _, v := range resp.Items {
				d := VideoDetail{ID: v.Id}
				if v.Snippet != nil {
					d.Snippet = Snippet{
						Title:        v.Snippet.Title,
						Description:  v.Snippet.Description,
						ChannelID:    v.Snippet.ChannelId,
						ChannelTitle: v.Snippet.ChannelTitle,
						PublishedAt:  v.Snippet.PublishedAt,
						Thumbnails:   fromThumbnailDetails(v.Snippet.Thumbnails),
					}
					d.Tags = v.Snippet.Tags
				}
				if v.ContentDetails != nil {
					d.Duration = v.ContentDetails.Duration
					d.Definition = v.ContentDetails.Definition
				}
				if v.Statistics != nil {
					d.ViewCount = strconv.FormatUint(v.Statistics.ViewCount, 10)
					d.LikeCount = strconv.FormatUint(v.Statistics.LikeCount, 10)
					d.CommentCount = strconv.FormatUint(v.Statistics.CommentCount, 10)
				}
				details = append(details, d)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return details, nil
}

// ChannelDetails looks up statistics and branding settings for the given
// channel ids, batching at the 50-id ceiling.
func (c *APIClient) ChannelDetails(ctx context.Context, ids []string) ([]ChannelDetail, error) {
	var details []ChannelDetail

	for _, batch := range batchIDs(ids) {
		if err := c.checkQuota(quotaCostList); err != nil {
			return nil, err
		}
		err := retry.Do(ctx, c.retryConfig, isRetryableAPIError, func(ctx context.Context) error {
			call := c.service.Channels.List([]string{"snippet", "statistics", "brandingSettings", "contentDetails"}).
				Id(batch...).
				Context(ctx)

			resp, err := call.Do()
			if err != nil {
				return asAPIError(err)
			}
			c.trackQuotaUsage(quotaCostList)

			for _, ch := range resp.Items {
				d := ChannelDetail{ID: ch.Id}
				if ch.Snippet != nil {
					d.Title = ch.Snippet.Title
					d.Description = ch.Snippet.Description
					d.Country = ch.Snippet.Country
					d.CustomURL = ch.Snippet.CustomUrl
				}
				if ch.BrandingSettings != nil && ch.BrandingSettings.Channel != nil {
					d.BrandingDescription = ch.BrandingSettings.Channel.Description
				}
				if ch.Statistics != nil {
					d.SubscriberCount = strconv.FormatUint(ch.Statistics.SubscriberCount, 10)
					d.ViewCount = strconv.FormatUint(ch.Statistics.ViewCount, 10)
					d.VideoCount = strconv.FormatUint(ch.Statistics.VideoCount, 10)
				}
				if ch.ContentDetails != nil && ch.ContentDetails.RelatedPlaylists != nil {
					d.UploadsPlaylistID = ch.ContentDetails.RelatedPlaylists.Uploads
				}
				details = append(details, d)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return details, nil
}

// RecentUploads returns the publish timestamps of the newest uploads in a
// channel's uploads playlist, capped at max.
func (c *APIClient) RecentUploads(ctx context.Context, uploadsPlaylistID string, max int) ([]time.Time, error) {
	if uploadsPlaylistID == "" {
		return nil, nil
	}
	if max <= 0 || max > 50 {
		max = 50
	}
	if err := c.checkQuota(quotaCostList); err != nil {
		return nil, err
	}

	var timestamps []time.Time
	err := retry.Do(ctx, c.retryConfig, isRetryableAPIError, func(ctx context.Context) error {
		call := c.service.PlaylistItems.List([]string{"snippet"}).
			PlaylistId(uploadsPlaylistID).
			MaxResults(int64(max)).
			Context(ctx)

		resp, err := call.Do()
		if err != nil {
			return asAPIError(err)
		}
		c.trackQuotaUsage(quotaCostList)

		timestamps = timestamps[:0]
		for _, item := range resp.Items {
			if item.Snippet == nil {
				continue
			}
			if t, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt); err == nil {
				timestamps = append(timestamps, t)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return timestamps, nil
}

// EstimatedQuota returns the estimated remaining quota units for the key.
func (c *APIClient) EstimatedQuota() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.estimatedQuota
}

// checkQuota fails a call before it is issued when the estimate says the key
// cannot afford it. The estimate is local bookkeeping, so a fresh client for
// a key that is actually spent still learns the truth from the first 403.
func (c *APIClient) checkQuota(units int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.maybeResetQuota()
	if c.estimatedQuota < units {
		return fmt.Errorf("%w: estimated %d units remaining, call needs %d",
			ErrQuotaExceeded, c.estimatedQuota, units)
	}
	return nil
}

// trackQuotaUsage updates the estimated quota after a call.
func (c *APIClient) trackQuotaUsage(units int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.maybeResetQuota()
	c.estimatedQuota -= units
	c.log.Debug().Int("remaining", c.estimatedQuota).Msg("quota usage")
}

// maybeResetQuota restores the daily allotment once a day. Callers hold mu.
func (c *APIClient) maybeResetQuota() {
	if time.Since(c.lastQuotaReset) > 24*time.Hour {
		c.estimatedQuota = dailyQuota
		c.lastQuotaReset = time.Now()
	}
}

// fromThumbnailDetails converts the API's fixed thumbnail struct into the
// neutral resolution-keyed map; absent renditions produce no entry.
func fromThumbnailDetails(t *youtubeapi.ThumbnailDetails) map[string]Thumbnail {
	if t == nil {
		return nil
	}

	out := make(map[string]Thumbnail)
	put := func(key string, th *youtubeapi.Thumbnail) {
		if th != nil && th.Url != "" {
			out[key] = Thumbnail{URL: th.Url, Width: th.Width, Height: th.Height}
		}
	}
	put("default", t.Default)
	put("medium", t.Medium)
	put("high", t.High)
	put("standard", t.Standard)
	put("maxres", t.Maxres)

	if len(out) == 0 {
		return nil
	}
	return out
}

// asAPIError converts a transport error into an APIError when the platform
// supplied a structured payload, preserving the code, reason and
// markup-stripped message for the run's failure block.
func asAPIError(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		reason := ""
		if len(gerr.Errors) > 0 {
			reason = gerr.Errors[0].Reason
		}
		apiErr := &APIError{
			Code:    gerr.Code,
			Reason:  reason,
			Message: stripMarkup(gerr.Message),
		}
		if reason == "quotaExceeded" {
			return fmt.Errorf("%w: %w", ErrQuotaExceeded, apiErr)
		}
		return apiErr
	}
	return err
}
