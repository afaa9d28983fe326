package importer

import (
	"ytimport/canonical"
	"ytimport/schema"
	"ytimport/store"
)

// tagFieldName is the video table's tag field.
const tagFieldName = "Video Tags"

// rowForRecord projects a canonical record onto the destination field names.
// Empty string values are omitted so absent data stays absent instead of
// being written as blank cells.
func rowForRecord(rec canonical.Record, kinds map[string]schema.FieldKind, allowedTags map[string]bool) store.Fields {
	var row store.Fields
	if rec.Entity == canonical.EntityChannel {
		row = channelRow(rec)
	} else {
		row = videoRow(rec, kinds, allowedTags)
	}
	pruneEmpty(row)
	return row
}

func videoRow(rec canonical.Record, kinds map[string]schema.FieldKind, allowedTags map[string]bool) store.Fields {
	row := store.Fields{
		"Title":                rec.Title,
		"Video ID":             rec.VideoID,
		"Video URL":            rec.VideoURL,
		"View Count":           rec.ViewCount,
		"Like Count":           rec.LikeCount,
		"Comment Count":        rec.CommentCount,
		"Duration":             rec.DurationSeconds,
		"Description":          rec.Description,
		"Region Code":          rec.RegionCode,
		"Upload Date":          rec.UploadDate,
		"Video Definition":     rec.Definition,
		"Video Thumbnail":      attachments(rec.Thumbnails),
		"Content Type":         string(rec.ContentType),
		"Channel Name":         rec.ChannelName,
		"Channel Subscribers":  rec.SubscriberCount,
		"Channel View Count":   rec.ChannelViewCount,
		"Channel Total Videos": rec.ChannelVideoCount,
		"Channel URL":          rec.ChannelURL,
		"Platform":             rec.Platform,
	}

	// A select-kind tag field takes the tag list filtered to known choices;
	// a legacy text-kind field takes the flattened form instead.
	switch kinds[tagFieldName] {
	case schema.KindSingleLineText, schema.KindMultilineText:
		if rec.TagsFlattened != "" {
			row[tagFieldName] = rec.TagsFlattened
		}
	default:
		if tags := filterTags(rec.Tags, allowedTags); len(tags) > 0 {
			row[tagFieldName] = tags
		}
	}
	return row
}

func channelRow(rec canonical.Record) store.Fields {
	return store.Fields{
		"Channel Name":         rec.ChannelName,
		"Channel ID":           rec.ChannelID,
		"Channel URL":          rec.ChannelURL,
		"Description":          rec.ChannelDescription,
		"Country":              rec.ChannelCountry,
		"Channel Subscribers":  rec.SubscriberCount,
		"Channel View Count":   rec.ChannelViewCount,
		"Channel Total Videos": rec.ChannelVideoCount,
		"Posts Per Year":       rec.PostsPerYear,
		"Posts Per Month":      rec.PostsPerMonth,
		"Platform":             rec.Platform,
	}
}

// attachments builds the attachment payload the destination store expects
// for a list of image URLs.
func attachments(urls []string) []map[string]any {
	if len(urls) == 0 {
		return nil
	}
	out := make([]map[string]any, 0, len(urls))
	for _, u := range urls {
		out = append(out, map[string]any{"url": u})
	}
	return out
}

func filterTags(tags []string, allowed map[string]bool) []string {
	if allowed == nil {
		return tags
	}
	var out []string
	for _, t := range tags {
		if allowed[t] {
			out = append(out, t)
		}
	}
	return out
}

// pruneEmpty drops empty strings and nil values; writing them as cells
// confuses typed destination fields.
func pruneEmpty(row store.Fields) {
	for k, v := range row {
		switch val := v.(type) {
		case string:
			if val == "" {
				delete(row, k)
			}
		case nil:
			delete(row, k)
		case []map[string]any:
			if len(val) == 0 {
				delete(row, k)
			}
		}
	}
}
