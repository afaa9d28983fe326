package canonical

import "ytimport/youtube"

// IDExtractor returns an item's identity key. Search modes supply different
// extractors: video searches key on the video id, channel searches on the
// channel id.
type IDExtractor func(youtube.RawItem) string

// VideoID keys an item by its video id.
func VideoID(item youtube.RawItem) string { return item.VideoID }

// ChannelID keys an item by its channel id, falling back to the snippet's
// owning channel for direct channel resources.
func ChannelID(item youtube.RawItem) string {
	if item.ChannelID != "" {
		return item.ChannelID
	}
	return item.Snippet.ChannelID
}

// MergePages concatenates result pages in fetch order into one working set.
func MergePages(pages []youtube.Page) []youtube.RawItem {
	var items []youtube.RawItem
	for _, p := range pages {
		items = append(items, p.Items...)
	}
	return items
}

// DedupeByID filters items to the first occurrence per identity key,
// preserving order, and reports how many duplicates were dropped.
func DedupeByID(items []youtube.RawItem, id IDExtractor) ([]youtube.RawItem, int) {
	seen := make(map[string]struct{}, len(items))
	unique := make([]youtube.RawItem, 0, len(items))
	duplicates := 0

	for _, item := range items {
		key := id(item)
		if _, ok := seen[key]; ok {
			duplicates++
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, item)
	}

	return unique, duplicates
}

// SkipCounts records deliberate exclusions during validity filtering; they
// feed the run summary rather than being silently lost.
type SkipCounts struct {
	// Playlists counts playlist-shaped entries injected into the results.
	Playlists int
	// EmptyID counts entries with a missing primary id (removed or
	// unavailable resources).
	EmptyID int
}

// FilterValid drops structurally invalid items: playlist-shaped entries
// (unless the caller is explicitly importing playlists) and entries whose
// primary id is empty.
func FilterValid(items []youtube.RawItem, id IDExtractor, includePlaylists bool) ([]youtube.RawItem, SkipCounts) {
	var counts SkipCounts
	valid := make([]youtube.RawItem, 0, len(items))

	for _, item := range items {
		if !includePlaylists && item.PlaylistID != "" {
			counts.Playlists++
			continue
		}
		if id(item) == "" {
			counts.EmptyID++
			continue
		}
		valid = append(valid, item)
	}

	return valid, counts
}
