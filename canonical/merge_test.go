package canonical

import (
	"fmt"
	"testing"

	"ytimport/youtube"
)

func videoItems(ids ...string) []youtube.RawItem {
	items := make([]youtube.RawItem, 0, len(ids))
	for _, id := range ids {
		items = append(items, youtube.RawItem{VideoID: id})
	}
	return items
}

func TestMergePages(t *testing.T) {
	pageOf := func(n, offset int) youtube.Page {
		var p youtube.Page
		for i := 0; i < n; i++ {
			p.Items = append(p.Items, youtube.RawItem{VideoID: fmt.Sprintf("v%d", offset+i)})
		}
		return p
	}

	// 50/50/37 with no duplicates.
	merged := MergePages([]youtube.Page{pageOf(50, 0), pageOf(50, 50), pageOf(37, 100)})
	if len(merged) != 137 {
		t.Fatalf("merged %d items, want 137", len(merged))
	}

	unique, dups := DedupeByID(merged, VideoID)
	if len(unique) != 137 || dups != 0 {
		t.Errorf("got %d unique, %d duplicates; want 137, 0", len(unique), dups)
	}

	// Fetch order preserved.
	if merged[0].VideoID != "v0" || merged[136].VideoID != "v136" {
		t.Errorf("merge did not preserve fetch order: first=%s last=%s", merged[0].VideoID, merged[136].VideoID)
	}
}

func TestDedupeByID(t *testing.T) {
	items := videoItems("a", "b", "a")

	unique, dups := DedupeByID(items, VideoID)
	if len(unique) != 2 {
		t.Fatalf("got %d unique items, want 2", len(unique))
	}
	if dups != 1 {
		t.Errorf("duplicateCount = %d, want 1", dups)
	}
	if unique[0].VideoID != "a" || unique[1].VideoID != "b" {
		t.Errorf("dedupe must keep first occurrences in order, got %+v", unique)
	}
}

func TestDedupeByChannelID(t *testing.T) {
	items := []youtube.RawItem{
		{ChannelID: "UC1"},
		{Snippet: youtube.Snippet{ChannelID: "UC1"}},
		{ChannelID: "UC2"},
	}

	unique, dups := DedupeByID(items, ChannelID)
	if len(unique) != 2 || dups != 1 {
		t.Errorf("got %d unique, %d duplicates; want 2, 1", len(unique), dups)
	}
}

func TestFilterValid(t *testing.T) {
	items := []youtube.RawItem{
		{VideoID: "keep1"},
		{PlaylistID: "PL123"},
		{}, // removed video, no id at all
		{VideoID: "keep2"},
		{PlaylistID: "PL456"},
	}

	valid, counts := FilterValid(items, VideoID, false)
	if len(valid) != 2 {
		t.Fatalf("got %d valid items, want 2", len(valid))
	}
	if counts.Playlists != 2 {
		t.Errorf("Playlists = %d, want 2", counts.Playlists)
	}
	if counts.EmptyID != 1 {
		t.Errorf("EmptyID = %d, want 1", counts.EmptyID)
	}
}

func TestFilterValidIncludePlaylists(t *testing.T) {
	items := []youtube.RawItem{
		{PlaylistID: "PL123", VideoID: "v1"},
	}

	valid, counts := FilterValid(items, VideoID, true)
	if len(valid) != 1 || counts.Playlists != 0 {
		t.Errorf("playlist import mode must keep playlist entries: %+v %+v", valid, counts)
	}
}
