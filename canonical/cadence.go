package canonical

import (
	"sort"
	"time"
)

// Fixed calendar constants for converting a mean inter-post gap to rates.
const (
	msPerYear  = 365.25 * 24 * 60 * 60 * 1000
	msPerMonth = 30.44 * 24 * 60 * 60 * 1000
)

// Cadence is a channel's posting rate derived from upload timestamps.
type Cadence struct {
	PostsPerYear  float64
	PostsPerMonth float64
}

// PostingCadence computes the mean interval between consecutive posts and
// converts it to posts-per-year and posts-per-month rates.
//
// Fewer than two timestamps leave the mean gap undefined; both rates are then
// reported as 0. NaN is not an option since it does not survive JSON encoding
// and the destination store rejects it.
func PostingCadence(timestamps []time.Time) Cadence {
	if len(timestamps) < 2 {
		return Cadence{}
	}

	sorted := make([]time.Time, len(timestamps))
	copy(sorted, timestamps)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	var totalGapMs float64
	for i := 1; i < len(sorted); i++ {
		totalGapMs += float64(sorted[i].Sub(sorted[i-1]).Milliseconds())
	}
	meanGapMs := totalGapMs / float64(len(sorted)-1)
	if meanGapMs <= 0 {
		return Cadence{}
	}

	return Cadence{
		PostsPerYear:  msPerYear / meanGapMs,
		PostsPerMonth: msPerMonth / meanGapMs,
	}
}
