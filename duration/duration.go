// Package duration converts the ISO-8601 style duration tokens returned by the
// video platform (e.g. "PT3M53S") into whole seconds and display strings.
//
// The year and month multipliers are fixed approximations (365 and 30 days)
// rather than calendar-accurate values. Upstream durations never actually
// reach those components, but the multipliers are part of the observable
// contract and must not change.
package duration

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// isoPattern matches PnYnMnWnDTnHnMnS with every component optional.
// Fractional components are tolerated and truncated toward zero.
var isoPattern = regexp.MustCompile(`(?i)P(?:(\d+(?:\.\d+)?)Y)?(?:(\d+(?:\.\d+)?)M)?(?:(\d+(?:\.\d+)?)W)?(?:(\d+(?:\.\d+)?)D)?(?:T(?:(\d+(?:\.\d+)?)H)?(?:(\d+(?:\.\d+)?)M)?(?:(\d+(?:\.\d+)?)S)?)?`)

// Seconds per capture group, in match order: years, months, weeks, days,
// hours, minutes, seconds.
var multipliers = [7]int{
	365 * 86400,
	30 * 86400,
	604800,
	86400,
	3600,
	60,
	1,
}

// ParseISO converts an ISO-8601 style duration token into whole seconds.
// Empty input (the platform's "scheduled, no duration yet" sentinel) and
// unrecognized text both map to 0; ParseISO never fails.
func ParseISO(text string) int {
	if text == "" {
		return 0
	}

	m := isoPattern.FindStringSubmatch(text)
	if m == nil {
		return 0
	}

	total := 0
	for i, mult := range multipliers {
		group := m[i+1]
		if group == "" {
			continue
		}
		// Truncate fractional components the way integer parsing would.
		if dot := strings.IndexByte(group, '.'); dot >= 0 {
			group = group[:dot]
		}
		n, err := strconv.Atoi(group)
		if err != nil {
			continue
		}
		total += n * mult
	}

	return total
}

// FormatSeconds renders whole seconds as "H:MM:SS" when the value is an hour
// or more, otherwise "MM:SS". Minutes and seconds are always zero-padded to
// two digits; hours carry no leading zero.
func FormatSeconds(total int) string {
	if total < 0 {
		total = 0
	}
	if total >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", total/3600, total%3600/60, total%60)
	}
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// ToSeconds is the inverse of FormatSeconds. The last two colon-separated
// tokens are seconds and minutes; a third leading token, when present, is
// hours. Malformed input yields 0.
func ToSeconds(formatted string) int {
	parts := strings.Split(formatted, ":")
	if len(parts) < 2 {
		return 0
	}

	atoi := func(s string) int {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return 0
		}
		return n
	}

	hours := 0
	if len(parts) >= 3 {
		hours = atoi(parts[0])
	}
	minutes := atoi(parts[len(parts)-2])
	seconds := atoi(parts[len(parts)-1])

	return hours*3600 + minutes*60 + seconds
}
