package duration

import "testing"

func TestParseISO(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"PT3M53S", 233},
		{"PT1H2M3S", 3723},
		{"PT45S", 45},
		{"PT1M", 60},
		{"P1DT1S", 86401},
		{"P1W", 604800},
		{"P1Y", 365 * 86400},
		{"P1M", 30 * 86400},
		{"P0D", 0},
		{"", 0},
		{"not a duration", 0},
		{"PT0M00S", 0},
	}

	for _, tt := range tests {
		if got := ParseISO(tt.input); got != tt.want {
			t.Errorf("ParseISO(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestParseISOFractional(t *testing.T) {
	// Fractional components truncate toward zero.
	if got := ParseISO("PT1.5M"); got != 60 {
		t.Errorf("ParseISO(PT1.5M) = %d, want 60", got)
	}
}

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		input int
		want  string
	}{
		{233, "03:53"},
		{3661, "1:01:01"},
		{0, "00:00"},
		{59, "00:59"},
		{3599, "59:59"},
		{3600, "1:00:00"},
		{7322, "2:02:02"},
		{-5, "00:00"},
	}

	for _, tt := range tests {
		if got := FormatSeconds(tt.input); got != tt.want {
			t.Errorf("FormatSeconds(%d) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestToSeconds(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"03:53", 233},
		{"1:01:01", 3661},
		{"00:00", 0},
		{"59:59", 3599},
		{"garbage", 0},
	}

	for _, tt := range tests {
		if got := ToSeconds(tt.input); got != tt.want {
			t.Errorf("ToSeconds(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	// toSeconds(formatSeconds(parseIsoDuration(d))) == parseIsoDuration(d)
	inputs := []string{"PT3M53S", "PT1H2M3S", "PT45S", "P1DT12H", "PT0S", "P0D"}
	for _, d := range inputs {
		secs := ParseISO(d)
		if got := ToSeconds(FormatSeconds(secs)); got != secs {
			t.Errorf("round trip of %q: got %d, want %d", d, got, secs)
		}
	}
}
