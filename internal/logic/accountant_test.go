package logic

import (
	"testing"
	"time"

	"pgregory.net/rapid"
)

func TestComponents(t *testing.T) {
	tests := []struct {
		in        time.Duration
		m, s, c   int
		formatted string
	}{
		{0, 0, 0, 0, "00:00:00"},
		{ms(9), 0, 0, 0, "00:00:00"},
		{ms(10), 0, 0, 1, "00:00:01"},
		{ms(999), 0, 0, 99, "00:00:99"},
		{ms(6000), 0, 6, 0, "00:06:00"},
		{ms(61234), 1, 1, 23, "01:01:23"},
		{ms(3599999), 59, 59, 99, "59:59:99"},
		{ms(3600000), 0, 0, 0, "00:00:00"}, // minutes wrap
		{ms(3725010), 2, 5, 1, "02:05:01"},
		{-ms(500), 0, 0, 0, "00:00:00"},
	}

	for _, tt := range tests {
		m, s, c := Components(tt.in)
		if m != tt.m || s != tt.s || c != tt.c {
			t.Errorf("Components(%v) = (%d, %d, %d), want (%d, %d, %d)", tt.in, m, s, c, tt.m, tt.s, tt.c)
		}
		if got := FormatDuration(tt.in); got != tt.formatted {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.in, got, tt.formatted)
		}
	}
}

func TestComponentsTruncatesSubMillisecond(t *testing.T) {
	d := 19*time.Millisecond + 999*time.Microsecond
	if _, _, c := Components(d); c != 1 {
		t.Errorf("expected truncation to 1 hundredth, got %d", c)
	}
}

func TestParseDurationErrors(t *testing.T) {
	for _, in := range []string{"", "0:00:00", "00-00-00", "aa:00:00", "60:00:00", "00:60:00", "00:00:0x", "00:00:000"} {
		if _, _, _, err := ParseDuration(in); err == nil {
			t.Errorf("ParseDuration(%q): expected error", in)
		}
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.Int64Range(0, 3599999).Draw(rt, "ms")
		d := time.Duration(n) * time.Millisecond

		m, s, c, err := ParseDuration(FormatDuration(d))
		if err != nil {
			rt.Fatalf("parse %q: %v", FormatDuration(d), err)
		}

		low := int64(m)*60000 + int64(s)*1000 + int64(c)*10
		if low > n || n >= low+10 {
			rt.Fatalf("%dms formatted as %q: want %d <= %d < %d", n, FormatDuration(d), low, n, low+10)
		}
	})
}
