package timeutil

import (
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{0, "00:00:00"},
		{1, "00:00:01"},
		{61, "00:01:01"},
		{3600, "01:00:00"},
		{3661, "01:01:01"},
		{18000, "05:00:00"},
		{86400, "24:00:00"},
		{90061, "25:01:01"},
		{-5, "00:00:00"},
	}
	for _, tt := range tests {
		got := FormatDuration(tt.seconds)
		if got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		text string
		want int64
	}{
		{"01:01:01", 3661},
		{"00:00:00", 0},
		{"1:30", 5400},
		{"5", 18000},
		{"5:", 18000},
		{"00:01:30", 90},
		{"100:00:00", 360000},
		{"", 0},
		{"abc", 0},
		{":::", 0},
		{"1:xx:00", 0},
		{"-1:00:00", 0},
		{"  2:00:00  ", 7200},
	}
	for _, tt := range tests {
		got := ParseDuration(tt.text)
		if got != tt.want {
			t.Errorf("ParseDuration(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	cases := []int64{0, 1, 59, 60, 61, 3599, 3600, 3661, 18000, 86399, 86400, 123456}
	for _, s := range cases {
		got := ParseDuration(FormatDuration(s))
		if got != s {
			t.Errorf("round trip %d -> %q -> %d", s, FormatDuration(s), got)
		}
	}
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)
	if got := FormatDate(d); got != "05/03/2024" {
		t.Errorf("FormatDate = %q, want 05/03/2024", got)
	}
	if got := FormatDate(time.Time{}); got != "" {
		t.Errorf("FormatDate(zero) = %q, want empty", got)
	}
}

func TestSameDay(t *testing.T) {
	a := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	b := time.Date(2024, 1, 1, 23, 59, 59, 0, time.UTC)
	c := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	if !SameDay(a, b) {
		t.Error("expected same day for a and b")
	}
	if SameDay(a, c) {
		t.Error("expected different day for a and c")
	}
}
