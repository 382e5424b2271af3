package timeutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseDuration converts colon-delimited "HH:mm:ss" text into seconds.
// Segments fill hours, minutes, seconds in order, so a lone "5" is 5 hours
// and "1:30" is 1 hour 30 minutes. A non-numeric segment degrades the whole
// result to 0 instead of erroring so the surrounding edit field stays
// usable mid-keystroke; trailing empty segments ("5:") count as 0.
func ParseDuration(text string) int64 {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}

	parts := strings.Split(text, ":")
	if len(parts) > 3 {
		return 0
	}

	vals := [3]int64{} // hours, minutes, seconds
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return 0
		}
		vals[i] = n
	}

	total := vals[0]*3600 + vals[1]*60 + vals[2]
	if total < 0 {
		return 0
	}
	return total
}

// FormatDuration renders seconds as zero-padded "HH:mm:ss".
// Negative input formats as "00:00:00".
func FormatDuration(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// FormatHours renders seconds as decimal hours like "7.5h". The division
// by 3600 happens only here, at presentation time.
func FormatHours(seconds int64) string {
	return fmt.Sprintf("%.1fh", float64(seconds)/3600)
}

// FormatDate renders a timestamp as DD/MM/YYYY for table cells and exports.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}

// StartOfDay returns 00:00:00 of the same day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59 of the same day.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

// SameDay reports whether two times fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
