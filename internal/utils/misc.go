package utils

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// DMRoomID derives the deterministic pairwise room key for two users: both
// usernames sorted and joined with an underscore. Matches the server's
// derivation, so either side computes the same key.
func DMRoomID(a, b string) string {
	pair := []string{a, b}
	sort.Strings(pair)
	return pair[0] + "_" + pair[1]
}

// DMPeer returns the other participant of a pairwise room key, or "" when the
// key does not look pairwise or does not involve self.
func DMPeer(roomID, self string) string {
	parts := strings.SplitN(roomID, "_", 2)
	if len(parts) != 2 {
		return ""
	}
	if parts[0] == self {
		return parts[1]
	}
	if parts[1] == self {
		return parts[0]
	}
	return ""
}

// PreviewText shortens s to at most n runes for room previews.
func PreviewText(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// ClampRunes truncates s to at most n runes, appending the marker when the
// source was longer.
func ClampRunes(s string, n int, marker string) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + marker
}

// FormatPrettyTime renders a message timestamp the way the chat screen shows
// it: time-of-day for today, day-qualified otherwise.
func FormatPrettyTime(t time.Time) string {
	now := time.Now()
	timePart := t.Format("15:04")

	y, m, d := t.Date()
	ny, nm, nd := now.Date()
	if y == ny && m == nm && d == nd {
		return timePart
	}

	yesterday := now.AddDate(0, 0, -1)
	if y == yesterday.Year() && m == yesterday.Month() && d == yesterday.Day() {
		return "Yesterday " + timePart
	}

	if y == ny {
		return fmt.Sprintf("%s %d %s", t.Format("Jan"), d, timePart)
	}
	return fmt.Sprintf("%d %s %02d %s", y, t.Format("Jan"), d, timePart)
}
