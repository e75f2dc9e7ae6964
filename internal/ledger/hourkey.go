package ledger

import (
	"strings"
	"time"
)

// hourKeyLayout is the canonical bucket form both feeds are joined on.
const hourKeyLayout = "2006-01-02T15:00:00"

// Layouts accepted for timestamps that carry no zone information. RFC3339
// (with Z or an explicit offset) is tried first.
var hourKeyFallbacks = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05.000000",
}

// HourKey truncates a timestamp string to its hour bucket, formatted as
// YYYY-MM-DDTHH:00:00. The hour is taken as written in the source string;
// offsets are not converted to a common zone because both upstream feeds
// report the same nominal wall-clock hour. ok is false when the string is
// empty or matches no recognized layout.
func HourKey(ts string) (string, bool) {
	if ts == "" {
		return "", false
	}
	if t, err := time.Parse(time.RFC3339, ts); err == nil {
		return t.Format(hourKeyLayout), true
	}
	for _, layout := range hourKeyFallbacks {
		if t, err := time.Parse(layout, ts); err == nil {
			return t.Format(hourKeyLayout), true
		}
	}
	return "", false
}

// JoinKey is HourKey with the trailing-Z accommodation both join sides
// apply: a Z suffix is rewritten to an explicit +00:00 offset before
// parsing, so Z-suffixed and offset-suffixed spellings of the same hour
// land in the same bucket.
func JoinKey(ts string) (string, bool) {
	return HourKey(normalizeZSuffix(ts))
}

func normalizeZSuffix(ts string) string {
	if strings.HasSuffix(ts, "Z") {
		return strings.TrimSuffix(ts, "Z") + "+00:00"
	}
	return ts
}
