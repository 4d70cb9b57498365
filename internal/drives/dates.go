package drives

import (
	"time"
)

// Accepted drive date layouts, tried in order. Date-only and zone-less
// values are read in the configured time zone.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

func parseDate(s string, loc *time.Location) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.In(loc), true
		}
	}
	return time.Time{}, false
}

// startOfDay returns midnight of t's calendar day in loc.
func startOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// onOrAfter reports whether the calendar day of t is today or later.
func onOrAfter(t, today time.Time, loc *time.Location) bool {
	return !startOfDay(t, loc).Before(today)
}
