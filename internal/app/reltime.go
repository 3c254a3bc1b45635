package app

import (
	"fmt"
	"time"
)

// RelativeTime renders an epoch-seconds timestamp as a human-readable
// distance from now, using calendar buckets: hours inside a day, then days,
// weeks, months, years. Pure given now, so tests can pin the clock.
func RelativeTime(ts int64, now time.Time) string {
	if ts <= 0 {
		return "Recently"
	}
	diff := now.Sub(time.Unix(ts, 0))
	if diff < 0 {
		diff = 0
	}

	days := int(diff.Hours()) / 24
	hours := int(diff.Hours()) % 24

	switch {
	case days == 0:
		if hours == 0 {
			return "Today"
		}
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	case days == 1:
		return "1 day ago"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	case days < 30:
		return plural(days/7, "week")
	case days < 365:
		return plural(days/30, "month")
	default:
		return plural(days/365, "year")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
