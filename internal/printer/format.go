package printer

import (
	"fmt"
	"time"
)

var byteUnits = []string{"KB", "MB", "GB"}

// formatBytes formats a file size with binary units, e.g. "512 B", "1.5 MB".
func formatBytes(n int64) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", max(n, 0))
	}

	v := float64(n) / 1024
	unit := 0
	for v >= 1024 && unit < len(byteUnits)-1 {
		v /= 1024
		unit++
	}

	return fmt.Sprintf("%.1f %s", v, byteUnits[unit])
}

// timeAgo returns how long ago t happened relative to now, using the largest
// whole unit ("just now", "3 minutes ago", "2 days ago").
func timeAgo(now, t time.Time) string {
	d := now.Sub(t)
	if d < time.Minute {
		return "just now"
	}

	var (
		n    int
		unit string
	)
	switch {
	case d < time.Hour:
		n, unit = int(d/time.Minute), "minute"
	case d < 24*time.Hour:
		n, unit = int(d/time.Hour), "hour"
	default:
		n, unit = int(d/(24*time.Hour)), "day"
	}

	if n != 1 {
		unit += "s"
	}
	return fmt.Sprintf("%d %s ago", n, unit)
}
