package todo

import (
	"fmt"
	"time"
)

// ElapsedMinutes returns whole minutes between from and to, never negative.
func ElapsedMinutes(from, to time.Time) int {
	d := to.Sub(from)
	if d <= 0 {
		return 0
	}
	return int(d / time.Minute)
}

// FormatMinutes renders a work time such as "1d 2h 5m".
func FormatMinutes(total int) string {
	if total <= 0 {
		return "0m"
	}
	days := total / 1440
	hours := (total % 1440) / 60
	minutes := total % 60
	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// WindowMinutes is the length of a target window. An end before the start
// is read as crossing midnight.
func WindowMinutes(start, end time.Time) int {
	if end.Before(start) {
		end = end.Add(24 * time.Hour)
	}
	return ElapsedMinutes(start, end)
}
