package sla

import "fmt"

// FormatSeconds renders a duration the way the dashboard shows it:
// "45m" under an hour, "4h" or "4h 30m" under a day, "3d" or "3d 2h" beyond.
func FormatSeconds(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	s := int64(seconds)
	switch {
	case s < 3600:
		return fmt.Sprintf("%dm", s/60)
	case s < 86400:
		h, m := s/3600, (s%3600)/60
		if m == 0 {
			return fmt.Sprintf("%dh", h)
		}
		return fmt.Sprintf("%dh %dm", h, m)
	default:
		d, h := s/86400, (s%86400)/3600
		if h == 0 {
			return fmt.Sprintf("%dd", d)
		}
		return fmt.Sprintf("%dd %dh", d, h)
	}
}
