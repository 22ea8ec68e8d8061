package types

import "regexp"

var clockTimePattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// IsClockTime reports whether s is a 24-hour HH:MM time.
func IsClockTime(s string) bool {
	return clockTimePattern.MatchString(s)
}
