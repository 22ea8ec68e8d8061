package enums

import "fmt"

// SessionDuration is the requested practice length in minutes.
type SessionDuration string

const (
	SessionDuration10 SessionDuration = "10"
	SessionDuration15 SessionDuration = "15"
	SessionDuration20 SessionDuration = "20"

	DefaultSessionDuration = SessionDuration15
)

var drillsPerDuration = map[SessionDuration]int{
	SessionDuration10: 2,
	SessionDuration15: 3,
	SessionDuration20: 4,
}

// String implements fmt.Stringer.
func (d SessionDuration) String() string {
	return string(d)
}

// IsValid reports whether the value is a known SessionDuration.
func (d SessionDuration) IsValid() bool {
	_, ok := drillsPerDuration[d]
	return ok
}

// DrillCount returns how many drills a session of this length contains.
func (d SessionDuration) DrillCount() int {
	return drillsPerDuration[d]
}

// ParseSessionDuration converts raw input into a SessionDuration. Empty input yields the default.
func ParseSessionDuration(value string) (SessionDuration, error) {
	if value == "" {
		return DefaultSessionDuration, nil
	}
	d := SessionDuration(value)
	if !d.IsValid() {
		return "", fmt.Errorf("invalid session duration %q", value)
	}
	return d, nil
}
