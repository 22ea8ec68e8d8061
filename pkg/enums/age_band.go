package enums

import "fmt"

// AgeBand groups children and drills by developmental stage.
type AgeBand string

const (
	AgeBand4To6  AgeBand = "AGE_4_6"
	AgeBand6To8  AgeBand = "AGE_6_8"
	AgeBand8To10 AgeBand = "AGE_8_10"
)

var validAgeBands = []AgeBand{
	AgeBand4To6,
	AgeBand6To8,
	AgeBand8To10,
}

// String implements fmt.Stringer.
func (a AgeBand) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AgeBand.
func (a AgeBand) IsValid() bool {
	for _, candidate := range validAgeBands {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAgeBand converts raw input into an AgeBand.
func ParseAgeBand(value string) (AgeBand, error) {
	for _, candidate := range validAgeBands {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid age band %q", value)
}
