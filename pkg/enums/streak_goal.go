package enums

import "fmt"

// StreakGoal is the weekly session target a parent configures.
type StreakGoal string

const (
	StreakGoalDaily        StreakGoal = "DAILY"
	StreakGoalFivePerWeek  StreakGoal = "FIVE_PER_WEEK"
	StreakGoalThreePerWeek StreakGoal = "THREE_PER_WEEK"
	StreakGoalTwoPerWeek   StreakGoal = "TWO_PER_WEEK"

	DefaultStreakGoal = StreakGoalThreePerWeek
)

var sessionsPerWeek = map[StreakGoal]int{
	StreakGoalDaily:        7,
	StreakGoalFivePerWeek:  5,
	StreakGoalThreePerWeek: 3,
	StreakGoalTwoPerWeek:   2,
}

// String implements fmt.Stringer.
func (g StreakGoal) String() string {
	return string(g)
}

// IsValid reports whether the value is a known StreakGoal.
func (g StreakGoal) IsValid() bool {
	_, ok := sessionsPerWeek[g]
	return ok
}

// SessionsPerWeek returns the weekly session count needed to meet the goal.
// Unknown goals fall back to the default goal's target.
func (g StreakGoal) SessionsPerWeek() int {
	if n, ok := sessionsPerWeek[g]; ok {
		return n
	}
	return sessionsPerWeek[DefaultStreakGoal]
}

// ParseStreakGoal converts raw input into a StreakGoal.
func ParseStreakGoal(value string) (StreakGoal, error) {
	g := StreakGoal(value)
	if !g.IsValid() {
		return "", fmt.Errorf("invalid streak goal %q", value)
	}
	return g, nil
}
