package progress

import (
	"time"

	"github.com/angelmondragon/juniorgolf-backend/pkg/enums"
)

// State is the weekly streak bookkeeping for one child.
type State struct {
	CurrentStreak      int
	LongestStreak      int
	WeeklySessionCount int
	WeekStartDate      time.Time
	LastSessionDate    *time.Time
}

// WeekStart returns Monday 00:00 of the week containing t, in loc.
func WeekStart(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	local := t.In(loc)
	offset := (int(local.Weekday()) + 6) % 7
	return time.Date(local.Year(), local.Month(), local.Day()-offset, 0, 0, 0, 0, loc)
}

// StartOfDay truncates t to midnight in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// Advance records one practice session at now. A nil prev starts a fresh
// streak. The streak counts consecutive weeks in which goal was met.
func Advance(prev *State, goal enums.StreakGoal, now time.Time, loc *time.Location) State {
	target := goal.SessionsPerWeek()
	weekStart := WeekStart(now, loc)
	today := StartOfDay(now, loc)

	if prev == nil {
		return State{
			WeeklySessionCount: 1,
			WeekStartDate:      weekStart,
			LastSessionDate:    &today,
		}
	}

	next := *prev
	if prev.WeekStartDate.Before(weekStart) {
		if prev.WeeklySessionCount >= target {
			next.CurrentStreak++
		} else {
			next.CurrentStreak = 0
		}
		next.WeeklySessionCount = 1
	} else {
		next.WeeklySessionCount++
		if prev.WeeklySessionCount < target && next.WeeklySessionCount >= target {
			next.CurrentStreak++
		}
	}
	if next.CurrentStreak > next.LongestStreak {
		next.LongestStreak = next.CurrentStreak
	}
	next.LastSessionDate = &today
	next.WeekStartDate = weekStart
	return next
}

// GoalMet reports whether the current week's count reaches goal.
func (s State) GoalMet(goal enums.StreakGoal) bool {
	return s.WeeklySessionCount >= goal.SessionsPerWeek()
}
