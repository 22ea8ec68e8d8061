package progress

import (
	"math"
	"time"

	"github.com/angelmondragon/juniorgolf-backend/pkg/db/models"
	"github.com/angelmondragon/juniorgolf-backend/pkg/enums"
	"github.com/google/uuid"
)

// StreakDTO is the streak view returned to parents.
type StreakDTO struct {
	ChildID            uuid.UUID  `json:"childId"`
	CurrentStreak      int        `json:"currentStreak"`
	LongestStreak      int        `json:"longestStreak"`
	LastSessionDate    *time.Time `json:"lastSessionDate"`
	WeeklySessionCount int        `json:"weeklySessionCount"`
	WeeklyGoal         int        `json:"weeklyGoal"`
	GoalMet            bool       `json:"goalMet"`
	WeekStartDate      time.Time  `json:"weekStartDate"`
}

// StatsDTO summarises a child's practice history.
type StatsDTO struct {
	ChildID                uuid.UUID      `json:"childId"`
	Name                   string         `json:"name"`
	TotalStars             int            `json:"totalStars"`
	AvailableStars         int            `json:"availableStars"`
	TotalSessions          int64          `json:"totalSessions"`
	CompletedSessions      int64          `json:"completedSessions"`
	AverageStarsPerSession float64        `json:"averageStarsPerSession"`
	SkillProgress          map[string]int `json:"skillProgress"`
}

// SessionTotals are the aggregate session counters for one child.
type SessionTotals struct {
	Total          int64
	Completed      int64
	CompletedStars int64
}

// SkillStars is the stars earned in one skill category.
type SkillStars struct {
	Category string
	Stars    int64
}

func stateFromModel(s *models.Streak) *State {
	if s == nil {
		return nil
	}
	return &State{
		CurrentStreak:      s.CurrentStreak,
		LongestStreak:      s.LongestStreak,
		WeeklySessionCount: s.WeeklySessionCount,
		WeekStartDate:      s.WeekStartDate,
		LastSessionDate:    s.LastSessionDate,
	}
}

func streakDTO(childID uuid.UUID, s State, goal enums.StreakGoal) *StreakDTO {
	return &StreakDTO{
		ChildID:            childID,
		CurrentStreak:      s.CurrentStreak,
		LongestStreak:      s.LongestStreak,
		LastSessionDate:    s.LastSessionDate,
		WeeklySessionCount: s.WeeklySessionCount,
		WeeklyGoal:         goal.SessionsPerWeek(),
		GoalMet:            s.GoalMet(goal),
		WeekStartDate:      s.WeekStartDate,
	}
}

// averageStars divides to one decimal place; no completed sessions yields 0.
func averageStars(stars, sessions int64) float64 {
	if sessions <= 0 {
		return 0
	}
	return math.Round(float64(stars)/float64(sessions)*10) / 10
}
