package children

import (
	"time"

	"github.com/angelmondragon/juniorgolf-backend/pkg/db/models"
	"github.com/angelmondragon/juniorgolf-backend/pkg/enums"
	"github.com/angelmondragon/juniorgolf-backend/pkg/types"
	"github.com/google/uuid"
)

// CreateChildInput is the payload for adding a child profile.
type CreateChildInput struct {
	Name        string            `json:"name" validate:"required,max=100"`
	AgeBand     enums.AgeBand     `json:"ageBand" validate:"required"`
	SkillLevel  *enums.SkillLevel `json:"skillLevel,omitempty"`
	AvatarState map[string]string `json:"avatarState,omitempty"`
}

// UpdateChildInput is a partial update; nil fields are left unchanged.
type UpdateChildInput struct {
	Name       *string           `json:"name,omitempty" validate:"omitempty,max=100"`
	AgeBand    *enums.AgeBand    `json:"ageBand,omitempty"`
	SkillLevel *enums.SkillLevel `json:"skillLevel,omitempty"`
}

// ChildDTO is the child profile returned to parents.
type ChildDTO struct {
	ID             uuid.UUID         `json:"id"`
	Name           string            `json:"name"`
	AgeBand        enums.AgeBand     `json:"ageBand"`
	SkillLevel     enums.SkillLevel  `json:"skillLevel"`
	TotalStars     int               `json:"totalStars"`
	AvailableStars int               `json:"availableStars"`
	AvatarState    types.AvatarState `json:"avatarState"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

// StreakSummary is the streak row embedded in child stats.
type StreakSummary struct {
	CurrentStreak      int        `json:"currentStreak"`
	LongestStreak      int        `json:"longestStreak"`
	WeeklySessionCount int        `json:"weeklySessionCount"`
	WeekStartDate      time.Time  `json:"weekStartDate"`
	LastSessionDate    *time.Time `json:"lastSessionDate"`
}

// SessionSummary is the compact session shape listed in child stats.
type SessionSummary struct {
	ID               uuid.UUID           `json:"id"`
	Status           enums.SessionStatus `json:"status"`
	TotalStarsEarned int                 `json:"totalStarsEarned"`
	StartedAt        time.Time           `json:"startedAt"`
	CompletedAt      *time.Time          `json:"completedAt"`
}

// ChildStatsDTO is a child with its streak and recent practice history.
type ChildStatsDTO struct {
	ChildDTO
	Streak         *StreakSummary   `json:"streak"`
	RecentSessions []SessionSummary `json:"recentSessions"`
	TotalSessions  int64            `json:"totalSessions"`
}

func FromModel(c *models.Child) *ChildDTO {
	if c == nil {
		return nil
	}
	return &ChildDTO{
		ID:             c.ID,
		Name:           c.Name,
		AgeBand:        c.AgeBand,
		SkillLevel:     c.SkillLevel,
		TotalStars:     c.TotalStars,
		AvailableStars: c.AvailableStars,
		AvatarState:    c.AvatarState,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func streakSummary(s *models.Streak) *StreakSummary {
	if s == nil {
		return nil
	}
	return &StreakSummary{
		CurrentStreak:      s.CurrentStreak,
		LongestStreak:      s.LongestStreak,
		WeeklySessionCount: s.WeeklySessionCount,
		WeekStartDate:      s.WeekStartDate,
		LastSessionDate:    s.LastSessionDate,
	}
}

func sessionSummaries(sessions []models.Session) []SessionSummary {
	out := make([]SessionSummary, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, SessionSummary{
			ID:               s.ID,
			Status:           s.Status,
			TotalStarsEarned: s.TotalStarsEarned,
			StartedAt:        s.StartedAt,
			CompletedAt:      s.CompletedAt,
		})
	}
	return out
}
