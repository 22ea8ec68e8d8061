package settings

import (
	"github.com/angelmondragon/juniorgolf-backend/pkg/db/models"
	"github.com/angelmondragon/juniorgolf-backend/pkg/enums"
	"github.com/angelmondragon/juniorgolf-backend/pkg/types"
	"github.com/google/uuid"
)

const (
	defaultTheme    = enums.ThemeLight
	defaultLanguage = "en"
)

// UpdateRequest is a partial settings update. Absent fields are left unchanged;
// dailyReminderTime may be null to clear the reminder.
type UpdateRequest struct {
	NotificationsEnabled *bool                `json:"notificationsEnabled,omitempty"`
	DailyReminderTime    types.NullableString `json:"dailyReminderTime"`
	SoundEnabled         *bool                `json:"soundEnabled,omitempty"`
	Theme                *string              `json:"theme,omitempty" validate:"omitempty,oneof=light dark system"`
	Language             *string              `json:"language,omitempty" validate:"omitempty,min=2,max=5"`
	StreakGoal           *enums.StreakGoal    `json:"streakGoal,omitempty"`
}

// SettingsDTO merges app preferences with the family streak goal.
type SettingsDTO struct {
	UserID               uuid.UUID        `json:"userId"`
	NotificationsEnabled bool             `json:"notificationsEnabled"`
	DailyReminderTime    *string          `json:"dailyReminderTime"`
	SoundEnabled         bool             `json:"soundEnabled"`
	Theme                string           `json:"theme"`
	Language             string           `json:"language"`
	StreakGoal           enums.StreakGoal `json:"streakGoal"`
}

func defaults(userID uuid.UUID) *models.UserSettings {
	return &models.UserSettings{
		ID:                   uuid.New(),
		UserID:               userID,
		NotificationsEnabled: true,
		SoundEnabled:         true,
		Theme:                string(defaultTheme),
		Language:             defaultLanguage,
	}
}

func fromModel(s *models.UserSettings, goal enums.StreakGoal) *SettingsDTO {
	return &SettingsDTO{
		UserID:               s.UserID,
		NotificationsEnabled: s.NotificationsEnabled,
		DailyReminderTime:    s.DailyReminderTime,
		SoundEnabled:         s.SoundEnabled,
		Theme:                s.Theme,
		Language:             s.Language,
		StreakGoal:           goal,
	}
}
