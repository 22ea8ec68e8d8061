package sessions

import (
	"time"

	"github.com/angelmondragon/juniorgolf-backend/pkg/db/models"
	"github.com/angelmondragon/juniorgolf-backend/pkg/enums"
	"github.com/angelmondragon/juniorgolf-backend/pkg/pagination"
	"github.com/google/uuid"
)

// GenerateInput requests a new practice session for a child.
type GenerateInput struct {
	ChildID         uuid.UUID `json:"childId" validate:"required"`
	DurationMinutes string    `json:"durationMinutes,omitempty" validate:"omitempty,oneof=10 15 20"`
}

// CompleteDrillInput is decoded for compatibility; the award is fixed server-side.
type CompleteDrillInput struct {
	StarsEarned *int `json:"starsEarned,omitempty"`
}

// ListFilters narrow the session history.
type ListFilters struct {
	ChildID *uuid.UUID
	Status  *enums.SessionStatus
}

type ListInput struct {
	Filters    ListFilters
	Pagination pagination.Params
}

// DrillSummary is the catalog slice embedded in a session drill.
type DrillSummary struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	SkillCategory   string    `json:"skillCategory"`
	DurationMinutes int       `json:"durationMinutes"`
}

type SessionDrillDTO struct {
	ID          uuid.UUID     `json:"id"`
	Order       int           `json:"order"`
	Completed   bool          `json:"completed"`
	StarsEarned int           `json:"starsEarned"`
	VerifiedAt  *time.Time    `json:"verifiedAt"`
	Drill       *DrillSummary `json:"drill"`
}

type SessionDTO struct {
	ID               uuid.UUID           `json:"id"`
	ChildID          uuid.UUID           `json:"childId"`
	Status           enums.SessionStatus `json:"status"`
	TotalStarsEarned int                 `json:"totalStarsEarned"`
	StartedAt        time.Time           `json:"startedAt"`
	CompletedAt      *time.Time          `json:"completedAt"`
	Drills           []SessionDrillDTO   `json:"drills"`
}

// ListResult is the paginated session history response.
type ListResult struct {
	Sessions []SessionDTO `json:"sessions"`
	Total    int64        `json:"total"`
	Limit    int          `json:"limit"`
	Offset   int          `json:"offset"`
}

func FromModel(s *models.Session) *SessionDTO {
	if s == nil {
		return nil
	}
	out := &SessionDTO{
		ID:               s.ID,
		ChildID:          s.ChildID,
		Status:           s.Status,
		TotalStarsEarned: s.TotalStarsEarned,
		StartedAt:        s.StartedAt,
		CompletedAt:      s.CompletedAt,
		Drills:           make([]SessionDrillDTO, 0, len(s.Drills)),
	}
	for _, sd := range s.Drills {
		item := SessionDrillDTO{
			ID:          sd.ID,
			Order:       sd.Order,
			Completed:   sd.Completed,
			StarsEarned: sd.StarsEarned,
			VerifiedAt:  sd.VerifiedAt,
		}
		if sd.Drill != nil {
			item.Drill = &DrillSummary{
				ID:              sd.Drill.ID,
				Title:           sd.Drill.Title,
				SkillCategory:   sd.Drill.SkillCategory,
				DurationMinutes: sd.Drill.DurationMinutes,
			}
		}
		out.Drills = append(out.Drills, item)
	}
	return out
}
