package drills

import (
	"time"

	"github.com/angelmondragon/juniorgolf-backend/pkg/db/models"
	"github.com/angelmondragon/juniorgolf-backend/pkg/enums"
	"github.com/angelmondragon/juniorgolf-backend/pkg/pagination"
	"github.com/google/uuid"
)

// ListFilters narrow the catalog listing. Nil fields are ignored.
type ListFilters struct {
	AgeBand       *enums.AgeBand
	SkillCategory *string
	IsPremium     *bool
}

// ListInput bundles filters with the requested page window.
type ListInput struct {
	Filters    ListFilters
	Pagination pagination.Params
}

// DrillDTO is the full catalog entry.
type DrillDTO struct {
	ID              uuid.UUID     `json:"id"`
	Title           string        `json:"title"`
	AgeBand         enums.AgeBand `json:"ageBand"`
	SkillCategory   string        `json:"skillCategory"`
	DurationMinutes int           `json:"durationMinutes"`
	Setup           string        `json:"setup"`
	ChildAction     string        `json:"childAction"`
	ParentCue       string        `json:"parentCue"`
	CommonMistakes  string        `json:"commonMistakes"`
	SuccessCriteria string        `json:"successCriteria"`
	ImageURL        *string       `json:"imageUrl"`
	VideoURL        *string       `json:"videoUrl"`
	IsPremium       bool          `json:"isPremium"`
	CreatedAt       time.Time     `json:"createdAt"`
}

// ListResult is the paginated catalog response.
type ListResult struct {
	Drills []DrillDTO `json:"drills"`
	Total  int64      `json:"total"`
	Limit  int        `json:"limit"`
	Offset int        `json:"offset"`
}

func FromModel(d *models.Drill) *DrillDTO {
	if d == nil {
		return nil
	}
	return &DrillDTO{
		ID:              d.ID,
		Title:           d.Title,
		AgeBand:         d.AgeBand,
		SkillCategory:   d.SkillCategory,
		DurationMinutes: d.DurationMinutes,
		Setup:           d.Setup,
		ChildAction:     d.ChildAction,
		ParentCue:       d.ParentCue,
		CommonMistakes:  d.CommonMistakes,
		SuccessCriteria: d.SuccessCriteria,
		ImageURL:        d.ImageURL,
		VideoURL:        d.VideoURL,
		IsPremium:       d.IsPremium,
		CreatedAt:       d.CreatedAt,
	}
}
