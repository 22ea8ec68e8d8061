package types

import (
	"database/sql/driver"

	"github.com/angelmondragon/juniorgolf-backend/pkg/enums"
)

// ParentSettings is the jsonb settings document stored on a parent profile.
type ParentSettings struct {
	StreakGoal *enums.StreakGoal `json:"streakGoal,omitempty"`
}

// Goal returns the configured streak goal or the default one.
func (p ParentSettings) Goal() enums.StreakGoal {
	if p.StreakGoal != nil && p.StreakGoal.IsValid() {
		return *p.StreakGoal
	}
	return enums.DefaultStreakGoal
}

func (p ParentSettings) Value() (driver.Value, error) {
	return marshalJSONB(p)
}

func (p *ParentSettings) Scan(value interface{}) error {
	*p = ParentSettings{}
	return scanJSONB(value, p, "parent settings")
}
