package controllers

import (
	"net/http"

	"github.com/angelmondragon/juniorgolf-backend/api/responses"
	"github.com/angelmondragon/juniorgolf-backend/api/validators"
	"github.com/angelmondragon/juniorgolf-backend/internal/drills"
	"github.com/angelmondragon/juniorgolf-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/juniorgolf-backend/pkg/errors"
	"github.com/angelmondragon/juniorgolf-backend/pkg/logger"
)

func drillsUnavailable() error {
	return pkgerrors.New(pkgerrors.CodeInternal, "drills service unavailable")
}

func ageBandQuery(r *http.Request) *enums.AgeBand {
	raw := validators.ParseQueryString(r, "ageBand")
	if raw == nil {
		return nil
	}
	band := enums.AgeBand(*raw)
	return &band
}

// DrillsList serves the paginated catalog.
func DrillsList(svc drills.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, drillsUnavailable())
			return
		}

		page, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		premium, err := validators.ParseQueryBool(r, "isPremium")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), drills.ListInput{
			Filters: drills.ListFilters{
				AgeBand:       ageBandQuery(r),
				SkillCategory: validators.ParseQueryString(r, "skillCategory"),
				IsPremium:     premium,
			},
			Pagination: page,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func DrillsCategories(svc drills.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, drillsUnavailable())
			return
		}

		categories, err := svc.Categories(r.Context(), ageBandQuery(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"categories": categories})
	}
}

func DrillsGet(svc drills.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, drillsUnavailable())
			return
		}
		id, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		drill, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"drill": drill})
	}
}
