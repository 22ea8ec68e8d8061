package controllers

import (
	"net/http"

	"github.com/angelmondragon/juniorgolf-backend/api/responses"
	"github.com/angelmondragon/juniorgolf-backend/internal/progress"
	pkgerrors "github.com/angelmondragon/juniorgolf-backend/pkg/errors"
	"github.com/angelmondragon/juniorgolf-backend/pkg/logger"
)

func progressUnavailable() error {
	return pkgerrors.New(pkgerrors.CodeInternal, "progress service unavailable")
}

func ProgressStats(svc progress.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, progressUnavailable())
			return
		}
		parentID, err := parentIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		childID, err := pathUUID(r, "childId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stats, err := svc.Stats(r.Context(), parentID, childID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"stats": stats})
	}
}

func ProgressStreak(svc progress.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, progressUnavailable())
			return
		}
		parentID, err := parentIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		childID, err := pathUUID(r, "childId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		streak, err := svc.GetStreak(r.Context(), parentID, childID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"streak": streak})
	}
}

// ProgressUpdateStreak records a practice day against the child's streak.
func ProgressUpdateStreak(svc progress.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, progressUnavailable())
			return
		}
		parentID, err := parentIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		childID, err := pathUUID(r, "childId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		streak, err := svc.UpdateStreak(r.Context(), parentID, childID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"streak": streak})
	}
}
