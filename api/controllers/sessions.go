package controllers

import (
	"net/http"

	"github.com/angelmondragon/juniorgolf-backend/api/responses"
	"github.com/angelmondragon/juniorgolf-backend/api/validators"
	"github.com/angelmondragon/juniorgolf-backend/internal/sessions"
	"github.com/angelmondragon/juniorgolf-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/juniorgolf-backend/pkg/errors"
	"github.com/angelmondragon/juniorgolf-backend/pkg/logger"
)

func sessionsUnavailable() error {
	return pkgerrors.New(pkgerrors.CodeInternal, "sessions service unavailable")
}

// SessionsGenerate builds a practice session for one of the caller's children.
func SessionsGenerate(svc sessions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, sessionsUnavailable())
			return
		}
		parentID, err := parentIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body sessions.GenerateInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := svc.Generate(r.Context(), parentID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"session": session})
	}
}

func SessionsList(svc sessions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, sessionsUnavailable())
			return
		}
		parentID, err := parentIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		childID, err := validators.ParseQueryUUID(r, "childId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var status *enums.SessionStatus
		if raw := validators.ParseQueryString(r, "status"); raw != nil {
			s := enums.SessionStatus(*raw)
			status = &s
		}

		result, err := svc.List(r.Context(), parentID, sessions.ListInput{
			Filters:    sessions.ListFilters{ChildID: childID, Status: status},
			Pagination: page,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func SessionsGet(svc sessions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, sessionsUnavailable())
			return
		}
		parentID, err := parentIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sessionID, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := svc.Get(r.Context(), parentID, sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"session": session})
	}
}

// SessionsCompleteDrill flips one drill slot to completed. A request body is
// optional and its star count is ignored.
func SessionsCompleteDrill(svc sessions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, sessionsUnavailable())
			return
		}
		parentID, err := parentIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sessionID, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		slotID, err := pathUUID(r, "drillId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if r.ContentLength > 0 {
			var body sessions.CompleteDrillInput
			if err := validators.DecodeJSONBody(r, &body); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		session, err := svc.CompleteDrill(r.Context(), parentID, sessionID, slotID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"session": session})
	}
}

// SessionsComplete closes a session and credits its stars to the child.
func SessionsComplete(svc sessions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, sessionsUnavailable())
			return
		}
		parentID, err := parentIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sessionID, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := svc.Complete(r.Context(), parentID, sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"session": session})
	}
}
