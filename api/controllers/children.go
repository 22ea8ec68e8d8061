package controllers

import (
	"net/http"

	"github.com/angelmondragon/juniorgolf-backend/api/responses"
	"github.com/angelmondragon/juniorgolf-backend/api/validators"
	"github.com/angelmondragon/juniorgolf-backend/internal/children"
	pkgerrors "github.com/angelmondragon/juniorgolf-backend/pkg/errors"
	"github.com/angelmondragon/juniorgolf-backend/pkg/logger"
)

func childrenUnavailable() error {
	return pkgerrors.New(pkgerrors.CodeInternal, "children service unavailable")
}

// ChildrenCreate adds a child profile under the caller's parent.
func ChildrenCreate(svc children.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, childrenUnavailable())
			return
		}
		parentID, err := parentIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body children.CreateChildInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		child, err := svc.Create(r.Context(), parentID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"child": child})
	}
}

func ChildrenList(svc children.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, childrenUnavailable())
			return
		}
		parentID, err := parentIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), parentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"children": list})
	}
}

func ChildrenGet(svc children.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, childrenUnavailable())
			return
		}
		parentID, err := parentIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		childID, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		child, err := svc.Get(r.Context(), parentID, childID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"child": child})
	}
}

// ChildrenStats returns a child with its streak and recent sessions.
func ChildrenStats(svc children.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, childrenUnavailable())
			return
		}
		parentID, err := parentIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		childID, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		child, err := svc.GetWithStats(r.Context(), parentID, childID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"child": child})
	}
}

func ChildrenUpdate(svc children.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, childrenUnavailable())
			return
		}
		parentID, err := parentIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		childID, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body children.UpdateChildInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		child, err := svc.Update(r.Context(), parentID, childID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"child": child})
	}
}

// ChildrenDelete removes a child and everything it owns. Responds 204.
func ChildrenDelete(svc children.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, childrenUnavailable())
			return
		}
		parentID, err := parentIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		childID, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), parentID, childID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
