package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/juniorgolf-backend/api/responses"
	"github.com/angelmondragon/juniorgolf-backend/api/validators"
	"github.com/angelmondragon/juniorgolf-backend/internal/avatar"
	pkgerrors "github.com/angelmondragon/juniorgolf-backend/pkg/errors"
	"github.com/angelmondragon/juniorgolf-backend/pkg/logger"
)

func avatarUnavailable() error {
	return pkgerrors.New(pkgerrors.CodeInternal, "avatar service unavailable")
}

// AvatarShop lists catalog items, optionally filtered by ?category=.
func AvatarShop(svc avatar.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, avatarUnavailable())
			return
		}

		category := ""
		if raw := validators.ParseQueryString(r, "category"); raw != nil {
			category = *raw
		}
		items, err := svc.Shop(r.Context(), category)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"items": items})
	}
}

func AvatarGet(svc avatar.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, avatarUnavailable())
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

		result, err := svc.ChildAvatar(r.Context(), parentID, childID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"avatar": result})
	}
}

func AvatarPurchase(svc avatar.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, avatarUnavailable())
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

		var body avatar.ItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Purchase(r.Context(), parentID, childID, body.ItemID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"message": "Item purchased"})
	}
}

func AvatarEquip(svc avatar.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, avatarUnavailable())
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

		var body avatar.ItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		state, err := svc.Equip(r.Context(), parentID, childID, body.ItemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"avatarState": state})
	}
}

func AvatarUnequip(svc avatar.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, avatarUnavailable())
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

		state, err := svc.Unequip(r.Context(), parentID, childID, chi.URLParam(r, "category"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"avatarState": state})
	}
}
