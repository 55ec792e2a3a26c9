package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/oguzsenturk/vitalshop-backend/api/middleware"
	"github.com/oguzsenturk/vitalshop-backend/api/responses"
	"github.com/oguzsenturk/vitalshop-backend/api/validators"
	"github.com/oguzsenturk/vitalshop-backend/internal/admins"
	"github.com/oguzsenturk/vitalshop-backend/pkg/enums"
	pkgerrors "github.com/oguzsenturk/vitalshop-backend/pkg/errors"
	"github.com/oguzsenturk/vitalshop-backend/pkg/logger"
)

func AdminList(svc admins.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role, err := actorRole(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views, err := svc.List(r.Context(), role)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, views)
	}
}

func AdminCreate(svc admins.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role, err := actorRole(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body admins.CreateInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Create(r.Context(), role, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

func AdminUpdate(svc admins.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role, err := actorRole(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := pathID(r, "adminID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body admins.UpdateInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Update(r.Context(), role, id, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func AdminDelete(svc admins.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role, err := actorRole(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actorID, err := uuid.Parse(middleware.AdminIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token subject"))
			return
		}

		id, err := pathID(r, "adminID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), role, actorID, id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}

func actorRole(r *http.Request) (enums.AdminRole, error) {
	role, err := enums.ParseAdminRole(middleware.RoleFromContext(r.Context()))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeForbidden, err, "unknown role claim")
	}
	return role, nil
}
