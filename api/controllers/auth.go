package controllers

import (
	"net"
	"net/http"
	"strings"

	"github.com/oguzsenturk/vitalshop-backend/api/middleware"
	"github.com/oguzsenturk/vitalshop-backend/api/responses"
	"github.com/oguzsenturk/vitalshop-backend/api/validators"
	"github.com/oguzsenturk/vitalshop-backend/internal/admins"
	"github.com/oguzsenturk/vitalshop-backend/pkg/config"
	"github.com/oguzsenturk/vitalshop-backend/pkg/enums"
	pkgerrors "github.com/oguzsenturk/vitalshop-backend/pkg/errors"
	"github.com/oguzsenturk/vitalshop-backend/pkg/logger"
)

// Login authenticates an admin and mints an access token.
func Login(svc admins.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body admins.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), body, clientIP(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// Register creates an admin account without authentication. It is a
// development convenience and refuses to run in production.
func Register(svc admins.Service, appCfg config.AppConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if appCfg.IsProd() {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeForbidden, "registration is disabled"))
			return
		}

		var body admins.CreateInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Create(r.Context(), enums.AdminRoleOwner, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

// Me echoes the authenticated admin's identity from the token claims.
func Me(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminID := middleware.AdminIDFromContext(r.Context())
		if adminID == "" {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		responses.WriteSuccess(w, map[string]string{
			"id":    adminID,
			"email": middleware.EmailFromContext(r.Context()),
			"role":  middleware.RoleFromContext(r.Context()),
		})
	}
}

func clientIP(r *http.Request) string {
	if header := r.Header.Get("X-Forwarded-For"); header != "" {
		for _, part := range strings.Split(header, ",") {
			if ip := strings.TrimSpace(part); ip != "" {
				return ip
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}
