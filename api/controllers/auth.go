package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/angelmondragon/sweetshop-backend/api/middleware"
	"github.com/angelmondragon/sweetshop-backend/api/responses"
	"github.com/angelmondragon/sweetshop-backend/api/validators"
	"github.com/angelmondragon/sweetshop-backend/internal/auth"
	pkgerrors "github.com/angelmondragon/sweetshop-backend/pkg/errors"
	"github.com/angelmondragon/sweetshop-backend/pkg/logger"
)

// AuthRegister creates a customer account. Admin signups depend on configuration.
func AuthRegister(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body auth.RegisterRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.Register(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessMessage(w, http.StatusCreated, "User registered successfully", user)
	}
}

// AuthLogin issues a session and writes the auth cookies.
func AuthLogin(svc auth.Service, cookies middleware.CookieOptions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := svc.Login(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		middleware.SetAuthCookies(w, cookies, session.AccessToken, session.RefreshToken)
		w.Header().Set(middleware.AccessTokenHeader, session.AccessToken)
		responses.WriteSuccessMessage(w, http.StatusOK, "Login successful", session)
	}
}

// AuthRefresh exchanges the refresh cookie, or a refreshToken body field, for a new access token.
func AuthRefresh(svc auth.Service, cookies middleware.CookieOptions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		token, err := refreshTokenFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := svc.Refresh(r.Context(), token)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		middleware.SetAuthCookies(w, cookies, session.AccessToken, session.RefreshToken)
		w.Header().Set(middleware.AccessTokenHeader, session.AccessToken)
		responses.WriteSuccess(w, session)
	}
}

// AuthLogout revokes the refresh session when one is presented and always clears the cookies.
func AuthLogout(svc auth.Service, cookies middleware.CookieOptions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		token, err := refreshTokenFromRequest(r)
		if err == nil {
			if err := svc.Logout(r.Context(), token); err != nil && pkgerrors.Is(err, pkgerrors.CodeDependency) {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		middleware.ClearAuthCookies(w, cookies)
		responses.WriteSuccessMessage(w, http.StatusOK, "Logged out successfully", nil)
	}
}

// AuthMe returns the caller's profile.
func AuthMe(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		identity, ok := middleware.IdentityFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "Authentication required"))
			return
		}

		user, err := svc.Me(r.Context(), identity.UserID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, user)
	}
}

func refreshTokenFromRequest(r *http.Request) (string, error) {
	if c, err := r.Cookie(middleware.RefreshTokenCookie); err == nil && c.Value != "" {
		return c.Value, nil
	}
	if r.Body != nil {
		var body auth.RefreshRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		if body.RefreshToken != "" {
			return body.RefreshToken, nil
		}
	}
	return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "Refresh token missing")
}
