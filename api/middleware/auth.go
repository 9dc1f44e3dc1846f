package middleware

import (
	"context"
	"net/http"

	"github.com/angelmondragon/sweetshop-backend/api/responses"
	"github.com/angelmondragon/sweetshop-backend/api/validators"
	authsvc "github.com/angelmondragon/sweetshop-backend/internal/auth"
	pkgAuth "github.com/angelmondragon/sweetshop-backend/pkg/auth"
	"github.com/angelmondragon/sweetshop-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/sweetshop-backend/pkg/errors"
	"github.com/angelmondragon/sweetshop-backend/pkg/logger"
	"github.com/google/uuid"
)

// SessionRefresher issues a new access token from a refresh token.
type SessionRefresher interface {
	Refresh(ctx context.Context, refreshToken string) (*authsvc.Session, error)
}

// AuthOptions configures the authentication middleware.
type AuthOptions struct {
	JWT       config.JWTConfig
	Cookies   CookieOptions
	Refresher SessionRefresher
	Logger    *logger.Logger
}

// Auth requires an access token from the Authorization header or the access
// cookie. An expired access token is silently replaced when a valid refresh
// cookie accompanies the request.
func Auth(opts AuthOptions) func(http.Handler) http.Handler {
	return authenticate(opts, true)
}

// OptionalAuth resolves the caller when credentials are present and lets
// anonymous requests through. A lapsed session that cannot be refreshed is
// treated as anonymous and its cookies are cleared; malformed tokens are still
// rejected.
func OptionalAuth(opts AuthOptions) func(http.Handler) http.Handler {
	return authenticate(opts, false)
}

func authenticate(opts AuthOptions, required bool) func(http.Handler) http.Handler {
	logg := opts.Logger
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			access := validators.BearerToken(r)
			if access == "" {
				access = cookieValue(r, AccessTokenCookie)
			}
			refresh := cookieValue(r, RefreshTokenCookie)

			if access == "" && refresh == "" {
				if required {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "Missing authentication tokens"))
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			var identity Identity
			if access != "" {
				claims, err := pkgAuth.ParseAccessToken(opts.JWT, access)
				switch {
				case err == nil:
					identity = Identity{UserID: claims.UserID, Email: claims.Email, Role: claims.Role}
				case !pkgAuth.IsExpired(err):
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "Invalid or expired access token"))
					return
				case refresh == "" || opts.Refresher == nil:
					if !required {
						serveAnonymous(w, r, next, opts.Cookies)
						return
					}
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "Invalid or expired access token"))
					return
				}
			}

			if identity.UserID == uuid.Nil {
				if opts.Refresher == nil {
					if !required {
						serveAnonymous(w, r, next, opts.Cookies)
						return
					}
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "Invalid or expired access token"))
					return
				}
				sess, err := opts.Refresher.Refresh(r.Context(), refresh)
				if err != nil {
					if pkgerrors.Is(err, pkgerrors.CodeDependency) {
						responses.WriteError(r.Context(), logg, w, err)
						return
					}
					if !required {
						serveAnonymous(w, r, next, opts.Cookies)
						return
					}
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "Invalid refresh token"))
					return
				}
				SetAuthCookies(w, opts.Cookies, sess.AccessToken, sess.RefreshToken)
				w.Header().Set(AccessTokenHeader, sess.AccessToken)
				identity = Identity{UserID: sess.User.ID, Email: sess.User.Email, Role: sess.User.Role}
			}

			ctx := WithIdentity(r.Context(), identity)
			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_id":    identity.UserID.String(),
					"actor_role": string(identity.Role),
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// serveAnonymous drops stale auth cookies and continues without an identity.
func serveAnonymous(w http.ResponseWriter, r *http.Request, next http.Handler, cookies CookieOptions) {
	ClearAuthCookies(w, cookies)
	next.ServeHTTP(w, r)
}
