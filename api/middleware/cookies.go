package middleware

import (
	"net/http"
	"time"
)

const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
	// AccessTokenHeader carries a freshly minted access token after a silent refresh.
	AccessTokenHeader = "X-Access-Token"
)

// CookieOptions controls how auth cookies are written.
type CookieOptions struct {
	Secure     bool
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func (o CookieOptions) sameSite() http.SameSite {
	if o.Secure {
		return http.SameSiteStrictMode
	}
	return http.SameSiteLaxMode
}

// SetAuthCookies writes the access cookie and, when refresh is not empty, the refresh cookie.
func SetAuthCookies(w http.ResponseWriter, opts CookieOptions, access, refresh string) {
	if access != "" {
		http.SetCookie(w, opts.cookie(AccessTokenCookie, access, opts.AccessTTL))
	}
	if refresh != "" {
		http.SetCookie(w, opts.cookie(RefreshTokenCookie, refresh, opts.RefreshTTL))
	}
}

// ClearAuthCookies expires both auth cookies.
func ClearAuthCookies(w http.ResponseWriter, opts CookieOptions) {
	for _, name := range []string{AccessTokenCookie, RefreshTokenCookie} {
		c := opts.cookie(name, "", 0)
		c.MaxAge = -1
		c.Expires = time.Unix(0, 0)
		http.SetCookie(w, c)
	}
}

func (o CookieOptions) cookie(name, value string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   o.Secure,
		SameSite: o.sameSite(),
		MaxAge:   int(ttl.Seconds()),
	}
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}
