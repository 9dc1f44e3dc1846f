package validators

import (
	"net/http"
	"strings"
)

// BearerToken extracts the token from an Authorization header, or "" when the
// header is missing or uses another scheme.
func BearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(raw) < 7 || !strings.EqualFold(raw[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(raw[7:])
}
