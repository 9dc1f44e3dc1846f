package repo

import "strings"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern lower-cases v and wraps it for a substring LIKE, escaping the
// wildcard characters so they match literally.
func ContainsPattern(v string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(v))) + "%"
}

// LikeLower is the case-insensitive LIKE condition on column to pair with ContainsPattern.
func LikeLower(column string) string {
	return "LOWER(" + column + `) LIKE ? ESCAPE '\'`
}
