package validators

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/angelmondragon/sweetshop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/sweetshop-backend/pkg/errors"
	"github.com/angelmondragon/sweetshop-backend/pkg/pagination"
	"github.com/angelmondragon/sweetshop-backend/pkg/visibility"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, queryError(key, "must be numeric")
	}
	if value < min || value > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter out of range").WithDetails(map[string]any{"field": key, "min": min, "max": max})
	}
	return value, nil
}

// ParseQueryBool accepts true/false (and 1/0). Absent values return nil.
func ParseQueryBool(r *http.Request, key string) (*bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, queryError(key, "must be true or false")
	}
	return &value, nil
}

// ParseQueryDecimal parses a non-negative decimal query parameter.
func ParseQueryDecimal(r *http.Request, key string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil || value.IsNegative() {
		return nil, queryError(key, "must be a non-negative number")
	}
	return &value, nil
}

// ParseQueryUUID parses an optional UUID query parameter.
func ParseQueryUUID(r *http.Request, key string) (*uuid.UUID, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	value, err := uuid.Parse(raw)
	if err != nil {
		return nil, queryError(key, "must be a valid UUID")
	}
	return &value, nil
}

// ParseQueryDate accepts RFC3339 timestamps or YYYY-MM-DD dates. When endOfDay is
// set a bare date resolves to the last instant of that day.
func ParseQueryDate(r *http.Request, key string, endOfDay bool) (*time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		ts = ts.UTC()
		return &ts, nil
	}
	day, err := time.ParseInLocation(dateLayout, raw, time.UTC)
	if err != nil {
		return nil, queryError(key, "must be an RFC3339 timestamp or YYYY-MM-DD date")
	}
	if endOfDay {
		day = day.Add(24*time.Hour - time.Nanosecond)
	}
	return &day, nil
}

// ParsePagination reads page, limit, sortBy and sortOrder.
func ParsePagination(r *http.Request, maxLimit int) (pagination.Params, error) {
	if maxLimit <= 0 {
		maxLimit = pagination.MaxLimit
	}
	page, err := ParseQueryInt(r, "page", pagination.DefaultPage, 1, 1<<30)
	if err != nil {
		return pagination.Params{}, err
	}
	limit, err := ParseQueryInt(r, "limit", 0, 1, maxLimit)
	if err != nil {
		return pagination.Params{}, err
	}
	params := pagination.Params{
		Page:   page,
		Limit:  limit,
		SortBy: strings.TrimSpace(r.URL.Query().Get("sortBy")),
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("sortOrder")); raw != "" {
		order, err := enums.ParseSortOrder(raw)
		if err != nil {
			return pagination.Params{}, queryError("sortOrder", "must be asc or desc")
		}
		params.SortOrder = order
	}
	return params, nil
}

// ParseVisibility reads is_active and includeDeleted. Whether they are honoured
// depends on the caller's role.
func ParseVisibility(r *http.Request) (visibility.Filter, error) {
	isActive, err := ParseQueryBool(r, "is_active")
	if err != nil {
		return visibility.Filter{}, err
	}
	includeDeleted, err := ParseQueryBool(r, "includeDeleted")
	if err != nil {
		return visibility.Filter{}, err
	}
	filter := visibility.Filter{IsActive: isActive}
	if includeDeleted != nil {
		filter.IncludeDeleted = *includeDeleted
	}
	return filter, nil
}

// ParseQueryString returns a trimmed query value capped at maxLen bytes.
func ParseQueryString(r *http.Request, key string, maxLen int) string {
	return SanitizeString(r.URL.Query().Get(key), maxLen)
}

// ParseUUIDParam reads a UUID route parameter.
func ParseUUIDParam(r *http.Request, key string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, key))
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid "+key).WithDetails(map[string]string{key: "must be a valid UUID"})
	}
	return id, nil
}

func queryError(key, msg string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, "invalid query parameter").WithDetails(map[string]string{key: msg})
}
