package pagination

import (
	"fmt"
	"sort"
	"strings"

	"github.com/angelmondragon/sweetshop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/sweetshop-backend/pkg/errors"
	"gorm.io/gorm"
)

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 20
	// MaxLimit caps how many rows any page query can request.
	MaxLimit = 100
	// DefaultPage is the first page index.
	DefaultPage = 1
)

// Params holds offset pagination and ordering inputs from controllers.
type Params struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder enums.SortOrder
}

// Meta describes the page returned alongside the items.
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// Page is the paginated payload placed in the response envelope.
type Page[T any] struct {
	Items []T `json:"items"`
	Meta  Meta `json:"meta"`
}

// NormalizeLimit enforces the default and maximum limits.
func NormalizeLimit(limit, defaultLimit, maxLimit int) int {
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	if maxLimit <= 0 {
		maxLimit = MaxLimit
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

// Normalized returns params with page and limit clamped into range.
func (p Params) Normalized(defaultLimit, maxLimit int) Params {
	if p.Page < DefaultPage {
		p.Page = DefaultPage
	}
	p.Limit = NormalizeLimit(p.Limit, defaultLimit, maxLimit)
	return p
}

// Offset returns the row offset for the page.
func (p Params) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// NewMeta computes totalPages as ceil(total/limit).
func NewMeta(p Params, total int64) Meta {
	totalPages := 0
	if p.Limit > 0 {
		totalPages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}
	return Meta{
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: totalPages,
	}
}

// NewPage wraps items with their meta, never returning a nil slice.
func NewPage[T any](items []T, p Params, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Meta: NewMeta(p, total)}
}

// MapPage converts page items while keeping the meta.
func MapPage[S, T any](src Page[S], fn func(S) T) Page[T] {
	out := make([]T, 0, len(src.Items))
	for _, item := range src.Items {
		out = append(out, fn(item))
	}
	return Page[T]{Items: out, Meta: src.Meta}
}

// SortSpec whitelists the sortBy keys a resource accepts, mapped to columns.
type SortSpec struct {
	Columns      map[string]string
	DefaultKey   string
	DefaultOrder enums.SortOrder
}

// Keys returns the accepted sortBy values.
func (s SortSpec) Keys() []string {
	keys := make([]string, 0, len(s.Columns))
	for k := range s.Columns {
		keys = append(keys, k)
	}
	return keys
}

// Validate reports whether the key is accepted. Empty keys fall back to the default.
func (s SortSpec) Validate(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil
	}
	if _, ok := s.Columns[key]; !ok {
		return fmt.Errorf("unsupported sortBy %q", key)
	}
	return nil
}

// Check validates the sort key of p as a typed validation error for API callers.
func (s SortSpec) Check(p Params) error {
	if err := s.Validate(p.SortBy); err != nil {
		keys := s.Keys()
		sort.Strings(keys)
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid sortBy").
			WithDetails(map[string]string{"sortBy": "must be one of " + strings.Join(keys, ", ")})
	}
	return nil
}

// OrderClause builds the ORDER BY expression, with id as a stable tie-breaker.
func (s SortSpec) OrderClause(p Params, idColumn string) string {
	key := strings.TrimSpace(p.SortBy)
	column, ok := s.Columns[key]
	if !ok {
		column = s.Columns[s.DefaultKey]
	}
	order := p.SortOrder
	if !order.IsValid() {
		order = s.DefaultOrder
	}
	if !order.IsValid() {
		order = enums.SortOrderDesc
	}
	clause := column + " " + order.SQL()
	if idColumn != "" && column != idColumn {
		clause += ", " + idColumn + " " + order.SQL()
	}
	return clause
}

// Apply runs a count over query and then fetches the requested page into dest.
// Scopes only affect the fetch, so preloads stay out of the count.
func Apply(query *gorm.DB, p Params, spec SortSpec, idColumn string, dest any, scopes ...func(*gorm.DB) *gorm.DB) (int64, error) {
	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, nil
	}
	err := query.
		Scopes(scopes...).
		Order(spec.OrderClause(p, idColumn)).
		Limit(p.Limit).
		Offset(p.Offset()).
		Find(dest).
		Error
	return total, err
}
