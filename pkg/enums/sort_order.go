package enums

import (
	"fmt"
	"strings"
)

// SortOrder is the direction applied to list queries.
type SortOrder string

const (
	SortOrderAsc  SortOrder = "asc"
	SortOrderDesc SortOrder = "desc"
)

// String implements fmt.Stringer.
func (s SortOrder) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SortOrder.
func (s SortOrder) IsValid() bool {
	return s == SortOrderAsc || s == SortOrderDesc
}

// SQL returns the keyword used in ORDER BY clauses.
func (s SortOrder) SQL() string {
	if s == SortOrderAsc {
		return "ASC"
	}
	return "DESC"
}

// ParseSortOrder converts raw input into a SortOrder; matching is case-insensitive.
func ParseSortOrder(value string) (SortOrder, error) {
	switch SortOrder(strings.ToLower(strings.TrimSpace(value))) {
	case SortOrderAsc:
		return SortOrderAsc, nil
	case SortOrderDesc:
		return SortOrderDesc, nil
	}
	return "", fmt.Errorf("invalid sort order %q", value)
}
