package enums

import "fmt"

// LifecycleStatus is the single soft-delete state column shared by users,
// categories and sweets.
type LifecycleStatus string

const (
	LifecycleStatusActive  LifecycleStatus = "active"
	LifecycleStatusDeleted LifecycleStatus = "deleted"
)

var validLifecycleStatuses = []LifecycleStatus{
	LifecycleStatusActive,
	LifecycleStatusDeleted,
}

// String implements fmt.Stringer.
func (s LifecycleStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known LifecycleStatus.
func (s LifecycleStatus) IsValid() bool {
	for _, candidate := range validLifecycleStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseLifecycleStatus converts raw input into a LifecycleStatus.
func ParseLifecycleStatus(value string) (LifecycleStatus, error) {
	for _, candidate := range validLifecycleStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid lifecycle status %q", value)
}
