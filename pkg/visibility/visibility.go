package visibility

import (
	"github.com/angelmondragon/sweetshop-backend/pkg/enums"
	"gorm.io/gorm"
)

// Filter carries the caller-supplied lifecycle filters from list and get queries.
type Filter struct {
	IsActive       *bool
	IncludeDeleted bool
}

// Predicate is the resolved set of lifecycle states a caller may see.
type Predicate struct {
	statuses []enums.LifecycleStatus
}

// Resolve builds the predicate for a caller. Admins get their filters verbatim,
// with deleted rows hidden unless includeDeleted or is_active=false asks for them.
// Every other role is narrowed to active rows whatever it requested.
func Resolve(role enums.Role, requested Filter) Predicate {
	if !role.IsAdmin() {
		return activeOnly()
	}
	if requested.IsActive != nil {
		if *requested.IsActive {
			return activeOnly()
		}
		return Predicate{statuses: []enums.LifecycleStatus{enums.LifecycleStatusDeleted}}
	}
	if requested.IncludeDeleted {
		return Predicate{statuses: []enums.LifecycleStatus{enums.LifecycleStatusActive, enums.LifecycleStatusDeleted}}
	}
	return activeOnly()
}

// ForLookup resolves the predicate for single-row reads, where admins see every
// row so they can inspect and reactivate deleted entries.
func ForLookup(role enums.Role) Predicate {
	return Resolve(role, Filter{IncludeDeleted: true})
}

func activeOnly() Predicate {
	return Predicate{statuses: []enums.LifecycleStatus{enums.LifecycleStatusActive}}
}

// Allows reports whether a row in the provided state is visible.
func (p Predicate) Allows(status enums.LifecycleStatus) bool {
	for _, s := range p.statuses {
		if s == status {
			return true
		}
	}
	return false
}

// Unrestricted reports whether the predicate admits every lifecycle state.
func (p Predicate) Unrestricted() bool {
	return p.Allows(enums.LifecycleStatusActive) && p.Allows(enums.LifecycleStatusDeleted)
}

// Statuses returns a copy of the visible lifecycle states.
func (p Predicate) Statuses() []enums.LifecycleStatus {
	return append([]enums.LifecycleStatus(nil), p.statuses...)
}

// Apply narrows query to the visible states of the status column. Column should be
// table-qualified when the query joins other lifecycle tables.
func (p Predicate) Apply(query *gorm.DB, column string) *gorm.DB {
	if p.Unrestricted() {
		return query
	}
	if len(p.statuses) == 1 {
		return query.Where(column+" = ?", p.statuses[0])
	}
	return query.Where(column+" IN ?", p.statuses)
}
