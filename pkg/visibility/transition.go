package visibility

import (
	"time"

	"github.com/angelmondragon/sweetshop-backend/pkg/enums"
	"gorm.io/gorm"
)

// Transition moves one row of model from the opposite lifecycle state into to, writing
// status and deleted_at in the same statement. It reports whether a row moved, so a
// second soft-delete of the same id is a miss rather than a double write.
func Transition(tx *gorm.DB, model any, id any, to enums.LifecycleStatus, now time.Time) (bool, error) {
	from := enums.LifecycleStatusDeleted
	updates := map[string]any{
		"status":     to,
		"deleted_at": nil,
		"updated_at": now,
	}
	if to == enums.LifecycleStatusDeleted {
		from = enums.LifecycleStatusActive
		updates["deleted_at"] = now
	}
	res := tx.Model(model).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
