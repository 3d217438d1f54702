// Package sequence allocates the human-readable, period-scoped identifiers
// used for risks and assignments (RISK-2024-05-0007, ASGN-2024-05-0003).
// Numbering restarts each calendar month and is strictly increasing within
// a month.
//
// Next derives the candidate from a count, which is not atomic with the
// caller's insert: two concurrent transactions can compute the same number.
// Callers must run Next inside the same transaction as the insert and rely
// on the unique index over the identifier column, retrying the whole
// transaction when the commit fails with gorm.ErrDuplicatedKey.
package sequence

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"riskhub/internal/models"
)

// Kind selects which entity's identifier namespace to allocate from.
type Kind string

const (
	KindRisk       Kind = "RISK"
	KindAssignment Kind = "ASGN"
)

// Period formats the allocation period for a point in time as YYYY-MM.
func Period(at time.Time) string {
	return at.Format("2006-01")
}

// Next computes the next identifier for kind in the period containing at,
// using tx for the count so the read participates in the caller's
// transaction. The count is unscoped: soft-deleted rows keep their number,
// so identifiers are never reused.
func Next(tx *gorm.DB, kind Kind, at time.Time) (string, error) {
	prefix := fmt.Sprintf("%s-%s-", kind, Period(at))

	var count int64
	var err error
	switch kind {
	case KindRisk:
		err = tx.Unscoped().Model(&models.Risk{}).
			Where("risk_id LIKE ?", prefix+"%").Count(&count).Error
	case KindAssignment:
		err = tx.Unscoped().Model(&models.Assignment{}).
			Where("assignment_id LIKE ?", prefix+"%").Count(&count).Error
	default:
		return "", fmt.Errorf("unknown identifier kind %q", kind)
	}
	if err != nil {
		return "", fmt.Errorf("counting %s identifiers: %w", kind, err)
	}

	return fmt.Sprintf("%s%04d", prefix, count+1), nil
}
