package ledger

import "time"

// EditWindow is how long after creation a record remains mutable.
const EditWindow = 12 * time.Hour

// CanEdit reports whether a record created at createdAt may still be mutated
// at now. Exactly 12 hours is still editable; anything past it is locked.
// Deletion is never gated by this policy.
func CanEdit(createdAt, now time.Time) bool {
	return now.Sub(createdAt) <= EditWindow
}
