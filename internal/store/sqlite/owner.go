package sqlite

import (
	"github.com/johnyfernandes/Shlf-Backend/internal/identity"
	"github.com/johnyfernandes/Shlf-Backend/internal/store"
)

// ownerClause returns the WHERE fragment that scopes book rows to the given
// owner, with the column prefix (e.g. "b.") applied. Device scoping excludes
// claimed rows: once a user claims a device's books, the device no longer
// matches them. An unidentified owner cannot be scoped at all.
func ownerClause(owner identity.Owner, prefix string) (string, []any, error) {
	if userID, ok := owner.UserID(); ok {
		return prefix + "user_id = ?", []any{userID}, nil
	}
	if deviceID, ok := owner.DeviceID(); ok {
		return prefix + "device_id = ? AND " + prefix + "user_id IS NULL", []any{deviceID}, nil
	}
	return "", nil, store.ErrUnauthorized.WithMessage("Authentication required")
}
