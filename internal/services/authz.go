package services

// Authorize is the single access rule for per-user data: the caller must be
// the owner. Category reads are exempt upstream (shared reference data).
// A denial yields zero rows, never filtered rows.
func Authorize(callerID, ownerID int) error {
	if callerID != ownerID {
		return ErrForbidden
	}
	return nil
}
