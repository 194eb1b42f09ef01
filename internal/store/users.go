package store

import (
	"context"
	"fmt"
	"time"
)

// TimezoneFor resolves a user's IANA zone; invalid or unknown names fall
// back to UTC rather than failing the request.
func (s *Store) TimezoneFor(ctx context.Context, userID int) (*time.Location, error) {
	var name string
	if err := s.db.GetContext(ctx, &name, `SELECT timezone FROM users WHERE id = $1`, userID); err != nil {
		return nil, fmt.Errorf("load timezone for user %d: %w", userID, err)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC, nil
	}
	return loc, nil
}
