package store

import "errors"

var (
	// ErrNotFound is returned when a referenced row is absent at read
	// time.
	ErrNotFound = errors.New("record not found")

	// ErrZeroRowsAffected is returned when an update or delete matched
	// no rows. With owner-scoped filters this is indistinguishable from
	// a permission rejection, so callers should surface it as "not
	// found or not permitted".
	ErrZeroRowsAffected = errors.New("no rows affected")
)
