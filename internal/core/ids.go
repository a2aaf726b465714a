package core

import "github.com/google/uuid"

// newID mints a fresh random ID for a chain or live event when the caller
// does not supply one.
func newID() string {
	return uuid.NewString()
}
