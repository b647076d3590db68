// Package uuid generates the time-ordered UUIDv7 identifiers used as
// primary keys across all persisted records.
package uuid

import (
	googleuuid "github.com/google/uuid"
)

// New returns a new UUIDv7 string. V7 identifiers sort by creation time,
// which keeps btree primary key indexes append-mostly.
func New() string {
	id, err := googleuuid.NewV7()
	if err != nil {
		// NewV7 only fails when the source of randomness does; a random
		// V4 still satisfies uniqueness.
		return googleuuid.New().String()
	}
	return id.String()
}

// IsValid reports whether s parses as a UUID.
func IsValid(s string) bool {
	_, err := googleuuid.Parse(s)
	return err == nil
}
