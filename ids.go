package main

import "github.com/google/uuid"

// newID returns an opaque identifier for boards and cards. UUIDv7 keeps a
// millisecond timestamp prefix plus random bits, so IDs sort roughly by
// creation time and collisions are not a practical concern.
func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}
