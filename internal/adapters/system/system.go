// Package system provides the wall clock and identifier generator.
package system

import (
	"time"

	"github.com/google/uuid"
)

// Clock implements secondary.Clock with the wall clock.
type Clock struct{}

// Now returns the current local time.
func (Clock) Now() time.Time { return time.Now() }

// UUIDGenerator implements secondary.IDGenerator with random UUIDs.
type UUIDGenerator struct{}

// NewID returns a new random UUID string.
func (UUIDGenerator) NewID() string { return uuid.NewString() }
