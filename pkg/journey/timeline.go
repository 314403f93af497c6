package journey

import (
	"time"

	"github.com/google/uuid"
)

// Clock supplies the current UTC time.
type Clock interface {
	Now() time.Time
}

// IDGenerator supplies globally unique opaque identifiers.
type IDGenerator interface {
	NewID() string
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns the current time in UTC without a monotonic reading.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// ClockFunc adapts a plain function to the Clock interface.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time {
	return f()
}

// UUIDGenerator produces random (version 4) UUIDs in their canonical form.
type UUIDGenerator struct{}

// NewID returns a new random UUID string.
func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// SameYear reports whether a and b fall in the same calendar year.
// All calendar comparisons are made in UTC.
func SameYear(a, b time.Time) bool {
	return a.UTC().Year() == b.UTC().Year()
}

// SameMonth reports whether a and b fall in the same calendar month.
func SameMonth(a, b time.Time) bool {
	ay, am, _ := a.UTC().Date()
	by, bm, _ := b.UTC().Date()
	return ay == by && am == bm
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// SameHour reports whether a and b fall in the same hour of the same day.
func SameHour(a, b time.Time) bool {
	return SameDay(a, b) && a.UTC().Hour() == b.UTC().Hour()
}
