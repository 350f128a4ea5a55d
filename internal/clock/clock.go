// Package clock supplies the current time behind an interface so services
// stamping order history stay deterministic under test.
package clock

import (
	"time"

	"go.uber.org/fx"
)

// Clock is the injectable time source.
type Clock interface {
	Now() time.Time
}

// Module provides the system clock to the Fx graph.
var Module = fx.Provide(NewSystem)

// System reads the wall clock in UTC.
type System struct{}

// NewSystem returns the production clock.
func NewSystem() Clock {
	return System{}
}

// Now implements Clock.
func (System) Now() time.Time {
	return time.Now().UTC()
}

// Fixed always returns the same instant. Test helper.
type Fixed struct {
	At time.Time
}

// Now implements Clock.
func (f Fixed) Now() time.Time {
	return f.At
}
