package ports

import "time"

// Clock supplies the current time. Injected so that lifecycle timestamps and
// snapshot retention are testable with a frozen clock.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a plain function to the Clock interface.
type ClockFunc func() time.Time

// Now calls the wrapped function.
func (f ClockFunc) Now() time.Time {
	return f()
}
