package clock

import "time"

// Clock provides time to the application.
// Identifier generators, session expiry and record timestamps all read it,
// so tests can pin "today" with a controllable implementation.
type Clock interface {
	Now() time.Time
}
