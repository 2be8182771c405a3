package auth

import "time"

// SetClock replaces the time source so tests can issue already-expired tokens.
func (t *Tokens) SetClock(now func() time.Time) { t.now = now }
