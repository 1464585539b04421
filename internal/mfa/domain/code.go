package domain

import (
	"crypto/subtle"
	"time"
)

// VerificationCode is one issued SMS verification code (stored in verification_codes).
// Only the hash of the code is persisted.
type VerificationCode struct {
	ID         string
	Phone      string // international form
	CodeHash   string
	Attempts   int
	Consumed   bool
	Superseded bool
	CreatedAt  time.Time
	ExpiresAt  time.Time
}

// State is the lifecycle state of a verification code at a point in time.
type State string

const (
	StateActive     State = "active"
	StateConsumed   State = "consumed"
	StateSuperseded State = "superseded"
	StateExpired    State = "expired"
	StateLocked     State = "locked"
)

// State returns the state of c at now for the given attempt cap.
func (c *VerificationCode) State(now time.Time, maxAttempts int) State {
	switch {
	case c.Superseded:
		return StateSuperseded
	case c.Consumed:
		return StateConsumed
	case !now.Before(c.ExpiresAt):
		return StateExpired
	case c.Attempts >= maxAttempts:
		return StateLocked
	default:
		return StateActive
	}
}

// Live reports whether c can still receive attempts: not consumed, not superseded and not expired.
// A locked code is still live so that further attempts report the lock.
func (c *VerificationCode) Live(now time.Time) bool {
	return !c.Superseded && !c.Consumed && now.Before(c.ExpiresAt)
}

// AttemptResult is the outcome of applying one verification attempt.
type AttemptResult int

const (
	AttemptNoActiveCode AttemptResult = iota
	AttemptLocked
	AttemptMismatch
	AttemptMatched
)

func (r AttemptResult) String() string {
	switch r {
	case AttemptLocked:
		return "locked"
	case AttemptMismatch:
		return "mismatch"
	case AttemptMatched:
		return "matched"
	default:
		return "no_active_code"
	}
}

// Apply applies one attempt with codeHash to c and mutates it accordingly.
// A nil or non-live code yields AttemptNoActiveCode; a code at the attempt cap
// yields AttemptLocked without comparing; a mismatch increments Attempts; a
// match marks the code consumed.
func Apply(c *VerificationCode, codeHash string, maxAttempts int, now time.Time) AttemptResult {
	if c == nil || !c.Live(now) {
		return AttemptNoActiveCode
	}
	if c.Attempts >= maxAttempts {
		return AttemptLocked
	}
	if subtle.ConstantTimeCompare([]byte(codeHash), []byte(c.CodeHash)) != 1 {
		c.Attempts++
		return AttemptMismatch
	}
	c.Consumed = true
	return AttemptMatched
}
