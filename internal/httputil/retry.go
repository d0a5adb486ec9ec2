// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across stages.
package httputil

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultCooldown is the wait between the first failed attempt and the
// single retry. The archive commonly answers with a server error under load
// and recovers within a minute. Tests override this to avoid real sleeps.
var DefaultCooldown = 1 * time.Minute

// State is a step of the two-attempt retry machine:
// Attempt1 → Cooldown → Attempt2 → {Success, Failed}.
type State int

const (
	StateAttempt1 State = iota
	StateCooldown
	StateAttempt2
	StateSuccess
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateAttempt1:
		return "attempt1"
	case StateCooldown:
		return "cooldown"
	case StateAttempt2:
		return "attempt2"
	case StateSuccess:
		return "success"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ExhaustedError is returned when the operation did not succeed. Attempts
// is 1 when the first failure was not transient, 2 when the retry also failed.
type ExhaustedError struct {
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("failed after %d attempt(s): %v", e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error { return e.Err }

// RetryOnce runs an operation at most twice. A transient failure of the
// first attempt moves to a cooldown wait and then one more attempt; any
// other failure ends the machine immediately.
type RetryOnce struct {
	// Cooldown is the wait before the retry. Zero uses DefaultCooldown.
	Cooldown time.Duration

	// IsTransient classifies errors worth retrying. Nil uses IsTransient.
	IsTransient func(error) bool

	// OnTransition, when set, observes every state change with the error
	// that caused it (nil on success paths).
	OnTransition func(from, to State, err error)
}

// Do executes op under the retry machine. If ctx is cancelled during the
// cooldown the machine fails with ctx.Err().
func (r RetryOnce) Do(ctx context.Context, op func(context.Context) error) error {
	cooldown := r.Cooldown
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	transient := r.IsTransient
	if transient == nil {
		transient = IsTransient
	}

	var (
		state    = StateAttempt1
		attempts int
		lastErr  error
	)
	move := func(to State, err error) {
		if r.OnTransition != nil {
			r.OnTransition(state, to, err)
		}
		state = to
	}

	for {
		switch state {
		case StateAttempt1:
			attempts++
			lastErr = op(ctx)
			switch {
			case lastErr == nil:
				move(StateSuccess, nil)
			case transient(lastErr):
				move(StateCooldown, lastErr)
			default:
				move(StateFailed, lastErr)
			}

		case StateCooldown:
			select {
			case <-ctx.Done():
				lastErr = errors.Join(lastErr, ctx.Err())
				move(StateFailed, ctx.Err())
			case <-time.After(cooldown):
				move(StateAttempt2, nil)
			}

		case StateAttempt2:
			attempts++
			lastErr = op(ctx)
			if lastErr == nil {
				move(StateSuccess, nil)
			} else {
				move(StateFailed, lastErr)
			}

		case StateSuccess:
			return nil

		case StateFailed:
			return &ExhaustedError{Attempts: attempts, Err: lastErr}
		}
	}
}
