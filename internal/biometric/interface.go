package biometric

import (
	"context"
	"time"
)

// Request describes one authentication attempt. It is constructed by the
// caller and used exactly once.
type Request struct {
	// Reason is shown to the user by the native prompt.
	Reason string
	// Timeout bounds how long the caller is willing to wait for an answer.
	Timeout time.Duration
}

// Result is the single outcome of an authentication attempt.
// Success implies ErrorCode 0 and an empty ErrorMessage.
type Result struct {
	Success      bool
	ErrorMessage string
	ErrorCode    int
}

// Authenticator runs a native authentication prompt under a caller-visible
// deadline.
type Authenticator interface {
	Authenticate(ctx context.Context, req Request) (Result, error)
}

// Outcome is the raw triple the native prompt resolves with.
type Outcome struct {
	Success      bool
	ErrorMessage string
	ErrorCode    int
}

// Prompt is the native authentication surface. Evaluate blocks until the
// user answers or the native layer gives up; it cannot be cancelled from
// this side, so callers that need a deadline must race it.
type Prompt interface {
	Evaluate(reason string) Outcome
}
