package biometric

import (
	"context"
	"time"

	"codeberg.org/vintr/updatemon/internal/errors"
	"codeberg.org/vintr/updatemon/internal/logger"
)

const (
	// TimeoutCode is the error code reported when the prompt does not answer
	// before the request deadline. The native layer never produces it: Apple's
	// LAError codes are small negative integers well above this value.
	TimeoutCode = -1000

	timeoutMessage = "authentication timed out"
)

type authenticator struct {
	prompt Prompt
}

// New returns an Authenticator backed by the given native prompt.
func New(prompt Prompt) (Authenticator, error) {
	errFactory := errors.New()

	if prompt == nil {
		return nil, errFactory.New(ErrNoPrompt)
	}

	return &authenticator{prompt: prompt}, nil
}

// Authenticate issues the native prompt and returns its outcome, or the
// timeout result if the prompt has not answered by req.Timeout. The prompt
// itself cannot be cancelled; on timeout it is left to resolve in the
// background and its eventual outcome is discarded.
func (a *authenticator) Authenticate(ctx context.Context, req Request) (Result, error) {
	errFactory := errors.New()

	if req.Reason == "" {
		return Result{}, errFactory.New(ErrEmptyReason)
	}
	if req.Timeout <= 0 {
		return Result{}, errFactory.WithData(ErrInvalidTimeout, req.Timeout)
	}

	outcomes := make(chan Outcome, 1)
	go func() {
		outcomes <- a.prompt.Evaluate(req.Reason)
	}()

	timer := time.NewTimer(req.Timeout)
	defer timer.Stop()

	select {
	case outcome := <-outcomes:
		return resultFrom(outcome), nil
	case <-timer.C:
		abandon(outcomes, req.Reason)
		return Result{Success: false, ErrorMessage: timeoutMessage, ErrorCode: TimeoutCode}, nil
	case <-ctx.Done():
		abandon(outcomes, req.Reason)
		return Result{}, errFactory.Wrap(ErrPromptCancelled, ctx.Err())
	}
}

// resultFrom mirrors the native triple, normalizing the success invariant:
// a successful outcome carries no diagnostic.
func resultFrom(outcome Outcome) Result {
	if outcome.Success {
		return Result{Success: true}
	}

	return Result{
		Success:      false,
		ErrorMessage: outcome.ErrorMessage,
		ErrorCode:    outcome.ErrorCode,
	}
}

// abandon drains the detached prompt goroutine. The native call keeps
// running until it resolves on its own; its outcome is logged and dropped.
func abandon(outcomes <-chan Outcome, reason string) {
	go func() {
		outcome := <-outcomes
		logger.Debug().
			Str("reason", reason).
			Bool("success", outcome.Success).
			Int("error_code", outcome.ErrorCode).
			Msg("Discarded late prompt outcome")
	}()
}
