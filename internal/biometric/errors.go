package biometric

import "codeberg.org/vintr/updatemon/internal/errors"

const (
	// Precondition Errors
	ErrEmptyReason    = errors.ErrorCode("biometric_empty_reason")
	ErrInvalidTimeout = errors.ErrorCode("biometric_invalid_timeout")
	ErrNoPrompt       = errors.ErrorCode("biometric_no_prompt")

	// Operation Errors
	ErrPromptCancelled = errors.ErrorCode("biometric_prompt_cancelled")
)
