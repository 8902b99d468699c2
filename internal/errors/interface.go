package errors

// ErrorCode identifies one error type. Domain packages declare their own
// codes in their errors.go; codes shared across packages live in codes.go.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Error represents a domain-specific error with context
type Error interface {
	error
	Code() ErrorCode
	WithMessage(msg string) Error
	WithData(data any) Error
	GetData() any
	Unwrap() error
}

// Factory defines methods for creating domain errors
type Factory interface {
	New(code ErrorCode) Error
	Wrap(code ErrorCode, err error) Error
	WithMessage(code ErrorCode, msg string) Error
	WithData(code ErrorCode, data any) Error
}
