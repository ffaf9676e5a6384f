package brain

import "errors"

var (
	// ErrInvalidArgument is returned when a public operation is called with arguments violating its preconditions.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrIndexOutOfRange is returned for cluster indexes outside of [0,K).
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrInternal signals a broken internal invariant.
	// There is no safe way to continue with the result of an operation that returns it.
	ErrInternal = errors.New("fatal internal error")
)
