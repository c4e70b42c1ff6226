package change

import "errors"

// Errors returned or raised by change operations.
var (
	// ErrOutOfRange indicates a change or position outside the document.
	ErrOutOfRange = errors.New("change out of range")

	// ErrLengthMismatch indicates change sets or documents of incompatible
	// lengths were combined.
	ErrLengthMismatch = errors.New("mismatched change set lengths")

	// ErrInvalidJSON indicates a malformed JSON representation.
	ErrInvalidJSON = errors.New("invalid JSON representation of changes")
)
