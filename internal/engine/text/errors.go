package text

import "errors"

// Errors returned or raised by text operations.
var (
	// ErrOutOfRange indicates a position or line number outside the document.
	ErrOutOfRange = errors.New("position out of range")

	// ErrNoLines is raised when a Text is built from zero lines.
	ErrNoLines = errors.New("a document must have at least one line")

	// ErrInvalidJSON indicates a malformed JSON line array.
	ErrInvalidJSON = errors.New("invalid JSON representation of text")
)
