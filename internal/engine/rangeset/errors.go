package rangeset

import "errors"

// Errors raised by range set construction.
var (
	// ErrUnsorted is raised when ranges are added out of order.
	ErrUnsorted = errors.New("ranges must be added sorted by from position and start side")

	// ErrBuilderFinished is raised when a finished Builder is reused.
	ErrBuilderFinished = errors.New("builder already finished")
)
