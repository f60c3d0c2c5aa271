package qhull

import (
	"errors"
	"fmt"
)

// ErrDegenerateInput is matched by every DegenerateInputError with errors.Is.
var ErrDegenerateInput = errors.New("qhull: degenerate input")

// DegenerateReason tells why a point set cannot span a 3D hull.
type DegenerateReason int

const (
	TooFewPoints DegenerateReason = iota
	Coincident
	Colinear
	Coplanar
)

func (r DegenerateReason) String() string {
	switch r {
	case TooFewPoints:
		return "too few points"
	case Coincident:
		return "coincident"
	case Colinear:
		return "colinear"
	case Coplanar:
		return "coplanar"
	default:
		return fmt.Sprintf("DegenerateReason(%d)", int(r))
	}
}

// DegenerateInputError is returned when the input points do not span a
// volume. It is expected on user selections and callers should fall back to
// generating nothing for that selection.
type DegenerateInputError struct {
	Reason DegenerateReason
	Points int
}

func (e *DegenerateInputError) Error() string {
	return fmt.Sprintf("qhull: degenerate input (%s, %d points)", e.Reason, e.Points)
}

func (e *DegenerateInputError) Is(target error) bool {
	return target == ErrDegenerateInput
}

// InternalError reports a broken half-edge invariant. It always indicates a
// bug in horizon walking or face merging, never bad input.
type InternalError struct {
	Msg string
}

func (e *InternalError) Error() string {
	return "qhull: internal error: " + e.Msg
}

// internalErrorf aborts the running build. Build recovers it into a returned error.
func internalErrorf(format string, args ...any) {
	panic(&InternalError{Msg: fmt.Sprintf(format, args...)})
}
