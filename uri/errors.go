package uri

import (
	"github.com/ghettovoice/gouri/internal/errorutil"
	"github.com/ghettovoice/gouri/internal/grammar"
)

// Error is a sentinel error type of the package.
type Error = errorutil.Error

const (
	// ErrInvalidArgument is the base error of all contract violations.
	ErrInvalidArgument = errorutil.ErrInvalidArgument
	// ErrInvalidPort is returned for ports outside of [1, 65535].
	ErrInvalidPort Error = "invalid port"
	// ErrSegmentOutOfRange is returned for path segment indexes outside of [0, TotalSegments()-1].
	ErrSegmentOutOfRange Error = "segment index out of range"
	// ErrMalformedQuery is returned for query strings containing a fragment delimiter.
	ErrMalformedQuery Error = "malformed query"
	// ErrMalformedInput is returned when the input is not a URI reference.
	ErrMalformedInput = grammar.ErrMalformedInput
)

func newInvalidPortErr(port int) error {
	return errorutil.NewInvalidArgumentError(errorutil.NewWrapperError(ErrInvalidPort, "port %d is outside of [1, 65535]", port)) //errtrace:skip
}

func newSegmentOutOfRangeErr(n, total int) error {
	return errorutil.NewInvalidArgumentError(errorutil.NewWrapperError(ErrSegmentOutOfRange, "index %d, total segments %d", n, total)) //errtrace:skip
}

func newMalformedQueryErr(q string) error {
	return errorutil.NewInvalidArgumentError(errorutil.NewWrapperError(ErrMalformedQuery, "query %q contains fragment delimiter", q)) //errtrace:skip
}
