package godeck

import "errors"

// Sentinel errors returned by godeck operations. Callers match them with
// errors.Is; most call sites wrap them with additional context.
var (
	// ErrIndexOutOfRange is returned when a collection index is outside
	// the half-open range [0, Len()).
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrInvalidDimension is returned when a size that must be a positive
	// whole number of EMU is zero or negative.
	ErrInvalidDimension = errors.New("dimension must be a positive integer")

	// ErrInvalidArgument is returned when an enumerated setter receives a
	// value outside its token set.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnsupportedFormat is returned when a filename extension has no
	// image content type registered for it.
	ErrUnsupportedFormat = errors.New("unsupported image format")

	// ErrUnrecognizedImage is returned when sniffing a byte stream cannot
	// identify a supported image format.
	ErrUnrecognizedImage = errors.New("unrecognized image stream")
)
