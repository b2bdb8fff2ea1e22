// Package errors defines all exported error sentinels for the shogun library.
//
// This is the single source of truth for error values. Both the top-level
// shogun package and any future subpackages import from here, ensuring
// errors.Is checks work across package boundaries.
package errors

import "errors"

// Configuration errors
var (
	ErrNonPositiveDimension  = errors.New("shogun: target dimension must be positive")
	ErrInvalidBufferSize     = errors.New("shogun: read-ahead buffer size must be positive")
	ErrUnknownHashAlgorithm  = errors.New("shogun: unknown hash algorithm")
	ErrDimensionMismatch     = errors.New("shogun: dense vector length does not match target dimension")
	ErrIncompatiblePipelines = errors.New("shogun: pipelines have incompatible hash configurations")
	ErrLabelCountMismatch    = errors.New("shogun: label count does not match vector count")
)

// Source errors
var (
	ErrNotSeekable     = errors.New("shogun: source does not support rewinding")
	ErrSourceClosed    = errors.New("shogun: source is closed")
	ErrMalformedRecord = errors.New("shogun: malformed record")
)

// Record file errors
var (
	ErrInvalidMagic        = errors.New("shogun: invalid magic number")
	ErrUnsupportedVersion  = errors.New("shogun: unsupported format version")
	ErrTruncatedFile       = errors.New("shogun: record file is truncated")
	ErrChecksumMismatch    = errors.New("shogun: file checksum verification failed")
	ErrElementKindMismatch = errors.New("shogun: record file element kind does not match requested type")
	ErrRecordCountMismatch = errors.New("shogun: record count in header does not match file contents")
	ErrWriterClosed        = errors.New("shogun: record writer is closed")
	ErrTooManyEntries      = errors.New("shogun: sparse vector exceeds maximum entry count")
)
