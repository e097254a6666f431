package yamltok

import (
	"errors"
	"fmt"

	"github.com/tokfmt/yamltok/internal/encoding"
)

// UnsupportedEncodingError reports a declared charset with no usable
// codec.
type UnsupportedEncodingError = encoding.UnsupportedError

// ErrInvalidUTF8 reports input that is not valid UTF-8 under the default
// encoding.
var ErrInvalidUTF8 = encoding.ErrInvalidUTF8

// A ReadError wraps a failure from the notation engine while producing
// tokens.
type ReadError struct {
	Err error
}

func (e *ReadError) Error() string { return "yamltok: read: " + e.Err.Error() }

func (e *ReadError) Unwrap() error { return e.Err }

// A DuplicateKeyError reports a repeated mapping key encountered while
// AllowDuplicateKeys is disabled.
type DuplicateKeyError struct {
	Key    string
	Line   int
	Column int
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("yamltok: duplicate mapping key %q at line %d, column %d", e.Key, e.Line, e.Column)
}

// A WriteStateError reports a token event that the writer's current state
// does not allow.
type WriteStateError struct {
	Op     string
	Reason string
}

func (e *WriteStateError) Error() string {
	return fmt.Sprintf("yamltok: %s: %s", e.Op, e.Reason)
}

var (
	errReaderClosed = errors.New("yamltok: reader is closed")
	errWriterClosed = errors.New("yamltok: writer is closed")
)
