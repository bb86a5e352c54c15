package errs

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// Kind classifies a failure so the HTTP layer can pick a status code
// without parsing error strings.
type Kind int

const (
	KindUnexpected Kind = iota
	KindNotFound
	KindInvalidArgument
	KindInvalidReference
	KindInvalidState
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalidArgument:
		return "invalid_argument"
	case KindInvalidReference:
		return "invalid_reference"
	case KindInvalidState:
		return "invalid_state"
	case KindConflict:
		return "conflict"
	default:
		return "unexpected"
	}
}

// Error is a typed failure with an optional wrapped cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NotFound reports an absent entity id or composite key.
func NotFound(format string, args ...interface{}) error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

// InvalidArgument reports a value outside its declared domain.
func InvalidArgument(format string, args ...interface{}) error {
	return &Error{Kind: KindInvalidArgument, Msg: fmt.Sprintf(format, args...)}
}

// InvalidReference reports a foreign key pointing at a nonexistent row.
func InvalidReference(format string, args ...interface{}) error {
	return &Error{Kind: KindInvalidReference, Msg: fmt.Sprintf(format, args...)}
}

// InvalidState reports an operation rejected by the entity's current status.
func InvalidState(format string, args ...interface{}) error {
	return &Error{Kind: KindInvalidState, Msg: fmt.Sprintf(format, args...)}
}

// Conflict reports a uniqueness or one-to-one violation.
func Conflict(format string, args ...interface{}) error {
	return &Error{Kind: KindConflict, Msg: fmt.Sprintf(format, args...)}
}

// Unexpected wraps a storage-layer failure.
func Unexpected(err error, format string, args ...interface{}) error {
	return &Error{Kind: KindUnexpected, Msg: fmt.Sprintf(format, args...), Err: err}
}

// KindOf extracts the kind from err; unrecognized errors are Unexpected.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnexpected
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Postgres SQLSTATE codes for constraint failures.
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

func sqlState(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

// FromUnique maps a unique-violation insert error to Conflict and
// everything else to Unexpected.
func FromUnique(err error, format string, args ...interface{}) error {
	if sqlState(err) == uniqueViolation {
		return Conflict(format, args...)
	}
	return Unexpected(err, format, args...)
}

// FromForeignKey maps a foreign-key violation to InvalidReference and
// everything else to Unexpected. Used on insert paths that leave some
// reference checks to the schema instead of an explicit EXISTS query.
func FromForeignKey(err error, format string, args ...interface{}) error {
	if sqlState(err) == foreignKeyViolation {
		return InvalidReference(format, args...)
	}
	return Unexpected(err, format, args...)
}
