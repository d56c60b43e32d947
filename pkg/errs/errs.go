// Package errs defines the typed error kinds the knowledge engine uses to
// let callers branch on failure category without string matching, following
// the named-struct-error style used throughout the teacher codebase (see
// e.g. its environment package's RequiredEnvError).
package errs

import "fmt"

// Kind classifies an error the way callers need to branch on it.
type Kind string

const (
	KindParse      Kind = "parse"
	KindModel      Kind = "model"
	KindStorage    Kind = "storage"
	KindNotFound   Kind = "not_found"
	KindValidation Kind = "validation"
	KindCancelled  Kind = "cancelled"
)

// Error is the machine-readable error type every public operation returns
// on failure. Field carries the offending field or id, when applicable.
type Error struct {
	Kind    Kind
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field=%s)", e.Kind, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func newErr(kind Kind, field, format string, args ...any) *Error {
	return &Error{Kind: kind, Field: field, Message: fmt.Sprintf(format, args...)}
}

func Parse(field, format string, args ...any) *Error {
	return newErr(KindParse, field, format, args...)
}

func ParseWrap(err error, format string, args ...any) *Error {
	e := newErr(KindParse, "", format, args...)
	e.Err = err
	return e
}

func Model(format string, args ...any) *Error {
	return newErr(KindModel, "", format, args...)
}

func ModelWrap(err error, format string, args ...any) *Error {
	e := newErr(KindModel, "", format, args...)
	e.Err = err
	return e
}

func Storage(format string, args ...any) *Error {
	return newErr(KindStorage, "", format, args...)
}

func StorageWrap(err error, format string, args ...any) *Error {
	e := newErr(KindStorage, "", format, args...)
	e.Err = err
	return e
}

func NotFound(field, format string, args ...any) *Error {
	return newErr(KindNotFound, field, format, args...)
}

func Validation(field, format string, args ...any) *Error {
	return newErr(KindValidation, field, format, args...)
}

// Cancelled wraps ctx.Err() (context.Canceled or context.DeadlineExceeded)
// so callers can still tell a cancellation apart from other errors.
func Cancelled(err error) *Error {
	return &Error{Kind: KindCancelled, Message: "operation cancelled", Err: err}
}

// Is reports whether err carries the given Kind, unwrapping through any
// wrapping chain.
func Is(err error, kind Kind) bool {
	var e *Error
	for err != nil {
		if ae, ok := err.(*Error); ok {
			e = ae
			break
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return e != nil && e.Kind == kind
}
