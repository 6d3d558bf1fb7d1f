// Package apperr defines the error taxonomy shared by all services.
//
// Recoverable conditions (bad input, duplicate names) carry a message safe
// to show to the caller. Internal inconsistencies (a username that resolves
// to no user mid-request, store faults) are logged and surfaced as a
// generic failure so raw detail never leaks out.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindDuplicateUser
	KindDuplicateExpenseName
	KindUserNotFound
	KindBadImport
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindDuplicateUser:
		return "duplicate_user"
	case KindDuplicateExpenseName:
		return "duplicate_expense_name"
	case KindUserNotFound:
		return "user_not_found"
	case KindBadImport:
		return "bad_import"
	}
	return "internal"
}

// Error is a kind-tagged error. Two Errors match under errors.Is when
// their kinds are equal, so callers can branch on sentinel values.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return t.Kind == e.Kind
	}
	return false
}

// Message returns the caller-safe message. Internal and user-not-found
// errors always get the generic text regardless of what they wrap.
func (e *Error) Message() string {
	switch e.Kind {
	case KindValidation, KindDuplicateUser, KindDuplicateExpenseName:
		return e.Msg
	case KindBadImport:
		return "import failed, check your data"
	}
	return "something went wrong"
}

// Sentinels for errors.Is checks.
var (
	ErrValidation           = &Error{Kind: KindValidation}
	ErrDuplicateUser        = &Error{Kind: KindDuplicateUser}
	ErrDuplicateExpenseName = &Error{Kind: KindDuplicateExpenseName}
	ErrUserNotFound         = &Error{Kind: KindUserNotFound}
	ErrBadImport            = &Error{Kind: KindBadImport}
	ErrInternal             = &Error{Kind: KindInternal}
)

func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

func ValidationErr(err error) *Error {
	return &Error{Kind: KindValidation, Msg: err.Error(), Err: err}
}

func DuplicateUser(username string) *Error {
	return &Error{Kind: KindDuplicateUser, Msg: "username already exists"}
}

func DuplicateExpenseName(name string) *Error {
	return &Error{Kind: KindDuplicateExpenseName, Msg: fmt.Sprintf("expense %q already exists this month", name)}
}

func UserNotFound(username string) *Error {
	return &Error{Kind: KindUserNotFound, Msg: fmt.Sprintf("no user %q", username)}
}

func BadImport(msg string, err error) *Error {
	return &Error{Kind: KindBadImport, Msg: msg, Err: err}
}

func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Msg: msg, Err: err}
}

// KindOf extracts the kind of err, defaulting to KindInternal for
// untagged errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
