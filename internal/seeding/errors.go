package seeding

import (
	"errors"
)

// Kind classifies errors surfaced to callers of the service.
type Kind int

const (
	KindInternal Kind = iota
	KindBadRequest
	KindConflict
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "internal"
	}
}

// Messages returned to clients.
const (
	MsgAdminCreated       = "Admin Created Successfully"
	MsgInvalidAdminSecret = "Invalid admin secret"
	MsgServerError        = "Sorry a server error occured"
	MsgUserExists         = "A user already exist with the same email"
	MsgFetchUsersFailed   = "Error fetching users"
)

// Error is a client-facing error with a kind and a safe message. Err holds
// the underlying cause, if any, for logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Err: cause}
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the client-safe message for err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return MsgServerError
}
