package application

import (
	"errors"

	"github.com/oksasatya/hello-birthday/pkg/validation"
)

// Reason classifies every way a request can fail.
type Reason string

const (
	InvalidUsername  Reason = "InvalidUsername"
	MissingField     Reason = Reason(validation.MissingField)
	UnexpectedFields Reason = Reason(validation.UnexpectedFields)
	WrongType        Reason = Reason(validation.WrongType)
	BadFormat        Reason = Reason(validation.BadFormat)
	NotPast          Reason = Reason(validation.NotPast)
	NotFound         Reason = "NotFound"
	StoreError       Reason = "StoreError"
)

// Client-facing messages. Unknown users and store failures get fixed
// messages so neither existence nor internals leak.
const (
	MsgInvalidUsername = "Invalid username. Only letters are allowed."
	MsgNotFound        = "Bad request"
	MsgInternal        = "An unexpected error occurred"
)

// Error is returned by Service for every rejected request.
type Error struct {
	Reason  Reason
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// ClientError reports whether the failure is caused by the request.
func (r Reason) ClientError() bool { return r != StoreError }

// ReasonOf extracts the Reason of err, StoreError for foreign errors.
func ReasonOf(err error) Reason {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Reason
	}
	return StoreError
}

// PublicMessage is the text safe to send to a client for err.
func PublicMessage(err error) string {
	var ae *Error
	if errors.As(err, &ae) && ae.Reason.ClientError() {
		return ae.Message
	}
	return MsgInternal
}
