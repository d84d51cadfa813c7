package domain

import (
	"errors"
	"net/http"
)

type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindClientInput
	KindConfig
	KindMethod
	KindUpstream
	KindTimeout
)

const (
	MsgPromptTooShort   = "Please describe your vision in at least a few words."
	MsgMethodNotAllowed = "Method not allowed"
	MsgMissingToken     = "Server config error: missing REPLICATE_API_TOKEN"
)

var ErrMissingToken = errors.New("missing api token")

// Error is returned by every stage of a vision request. Message is what the
// caller sees; Err keeps the cause for logs and errors.Is.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindClientInput:
		return http.StatusBadRequest
	case KindMethod:
		return http.StatusMethodNotAllowed
	case KindUpstream:
		return http.StatusBadGateway
	case KindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func NewClientInputError(msg string) *Error {
	return &Error{Kind: KindClientInput, Message: msg}
}

func NewConfigError(msg string) *Error {
	return &Error{Kind: KindConfig, Message: msg}
}

func NewMethodError() *Error {
	return &Error{Kind: KindMethod, Message: MsgMethodNotAllowed}
}

func NewUpstreamError(msg string, err error) *Error {
	return &Error{Kind: KindUpstream, Message: msg, Err: err}
}

func NewTimeoutError(msg string) *Error {
	return &Error{Kind: KindTimeout, Message: msg}
}

func NewInternalError(err error) *Error {
	return &Error{Kind: KindInternal, Message: "Internal error: " + err.Error(), Err: err}
}

// AsError returns err as a *Error, wrapping anything unrecognised as internal.
func AsError(err error) *Error {
	var de *Error
	if errors.As(err, &de) {
		return de
	}
	return NewInternalError(err)
}
