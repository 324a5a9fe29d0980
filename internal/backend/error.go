package backend

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	NetworkError    ErrorKind = "network"
	TimeoutError    ErrorKind = "timeout"
	ServerRejection ErrorKind = "rejection"
	ServerError     ErrorKind = "server"
	DecodeError     ErrorKind = "decode"
	RequestError    ErrorKind = "request"
)

// AppError is returned by every backend call. For ServerRejection Message is
// the server's own text and is meant to be shown to the user as is.
type AppError struct {
	Kind    ErrorKind
	Message string
	Status  int
	Err     error
}

func NewError(kind ErrorKind, message string, status int, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Status: status, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s - %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Retryable reports whether err is worth another attempt.
func Retryable(err error) bool {
	var ae *AppError
	if !errors.As(err, &ae) {
		return false
	}

	switch ae.Kind {
	case NetworkError, TimeoutError, ServerError:
		return true
	}
	return false
}

func KindOf(err error) (ErrorKind, bool) {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Kind, true
	}
	return "", false
}

func IsRejection(err error) bool {
	k, ok := KindOf(err)
	return ok && k == ServerRejection
}
