package persistence

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind uint8

const (
	KindUnknown Kind = iota
	// Missing, expired or rejected credentials. The UI should ask for a login.
	KindAuth
	// The request was rejected for its content. The UI should show the field error.
	KindValidation
	// The backend could not be reached.
	KindNetwork
	KindNotFound
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindValidation:
		return "validation"
	case KindNetwork:
		return "network"
	case KindNotFound:
		return "not found"
	case KindServer:
		return "server"
	}
	return "unknown"
}

var (
	ErrAuthExpired        = errors.New("authentication expired")
	ErrValidation         = errors.New("validation failed")
	ErrNetworkUnreachable = errors.New("backend unreachable")
	ErrNotFound           = errors.New("not found")
	ErrServer             = errors.New("backend error")
)

/**
 * @brief The error returned by every Client call. errors.Is matches it
 * against the sentinel of its Kind and against the wrapped cause.
 */
type Error struct {
	Kind Kind
	// The client operation, e.g. "SaveScene".
	Op string
	// HTTP status, zero when the request never completed.
	Status int
	// Message reported by the backend or the local validator.
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s error (%d): %s", e.Op, e.Kind, e.Status, msg)
	}
	return fmt.Sprintf("%s: %s error: %s", e.Op, e.Kind, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	switch target {
	case ErrAuthExpired:
		return e.Kind == KindAuth
	case ErrValidation:
		return e.Kind == KindValidation
	case ErrNetworkUnreachable:
		return e.Kind == KindNetwork
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrServer:
		return e.Kind == KindServer
	}
	return false
}

func kindFromStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindAuth
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity || status == http.StatusConflict:
		return KindValidation
	case status == http.StatusNotFound:
		return KindNotFound
	case status >= 500:
		return KindServer
	}
	return KindUnknown
}
