package messana

import (
	"errors"
	"fmt"
)

var (
	// ErrAuth is matched by errors caused by a rejected API key (HTTP 401).
	ErrAuth = errors.New("messana: unauthorized")

	// ErrAPI is matched by every non-auth failure: transport, status, decode and data errors.
	ErrAPI = errors.New("messana: api error")

	// ErrData is matched when a required structural field is missing or not numeric.
	ErrData = errors.New("messana: unexpected response data")
)

// Kind classifies a client failure.
type Kind int

const (
	KindAPI Kind = iota
	KindAuth
	KindData
)

func (k Kind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindData:
		return "data"
	default:
		return "api"
	}
}

// Error is returned by every Client method that fails.
type Error struct {
	Kind   Kind
	Method string
	Path   string
	Status int // 0 when no response was received
	Err    error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("messana %s %s %s", e.Kind, e.Method, e.Path)
	if e.Status != 0 {
		msg += fmt.Sprintf(": status %d", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets data errors satisfy ErrAPI as well, since both abort a refresh cycle.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrAuth:
		return e.Kind == KindAuth
	case ErrAPI:
		return e.Kind == KindAPI || e.Kind == KindData
	case ErrData:
		return e.Kind == KindData
	}
	return false
}

// KindOf reports the kind of a client error anywhere in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

func apiError(method, path string, status int, err error) *Error {
	return &Error{Kind: KindAPI, Method: method, Path: path, Status: status, Err: err}
}

func dataError(path string, err error) *Error {
	return &Error{Kind: KindData, Method: "GET", Path: path, Err: err}
}
