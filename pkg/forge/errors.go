package forge

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a forge error so callers can branch on it.
type ErrorKind int

const (
	// KindAPI is a generic API failure.
	KindAPI ErrorKind = iota
	// KindAuth is an authentication or authorization failure.
	KindAuth
	// KindNotFound means the requested resource does not exist.
	KindNotFound
	// KindRateLimit means the forge is throttling requests.
	KindRateLimit
)

func (k ErrorKind) String() string {
	switch k {
	case KindAuth:
		return "authentication failed"
	case KindNotFound:
		return "not found"
	case KindRateLimit:
		return "rate limited"
	default:
		return "API error"
	}
}

// Error is a classified forge operation failure.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsAuth reports whether err is an authentication failure.
func IsAuth(err error) bool {
	return hasKind(err, KindAuth)
}

// IsNotFound reports whether err is a missing-resource failure.
func IsNotFound(err error) bool {
	return hasKind(err, KindNotFound)
}

// IsRateLimit reports whether err is a rate limit failure.
func IsRateLimit(err error) bool {
	return hasKind(err, KindRateLimit)
}

func hasKind(err error, kind ErrorKind) bool {
	var fe *Error
	return errors.As(err, &fe) && fe.Kind == kind
}
