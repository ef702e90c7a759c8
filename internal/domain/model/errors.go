package model

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedPredicateKind  = errors.New("unsupported predicate kind")
	ErrConflictingDirectiveShape = errors.New("conflicting directive shape")
	ErrMissingRequiredValue      = errors.New("missing required value")
	ErrInvalidValue              = errors.New("invalid value")
	ErrInvalidDirective          = errors.New("invalid directive")
	ErrUnknownDefinition         = errors.New("unknown specification definition")
	ErrUnknownAttribute          = errors.New("unknown attribute")
	ErrDatabaseQuery             = errors.New("database query error")
)

// ResolutionError tags a resolution failure with the parameter and the
// directive that caused it.
type ResolutionError struct {
	Parameter string
	Directive string
	Err       error
}

func (e *ResolutionError) Error() string {
	if e.Directive == "" {
		return fmt.Sprintf("resolving parameter %q: %v", e.Parameter, e.Err)
	}

	return fmt.Sprintf("resolving parameter %q at %s: %v", e.Parameter, e.Directive, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// ClientError reports whether the failure maps to a bad request.
func (e *ResolutionError) ClientError() bool { return IsClientError(e.Err) }

// IsClientError reports whether err was caused by the request rather than
// by the server configuration.
func IsClientError(err error) bool {
	return errors.Is(err, ErrMissingRequiredValue) || errors.Is(err, ErrInvalidValue)
}
