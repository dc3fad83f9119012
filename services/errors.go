package services

import (
	"errors"
	"fmt"
)

// Engine error taxonomy. Handlers map these onto HTTP statuses; the engine
// itself never touches the transport. Wrap with a detail message via the
// constructors below and test with errors.Is.
var (
	ErrValidation       = errors.New("validation error")
	ErrPermissionDenied = errors.New("permission denied")
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrInvalidState     = errors.New("invalid state")
	ErrUnavailable      = errors.New("unavailable")
)

// Error carries a caller-facing detail message alongside one of the
// sentinel kinds above.
type Error struct {
	Kind   error
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Detail)
}

func (e *Error) Unwrap() error { return e.Kind }

func validationError(detail string) error {
	return &Error{Kind: ErrValidation, Detail: detail}
}

func permissionDenied(detail string) error {
	return &Error{Kind: ErrPermissionDenied, Detail: detail}
}

func notFound(detail string) error {
	return &Error{Kind: ErrNotFound, Detail: detail}
}

func conflict(detail string) error {
	return &Error{Kind: ErrConflict, Detail: detail}
}

func invalidState(detail string) error {
	return &Error{Kind: ErrInvalidState, Detail: detail}
}

func unavailable(detail string) error {
	return &Error{Kind: ErrUnavailable, Detail: detail}
}

// Detail extracts the caller-facing message from an engine error, falling
// back to the bare error text.
func Detail(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Detail != "" {
		return e.Detail
	}
	return err.Error()
}
