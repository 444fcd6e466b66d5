package availability

import (
	"errors"
	"fmt"
)

var (
	ErrValidation = errors.New("invalid_request")
	ErrNotFound   = errors.New("not_found")
)

// ValidationError is a user-correctable problem with the request.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NotFoundError is returned for an unknown provider.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }
