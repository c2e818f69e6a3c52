package service

import (
	"errors"
	"fmt"

	"github.com/EgehanKilicarslan/blog/backend-go/internal/database/repository"
)

// ErrValidation is matched by every ValidationError.
var ErrValidation = errors.New("validation failed")

// ErrStorage is the repository storage sentinel, re-exported for handlers.
var ErrStorage = repository.ErrStorage

// ValidationError carries a message that is safe to show to the client.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrValidation, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func validationError(msg string) error {
	return &ValidationError{Message: msg}
}
