package service

import "errors"

var (
	// ErrNotFound means the recipe id is not (or no longer) in the store.
	ErrNotFound = errors.New("recipe not found")

	// ErrPermissionDenied means a viewer attempted an owner-only mutation.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrUnauthenticated means the operation requires a signed-in identity.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrNotPublished means the operation is only valid for published recipes.
	ErrNotPublished = errors.New("recipe is not published")
)

// ValidationError is a recoverable form error. The message is user-facing and
// the caller's form state must be left unchanged.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
