package posts

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidID means the id is not a valid ObjectID hex string.
	ErrInvalidID = errors.New("invalid id")
	// ErrNotFound means the id is well-formed but no document matches it.
	ErrNotFound = errors.New("not found")
	// ErrForbidden means the caller is not the post's author.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict means the store rejected a write as a duplicate.
	ErrConflict = errors.New("conflict")
	// ErrUnexpected wraps store failures outside this package's control.
	ErrUnexpected = errors.New("unexpected store error")
)

// ValidationError reports a field that failed validation before any store
// write. Matched with errors.As.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func validationErrorf(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// wrapUnexpected tags a collaborator failure as ErrUnexpected, keeping the
// cause for logs while letting handlers surface only a generic message.
// Errors already classified pass through unchanged.
func wrapUnexpected(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrConflict) || errors.Is(err, ErrInvalidID) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUnexpected, err)
}
