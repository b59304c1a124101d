// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// ErrNotFound covers both a genuinely missing record and a record owned
	// by another user. Callers cannot distinguish the two cases.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateResource signals a uniqueness invariant violation, such as
	// a second budget for the same category and period.
	ErrDuplicateResource = errors.New("duplicate resource")

	// ErrValidation signals malformed input rejected before any storage work.
	ErrValidation = errors.New("validation failed")
)

// IsNotFound reports whether err is (or wraps) ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicate reports whether err is (or wraps) ErrDuplicateResource.
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicateResource)
}

// IsValidation reports whether err is (or wraps) ErrValidation.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// NotFoundf wraps ErrNotFound with a formatted message.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrNotFound)
}

// Duplicatef wraps ErrDuplicateResource with a formatted message.
func Duplicatef(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrDuplicateResource)
}

// Validationf wraps ErrValidation with a formatted message.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrValidation)
}
