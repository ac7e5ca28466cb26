package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/nutrilog/backend/internal/nutrition"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrProductNotFound     = fmt.Errorf("product %w", ErrNotFound)
	ErrRecipeNotFound      = fmt.Errorf("recipe %w", ErrNotFound)
	ErrConsumptionNotFound = fmt.Errorf("consumption %w", ErrNotFound)
	ErrEntryNotFound       = fmt.Errorf("entry %w", ErrNotFound)
	ErrUserNotFound        = fmt.Errorf("user %w", ErrNotFound)

	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidRange       = fmt.Errorf("%w: from must not be after to", ErrInvalidInput)
	ErrRangeTooLarge      = fmt.Errorf("%w: date range is too large", ErrInvalidInput)
	ErrConflict           = errors.New("conflict")
	ErrEmailTaken         = fmt.Errorf("%w: email already registered", ErrConflict)
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrExportsDisabled    = errors.New("exports are not configured")
)

// ValidationError reports a rejected request field. It matches ErrInvalidInput.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// NotAccessibleError reports a referenced product or recipe that does not
// exist or belongs to another user. It matches ErrNotFound.
type NotAccessibleError struct {
	Kind string
	ID   uuid.UUID
}

func (e *NotAccessibleError) Error() string {
	return fmt.Sprintf("%s %s is not accessible", e.Kind, e.ID)
}

func (e *NotAccessibleError) Is(target error) bool {
	return target == ErrNotFound
}

// notFound maps gorm.ErrRecordNotFound to sentinel and wraps anything else.
func notFound(err error, sentinel error, action string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}

// resolutionError converts engine errors into service errors.
func resolutionError(err error) error {
	var cycle *nutrition.CycleError
	if errors.As(err, &cycle) {
		return &ValidationError{Field: "ingredients", Message: cycle.Error()}
	}
	var missing *nutrition.MissingReferenceError
	if errors.As(err, &missing) {
		return &NotAccessibleError{Kind: missing.Kind.String(), ID: missing.ID}
	}
	return err
}
