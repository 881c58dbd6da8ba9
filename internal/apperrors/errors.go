// Package apperrors defines the error kinds the domain layer returns.
// Callers branch on these with errors.Is / errors.As instead of matching
// message strings or using panics for control flow.
package apperrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for non-validation failures.
var (
	// ErrNotFound means a referenced recipe, user or relation row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateRelation means a favorite/cart/subscribe pair already exists.
	ErrDuplicateRelation = errors.New("relation already exists")
	// ErrSelfReference means a user tried to subscribe to themselves.
	ErrSelfReference = errors.New("cannot subscribe to yourself")
	// ErrPermissionDenied means the requester is not the owner of the resource.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrInvalidCredentials means login or password check failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationCode identifies which authoring rule a payload violated.
type ValidationCode string

const (
	MissingTags           ValidationCode = "missing_tags"
	DuplicateTags         ValidationCode = "duplicate_tags"
	MissingIngredients    ValidationCode = "missing_ingredients"
	DuplicateIngredients  ValidationCode = "duplicate_ingredients"
	UnknownIngredient     ValidationCode = "unknown_ingredient"
	AmountOutOfRange      ValidationCode = "amount_out_of_range"
	CookingTimeOutOfRange ValidationCode = "cooking_time_out_of_range"
	MissingImage          ValidationCode = "missing_image"
)

// ValidationError reports a single failed authoring rule. Field names the
// payload field the caller should attach the message to.
type ValidationError struct {
	Field   string
	Code    ValidationCode
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidation builds a ValidationError for the given field and rule.
func NewValidation(field string, code ValidationCode, format string, args ...interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// AsValidation unwraps err into a ValidationError if it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
