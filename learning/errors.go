package learning

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrNotFound is returned when a record id does not exist
	ErrNotFound = errors.New("not found")
	// ErrAlreadyVerified guards the single verified=false -> true transition
	ErrAlreadyVerified = errors.New("already verified")
	// ErrValidation is returned for missing or malformed input
	ErrValidation = errors.New("validation failed")
	// ErrPersistence wraps failures of the underlying store
	ErrPersistence = errors.New("persistence failure")
)

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("%w: field %s failed on %s", ErrValidation, fieldName(fe), fe.Tag())
	}
	return fmt.Errorf("%w: %v", ErrValidation, err)
}

func fieldName(fe validator.FieldError) string {
	if fe.Field() != "" {
		return fe.Field()
	}
	return fe.StructField()
}

func persistenceError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}
