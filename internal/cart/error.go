package cart

import (
	"errors"
	"fmt"
)

const (
	ErrMsgSizeRequired    = "choose a size before adding to cart"
	ErrMsgTasteRequired   = "choose a taste before adding to cart"
	ErrMsgUnknownSize     = "unknown size option"
	ErrMsgUnknownTaste    = "unknown taste option"
	ErrMsgNoPrice         = "product has no price"
	ErrMsgProductRequired = "product is required"
)

var errLineNotFound = errors.New("cart line not found")

// ValidationError rejects an add-to-cart before anything is mutated.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsLineNotFound(err error) bool {
	return errors.Is(err, errLineNotFound)
}
