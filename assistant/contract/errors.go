package contract

import (
	"errors"
	"fmt"
)

var (
	ErrClientInput     = errors.New("client input error")
	ErrProviderFailure = errors.New("provider failure")
	ErrResponseShape   = errors.New("provider response violates schema")
	ErrValidation      = errors.New("validation failed")
	ErrModelInvoke     = errors.New("model invoke failed")
)

// DispatchError is the single error variant of every route. Message is safe
// to show to callers; Cause keeps the internal detail for logs.
type DispatchError struct {
	Kind    error
	Message string
	Cause   error
}

func (e *DispatchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%v: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%v: %s", e.Kind, e.Message)
}

func (e *DispatchError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

func ClientInputError(message string) *DispatchError {
	return &DispatchError{Kind: ErrClientInput, Message: message}
}

func ProviderFailure(message string, cause error) *DispatchError {
	return &DispatchError{Kind: ErrProviderFailure, Message: message, Cause: cause}
}

func ResponseShapeError(message string, cause error) *DispatchError {
	return &DispatchError{Kind: ErrResponseShape, Message: message, Cause: cause}
}
