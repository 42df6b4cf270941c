package order

import (
	"errors"
	"fmt"
)

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrPaymentInit      = errors.New("failed to initialize payment")
	ErrInvalidFuelType  = errors.New("invalid fuel type")
	ErrInvalidQuantity  = errors.New("quantity must be greater than zero")
	ErrQuantityTooLarge = errors.New("quantity exceeds the maximum per order")
	ErrInvalidInput     = errors.New("invalid order input")
	ErrReferenceTaken   = errors.New("order already has a payment reference")
)

// ValidationError reports malformed or out-of-domain order input.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInvalidInput
}

func newValidationError(field string, err error) *ValidationError {
	return &ValidationError{Field: field, Message: err.Error(), Err: err}
}

// PaymentInitError is returned by CreateOrder after the order row has been
// removed because the gateway could not initialize a transaction. The gateway
// failure is kept in Reason for logs and is not part of the message.
type PaymentInitError struct {
	Reason error
}

func (e *PaymentInitError) Error() string {
	return "payment initialization failed. please check the payment gateway keys and try again"
}

func (e *PaymentInitError) Unwrap() []error {
	if e.Reason == nil {
		return []error{ErrPaymentInit}
	}
	return []error{ErrPaymentInit, e.Reason}
}
