package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrItemNotFound    = errors.New("rental item not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrUserNotFound    = errors.New("user not found")
)

var (
	ErrEmptyCart               = errors.New("cart is empty")
	ErrCartLineNotFound        = errors.New("item is not in the cart")
	ErrInvalidDateRange        = errors.New("return date must be after pickup date")
	ErrItemUnavailable         = errors.New("item is not available for rental")
	ErrInvalidStatusTransition = errors.New("booking status transition not allowed")
	ErrCheckoutInProgress      = errors.New("checkout already in progress")
	ErrBookingNotSaved         = errors.New("booking could not be saved, please try again")
	ErrEmailDelivery           = errors.New("email could not be delivered")
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotAdmin           = errors.New("account does not hold the admin role")
	ErrEmailTaken         = errors.New("email is already registered")
)

// ValidationError carries per-field messages for rejected input.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string]string{}}
}

func (e *ValidationError) Add(field, msg string) {
	e.Fields[field] = msg
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
