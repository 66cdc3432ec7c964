// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Storage errors.
	ErrNotFound = errors.New("not found")

	// Discard errors.
	ErrEmptyBatch    = errors.New("no items selected for discard")
	ErrSlotMismatch  = errors.New("slot contents changed since selection")
	ErrBatchActive   = errors.New("a discard batch is already running")
	ErrWrongState    = errors.New("operation not legal in current state")
	ErrBatchCanceled = errors.New("discard batch canceled")

	// Market errors.
	ErrFetchTimeout = errors.New("price fetch timed out")
	ErrNoMarketData = errors.New("no market data available")

	// Bridge errors.
	ErrBridgeUnavailable = errors.New("game bridge unavailable")
	ErrSlotEmpty         = errors.New("slot is empty")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}
