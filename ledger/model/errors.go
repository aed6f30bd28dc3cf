package model

import (
	"errors"
	"fmt"
)

// Sentinel errors for the ledger engine. Layered callers match these with
// errors.Is and map them to transport responses without inspecting state.
var (
	ErrValidation           = errors.New("validation failed")
	ErrMissingAccount       = errors.New("source and destination accounts required for transfer")
	ErrEditLocked           = errors.New("editing is strictly blocked after 12 hours")
	ErrNotFound             = errors.New("transaction not found")
	ErrPartialTransferWrite = errors.New("transfer persisted only its first leg")
	ErrStore                = errors.New("store operation failed")
)

// ValidationError reports a malformed or incomplete input field.
type ValidationError struct {
	Field  string
	Reason string
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// MissingAccountError reports a transfer intent lacking one or both accounts.
type MissingAccountError struct {
	// Missing names the absent side: "sourceAccount", "destinationAccount",
	// or both joined when neither was supplied.
	Missing string
}

func (e *MissingAccountError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingAccount.Error(), e.Missing)
}

func (e *MissingAccountError) Is(target error) bool {
	return target == ErrMissingAccount
}

// PartialTransferWriteError reports the asymmetric-failure mode of a transfer:
// the first leg persisted but the second write failed. One compensating delete
// of the first leg is attempted; Cleaned records whether it succeeded.
type PartialTransferWriteError struct {
	TransferID string
	Cleaned    bool
	Cause      error
}

func (e *PartialTransferWriteError) Error() string {
	outcome := "orphaned first leg remains"
	if e.Cleaned {
		outcome = "first leg cleaned up"
	}
	return fmt.Sprintf("%s (%s): %v", ErrPartialTransferWrite.Error(), outcome, e.Cause)
}

func (e *PartialTransferWriteError) Is(target error) bool {
	return target == ErrPartialTransferWrite
}

func (e *PartialTransferWriteError) Unwrap() error {
	return e.Cause
}

// StoreError wraps an opaque persistence failure. The engine never retries;
// retry policy belongs to the store or transport layer.
type StoreError struct {
	Op    string
	Cause error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrStore.Error(), e.Op, e.Cause)
}

func (e *StoreError) Is(target error) bool {
	return target == ErrStore
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}
