package entrystore

import (
	"errors"
	"fmt"

	"github.com/roach88/ledgerstore/internal/ir"
)

// Error is returned by every EntryStore operation that fails for a reason
// the caller can act on. Storage failures are returned wrapped, not as Error.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Address is the address involved, when there is one.
	Address ir.Address

	// Err is the underlying cause, if any.
	Err error
}

// ErrorCode categorizes EntryStore errors.
type ErrorCode string

const (
	// ErrCodeEncoding indicates a record could not be canonicalized.
	ErrCodeEncoding ErrorCode = "ENCODING_ERROR"

	// ErrCodeInvalidAddress indicates a structurally malformed address.
	ErrCodeInvalidAddress ErrorCode = "INVALID_ADDRESS"

	// ErrCodeUninitialized indicates the store has no agent identity.
	ErrCodeUninitialized ErrorCode = "UNINITIALIZED"

	// ErrCodeNotFound indicates a history write targeted an address that is
	// not a stored entry.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeInvalidStatus indicates an unknown validation status.
	ErrCodeInvalidStatus ErrorCode = "INVALID_STATUS"
)

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Address != "" {
		msg += fmt.Sprintf(" (address=%s)", e.Address)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

func hasCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// IsEncodingError reports whether err is an encoding failure.
func IsEncodingError(err error) bool { return hasCode(err, ErrCodeEncoding) }

// IsInvalidAddressError reports whether err is a malformed-address failure.
func IsInvalidAddressError(err error) bool { return hasCode(err, ErrCodeInvalidAddress) }

// IsUninitializedError reports whether err is a missing-identity failure.
func IsUninitializedError(err error) bool { return hasCode(err, ErrCodeUninitialized) }

// IsNotFoundError reports whether err is an unknown-target failure.
func IsNotFoundError(err error) bool { return hasCode(err, ErrCodeNotFound) }

// IsInvalidStatusError reports whether err is an unknown validation status.
func IsInvalidStatusError(err error) bool { return hasCode(err, ErrCodeInvalidStatus) }

func newEncodingError(err error) *Error {
	return &Error{Code: ErrCodeEncoding, Message: "record cannot be canonicalized", Err: err}
}

func newInvalidAddressError(addr ir.Address, err error) *Error {
	return &Error{Code: ErrCodeInvalidAddress, Message: "malformed address", Address: addr, Err: err}
}

func newUninitializedError() *Error {
	return &Error{Code: ErrCodeUninitialized, Message: "agent identity is not initialized"}
}

func newNotFoundError(addr ir.Address) *Error {
	return &Error{Code: ErrCodeNotFound, Message: "no entry stored at address", Address: addr}
}
