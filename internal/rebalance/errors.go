package rebalance

import (
	"errors"
	"fmt"
)

// RebalanceError represents a failure detected by the engine.
//
// Argument errors (bad compression factor, inverted range bounds) are
// raised before any store interaction. Transaction errors wrap the
// original cause from the repository; the transaction has already been
// rolled back by the time the error reaches the caller.
type RebalanceError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Op names the operation that failed (e.g. "compress").
	Op string

	// Message is a human-readable description.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

// ErrorCode categorizes engine errors.
type ErrorCode string

const (
	// ErrCodeInvalidFactor indicates a compression factor outside (0,1).
	ErrCodeInvalidFactor ErrorCode = "INVALID_FACTOR"

	// ErrCodeInvalidRange indicates range bounds with min > max.
	ErrCodeInvalidRange ErrorCode = "INVALID_RANGE"

	// ErrCodeTxFailed indicates a failure during a repository transaction.
	// The transaction was rolled back; no priorities changed.
	ErrCodeTxFailed ErrorCode = "TX_FAILED"
)

// Error implements the error interface.
func (e *RebalanceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s: %v", e.Code, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", e.Code, e.Op, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/errors.As chains.
func (e *RebalanceError) Unwrap() error {
	return e.Err
}

// IsInvalidArgument returns true for argument validation errors.
// Uses errors.As to handle wrapped errors.
func IsInvalidArgument(err error) bool {
	var re *RebalanceError
	if errors.As(err, &re) {
		return re.Code == ErrCodeInvalidFactor || re.Code == ErrCodeInvalidRange
	}
	return false
}

// IsTransactionFailure returns true if a repository transaction failed
// and was rolled back. Uses errors.As to handle wrapped errors.
func IsTransactionFailure(err error) bool {
	var re *RebalanceError
	if errors.As(err, &re) {
		return re.Code == ErrCodeTxFailed
	}
	return false
}

// newInvalidFactorError reports a compression factor outside (0,1).
func newInvalidFactorError(op string, factor float64) *RebalanceError {
	return &RebalanceError{
		Code:    ErrCodeInvalidFactor,
		Op:      op,
		Message: fmt.Sprintf("compression factor must be between 0 and 1, got %g", factor),
	}
}

// newInvalidRangeError reports inverted range bounds.
func newInvalidRangeError(op string, min, max uint8) *RebalanceError {
	return &RebalanceError{
		Code:    ErrCodeInvalidRange,
		Op:      op,
		Message: fmt.Sprintf("invalid range: min %d > max %d", min, max),
	}
}

// wrapTxError attaches the original cause to a transaction failure.
func wrapTxError(op string, err error) *RebalanceError {
	return &RebalanceError{
		Code:    ErrCodeTxFailed,
		Op:      op,
		Message: "transaction rolled back",
		Err:     err,
	}
}
