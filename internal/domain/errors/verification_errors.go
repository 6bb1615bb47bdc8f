package errors

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	apperrors "github.com/abishekopennova-prog/opennova-backend-clean-sub001/pkg/errors"
)

// VerificationReason identifies which payment verification gate failed.
type VerificationReason string

const (
	ReasonUnknownReference   VerificationReason = "UNKNOWN_REFERENCE"
	ReasonExpired            VerificationReason = "EXPIRED"
	ReasonAmountMismatch     VerificationReason = "AMOUNT_MISMATCH"
	ReasonInvalidFormat      VerificationReason = "INVALID_FORMAT"
	ReasonDuplicateTxn       VerificationReason = "DUPLICATE_TXN"
	ReasonNotFoundAtBank     VerificationReason = "NOT_FOUND_AT_BANK"
	ReasonBankAmountMismatch VerificationReason = "BANK_AMOUNT_MISMATCH"
)

// AmountDirection tells whether a claimed amount is below or above the expected one.
type AmountDirection string

const (
	DirectionUnder AmountDirection = "UNDER"
	DirectionOver  AmountDirection = "OVER"
)

// VerificationError is returned when a claimed payment fails verification.
type VerificationError struct {
	Reason    VerificationReason
	Message   string
	Direction AmountDirection
	Expected  decimal.Decimal
	Actual    decimal.Decimal
	Cause     error
}

func (e *VerificationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Reason, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}

func (e *VerificationError) Unwrap() error {
	return e.Cause
}

// Code maps the reason onto the shared error taxonomy. A bank lookup that
// failed because the bank itself misbehaved is reported as an external
// dependency failure.
func (e *VerificationError) Code() string {
	switch e.Reason {
	case ReasonUnknownReference:
		return apperrors.ErrNotFound
	case ReasonExpired:
		return apperrors.ErrExpired
	case ReasonAmountMismatch, ReasonBankAmountMismatch:
		return apperrors.ErrAmountMismatch
	case ReasonInvalidFormat:
		return apperrors.ErrInvalidArgument
	case ReasonDuplicateTxn:
		return apperrors.ErrConflict
	case ReasonNotFoundAtBank:
		var ext *ExternalDependencyError
		if errors.As(e.Cause, &ext) {
			return apperrors.ErrExternalDependency
		}
		return apperrors.ErrNotFound
	default:
		return apperrors.ErrInternal
	}
}

// NewVerificationError creates a VerificationError without amount details
func NewVerificationError(reason VerificationReason, message string, cause error) *VerificationError {
	return &VerificationError{
		Reason:  reason,
		Message: message,
		Cause:   cause,
	}
}

// NewAmountMismatchError compares actual against expected and describes the
// difference as an under or over payment.
func NewAmountMismatchError(reason VerificationReason, subject string, expected, actual decimal.Decimal) *VerificationError {
	direction := DirectionOver
	word := "overpayment"
	if actual.LessThan(expected) {
		direction = DirectionUnder
		word = "underpayment"
	}
	return &VerificationError{
		Reason:    reason,
		Message:   fmt.Sprintf("%s: %s amount %s, expected %s", word, subject, actual.StringFixed(2), expected.StringFixed(2)),
		Direction: direction,
		Expected:  expected,
		Actual:    actual,
	}
}

// ReasonOf returns the verification reason carried by err, if any.
func ReasonOf(err error) (VerificationReason, bool) {
	var verr *VerificationError
	if errors.As(err, &verr) {
		return verr.Reason, true
	}
	return "", false
}

// HasReason reports whether err is a VerificationError with the given reason.
func HasReason(err error, reason VerificationReason) bool {
	r, ok := ReasonOf(err)
	return ok && r == reason
}

// ExternalDependencyError wraps a collaborator failure such as a bank timeout.
type ExternalDependencyError struct {
	Dependency string
	Cause      error
}

func (e *ExternalDependencyError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Dependency, e.Cause)
}

func (e *ExternalDependencyError) Code() string {
	return apperrors.ErrExternalDependency
}

func (e *ExternalDependencyError) Unwrap() error {
	return e.Cause
}

func NewExternalDependencyError(dependency string, cause error) *ExternalDependencyError {
	return &ExternalDependencyError{Dependency: dependency, Cause: cause}
}
