package errors

import (
	"errors"
	"fmt"

	"github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/domain/entity"
	apperrors "github.com/abishekopennova-prog/opennova-backend-clean-sub001/pkg/errors"
)

// ReasonInvalidStateTransition is reported when a booking transition is not in the graph.
const ReasonInvalidStateTransition = "INVALID_STATE_TRANSITION"

// TransitionError is returned when a booking cannot move from its current status.
type TransitionError struct {
	BookingID string
	Action    string
	From      entity.BookingStatus
	Attempted entity.BookingStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: cannot %s booking %s: %s -> %s is not allowed",
		ReasonInvalidStateTransition, e.Action, e.BookingID, e.From, e.Attempted)
}

func (e *TransitionError) Code() string {
	return apperrors.ErrConflict
}

func (e *TransitionError) Unwrap() error {
	return nil
}

func NewTransitionError(bookingID, action string, from, attempted entity.BookingStatus) *TransitionError {
	return &TransitionError{BookingID: bookingID, Action: action, From: from, Attempted: attempted}
}

// IsTransitionError reports whether err is a rejected state transition.
func IsTransitionError(err error) bool {
	var te *TransitionError
	return errors.As(err, &te)
}

var (
	ErrBookingNotFound    = apperrors.NewAppError(apperrors.ErrNotFound, "booking not found", nil)
	ErrBookingExists      = apperrors.NewAppError(apperrors.ErrConflict, "booking already exists for this payment", nil)
	ErrAdvanceMismatch    = apperrors.NewAppError(apperrors.ErrAmountMismatch, "verified payment does not match the advance for this booking", nil)
	ErrNotBookingOwner    = apperrors.NewAppError(apperrors.ErrUnauthorized, "actor does not own this booking", nil)
	ErrWrongEstablishment = apperrors.NewAppError(apperrors.ErrUnauthorized, "booking belongs to a different establishment", nil)
	ErrInvalidQRCode      = apperrors.NewAppError(apperrors.ErrInvalidArgument, "invalid QR code", nil)
	ErrQRCodeNotIssued    = apperrors.NewAppError(apperrors.ErrNotFound, "booking has no QR code", nil)
	ErrInvalidActor       = apperrors.NewAppError(apperrors.ErrInvalidArgument, "unknown actor role", nil)
	ErrInvalidVisitTime   = apperrors.NewAppError(apperrors.ErrInvalidArgument, "invalid visiting date or time", nil)
)

var (
	ErrPaymentRequestNotFound  = apperrors.NewAppError(apperrors.ErrNotFound, "payment request not found", nil)
	ErrVerifiedPaymentNotFound = apperrors.NewAppError(apperrors.ErrNotFound, "verified payment not found", nil)
	ErrVerifiedPaymentExists   = apperrors.NewAppError(apperrors.ErrConflict, "payment already verified", nil)
	ErrInvalidPaymentRequest   = apperrors.NewAppError(apperrors.ErrInvalidArgument, "invalid payment request", nil)
)

// Invalid wraps a validation message as an INVALID_ARGUMENT error.
func Invalid(format string, args ...interface{}) error {
	return apperrors.NewAppError(apperrors.ErrInvalidArgument, fmt.Sprintf(format, args...), nil)
}
