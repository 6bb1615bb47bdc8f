package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/domain/entity"
	domainErrors "github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/domain/errors"
	domainRepo "github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/domain/repository"
	"github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/domain/service"
	apperrors "github.com/abishekopennova-prog/opennova-backend-clean-sub001/pkg/errors"
)

// BookingUsecase orchestrates payment verification and the booking lifecycle.
// State changes are committed through BookingRepository.Update; notifications
// go out only after the commit and never fail the operation.
type BookingUsecase struct {
	payments *PaymentVerifier
	verified domainRepo.VerifiedPaymentRegistry
	bookings domainRepo.BookingRepository
	machine  *service.BookingStateMachine
	qr       *service.QRCodec
	renderer domainRepo.QRRenderer
	notifier domainRepo.Notifier
	location *time.Location
	logger   *zap.Logger
}

// NewBookingUsecase creates a new booking usecase
func NewBookingUsecase(
	payments *PaymentVerifier,
	verified domainRepo.VerifiedPaymentRegistry,
	bookings domainRepo.BookingRepository,
	machine *service.BookingStateMachine,
	qr *service.QRCodec,
	renderer domainRepo.QRRenderer,
	notifier domainRepo.Notifier,
	location *time.Location,
	logger *zap.Logger,
) *BookingUsecase {
	if location == nil {
		location = time.UTC
	}
	return &BookingUsecase{
		payments: payments,
		verified: verified,
		bookings: bookings,
		machine:  machine,
		qr:       qr,
		renderer: renderer,
		notifier: notifier,
		location: location,
		logger:   logger,
	}
}

// StartBookingPayment requests the advance owed on a booking total.
func (u *BookingUsecase) StartBookingPayment(ctx context.Context, payer entity.Payer, total decimal.Decimal, upiID string) (*entity.PaymentRequest, error) {
	if !total.IsPositive() {
		return nil, domainErrors.Invalid("booking amount must be positive")
	}
	return u.payments.GeneratePaymentRequest(ctx, payer, upiID, service.CalculateAdvance(total), "")
}

func (u *BookingUsecase) GeneratePaymentRequest(ctx context.Context, payer entity.Payer, upiID string, amount decimal.Decimal, bookingIntentID string) (*entity.PaymentRequest, error) {
	return u.payments.GeneratePaymentRequest(ctx, payer, upiID, amount, bookingIntentID)
}

// VerifyPayment returns the verification result together with the error
// that produced it, if any, so transports can pick a status code.
func (u *BookingUsecase) VerifyPayment(ctx context.Context, transactionRef, claimedTxnID string, claimedAmount decimal.Decimal) (VerificationResult, error) {
	payment, err := u.payments.Verify(ctx, transactionRef, claimedTxnID, claimedAmount)
	return NewVerificationResult(payment, err), err
}

// CreateBooking opens a PENDING booking paid for by the verified payment
// behind transactionRef. Each payment backs at most one booking.
func (u *BookingUsecase) CreateBooking(ctx context.Context, transactionRef string, details entity.BookingDetails) (*entity.Booking, error) {
	payment, err := u.verified.GetByRef(ctx, transactionRef)
	if err != nil {
		return nil, err
	}
	if payment.PayerUserID != details.UserID {
		return nil, domainErrors.ErrNotBookingOwner
	}

	visitAt, err := service.ParseVisitTime(details.VisitingDate, details.VisitingTime, u.location)
	if err != nil {
		return nil, err
	}

	booking, err := u.machine.NewBooking(payment, details, visitAt)
	if err != nil {
		return nil, err
	}

	if err := u.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}

	u.logger.Info("Booking created",
		zap.String("booking_id", booking.ID),
		zap.String("transaction_ref", transactionRef),
		zap.String("establishment_id", booking.EstablishmentID))

	u.notify(ctx, u.bookingNotification(entity.EventBookingCreated, booking, nil))
	return booking, nil
}

// ConfirmBooking confirms a PENDING booking for its establishment and issues
// the visit QR code.
func (u *BookingUsecase) ConfirmBooking(ctx context.Context, bookingID, establishmentID string) (*entity.Booking, error) {
	booking, err := u.bookings.Update(ctx, bookingID, func(b *entity.Booking) error {
		return u.machine.Confirm(b, establishmentID)
	})
	if err != nil {
		return nil, u.transitionFailed(err, "confirm", bookingID)
	}

	u.logger.Info("Booking confirmed", zap.String("booking_id", booking.ID))

	n := u.bookingNotification(entity.EventBookingConfirmed, booking, nil)
	if png, err := u.renderer.RenderPNG(*booking.QRCode); err != nil {
		apperrors.LogError(u.logger, err, "QR rendering failed", zap.String("booking_id", booking.ID))
	} else {
		n.Attachments = []entity.Attachment{{
			Name:        fmt.Sprintf("booking-%s.png", booking.ID),
			ContentType: "image/png",
			Data:        png,
		}}
	}
	u.notify(ctx, n)
	return booking, nil
}

// RejectBooking lets the establishment turn down a PENDING booking.
func (u *BookingUsecase) RejectBooking(ctx context.Context, bookingID, establishmentID, reason string) (*entity.Booking, error) {
	booking, err := u.bookings.Update(ctx, bookingID, func(b *entity.Booking) error {
		return u.machine.Reject(b, establishmentID, reason)
	})
	if err != nil {
		return nil, u.transitionFailed(err, "reject", bookingID)
	}

	u.logger.Info("Booking rejected", zap.String("booking_id", booking.ID))
	u.notify(ctx, u.bookingNotification(entity.EventBookingRejected, booking, map[string]interface{}{
		"reason":        reason,
		"refund_status": string(booking.RefundStatus),
	}))
	return booking, nil
}

// CancelBooking cancels on behalf of the customer or the establishment.
func (u *BookingUsecase) CancelBooking(ctx context.Context, bookingID string, actor entity.Actor, reason string) (*entity.Booking, error) {
	booking, err := u.bookings.Update(ctx, bookingID, func(b *entity.Booking) error {
		return u.machine.Cancel(b, actor, reason)
	})
	if err != nil {
		return nil, u.transitionFailed(err, "cancel", bookingID)
	}

	u.logger.Info("Booking cancelled",
		zap.String("booking_id", booking.ID),
		zap.String("cancelled_by", string(actor.Role)),
		zap.String("refund_status", string(booking.RefundStatus)))

	u.notify(ctx, u.bookingNotification(entity.EventBookingCancelled, booking, map[string]interface{}{
		"reason":        reason,
		"cancelled_by":  string(actor.Role),
		"refund_status": string(booking.RefundStatus),
	}))
	return booking, nil
}

// CompleteBooking validates a QR token scanned at an establishment and
// completes the booking it belongs to.
func (u *BookingUsecase) CompleteBooking(ctx context.Context, qrToken, scanningEstablishmentID string) (*entity.Booking, error) {
	payload, err := u.qr.Decode(qrToken)
	if err != nil {
		return nil, err
	}

	booking, err := u.bookings.Update(ctx, payload.BookingID, func(b *entity.Booking) error {
		if err := u.machine.ValidateVisit(b, payload, qrToken, scanningEstablishmentID); err != nil {
			return err
		}
		return u.machine.Complete(b)
	})
	if err != nil {
		return nil, u.transitionFailed(err, "complete", payload.BookingID)
	}

	u.logger.Info("Booking completed", zap.String("booking_id", booking.ID))
	u.notify(ctx, u.bookingNotification(entity.EventBookingCompleted, booking, nil))
	return booking, nil
}

// GetBooking returns a booking visible to actor. A nil actor is an
// administrator and sees everything.
func (u *BookingUsecase) GetBooking(ctx context.Context, bookingID string, actor *entity.Actor) (*entity.Booking, error) {
	booking, err := u.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := authorizeView(booking, actor); err != nil {
		return nil, err
	}
	return booking, nil
}

func (u *BookingUsecase) ListUserBookings(ctx context.Context, userID string) ([]*entity.Booking, error) {
	return u.bookings.ListByUser(ctx, userID)
}

func (u *BookingUsecase) ListEstablishmentBookings(ctx context.Context, establishmentID string) ([]*entity.Booking, error) {
	return u.bookings.ListByEstablishment(ctx, establishmentID)
}

// DeleteBooking removes a booking outside the lifecycle. Administrative use only.
func (u *BookingUsecase) DeleteBooking(ctx context.Context, bookingID string) error {
	if err := u.bookings.Delete(ctx, bookingID); err != nil {
		return err
	}
	u.logger.Warn("Booking deleted by administrator", zap.String("booking_id", bookingID))
	return nil
}

// BookingQRCode renders the visit QR code of a confirmed booking as PNG.
func (u *BookingUsecase) BookingQRCode(ctx context.Context, bookingID string, actor *entity.Actor) ([]byte, error) {
	booking, err := u.GetBooking(ctx, bookingID, actor)
	if err != nil {
		return nil, err
	}
	if booking.QRCode == nil || booking.Status != entity.BookingStatusConfirmed {
		return nil, domainErrors.ErrQRCodeNotIssued
	}
	png, err := u.renderer.RenderPNG(*booking.QRCode)
	if err != nil {
		return nil, fmt.Errorf("failed to render qr code: %w", err)
	}
	return png, nil
}

func authorizeView(b *entity.Booking, actor *entity.Actor) error {
	if actor == nil {
		return nil
	}
	switch actor.Role {
	case entity.ActorCustomer:
		if b.UserID != actor.ID {
			return domainErrors.ErrNotBookingOwner
		}
	case entity.ActorOwner:
		if b.EstablishmentID != actor.ID {
			return domainErrors.ErrWrongEstablishment
		}
	default:
		return domainErrors.ErrInvalidActor
	}
	return nil
}

func (u *BookingUsecase) transitionFailed(err error, action, bookingID string) error {
	var te *domainErrors.TransitionError
	if errors.As(err, &te) {
		u.logger.Info("Booking transition rejected",
			zap.String("booking_id", bookingID),
			zap.String("action", action),
			zap.String("from", string(te.From)),
			zap.String("attempted", string(te.Attempted)))
	}
	return err
}

func (u *BookingUsecase) bookingNotification(event entity.EventType, b *entity.Booking, payload map[string]interface{}) entity.Notification {
	if payload == nil {
		payload = make(map[string]interface{})
	}
	payload["status"] = string(b.Status)
	payload["visit_at"] = b.VisitAt
	payload["payment_amount"] = b.PaymentAmount.StringFixed(2)

	return entity.Notification{
		Event:           event,
		BookingID:       b.ID,
		UserID:          b.UserID,
		EstablishmentID: b.EstablishmentID,
		CustomerEmail:   b.CustomerEmail,
		Payload:         payload,
		OccurredAt:      b.UpdatedAt,
	}
}

func (u *BookingUsecase) notify(ctx context.Context, n entity.Notification) {
	if err := u.notifier.Notify(ctx, n); err != nil {
		apperrors.LogError(u.logger, err, "Notification failed",
			zap.String("event", string(n.Event)),
			zap.String("booking_id", n.BookingID))
	}
}
