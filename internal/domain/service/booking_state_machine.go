package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/domain/entity"
	domainErrors "github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/domain/errors"
)

// RefundWindow is the minimum notice a customer must give to cancel with a refund.
const RefundWindow = 2 * time.Hour

// AdvanceRate is the share of the total paid up front.
var AdvanceRate = decimal.RequireFromString("0.70")

// CalculateAdvance returns the advance owed for a total, rounded to paise.
func CalculateAdvance(total decimal.Decimal) decimal.Decimal {
	return total.Mul(AdvanceRate).Round(2)
}

var allowedTransitions = map[entity.BookingStatus][]entity.BookingStatus{
	entity.BookingStatusPending:   {entity.BookingStatusConfirmed, entity.BookingStatusCancelled},
	entity.BookingStatusConfirmed: {entity.BookingStatusCancelled, entity.BookingStatusCompleted},
}

// CanTransition reports whether the graph has an edge from -> to.
func CanTransition(from, to entity.BookingStatus) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

var visitTimeLayouts = []string{"15:04", "15:04:05", "3:04 PM", "03:04 PM", "3:04PM"}

// ParseVisitTime combines a visiting date (YYYY-MM-DD) and time of day in loc.
func ParseVisitTime(date, clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	day, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(date), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s", domainErrors.ErrInvalidVisitTime, date)
	}
	clock = strings.ToUpper(strings.TrimSpace(clock))
	for _, layout := range visitTimeLayouts {
		if t, err := time.Parse(layout, clock); err == nil {
			return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %s", domainErrors.ErrInvalidVisitTime, clock)
}

// BookingStateMachine applies lifecycle transitions to bookings.
//
// Every transition validates first and then replaces the booking value in a
// single assignment, so a failed call leaves the booking untouched.
type BookingStateMachine struct {
	clock Clock
	qr    *QRCodec
}

func NewBookingStateMachine(clock Clock, qr *QRCodec) *BookingStateMachine {
	return &BookingStateMachine{clock: clock, qr: qr}
}

// NewBooking builds a PENDING booking paid for by payment. The verified
// amount must be exactly the advance for details.Amount.
func (m *BookingStateMachine) NewBooking(payment *entity.VerifiedPayment, details entity.BookingDetails, visitAt time.Time) (*entity.Booking, error) {
	if details.UserID == "" || details.EstablishmentID == "" {
		return nil, domainErrors.Invalid("user and establishment are required")
	}
	if !details.Amount.IsPositive() {
		return nil, domainErrors.Invalid("booking amount must be positive")
	}
	if advance := CalculateAdvance(details.Amount); !advance.Equal(payment.Amount) {
		return nil, fmt.Errorf("%w: advance %s, paid %s",
			domainErrors.ErrAdvanceMismatch, advance.StringFixed(2), payment.Amount.StringFixed(2))
	}

	now := m.clock.Now()
	return &entity.Booking{
		ID:              payment.BookingID,
		UserID:          details.UserID,
		EstablishmentID: details.EstablishmentID,
		CustomerEmail:   payment.CustomerEmail,
		VisitingDate:    details.VisitingDate,
		VisitingTime:    details.VisitingTime,
		VisitAt:         visitAt,
		SelectedItems:   details.SelectedItems,
		Amount:          details.Amount,
		PaymentAmount:   payment.Amount,
		Status:          entity.BookingStatusPending,
		PaymentStatus:   entity.BookingPaymentStatusAdvancePaid,
		RefundStatus:    entity.RefundStatusNotApplicable,
		TransactionID:   payment.UpiTransactionID,
		TransactionRef:  payment.TransactionRef,
		CreatedAt:       now,
		UpdatedAt:       now,
		Version:         1,
	}, nil
}

// Confirm moves a PENDING booking to CONFIRMED and issues its QR token.
func (m *BookingStateMachine) Confirm(b *entity.Booking, establishmentID string) error {
	if b.EstablishmentID != establishmentID {
		return domainErrors.ErrWrongEstablishment
	}
	if err := m.check(b, "confirm", entity.BookingStatusConfirmed); err != nil {
		return err
	}

	now := m.clock.Now()
	token := m.qr.Issue(b)
	next := *b
	next.Status = entity.BookingStatusConfirmed
	next.QRCode = &token
	next.ConfirmedAt = &now
	next.UpdatedAt = now
	*b = next
	return nil
}

// Reject cancels a PENDING booking on behalf of the establishment. The
// customer always gets a refund.
func (m *BookingStateMachine) Reject(b *entity.Booking, establishmentID, reason string) error {
	if b.EstablishmentID != establishmentID {
		return domainErrors.ErrWrongEstablishment
	}
	if b.Status != entity.BookingStatusPending {
		return domainErrors.NewTransitionError(b.ID, "reject", b.Status, entity.BookingStatusCancelled)
	}
	m.cancel(b, entity.ActorOwner, reason, entity.RefundStatusApproved)
	return nil
}

// CancelByCustomer cancels on behalf of the booking's user. A refund is
// approved only when the visit is at least RefundWindow away.
func (m *BookingStateMachine) CancelByCustomer(b *entity.Booking, userID, reason string) error {
	if b.UserID != userID {
		return domainErrors.ErrNotBookingOwner
	}
	if err := m.check(b, "cancel", entity.BookingStatusCancelled); err != nil {
		return err
	}
	refund := entity.RefundStatusNotEligible
	if b.VisitAt.Sub(m.clock.Now()) >= RefundWindow {
		refund = entity.RefundStatusApproved
	}
	m.cancel(b, entity.ActorCustomer, reason, refund)
	return nil
}

// CancelByOwner cancels on behalf of the establishment, always with a refund.
func (m *BookingStateMachine) CancelByOwner(b *entity.Booking, establishmentID, reason string) error {
	if b.EstablishmentID != establishmentID {
		return domainErrors.ErrWrongEstablishment
	}
	if err := m.check(b, "cancel", entity.BookingStatusCancelled); err != nil {
		return err
	}
	m.cancel(b, entity.ActorOwner, reason, entity.RefundStatusApproved)
	return nil
}

// Cancel dispatches on the actor's role.
func (m *BookingStateMachine) Cancel(b *entity.Booking, actor entity.Actor, reason string) error {
	switch actor.Role {
	case entity.ActorCustomer:
		return m.CancelByCustomer(b, actor.ID, reason)
	case entity.ActorOwner:
		return m.CancelByOwner(b, actor.ID, reason)
	default:
		return domainErrors.ErrInvalidActor
	}
}

// Complete moves a CONFIRMED booking to COMPLETED.
func (m *BookingStateMachine) Complete(b *entity.Booking) error {
	if err := m.check(b, "complete", entity.BookingStatusCompleted); err != nil {
		return err
	}
	now := m.clock.Now()
	next := *b
	next.Status = entity.BookingStatusCompleted
	next.CompletedAt = &now
	next.UpdatedAt = now
	*b = next
	return nil
}

// ValidateVisit checks a QR token scanned at an establishment against b.
func (m *BookingStateMachine) ValidateVisit(b *entity.Booking, payload *QRPayload, token, scanningEstablishmentID string) error {
	if b.QRCode == nil {
		return domainErrors.ErrQRCodeNotIssued
	}
	if *b.QRCode != token {
		return fmt.Errorf("%w: token was superseded or never issued", domainErrors.ErrInvalidQRCode)
	}
	if err := m.qr.Verify(payload, b); err != nil {
		return err
	}
	if b.EstablishmentID != scanningEstablishmentID || payload.EstablishmentID != scanningEstablishmentID {
		return domainErrors.ErrWrongEstablishment
	}
	if b.Status != entity.BookingStatusConfirmed {
		return domainErrors.NewTransitionError(b.ID, "complete", b.Status, entity.BookingStatusCompleted)
	}
	return nil
}

func (m *BookingStateMachine) check(b *entity.Booking, action string, to entity.BookingStatus) error {
	if !CanTransition(b.Status, to) {
		return domainErrors.NewTransitionError(b.ID, action, b.Status, to)
	}
	return nil
}

func (m *BookingStateMachine) cancel(b *entity.Booking, by entity.ActorRole, reason string, refund entity.RefundStatus) {
	now := m.clock.Now()
	next := *b
	next.Status = entity.BookingStatusCancelled
	next.RefundStatus = refund
	next.PaymentStatus = entity.BookingPaymentStatusRefundPending
	if refund == entity.RefundStatusNotEligible {
		next.PaymentStatus = entity.BookingPaymentStatusNonRefundable
	}
	next.CancellationReason = reason
	next.CancelledBy = by
	next.CancelledAt = &now
	next.UpdatedAt = now
	*b = next
}
