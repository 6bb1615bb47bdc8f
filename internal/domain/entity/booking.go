package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusCompleted BookingStatus = "COMPLETED"
)

// IsTerminal reports whether no transition may leave the status.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCancelled || s == BookingStatusCompleted
}

// BookingPaymentStatus tracks the advance payment of a booking.
type BookingPaymentStatus string

const (
	BookingPaymentStatusAdvancePaid   BookingPaymentStatus = "ADVANCE_PAID"
	BookingPaymentStatusRefundPending BookingPaymentStatus = "REFUND_PENDING"
	BookingPaymentStatusNonRefundable BookingPaymentStatus = "NON_REFUNDABLE"
)

// RefundStatus represents refund eligibility after cancellation
type RefundStatus string

const (
	RefundStatusNotApplicable RefundStatus = "NOT_APPLICABLE"
	RefundStatusApproved      RefundStatus = "APPROVED"
	RefundStatusNotEligible   RefundStatus = "NOT_ELIGIBLE"
)

// ActorRole identifies who initiates a cancellation.
type ActorRole string

const (
	ActorCustomer ActorRole = "CUSTOMER"
	ActorOwner    ActorRole = "OWNER"
)

// Actor is the party performing an operation on a booking. ID is a user id
// for customers and an establishment id for owners.
type Actor struct {
	Role ActorRole
	ID   string
}

// Booking is a reservation of a visit slot at an establishment.
type Booking struct {
	ID                 string               `json:"id"`
	UserID             string               `json:"user_id"`
	EstablishmentID    string               `json:"establishment_id"`
	CustomerEmail      string               `json:"customer_email"`
	VisitingDate       string               `json:"visiting_date"`
	VisitingTime       string               `json:"visiting_time"`
	VisitAt            time.Time            `json:"visit_at"`
	SelectedItems      json.RawMessage      `json:"selected_items,omitempty"`
	Amount             decimal.Decimal      `json:"amount"`
	PaymentAmount      decimal.Decimal      `json:"payment_amount"`
	Status             BookingStatus        `json:"status"`
	PaymentStatus      BookingPaymentStatus `json:"payment_status"`
	RefundStatus       RefundStatus         `json:"refund_status"`
	TransactionID      string               `json:"transaction_id"`
	TransactionRef     string               `json:"transaction_ref"`
	QRCode             *string              `json:"qr_code,omitempty"`
	CancellationReason string               `json:"cancellation_reason,omitempty"`
	CancelledBy        ActorRole            `json:"cancelled_by,omitempty"`
	CreatedAt          time.Time            `json:"created_at"`
	ConfirmedAt        *time.Time           `json:"confirmed_at,omitempty"`
	CancelledAt        *time.Time           `json:"cancelled_at,omitempty"`
	CompletedAt        *time.Time           `json:"completed_at,omitempty"`
	UpdatedAt          time.Time            `json:"updated_at"`
	Version            int64                `json:"version"`
}

// Clone returns a deep copy so callers never share mutable state with a store.
func (b *Booking) Clone() *Booking {
	c := *b
	if b.SelectedItems != nil {
		c.SelectedItems = append(json.RawMessage(nil), b.SelectedItems...)
	}
	c.QRCode = clonePtr(b.QRCode)
	c.ConfirmedAt = clonePtr(b.ConfirmedAt)
	c.CancelledAt = clonePtr(b.CancelledAt)
	c.CompletedAt = clonePtr(b.CompletedAt)
	return &c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// BookingDetails is what a customer submits when creating a booking.
type BookingDetails struct {
	UserID          string          `json:"user_id"`
	EstablishmentID string          `json:"establishment_id"`
	VisitingDate    string          `json:"visiting_date"`
	VisitingTime    string          `json:"visiting_time"`
	SelectedItems   json.RawMessage `json:"selected_items,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
}
