package entity

import "time"

// EventType names a booking lifecycle event delivered to notifiers.
type EventType string

const (
	EventPaymentVerified  EventType = "payment.verified"
	EventBookingCreated   EventType = "booking.created"
	EventBookingConfirmed EventType = "booking.confirmed"
	EventBookingRejected  EventType = "booking.rejected"
	EventBookingCancelled EventType = "booking.cancelled"
	EventBookingCompleted EventType = "booking.completed"
)

// Attachment is a binary file sent along with a notification, e.g. a QR image.
type Attachment struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"-"`
}

// Notification is a best-effort message about a committed state change.
type Notification struct {
	Event           EventType              `json:"event"`
	BookingID       string                 `json:"booking_id,omitempty"`
	UserID          string                 `json:"user_id,omitempty"`
	EstablishmentID string                 `json:"establishment_id,omitempty"`
	CustomerEmail   string                 `json:"customer_email,omitempty"`
	Payload         map[string]interface{} `json:"payload,omitempty"`
	Attachments     []Attachment           `json:"-"`
	OccurredAt      time.Time              `json:"occurred_at"`
}
