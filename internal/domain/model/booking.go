package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Booking is the persisted form of a booking
type Booking struct {
	ID                 string          `gorm:"primaryKey;size:64" json:"id"`
	UserID             string          `gorm:"size:64;not null;index" json:"user_id"`
	EstablishmentID    string          `gorm:"size:64;not null;index" json:"establishment_id"`
	CustomerEmail      string          `gorm:"size:255" json:"customer_email"`
	VisitingDate       string          `gorm:"size:10;not null" json:"visiting_date"`
	VisitingTime       string          `gorm:"size:16;not null" json:"visiting_time"`
	VisitAt            time.Time       `gorm:"not null" json:"visit_at"`
	SelectedItems      datatypes.JSON  `gorm:"type:jsonb" json:"selected_items,omitempty"`
	Amount             decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	PaymentAmount      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"payment_amount"`
	Status             string          `gorm:"size:20;not null;index" json:"status"`
	PaymentStatus      string          `gorm:"size:20;not null" json:"payment_status"`
	RefundStatus       string          `gorm:"size:20;not null" json:"refund_status"`
	TransactionID      string          `gorm:"size:32;not null;uniqueIndex" json:"transaction_id"`
	TransactionRef     string          `gorm:"size:32;not null;uniqueIndex" json:"transaction_ref"`
	QRCode             *string         `gorm:"column:qr_code" json:"qr_code,omitempty"`
	CancellationReason string          `json:"cancellation_reason,omitempty"`
	CancelledBy        string          `gorm:"size:20" json:"cancelled_by,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	ConfirmedAt        *time.Time      `json:"confirmed_at,omitempty"`
	CancelledAt        *time.Time      `json:"cancelled_at,omitempty"`
	CompletedAt        *time.Time      `json:"completed_at,omitempty"`
	UpdatedAt          time.Time       `json:"updated_at"`
	Version            int64           `gorm:"not null;default:1" json:"version"`
}

// TableName specifies the table name for GORM
func (Booking) TableName() string {
	return "bookings"
}
