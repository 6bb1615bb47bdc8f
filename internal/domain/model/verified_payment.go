package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// VerifiedPayment is the persisted form of a verified advance payment
type VerifiedPayment struct {
	TransactionRef     string          `gorm:"primaryKey;size:32" json:"transaction_ref"`
	UpiTransactionID   string          `gorm:"column:upi_transaction_id;size:32;not null;uniqueIndex" json:"upi_transaction_id"`
	Amount             decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	VerifiedAt         time.Time       `gorm:"not null" json:"verified_at"`
	BookingID          string          `gorm:"size:64;not null;index" json:"booking_id"`
	PayerUserID        string          `gorm:"size:64;not null;index" json:"payer_user_id"`
	CustomerEmail      string          `gorm:"size:255" json:"customer_email"`
	Method             string          `gorm:"size:32" json:"method"`
	BankStatus         string          `gorm:"size:16" json:"bank_status"`
	BankAmount         decimal.Decimal `gorm:"type:decimal(15,2)" json:"bank_amount"`
	CheckedAt          time.Time       `json:"checked_at"`
	ManualVerifiedBy   *string         `gorm:"size:64" json:"manual_verified_by,omitempty"`
	ManualVerifiedNote *string         `json:"manual_verified_note,omitempty"`
	ManualVerifiedAt   *time.Time      `json:"manual_verified_at,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
}

// TableName specifies the table name for GORM
func (VerifiedPayment) TableName() string {
	return "verified_payments"
}
