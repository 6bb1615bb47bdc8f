package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionRefPrefix starts every engine generated transaction reference.
const TransactionRefPrefix = "PAYREF"

// PaymentRequestTTL is how long a payment request stays verifiable.
const PaymentRequestTTL = 15 * time.Minute

// PaymentRequestStatus represents the lifecycle status of a payment request
type PaymentRequestStatus string

const (
	PaymentRequestStatusPending  PaymentRequestStatus = "PENDING"
	PaymentRequestStatusExpired  PaymentRequestStatus = "EXPIRED"
	PaymentRequestStatusVerified PaymentRequestStatus = "VERIFIED"
	PaymentRequestStatusNotFound PaymentRequestStatus = "NOT_FOUND"
)

// Payer identifies the customer a payment request is issued to.
type Payer struct {
	UserID string
	Email  string
}

// PaymentRequest is an outstanding request for an advance payment.
type PaymentRequest struct {
	TransactionRef string               `json:"transaction_ref"`
	PayerUserID    string               `json:"payer_user_id"`
	UpiID          string               `json:"upi_id"`
	Amount         decimal.Decimal      `json:"amount"`
	CustomerEmail  string               `json:"customer_email"`
	BookingID      string               `json:"booking_id"`
	CreatedAt      time.Time            `json:"created_at"`
	ExpiresAt      time.Time            `json:"expires_at"`
	Status         PaymentRequestStatus `json:"status"`
}

// IsExpired reports whether now is past the expiry instant.
func (r *PaymentRequest) IsExpired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}

// BankStatus is the settlement status reported by the bank.
type BankStatus string

const (
	BankStatusSuccess BankStatus = "SUCCESS"
	BankStatusPending BankStatus = "PENDING"
	BankStatusFailed  BankStatus = "FAILED"
)

func (s BankStatus) IsValid() bool {
	switch s {
	case BankStatusSuccess, BankStatusPending, BankStatusFailed:
		return true
	}
	return false
}

// BankLookup is the bank's answer for a claimed transaction id.
type BankLookup struct {
	Found  bool            `json:"found"`
	Amount decimal.Decimal `json:"amount"`
	Status BankStatus      `json:"status"`
}

// Settled reports whether the bank confirms the transaction as cleared.
func (l *BankLookup) Settled() bool {
	return l != nil && l.Found && l.Status == BankStatusSuccess
}

// ManualVerification records an operator's sign-off on a verified payment.
type ManualVerification struct {
	VerifiedBy string    `json:"verified_by"`
	Note       string    `json:"note,omitempty"`
	At         time.Time `json:"at"`
}

// VerificationInfo describes how a payment was verified.
type VerificationInfo struct {
	Method             string              `json:"method"`
	BankStatus         BankStatus          `json:"bank_status"`
	BankAmount         decimal.Decimal     `json:"bank_amount"`
	CheckedAt          time.Time           `json:"checked_at"`
	ManualVerification *ManualVerification `json:"manual_verification,omitempty"`
}

// VerifiedPayment is a payment that passed every verification step.
// It is immutable apart from the manual verification annotation.
type VerifiedPayment struct {
	TransactionRef   string           `json:"transaction_ref"`
	UpiTransactionID string           `json:"upi_transaction_id"`
	Amount           decimal.Decimal  `json:"amount"`
	VerifiedAt       time.Time        `json:"verified_at"`
	BookingID        string           `json:"booking_id"`
	PayerUserID      string           `json:"payer_user_id"`
	CustomerEmail    string           `json:"customer_email"`
	VerificationInfo VerificationInfo `json:"verification_info"`
}

// Clone returns a deep copy.
func (p *VerifiedPayment) Clone() *VerifiedPayment {
	c := *p
	if p.VerificationInfo.ManualVerification != nil {
		mv := *p.VerificationInfo.ManualVerification
		c.VerificationInfo.ManualVerification = &mv
	}
	return &c
}
