package http

import "encoding/json"

type CreatePaymentRequestBody struct {
	UpiID         string `json:"upi_id" validate:"required,max=100"`
	Amount        string `json:"amount" validate:"required,numeric"`
	CustomerEmail string `json:"customer_email" validate:"omitempty,email"`
	BookingID     string `json:"booking_id" validate:"omitempty,uuid"`
}

type QuotePaymentBody struct {
	UpiID         string `json:"upi_id" validate:"required,max=100"`
	Total         string `json:"total" validate:"required,numeric"`
	CustomerEmail string `json:"customer_email" validate:"omitempty,email"`
}

type VerifyPaymentBody struct {
	TransactionRef string `json:"transaction_ref" validate:"required"`
	TransactionID  string `json:"transaction_id" validate:"required"`
	Amount         string `json:"amount" validate:"required,numeric"`
}

type ManualVerificationBody struct {
	Note string `json:"note" validate:"max=500"`
}

type CreateBookingBody struct {
	TransactionRef  string          `json:"transaction_ref" validate:"required"`
	EstablishmentID string          `json:"establishment_id" validate:"required"`
	VisitingDate    string          `json:"visiting_date" validate:"required,datetime=2006-01-02"`
	VisitingTime    string          `json:"visiting_time" validate:"required"`
	SelectedItems   json.RawMessage `json:"selected_items"`
	Amount          string          `json:"amount" validate:"required,numeric"`
}

type ReasonBody struct {
	Reason string `json:"reason" validate:"max=500"`
}

type CompleteBookingBody struct {
	QRCode string `json:"qr_code" validate:"required"`
}

type BankLedgerBody struct {
	TransactionID string `json:"transaction_id" validate:"required"`
	Amount        string `json:"amount" validate:"required,numeric"`
	Status        string `json:"status" validate:"required,oneof=SUCCESS PENDING FAILED"`
}
