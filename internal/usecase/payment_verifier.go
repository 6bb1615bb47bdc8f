package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/domain/entity"
	domainErrors "github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/domain/errors"
	domainRepo "github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/domain/repository"
	"github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/domain/service"
	apperrors "github.com/abishekopennova-prog/opennova-backend-clean-sub001/pkg/errors"
)

// VerificationMethodBank marks payments confirmed by a bank lookup.
const VerificationMethodBank = "BANK_LOOKUP"

// VerificationResult is the caller facing outcome of a verification.
type VerificationResult struct {
	OK      bool                            `json:"ok"`
	Reason  domainErrors.VerificationReason `json:"reason,omitempty"`
	Message string                          `json:"message"`
	Payment *entity.VerifiedPayment         `json:"payment,omitempty"`
}

// NewVerificationResult converts the outcome of Verify into a VerificationResult.
func NewVerificationResult(payment *entity.VerifiedPayment, err error) VerificationResult {
	if err == nil {
		return VerificationResult{OK: true, Message: "payment verified", Payment: payment}
	}
	var verr *domainErrors.VerificationError
	if errors.As(err, &verr) {
		return VerificationResult{Reason: verr.Reason, Message: verr.Message}
	}
	return VerificationResult{Message: err.Error()}
}

// PaymentVerifier issues payment requests and verifies claimed payments
// against them.
type PaymentVerifier struct {
	pending  domainRepo.PendingPaymentRegistry
	verified domainRepo.VerifiedPaymentRegistry
	oracle   domainRepo.BankVerificationOracle
	notifier domainRepo.Notifier
	clock    service.Clock
	logger   *zap.Logger
}

// NewPaymentVerifier creates a new payment verifier
func NewPaymentVerifier(
	pending domainRepo.PendingPaymentRegistry,
	verified domainRepo.VerifiedPaymentRegistry,
	oracle domainRepo.BankVerificationOracle,
	notifier domainRepo.Notifier,
	clock service.Clock,
	logger *zap.Logger,
) *PaymentVerifier {
	return &PaymentVerifier{
		pending:  pending,
		verified: verified,
		oracle:   oracle,
		notifier: notifier,
		clock:    clock,
		logger:   logger,
	}
}

// GeneratePaymentRequest registers a request for amount, valid for
// entity.PaymentRequestTTL. An empty bookingIntentID gets a fresh one. Only
// the payer can later book against the verified payment.
func (v *PaymentVerifier) GeneratePaymentRequest(ctx context.Context, payer entity.Payer, upiID string, amount decimal.Decimal, bookingIntentID string) (*entity.PaymentRequest, error) {
	upiID = strings.TrimSpace(upiID)
	payerUserID := strings.TrimSpace(payer.UserID)
	customerEmail := strings.TrimSpace(payer.Email)

	if payerUserID == "" {
		return nil, domainErrors.Invalid("payer user id is required")
	}
	if upiID == "" {
		return nil, domainErrors.Invalid("upi id is required")
	}
	if customerEmail == "" {
		return nil, domainErrors.Invalid("customer email is required")
	}
	if !amount.IsPositive() {
		return nil, domainErrors.Invalid("amount must be positive")
	}
	if !amount.Equal(amount.Round(2)) {
		return nil, domainErrors.Invalid("amount must have at most two decimal places")
	}
	if bookingIntentID == "" {
		bookingIntentID = uuid.NewString()
	}

	now := v.clock.Now()
	req := &entity.PaymentRequest{
		TransactionRef: service.NewTransactionRef(),
		PayerUserID:    payerUserID,
		UpiID:          upiID,
		Amount:         amount,
		CustomerEmail:  customerEmail,
		BookingID:      bookingIntentID,
		CreatedAt:      now,
		ExpiresAt:      now.Add(entity.PaymentRequestTTL),
		Status:         entity.PaymentRequestStatusPending,
	}

	if err := v.pending.Put(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to register payment request: %w", err)
	}

	v.logger.Info("Payment request created",
		zap.String("transaction_ref", req.TransactionRef),
		zap.String("booking_id", req.BookingID),
		zap.String("amount", req.Amount.StringFixed(2)),
		zap.Time("expires_at", req.ExpiresAt))

	return req, nil
}

// Verify runs the claimed payment through every gate in order and returns the
// verified payment. Any failure is a *VerificationError naming the gate.
func (v *PaymentVerifier) Verify(ctx context.Context, transactionRef, claimedTxnID string, claimedAmount decimal.Decimal) (*entity.VerifiedPayment, error) {
	payment, err := v.verify(ctx, transactionRef, claimedTxnID, claimedAmount)
	if err != nil {
		reason, _ := domainErrors.ReasonOf(err)
		v.logger.Info("Payment verification rejected",
			zap.String("transaction_ref", transactionRef),
			zap.String("reason", string(reason)),
			zap.Error(err))
		return nil, err
	}

	v.logger.Info("Payment verified",
		zap.String("transaction_ref", payment.TransactionRef),
		zap.String("booking_id", payment.BookingID),
		zap.String("amount", payment.Amount.StringFixed(2)))

	v.notify(ctx, entity.Notification{
		Event:         entity.EventPaymentVerified,
		BookingID:     payment.BookingID,
		CustomerEmail: payment.CustomerEmail,
		Payload: map[string]interface{}{
			"transaction_ref": payment.TransactionRef,
			"amount":          payment.Amount.StringFixed(2),
		},
		OccurredAt: payment.VerifiedAt,
	})
	return payment, nil
}

func (v *PaymentVerifier) verify(ctx context.Context, transactionRef, claimedTxnID string, claimedAmount decimal.Decimal) (*entity.VerifiedPayment, error) {
	// Step 1: known reference
	req, err := v.pending.Get(ctx, transactionRef)
	if errors.Is(err, domainErrors.ErrPaymentRequestNotFound) {
		if _, verr := v.verified.GetByRef(ctx, transactionRef); verr == nil {
			return nil, domainErrors.NewVerificationError(domainErrors.ReasonDuplicateTxn,
				"payment for this reference was already verified", nil)
		}
		return nil, domainErrors.NewVerificationError(domainErrors.ReasonUnknownReference,
			"no payment request for this reference", nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load payment request: %w", err)
	}

	// Step 2: not expired; expired requests are evicted
	now := v.clock.Now()
	if req.IsExpired(now) {
		if err := v.pending.Remove(ctx, transactionRef); err != nil && !errors.Is(err, domainErrors.ErrPaymentRequestNotFound) {
			v.logger.Warn("Failed to evict expired payment request",
				zap.String("transaction_ref", transactionRef), zap.Error(err))
		}
		return nil, domainErrors.NewVerificationError(domainErrors.ReasonExpired,
			fmt.Sprintf("payment request expired at %s", req.ExpiresAt.Format("2006-01-02T15:04:05Z07:00")), nil)
	}

	// Step 3: claimed amount is exactly the requested amount
	if !claimedAmount.Equal(req.Amount) {
		return nil, domainErrors.NewAmountMismatchError(domainErrors.ReasonAmountMismatch, "claimed", req.Amount, claimedAmount)
	}

	// Step 4: plausible transaction id
	txnID, err := service.ValidateTransactionID(claimedTxnID)
	if err != nil {
		return nil, err
	}

	// Step 5: transaction id not used before
	exists, err := v.verified.ExistsByTxnID(ctx, txnID)
	if err != nil {
		return nil, fmt.Errorf("failed to check transaction id: %w", err)
	}
	if exists {
		return nil, domainErrors.NewVerificationError(domainErrors.ReasonDuplicateTxn,
			"transaction id was already used for another payment", nil)
	}

	// Step 6: bank confirms settlement of the same amount
	lookup, err := v.oracle.Lookup(ctx, txnID)
	if err != nil {
		var ext *domainErrors.ExternalDependencyError
		if !errors.As(err, &ext) {
			err = domainErrors.NewExternalDependencyError("bank", err)
		}
		return nil, domainErrors.NewVerificationError(domainErrors.ReasonNotFoundAtBank,
			"bank could not confirm the transaction", err)
	}
	if !lookup.Settled() {
		msg := "transaction not found at bank"
		if lookup.Found {
			msg = fmt.Sprintf("transaction status at bank is %s", lookup.Status)
		}
		return nil, domainErrors.NewVerificationError(domainErrors.ReasonNotFoundAtBank, msg, nil)
	}
	if !lookup.Amount.Equal(req.Amount) {
		return nil, domainErrors.NewAmountMismatchError(domainErrors.ReasonBankAmountMismatch, "bank", req.Amount, lookup.Amount)
	}

	// Step 7: consume the request and record the payment
	taken, err := v.pending.Take(ctx, transactionRef)
	if errors.Is(err, domainErrors.ErrPaymentRequestNotFound) {
		return nil, domainErrors.NewVerificationError(domainErrors.ReasonDuplicateTxn,
			"payment request was consumed by a concurrent verification", nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to consume payment request: %w", err)
	}

	payment := &entity.VerifiedPayment{
		TransactionRef:   taken.TransactionRef,
		UpiTransactionID: txnID,
		Amount:           taken.Amount,
		VerifiedAt:       now,
		BookingID:        taken.BookingID,
		PayerUserID:      taken.PayerUserID,
		CustomerEmail:    taken.CustomerEmail,
		VerificationInfo: entity.VerificationInfo{
			Method:     VerificationMethodBank,
			BankStatus: lookup.Status,
			BankAmount: lookup.Amount,
			CheckedAt:  now,
		},
	}

	if err := v.verified.Save(ctx, payment); err != nil {
		if perr := v.pending.Put(ctx, taken); perr != nil {
			v.logger.Error("Failed to restore payment request",
				zap.String("transaction_ref", transactionRef), zap.Error(perr))
		}
		if errors.Is(err, domainErrors.ErrVerifiedPaymentExists) {
			return nil, domainErrors.NewVerificationError(domainErrors.ReasonDuplicateTxn,
				"transaction id was already used for another payment", nil)
		}
		return nil, fmt.Errorf("failed to record verified payment: %w", err)
	}

	return payment, nil
}

// PaymentStatus reports the state of a payment request. Unknown references
// come back with status NOT_FOUND rather than an error.
func (v *PaymentVerifier) PaymentStatus(ctx context.Context, transactionRef string) (*entity.PaymentRequest, error) {
	req, err := v.pending.Get(ctx, transactionRef)
	switch {
	case err == nil:
		req.Status = entity.PaymentRequestStatusPending
		if req.IsExpired(v.clock.Now()) {
			req.Status = entity.PaymentRequestStatusExpired
		}
		return req, nil
	case !errors.Is(err, domainErrors.ErrPaymentRequestNotFound):
		return nil, fmt.Errorf("failed to load payment request: %w", err)
	}

	payment, err := v.verified.GetByRef(ctx, transactionRef)
	switch {
	case err == nil:
		return &entity.PaymentRequest{
			TransactionRef: payment.TransactionRef,
			PayerUserID:    payment.PayerUserID,
			Amount:         payment.Amount,
			CustomerEmail:  payment.CustomerEmail,
			BookingID:      payment.BookingID,
			Status:         entity.PaymentRequestStatusVerified,
		}, nil
	case errors.Is(err, domainErrors.ErrVerifiedPaymentNotFound):
		return &entity.PaymentRequest{
			TransactionRef: transactionRef,
			Status:         entity.PaymentRequestStatusNotFound,
		}, nil
	default:
		return nil, fmt.Errorf("failed to load verified payment: %w", err)
	}
}

// PaymentStatusForPayer is PaymentStatus restricted to payerUserID. Requests
// issued to someone else are reported as NOT_FOUND.
func (v *PaymentVerifier) PaymentStatusForPayer(ctx context.Context, transactionRef, payerUserID string) (*entity.PaymentRequest, error) {
	req, err := v.PaymentStatus(ctx, transactionRef)
	if err != nil {
		return nil, err
	}
	if req.Status != entity.PaymentRequestStatusNotFound && req.PayerUserID != payerUserID {
		return &entity.PaymentRequest{
			TransactionRef: transactionRef,
			Status:         entity.PaymentRequestStatusNotFound,
		}, nil
	}
	return req, nil
}

// AnnotateManualVerification records an operator's sign-off on a verified payment.
func (v *PaymentVerifier) AnnotateManualVerification(ctx context.Context, transactionRef, verifiedBy, note string) (*entity.VerifiedPayment, error) {
	if strings.TrimSpace(verifiedBy) == "" {
		return nil, domainErrors.Invalid("verified_by is required")
	}

	payment, err := v.verified.Annotate(ctx, transactionRef, entity.ManualVerification{
		VerifiedBy: verifiedBy,
		Note:       note,
		At:         v.clock.Now(),
	})
	if err != nil {
		return nil, err
	}

	v.logger.Info("Manual verification recorded",
		zap.String("transaction_ref", transactionRef),
		zap.String("verified_by", verifiedBy))
	return payment, nil
}

// PurgeExpired drops expired pending requests.
func (v *PaymentVerifier) PurgeExpired(ctx context.Context) (int, error) {
	n, err := v.pending.PurgeExpired(ctx, v.clock.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired payment requests: %w", err)
	}
	return n, nil
}

func (v *PaymentVerifier) notify(ctx context.Context, n entity.Notification) {
	if err := v.notifier.Notify(ctx, n); err != nil {
		apperrors.LogError(v.logger, err, "Notification failed", zap.String("event", string(n.Event)))
	}
}
