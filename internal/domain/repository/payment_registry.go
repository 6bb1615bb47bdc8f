package repository

import (
	"context"
	"time"

	"github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/domain/entity"
)

// PendingPaymentRegistry holds outstanding payment requests keyed by
// transaction reference. Implementations are safe for concurrent use and
// return copies, never shared pointers.
type PendingPaymentRegistry interface {
	Put(ctx context.Context, req *entity.PaymentRequest) error
	// Get returns errors.ErrPaymentRequestNotFound when absent. Expired
	// entries are still returned; expiry is the caller's decision.
	Get(ctx context.Context, ref string) (*entity.PaymentRequest, error)
	// Take atomically removes and returns the entry. Only one of several
	// concurrent callers gets it; the rest see ErrPaymentRequestNotFound.
	Take(ctx context.Context, ref string) (*entity.PaymentRequest, error)
	Remove(ctx context.Context, ref string) error
	List(ctx context.Context, match func(*entity.PaymentRequest) bool) ([]*entity.PaymentRequest, error)
	// PurgeExpired drops every entry expired at now and reports how many were removed.
	PurgeExpired(ctx context.Context, now time.Time) (int, error)
}

// VerifiedPaymentRegistry stores payments that passed verification.
// No two entries share a transaction reference or a UPI transaction id.
type VerifiedPaymentRegistry interface {
	// Save fails with errors.ErrVerifiedPaymentExists if either key is taken.
	Save(ctx context.Context, payment *entity.VerifiedPayment) error
	GetByRef(ctx context.Context, ref string) (*entity.VerifiedPayment, error)
	GetByTxnID(ctx context.Context, upiTxnID string) (*entity.VerifiedPayment, error)
	ExistsByTxnID(ctx context.Context, upiTxnID string) (bool, error)
	// Annotate attaches a manual verification record and returns the updated payment.
	Annotate(ctx context.Context, ref string, manual entity.ManualVerification) (*entity.VerifiedPayment, error)
	List(ctx context.Context, match func(*entity.VerifiedPayment) bool) ([]*entity.VerifiedPayment, error)
}
