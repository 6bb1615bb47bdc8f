package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/domain/entity"
	domainErrors "github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/domain/errors"
	"github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/infrastructure/bank"
	apperrors "github.com/abishekopennova-prog/opennova-backend-clean-sub001/pkg/errors"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestGeneratePaymentRequest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := f.request(t, "700.00")
	assert.Regexp(t, `^PAYREF[0-9A-F]{12}$`, req.TransactionRef)
	assert.Equal(t, f.clock.Now().Add(15*time.Minute), req.ExpiresAt)
	assert.Equal(t, entity.PaymentRequestStatusPending, req.Status)
	assert.NotEmpty(t, req.BookingID)
	assert.Equal(t, "user-1", req.PayerUserID)

	stored, err := f.pending.Get(ctx, req.TransactionRef)
	require.NoError(t, err)
	assert.True(t, stored.Amount.Equal(dec("700")))

	tests := []struct {
		name   string
		payer  entity.Payer
		upi    string
		amount string
	}{
		{"missing payer", entity.Payer{Email: "guest@example.com"}, "venue@upi", "700"},
		{"missing upi", guest, "", "700"},
		{"missing email", entity.Payer{UserID: "user-1"}, "venue@upi", "700"},
		{"zero amount", guest, "venue@upi", "0"},
		{"negative amount", guest, "venue@upi", "-5"},
		{"sub paise amount", guest, "venue@upi", "700.001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.verifier.GeneratePaymentRequest(ctx, tt.payer, tt.upi, dec(tt.amount), "")
			assert.Equal(t, apperrors.ErrInvalidArgument, apperrors.CodeOf(err))
		})
	}
}

func TestVerify_Success(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.request(t, "700.00")
	f.oracle.settles("A1B2C3D4E5F6", "700.00")

	payment, err := f.verifier.Verify(ctx, req.TransactionRef, "a1b2c3d4e5f6", dec("700.00"))
	require.NoError(t, err)
	assert.Equal(t, "A1B2C3D4E5F6", payment.UpiTransactionID)
	assert.Equal(t, req.BookingID, payment.BookingID)
	assert.Equal(t, entity.BankStatusSuccess, payment.VerificationInfo.BankStatus)

	_, err = f.pending.Get(ctx, req.TransactionRef)
	assert.ErrorIs(t, err, domainErrors.ErrPaymentRequestNotFound)

	exists, err := f.verified.ExistsByTxnID(ctx, "A1B2C3D4E5F6")
	require.NoError(t, err)
	assert.True(t, exists)

	assert.Equal(t, []entity.EventType{entity.EventPaymentVerified}, f.notifier.events())

	result := NewVerificationResult(payment, nil)
	assert.True(t, result.OK)
	assert.Equal(t, payment, result.Payment)
}

func TestVerify_AmountMustMatchExactly(t *testing.T) {
	tests := []struct {
		name      string
		claimed   string
		direction domainErrors.AmountDirection
	}{
		{"one paisa short", "699.99", domainErrors.DirectionUnder},
		{"one paisa over", "700.01", domainErrors.DirectionOver},
		{"one rupee short", "699", domainErrors.DirectionUnder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			req := f.request(t, "700.00")

			_, err := f.verifier.Verify(context.Background(), req.TransactionRef, "A1B2C3D4E5F6", dec(tt.claimed))
			var verr *domainErrors.VerificationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, domainErrors.ReasonAmountMismatch, verr.Reason)
			assert.Equal(t, tt.direction, verr.Direction)
			assert.Equal(t, apperrors.ErrAmountMismatch, apperrors.CodeOf(err))
			f.oracle.AssertNotCalled(t, "Lookup", mock.Anything, mock.Anything)
		})
	}

	t.Run("trailing zeros are the same amount", func(t *testing.T) {
		f := newFixture(t)
		req := f.request(t, "700.00")
		f.oracle.settles("A1B2C3D4E5F6", "700")

		_, err := f.verifier.Verify(context.Background(), req.TransactionRef, "A1B2C3D4E5F6", dec("700"))
		assert.NoError(t, err)
	})
}

func TestVerify_Idempotence(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.request(t, "700.00")
	f.oracle.settles("A1B2C3D4E5F6", "700.00")

	_, err := f.verifier.Verify(ctx, req.TransactionRef, "A1B2C3D4E5F6", dec("700.00"))
	require.NoError(t, err)

	_, err = f.verifier.Verify(ctx, req.TransactionRef, "A1B2C3D4E5F6", dec("700.00"))
	assert.True(t, domainErrors.HasReason(err, domainErrors.ReasonDuplicateTxn))
	assert.Equal(t, apperrors.ErrConflict, apperrors.CodeOf(err))
}

func TestVerify_TransactionIDReuseAcrossRequests(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.request(t, "700.00")
	second := f.request(t, "700.00")
	f.oracle.settles("A1B2C3D4E5F6", "700.00")

	_, err := f.verifier.Verify(ctx, first.TransactionRef, "A1B2C3D4E5F6", dec("700.00"))
	require.NoError(t, err)

	_, err = f.verifier.Verify(ctx, second.TransactionRef, "A1B2C3D4E5F6", dec("700.00"))
	assert.True(t, domainErrors.HasReason(err, domainErrors.ReasonDuplicateTxn))

	_, err = f.pending.Get(ctx, second.TransactionRef)
	assert.NoError(t, err, "a rejected claim leaves the request verifiable")
}

func TestVerify_Expiry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.request(t, "700.00")

	f.clock.Advance(16 * time.Minute)
	_, err := f.verifier.Verify(ctx, req.TransactionRef, "A1B2C3D4E5F6", dec("700.00"))
	assert.True(t, domainErrors.HasReason(err, domainErrors.ReasonExpired))
	assert.Equal(t, apperrors.ErrExpired, apperrors.CodeOf(err))

	_, err = f.pending.Get(ctx, req.TransactionRef)
	assert.ErrorIs(t, err, domainErrors.ErrPaymentRequestNotFound)

	_, err = f.verifier.Verify(ctx, req.TransactionRef, "A1B2C3D4E5F6", dec("700.00"))
	assert.True(t, domainErrors.HasReason(err, domainErrors.ReasonUnknownReference))
}

func TestVerify_ExactlyAtExpiryIsStillValid(t *testing.T) {
	f := newFixture(t)
	req := f.request(t, "700.00")
	f.oracle.settles("A1B2C3D4E5F6", "700.00")

	f.clock.Advance(15 * time.Minute)
	_, err := f.verifier.Verify(context.Background(), req.TransactionRef, "A1B2C3D4E5F6", dec("700.00"))
	assert.NoError(t, err)
}

func TestVerify_InvalidFormatIgnoresOracle(t *testing.T) {
	ids := []string{
		"SHORT1",
		"ABCDEFGHIJKLMN",
		"123456789012",
		"TEST12345ABC",
		"FAKE9X8Y7Z6W",
		"PAYREF1A2B3C4D",
		"AB123456CDEF",
		"A1A1A1A1A1A1",
		"AAAA1B2C3D4E",
		"A1B2-C3D4E5F6",
	}

	for _, id := range ids {
		t.Run(id, func(t *testing.T) {
			f := newFixture(t)
			req := f.request(t, "700.00")
			f.oracle.settles(id, "700.00")

			_, err := f.verifier.Verify(context.Background(), req.TransactionRef, id, dec("700.00"))
			assert.True(t, domainErrors.HasReason(err, domainErrors.ReasonInvalidFormat), "got %v", err)
			f.oracle.AssertNotCalled(t, "Lookup", mock.Anything, mock.Anything)
		})
	}
}

func TestVerify_UnknownReference(t *testing.T) {
	f := newFixture(t)
	_, err := f.verifier.Verify(context.Background(), "PAYREF000000000000", "A1B2C3D4E5F6", dec("700"))
	assert.True(t, domainErrors.HasReason(err, domainErrors.ReasonUnknownReference))
	assert.Equal(t, apperrors.ErrNotFound, apperrors.CodeOf(err))
}

func TestVerify_BankGate(t *testing.T) {
	tests := []struct {
		name     string
		lookup   *entity.BankLookup
		err      error
		reason   domainErrors.VerificationReason
		code     string
		external bool
	}{
		{
			name:   "not found",
			lookup: &entity.BankLookup{Found: false},
			reason: domainErrors.ReasonNotFoundAtBank,
			code:   apperrors.ErrNotFound,
		},
		{
			name:   "pending at bank",
			lookup: &entity.BankLookup{Found: true, Amount: dec("700"), Status: entity.BankStatusPending},
			reason: domainErrors.ReasonNotFoundAtBank,
			code:   apperrors.ErrNotFound,
		},
		{
			name:   "failed at bank",
			lookup: &entity.BankLookup{Found: true, Amount: dec("700"), Status: entity.BankStatusFailed},
			reason: domainErrors.ReasonNotFoundAtBank,
			code:   apperrors.ErrNotFound,
		},
		{
			name:   "bank amount lower",
			lookup: &entity.BankLookup{Found: true, Amount: dec("70"), Status: entity.BankStatusSuccess},
			reason: domainErrors.ReasonBankAmountMismatch,
			code:   apperrors.ErrAmountMismatch,
		},
		{
			name:     "oracle error fails closed",
			err:      errors.New("connection reset"),
			reason:   domainErrors.ReasonNotFoundAtBank,
			code:     apperrors.ErrExternalDependency,
			external: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			req := f.request(t, "700.00")
			if tt.lookup != nil {
				f.oracle.On("Lookup", mock.Anything, "A1B2C3D4E5F6").Return(tt.lookup, nil)
			} else {
				f.oracle.On("Lookup", mock.Anything, "A1B2C3D4E5F6").Return(nil, tt.err)
			}

			_, err := f.verifier.Verify(ctx, req.TransactionRef, "A1B2C3D4E5F6", dec("700.00"))
			assert.True(t, domainErrors.HasReason(err, tt.reason), "got %v", err)
			assert.Equal(t, tt.code, apperrors.CodeOf(err))

			var ext *domainErrors.ExternalDependencyError
			assert.Equal(t, tt.external, errors.As(err, &ext))

			_, err = f.pending.Get(ctx, req.TransactionRef)
			assert.NoError(t, err)
		})
	}
}

func TestVerify_OracleTimeout(t *testing.T) {
	f := newFixture(t)
	slow := bank.NewTimeoutOracle(f.oracle, 20*time.Millisecond, zap.NewNop())
	f.verifier.oracle = slow
	f.oracle.On("Lookup", mock.Anything, "A1B2C3D4E5F6").
		Run(func(args mock.Arguments) { <-args.Get(0).(context.Context).Done() }).
		Return(&entity.BankLookup{Found: true, Amount: dec("700"), Status: entity.BankStatusSuccess}, nil)

	req := f.request(t, "700.00")
	_, err := f.verifier.Verify(context.Background(), req.TransactionRef, "A1B2C3D4E5F6", dec("700.00"))
	assert.True(t, domainErrors.HasReason(err, domainErrors.ReasonNotFoundAtBank))
	assert.Equal(t, apperrors.ErrExternalDependency, apperrors.CodeOf(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestVerify_ConcurrentClaimsHaveOneWinner(t *testing.T) {
	f := newFixture(t)
	req := f.request(t, "700.00")
	f.oracle.settles("A1B2C3D4E5F6", "700.00")

	const workers = 16
	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.verifier.Verify(context.Background(), req.TransactionRef, "A1B2C3D4E5F6", dec("700.00"))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	wins := 0
	for err := range results {
		if err == nil {
			wins++
			continue
		}
		assert.True(t, domainErrors.HasReason(err, domainErrors.ReasonDuplicateTxn), "got %v", err)
	}
	assert.Equal(t, 1, wins)
}

func TestVerify_NotifierFailureIsIgnored(t *testing.T) {
	f := newFixture(t)
	f.notifier = new(MockNotifier)
	f.notifier.On("Notify", mock.Anything, mock.Anything).Return(errors.New("redis down"))
	f.verifier.notifier = f.notifier

	req := f.request(t, "700.00")
	f.oracle.settles("A1B2C3D4E5F6", "700.00")

	_, err := f.verifier.Verify(context.Background(), req.TransactionRef, "A1B2C3D4E5F6", dec("700.00"))
	assert.NoError(t, err)
	f.notifier.AssertCalled(t, "Notify", mock.Anything, mock.Anything)
}

func TestNewVerificationResult(t *testing.T) {
	result := NewVerificationResult(nil, domainErrors.NewAmountMismatchError(domainErrors.ReasonAmountMismatch, "claimed", dec("700"), dec("699.99")))
	assert.False(t, result.OK)
	assert.Equal(t, domainErrors.ReasonAmountMismatch, result.Reason)
	assert.Contains(t, result.Message, "underpayment")
	assert.Nil(t, result.Payment)

	result = NewVerificationResult(nil, errors.New("database unavailable"))
	assert.False(t, result.OK)
	assert.Empty(t, result.Reason)
}

func TestPaymentStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.oracle.settles("A1B2C3D4E5F6", "700.00")

	pending := f.request(t, "700.00")
	verified := f.request(t, "700.00")
	_, err := f.verifier.Verify(ctx, verified.TransactionRef, "A1B2C3D4E5F6", dec("700.00"))
	require.NoError(t, err)

	got, err := f.verifier.PaymentStatus(ctx, pending.TransactionRef)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentRequestStatusPending, got.Status)

	got, err = f.verifier.PaymentStatus(ctx, verified.TransactionRef)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentRequestStatusVerified, got.Status)

	got, err = f.verifier.PaymentStatus(ctx, "PAYREF0123456789AB")
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentRequestStatusNotFound, got.Status)

	f.clock.Advance(20 * time.Minute)
	got, err = f.verifier.PaymentStatus(ctx, pending.TransactionRef)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentRequestStatusExpired, got.Status)

	purged, err := f.verifier.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, purged)
}

func TestPaymentStatusForPayer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.oracle.settles("A1B2C3D4E5F6", "700.00")

	pending := f.request(t, "700.00")
	verified := f.request(t, "700.00")
	_, err := f.verifier.Verify(ctx, verified.TransactionRef, "A1B2C3D4E5F6", dec("700.00"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		ref   string
		payer string
		want  entity.PaymentRequestStatus
	}{
		{"payer sees pending", pending.TransactionRef, "user-1", entity.PaymentRequestStatusPending},
		{"payer sees verified", verified.TransactionRef, "user-1", entity.PaymentRequestStatusVerified},
		{"other user on pending", pending.TransactionRef, "user-2", entity.PaymentRequestStatusNotFound},
		{"other user on verified", verified.TransactionRef, "user-2", entity.PaymentRequestStatusNotFound},
		{"unknown reference", "PAYREF0123456789AB", "user-1", entity.PaymentRequestStatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.verifier.PaymentStatusForPayer(ctx, tt.ref, tt.payer)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Status)
			if tt.want == entity.PaymentRequestStatusNotFound {
				assert.Empty(t, got.CustomerEmail)
				assert.True(t, got.Amount.IsZero())
			}
		})
	}
}

func TestAnnotateManualVerification(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := f.request(t, "700.00")
	f.oracle.settles("A1B2C3D4E5F6", "700.00")
	_, err := f.verifier.Verify(ctx, req.TransactionRef, "A1B2C3D4E5F6", dec("700.00"))
	require.NoError(t, err)

	payment, err := f.verifier.AnnotateManualVerification(ctx, req.TransactionRef, "ops@venue", "statement checked")
	require.NoError(t, err)
	require.NotNil(t, payment.VerificationInfo.ManualVerification)
	assert.Equal(t, "ops@venue", payment.VerificationInfo.ManualVerification.VerifiedBy)

	_, err = f.verifier.AnnotateManualVerification(ctx, req.TransactionRef, " ", "")
	assert.Equal(t, apperrors.ErrInvalidArgument, apperrors.CodeOf(err))

	_, err = f.verifier.AnnotateManualVerification(ctx, "PAYREF0123456789AB", "ops@venue", "")
	assert.ErrorIs(t, err, domainErrors.ErrVerifiedPaymentNotFound)
}
