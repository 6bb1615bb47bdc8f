package registry

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/domain/entity"
	domainErrors "github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/domain/errors"
)

func newRequest(ref string, createdAt time.Time) *entity.PaymentRequest {
	return &entity.PaymentRequest{
		TransactionRef: ref,
		UpiID:          "venue@upi",
		Amount:         decimal.RequireFromString("700"),
		CustomerEmail:  "guest@example.com",
		BookingID:      "booking-" + ref,
		CreatedAt:      createdAt,
		ExpiresAt:      createdAt.Add(entity.PaymentRequestTTL),
		Status:         entity.PaymentRequestStatusPending,
	}
}

func TestMemoryPendingRegistry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

	t.Run("put get take", func(t *testing.T) {
		reg := NewMemoryPendingRegistry()
		require.NoError(t, reg.Put(ctx, newRequest("PAYREF000000000001", now)))

		got, err := reg.Get(ctx, "PAYREF000000000001")
		require.NoError(t, err)
		assert.Equal(t, "booking-PAYREF000000000001", got.BookingID)

		got.Amount = decimal.Zero
		again, err := reg.Get(ctx, "PAYREF000000000001")
		require.NoError(t, err)
		assert.True(t, again.Amount.Equal(decimal.RequireFromString("700")), "registry must not share state with callers")

		taken, err := reg.Take(ctx, "PAYREF000000000001")
		require.NoError(t, err)
		assert.Equal(t, "PAYREF000000000001", taken.TransactionRef)

		_, err = reg.Get(ctx, "PAYREF000000000001")
		assert.ErrorIs(t, err, domainErrors.ErrPaymentRequestNotFound)
		_, err = reg.Take(ctx, "PAYREF000000000001")
		assert.ErrorIs(t, err, domainErrors.ErrPaymentRequestNotFound)
	})

	t.Run("list and purge", func(t *testing.T) {
		reg := NewMemoryPendingRegistry()
		require.NoError(t, reg.Put(ctx, newRequest("OLD", now.Add(-time.Hour))))
		require.NoError(t, reg.Put(ctx, newRequest("NEW", now)))

		all, err := reg.List(ctx, nil)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "OLD", all[0].TransactionRef)

		expired, err := reg.List(ctx, func(r *entity.PaymentRequest) bool { return r.IsExpired(now) })
		require.NoError(t, err)
		require.Len(t, expired, 1)

		n, err := reg.PurgeExpired(ctx, now)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		require.NoError(t, reg.Remove(ctx, "NEW"))
		left, err := reg.List(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, left)
	})

	t.Run("concurrent take has a single winner", func(t *testing.T) {
		reg := NewMemoryPendingRegistry()
		require.NoError(t, reg.Put(ctx, newRequest("RACE", now)))

		var wins int32
		var wg sync.WaitGroup
		for i := 0; i < 32; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := reg.Take(ctx, "RACE"); err == nil {
					atomic.AddInt32(&wins, 1)
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, int32(1), wins)
	})
}

func TestMemoryVerifiedRegistry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

	payment := func(ref, txn string) *entity.VerifiedPayment {
		return &entity.VerifiedPayment{
			TransactionRef:   ref,
			UpiTransactionID: txn,
			Amount:           decimal.RequireFromString("700"),
			VerifiedAt:       now,
			BookingID:        "booking-" + ref,
		}
	}

	t.Run("unique keys", func(t *testing.T) {
		reg := NewMemoryVerifiedRegistry()
		require.NoError(t, reg.Save(ctx, payment("REF1", "A1B2C3D4E5F6")))

		assert.ErrorIs(t, reg.Save(ctx, payment("REF2", "A1B2C3D4E5F6")), domainErrors.ErrVerifiedPaymentExists)
		assert.ErrorIs(t, reg.Save(ctx, payment("REF1", "Z9Y8X7W6V5U4")), domainErrors.ErrVerifiedPaymentExists)

		exists, err := reg.ExistsByTxnID(ctx, "A1B2C3D4E5F6")
		require.NoError(t, err)
		assert.True(t, exists)

		byTxn, err := reg.GetByTxnID(ctx, "A1B2C3D4E5F6")
		require.NoError(t, err)
		assert.Equal(t, "REF1", byTxn.TransactionRef)

		_, err = reg.GetByRef(ctx, "REF2")
		assert.ErrorIs(t, err, domainErrors.ErrVerifiedPaymentNotFound)
	})

	t.Run("annotate", func(t *testing.T) {
		reg := NewMemoryVerifiedRegistry()
		require.NoError(t, reg.Save(ctx, payment("REF1", "A1B2C3D4E5F6")))

		updated, err := reg.Annotate(ctx, "REF1", entity.ManualVerification{VerifiedBy: "admin", Note: "statement", At: now})
		require.NoError(t, err)
		require.NotNil(t, updated.VerificationInfo.ManualVerification)

		got, err := reg.GetByRef(ctx, "REF1")
		require.NoError(t, err)
		assert.Equal(t, "admin", got.VerificationInfo.ManualVerification.VerifiedBy)

		_, err = reg.Annotate(ctx, "MISSING", entity.ManualVerification{})
		assert.ErrorIs(t, err, domainErrors.ErrVerifiedPaymentNotFound)
	})

	t.Run("concurrent saves of one txn id", func(t *testing.T) {
		reg := NewMemoryVerifiedRegistry()
		var wins int32
		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				if err := reg.Save(ctx, payment(fmt.Sprintf("REF%d", i), "A1B2C3D4E5F6")); err == nil {
					atomic.AddInt32(&wins, 1)
				}
			}(i)
		}
		wg.Wait()
		assert.Equal(t, int32(1), wins)

		list, err := reg.List(ctx, nil)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})
}
