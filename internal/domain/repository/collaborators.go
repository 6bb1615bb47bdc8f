package repository

import (
	"context"

	"github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/domain/entity"
)

// BankVerificationOracle answers whether a claimed bank transaction exists
// and for how much it cleared.
type BankVerificationOracle interface {
	Lookup(ctx context.Context, txnID string) (*entity.BankLookup, error)
}

// Notifier delivers a notification. Callers treat failures as non-fatal.
type Notifier interface {
	Notify(ctx context.Context, n entity.Notification) error
}

// QRRenderer turns a QR token into an image.
type QRRenderer interface {
	RenderPNG(token string) ([]byte, error)
}
