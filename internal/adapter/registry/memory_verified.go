package registry

import (
	"context"
	"sort"
	"sync"

	"github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/domain/entity"
	domainErrors "github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/domain/errors"
	domainRepo "github.com/abishekopennova-prog/opennova-backend-clean-sub001/internal/domain/repository"
)

type memoryVerifiedRegistry struct {
	mu    sync.RWMutex
	byRef map[string]*entity.VerifiedPayment
	byTxn map[string]string
}

// NewMemoryVerifiedRegistry returns a process local verified payment registry.
func NewMemoryVerifiedRegistry() domainRepo.VerifiedPaymentRegistry {
	return &memoryVerifiedRegistry{
		byRef: make(map[string]*entity.VerifiedPayment),
		byTxn: make(map[string]string),
	}
}

func (r *memoryVerifiedRegistry) Save(ctx context.Context, payment *entity.VerifiedPayment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byRef[payment.TransactionRef]; ok {
		return domainErrors.ErrVerifiedPaymentExists
	}
	if _, ok := r.byTxn[payment.UpiTransactionID]; ok {
		return domainErrors.ErrVerifiedPaymentExists
	}
	r.byRef[payment.TransactionRef] = payment.Clone()
	r.byTxn[payment.UpiTransactionID] = payment.TransactionRef
	return nil
}

func (r *memoryVerifiedRegistry) GetByRef(ctx context.Context, ref string) (*entity.VerifiedPayment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byRef[ref]
	if !ok {
		return nil, domainErrors.ErrVerifiedPaymentNotFound
	}
	return p.Clone(), nil
}

func (r *memoryVerifiedRegistry) GetByTxnID(ctx context.Context, upiTxnID string) (*entity.VerifiedPayment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ref, ok := r.byTxn[upiTxnID]
	if !ok {
		return nil, domainErrors.ErrVerifiedPaymentNotFound
	}
	return r.byRef[ref].Clone(), nil
}

func (r *memoryVerifiedRegistry) ExistsByTxnID(ctx context.Context, upiTxnID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byTxn[upiTxnID]
	return ok, nil
}

func (r *memoryVerifiedRegistry) Annotate(ctx context.Context, ref string, manual entity.ManualVerification) (*entity.VerifiedPayment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byRef[ref]
	if !ok {
		return nil, domainErrors.ErrVerifiedPaymentNotFound
	}
	updated := p.Clone()
	updated.VerificationInfo.ManualVerification = &manual
	r.byRef[ref] = updated
	return updated.Clone(), nil
}

func (r *memoryVerifiedRegistry) List(ctx context.Context, match func(*entity.VerifiedPayment) bool) ([]*entity.VerifiedPayment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.VerifiedPayment, 0, len(r.byRef))
	for _, p := range r.byRef {
		c := p.Clone()
		if match == nil || match(c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VerifiedAt.Before(out[j].VerifiedAt) })
	return out, nil
}
